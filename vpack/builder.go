package vpack

import "fmt"

// Builder accumulates a single tree through an open/append/close discipline.
// Every OpenArray or OpenObject value must be matched by exactly one Close
// after its children; protocol violations are returned as errors and leave
// the builder unchanged.
type Builder struct {
	keys  KeyTranslator
	root  *node
	stack []*node
	seen  []map[string]struct{}
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithKeyTranslator stores object keys known to kt as integer key codes.
func WithKeyTranslator(kt KeyTranslator) BuilderOption {
	return func(b *Builder) {
		b.keys = kt
	}
}

func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Depth returns the number of currently open compounds.
func (b *Builder) Depth() int {
	return len(b.stack)
}

// Add appends an unkeyed value: the root value, or an element of the open array.
func (b *Builder) Add(v Value) error {
	if v.err != nil {
		return v.err
	}

	if len(b.stack) == 0 {
		if b.root != nil {
			return fmt.Errorf("%w: builder already holds a %s root", ErrUnexpectedValue, b.root.typ)
		}

		b.root = v.node()
		b.push(b.root)

		return nil
	}

	top := b.stack[len(b.stack)-1]
	if top.typ == Object {
		return fmt.Errorf("%w: %s value without a key", ErrNeedOpenObject, v.typ)
	}

	n := v.node()
	top.items = append(top.items, n)
	b.push(n)

	return nil
}

// AddKeyed appends value v under key to the open object.
func (b *Builder) AddKeyed(key string, v Value) error {
	if v.err != nil {
		return v.err
	}

	if len(b.stack) == 0 {
		return fmt.Errorf("%w: key %q", ErrNeedOpenObject, key)
	}

	top := b.stack[len(b.stack)-1]
	if top.typ != Object {
		return fmt.Errorf("%w: key %q inside an array", ErrUnexpectedValue, key)
	}

	seen := b.seen[len(b.seen)-1]
	if _, dup := seen[key]; dup {
		return fmt.Errorf("%w: %q", ErrKeyAlreadyWritten, key)
	}
	seen[key] = struct{}{}

	keyNode := &node{typ: String, s: key}
	if b.keys != nil {
		if code, ok := b.keys.ToKey(key); ok {
			keyNode = &node{typ: Int, i: code}
		}
	}

	n := v.node()
	top.keys = append(top.keys, keyNode)
	top.items = append(top.items, n)
	b.push(n)

	return nil
}

func (b *Builder) push(n *node) {
	if !n.typ.IsCompound() {
		return
	}

	b.stack = append(b.stack, n)

	var seen map[string]struct{}
	if n.typ == Object {
		seen = make(map[string]struct{})
	}
	b.seen = append(b.seen, seen)
}

// Close finishes the innermost open array or object.
func (b *Builder) Close() error {
	if len(b.stack) == 0 {
		return ErrNeedOpenCompound
	}

	b.stack = b.stack[:len(b.stack)-1]
	b.seen = b.seen[:len(b.seen)-1]

	return nil
}

// Slice returns the completed tree. An empty builder yields a None slice.
func (b *Builder) Slice() (Slice, error) {
	if len(b.stack) > 0 {
		return Slice{}, fmt.Errorf("%w: %d still open", ErrBuilderNotClosed, len(b.stack))
	}

	if b.root == nil {
		return Slice{keys: b.keys}, nil
	}

	return Slice{n: b.root, keys: b.keys}, nil
}
