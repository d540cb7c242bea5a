package mapper

import (
	"cmp"
	"fmt"
	"math/big"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"vpack-mapper/kind"
	"vpack-mapper/vpack"
)

// serializer is the state of one Serialize call.
type serializer struct {
	vp    *VPack
	b     *vpack.Builder
	depth int
	trail
}

// trail tracks the path of the node being mapped and remembers where the
// first failure happened.
type trail struct {
	path    []string
	failed  bool
	errPath string
}

func (t *trail) push(seg string) { t.path = append(t.path, seg) }
func (t *trail) pop()            { t.path = t.path[:len(t.path)-1] }

func (t *trail) fail(err error) error {
	if !t.failed {
		t.failed = true
		t.errPath = strings.TrimPrefix(strings.Join(t.path, ""), ".")
	}

	return err
}

func fieldSeg(name string) string { return "." + name }
func indexSeg(i int) string       { return "[" + strconv.Itoa(i) + "]" }
func keySeg(key string) string    { return "[" + key + "]" }

func (s *serializer) value(key Key, v reflect.Value, declared reflect.Type) error {
	s.depth++
	defer func() { s.depth-- }()

	if s.depth > s.vp.cfg.maxDepth {
		return s.fail(fmt.Errorf("%w: deeper than %d levels", ErrMaxDepthExceeded, s.vp.cfg.maxDepth))
	}

	if err := s.dispatch(key, v, declared); err != nil {
		return s.fail(err)
	}

	return nil
}

// nested continues a serialization on behalf of a custom serializer that
// delegated v back to the mapper.
func (s *serializer) nested(key Key, v reflect.Value, t reflect.Type) error {
	n := len(s.path)
	if key.IsKeyed() {
		s.push(fieldSeg(key.Name()))
	}

	err := s.value(key, v, t)
	s.path = s.path[:n]

	return err
}

func (s *serializer) dispatch(key Key, v reflect.Value, t reflect.Type) error {
	if !v.IsValid() || isNil(v) {
		return key.Add(s.b, vpack.NullValue())
	}

	// the runtime type decides for values held in interfaces
	if v.Kind() == reflect.Interface {
		v = v.Elem()
		if isNil(v) {
			return key.Add(s.b, vpack.NullValue())
		}
	}

	if t == nil || t.Kind() == reflect.Interface {
		t = v.Type()
	} else if v.Type() != t {
		if !v.Type().AssignableTo(t) {
			return fmt.Errorf("%w: value of type %s declared as %s", ErrUnsupportedType, v.Type(), t)
		}
		t = v.Type()
	}

	if fn, ok := s.vp.reg.LookupSerializer(t); ok {
		open := s.b.Depth()
		if err := fn(s.b, key, v); err != nil {
			return err
		}
		if depth := s.b.Depth(); depth != open {
			return fmt.Errorf("%w: serializer for %s left builder depth %d, want %d", ErrUnbalancedCodec, t, depth, open)
		}
		return nil
	}

	switch k := s.vp.kindOf(t); k {
	case kind.Pointer:
		return s.dispatch(key, v.Elem(), t.Elem())
	case kind.Enum:
		table, _ := s.vp.reg.LookupEnum(t)
		name, ok := table.Name(v)
		if !ok {
			return fmt.Errorf("%w: %v is not a registered constant of %s", ErrUnknownEnumConstant, v.Interface(), t)
		}
		return key.Add(s.b, vpack.StringValue(name))
	case kind.Bool:
		return key.Add(s.b, vpack.BoolValue(v.Bool()))
	case kind.Int, kind.Int8, kind.Int16, kind.Int32, kind.Int64:
		return key.Add(s.b, vpack.IntValue(v.Int()))
	case kind.Uint, kind.Uint8, kind.Uint16, kind.Uint32, kind.Uint64:
		return key.Add(s.b, vpack.UIntValue(v.Uint()))
	case kind.Float32, kind.Float64:
		return key.Add(s.b, vpack.DoubleValue(v.Float()))
	case kind.String:
		return key.Add(s.b, vpack.StringValue(v.String()))
	case kind.BigInt:
		return key.Add(s.b, vpack.BigIntValue(addressable(v).Addr().Interface().(*big.Int)))
	case kind.BigFloat:
		return key.Add(s.b, vpack.BigFloatValue(addressable(v).Addr().Interface().(*big.Float)))
	case kind.Time:
		return key.Add(s.b, vpack.DateValue(v.Interface().(time.Time)))
	case kind.Bytes:
		return key.Add(s.b, vpack.BinaryValue(v.Bytes()))
	case kind.Array, kind.Slice:
		return s.array(key, v, t.Elem())
	case kind.Set:
		return s.set(key, v, t.Key())
	case kind.Map:
		if s.vp.keys.IsStringable(t.Key()) {
			return s.object(key, v, t.Elem())
		}
		return s.pairs(key, v, t.Key(), t.Elem())
	case kind.Struct:
		return s.structure(key, v, t)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

func (s *serializer) array(key Key, v reflect.Value, elem reflect.Type) error {
	if err := key.Add(s.b, vpack.OpenArray()); err != nil {
		return err
	}

	for i := 0; i < v.Len(); i++ {
		s.push(indexSeg(i))
		if err := s.value(Key{}, v.Index(i), elem); err != nil {
			return err
		}
		s.pop()
	}

	return s.b.Close()
}

func (s *serializer) set(key Key, v reflect.Value, elem reflect.Type) error {
	if err := key.Add(s.b, vpack.OpenArray()); err != nil {
		return err
	}

	members := v.MapKeys()
	sortValues(members, func(m reflect.Value) reflect.Value { return m })

	for i, m := range members {
		s.push(indexSeg(i))
		if err := s.value(Key{}, m, elem); err != nil {
			return err
		}
		s.pop()
	}

	return s.b.Close()
}

type entry struct {
	key, value reflect.Value
	name       string
}

func mapEntries(v reflect.Value) []entry {
	entries := make([]entry, 0, v.Len())
	for iter := v.MapRange(); iter.Next(); {
		entries = append(entries, entry{key: iter.Key(), value: iter.Value()})
	}

	return entries
}

// object writes a map with stringable keys as an object node.
func (s *serializer) object(key Key, v reflect.Value, elem reflect.Type) error {
	entries := mapEntries(v)
	for i := range entries {
		name, err := s.vp.keys.KeyToString(entries[i].key)
		if err != nil {
			return err
		}
		entries[i].name = name
	}

	sortValues(entries, func(e entry) reflect.Value { return e.key })

	if err := key.Add(s.b, vpack.OpenObject()); err != nil {
		return err
	}

	for _, e := range entries {
		s.push(keySeg(e.name))
		if err := s.value(Keyed(e.name), e.value, elem); err != nil {
			return err
		}
		s.pop()
	}

	return s.b.Close()
}

// pairs writes a map whose keys are not stringable as an array of
// {key, value} objects.
func (s *serializer) pairs(key Key, v reflect.Value, keyT, elem reflect.Type) error {
	entries := mapEntries(v)
	sortValues(entries, func(e entry) reflect.Value { return e.key })

	if err := key.Add(s.b, vpack.OpenArray()); err != nil {
		return err
	}

	for i, e := range entries {
		s.push(indexSeg(i))
		if err := s.b.Add(vpack.OpenObject()); err != nil {
			return err
		}

		if err := s.value(Keyed("key"), e.key, keyT); err != nil {
			return err
		}

		if err := s.value(Keyed("value"), e.value, elem); err != nil {
			return err
		}

		if err := s.b.Close(); err != nil {
			return err
		}
		s.pop()
	}

	return s.b.Close()
}

func (s *serializer) structure(key Key, v reflect.Value, t reflect.Type) error {
	if isBinder(t) {
		return s.bound(key, addressable(v))
	}

	fields, err := s.vp.fields.Fields(t)
	if err != nil {
		return err
	}

	if err := key.Add(s.b, vpack.OpenObject()); err != nil {
		return err
	}

	for _, fd := range fields {
		s.push(fieldSeg(fd.Name))

		fv, ok := fieldValue(v, fd.Index)
		if !ok {
			fv = reflect.Value{}
		}

		if err := s.value(Keyed(fd.Name), fv, fd.Type); err != nil {
			return err
		}
		s.pop()
	}

	return s.b.Close()
}

func (s *serializer) bound(key Key, v reflect.Value) error {
	if err := key.Add(s.b, vpack.OpenObject()); err != nil {
		return err
	}

	for _, fb := range bindings(v) {
		s.push(fieldSeg(fb.Name))

		if fb.Get == nil {
			return s.fail(fmt.Errorf("%w: no getter for %q", ErrMissingAccessor, fb.Name))
		}

		if err := s.value(Keyed(fb.Name), reflect.ValueOf(fb.Get()), fb.Type); err != nil {
			return err
		}
		s.pop()
	}

	return s.b.Close()
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

// sortValues orders items by their key values so map output is
// deterministic: numbers numerically, strings and booleans by text, anything
// else by its printed form.
func sortValues[T any](items []T, keyOf func(T) reflect.Value) {
	slices.SortStableFunc(items, func(a, b T) int {
		return compareValues(keyOf(a), keyOf(b))
	})
}

func compareValues(a, b reflect.Value) int {
	if a.Kind() == reflect.Interface {
		a = a.Elem()
	}
	if b.Kind() == reflect.Interface {
		b = b.Elem()
	}

	if a.IsValid() && b.IsValid() && a.Kind() == b.Kind() {
		switch a.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return cmp.Compare(a.Int(), b.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return cmp.Compare(a.Uint(), b.Uint())
		case reflect.Float32, reflect.Float64:
			return cmp.Compare(a.Float(), b.Float())
		case reflect.String:
			return cmp.Compare(a.String(), b.String())
		}
	}

	return cmp.Compare(printed(a), printed(b))
}

func printed(v reflect.Value) string {
	if !v.IsValid() {
		return "<nil>"
	}

	return fmt.Sprintf("%v", v.Interface())
}
