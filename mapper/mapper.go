package mapper

import (
	"errors"
	"reflect"
	"sync"

	"vpack-mapper/kind"
	"vpack-mapper/vpack"
)

// VPack maps Go values to value trees and back. Its configuration and
// registry are fixed by New and it is safe for concurrent use.
type VPack struct {
	reg    *Registry
	cfg    config
	fields *fieldWalker
	keys   keyCodec

	// serializations in progress, by builder
	active sync.Map
}

// New snapshots reg (nil means no custom codecs) and returns a ready mapper.
func New(reg *Registry, opts ...Option) *VPack {
	if reg == nil {
		reg = NewRegistry()
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	snapshot := reg.Clone()
	vp := &VPack{
		reg:    snapshot,
		cfg:    cfg,
		fields: newFieldWalker(cfg.naming, cfg.fieldTag, snapshot),
		keys:   keyCodec{reg: snapshot},
	}

	log.Trace("mapper created",
		"serializers", len(snapshot.serializers),
		"deserializers", len(snapshot.deserializers),
		"factories", len(snapshot.factories),
		"enums", len(snapshot.enums),
		"max depth", cfg.maxDepth,
		"naming", cfg.naming.String(),
	)

	return vp
}

func (vp *VPack) kindOf(t reflect.Type) kind.Kind {
	if _, ok := vp.reg.LookupEnum(t); ok {
		return kind.Enum
	}

	return kind.FromReflectType(t)
}

// KindOf classifies t the way the mapper dispatches on it.
func (vp *VPack) KindOf(t reflect.Type) kind.Kind {
	return vp.kindOf(t)
}

// Fields lists the attributes a struct type is mapped with.
func (vp *VPack) Fields(t reflect.Type) ([]FieldDescriptor, error) {
	return vp.fields.Fields(t)
}

// IsStringable reports whether map keys of type t become object keys.
func (vp *VPack) IsStringable(t reflect.Type) bool {
	return vp.keys.IsStringable(t)
}

// KeyToString renders a map key the way it is written into object nodes.
func (vp *VPack) KeyToString(key any) (string, error) {
	v := reflect.ValueOf(key)
	if !v.IsValid() {
		return "", &KeyTypeError{Key: "<nil>", Reason: "nil key"}
	}

	return vp.keys.KeyToString(v)
}

// StringToKey parses an object key into a map key of type t.
func (vp *VPack) StringToKey(s string, t reflect.Type) (any, error) {
	v, err := vp.keys.StringToKey(s, t)
	if err != nil {
		return nil, err
	}

	return v.Interface(), nil
}

func (vp *VPack) builderOptions() []vpack.BuilderOption {
	if vp.cfg.keys == nil {
		return nil
	}

	return []vpack.BuilderOption{vpack.WithKeyTranslator(vp.cfg.keys)}
}

// Serialize builds the value tree of v.
func (vp *VPack) Serialize(v any) (vpack.Slice, error) {
	b := vpack.NewBuilder(vp.builderOptions()...)
	if err := vp.SerializeInto(b, Key{}, v); err != nil {
		return vpack.Slice{}, err
	}

	s, err := b.Slice()
	if err != nil {
		return vpack.Slice{}, &ParserError{Op: opSerialize, Err: err}
	}

	return s, nil
}

// SerializeInto writes v into an existing builder under key. Custom
// serializers use it to delegate nested values back to the mapper; such
// nested calls share the depth budget and error path of the enclosing
// Serialize.
func (vp *VPack) SerializeInto(b *vpack.Builder, key Key, v any) error {
	rv := reflect.ValueOf(v)
	var t reflect.Type
	if rv.IsValid() {
		t = rv.Type()
	}

	if cur, ok := vp.active.Load(b); ok {
		return cur.(*serializer).nested(key, rv, t)
	}

	s := &serializer{vp: vp, b: b}
	vp.active.Store(b, s)
	defer vp.active.Delete(b)

	if err := s.value(key, rv, t); err != nil {
		var perr *ParserError
		if errors.As(err, &perr) {
			return err
		}

		return &ParserError{Op: opSerialize, Path: s.errPath, Err: err}
	}

	return nil
}

// Deserialize reads s into the value out points to. On failure out is left
// unchanged.
func (vp *VPack) Deserialize(s vpack.Slice, out any) error {
	rv := reflect.ValueOf(out)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &ParserError{Op: opDeserialize, Err: ErrInvalidTarget}
	}

	v, err := vp.decode(s, rv.Type().Elem())
	if err != nil {
		return err
	}

	rv.Elem().Set(v)
	return nil
}

func (vp *VPack) decode(s vpack.Slice, t reflect.Type) (reflect.Value, error) {
	kt := vp.cfg.keys
	if kt == nil {
		kt = s.KeyTranslator()
	} else {
		s = s.WithKeyTranslator(kt)
	}

	d := &deserializer{vp: vp, kt: kt}
	v, err := d.decode(s, t)
	if err != nil {
		var perr *ParserError
		if errors.As(err, &perr) {
			return reflect.Value{}, err
		}

		return reflect.Value{}, &ParserError{Op: opDeserialize, Path: d.errPath, Err: err}
	}

	return v, nil
}

// DeserializeAs reads s as a value of type T.
func DeserializeAs[T any](vp *VPack, s vpack.Slice) (T, error) {
	var out T
	if err := vp.Deserialize(s, &out); err != nil {
		return out, err
	}

	return out, nil
}
