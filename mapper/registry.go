package mapper

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("mapper")

// Registry holds the custom codecs consulted before structural mapping.
// Registrations are keyed by exact type; a later registration for the same
// type and kind replaces the earlier one.
//
// A Registry is not safe for concurrent mutation. New clones it, so the
// registry may keep changing after a VPack was built without affecting it.
type Registry struct {
	serializers   map[reflect.Type]SerializerFunc
	deserializers map[reflect.Type]DeserializerFunc
	factories     map[reflect.Type]InstanceFactory
	enums         map[reflect.Type]*EnumTable
}

func NewRegistry() *Registry {
	return &Registry{
		serializers:   make(map[reflect.Type]SerializerFunc),
		deserializers: make(map[reflect.Type]DeserializerFunc),
		factories:     make(map[reflect.Type]InstanceFactory),
		enums:         make(map[reflect.Type]*EnumTable),
	}
}

// RegisterSerializer registers fn, a func(*vpack.Builder, mapper.Key, T) error,
// as the serializer of T.
func (r *Registry) RegisterSerializer(fn any) error {
	t, call, err := ParseSerializer(fn)
	if err != nil {
		return err
	}

	r.SetSerializer(t, call)
	return nil
}

// RegisterDeserializer registers fn, a func(vpack.Slice) (T, error), as the
// deserializer of T.
func (r *Registry) RegisterDeserializer(fn any) error {
	t, call, err := ParseDeserializer(fn)
	if err != nil {
		return err
	}

	r.SetDeserializer(t, call)
	return nil
}

// RegisterInstanceFactory registers fn, a func() T, as the source of fresh
// T values during deserialization. For interface types T the factory picks
// the concrete implementation.
func (r *Registry) RegisterInstanceFactory(fn any) error {
	t, call, err := ParseInstanceFactory(fn)
	if err != nil {
		return err
	}

	r.SetInstanceFactory(t, call)
	return nil
}

func (r *Registry) SetSerializer(t reflect.Type, fn SerializerFunc) {
	log.Trace("registered serializer", "type", t.String())
	r.serializers[t] = fn
}

func (r *Registry) SetDeserializer(t reflect.Type, fn DeserializerFunc) {
	log.Trace("registered deserializer", "type", t.String())
	r.deserializers[t] = fn
}

func (r *Registry) SetInstanceFactory(t reflect.Type, fn InstanceFactory) {
	log.Trace("registered instance factory", "type", t.String())
	r.factories[t] = fn
}

// RegisterEnum declares the constants of an enumeration type. All values
// must have the same comparable named type implementing fmt.Stringer; the
// String form of each value is its symbolic name in the tree.
func (r *Registry) RegisterEnum(values ...any) error {
	table, err := newEnumTable(values)
	if err != nil {
		return err
	}

	log.Trace("registered enum", "type", table.typ.String(), "constants", len(table.names))
	r.enums[table.typ] = table
	return nil
}

func (r *Registry) LookupSerializer(t reflect.Type) (SerializerFunc, bool) {
	fn, ok := r.serializers[t]
	return fn, ok
}

func (r *Registry) LookupDeserializer(t reflect.Type) (DeserializerFunc, bool) {
	fn, ok := r.deserializers[t]
	return fn, ok
}

func (r *Registry) LookupInstanceFactory(t reflect.Type) (InstanceFactory, bool) {
	fn, ok := r.factories[t]
	return fn, ok
}

func (r *Registry) LookupEnum(t reflect.Type) (*EnumTable, bool) {
	table, ok := r.enums[t]
	return table, ok
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	return &Registry{
		serializers:   maps.Clone(r.serializers),
		deserializers: maps.Clone(r.deserializers),
		factories:     maps.Clone(r.factories),
		enums:         maps.Clone(r.enums),
	}
}

// EnumTable is the symbol table of one enumeration type.
type EnumTable struct {
	typ     reflect.Type
	names   []string
	byName  map[string]reflect.Value
	byValue map[any]string
}

var stringerType = reflect.TypeFor[fmt.Stringer]()

func newEnumTable(values []any) (*EnumTable, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no values", ErrNotAnEnum)
	}

	t := reflect.TypeOf(values[0])
	if t == nil || t.Name() == "" || !t.Comparable() || !t.Implements(stringerType) {
		return nil, fmt.Errorf("%w: %v", ErrNotAnEnum, t)
	}

	table := &EnumTable{
		typ:     t,
		byName:  make(map[string]reflect.Value, len(values)),
		byValue: make(map[any]string, len(values)),
	}

	for _, v := range values {
		if reflect.TypeOf(v) != t {
			return nil, fmt.Errorf("%w: %T mixed with %s", ErrNotAnEnum, v, t)
		}

		name := v.(fmt.Stringer).String()
		if prev, ok := table.byName[name]; ok {
			if prev.Interface() == v {
				continue
			}

			return nil, fmt.Errorf("%w: duplicate name %q in %s", ErrNotAnEnum, name, t)
		}

		table.names = append(table.names, name)
		table.byName[name] = reflect.ValueOf(v)
		table.byValue[v] = name
	}

	return table, nil
}

func (e *EnumTable) Type() reflect.Type { return e.typ }

// Names lists the symbols in registration order.
func (e *EnumTable) Names() []string { return slices.Clone(e.names) }

// Name returns the symbol of v.
func (e *EnumTable) Name(v reflect.Value) (string, bool) {
	name, ok := e.byValue[v.Interface()]
	return name, ok
}

// Value returns the constant named name.
func (e *EnumTable) Value(name string) (reflect.Value, bool) {
	v, ok := e.byName[name]
	return v, ok
}
