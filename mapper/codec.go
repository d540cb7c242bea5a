package mapper

import (
	"fmt"
	"reflect"

	"vpack-mapper/vpack"
)

// Key is the attribute a value is written under. The zero Key writes an
// unkeyed value, as required for array elements and the root.
type Key struct {
	name  string
	keyed bool
}

// Keyed returns a Key that writes values under name.
func Keyed(name string) Key {
	return Key{name: name, keyed: true}
}

func (k Key) Name() string   { return k.name }
func (k Key) IsKeyed() bool  { return k.keyed }
func (k Key) String() string { return k.name }

// Add writes v into b under k.
func (k Key) Add(b *vpack.Builder, v vpack.Value) error {
	if k.keyed {
		return b.AddKeyed(k.name, v)
	}

	return b.Add(v)
}

// SerializerFunc writes v, whose type is the registered type, into b.
type SerializerFunc func(b *vpack.Builder, key Key, v reflect.Value) error

// DeserializerFunc builds a value of the registered type from a tree node.
type DeserializerFunc func(s vpack.Slice) (reflect.Value, error)

// InstanceFactory returns a fresh value of the registered type.
type InstanceFactory func() reflect.Value

var (
	builderPtrType = reflect.TypeFor[*vpack.Builder]()
	keyType        = reflect.TypeFor[Key]()
	sliceType      = reflect.TypeFor[vpack.Slice]()
	errorType      = reflect.TypeFor[error]()
)

func isError(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.Implements(errorType)
}

func funcOf(fn any) (reflect.Value, reflect.Type, error) {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func {
		return reflect.Value{}, nil, ErrCodecIsNotAFunction
	}

	if fnVal.IsNil() {
		return reflect.Value{}, nil, fmt.Errorf("%w: nil function", ErrNotACodec)
	}

	return fnVal, fnVal.Type(), nil
}

// ParseSerializer inspects fn and returns the type it serializes.
//
// Supports:
//   - func(b *vpack.Builder, key mapper.Key, v T) error
func ParseSerializer(fn any) (reflect.Type, SerializerFunc, error) {
	fnVal, fnType, err := funcOf(fn)
	if err != nil {
		return nil, nil, err
	}

	if fnType.NumIn() != 3 || fnType.NumOut() != 1 ||
		fnType.In(0) != builderPtrType || fnType.In(1) != keyType || !isError(fnType.Out(0)) {
		return nil, nil, fmt.Errorf("%w: want func(*vpack.Builder, mapper.Key, T) error, got %s", ErrNotACodec, fnType)
	}

	target := fnType.In(2)
	call := func(b *vpack.Builder, key Key, v reflect.Value) error {
		out := fnVal.Call([]reflect.Value{reflect.ValueOf(b), reflect.ValueOf(key), v})
		if e, _ := out[0].Interface().(error); e != nil {
			return e
		}

		return nil
	}

	return target, call, nil
}

// ParseDeserializer inspects fn and returns the type it produces.
//
// Supports:
//   - func(s vpack.Slice) T
//   - func(s vpack.Slice) (T, error)
func ParseDeserializer(fn any) (reflect.Type, DeserializerFunc, error) {
	fnVal, fnType, err := funcOf(fn)
	if err != nil {
		return nil, nil, err
	}

	if fnType.NumIn() != 1 || fnType.In(0) != sliceType {
		return nil, nil, fmt.Errorf("%w: want func(vpack.Slice) (T, error), got %s", ErrNotACodec, fnType)
	}

	switch {
	case fnType.NumOut() == 1:
	case fnType.NumOut() == 2 && isError(fnType.Out(1)):
	default:
		return nil, nil, fmt.Errorf("%w: want func(vpack.Slice) (T, error), got %s", ErrNotACodec, fnType)
	}

	target := fnType.Out(0)
	hasErr := fnType.NumOut() == 2
	call := func(s vpack.Slice) (reflect.Value, error) {
		out := fnVal.Call([]reflect.Value{reflect.ValueOf(s)})
		if hasErr {
			if e, _ := out[1].Interface().(error); e != nil {
				return reflect.Value{}, e
			}
		}

		return out[0], nil
	}

	return target, call, nil
}

// ParseInstanceFactory inspects fn and returns the type it instantiates.
//
// Supports:
//   - func() T
func ParseInstanceFactory(fn any) (reflect.Type, InstanceFactory, error) {
	fnVal, fnType, err := funcOf(fn)
	if err != nil {
		return nil, nil, err
	}

	if fnType.NumIn() != 0 || fnType.NumOut() != 1 {
		return nil, nil, fmt.Errorf("%w: want func() T, got %s", ErrNotACodec, fnType)
	}

	call := func() reflect.Value {
		return fnVal.Call(nil)[0]
	}

	return fnType.Out(0), call, nil
}
