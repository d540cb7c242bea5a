package mapper

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"

	"vpack-mapper/internal/naming"
	"vpack-mapper/kind"
	"vpack-mapper/vpack"
)

var (
	anyType      = reflect.TypeFor[any]()
	anySliceType = reflect.TypeFor[[]any]()
	anyMapType   = reflect.TypeFor[map[string]any]()
	stringType   = reflect.TypeFor[string]()
)

// deserializer is the state of one Deserialize call.
type deserializer struct {
	vp    *VPack
	kt    vpack.KeyTranslator
	depth int
	trail
}

// decode builds a fresh value of type t from s.
func (d *deserializer) decode(s vpack.Slice, t reflect.Type) (reflect.Value, error) {
	d.depth++
	defer func() { d.depth-- }()

	if d.depth > d.vp.cfg.maxDepth {
		return reflect.Value{}, d.fail(fmt.Errorf("%w: deeper than %d levels", ErrMaxDepthExceeded, d.vp.cfg.maxDepth))
	}

	v, err := d.dispatch(s, t)
	if err != nil {
		return reflect.Value{}, d.fail(err)
	}

	return v, nil
}

func (d *deserializer) dispatch(s vpack.Slice, t reflect.Type) (reflect.Value, error) {
	if fn, ok := d.vp.reg.LookupDeserializer(t); ok {
		v, err := fn(s)
		if err != nil {
			return reflect.Value{}, err
		}

		return assignable(v, t)
	}

	if s.IsNull() || s.IsNone() {
		return reflect.Zero(t), nil
	}

	switch k := d.vp.kindOf(t); k {
	case kind.Pointer:
		return d.pointer(s, t)
	case kind.Interface:
		return d.iface(s, t)
	case kind.Enum:
		return d.enum(s, t)
	case kind.Bool:
		b, err := s.AsBool()
		if err != nil {
			return reflect.Value{}, mismatch(err)
		}
		return reflect.ValueOf(b).Convert(t), nil
	case kind.String:
		str, err := s.AsString()
		if err != nil {
			return reflect.Value{}, mismatch(err)
		}
		return reflect.ValueOf(str).Convert(t), nil
	case kind.Int, kind.Int8, kind.Int16, kind.Int32, kind.Int64,
		kind.Uint, kind.Uint8, kind.Uint16, kind.Uint32, kind.Uint64,
		kind.Float32, kind.Float64:
		return d.number(s, t, k)
	case kind.BigInt:
		return d.bigInt(s)
	case kind.BigFloat:
		f, err := s.AsBigFloat()
		if err != nil {
			return reflect.Value{}, mismatch(err)
		}
		return reflect.ValueOf(f).Elem(), nil
	case kind.Time:
		return d.time(s)
	case kind.Bytes:
		if s.IsBinary() {
			data, _ := s.AsBinary()
			return reflect.ValueOf(data).Convert(t), nil
		}
		return d.slice(s, t)
	case kind.Slice:
		return d.slice(s, t)
	case kind.Array:
		return d.array(s, t)
	case kind.Set:
		return d.set(s, t)
	case kind.Map:
		return d.mapping(s, t)
	case kind.Struct:
		v := reflect.New(t).Elem()
		if f, ok := d.vp.reg.LookupInstanceFactory(t); ok {
			made, err := assignable(f(), t)
			if err != nil {
				return reflect.Value{}, err
			}
			v.Set(made)
		}
		return v, d.structure(s, v)
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

func mismatch(err error) error {
	return fmt.Errorf("%w: %w", ErrUnexpectedNode, err)
}

func expect(s vpack.Slice, want vpack.ValueType) error {
	if s.Type() != want {
		return fmt.Errorf("%w: want %s, got %s", ErrUnexpectedNode, want, s.Type())
	}

	return nil
}

// assignable checks that a callback produced a value usable as t.
func assignable(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(t), nil
	}

	if v.Type() == t {
		return v, nil
	}

	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", ErrUnsupportedType, v.Type(), t)
	}

	out := reflect.New(t).Elem()
	out.Set(v)

	return out, nil
}

func (d *deserializer) pointer(s vpack.Slice, t reflect.Type) (reflect.Value, error) {
	elem := t.Elem()

	// a factory for *T pre-populates the struct the tree is read into
	if f, ok := d.vp.reg.LookupInstanceFactory(t); ok && d.vp.kindOf(elem) == kind.Struct {
		if _, custom := d.vp.reg.LookupDeserializer(elem); !custom {
			p, err := assignable(f(), t)
			if err != nil {
				return reflect.Value{}, err
			}

			if p.IsNil() {
				p = reflect.New(elem)
			}

			return p, d.structure(s, p.Elem())
		}
	}

	v, err := d.dispatch(s, elem)
	if err != nil {
		return reflect.Value{}, err
	}

	p := reflect.New(elem)
	p.Elem().Set(v)

	return p, nil
}

func (d *deserializer) iface(s vpack.Slice, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()

	if f, ok := d.vp.reg.LookupInstanceFactory(t); ok {
		made := f()
		if !made.IsValid() || isNil(made) {
			return reflect.Value{}, fmt.Errorf("%w: factory for %s returned nil", ErrUnsupportedType, t)
		}

		if made.Kind() == reflect.Interface {
			made = made.Elem()
		}

		if made.Kind() == reflect.Pointer && d.vp.kindOf(made.Type().Elem()) == kind.Struct {
			if err := d.structure(s, made.Elem()); err != nil {
				return reflect.Value{}, err
			}
		} else {
			v, err := d.dispatch(s, made.Type())
			if err != nil {
				return reflect.Value{}, err
			}
			made = v
		}

		out.Set(made)
		return out, nil
	}

	if t.NumMethod() > 0 {
		return reflect.Value{}, fmt.Errorf("%w: interface %s needs an instance factory or deserializer", ErrUnsupportedType, t)
	}

	var (
		v   reflect.Value
		err error
	)

	switch s.Type() {
	case vpack.Array:
		v, err = d.slice(s, anySliceType)
	case vpack.Object:
		v, err = d.mapping(s, anyMapType)
	default:
		v, err = scalarValue(s)
	}

	if err != nil {
		return reflect.Value{}, err
	}

	out.Set(v)
	return out, nil
}

// scalarValue decodes a scalar node into its natural Go type.
func scalarValue(s vpack.Slice) (reflect.Value, error) {
	var (
		x   any
		err error
	)

	switch s.Type() {
	case vpack.Bool:
		x, err = s.AsBool()
	case vpack.String:
		x, err = s.AsString()
	case vpack.Binary:
		x, err = s.AsBinary()
	case vpack.UTCDate:
		x, err = s.AsTime()
	case vpack.Int, vpack.UInt, vpack.Double, vpack.BigInt, vpack.BigFloat:
		x, err = s.Number()
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnexpectedNode, s.Type())
	}

	if err != nil {
		return reflect.Value{}, mismatch(err)
	}

	return reflect.ValueOf(x), nil
}

func (d *deserializer) enum(s vpack.Slice, t reflect.Type) (reflect.Value, error) {
	name, err := s.AsString()
	if err != nil {
		return reflect.Value{}, mismatch(err)
	}

	table, _ := d.vp.reg.LookupEnum(t)
	if v, ok := table.Value(name); ok {
		return v, nil
	}

	if guess, ok := naming.Closest(name, table.names); ok {
		return reflect.Value{}, fmt.Errorf("%w: %q is not a constant of %s, did you mean %q?", ErrUnknownEnumConstant, name, t, guess)
	}

	return reflect.Value{}, fmt.Errorf("%w: %q is not a constant of %s (one of %s)",
		ErrUnknownEnumConstant, name, t, strings.Join(table.names, ", "))
}

func (d *deserializer) number(s vpack.Slice, t reflect.Type, k kind.Kind) (reflect.Value, error) {
	num, err := s.Number()
	if err != nil {
		return reflect.Value{}, mismatch(err)
	}

	strict := d.vp.cfg.strictNumbers
	out := reflect.New(t).Elem()

	switch {
	case k.IsSigned():
		i, exact, err := toInt64(num)
		if err != nil {
			return reflect.Value{}, err
		}
		if strict && (!exact || out.OverflowInt(i)) {
			return reflect.Value{}, fmt.Errorf("%w: %v into %s", ErrNumberOverflow, num, t)
		}
		out.SetInt(i)
	case k.IsUnsigned():
		u, exact, err := toUint64(num)
		if err != nil {
			return reflect.Value{}, err
		}
		if strict && (!exact || out.OverflowUint(u)) {
			return reflect.Value{}, fmt.Errorf("%w: %v into %s", ErrNumberOverflow, num, t)
		}
		out.SetUint(u)
	default:
		f, err := toFloat64(num)
		if err != nil {
			return reflect.Value{}, err
		}
		if strict && !math.IsInf(f, 0) && out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%w: %v into %s", ErrNumberOverflow, num, t)
		}
		out.SetFloat(f)
	}

	return out, nil
}

// toInt64 converts num with Go conversion semantics and reports whether the
// conversion was exact.
func toInt64(num any) (int64, bool, error) {
	switch n := num.(type) {
	case *big.Int:
		return n.Int64(), n.IsInt64(), nil
	case *big.Float:
		i, acc := n.Int64()
		return i, acc == big.Exact, nil
	case uint64:
		i, err := cast.ToInt64E(n)
		return i, n <= math.MaxInt64, err
	case float64:
		i, err := cast.ToInt64E(n)
		return i, float64(i) == n, err
	default:
		i, err := cast.ToInt64E(n)
		return i, true, err
	}
}

// toUint64 is toInt64 for unsigned targets. Negative numbers always fail.
func toUint64(num any) (uint64, bool, error) {
	negative := func() (uint64, bool, error) {
		return 0, false, fmt.Errorf("%w: negative value %v into unsigned type", ErrNumberOverflow, num)
	}

	switch n := num.(type) {
	case *big.Int:
		if n.Sign() < 0 {
			return negative()
		}
		return n.Uint64(), n.IsUint64(), nil
	case *big.Float:
		if n.Sign() < 0 {
			return negative()
		}
		u, acc := n.Uint64()
		return u, acc == big.Exact, nil
	case float64:
		u, err := cast.ToUint64E(n)
		if err != nil {
			return negative()
		}
		return u, float64(u) == n, nil
	default:
		u, err := cast.ToUint64E(n)
		if err != nil {
			return negative()
		}
		return u, true, nil
	}
}

func toFloat64(num any) (float64, error) {
	switch n := num.(type) {
	case *big.Float:
		f, _ := n.Float64()
		return f, nil
	case *big.Int:
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, nil
	default:
		return cast.ToFloat64E(n)
	}
}

func (d *deserializer) bigInt(s vpack.Slice) (reflect.Value, error) {
	if s.IsDouble() || s.IsBigFloat() {
		f, err := s.AsBigFloat()
		if err != nil {
			return reflect.Value{}, mismatch(err)
		}

		i, _ := f.Int(nil)
		if i == nil {
			return reflect.Value{}, fmt.Errorf("%w: %s into big.Int", ErrNumberOverflow, f.Text('g', -1))
		}
		return reflect.ValueOf(i).Elem(), nil
	}

	i, err := s.AsBigInt()
	if err != nil {
		return reflect.Value{}, mismatch(err)
	}

	return reflect.ValueOf(i).Elem(), nil
}

func (d *deserializer) time(s vpack.Slice) (reflect.Value, error) {
	if s.IsString() {
		str, _ := s.AsString()
		when, err := time.Parse(time.RFC3339Nano, str)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %w", ErrUnexpectedNode, err)
		}
		return reflect.ValueOf(when), nil
	}

	when, err := s.AsTime()
	if err != nil {
		return reflect.Value{}, mismatch(err)
	}

	return reflect.ValueOf(when), nil
}

func (d *deserializer) slice(s vpack.Slice, t reflect.Type) (reflect.Value, error) {
	if err := expect(s, vpack.Array); err != nil {
		return reflect.Value{}, err
	}

	n := s.Length()
	out := reflect.MakeSlice(t, 0, n)
	if f, ok := d.vp.reg.LookupInstanceFactory(t); ok {
		made, err := assignable(f(), t)
		if err != nil {
			return reflect.Value{}, err
		}
		if !made.IsNil() {
			out = made
		}
	}

	for i := 0; i < n; i++ {
		d.push(indexSeg(i))
		v, err := d.decode(s.At(i), t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out = reflect.Append(out, v)
		d.pop()
	}

	return out, nil
}

func (d *deserializer) array(s vpack.Slice, t reflect.Type) (reflect.Value, error) {
	if err := expect(s, vpack.Array); err != nil {
		return reflect.Value{}, err
	}

	n := s.Length()
	if n > t.Len() {
		return reflect.Value{}, fmt.Errorf("%w: %d elements into %s", ErrArrayLength, n, t)
	}

	out := reflect.New(t).Elem()
	for i := 0; i < n; i++ {
		d.push(indexSeg(i))
		v, err := d.decode(s.At(i), t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(v)
		d.pop()
	}

	return out, nil
}

func (d *deserializer) newMap(t reflect.Type, size int) (reflect.Value, error) {
	if f, ok := d.vp.reg.LookupInstanceFactory(t); ok {
		made, err := assignable(f(), t)
		if err != nil {
			return reflect.Value{}, err
		}
		if !made.IsNil() {
			return made, nil
		}
	}

	return reflect.MakeMapWithSize(t, size), nil
}

func hashable(k reflect.Value) error {
	if !k.Comparable() {
		return fmt.Errorf("%w: map key of type %s is not comparable", ErrUnsupportedType, k.Type())
	}

	return nil
}

func (d *deserializer) set(s vpack.Slice, t reflect.Type) (reflect.Value, error) {
	if err := expect(s, vpack.Array); err != nil {
		return reflect.Value{}, err
	}

	out, err := d.newMap(t, s.Length())
	if err != nil {
		return reflect.Value{}, err
	}

	present := reflect.Zero(t.Elem())
	for i := 0; i < s.Length(); i++ {
		d.push(indexSeg(i))
		k, err := d.decode(s.At(i), t.Key())
		if err != nil {
			return reflect.Value{}, err
		}
		if err := hashable(k); err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(k, present)
		d.pop()
	}

	return out, nil
}

func (d *deserializer) mapping(s vpack.Slice, t reflect.Type) (reflect.Value, error) {
	keyT, elemT := t.Key(), t.Elem()

	stringKeys := d.vp.keys.IsStringable(keyT)
	if !stringKeys && s.IsObject() && stringType.AssignableTo(keyT) {
		// an object read into a map keyed by an interface keeps string keys
		stringKeys = true
	}

	if !stringKeys {
		return d.pairs(s, t)
	}

	if err := expect(s, vpack.Object); err != nil {
		return reflect.Value{}, err
	}

	out, err := d.newMap(t, s.Length())
	if err != nil {
		return reflect.Value{}, err
	}

	for i := 0; i < s.Length(); i++ {
		name, err := treeKey(s.KeyAt(i), d.kt)
		if err != nil {
			return reflect.Value{}, err
		}

		d.push(keySeg(name))

		var k reflect.Value
		if keyT.Kind() == reflect.Interface {
			k = reflect.New(keyT).Elem()
			k.Set(reflect.ValueOf(name))
		} else if k, err = d.vp.keys.StringToKey(name, keyT); err != nil {
			return reflect.Value{}, err
		}

		v, err := d.decode(s.ValueAt(i), elemT)
		if err != nil {
			return reflect.Value{}, err
		}

		out.SetMapIndex(k, v)
		d.pop()
	}

	return out, nil
}

// pairs reads an array of {key, value} objects.
func (d *deserializer) pairs(s vpack.Slice, t reflect.Type) (reflect.Value, error) {
	if err := expect(s, vpack.Array); err != nil {
		return reflect.Value{}, err
	}

	out, err := d.newMap(t, s.Length())
	if err != nil {
		return reflect.Value{}, err
	}

	for i := 0; i < s.Length(); i++ {
		d.push(indexSeg(i))

		pair := s.At(i)
		if err := expect(pair, vpack.Object); err != nil {
			return reflect.Value{}, err
		}

		d.push(fieldSeg("key"))
		k, err := d.decode(pair.Get("key"), t.Key())
		if err != nil {
			return reflect.Value{}, err
		}
		if err := hashable(k); err != nil {
			return reflect.Value{}, err
		}
		d.pop()

		d.push(fieldSeg("value"))
		v, err := d.decode(pair.Get("value"), t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		d.pop()

		out.SetMapIndex(k, v)
		d.pop()
	}

	return out, nil
}

// structure fills the addressable struct v from an object node. Attributes
// missing from the node leave their fields untouched.
func (d *deserializer) structure(s vpack.Slice, v reflect.Value) error {
	if err := expect(s, vpack.Object); err != nil {
		return err
	}

	if isBinder(v.Type()) {
		return d.bound(s, v)
	}

	fields, err := d.vp.fields.Fields(v.Type())
	if err != nil {
		return err
	}

	for _, fd := range fields {
		child := s.Get(fd.Name)
		if child.IsNone() {
			continue
		}

		if child.IsNull() && len(fd.Index) > 1 {
			if _, reachable := fieldValue(v, fd.Index); !reachable {
				continue
			}
		}

		d.push(fieldSeg(fd.Name))

		fv, err := d.decode(child, fd.Type)
		if err != nil {
			return err
		}

		dst, err := settableField(v, fd.Index)
		if err != nil {
			return d.fail(err)
		}
		dst.Set(fv)

		d.pop()
	}

	return nil
}

func (d *deserializer) bound(s vpack.Slice, v reflect.Value) error {
	for _, fb := range bindings(v) {
		child := s.Get(fb.Name)
		if child.IsNone() {
			continue
		}

		d.push(fieldSeg(fb.Name))

		if fb.Set == nil {
			return d.fail(fmt.Errorf("%w: no setter for %q", ErrMissingAccessor, fb.Name))
		}

		t := fb.Type
		if t == nil {
			t = anyType
		}

		fv, err := d.decode(child, t)
		if err != nil {
			return err
		}

		var x any
		if fv.IsValid() {
			x = fv.Interface()
		}

		if err := fb.Set(x); err != nil {
			return d.fail(fmt.Errorf("%w: setting %q: %w", ErrMissingAccessor, fb.Name, err))
		}

		d.pop()
	}

	return nil
}
