package mapper

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"

	"vpack-mapper/kind"
	"vpack-mapper/vpack"
)

// keyCodec converts map keys between their Go form and object key strings.
type keyCodec struct {
	reg *Registry
}

// IsStringable reports whether map keys of type t are written as object
// attribute names: strings, booleans, numbers and registered enums.
func (c keyCodec) IsStringable(t reflect.Type) bool {
	if _, ok := c.reg.LookupEnum(t); ok {
		return true
	}

	k := kind.FromReflectType(t)
	return k == kind.Bool || k == kind.String || k.IsNumber()
}

func (c keyCodec) KeyToString(v reflect.Value) (string, error) {
	t := v.Type()
	if table, ok := c.reg.LookupEnum(t); ok {
		name, ok := table.Name(v)
		if !ok {
			return "", &KeyTypeError{Key: fmt.Sprint(v.Interface()), Type: t, Reason: "unregistered enum constant", Err: ErrUnknownEnumConstant}
		}

		return name, nil
	}

	switch k := kind.FromReflectType(t); {
	case k == kind.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case k == kind.String:
		return v.String(), nil
	case k.IsSigned():
		return strconv.FormatInt(v.Int(), 10), nil
	case k.IsUnsigned():
		return strconv.FormatUint(v.Uint(), 10), nil
	case k == kind.Float32, k == kind.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, k.Bits()), nil
	case k == kind.BigInt:
		x := addressable(v).Addr().Interface().(*big.Int)
		return x.String(), nil
	case k == kind.BigFloat:
		x := addressable(v).Addr().Interface().(*big.Float)
		return x.Text('g', -1), nil
	}

	return "", &KeyTypeError{Key: fmt.Sprint(v.Interface()), Type: t, Reason: "type is not stringable"}
}

func (c keyCodec) StringToKey(s string, t reflect.Type) (reflect.Value, error) {
	if table, ok := c.reg.LookupEnum(t); ok {
		v, ok := table.Value(s)
		if !ok {
			return reflect.Value{}, &KeyTypeError{Key: s, Type: t, Reason: "unknown enum constant", Err: ErrUnknownEnumConstant}
		}

		return v, nil
	}

	fail := func(err error) (reflect.Value, error) {
		var numErr *strconv.NumError
		reason := "unparseable key"
		if errors.As(err, &numErr) {
			reason = numErr.Err.Error()
		}

		return reflect.Value{}, &KeyTypeError{Key: s, Type: t, Reason: reason, Err: err}
	}

	out := reflect.New(t).Elem()
	switch k := kind.FromReflectType(t); {
	case k == kind.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fail(err)
		}
		out.SetBool(b)
	case k == kind.String:
		out.SetString(s)
	case k.IsSigned():
		i, err := strconv.ParseInt(s, 10, k.Bits())
		if err != nil {
			return fail(err)
		}
		out.SetInt(i)
	case k.IsUnsigned():
		u, err := strconv.ParseUint(s, 10, k.Bits())
		if err != nil {
			return fail(err)
		}
		out.SetUint(u)
	case k == kind.Float32, k == kind.Float64:
		f, err := strconv.ParseFloat(s, k.Bits())
		if err != nil {
			return fail(err)
		}
		out.SetFloat(f)
	case k == kind.BigInt:
		if _, ok := out.Addr().Interface().(*big.Int).SetString(s, 10); !ok {
			return fail(errors.New("invalid integer"))
		}
	case k == kind.BigFloat:
		if _, _, err := out.Addr().Interface().(*big.Float).Parse(s, 10); err != nil {
			return fail(err)
		}
	default:
		return reflect.Value{}, &KeyTypeError{Key: s, Type: t, Reason: "type is not stringable"}
	}

	return out, nil
}

// treeKey reads the attribute name of an object entry. Integer keys are
// resolved through kt.
func treeKey(key vpack.Slice, kt vpack.KeyTranslator) (string, error) {
	switch {
	case key.IsString():
		return key.AsString()
	case key.IsInteger():
		code, err := key.AsInt64()
		if err != nil {
			return "", &KeyTypeError{Key: key.String(), Reason: "integer key out of range", Err: err}
		}

		if kt != nil {
			if name, ok := kt.FromKey(code); ok {
				return name, nil
			}
		}

		return "", &KeyTypeError{Key: key.String(), Reason: "integer key has no translation"}
	}

	return "", &KeyTypeError{Key: key.String(), Reason: "expecting string or integer key, got " + key.Type().String()}
}

// addressable returns v itself when it can be addressed, else a copy that can.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}

	p := reflect.New(v.Type())
	p.Elem().Set(v)

	return p.Elem()
}
