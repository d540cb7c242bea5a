package vpack

import (
	"fmt"
	"math"
	"math/big"
	"time"
)

type node struct {
	typ ValueType
	b   bool
	i   int64
	u   uint64
	f   float64
	s   string
	bi  *big.Int
	bf  *big.Float
	bin []byte
	t   time.Time

	keys  []*node // object keys, parallel to items
	items []*node
}

// Slice is a read-only view of a tree node. The zero Slice is a None node.
//
// Slices are immutable once produced by a Builder and may be shared between
// goroutines.
type Slice struct {
	n    *node
	keys KeyTranslator
}

// WithKeyTranslator returns a view of s that resolves integer object keys
// through kt. Children reached from the returned view inherit kt.
func (s Slice) WithKeyTranslator(kt KeyTranslator) Slice {
	s.keys = kt
	return s
}

// KeyTranslator returns the translator attached to s, if any.
func (s Slice) KeyTranslator() KeyTranslator {
	return s.keys
}

func (s Slice) child(n *node) Slice {
	return Slice{n: n, keys: s.keys}
}

func (s Slice) Type() ValueType {
	if s.n == nil {
		return None
	}

	return s.n.typ
}

func (s Slice) IsNone() bool     { return s.Type() == None }
func (s Slice) IsNull() bool     { return s.Type() == Null }
func (s Slice) IsBool() bool     { return s.Type() == Bool }
func (s Slice) IsDouble() bool   { return s.Type() == Double }
func (s Slice) IsBigInt() bool   { return s.Type() == BigInt }
func (s Slice) IsBigFloat() bool { return s.Type() == BigFloat }
func (s Slice) IsString() bool   { return s.Type() == String }
func (s Slice) IsBinary() bool   { return s.Type() == Binary }
func (s Slice) IsUTCDate() bool  { return s.Type() == UTCDate }
func (s Slice) IsArray() bool    { return s.Type() == Array }
func (s Slice) IsObject() bool   { return s.Type() == Object }

// IsInteger reports Int, UInt and BigInt nodes.
func (s Slice) IsInteger() bool {
	switch s.Type() {
	case Int, UInt, BigInt:
		return true
	default:
		return false
	}
}

// IsNumber reports integer and floating point nodes.
func (s Slice) IsNumber() bool {
	return s.IsInteger() || s.IsDouble() || s.IsBigFloat()
}

// Length returns the number of children of an array or object, zero otherwise.
func (s Slice) Length() int {
	if !s.Type().IsCompound() {
		return 0
	}

	return len(s.n.items)
}

// At returns the i-th element of an array or the i-th value of an object.
// Out of range positions yield a None slice.
func (s Slice) At(i int) Slice {
	if i < 0 || i >= s.Length() {
		return Slice{keys: s.keys}
	}

	return s.child(s.n.items[i])
}

// ValueAt is At for objects.
func (s Slice) ValueAt(i int) Slice {
	return s.At(i)
}

// KeyAt returns the i-th key of an object: a String node, or an Int node
// holding a translated key code. Non-objects yield a None slice.
func (s Slice) KeyAt(i int) Slice {
	if !s.IsObject() || i < 0 || i >= len(s.n.keys) {
		return Slice{keys: s.keys}
	}

	return s.child(s.n.keys[i])
}

// KeyName resolves the i-th key of an object to its string form.
func (s Slice) KeyName(i int) (string, error) {
	return s.keyName(s.KeyAt(i))
}

func (s Slice) keyName(key Slice) (string, error) {
	switch key.Type() {
	case String:
		return key.n.s, nil
	case Int, UInt:
		code, err := key.AsInt64()
		if err != nil {
			return "", err
		}

		if s.keys != nil {
			if name, ok := s.keys.FromKey(code); ok {
				return name, nil
			}
		}

		return "", fmt.Errorf("%w: untranslated key code %d", ErrUnexpectedType, code)
	default:
		return "", fmt.Errorf("%w: key of type %s", ErrUnexpectedType, key.Type())
	}
}

// Get returns the value stored under key in an object, or a None slice when
// the key is absent. With duplicate keys the first occurrence wins.
func (s Slice) Get(key string) Slice {
	if !s.IsObject() {
		return Slice{keys: s.keys}
	}

	for i, k := range s.n.keys {
		name, err := s.keyName(s.child(k))
		if err == nil && name == key {
			return s.child(s.n.items[i])
		}
	}

	return Slice{keys: s.keys}
}

func (s Slice) unexpected(want string) error {
	return fmt.Errorf("%w: want %s, got %s", ErrUnexpectedType, want, s.Type())
}

func (s Slice) AsBool() (bool, error) {
	if !s.IsBool() {
		return false, s.unexpected("bool")
	}

	return s.n.b, nil
}

func (s Slice) AsString() (string, error) {
	if !s.IsString() {
		return "", s.unexpected("string")
	}

	return s.n.s, nil
}

// AsInt64 returns Int nodes and UInt nodes that fit into int64.
func (s Slice) AsInt64() (int64, error) {
	switch s.Type() {
	case Int:
		return s.n.i, nil
	case UInt:
		if s.n.u > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", ErrNumberOutOfRange, s.n.u)
		}
		return int64(s.n.u), nil
	default:
		return 0, s.unexpected("integer")
	}
}

// AsUint64 returns UInt nodes and non-negative Int nodes.
func (s Slice) AsUint64() (uint64, error) {
	switch s.Type() {
	case UInt:
		return s.n.u, nil
	case Int:
		if s.n.i < 0 {
			return 0, fmt.Errorf("%w: %d is negative", ErrNumberOutOfRange, s.n.i)
		}
		return uint64(s.n.i), nil
	default:
		return 0, s.unexpected("integer")
	}
}

// AsFloat64 returns any fixed width number as float64.
func (s Slice) AsFloat64() (float64, error) {
	switch s.Type() {
	case Double:
		return s.n.f, nil
	case Int:
		return float64(s.n.i), nil
	case UInt:
		return float64(s.n.u), nil
	default:
		return 0, s.unexpected("number")
	}
}

// AsBigInt returns a fresh copy of any integer node.
func (s Slice) AsBigInt() (*big.Int, error) {
	switch s.Type() {
	case BigInt:
		return new(big.Int).Set(s.n.bi), nil
	case Int:
		return big.NewInt(s.n.i), nil
	case UInt:
		return new(big.Int).SetUint64(s.n.u), nil
	default:
		return nil, s.unexpected("integer")
	}
}

// AsBigFloat returns a fresh copy of any number node.
func (s Slice) AsBigFloat() (*big.Float, error) {
	switch s.Type() {
	case BigFloat:
		return new(big.Float).Copy(s.n.bf), nil
	case BigInt:
		return new(big.Float).SetInt(s.n.bi), nil
	case Double:
		return big.NewFloat(s.n.f), nil
	case Int:
		return new(big.Float).SetInt64(s.n.i), nil
	case UInt:
		return new(big.Float).SetUint64(s.n.u), nil
	default:
		return nil, s.unexpected("number")
	}
}

// AsBinary returns a copy of a Binary node's bytes.
func (s Slice) AsBinary() ([]byte, error) {
	if !s.IsBinary() {
		return nil, s.unexpected("binary")
	}

	return append([]byte{}, s.n.bin...), nil
}

func (s Slice) AsTime() (time.Time, error) {
	if !s.IsUTCDate() {
		return time.Time{}, s.unexpected("utc date")
	}

	return s.n.t, nil
}

// Number returns the numeric payload in its natural Go type: int64, uint64,
// float64, *big.Int or *big.Float.
func (s Slice) Number() (any, error) {
	switch s.Type() {
	case Int:
		return s.n.i, nil
	case UInt:
		return s.n.u, nil
	case Double:
		return s.n.f, nil
	case BigInt:
		return new(big.Int).Set(s.n.bi), nil
	case BigFloat:
		return new(big.Float).Copy(s.n.bf), nil
	default:
		return nil, s.unexpected("number")
	}
}
