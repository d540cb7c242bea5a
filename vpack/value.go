package vpack

import (
	"fmt"
	"math/big"
	"time"

	"vpack-mapper/internal/common"
)

// SmallInt bounds, as in the VelocyPack SmallInt encoding.
const (
	MinSmallInt = -6
	MaxSmallInt = 9
)

// Value is a single item handed to a Builder: a scalar, or a marker opening
// an array or an object.
type Value struct {
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
	err error
}

func NullValue() Value { return Value{typ: Null} }

func BoolValue(b bool) Value { return Value{typ: Bool, b: b} }

func IntValue(i int64) Value { return Value{typ: Int, i: i} }

func UIntValue(u uint64) Value { return Value{typ: UInt, u: u} }

func DoubleValue(f float64) Value { return Value{typ: Double, f: f} }

func StringValue(s string) Value { return Value{typ: String, s: s} }

// SmallIntValue is an integer restricted to the SmallInt range; values
// outside it fail with ErrNumberOutOfRange when added to a Builder.
func SmallIntValue(i int64) Value {
	if !common.IsInRange(MinSmallInt, i, MaxSmallInt) {
		return Value{err: fmt.Errorf("%w: %d is not a small int [%d, %d]", ErrNumberOutOfRange, i, MinSmallInt, MaxSmallInt)}
	}

	return Value{typ: Int, i: i}
}

// BigIntValue copies x; a nil x is a null value.
func BigIntValue(x *big.Int) Value {
	if x == nil {
		return NullValue()
	}

	return Value{typ: BigInt, bi: new(big.Int).Set(x)}
}

// BigFloatValue copies x keeping its precision; a nil x is a null value.
func BigFloatValue(x *big.Float) Value {
	if x == nil {
		return NullValue()
	}

	return Value{typ: BigFloat, bf: new(big.Float).Copy(x)}
}

// BinaryValue copies data; a nil slice is a null value.
func BinaryValue(data []byte) Value {
	if data == nil {
		return NullValue()
	}

	return Value{typ: Binary, bin: append([]byte{}, data...)}
}

func DateValue(t time.Time) Value { return Value{typ: UTCDate, t: t} }

// OpenArray starts an array; it stays open until Builder.Close.
func OpenArray() Value { return Value{typ: Array} }

// OpenObject starts an object; it stays open until Builder.Close.
func OpenObject() Value { return Value{typ: Object} }

// Type reports the node type the value produces.
func (v Value) Type() ValueType { return v.typ }

func (v Value) node() *node {
	return &node{
		typ: v.typ,
		b:   v.b,
		i:   v.i,
		u:   v.u,
		f:   v.f,
		s:   v.s,
		bi:  v.bi,
		bf:  v.bf,
		bin: v.bin,
		t:   v.t,
	}
}
