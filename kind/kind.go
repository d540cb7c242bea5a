package kind

import (
	"math"
	"math/big"
	"reflect"
	"time"
)

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind is the shape a Go type takes when it is mapped to a value tree.
type Kind int

const (
	_ Kind = iota // skip zero value, use it as a default (invalid) value for Kind

	Bool
	Int
	Int8
	Int16
	Int32
	Int64
	Uint
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	String
	BigInt
	BigFloat
	Time
	Bytes
	Array
	Slice
	Map
	Set
	Struct
	Interface
	Pointer
	Enum // never returned by FromReflectType, enums are known only to a registry

	// Total is a constant that represents the total number of kinds defined
	Total = int(iota)
)

var (
	bigIntType   = reflect.TypeFor[big.Int]()
	bigFloatType = reflect.TypeFor[big.Float]()
	timeType     = reflect.TypeFor[time.Time]()
	emptyStruct  = reflect.TypeFor[struct{}]()
)

func (k Kind) IsNumber() bool {
	switch k {
	default:
		return false
	case Int, Int8, Int16, Int32, Int64,
		Uint, Uint8, Uint16, Uint32, Uint64,
		Float32, Float64, BigInt, BigFloat:
		return true
	}
}

func (k Kind) IsInteger() bool {
	switch k {
	default:
		return false
	case Int, Int8, Int16, Int32, Int64,
		Uint, Uint8, Uint16, Uint32, Uint64, BigInt:
		return true
	}
}

func (k Kind) IsFloat() bool {
	switch k {
	default:
		return false
	case Float32, Float64, BigFloat:
		return true
	}
}

func (k Kind) IsSigned() bool {
	switch k {
	default:
		return false
	case Int, Int8, Int16, Int32, Int64:
		return true
	}
}

func (k Kind) IsUnsigned() bool {
	switch k {
	default:
		return false
	case Uint, Uint8, Uint16, Uint32, Uint64:
		return true
	}
}

// IsContainer reports whether the kind has component types.
func (k Kind) IsContainer() bool {
	switch k {
	default:
		return false
	case Array, Slice, Map, Set:
		return true
	}
}

func (k Kind) Bits() int {
	switch k {
	default:
		panic("only fixed width number kinds have meaningful bits amount, but requested for: " + k.String())
	case Int, Uint:
		power := 0
		for n := uint(math.MaxUint); n > 0; n >>= 1 {
			power++
		}
		return power
	case Int8, Uint8:
		return 8
	case Int16, Uint16:
		return 16
	case Int32, Uint32, Float32:
		return 32
	case Int64, Uint64, Float64:
		return 64
	}
}

// FromReflectType classifies rtype by its underlying shape, so named types
// (type Celsius float64) share the kind of their underlying type.
func FromReflectType(rtype reflect.Type) Kind {
	if rtype == nil {
		return 0
	}

	switch rtype {
	case bigIntType:
		return BigInt
	case bigFloatType:
		return BigFloat
	case timeType:
		return Time
	}

	switch rtype.Kind() {
	default:
		return 0
	case reflect.Bool:
		return Bool
	case reflect.Int:
		return Int
	case reflect.Int8:
		return Int8
	case reflect.Int16:
		return Int16
	case reflect.Int32:
		return Int32
	case reflect.Int64:
		return Int64
	case reflect.Uint:
		return Uint
	case reflect.Uint8:
		return Uint8
	case reflect.Uint16:
		return Uint16
	case reflect.Uint32:
		return Uint32
	case reflect.Uint64:
		return Uint64
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	case reflect.String:
		return String
	case reflect.Array:
		return Array
	case reflect.Slice:
		if rtype.Elem().Kind() == reflect.Uint8 {
			return Bytes
		}
		return Slice
	case reflect.Map:
		if rtype.Elem() == emptyStruct {
			return Set
		}
		return Map
	case reflect.Struct:
		return Struct
	case reflect.Interface:
		return Interface
	case reflect.Pointer:
		return Pointer
	}
}
