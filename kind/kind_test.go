package kind_test

import (
	"fmt"
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vpack-mapper/kind"
)

func Example() {
	type Celsius float64
	type Tags map[string]struct{}
	type Empty struct{}

	fmt.Println(kind.FromReflectType(reflect.TypeOf(int(0))))
	fmt.Println(kind.FromReflectType(reflect.TypeOf("")))
	fmt.Println(kind.FromReflectType(reflect.TypeOf(Celsius(0))))
	fmt.Println(kind.FromReflectType(reflect.TypeOf(Tags{})))
	fmt.Println(kind.FromReflectType(reflect.TypeOf([]byte(nil))))
	fmt.Println(kind.FromReflectType(reflect.TypeOf(time.Time{})))
	fmt.Println(kind.FromReflectType(reflect.TypeOf(big.Int{})))
	fmt.Println(kind.FromReflectType(reflect.TypeOf(Empty{})))
	fmt.Println(kind.FromReflectType(reflect.TypeOf(func() {})))
	// Output:
	// Int
	// String
	// Float64
	// Set
	// Bytes
	// Time
	// BigInt
	// Struct
	// Kind(0)
}

func TestKindPredicates(t *testing.T) {
	t.Parallel()

	for k := kind.Kind(1); int(k) < kind.Total; k++ {
		if k.IsInteger() || k.IsFloat() {
			assert.True(t, k.IsNumber(), k.String())
		}

		if k.IsSigned() || k.IsUnsigned() {
			assert.True(t, k.IsInteger(), k.String())
		}

		assert.False(t, k.IsNumber() && k.IsContainer(), k.String())
	}

	assert.Equal(t, 8, kind.Int8.Bits())
	assert.Equal(t, 32, kind.Float32.Bits())
	assert.Equal(t, 64, kind.Uint64.Bits())
	assert.Panics(t, func() { kind.String.Bits() })
}

func TestFromReflectTypeMapsAndSlices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ      reflect.Type
		expected kind.Kind
	}{
		{reflect.TypeFor[[]int](), kind.Slice},
		{reflect.TypeFor[[3]int](), kind.Array},
		{reflect.TypeFor[map[string]int](), kind.Map},
		{reflect.TypeFor[map[int]struct{}](), kind.Set},
		{reflect.TypeFor[*int](), kind.Pointer},
		{reflect.TypeFor[any](), kind.Interface},
		{reflect.TypeFor[big.Float](), kind.BigFloat},
		{nil, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, kind.FromReflectType(tt.typ))
	}
}
