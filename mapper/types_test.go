package mapper_test

import (
	"errors"
	"math/big"
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"vpack-mapper/mapper"
	"vpack-mapper/vpack"
)

type Color int

const (
	Red Color = iota + 1
	Green
	Blue
)

func (c Color) String() string {
	switch c {
	case Red:
		return "RED"
	case Green:
		return "GREEN"
	case Blue:
		return "BLUE"
	default:
		return "Color(" + strconv.Itoa(int(c)) + ")"
	}
}

type Profile struct {
	Name   string
	Scores []int
	Tags   map[string]int
}

type Point struct {
	X, Y int
}

type Item struct {
	SKU   string `vpack:"sku"`
	Qty   uint16
	Color Color
}

type Order struct {
	ID       uint64
	Customer string
	Items    []Item
	Prices   [3]float64
	Counts   map[Color]int
	Labels   map[string]struct{}
	Flags    map[Point]bool
	Total    *big.Int
	Raw      []byte
	Note     *string
	Extra    any
}

type Loop struct {
	Next *Loop
	N    int
}

type Shape interface {
	Area() float64
}

type Square struct {
	Side float64
}

func (s *Square) Area() float64 { return s.Side * s.Side }

type Drawing struct {
	Title string
	Shape Shape
}

// account exposes unexported state through explicit bindings.
type account struct {
	id      string
	balance int64
}

func (a *account) VPackFields() []mapper.FieldBinding {
	return []mapper.FieldBinding{
		{
			Name: "id",
			Type: reflect.TypeFor[string](),
			Get:  func() any { return a.id },
			Set: func(v any) error {
				a.id = v.(string)
				return nil
			},
		},
		{
			Name: "balance",
			Type: reflect.TypeFor[int64](),
			Get:  func() any { return a.balance },
			Set: func(v any) error {
				b := v.(int64)
				if b < 0 {
					return errors.New("negative balance")
				}
				a.balance = b
				return nil
			},
		},
	}
}

func colors(t *testing.T) *mapper.Registry {
	t.Helper()

	reg := mapper.NewRegistry()
	require.NoError(t, reg.RegisterEnum(Red, Green, Blue))

	return reg
}

// build assembles a tree through fn, failing the test on builder errors.
func build(t *testing.T, fn func(b *vpack.Builder) error, opts ...vpack.BuilderOption) vpack.Slice {
	t.Helper()

	b := vpack.NewBuilder(opts...)
	require.NoError(t, fn(b))

	s, err := b.Slice()
	require.NoError(t, err)

	return s
}

func object(b *vpack.Builder, kv ...any) error {
	if err := b.Add(vpack.OpenObject()); err != nil {
		return err
	}

	for i := 0; i+1 < len(kv); i += 2 {
		if err := b.AddKeyed(kv[i].(string), kv[i+1].(vpack.Value)); err != nil {
			return err
		}
	}

	return b.Close()
}

func ptr[T any](v T) *T { return &v }

func bigInt(t *testing.T, s string) *big.Int {
	t.Helper()

	x, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok)

	return x
}
