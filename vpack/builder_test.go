package vpack

import (
	"math/big"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Object(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	require.NoError(t, b.Add(OpenObject()))
	require.NoError(t, b.AddKeyed("name", StringValue("ada")))
	require.NoError(t, b.AddKeyed("scores", OpenArray()))
	for _, n := range []int64{1, 2, 3} {
		require.NoError(t, b.Add(IntValue(n)))
	}
	require.NoError(t, b.Close())
	require.NoError(t, b.AddKeyed("nothing", NullValue()))
	require.NoError(t, b.Close())

	s, err := b.Slice()
	require.NoError(t, err)

	assert.True(t, s.IsObject())
	assert.Equal(t, 3, s.Length())
	assert.Equal(t, `{"name":"ada","scores":[1,2,3],"nothing":null}`, s.String(), spew.Sdump(s))

	name, err := s.Get("name").AsString()
	require.NoError(t, err)
	assert.Equal(t, "ada", name)

	assert.True(t, s.Get("nothing").IsNull())
	assert.True(t, s.Get("missing").IsNone())
	assert.False(t, s.Get("missing").IsNull())

	scores := s.Get("scores")
	assert.Equal(t, 3, scores.Length())
	v, err := scores.At(2).AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
	assert.True(t, scores.At(3).IsNone())
}

func TestBuilder_ProtocolErrors(t *testing.T) {
	t.Parallel()

	t.Run("close without open", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		assert.ErrorIs(t, b.Close(), ErrNeedOpenCompound)
	})

	t.Run("unkeyed value inside object", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		require.NoError(t, b.Add(OpenObject()))
		assert.ErrorIs(t, b.Add(IntValue(1)), ErrNeedOpenObject)
	})

	t.Run("keyed value without object", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		assert.ErrorIs(t, b.AddKeyed("a", IntValue(1)), ErrNeedOpenObject)
	})

	t.Run("keyed value inside array", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		require.NoError(t, b.Add(OpenArray()))
		assert.ErrorIs(t, b.AddKeyed("a", IntValue(1)), ErrUnexpectedValue)
	})

	t.Run("second root", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		require.NoError(t, b.Add(IntValue(1)))
		assert.ErrorIs(t, b.Add(IntValue(2)), ErrUnexpectedValue)
	})

	t.Run("duplicate key", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		require.NoError(t, b.Add(OpenObject()))
		require.NoError(t, b.AddKeyed("a", IntValue(1)))
		assert.ErrorIs(t, b.AddKeyed("a", IntValue(2)), ErrKeyAlreadyWritten)

		// the same key is fine in a nested object
		require.NoError(t, b.AddKeyed("inner", OpenObject()))
		require.NoError(t, b.AddKeyed("a", IntValue(3)))
		require.NoError(t, b.Close())
		require.NoError(t, b.Close())
	})

	t.Run("small int out of range", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		require.NoError(t, b.Add(OpenArray()))
		require.NoError(t, b.Add(SmallIntValue(-6)))
		require.NoError(t, b.Add(SmallIntValue(9)))
		assert.ErrorIs(t, b.Add(SmallIntValue(10)), ErrNumberOutOfRange)
		require.NoError(t, b.Close())

		s, err := b.Slice()
		require.NoError(t, err)
		assert.Equal(t, 2, s.Length())
	})

	t.Run("slice with open compounds", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		require.NoError(t, b.Add(OpenArray()))
		_, err := b.Slice()
		assert.ErrorIs(t, err, ErrBuilderNotClosed)
	})
}

func TestBuilder_EmptyIsNone(t *testing.T) {
	t.Parallel()

	s, err := NewBuilder().Slice()
	require.NoError(t, err)
	assert.True(t, s.IsNone())
	assert.Equal(t, "none", s.String())
}

func TestBuilder_KeyTranslator(t *testing.T) {
	t.Parallel()

	keys := ArangoKeyTable()
	b := NewBuilder(WithKeyTranslator(keys))
	require.NoError(t, b.Add(OpenObject()))
	require.NoError(t, b.AddKeyed("_key", StringValue("k1")))
	require.NoError(t, b.AddKeyed("name", StringValue("n")))
	require.NoError(t, b.Close())

	s, err := b.Slice()
	require.NoError(t, err)

	assert.True(t, s.KeyAt(0).IsInteger())
	code, err := s.KeyAt(0).AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), code)
	assert.True(t, s.KeyAt(1).IsString())

	v, err := s.Get("_key").AsString()
	require.NoError(t, err)
	assert.Equal(t, "k1", v)

	name, err := s.KeyName(0)
	require.NoError(t, err)
	assert.Equal(t, "_key", name)

	// without a translator the integer key cannot be resolved by name
	bare := s.WithKeyTranslator(nil)
	assert.True(t, bare.Get("_key").IsNone())
	_, err = bare.KeyName(0)
	assert.ErrorIs(t, err, ErrUnexpectedType)
	assert.Equal(t, `{#1:"k1","name":"n"}`, bare.String())
}

func TestSlice_ScalarGetters(t *testing.T) {
	t.Parallel()

	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)

	b := NewBuilder()
	require.NoError(t, b.Add(OpenArray()))
	for _, v := range []Value{
		BoolValue(true),
		IntValue(-4),
		UIntValue(1 << 63),
		DoubleValue(1.5),
		BigIntValue(huge),
		BigFloatValue(big.NewFloat(2.25)),
		BinaryValue([]byte{0x0a, 0x0b}),
		DateValue(when),
		BigIntValue(nil),
	} {
		require.NoError(t, b.Add(v))
	}
	require.NoError(t, b.Close())

	s, err := b.Slice()
	require.NoError(t, err)

	assert.Equal(t,
		`[true,-4,9223372036854775808,1.5,123456789012345678901234567890,2.25,(binary 0a0b),(date 2024-01-02T03:04:05Z),null]`,
		s.String())

	_, err = s.At(0).AsInt64()
	assert.ErrorIs(t, err, ErrUnexpectedType)

	_, err = s.At(1).AsUint64()
	assert.ErrorIs(t, err, ErrNumberOutOfRange)

	_, err = s.At(2).AsInt64()
	assert.ErrorIs(t, err, ErrNumberOutOfRange)

	f, err := s.At(1).AsFloat64()
	require.NoError(t, err)
	assert.Equal(t, -4.0, f)

	bi, err := s.At(4).AsBigInt()
	require.NoError(t, err)
	assert.Equal(t, 0, bi.Cmp(huge))

	bf, err := s.At(4).AsBigFloat()
	require.NoError(t, err)
	assert.True(t, bf.IsInt())

	bin, err := s.At(6).AsBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0x0b}, bin)

	got, err := s.At(7).AsTime()
	require.NoError(t, err)
	assert.True(t, when.Equal(got))

	n, err := s.At(3).Number()
	require.NoError(t, err)
	assert.Equal(t, 1.5, n)

	assert.True(t, s.At(4).IsInteger())
	assert.True(t, s.At(5).IsNumber())
	assert.False(t, s.At(6).IsNumber())
}

func TestBuilder_ValuesAreCopied(t *testing.T) {
	t.Parallel()

	data := []byte{1, 2}
	x := big.NewInt(5)

	b := NewBuilder()
	require.NoError(t, b.Add(OpenArray()))
	require.NoError(t, b.Add(BinaryValue(data)))
	require.NoError(t, b.Add(BigIntValue(x)))
	require.NoError(t, b.Close())

	data[0] = 9
	x.SetInt64(6)

	s, err := b.Slice()
	require.NoError(t, err)
	assert.Equal(t, "[(binary 0102),5]", s.String())
}
