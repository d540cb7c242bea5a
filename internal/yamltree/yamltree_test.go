package yamltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpack-mapper/vpack"
)

const mixed = `
name: ada
age: 36
ratio: 0.5
active: true
nothing: null
tags: [a, b]
max: 18446744073709551615
huge: !!int 123456789012345678901234567890
when: 2024-01-02T03:04:05Z
blob: !!binary AQID
`

func TestParse(t *testing.T) {
	t.Parallel()

	tree, err := Parse([]byte(mixed))
	require.NoError(t, err)

	assert.Equal(t, `{"name":"ada","age":36,"ratio":0.5,"active":true,"nothing":null,"tags":["a","b"],`+
		`"max":18446744073709551615,"huge":123456789012345678901234567890,`+
		`"when":(date 2024-01-02T03:04:05Z),"blob":(binary 010203)}`, tree.String())

	assert.Equal(t, vpack.UInt, tree.Get("max").Type())
	assert.Equal(t, vpack.BigInt, tree.Get("huge").Type())
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	tree, err := Parse(nil)
	require.NoError(t, err)
	assert.True(t, tree.IsNone())
}

func TestParse_Aliases(t *testing.T) {
	t.Parallel()

	tree, err := Parse([]byte("base: &b {x: 1}\ncopy: *b\n"))
	require.NoError(t, err)
	assert.Equal(t, `{"base":{"x":1},"copy":{"x":1}}`, tree.String())
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("? [a, b]\n: 1\n"))
	assert.ErrorIs(t, err, ErrComplexKey)

	_, err = Parse([]byte("a: [1, 2"))
	assert.Error(t, err)

	_, err = Parse([]byte("blob: !!binary '%%%'\n"))
	assert.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	tree, err := Parse([]byte(mixed))
	require.NoError(t, err)

	data, err := Marshal(tree)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, tree.String(), again.String())
}

func TestMarshal_QuotesTypedStrings(t *testing.T) {
	t.Parallel()

	b := vpack.NewBuilder()
	require.NoError(t, b.Add(vpack.OpenArray()))
	for _, s := range []string{"123", "true", "null", "1.5", "2024-01-02", "plain"} {
		require.NoError(t, b.Add(vpack.StringValue(s)))
	}
	require.NoError(t, b.Close())

	tree, err := b.Slice()
	require.NoError(t, err)

	data, err := Marshal(tree)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"123"`)
	assert.Contains(t, string(data), "- plain")

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, `["123","true","null","1.5","2024-01-02","plain"]`, again.String())
}

func TestMarshal_Floats(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2.0", formatFloat(2))
	assert.Equal(t, "1e+21", formatFloat(1e21))
	assert.Equal(t, "-.inf", formatFloat(-1/zero()))
}

func TestMarshal_KeyCodes(t *testing.T) {
	t.Parallel()

	table := vpack.NewKeyTable()
	require.NoError(t, table.Register("tenant", 16))

	b := vpack.NewBuilder(vpack.WithKeyTranslator(table))
	require.NoError(t, b.Add(vpack.OpenObject()))
	require.NoError(t, b.AddKeyed("tenant", vpack.StringValue("acme")))
	require.NoError(t, b.Close())

	tree, err := b.Slice()
	require.NoError(t, err)
	require.True(t, tree.KeyAt(0).IsInteger())

	data, err := Marshal(tree)
	require.NoError(t, err)
	assert.Equal(t, "tenant: acme\n", string(data))

	_, err = Marshal(tree.WithKeyTranslator(nil))
	assert.ErrorIs(t, err, ErrUnresolvedKey)
}

func zero() float64 { return 0 }
