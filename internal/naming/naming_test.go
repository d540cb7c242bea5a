package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		input string
		camel string
		snake string
		kebab string
	}{
		{"Name", "name", "name", "name"},
		{"ID", "id", "id", "id"},
		{"OrderID", "orderId", "order_id", "order-id"},
		{"HTTPPort", "httpPort", "http_port", "http-port"},
		{"XMLParser", "xmlParser", "xml_parser", "xml-parser"},
		{"createdAt", "createdAt", "created_at", "created-at"},
		{"price_cents", "priceCents", "price_cents", "price-cents"},
		{"Int8Value", "int8Value", "int_8_value", "int-8-value"},
		{"A", "a", "a", "a"},
		{"", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.camel, LowerCamel.Apply(tt.input))
			assert.Equal(t, tt.snake, Snake.Apply(tt.input))
			assert.Equal(t, tt.kebab, Kebab.Apply(tt.input))
			assert.Equal(t, tt.input, AsIs.Apply(tt.input))
		})
	}
}

func TestParse(t *testing.T) {
	for _, c := range []Convention{LowerCamel, AsIs, Snake, Kebab} {
		parsed, err := Parse(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	c, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, LowerCamel, c)

	_, err = Parse("screaming")
	assert.Error(t, err)
	assert.Equal(t, "Convention(9)", Convention(9).String())
}

func TestClosest(t *testing.T) {
	candidates := []string{"ACTIVE", "INACTIVE", "DELETED"}

	got, ok := Closest("ACTIV", candidates)
	require.True(t, ok)
	assert.Equal(t, "ACTIVE", got)

	got, ok = Closest("deleted", candidates)
	require.True(t, ok)
	assert.Equal(t, "DELETED", got)

	_, ok = Closest("PURPLE", candidates)
	assert.False(t, ok)

	got, ok = Closest("kebap", []string{"lower_camel", "snake", "kebab"})
	require.True(t, ok)
	assert.Equal(t, "kebab", got)

	_, ok = Closest("x", nil)
	assert.False(t, ok)
}
