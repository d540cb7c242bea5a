package mapper_test

import (
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpack-mapper/mapper"
	"vpack-mapper/vpack"
)

type Audit struct {
	CreatedBy string
	Version   int
}

type base struct {
	ID      string
	Version string
}

type Entity struct {
	Name     string
	HTTPPort int
	Skipped  string `vpack:"-"`
	Renamed  bool   `vpack:"is_on"`
	secret   string
	_        int
	*Audit
	base
}

type Money struct {
	Cents int64
}

type Stamped struct {
	time.Time
	*big.Int
	Money
	Note string
}

type hidden struct {
	Secret string
}

type Exposed struct {
	*hidden
	Name string
}

func names(fields []mapper.FieldDescriptor) []string {
	out := make([]string, 0, len(fields))
	for _, fd := range fields {
		out = append(out, fd.Name)
	}

	return out
}

func TestVPack_Fields(t *testing.T) {
	t.Parallel()

	vp := mapper.New(nil)

	fields, err := vp.Fields(reflect.TypeFor[Entity]())
	require.NoError(t, err)

	// own fields first, then promoted ones; the first Version wins
	assert.Equal(t, []string{"name", "httpPort", "is_on", "createdBy", "version", "id"}, names(fields))
	assert.Equal(t, "HTTPPort", fields[1].GoName)
	assert.Equal(t, []int{6, 1}, fields[4].Index)
	assert.Equal(t, reflect.TypeFor[int](), fields[4].Type)

	again, err := vp.Fields(reflect.TypeFor[*Entity]())
	require.NoError(t, err)
	assert.Equal(t, fields, again)

	_, err = vp.Fields(reflect.TypeFor[int]())
	assert.ErrorIs(t, err, mapper.ErrUnsupportedType)

	bound, err := vp.Fields(reflect.TypeFor[account]())
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "balance"}, names(bound))
}

func TestVPack_FieldNaming(t *testing.T) {
	t.Parallel()

	type config struct {
		HTTPPort int
		Name     string `json:"label"`
	}

	snake := mapper.New(nil, mapper.WithNaming(mapper.NamingSnake))
	tree, err := snake.Serialize(config{HTTPPort: 80, Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"http_port":80,"name":"x"}`, tree.String())

	tagged := mapper.New(nil, mapper.WithNaming(mapper.NamingAsIs), mapper.WithFieldTag("json"))
	tree, err = tagged.Serialize(config{HTTPPort: 80, Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"HTTPPort":80,"label":"x"}`, tree.String())
}

func TestVPack_EmbeddedStructs(t *testing.T) {
	t.Parallel()

	vp := mapper.New(nil)

	in := Entity{Name: "svc", HTTPPort: 8080, Skipped: "x", Renamed: true, secret: "s"}
	in.ID = "e1"

	tree, err := vp.Serialize(in)
	require.NoError(t, err)
	assert.Equal(t,
		`{"name":"svc","httpPort":8080,"is_on":true,"createdBy":null,"version":null,"id":"e1"}`,
		tree.String())

	out, err := mapper.DeserializeAs[Entity](vp, tree)
	require.NoError(t, err)

	want := Entity{Name: "svc", HTTPPort: 8080, Renamed: true}
	want.ID = "e1"
	assert.Equal(t, want, out)

	in.Audit = &Audit{CreatedBy: "ops", Version: 3}
	tree, err = vp.Serialize(in)
	require.NoError(t, err)

	out, err = mapper.DeserializeAs[Entity](vp, tree)
	require.NoError(t, err)
	require.NotNil(t, out.Audit)
	assert.Equal(t, Audit{CreatedBy: "ops", Version: 3}, *out.Audit)
}

func TestComponentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		typ      reflect.Type
		position int
		want     reflect.Type
		wantErr  bool
	}{
		{"slice element", reflect.TypeFor[[]string](), 0, reflect.TypeFor[string](), false},
		{"array element", reflect.TypeFor[[4]int](), 0, reflect.TypeFor[int](), false},
		{"map key", reflect.TypeFor[map[Color]bool](), 0, reflect.TypeFor[Color](), false},
		{"map value", reflect.TypeFor[map[Color]bool](), 1, reflect.TypeFor[bool](), false},
		{"set element", reflect.TypeFor[map[int]struct{}](), 0, reflect.TypeFor[int](), false},
		{"through pointer", reflect.TypeFor[*[]any](), 0, reflect.TypeFor[any](), false},
		{"slice has no second component", reflect.TypeFor[[]string](), 1, nil, true},
		{"map has no third component", reflect.TypeFor[map[string]int](), 2, nil, true},
		{"struct is not a container", reflect.TypeFor[Profile](), 0, nil, true},
		{"nil type", nil, 0, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := mapper.ComponentType(tt.typ, tt.position)
			if tt.wantErr {
				assert.ErrorIs(t, err, mapper.ErrNotAContainer)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, mapper.IsUniversal(reflect.TypeFor[any]()))
	assert.False(t, mapper.IsUniversal(reflect.TypeFor[string]()))
}

func TestVPack_EmbeddedScalars(t *testing.T) {
	t.Parallel()

	reg := mapper.NewRegistry()
	require.NoError(t, reg.RegisterSerializer(func(b *vpack.Builder, key mapper.Key, m Money) error {
		return key.Add(b, vpack.IntValue(m.Cents))
	}))
	require.NoError(t, reg.RegisterDeserializer(func(s vpack.Slice) (Money, error) {
		c, err := s.AsInt64()
		return Money{Cents: c}, err
	}))

	vp := mapper.New(reg)

	fields, err := vp.Fields(reflect.TypeFor[Stamped]())
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "int", "money", "note"}, names(fields))

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	in := Stamped{Time: at, Int: big.NewInt(7), Money: Money{Cents: 250}, Note: "x"}

	tree, err := vp.Serialize(in)
	require.NoError(t, err)
	assert.Equal(t, `{"time":(date 2024-01-02T03:04:05Z),"int":7,"money":250,"note":"x"}`, tree.String())

	out, err := mapper.DeserializeAs[Stamped](vp, tree)
	require.NoError(t, err)
	assert.True(t, at.Equal(out.Time))
	assert.Equal(t, 0, big.NewInt(7).Cmp(out.Int))
	assert.Equal(t, Money{Cents: 250}, out.Money)
	assert.Equal(t, "x", out.Note)

	// without codecs Money is an ordinary embedded struct
	plain, err := mapper.New(nil).Fields(reflect.TypeFor[Stamped]())
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "int", "note", "cents"}, names(plain))
}

func TestVPack_UnexportedEmbeddedPointer(t *testing.T) {
	t.Parallel()

	vp := mapper.New(nil)

	fields, err := vp.Fields(reflect.TypeFor[Exposed]())
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, names(fields))

	tree, err := vp.Serialize(Exposed{hidden: &hidden{Secret: "s"}, Name: "n"})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"n"}`, tree.String())

	out, err := mapper.DeserializeAs[Exposed](vp, tree)
	require.NoError(t, err)
	assert.Equal(t, Exposed{Name: "n"}, out)
}
