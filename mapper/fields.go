package mapper

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"vpack-mapper/internal/common"
	"vpack-mapper/internal/naming"
	"vpack-mapper/kind"
)

// FieldDescriptor describes one mapped attribute of a struct type.
type FieldDescriptor struct {
	// Name is the tree key.
	Name string
	// GoName is the Go field name, empty for bindings.
	GoName string
	Type   reflect.Type
	// Index is the reflect index path, nil for bindings.
	Index []int
}

// FieldBinding is an explicit accessor pair for one attribute.
type FieldBinding struct {
	Name string
	Type reflect.Type
	Get  func() any
	Set  func(v any) error
}

// FieldBinder is implemented by types that describe their own attributes
// instead of being walked by reflection. VPackFields is called on a pointer
// to the value being mapped; the returned bindings close over it.
type FieldBinder interface {
	VPackFields() []FieldBinding
}

var binderType = reflect.TypeFor[FieldBinder]()

func isBinder(t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(binderType)
}

// bindings returns the bindings of the struct value v, which must be addressable.
func bindings(v reflect.Value) []FieldBinding {
	return v.Addr().Interface().(FieldBinder).VPackFields()
}

// fieldWalker lists the mapped fields of struct types and caches the result.
type fieldWalker struct {
	naming naming.Convention
	tag    string
	reg    *Registry
	cache  sync.Map // reflect.Type -> []FieldDescriptor
}

func newFieldWalker(n naming.Convention, tag string, reg *Registry) *fieldWalker {
	return &fieldWalker{naming: n, tag: tag, reg: reg}
}

// promotes reports whether the fields of an embedded t are promoted into
// the embedding struct. Embedded scalars (time.Time, big.Int), binders and
// types with custom codecs are mapped as a single named field instead.
func (w *fieldWalker) promotes(t reflect.Type) bool {
	if kind.FromReflectType(t) != kind.Struct || isBinder(t) {
		return false
	}

	if _, ok := w.reg.LookupSerializer(t); ok {
		return false
	}

	if _, ok := w.reg.LookupDeserializer(t); ok {
		return false
	}

	_, ok := w.reg.LookupEnum(t)
	return !ok
}

// Fields returns the mapped fields of t: own exported fields in declaration
// order, then the fields promoted from embedded structs, level by level.
// Fields hidden by a shallower field with the same key are dropped, and so
// is everything behind an unexported embedded pointer, which could not be
// allocated when reading.
func (w *fieldWalker) Fields(t reflect.Type) ([]FieldDescriptor, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v is not a struct", ErrUnsupportedType, t)
	}

	if cached, ok := w.cache.Load(t); ok {
		return cached.([]FieldDescriptor), nil
	}

	var fields []FieldDescriptor
	if isBinder(t) {
		for _, b := range bindings(reflect.New(t).Elem()) {
			fields = append(fields, FieldDescriptor{Name: b.Name, Type: b.Type})
		}
	} else {
		fields = w.walk(t)
	}

	actual, _ := w.cache.LoadOrStore(t, fields)
	return actual.([]FieldDescriptor), nil
}

type walkLevel struct {
	typ   reflect.Type
	index []int
}

func (w *fieldWalker) walk(root reflect.Type) []FieldDescriptor {
	var (
		fields  []FieldDescriptor
		seen    = make(map[string]struct{})
		visited = map[reflect.Type]struct{}{root: {}}
		current = []walkLevel{{typ: root}}
	)

	for len(current) > 0 {
		var next []walkLevel
		names := make(map[string]struct{})

		for _, lvl := range current {
			for i := 0; i < lvl.typ.NumField(); i++ {
				sf := lvl.typ.Field(i)
				index := append(append([]int(nil), lvl.index...), i)

				tag, tagged := sf.Tag.Lookup(w.tag)
				name, _ := common.Unpack2(strings.SplitN(tag, ",", 2))
				if name == "-" {
					continue
				}

				if sf.Anonymous && name == "" {
					ft := sf.Type
					if ft.Kind() == reflect.Pointer {
						if !sf.IsExported() {
							continue
						}
						ft = ft.Elem()
					}

					if w.promotes(ft) {
						if _, ok := visited[ft]; !ok {
							visited[ft] = struct{}{}
							next = append(next, walkLevel{typ: ft, index: index})
						}
						continue
					}
				}

				if !sf.IsExported() {
					continue
				}

				if !tagged || name == "" {
					name = w.naming.Apply(sf.Name)
				}

				if _, ok := seen[name]; ok {
					continue
				}

				if _, ok := names[name]; ok {
					continue
				}

				names[name] = struct{}{}
				fields = append(fields, FieldDescriptor{
					Name:   name,
					GoName: sf.Name,
					Type:   sf.Type,
					Index:  index,
				})
			}
		}

		for name := range names {
			seen[name] = struct{}{}
		}

		current = next
	}

	return fields
}

// fieldValue returns the field of struct v at index. It reports false when
// the path crosses a nil embedded pointer.
func fieldValue(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}

	return v, true
}

// settableField returns the field of the addressable struct v at index,
// allocating nil embedded pointers on the way.
func settableField(v reflect.Value, index []int) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}

	if !v.CanSet() {
		return reflect.Value{}, fmt.Errorf("%w: field is not settable", ErrMissingAccessor)
	}

	return v, nil
}
