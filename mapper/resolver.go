package mapper

import (
	"fmt"
	"reflect"

	"vpack-mapper/kind"
)

// ComponentType returns the type parameter of a container type: the element
// of an array, slice or set at position 0, the key (0) or value (1) of a map.
// Pointers are looked through. Anything else is a configuration error.
func ComponentType(t reflect.Type, position int) (reflect.Type, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrNotAContainer)
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	k := kind.FromReflectType(t)
	if !k.IsContainer() && k != kind.Bytes {
		return nil, fmt.Errorf("%w: %s is not a container", ErrNotAContainer, t)
	}

	switch {
	case k == kind.Map && position == 1:
		return t.Elem(), nil
	case k == kind.Map || k == kind.Set:
		if position == 0 {
			return t.Key(), nil
		}
	case position == 0:
		return t.Elem(), nil
	}

	return nil, fmt.Errorf("%w: %s has no component at position %d", ErrNotAContainer, t, position)
}

// IsUniversal reports whether values of t carry their concrete type only at
// runtime, so mapping must look at the actual value.
func IsUniversal(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface
}
