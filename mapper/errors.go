package mapper

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrCodecIsNotAFunction = errors.New("provided codec is not a function")
	ErrNotACodec           = errors.New("provided function is not a recognizable codec")
	ErrNotAnEnum           = errors.New("enum values must share one comparable named type implementing fmt.Stringer")
	ErrNotAContainer       = errors.New("type has no component at the requested position")
	ErrUnknownEnumConstant = errors.New("unknown enum constant")
	ErrUnsupportedType     = errors.New("unsupported type")
	ErrUnexpectedNode      = errors.New("unexpected node type")
	ErrMissingAccessor     = errors.New("missing field accessor")
	ErrMaxDepthExceeded    = errors.New("max depth exceeded")
	ErrNumberOverflow      = errors.New("number overflows target type")
	ErrArrayLength         = errors.New("array node longer than target array")
	ErrInvalidTarget       = errors.New("deserialize target must be a non-nil pointer")
	ErrUnbalancedCodec     = errors.New("custom serializer left the builder unbalanced")
)

const (
	opSerialize   = "serialize"
	opDeserialize = "deserialize"
)

// ParserError is the single failure returned by Serialize and Deserialize.
// It wraps the original cause; Path names the node being mapped when the
// failure happened, e.g. "items[2].sku".
type ParserError struct {
	Op   string
	Path string
	Err  error
}

func (e *ParserError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("vpack: %s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("vpack: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ParserError) Unwrap() error {
	return e.Err
}

// KeyTypeError reports a map key that cannot be converted between its tree
// form and its Go type.
type KeyTypeError struct {
	Key    string
	Type   reflect.Type
	Reason string
	Err    error
}

func (e *KeyTypeError) Error() string {
	typeName := "<nil>"
	if e.Type != nil {
		typeName = e.Type.String()
	}

	return fmt.Sprintf("can not convert key %q in type %s: %s", e.Key, typeName, e.Reason)
}

func (e *KeyTypeError) Unwrap() error {
	return e.Err
}
