package mapper

import (
	"vpack-mapper/internal/naming"
	"vpack-mapper/vpack"
)

const (
	// DefaultMaxDepth bounds nesting so that cyclic object graphs fail
	// instead of exhausting the stack.
	DefaultMaxDepth = 100

	DefaultFieldTag = "vpack"
)

// Naming selects how Go field names become tree keys.
type Naming = naming.Convention

const (
	NamingLowerCamel = naming.LowerCamel
	NamingAsIs       = naming.AsIs
	NamingSnake      = naming.Snake
	NamingKebab      = naming.Kebab
)

// ParseNaming reads a naming convention from its configuration spelling
// (lower_camel, as_is, snake, kebab).
func ParseNaming(s string) (Naming, error) {
	return naming.Parse(s)
}

type config struct {
	maxDepth      int
	strictNumbers bool
	naming        Naming
	fieldTag      string
	keys          vpack.KeyTranslator
}

func defaultConfig() config {
	return config{
		maxDepth: DefaultMaxDepth,
		naming:   NamingLowerCamel,
		fieldTag: DefaultFieldTag,
	}
}

// Option configures a VPack.
type Option func(*config)

// WithMaxDepth sets the maximum nesting depth of a single mapping call.
// Non-positive values keep the default.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithStrictNumbers makes lossy numeric narrowing during deserialization
// fail with ErrNumberOverflow instead of truncating silently.
func WithStrictNumbers(strict bool) Option {
	return func(c *config) {
		c.strictNumbers = strict
	}
}

func WithNaming(n Naming) Option {
	return func(c *config) {
		c.naming = n
	}
}

// WithFieldTag changes the struct tag consulted for key names (default "vpack").
func WithFieldTag(tag string) Option {
	return func(c *config) {
		if tag != "" {
			c.fieldTag = tag
		}
	}
}

// WithKeyTranslator writes known object keys as integer codes and resolves
// integer keys found in trees being read.
func WithKeyTranslator(kt vpack.KeyTranslator) Option {
	return func(c *config) {
		c.keys = kt
	}
}
