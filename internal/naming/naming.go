// Package naming turns Go field identifiers into value tree keys.
//
// Go exports fields with an upper-case first letter, while trees written by
// other VelocyPack producers conventionally use lowerCamel keys. A Convention
// translates one into the other so that `Name`, `HTTPPort` and `CreatedAt`
// become `name`, `httpPort` and `createdAt` by default.
package naming

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// Convention selects how a Go identifier is rendered as a tree key.
type Convention int

const (
	LowerCamel Convention = iota // name, httpPort
	AsIs                         // Name, HTTPPort
	Snake                        // name, http_port
	Kebab                        // name, http-port
)

// String returns the configuration spelling of the convention.
func (c Convention) String() string {
	switch c {
	case LowerCamel:
		return "lower_camel"
	case AsIs:
		return "as_is"
	case Snake:
		return "snake"
	case Kebab:
		return "kebab"
	default:
		return fmt.Sprintf("Convention(%d)", int(c))
	}
}

// Parse reads a convention from its configuration spelling.
func Parse(s string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lower_camel", "lowercamel", "camel":
		return LowerCamel, nil
	case "as_is", "asis", "field":
		return AsIs, nil
	case "snake", "snake_case":
		return Snake, nil
	case "kebab", "kebab_case":
		return Kebab, nil
	default:
		return 0, fmt.Errorf("unknown naming convention %q", s)
	}
}

// Apply renders ident according to the convention. Acronyms count as one
// word: "HTTPPort" is "httpPort" in lowerCamel and "http_port" in snake case.
func (c Convention) Apply(ident string) string {
	switch c {
	case AsIs:
		return ident
	case Snake:
		return strcase.ToSnake(ident)
	case Kebab:
		return strcase.ToKebab(ident)
	default:
		// strcase.ToLowerCamel folds acronym runs into the next word
		// ("HTTPPort" -> "httpport"); going through snake case keeps the
		// word boundary.
		return strcase.ToLowerCamel(strcase.ToSnake(ident))
	}
}
