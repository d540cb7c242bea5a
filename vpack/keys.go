package vpack

import (
	"fmt"
	"slices"
)

// KeyTranslator maps between object key names and compact integer key codes.
type KeyTranslator interface {
	ToKey(name string) (int64, bool)
	FromKey(code int64) (string, bool)
}

// KeyTable is a bidirectional KeyTranslator. It is filled during setup and
// read-only afterwards.
type KeyTable struct {
	byName map[string]int64
	byCode map[int64]string
}

func NewKeyTable() *KeyTable {
	return &KeyTable{
		byName: make(map[string]int64),
		byCode: make(map[int64]string),
	}
}

// ArangoKeyTable returns the system attribute codes used by ArangoDB.
func ArangoKeyTable() *KeyTable {
	t := NewKeyTable()
	for code, name := range []string{"_key", "_rev", "_id", "_from", "_to"} {
		_ = t.Register(name, int64(code+1))
	}

	return t
}

// Register binds name and code; each may be bound only once.
func (t *KeyTable) Register(name string, code int64) error {
	if name == "" {
		return fmt.Errorf("key table: empty name for code %d", code)
	}

	if prev, ok := t.byName[name]; ok {
		return fmt.Errorf("key table: %q already bound to %d", name, prev)
	}

	if prev, ok := t.byCode[code]; ok {
		return fmt.Errorf("key table: code %d already bound to %q", code, prev)
	}

	t.byName[name] = code
	t.byCode[code] = name

	return nil
}

func (t *KeyTable) ToKey(name string) (int64, bool) {
	code, ok := t.byName[name]
	return code, ok
}

func (t *KeyTable) FromKey(code int64) (string, bool) {
	name, ok := t.byCode[code]
	return name, ok
}

func (t *KeyTable) Len() int {
	return len(t.byName)
}

// Names returns the bound names ordered by code.
func (t *KeyTable) Names() []string {
	codes := make([]int64, 0, len(t.byCode))
	for code := range t.byCode {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, t.byCode[code])
	}

	return names
}
