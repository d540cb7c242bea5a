package config

import (
	"fmt"
	"strings"
	"unicode"

	"vpack-mapper/internal/diagnostic"
	"vpack-mapper/internal/naming"
	"vpack-mapper/mapper"
	"vpack-mapper/vpack"
)

const (
	sectionFile   = "file"
	sectionMapper = "mapper"
	sectionKeys   = "keys"

	// larger depths only warn
	suspiciousDepth = 10_000
)

var namingSpellings = []string{
	naming.LowerCamel.String(),
	naming.AsIs.String(),
	naming.Snake.String(),
	naming.Kebab.String(),
}

// Validate checks f and reports every problem found.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("config_is_nil", "config file is nil", "", "")
		return res
	}

	if f.Version != CurrentVersion {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported version %q", f.Version), sectionFile, "version", CurrentVersion)
	}

	validateMapper(res, &f.Mapper)
	validateKeys(res, f)

	return res
}

func validateMapper(res *diagnostic.Diagnostics, m *MapperSection) {
	switch {
	case m.MaxDepth < 0:
		res.AddError("invalid_max_depth", fmt.Sprintf("max_depth must be positive, got %d", m.MaxDepth), sectionMapper, "max_depth")
	case m.MaxDepth > suspiciousDepth:
		res.AddWarning("large_max_depth", fmt.Sprintf("max_depth %d may exhaust the stack before it triggers", m.MaxDepth), sectionMapper, "max_depth")
	}

	if _, err := naming.Parse(m.Naming); err != nil {
		var suggestions []string
		if guess, ok := naming.Closest(m.Naming, namingSpellings); ok {
			suggestions = append(suggestions, guess)
		}

		res.AddError("invalid_naming", fmt.Sprintf("unknown naming convention %q", m.Naming), sectionMapper, "naming", suggestions...)
	}

	if strings.IndexFunc(m.FieldTag, func(r rune) bool { return unicode.IsSpace(r) || r == ':' || r == '"' }) >= 0 {
		res.AddError("invalid_field_tag", fmt.Sprintf("field_tag %q is not a valid struct tag key", m.FieldTag), sectionMapper, "field_tag")
	}
}

func validateKeys(res *diagnostic.Diagnostics, f *File) {
	names := map[string]struct{}{}
	codes := map[int64]string{}

	if f.Mapper.ArangoKeys {
		arango := vpack.ArangoKeyTable()
		for _, name := range arango.Names() {
			code, _ := arango.ToKey(name)
			names[name] = struct{}{}
			codes[code] = name
		}
	}

	for _, k := range f.Keys {
		if k.Name == "" {
			res.AddError("empty_key_name", fmt.Sprintf("key code %d has no name", k.Code), sectionKeys, "")
			continue
		}

		if _, ok := names[k.Name]; ok {
			res.AddError("duplicate_key_name", fmt.Sprintf("duplicate key name %q", k.Name), sectionKeys, k.Name)
			continue
		}

		if other, ok := codes[k.Code]; ok {
			res.AddError("duplicate_key_code", fmt.Sprintf("key code %d already used by %q", k.Code, other), sectionKeys, k.Name)
			continue
		}

		names[k.Name] = struct{}{}
		codes[k.Code] = k.Name
	}

	if f.Mapper.ArangoKeys || len(f.Keys) > 0 {
		res.AddInfo("key_translation", fmt.Sprintf("%d key translations", len(codes)), sectionKeys, "")
	}
}

// KeyTable builds the key translator of f, or nil when f declares none.
func (f *File) KeyTable() (*vpack.KeyTable, error) {
	if !f.Mapper.ArangoKeys && len(f.Keys) == 0 {
		return nil, nil
	}

	table := vpack.NewKeyTable()
	if f.Mapper.ArangoKeys {
		table = vpack.ArangoKeyTable()
	}

	for _, k := range f.Keys {
		if err := table.Register(k.Name, k.Code); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// Options validates f and converts it into mapper options.
func (f *File) Options() ([]mapper.Option, error) {
	if diags := Validate(f); diags.HasErrors() {
		return nil, diags.Error()
	}

	conv, err := mapper.ParseNaming(f.Mapper.Naming)
	if err != nil {
		return nil, err
	}

	opts := []mapper.Option{
		mapper.WithMaxDepth(f.Mapper.MaxDepth),
		mapper.WithStrictNumbers(f.Mapper.StrictNumbers),
		mapper.WithNaming(conv),
		mapper.WithFieldTag(f.Mapper.FieldTag),
	}

	table, err := f.KeyTable()
	if err != nil {
		return nil, err
	}

	if table != nil {
		opts = append(opts, mapper.WithKeyTranslator(table))
	}

	return opts, nil
}
