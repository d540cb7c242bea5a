// Package config loads mapper settings from YAML or TOML files.
//
// Example YAML:
//
//	version: "1"
//	mapper:
//	  max_depth: 64
//	  strict_numbers: true
//	  naming: snake
//	  field_tag: vpack
//	  arango_keys: true
//	keys:
//	  - name: tenant
//	    code: 16
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"vpack-mapper/mapper"
)

var log = logger.GetOrCreate("config")

var ErrUnknownFormat = errors.New("unknown configuration format")

const CurrentVersion = "1"

// File is a parsed configuration file.
type File struct {
	Version string        `yaml:"version" toml:"version"`
	Mapper  MapperSection `yaml:"mapper" toml:"mapper"`
	Keys    []KeyEntry    `yaml:"keys" toml:"keys"`
}

// MapperSection holds the options of mapper.New.
type MapperSection struct {
	MaxDepth      int    `yaml:"max_depth" toml:"max_depth"`
	StrictNumbers bool   `yaml:"strict_numbers" toml:"strict_numbers"`
	Naming        string `yaml:"naming" toml:"naming"`
	FieldTag      string `yaml:"field_tag" toml:"field_tag"`
	// ArangoKeys preloads the key codes of the ArangoDB system attributes.
	ArangoKeys bool `yaml:"arango_keys" toml:"arango_keys"`
}

// KeyEntry is one key translation.
type KeyEntry struct {
	Name string `yaml:"name" toml:"name"`
	Code int64  `yaml:"code" toml:"code"`
}

// LoadFile loads and parses a configuration file, choosing the format by
// extension (.yaml, .yml or .toml).
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var f *File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		f, err = ParseYAML(data)
	case ".toml":
		f, err = ParseTOML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug("configuration loaded", "path", path, "keys", len(f.Keys))
	return f, nil
}

// ParseYAML parses YAML data into a File.
func ParseYAML(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// ParseTOML parses TOML data into a File.
func ParseTOML(data []byte) (*File, error) {
	var f File

	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config TOML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = CurrentVersion
	}

	if f.Mapper.MaxDepth == 0 {
		f.Mapper.MaxDepth = mapper.DefaultMaxDepth
	}

	if f.Mapper.Naming == "" {
		f.Mapper.Naming = mapper.NamingLowerCamel.String()
	}

	if f.Mapper.FieldTag == "" {
		f.Mapper.FieldTag = mapper.DefaultFieldTag
	}
}
