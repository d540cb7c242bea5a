// Package yamltree converts YAML documents to value trees and back.
//
// Scalars keep their resolved YAML type: !!int becomes Int (UInt or BigInt
// when it does not fit), !!float Double, !!timestamp UTCDate and !!binary
// Binary. Aliases are expanded.
package yamltree

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"vpack-mapper/vpack"
)

var (
	ErrComplexKey    = errors.New("mapping keys must be scalars")
	ErrAliasDepth    = errors.New("alias nesting too deep")
	ErrUnresolvedKey = errors.New("object key can not be rendered")
)

// maxAliasDepth bounds alias expansion, which may otherwise recurse forever.
const maxAliasDepth = 64

// Parse reads the first YAML document of data into a tree. An empty input gives a
// None slice.
func Parse(data []byte, opts ...vpack.BuilderOption) (vpack.Slice, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return vpack.Slice{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	b := vpack.NewBuilder(opts...)
	if err := Build(b, &doc); err != nil {
		return vpack.Slice{}, err
	}

	return b.Slice()
}

// Build writes node into b as an unkeyed value.
func Build(b *vpack.Builder, node *yaml.Node) error {
	w := &writer{b: b}
	return w.node(node, "", false, 0)
}

type writer struct {
	b *vpack.Builder
}

func (w *writer) add(key string, keyed bool, v vpack.Value) error {
	if keyed {
		return w.b.AddKeyed(key, v)
	}

	return w.b.Add(v)
}

func (w *writer) node(n *yaml.Node, key string, keyed bool, aliases int) error {
	switch n.Kind {
	case 0:
		return nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return w.node(n.Content[0], key, keyed, aliases)
	case yaml.AliasNode:
		if aliases >= maxAliasDepth {
			return fmt.Errorf("%w: line %d", ErrAliasDepth, n.Line)
		}
		return w.node(n.Alias, key, keyed, aliases+1)
	case yaml.SequenceNode:
		if err := w.add(key, keyed, vpack.OpenArray()); err != nil {
			return err
		}
		for _, item := range n.Content {
			if err := w.node(item, "", false, aliases); err != nil {
				return err
			}
		}
		return w.b.Close()
	case yaml.MappingNode:
		if err := w.add(key, keyed, vpack.OpenObject()); err != nil {
			return err
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			for k.Kind == yaml.AliasNode {
				k = k.Alias
			}
			if k.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w: line %d", ErrComplexKey, k.Line)
			}
			if err := w.node(n.Content[i+1], k.Value, true, aliases); err != nil {
				return fmt.Errorf("line %d: %w", k.Line, err)
			}
		}
		return w.b.Close()
	case yaml.ScalarNode:
		v, err := scalar(n)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		return w.add(key, keyed, v)
	default:
		return fmt.Errorf("unsupported YAML node kind %d", n.Kind)
	}
}

func scalar(n *yaml.Node) (vpack.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return vpack.NullValue(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return vpack.Value{}, err
		}
		return vpack.BoolValue(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return vpack.IntValue(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return vpack.UIntValue(u), nil
		}
		x, ok := new(big.Int).SetString(strings.ReplaceAll(n.Value, "_", ""), 0)
		if !ok {
			return vpack.Value{}, fmt.Errorf("invalid integer %q", n.Value)
		}
		return vpack.BigIntValue(x), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return vpack.Value{}, err
		}
		return vpack.DoubleValue(f), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return vpack.Value{}, err
		}
		return vpack.DateValue(t), nil
	case "!!binary":
		data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return vpack.Value{}, fmt.Errorf("invalid binary: %w", err)
		}
		return vpack.BinaryValue(data), nil
	default:
		return vpack.StringValue(n.Value), nil
	}
}

// Encode renders s as a YAML node. Binary becomes !!binary, dates become
// timestamps and big numbers keep all their digits.
func Encode(s vpack.Slice) (*yaml.Node, error) {
	switch s.Type() {
	case vpack.None, vpack.Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case vpack.Bool:
		b, _ := s.AsBool()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}, nil
	case vpack.Int, vpack.UInt, vpack.BigInt:
		x, err := s.AsBigInt()
		if err != nil {
			return nil, err
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: x.String()}, nil
	case vpack.Double:
		f, _ := s.AsFloat64()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(f)}, nil
	case vpack.BigFloat:
		x, _ := s.AsBigFloat()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: x.Text('g', -1)}, nil
	case vpack.String:
		str, _ := s.AsString()
		return strNode(str), nil
	case vpack.Binary:
		data, _ := s.AsBinary()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!binary", Value: base64.StdEncoding.EncodeToString(data)}, nil
	case vpack.UTCDate:
		t, _ := s.AsTime()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: t.UTC().Format(time.RFC3339Nano)}, nil
	case vpack.Array:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i := 0; i < s.Length(); i++ {
			item, err := Encode(s.At(i))
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, item)
		}
		return seq, nil
	case vpack.Object:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i := 0; i < s.Length(); i++ {
			name, err := s.KeyName(i)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrUnresolvedKey, err)
			}
			value, err := Encode(s.ValueAt(i))
			if err != nil {
				return nil, err
			}
			m.Content = append(m.Content, strNode(name), value)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported node type %s", s.Type())
	}
}

// Marshal renders s as a YAML document.
func Marshal(s vpack.Slice) ([]byte, error) {
	n, err := Encode(s)
	if err != nil {
		return nil, err
	}

	return yaml.Marshal(n)
}

func strNode(str string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: str}
	if looksTyped(str) {
		n.Style = yaml.DoubleQuotedStyle
	}

	return n
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}

	out := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(out, ".eE") {
		out += ".0"
	}

	return out
}

// looksTyped reports whether a plain YAML scalar str would be read back as
// something other than a string.
func looksTyped(str string) bool {
	switch strings.ToLower(str) {
	case "", "~", "null", "true", "false", "yes", "no", "on", "off", "y", "n",
		".inf", "-.inf", "+.inf", ".nan":
		return true
	}

	if _, err := strconv.ParseFloat(strings.ReplaceAll(str, "_", ""), 64); err == nil {
		return true
	}

	if _, ok := new(big.Int).SetString(strings.ReplaceAll(str, "_", ""), 0); ok {
		return true
	}

	_, err := time.Parse("2006-01-02", str)
	if err == nil || len(str) > 10 && str[4] == '-' && str[7] == '-' {
		return true
	}

	return false
}
