package shape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template is an ordered example document. Values are literals, nested
// *Template values, or []any sequences of either.
type Template struct {
	keys   []string
	values map[string]any
}

// NewTemplate returns an empty template.
func NewTemplate() *Template {
	return &Template{values: make(map[string]any)}
}

// newOrderedTemplate builds a template from values with keys in template order.
func newOrderedTemplate(values map[string]any) *Template {
	return &Template{
		keys:   OrderKeys(slices.Collect(maps.Keys(values))),
		values: values,
	}
}

// Set stores v under key. New keys are appended after existing ones.
func (t *Template) Set(key string, v any) *Template {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = v
	return t
}

// Get returns the value stored under key.
func (t *Template) Get(key string) (any, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Keys returns the keys in order.
func (t *Template) Keys() []string {
	return slices.Clone(t.keys)
}

// Len returns the number of keys.
func (t *Template) Len() int {
	return len(t.keys)
}

// Map converts the template into plain nested maps and slices.
func (t *Template) Map() map[string]any {
	out := make(map[string]any, len(t.keys))
	for _, k := range t.keys {
		out[k] = plain(t.values[k])
	}
	return out
}

func plain(v any) any {
	switch x := v.(type) {
	case *Template:
		return x.Map()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON writes the keys in template order.
func (t *Template) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := marshalValueJSON(t.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML produces a mapping node with keys in template order.
func (t *Template) MarshalYAML() (any, error) {
	if t == nil {
		return nil, nil
	}
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range t.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valueNode, err := valueYAML(t.values[k])
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", k, err)
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}

// formatFloat renders f so that it always reads back as a float: integral
// values keep a ".0" suffix. ok is false for NaN and infinities.
func formatFloat(f float64) (s string, ok bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	s = strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, true
}

func asFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	default:
		return 0, false
	}
}

// marshalValueJSON encodes a template value, keeping floats distinct from
// integers inside sequences as well.
func marshalValueJSON(v any) ([]byte, error) {
	if f, ok := asFloat(v); ok {
		if s, ok := formatFloat(f); ok {
			return []byte(s), nil
		}
		return json.Marshal(v)
	}
	seq, ok := v.([]any)
	if !ok {
		return json.Marshal(v)
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range seq {
		if i > 0 {
			buf.WriteByte(',')
		}
		eb, err := marshalValueJSON(e)
		if err != nil {
			return nil, err
		}
		buf.Write(eb)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func valueYAML(v any) (*yaml.Node, error) {
	if f, ok := asFloat(v); ok {
		if s, ok := formatFloat(f); ok {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}, nil
		}
	}
	if seq, ok := v.([]any); ok {
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range seq {
			child, err := valueYAML(e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	}
	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return node, nil
}
