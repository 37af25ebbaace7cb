package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semshape/shape"
)

type renderOptions struct {
	indent  string
	context any
}

// RenderOption customizes Render.
type RenderOption func(*renderOptions)

// WithIndent pretty-prints JSON and JSON-LD output using indent per level.
// YAML output always uses two-space indentation.
func WithIndent(indent string) RenderOption {
	return func(o *renderOptions) { o.indent = indent }
}

// WithContext sets the JSON-LD @context. ctx may be an IRI string, a map or
// a list; it is emitted as given.
func WithContext(ctx any) RenderOption {
	return func(o *renderOptions) { o.context = ctx }
}

// Render serializes t in format. Key order follows the template at every
// level.
func Render(t *shape.Template, format Format, opts ...RenderOption) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("render: nil template")
	}
	var o renderOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch format {
	case FormatJSON:
		return marshalJSON(t, o.indent)
	case FormatJSONLD:
		return marshalJSON(ToJSONLD(t, o.context), o.indent)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported template format: %s", format)
	}
}

func marshalJSON(v any, indent string) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	if indent == "" {
		return data, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", indent); err != nil {
		return nil, fmt.Errorf("indent json: %w", err)
	}
	return buf.Bytes(), nil
}

// ToJSONLD returns a copy of t with "id" and "type" renamed to "@id" and
// "@type" at every level. A non-nil ctx is set as the top-level @context.
func ToJSONLD(t *shape.Template, ctx any) *shape.Template {
	out := shape.NewTemplate()
	if ctx != nil {
		out.Set("@context", ctx)
	}
	for _, k := range t.Keys() {
		v, _ := t.Get(k)
		out.Set(jsonLDKey(k), jsonLDValue(v))
	}
	return out
}

func jsonLDKey(k string) string {
	switch k {
	case "id":
		return "@id"
	case "type":
		return "@type"
	default:
		return k
	}
}

func jsonLDValue(v any) any {
	switch x := v.(type) {
	case *shape.Template:
		return ToJSONLD(x, nil)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonLDValue(e)
		}
		return out
	default:
		return v
	}
}
