// Package export renders synthesized templates and the shape catalog.
package export

import (
	"fmt"
	"slices"
	"strings"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatJSON renders a template as JSON.
	FormatJSON Format = "json"

	// FormatYAML renders a template as YAML.
	FormatYAML Format = "yaml"

	// FormatJSONLD renders a template or the catalog as JSON-LD.
	FormatJSONLD Format = "jsonld"

	// FormatTurtle renders the catalog as Turtle (.ttl).
	FormatTurtle Format = "turtle"

	// FormatNTriples renders the catalog as N-Triples (.nt).
	FormatNTriples Format = "ntriples"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string

	// Template reports whether Render accepts the format.
	Template bool

	// Catalog reports whether RDFExporter.Export accepts the format.
	Catalog bool
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatJSON: {
		Name:        FormatJSON,
		MIMEType:    "application/json",
		Extension:   ".json",
		Description: "JSON example document",
		Template:    true,
	},
	FormatYAML: {
		Name:        FormatYAML,
		MIMEType:    "application/yaml",
		Extension:   ".yaml",
		Description: "YAML example document",
		Template:    true,
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
		Template:    true,
		Catalog:     true,
	},
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
		Catalog:     true,
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
		Catalog:     true,
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat resolves a format name, file extension or MIME type.
// Matching is case-insensitive; "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "yml" || key == ".yml" {
		return FormatYAML, nil
	}
	for name, info := range FormatRegistry {
		if key == string(name) || key == info.Extension || key == strings.TrimPrefix(info.Extension, ".") || key == info.MIMEType {
			return name, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %q", s)
}

// TemplateFormats returns the formats Render accepts, sorted by name.
func TemplateFormats() []Format {
	var out []Format
	for name, info := range FormatRegistry {
		if info.Template {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
