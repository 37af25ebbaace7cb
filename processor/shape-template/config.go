package shapetemplate

import (
	"fmt"
	"reflect"

	"github.com/c360studio/semstreams/component"

	"github.com/c360studio/semshape/export"
)

// shapeTemplateSchema defines the configuration schema.
var shapeTemplateSchema = component.GenerateConfigSchema(reflect.TypeOf(Config{}))

// Config holds configuration for the shape-template processor.
type Config struct {
	Ports          *component.PortConfig `json:"ports" schema:"type:ports,description:Port configuration,category:basic"`
	Sources        []string              `json:"sources" schema:"type:array,description:Shape document paths or glob patterns relative to base_dir,category:basic"`
	BaseDir        string                `json:"base_dir" schema:"type:string,description:Base directory for shape sources (defaults to SEMSHAPE_BASE_DIR or current directory),category:basic"`
	Watch          bool                  `json:"watch" schema:"type:bool,description:Reload the registry when shape documents change,category:advanced,default:false"`
	DebounceMs     int                   `json:"debounce_ms" schema:"type:integer,description:Quiet period before a reload in milliseconds,category:advanced,default:250"`
	DefaultFormat  string                `json:"default_format" schema:"type:string,description:Format used when a request names none (json yaml jsonld),category:basic,default:json"`
	JSONLDContext  string                `json:"jsonld_context" schema:"type:string,description:@context IRI added to JSON-LD templates,category:advanced"`
	PublishCatalog bool                  `json:"publish_catalog" schema:"type:bool,description:Publish the shape catalog to graph ingestion on every registry change,category:advanced,default:false"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}
	if c.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms must be non-negative")
	}
	if c.DefaultFormat != "" {
		f, err := export.ParseFormat(c.DefaultFormat)
		if err != nil {
			return fmt.Errorf("default_format: %w", err)
		}
		if info, _ := export.GetFormatInfo(f); !info.Template {
			return fmt.Errorf("default_format %q cannot render templates", c.DefaultFormat)
		}
	}
	return nil
}

// DefaultConfig returns the default configuration for shape-template.
func DefaultConfig() Config {
	return Config{
		Ports: &component.PortConfig{
			Inputs: []component.PortDefinition{
				{
					Name:        "template_requests",
					Type:        "nats",
					Subject:     "shape.template.*",
					Required:    true,
					Description: "Template request/reply subject (wildcard for type name)",
				},
			},
			Outputs: []component.PortDefinition{
				{
					Name:        "catalog_entities",
					Type:        "nats",
					Subject:     "graph.ingest.entity",
					Required:    false,
					Description: "Shape catalog entities for graph ingestion",
				},
			},
		},
		Sources:       []string{"shapes"},
		DebounceMs:    250,
		DefaultFormat: string(export.FormatJSON),
	}
}
