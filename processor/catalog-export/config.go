package catalogexport

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/c360studio/semstreams/component"

	"github.com/c360studio/semshape/export"
)

// catalogExportSchema defines the configuration schema.
var catalogExportSchema = component.GenerateConfigSchema(reflect.TypeOf(Config{}))

// Config holds configuration for the catalog-export output component.
type Config struct {
	Ports   *component.PortConfig `json:"ports" schema:"type:ports,description:Port configuration,category:basic"`
	Format  string                `json:"format" schema:"type:string,description:RDF serialization format (turtle/ntriples/jsonld),category:basic,default:turtle"`
	Profile string                `json:"profile" schema:"type:string,description:Ontology profile (minimal/bfo/cco),category:basic,default:minimal"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Format != "" {
		f, err := export.ParseFormat(c.Format)
		if err != nil {
			return err
		}
		if info, _ := export.GetFormatInfo(f); !info.Catalog {
			return fmt.Errorf("unsupported format: %s (valid: turtle, ntriples, jsonld)", c.Format)
		}
	}

	if c.Profile != "" {
		if _, ok := export.Profiles[export.Profile(strings.ToLower(c.Profile))]; !ok {
			return fmt.Errorf("unsupported profile: %s (valid: minimal, bfo, cco)", c.Profile)
		}
	}

	return nil
}

// GetFormat returns the configured export.Format, defaulting to Turtle.
func (c *Config) GetFormat() export.Format {
	if f, err := export.ParseFormat(c.Format); err == nil {
		return f
	}
	return export.FormatTurtle
}

// GetProfile returns the configured export.Profile.
func (c *Config) GetProfile() export.Profile {
	return export.GetProfileConfig(export.Profile(strings.ToLower(c.Profile))).Name
}

// DefaultConfig returns the default configuration for catalog-export.
func DefaultConfig() Config {
	return Config{
		Ports: &component.PortConfig{
			Inputs: []component.PortDefinition{
				{
					Name:        "entities_in",
					Type:        "jetstream",
					Subject:     "graph.ingest.entity",
					StreamName:  "GRAPH",
					Required:    true,
					Description: "Entity ingest messages carrying shape catalog entities",
				},
			},
			Outputs: []component.PortDefinition{
				{
					Name:        "rdf_out",
					Type:        "jetstream",
					Subject:     "graph.export.rdf",
					StreamName:  "GRAPH",
					Required:    true,
					Description: "Serialized RDF for each catalog entity",
				},
			},
		},
		Format:  "turtle",
		Profile: "minimal",
	}
}
