// Package config provides configuration loading and management for semshape.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semshape/export"
)

// Config represents the complete semshape configuration
type Config struct {
	Shapes   ShapesConfig   `yaml:"shapes"`
	Template TemplateConfig `yaml:"template"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	NATS     NATSConfig     `yaml:"nats"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ShapesConfig configures where shape documents are read from
type ShapesConfig struct {
	// Sources are files, directories or doublestar globs, relative to BaseDir
	Sources []string `yaml:"sources"`
	// BaseDir anchors relative sources (defaults to the project config directory)
	BaseDir string `yaml:"base_dir"`
	// Watch reloads the registry when shape documents change
	Watch bool `yaml:"watch"`
	// Debounce is the quiet period before a reload
	Debounce time.Duration `yaml:"debounce"`
}

// TemplateConfig configures template rendering
type TemplateConfig struct {
	// Format is the default template format (json, yaml, jsonld)
	Format string `yaml:"format"`
	// JSONLDContext is the @context added to JSON-LD templates
	JSONLDContext string `yaml:"jsonld_context"`
}

// CatalogConfig configures the shape catalog in the knowledge graph
type CatalogConfig struct {
	// Publish sends the shape catalog to graph ingestion on every reload
	Publish bool `yaml:"publish"`
	// ExportRDF runs the catalog-export component alongside the service
	ExportRDF bool `yaml:"export_rdf"`
	// Format is the RDF format (turtle, ntriples, jsonld)
	Format string `yaml:"format"`
	// Profile is the ontology profile (minimal, bfo, cco)
	Profile string `yaml:"profile"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL
	URL string `yaml:"url"`
	// Subject is the template request subject
	Subject string `yaml:"subject"`
	// Timeout bounds requests made by the CLI
	Timeout time.Duration `yaml:"timeout"`
}

// MetricsConfig configures the HTTP listener serving /metrics and the
// template API
type MetricsConfig struct {
	// Addr is the listen address (empty disables the listener)
	Addr string `yaml:"addr"`
	// Path is the metrics endpoint path
	Path string `yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Shapes: ShapesConfig{
			Sources:  []string{"shapes"},
			BaseDir:  "", // Auto-detect
			Debounce: 250 * time.Millisecond,
		},
		Template: TemplateConfig{
			Format: string(export.FormatJSON),
		},
		Catalog: CatalogConfig{
			Format:  string(export.FormatTurtle),
			Profile: string(export.ProfileMinimal),
		},
		NATS: NATSConfig{
			URL:     "nats://localhost:4222",
			Subject: "shape.template.*",
			Timeout: 5 * time.Second,
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
			Path: "/metrics",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if len(c.Shapes.Sources) == 0 {
		return fmt.Errorf("shapes.sources is required")
	}
	if c.Shapes.Debounce < 0 {
		return fmt.Errorf("shapes.debounce must be non-negative")
	}
	format, err := export.ParseFormat(c.Template.Format)
	if err != nil {
		return fmt.Errorf("template.format: %w", err)
	}
	if info, _ := export.GetFormatInfo(format); !info.Template {
		return fmt.Errorf("template.format %q cannot render templates", c.Template.Format)
	}
	catalogFormat, err := export.ParseFormat(c.Catalog.Format)
	if err != nil {
		return fmt.Errorf("catalog.format: %w", err)
	}
	if info, _ := export.GetFormatInfo(catalogFormat); !info.Catalog {
		return fmt.Errorf("catalog.format %q cannot export the catalog", c.Catalog.Format)
	}
	if _, ok := export.Profiles[export.Profile(c.Catalog.Profile)]; !ok {
		return fmt.Errorf("catalog.profile %q is not one of minimal, bfo, cco", c.Catalog.Profile)
	}
	if c.Catalog.ExportRDF && !c.Catalog.Publish {
		return fmt.Errorf("catalog.export_rdf requires catalog.publish")
	}
	if c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required")
	}
	if c.NATS.Subject == "" {
		return fmt.Errorf("nats.subject is required")
	}
	if c.Metrics.Addr != "" && c.Metrics.Path == "" {
		return fmt.Errorf("metrics.path is required when metrics.addr is set")
	}
	return nil
}

// SourcePatterns returns the shape sources with relative entries joined to
// BaseDir.
func (c *Config) SourcePatterns() []string {
	patterns := make([]string, len(c.Shapes.Sources))
	for i, p := range c.Shapes.Sources {
		if !filepath.IsAbs(p) && c.Shapes.BaseDir != "" {
			p = filepath.Join(c.Shapes.BaseDir, p)
		}
		patterns[i] = p
	}
	return patterns
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	layer, err := readLayer(path)
	if err != nil {
		return nil, err
	}
	config := DefaultConfig()
	config.Merge(layer)
	return config, nil
}

// readLayer reads only the values set in path. Relative base_dir values are
// resolved against the file's directory.
func readLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Shapes.BaseDir != "" && !filepath.IsAbs(config.Shapes.BaseDir) {
		config.Shapes.BaseDir = filepath.Join(filepath.Dir(path), config.Shapes.BaseDir)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Shapes
	if len(other.Shapes.Sources) > 0 {
		c.Shapes.Sources = other.Shapes.Sources
	}
	if other.Shapes.BaseDir != "" {
		c.Shapes.BaseDir = other.Shapes.BaseDir
	}
	if other.Shapes.Watch {
		c.Shapes.Watch = true
	}
	if other.Shapes.Debounce != 0 {
		c.Shapes.Debounce = other.Shapes.Debounce
	}

	// Template
	if other.Template.Format != "" {
		c.Template.Format = other.Template.Format
	}
	if other.Template.JSONLDContext != "" {
		c.Template.JSONLDContext = other.Template.JSONLDContext
	}

	// Catalog
	if other.Catalog.Publish {
		c.Catalog.Publish = true
	}
	if other.Catalog.ExportRDF {
		c.Catalog.ExportRDF = true
	}
	if other.Catalog.Format != "" {
		c.Catalog.Format = other.Catalog.Format
	}
	if other.Catalog.Profile != "" {
		c.Catalog.Profile = other.Catalog.Profile
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}
	if other.NATS.Timeout != 0 {
		c.NATS.Timeout = other.NATS.Timeout
	}

	// Metrics
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
	if other.Metrics.Path != "" {
		c.Metrics.Path = other.Metrics.Path
	}
}
