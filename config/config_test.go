package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Shapes.Sources) != 1 || cfg.Shapes.Sources[0] != "shapes" {
		t.Errorf("expected default sources [shapes], got %v", cfg.Shapes.Sources)
	}
	if cfg.Shapes.Debounce != 250*time.Millisecond {
		t.Errorf("expected default debounce 250ms, got %v", cfg.Shapes.Debounce)
	}
	if cfg.Template.Format != "json" {
		t.Errorf("expected default format json, got %s", cfg.Template.Format)
	}
	if cfg.NATS.Subject != "shape.template.*" {
		t.Errorf("expected default subject shape.template.*, got %s", cfg.NATS.Subject)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "no sources",
			modify:  func(c *Config) { c.Shapes.Sources = nil },
			wantErr: true,
		},
		{
			name:    "negative debounce",
			modify:  func(c *Config) { c.Shapes.Debounce = -time.Second },
			wantErr: true,
		},
		{
			name:    "yaml format",
			modify:  func(c *Config) { c.Template.Format = "yaml" },
			wantErr: false,
		},
		{
			name:    "catalog-only format",
			modify:  func(c *Config) { c.Template.Format = "turtle" },
			wantErr: true,
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Template.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "unknown profile",
			modify:  func(c *Config) { c.Catalog.Profile = "dolce" },
			wantErr: true,
		},
		{
			name:    "template-only catalog format",
			modify:  func(c *Config) { c.Catalog.Format = "yaml" },
			wantErr: true,
		},
		{
			name:    "export without publish",
			modify:  func(c *Config) { c.Catalog.ExportRDF = true },
			wantErr: true,
		},
		{
			name:    "export with publish",
			modify:  func(c *Config) { c.Catalog.ExportRDF = true; c.Catalog.Publish = true },
			wantErr: false,
		},
		{
			name:    "missing nats url",
			modify:  func(c *Config) { c.NATS.URL = "" },
			wantErr: true,
		},
		{
			name:    "metrics without path",
			modify:  func(c *Config) { c.Metrics.Path = "" },
			wantErr: true,
		},
		{
			name:    "metrics disabled",
			modify:  func(c *Config) { c.Metrics.Addr = ""; c.Metrics.Path = "" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	writeConfig(t, configPath, `
shapes:
  sources:
    - "ontology/**/*.yaml"
    - extra.json
  base_dir: project
  watch: true
  debounce: 1s
template:
  format: yaml
catalog:
  profile: cco
nats:
  url: "nats://test:4222"
`)

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if len(cfg.Shapes.Sources) != 2 {
		t.Errorf("expected 2 sources, got %d", len(cfg.Shapes.Sources))
	}
	if want := filepath.Join(tmpDir, "project"); cfg.Shapes.BaseDir != want {
		t.Errorf("expected base dir %s, got %s", want, cfg.Shapes.BaseDir)
	}
	if !cfg.Shapes.Watch {
		t.Error("expected watch enabled")
	}
	if cfg.Shapes.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Shapes.Debounce)
	}
	if cfg.Template.Format != "yaml" {
		t.Errorf("expected format yaml, got %s", cfg.Template.Format)
	}
	if cfg.NATS.URL != "nats://test:4222" {
		t.Errorf("expected NATS URL nats://test:4222, got %s", cfg.NATS.URL)
	}
	// Unset values keep their defaults
	if cfg.NATS.Subject != "shape.template.*" {
		t.Errorf("expected default subject, got %s", cfg.NATS.Subject)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Shapes: ShapesConfig{
			Sources: []string{"override"},
		},
		Catalog: CatalogConfig{
			Publish: true,
		},
	}

	base.Merge(override)

	if base.Shapes.Sources[0] != "override" {
		t.Errorf("expected sources [override], got %v", base.Shapes.Sources)
	}
	// Format should remain from base since override didn't set it
	if base.Template.Format != "json" {
		t.Errorf("expected format to remain default, got %s", base.Template.Format)
	}
	if !base.Catalog.Publish {
		t.Error("expected catalog.publish to be merged")
	}
}

func TestSourcePatterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shapes.BaseDir = "/srv/project"
	cfg.Shapes.Sources = []string{"shapes/**/*.yaml", "/etc/semshape/core.yaml"}

	got := cfg.SourcePatterns()
	want := []string{filepath.Join("/srv/project", "shapes/**/*.yaml"), "/etc/semshape/core.yaml"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SourcePatterns()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Template.Format = "jsonld"
	cfg.Shapes.Debounce = 2 * time.Second

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Template.Format != "jsonld" {
		t.Errorf("expected format jsonld, got %s", loaded.Template.Format)
	}
	if loaded.Shapes.Debounce != 2*time.Second {
		t.Errorf("expected debounce 2s, got %v", loaded.Shapes.Debounce)
	}
}
