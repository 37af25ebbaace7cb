package config

import (
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "semshape.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/semshape"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
	// EnvNATSURL overrides nats.url
	EnvNATSURL = "NATS_URL"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger

	// homeDir and workDir default to the user's home and the process
	// working directory.
	homeDir string
	workDir string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/semshape/config.yaml)
// 3. Project config (semshape.yaml in current or parent directories)
// 4. Environment variables (NATS_URL)
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	// Load user config
	userConfigPath := l.userConfigPath()
	if userConfigPath != "" {
		if userConfig, err := readLayer(userConfigPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
			config.Merge(userConfig)
		} else if !errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
		}
	}

	// Load project config
	projectConfigPath := l.findProjectConfig()
	if projectConfigPath != "" {
		projectConfig, err := readLayer(projectConfigPath)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
		config.Merge(projectConfig)
		if config.Shapes.BaseDir == "" {
			config.Shapes.BaseDir = filepath.Dir(projectConfigPath)
		}
	} else {
		l.logger.Debug("No project config found")
	}

	return l.finish(config)
}

// LoadFile loads defaults, then path, then environment overrides. It is used
// when a config file is named explicitly.
func (l *Loader) LoadFile(path string) (*Config, error) {
	layer, err := readLayer(path)
	if err != nil {
		return nil, err
	}
	config := DefaultConfig()
	config.Merge(layer)
	if config.Shapes.BaseDir == "" {
		if abs, err := filepath.Abs(filepath.Dir(path)); err == nil {
			config.Shapes.BaseDir = abs
		}
	}
	return l.finish(config)
}

// finish applies environment overrides, resolves the base directory and
// validates.
func (l *Loader) finish(config *Config) (*Config, error) {
	if url := os.Getenv(EnvNATSURL); url != "" {
		config.NATS.URL = url
		l.logger.Debug("NATS URL from environment", slog.String("url", url))
	}

	// Auto-detect base dir if not set
	if config.Shapes.BaseDir == "" {
		if gitRoot := l.detectGitRoot(); gitRoot != "" {
			config.Shapes.BaseDir = gitRoot
			l.logger.Debug("Auto-detected git root", slog.String("path", gitRoot))
		} else if cwd := l.cwd(); cwd != "" {
			config.Shapes.BaseDir = cwd
			l.logger.Debug("Using current directory as base dir", slog.String("path", cwd))
		}
	}

	// Validate final config
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// EnsureUserConfig creates the user config file with defaults if it doesn't exist
func (l *Loader) EnsureUserConfig() error {
	userConfigPath := l.userConfigPath()

	// Check if it already exists
	if _, err := os.Stat(userConfigPath); err == nil {
		return nil // Already exists
	}

	// Create default config
	config := DefaultConfig()
	if err := config.SaveToFile(userConfigPath); err != nil {
		return err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return nil
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home := l.homeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

func (l *Loader) cwd() string {
	if l.workDir != "" {
		return l.workDir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return cwd
}

// findProjectConfig searches for semshape.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	dir := l.cwd()
	if dir == "" {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}

// detectGitRoot finds the git repository root from the working directory
func (l *Loader) detectGitRoot() string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = l.cwd()
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}
