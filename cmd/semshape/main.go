// Package main provides the semshape binary entry point.
// Semshape loads SHACL-style shape documents and synthesizes example
// documents for the types they describe.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/semshape/config"
	"github.com/c360studio/semshape/shape"
	"github.com/c360studio/semshape/source"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semshape"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	shapes     []string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Shape registry and template synthesis",
		Long: `Semshape loads shape documents (node shapes with property constraints)
and synthesizes example documents for the types they describe.

It provides:
- Template synthesis in JSON, YAML and JSON-LD
- Shape catalog export as Turtle, N-Triples and JSON-LD
- A NATS request/reply service with hot reload and Prometheus metrics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringSliceVarP(&flags.shapes, "shapes", "s", nil, "Shape files, directories or globs (overrides config)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		typesCmd(flags),
		templateCmd(flags),
		checkCmd(flags),
		catalogCmd(flags),
		serveCmd(flags),
		requestCmd(flags),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

// newLogger builds a text logger on w at the named level.
func newLogger(w io.Writer, logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// setup configures logging and loads configuration for a subcommand.
func (f *globalFlags) setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	logger := newLogger(cmd.ErrOrStderr(), f.logLevel)
	slog.SetDefault(logger)

	loader := config.NewLoader(logger)
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = loader.LoadFile(f.configPath)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	// Command-line shapes are relative to the working directory.
	if len(f.shapes) > 0 {
		sources := make([]string, len(f.shapes))
		for i, s := range f.shapes {
			abs, err := filepath.Abs(s)
			if err != nil {
				return nil, nil, fmt.Errorf("resolve shapes path %s: %w", s, err)
			}
			sources[i] = abs
		}
		cfg.Shapes.Sources = sources
	}

	return cfg, logger, nil
}

// loadHolder loads the shape registry named by cfg.
func loadHolder(cfg *config.Config, logger *slog.Logger) (*shape.Holder, error) {
	holder, err := shape.NewHolder(source.Provider(cfg.SourcePatterns()), logger)
	if err != nil {
		return nil, fmt.Errorf("load shapes: %w", err)
	}
	return holder, nil
}
