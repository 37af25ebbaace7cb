package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/c360studio/semshape/config"
	"github.com/c360studio/semshape/graph"
	"github.com/c360studio/semshape/metrics"
	catalogexport "github.com/c360studio/semshape/processor/catalog-export"
	shapetemplate "github.com/c360studio/semshape/processor/shape-template"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(flags *globalFlags) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve template requests over NATS",
		Long: `Serve runs the shape-template component: it answers template requests
on the configured NATS subject, optionally reloads shapes when their files
change, and serves Prometheus metrics and the template HTTP API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			if watch {
				cfg.Shapes.Watch = true
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload shapes when their files change")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	natsClient, err := connectToNATS(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return err
	}
	defer natsClient.Close(context.Background())

	if cfg.Catalog.Publish {
		js, err := natsClient.JetStream()
		if err != nil {
			return fmt.Errorf("get jetstream: %w", err)
		}
		if err := graph.EnsureIngestStream(ctx, js); err != nil {
			return err
		}
	}

	// Create and populate component registry
	componentRegistry := component.NewRegistry()
	if err := shapetemplate.Register(componentRegistry); err != nil {
		return fmt.Errorf("register shape-template: %w", err)
	}
	if err := catalogexport.Register(componentRegistry); err != nil {
		return fmt.Errorf("register catalog-export: %w", err)
	}
	logger.Debug("Component factories registered", "count", len(componentRegistry.ListFactories()))

	rawConfig, err := json.Marshal(componentConfig(cfg))
	if err != nil {
		return fmt.Errorf("marshal component config: %w", err)
	}
	comp, err := shapetemplate.NewComponent(rawConfig, component.Dependencies{
		NATSClient: natsClient,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("create shape-template: %w", err)
	}
	tmpl := comp.(*shapetemplate.Component)

	if err := tmpl.Initialize(); err != nil {
		return fmt.Errorf("initialize shape-template: %w", err)
	}
	if err := tmpl.Start(ctx); err != nil {
		return fmt.Errorf("start shape-template: %w", err)
	}
	defer func() {
		if err := tmpl.Stop(shutdownTimeout); err != nil {
			logger.Warn("Failed to stop shape-template", "error", err)
		}
	}()

	if cfg.Catalog.ExportRDF {
		stopExport, err := startCatalogExport(ctx, cfg, natsClient, logger)
		if err != nil {
			return err
		}
		defer stopExport()
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler(metrics.DefaultRegistry()))
		tmpl.RegisterHTTPHandlers("/shape-template/", mux)

		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("HTTP server listening", "addr", cfg.Metrics.Addr, "metrics_path", cfg.Metrics.Path)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	reg := tmpl.Holder().Registry()
	logger.Info("Semshape ready",
		"version", Version,
		"subject", cfg.NATS.Subject,
		"types", len(reg.Types()),
		"generation", reg.Generation(),
		"watch", cfg.Shapes.Watch)

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		return nil
	})
	return g.Wait()
}

// startCatalogExport runs the catalog-export component and returns its stop
// function.
func startCatalogExport(ctx context.Context, cfg *config.Config, natsClient *natsclient.Client, logger *slog.Logger) (func(), error) {
	exportConfig := catalogexport.DefaultConfig()
	exportConfig.Format = cfg.Catalog.Format
	exportConfig.Profile = cfg.Catalog.Profile
	rawConfig, err := json.Marshal(exportConfig)
	if err != nil {
		return nil, fmt.Errorf("marshal catalog-export config: %w", err)
	}

	comp, err := catalogexport.NewComponent(rawConfig, component.Dependencies{
		NATSClient: natsClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create catalog-export: %w", err)
	}
	lc := comp.(*catalogexport.Component)
	if err := lc.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize catalog-export: %w", err)
	}
	if err := lc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start catalog-export: %w", err)
	}
	return func() {
		if err := lc.Stop(shutdownTimeout); err != nil {
			logger.Warn("Failed to stop catalog-export", "error", err)
		}
	}, nil
}

// componentConfig maps cfg onto the shape-template component configuration.
func componentConfig(cfg *config.Config) shapetemplate.Config {
	c := shapetemplate.DefaultConfig()
	c.Ports.Inputs[0].Subject = cfg.NATS.Subject
	c.Sources = cfg.Shapes.Sources
	c.BaseDir = cfg.Shapes.BaseDir
	c.Watch = cfg.Shapes.Watch
	c.DebounceMs = int(cfg.Shapes.Debounce.Milliseconds())
	c.DefaultFormat = cfg.Template.Format
	c.JSONLDContext = cfg.Template.JSONLDContext
	c.PublishCatalog = cfg.Catalog.Publish
	return c
}

func connectToNATS(ctx context.Context, url string, logger *slog.Logger) (*natsclient.Client, error) {
	logger.Info("Connecting to NATS", "url", url)

	client, err := natsclient.NewClient(url,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
		natsclient.WithHealthInterval(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.WaitForConnection(connCtx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	logger.Info("Connected to NATS", "url", url)
	return client, nil
}

// wrapNATSError provides helpful guidance when NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

To start NATS:
  docker run -p 4222:4222 nats -js

Or set NATS_URL environment variable to point to your NATS server.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}
