// Package shapetemplate provides a request/reply service that synthesizes
// example documents for the types in a shape registry.
package shapetemplate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/natsclient"

	"github.com/c360studio/semshape/export"
	"github.com/c360studio/semshape/graph"
	"github.com/c360studio/semshape/metrics"
	"github.com/c360studio/semshape/shape"
	"github.com/c360studio/semshape/source"
)

// Component implements the shape-template processor.
type Component struct {
	name       string
	config     Config
	natsClient *natsclient.Client
	logger     *slog.Logger
	metrics    *metrics.Collector

	baseDir  string
	patterns []string
	format   export.Format
	holder   *shape.Holder

	// Request subject
	requestSubject string

	// Lifecycle
	running      bool
	startTime    time.Time
	mu           sync.RWMutex
	ctx          context.Context
	cancel       context.CancelFunc
	subscription *natsclient.Subscription
	watchers     []*source.Watcher

	// Metrics
	requestsProcessed atomic.Int64
	requestsFailed    atomic.Int64
	lastActivityMu    sync.RWMutex
	lastActivity      time.Time
}

// NewComponent creates a new shape-template processor.
func NewComponent(rawConfig json.RawMessage, deps component.Dependencies) (component.Discoverable, error) {
	var config Config
	if err := json.Unmarshal(rawConfig, &config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Apply defaults if not specified
	defaults := DefaultConfig()
	if config.Ports == nil {
		config.Ports = defaults.Ports
	}
	if len(config.Sources) == 0 {
		config.Sources = defaults.Sources
	}
	if config.DebounceMs == 0 {
		config.DebounceMs = defaults.DebounceMs
	}
	if config.DefaultFormat == "" {
		config.DefaultFormat = defaults.DefaultFormat
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	format, err := export.ParseFormat(config.DefaultFormat)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Resolve base directory
	baseDir := config.BaseDir
	if baseDir == "" {
		baseDir = os.Getenv("SEMSHAPE_BASE_DIR")
	}
	if baseDir == "" {
		baseDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	patterns := make([]string, len(config.Sources))
	for i, p := range config.Sources {
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		patterns[i] = p
	}

	// Resolve request subject from port definitions
	requestSubject := "shape.template.*"
	if config.Ports != nil && len(config.Ports.Inputs) > 0 {
		requestSubject = config.Ports.Inputs[0].Subject
	}

	return &Component{
		name:           "shape-template",
		config:         config,
		natsClient:     deps.NATSClient,
		logger:         deps.GetLogger(),
		metrics:        metrics.Default(),
		baseDir:        baseDir,
		patterns:       patterns,
		format:         format,
		requestSubject: requestSubject,
	}, nil
}

// Initialize loads the shape registry. A registry that fails to load is a
// startup error.
func (c *Component) Initialize() error {
	holder, err := shape.NewHolder(source.Provider(c.patterns), c.logger)
	if err != nil {
		return fmt.Errorf("load shapes: %w", err)
	}
	holder.OnChange(c.registryChanged)

	c.mu.Lock()
	c.holder = holder
	c.mu.Unlock()

	reg := holder.Registry()
	c.metrics.RegistryPublished(len(reg.Types()), false)

	c.logger.Debug("Initialized shape-template",
		"base_dir", c.baseDir,
		"request_subject", c.requestSubject,
		"types", len(reg.Types()),
		"generation", reg.Generation())
	return nil
}

// Start begins handling template requests.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("component already running")
	}
	if c.natsClient == nil {
		c.mu.Unlock()
		return fmt.Errorf("NATS client required")
	}
	if c.holder == nil {
		c.mu.Unlock()
		return fmt.Errorf("component not initialized")
	}

	// Set running state while holding lock to prevent race condition
	c.running = true
	c.startTime = time.Now()

	subCtx, cancel := context.WithCancel(ctx)
	c.ctx = subCtx
	c.cancel = cancel
	c.mu.Unlock()

	sub, err := c.natsClient.SubscribeForRequests(subCtx, c.requestSubject, c.handleRequest)
	if err != nil {
		// Rollback running state on failure
		c.mu.Lock()
		c.running = false
		c.cancel = nil
		c.mu.Unlock()
		cancel()
		return fmt.Errorf("subscribe to %s: %w", c.requestSubject, err)
	}

	c.mu.Lock()
	c.subscription = sub
	c.mu.Unlock()

	if c.config.Watch {
		if err := c.startWatchers(subCtx); err != nil {
			c.logger.Warn("Failed to watch shape sources, hot reload disabled", "error", err)
		}
	}

	if c.config.PublishCatalog {
		c.publishCatalog(subCtx, c.holder.Registry())
	}

	c.logger.Info("shape-template started",
		"subject", c.requestSubject,
		"base_dir", c.baseDir,
		"watch", c.config.Watch)

	return nil
}

// startWatchers starts one watcher per distinct source root.
func (c *Component) startWatchers(ctx context.Context) error {
	roots := watchRoots(c.patterns)
	debounce := time.Duration(c.config.DebounceMs) * time.Millisecond

	var started []*source.Watcher
	for root, patterns := range roots {
		w, err := source.NewWatcher(source.WatcherConfig{
			Root:          root,
			Patterns:      patterns,
			DebounceDelay: debounce,
			OnChange:      c.sourcesChanged,
			Logger:        c.logger,
		})
		if err == nil {
			err = w.Start(ctx)
		}
		if err != nil {
			for _, s := range started {
				_ = s.Stop()
			}
			return fmt.Errorf("watch %s: %w", root, err)
		}
		started = append(started, w)
	}

	c.mu.Lock()
	c.watchers = started
	c.mu.Unlock()
	return nil
}

// watchRoots maps each source pattern to the directory it lives under and
// the patterns to match there.
func watchRoots(patterns []string) map[string][]string {
	roots := make(map[string][]string)
	for _, p := range patterns {
		p = filepath.Clean(p)
		var root string
		var rel []string
		switch info, err := os.Stat(p); {
		case err == nil && info.IsDir():
			root, rel = p, source.DefaultPatterns
		case err == nil:
			root, rel = filepath.Dir(p), []string{filepath.Base(p)}
		default:
			base, pattern := doublestar.SplitPattern(filepath.ToSlash(p))
			root, rel = filepath.FromSlash(base), []string{pattern}
		}
		roots[root] = append(roots[root], rel...)
	}
	return roots
}

// sourcesChanged reloads the registry after the watcher reports changes.
func (c *Component) sourcesChanged(_ context.Context, changed []string) {
	c.logger.Debug("Shape sources changed", "files", changed)

	c.mu.RLock()
	holder := c.holder
	c.mu.RUnlock()
	if holder == nil {
		return
	}

	if _, err := holder.Reload(); err != nil {
		c.metrics.ReloadFailed()
	}
}

// registryChanged runs after every successful reload.
func (c *Component) registryChanged(reg *shape.Registry) {
	c.metrics.RegistryPublished(len(reg.Types()), true)

	c.mu.RLock()
	ctx := c.ctx
	c.mu.RUnlock()
	if ctx == nil {
		ctx = context.Background()
	}

	if c.config.PublishCatalog {
		c.publishCatalog(ctx, reg)
	}
}

// publishCatalog sends the registry's catalog entities to graph ingestion.
func (c *Component) publishCatalog(ctx context.Context, reg *shape.Registry) {
	if c.natsClient == nil {
		return
	}
	n, err := graph.PublishCatalog(ctx, c.natsClient, reg)
	c.metrics.CatalogPublished(n)
	if err != nil {
		c.logger.Warn("Failed to publish shape catalog",
			"generation", reg.Generation(),
			"published", n,
			"error", err)
		return
	}
	c.logger.Debug("Published shape catalog",
		"generation", reg.Generation(),
		"entities", n)
}

// handleRequest processes a template request and returns response data.
// Accepts both raw TemplateRequest JSON and BaseMessage-wrapped requests.
func (c *Component) handleRequest(ctx context.Context, data []byte) ([]byte, error) {
	// Check for cancellation before processing.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.updateLastActivity()

	req, err := parseRequest(data)
	if err != nil {
		c.requestsProcessed.Add(1)
		c.requestsFailed.Add(1)
		c.metrics.ObserveSynthesis(metrics.OutcomeInvalidRequest, "", false, 0)
		return json.Marshal(&TemplateResponse{Error: err.Error(), ErrorKind: ErrorKindInvalidRequest})
	}

	return json.Marshal(c.serve(req))
}

// parseRequest decodes a raw TemplateRequest, falling back to a
// BaseMessage-wrapped one.
func parseRequest(data []byte) (*TemplateRequest, error) {
	var req TemplateRequest
	if err := json.Unmarshal(data, &req); err == nil && (req.Type != "" || req.ListTypes) {
		return &req, nil
	}

	var baseMsg message.BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	payloadBytes, err := json.Marshal(baseMsg.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	req = TemplateRequest{}
	if err := json.Unmarshal(payloadBytes, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request: %w", err)
	}
	return &req, nil
}

// serve answers req against a single registry snapshot.
func (c *Component) serve(req *TemplateRequest) *TemplateResponse {
	c.requestsProcessed.Add(1)
	start := time.Now()

	c.mu.RLock()
	holder := c.holder
	c.mu.RUnlock()
	if holder == nil {
		return c.fail(req, "", ErrorKindInternal, fmt.Errorf("shape registry not loaded"), start)
	}
	reg := holder.Registry()

	if err := req.Validate(); err != nil {
		return c.fail(req, "", ErrorKindInvalidRequest, err, start)
	}

	if req.ListTypes {
		return &TemplateResponse{Generation: reg.Generation(), Types: reg.Types()}
	}

	format := c.format
	if req.Format != "" {
		f, err := export.ParseFormat(req.Format)
		if err != nil {
			return c.fail(req, "", ErrorKindInvalidRequest, err, start)
		}
		if info, _ := export.GetFormatInfo(f); !info.Template {
			return c.fail(req, "", ErrorKindInvalidRequest,
				fmt.Errorf("format %q cannot render templates", req.Format), start)
		}
		format = f
	}

	tmpl, err := shape.NewSynthesizer(reg).Synthesize(req.Type, req.MandatoryOnly)
	if err != nil {
		return c.fail(req, string(format), errorKind(err), err, start)
	}

	var opts []export.RenderOption
	if format == export.FormatJSONLD && c.config.JSONLDContext != "" {
		opts = append(opts, export.WithContext(c.config.JSONLDContext))
	}
	out, err := export.Render(tmpl, format, opts...)
	if err != nil {
		return c.fail(req, string(format), ErrorKindInternal, err, start)
	}

	resp := &TemplateResponse{
		Type:       req.Type,
		Generation: reg.Generation(),
		Format:     string(format),
	}
	if format == export.FormatYAML {
		resp.Rendered = string(out)
	} else {
		resp.Template = out
	}

	c.metrics.ObserveSynthesis(metrics.OutcomeOK, string(format), req.MandatoryOnly, time.Since(start))
	c.logger.Debug("Synthesized template",
		"type", req.Type,
		"mandatory_only", req.MandatoryOnly,
		"format", format,
		"generation", reg.Generation())
	return resp
}

// fail records a failed request and builds its response.
func (c *Component) fail(req *TemplateRequest, format, kind string, err error, start time.Time) *TemplateResponse {
	c.requestsFailed.Add(1)
	c.metrics.ObserveSynthesis(kind, format, req.MandatoryOnly, time.Since(start))
	if kind == ErrorKindInternal {
		c.logger.Error("Template synthesis failed", "type", req.Type, "error", err)
	} else {
		c.logger.Debug("Template request rejected", "type", req.Type, "kind", kind, "error", err)
	}
	return &TemplateResponse{
		Type:      req.Type,
		Format:    format,
		Error:     err.Error(),
		ErrorKind: kind,
	}
}

// errorKind classifies a synthesis error.
func errorKind(err error) string {
	var unknownType *shape.UnknownTypeError
	var cycle *shape.CompositionCycleError
	switch {
	case errors.As(err, &unknownType):
		return ErrorKindUnknownType
	case errors.As(err, &cycle):
		return ErrorKindCycle
	default:
		return ErrorKindInternal
	}
}

// Stop gracefully stops the component.
func (c *Component) Stop(_ time.Duration) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	watchers := c.watchers
	c.watchers = nil
	if c.cancel != nil {
		c.cancel()
	}
	c.running = false
	c.mu.Unlock()

	// Watcher callbacks take c.mu, so stop them after releasing it.
	for _, w := range watchers {
		if err := w.Stop(); err != nil {
			c.logger.Warn("Failed to stop shape watcher", "error", err)
		}
	}

	c.logger.Info("shape-template stopped",
		"requests_processed", c.requestsProcessed.Load(),
		"requests_failed", c.requestsFailed.Load())

	return nil
}

// Holder returns the component's shape registry holder, or nil before
// Initialize.
func (c *Component) Holder() *shape.Holder {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.holder
}

// Meta returns component metadata.
func (c *Component) Meta() component.Metadata {
	return component.Metadata{
		Name:        "shape-template",
		Type:        "processor",
		Description: "Request/reply service synthesizing example documents from shapes",
		Version:     "1.0.0",
	}
}

// InputPorts returns configured input port definitions.
func (c *Component) InputPorts() []component.Port {
	if c.config.Ports == nil {
		return []component.Port{}
	}

	ports := make([]component.Port, len(c.config.Ports.Inputs))
	for i, portDef := range c.config.Ports.Inputs {
		ports[i] = component.Port{
			Name:        portDef.Name,
			Direction:   component.DirectionInput,
			Required:    portDef.Required,
			Description: portDef.Description,
			Config: component.NATSPort{
				Subject: portDef.Subject,
			},
		}
	}
	return ports
}

// OutputPorts returns configured output port definitions.
func (c *Component) OutputPorts() []component.Port {
	if c.config.Ports == nil {
		return []component.Port{}
	}

	ports := make([]component.Port, len(c.config.Ports.Outputs))
	for i, portDef := range c.config.Ports.Outputs {
		ports[i] = component.Port{
			Name:        portDef.Name,
			Direction:   component.DirectionOutput,
			Required:    portDef.Required,
			Description: portDef.Description,
			Config: component.NATSPort{
				Subject: portDef.Subject,
			},
		}
	}
	return ports
}

// ConfigSchema returns the configuration schema.
func (c *Component) ConfigSchema() component.ConfigSchema {
	return shapeTemplateSchema
}

// Health returns the current health status.
func (c *Component) Health() component.HealthStatus {
	c.mu.RLock()
	running := c.running
	startTime := c.startTime
	c.mu.RUnlock()

	status := "stopped"
	if running {
		status = "running"
	}

	return component.HealthStatus{
		Healthy:    running,
		LastCheck:  time.Now(),
		ErrorCount: int(c.requestsFailed.Load()),
		Uptime:     time.Since(startTime),
		Status:     status,
	}
}

// DataFlow returns current data flow metrics.
func (c *Component) DataFlow() component.FlowMetrics {
	var errorRate float64
	if n := c.requestsProcessed.Load(); n > 0 {
		errorRate = float64(c.requestsFailed.Load()) / float64(n)
	}
	return component.FlowMetrics{
		MessagesPerSecond: 0,
		BytesPerSecond:    0,
		ErrorRate:         errorRate,
		LastActivity:      c.getLastActivity(),
	}
}

func (c *Component) updateLastActivity() {
	c.lastActivityMu.Lock()
	c.lastActivity = time.Now()
	c.lastActivityMu.Unlock()
}

func (c *Component) getLastActivity() time.Time {
	c.lastActivityMu.RLock()
	defer c.lastActivityMu.RUnlock()
	return c.lastActivity
}
