// Package catalogexport provides a streaming output component that
// subscribes to graph entity ingestion messages and serializes the shape
// catalog entities among them to RDF.
package catalogexport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/semshape/export"
	"github.com/c360studio/semshape/graph"
	"github.com/c360studio/semshape/metrics"
	shapevocab "github.com/c360studio/semshape/vocabulary/shape"
)

// Outcomes of handling one ingest message.
const (
	outcomeExported       = "exported"
	outcomeSkipped        = "skipped"
	outcomeMalformed      = "malformed"
	outcomeSerializeError = "serialize_error"
	outcomePublishError   = "publish_error"
)

// errNotCatalogEntity marks ingest messages from other domains.
var errNotCatalogEntity = errors.New("not a shape catalog entity")

// Component implements the catalog-export output processor.
type Component struct {
	config     Config
	natsClient *natsclient.Client
	publisher  graph.Publisher
	logger     *slog.Logger
	metrics    *metrics.Collector

	format  export.Format
	profile export.Profile

	input  component.PortDefinition
	output component.PortDefinition

	mu        sync.RWMutex
	running   bool
	startTime time.Time
	cancel    context.CancelFunc

	exported     atomic.Int64
	skipped      atomic.Int64
	failed       atomic.Int64
	lastExported atomic.Int64 // unix nanos
}

// NewComponent creates a new catalog-export output component.
func NewComponent(rawConfig json.RawMessage, deps component.Dependencies) (component.Discoverable, error) {
	config := DefaultConfig()
	if err := json.Unmarshal(rawConfig, &config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if config.Ports == nil {
		config.Ports = DefaultConfig().Ports
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	defaults := DefaultConfig().Ports
	input := defaults.Inputs[0]
	if len(config.Ports.Inputs) > 0 {
		input = config.Ports.Inputs[0]
	}
	if input.StreamName == "" {
		input.StreamName = graph.IngestStream
	}
	output := defaults.Outputs[0]
	if len(config.Ports.Outputs) > 0 {
		output = config.Ports.Outputs[0]
	}

	c := &Component{
		config:     config,
		natsClient: deps.NATSClient,
		logger:     deps.GetLogger(),
		metrics:    metrics.Default(),
		format:     config.GetFormat(),
		profile:    config.GetProfile(),
		input:      input,
		output:     output,
	}
	if deps.NATSClient != nil {
		c.publisher = deps.NATSClient
	}
	return c, nil
}

// Initialize prepares the component.
func (c *Component) Initialize() error {
	return nil
}

// Start consumes entity ingest messages from the input stream.
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
	consumeCtx, cancel := context.WithCancel(ctx)
	c.running = true
	c.startTime = time.Now()
	c.cancel = cancel
	c.mu.Unlock()

	err := c.natsClient.ConsumeStreamWithConfig(consumeCtx, natsclient.StreamConsumerConfig{
		StreamName:    c.input.StreamName,
		ConsumerName:  "catalog-export",
		FilterSubject: c.input.Subject,
		DeliverPolicy: "new",
		AckPolicy:     "explicit",
		MaxDeliver:    3,
		AckWait:       10 * time.Second,
	}, c.handleMessage)
	if err != nil {
		cancel()
		c.mu.Lock()
		c.running = false
		c.cancel = nil
		c.mu.Unlock()
		return fmt.Errorf("start consumer: %w", err)
	}

	c.logger.Info("catalog-export started",
		"format", c.format,
		"profile", c.profile,
		"stream", c.input.StreamName,
		"input", c.input.Subject,
		"output", c.output.Subject)
	return nil
}

// handleMessage acknowledges msg according to the export outcome. Messages
// that can never be exported are terminated; publish failures are redelivered.
func (c *Component) handleMessage(ctx context.Context, msg jetstream.Msg) {
	outcome, err := c.exportMessage(ctx, msg.Data())
	c.metrics.CatalogExported(outcome, string(c.format))

	switch outcome {
	case outcomeExported:
		c.exported.Add(1)
		c.lastExported.Store(time.Now().UnixNano())
		_ = msg.Ack()
	case outcomeSkipped:
		c.skipped.Add(1)
		_ = msg.Ack()
	case outcomePublishError:
		c.failed.Add(1)
		c.logger.Warn("Failed to publish catalog RDF", "subject", msg.Subject(), "error", err)
		_ = msg.Nak()
	default:
		c.failed.Add(1)
		c.logger.Warn("Dropping catalog entity message",
			"subject", msg.Subject(),
			"outcome", outcome,
			"error", err)
		_ = msg.Term()
	}
}

// exportMessage decodes one ingest message and publishes its RDF rendering.
func (c *Component) exportMessage(ctx context.Context, data []byte) (string, error) {
	entity, err := decodeEntity(data)
	if errors.Is(err, errNotCatalogEntity) {
		return outcomeSkipped, nil
	}
	if err != nil {
		return outcomeMalformed, err
	}

	payload, err := c.serialize(entity)
	if err != nil {
		return outcomeSerializeError, fmt.Errorf("serialize %s: %w", entity.ID, err)
	}
	out, err := json.Marshal(message.NewBaseMessage(RDFExportType, payload, "catalog-export"))
	if err != nil {
		return outcomeSerializeError, fmt.Errorf("marshal %s: %w", entity.ID, err)
	}
	if c.publisher == nil {
		return outcomePublishError, fmt.Errorf("no publisher for %s", c.output.Subject)
	}
	if err := c.publisher.PublishToStream(ctx, c.output.Subject, out); err != nil {
		return outcomePublishError, fmt.Errorf("publish %s: %w", entity.ID, err)
	}

	c.logger.Debug("Exported catalog entity",
		"entity_id", entity.ID,
		"kind", entity.Kind,
		"bytes", len(payload.Content))
	return outcomeExported, nil
}

// decodeEntity extracts the catalog entity carried by an ingest message.
// The ingest subject is shared by every domain, so payloads of other types
// yield errNotCatalogEntity.
func decodeEntity(data []byte) (*graph.EntityPayload, error) {
	var baseMsg message.BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		return nil, fmt.Errorf("unmarshal base message: %w", err)
	}
	entity, ok := baseMsg.Payload().(*graph.EntityPayload)
	if !ok {
		return nil, errNotCatalogEntity
	}
	return entity, nil
}

// serialize renders one catalog entity with the configured format and
// profile.
func (c *Component) serialize(entity *graph.EntityPayload) (*Payload, error) {
	if err := entity.Validate(); err != nil {
		return nil, err
	}

	exporter := export.NewRDFExporter(c.profile)
	exporter.AddEntity(export.Entity{
		ID:         entity.ID,
		EntityType: entity.Kind,
		Triples:    entity.TripleData,
	})
	content, err := exporter.Export(c.format)
	if err != nil {
		return nil, err
	}

	payload := &Payload{
		EntityID: entity.ID,
		Format:   string(c.format),
		Profile:  string(c.profile),
		Content:  content,
	}
	for _, t := range entity.TripleData {
		if t.Predicate == shapevocab.NodeGeneration {
			payload.Generation, _ = t.Object.(string)
			break
		}
	}
	return payload, nil
}

// Stop cancels the consumer.
func (c *Component) Stop(_ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return nil
	}
	c.cancel()
	c.running = false

	c.logger.Info("catalog-export stopped",
		"exported", c.exported.Load(),
		"skipped", c.skipped.Load(),
		"failed", c.failed.Load())
	return nil
}

// Meta returns component metadata.
func (c *Component) Meta() component.Metadata {
	return component.Metadata{
		Name:        "catalog-export",
		Type:        "output",
		Description: "Serializes shape catalog entities to RDF (Turtle, N-Triples, JSON-LD)",
		Version:     "1.0.0",
	}
}

// InputPorts returns the entity ingest port.
func (c *Component) InputPorts() []component.Port {
	return portsOf(c.config.Ports.Inputs, component.DirectionInput)
}

// OutputPorts returns the RDF output port.
func (c *Component) OutputPorts() []component.Port {
	return portsOf(c.config.Ports.Outputs, component.DirectionOutput)
}

func portsOf(defs []component.PortDefinition, direction component.Direction) []component.Port {
	ports := make([]component.Port, 0, len(defs))
	for _, def := range defs {
		port := component.Port{
			Name:        def.Name,
			Direction:   direction,
			Required:    def.Required,
			Description: def.Description,
			Config:      component.NATSPort{Subject: def.Subject},
		}
		if def.Type == "jetstream" {
			port.Config = component.JetStreamPort{
				StreamName: def.StreamName,
				Subjects:   []string{def.Subject},
			}
		}
		ports = append(ports, port)
	}
	return ports
}

// ConfigSchema returns the configuration schema.
func (c *Component) ConfigSchema() component.ConfigSchema {
	return catalogExportSchema
}

// Health reports whether the consumer is running.
func (c *Component) Health() component.HealthStatus {
	c.mu.RLock()
	running, startTime := c.running, c.startTime
	c.mu.RUnlock()

	status := component.HealthStatus{
		Healthy:    running,
		LastCheck:  time.Now(),
		ErrorCount: int(c.failed.Load()),
		Status:     "stopped",
	}
	if running {
		status.Status = "running"
		status.Uptime = time.Since(startTime)
	}
	return status
}

// DataFlow returns the error rate over handled messages and the time of the
// last export.
func (c *Component) DataFlow() component.FlowMetrics {
	flow := component.FlowMetrics{}
	failed := c.failed.Load()
	if total := c.exported.Load() + c.skipped.Load() + failed; total > 0 {
		flow.ErrorRate = float64(failed) / float64(total)
	}
	if ns := c.lastExported.Load(); ns > 0 {
		flow.LastActivity = time.Unix(0, ns)
	}
	return flow
}
