// Package graph publishes the shape catalog to the knowledge graph.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/c360studio/semstreams/message"

	"github.com/c360studio/semshape/shape"
)

// GraphIngestSubject is the subject for graph ingestion.
const GraphIngestSubject = "graph.ingest.entity"

// Publisher delivers messages to a JetStream subject. *natsclient.Client
// satisfies it.
type Publisher interface {
	PublishToStream(ctx context.Context, subject string, data []byte) error
}

// PublishEntity wraps payload in a BaseMessage and publishes it for graph
// ingestion.
func PublishEntity(ctx context.Context, p Publisher, payload *EntityPayload) error {
	if p == nil {
		return nil // Skip publishing if no NATS client (graceful degradation)
	}
	if err := payload.Validate(); err != nil {
		return fmt.Errorf("validate entity %s: %w", payload.ID, err)
	}

	msg := message.NewBaseMessage(EntityType, payload, "semshape")
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal entity message: %w", err)
	}
	if err := p.PublishToStream(ctx, GraphIngestSubject, data); err != nil {
		return fmt.Errorf("publish entity %s: %w", payload.ID, err)
	}
	return nil
}

// PublishCatalog publishes every catalog entity of reg and returns how many
// were published before any error.
func PublishCatalog(ctx context.Context, p Publisher, reg *shape.Registry) (int, error) {
	if p == nil {
		return 0, nil
	}

	entities, err := CatalogEntities(reg, time.Now())
	if err != nil {
		return 0, fmt.Errorf("build catalog: %w", err)
	}

	for i, e := range entities {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := PublishEntity(ctx, p, e); err != nil {
			return i, err
		}
	}
	return len(entities), nil
}
