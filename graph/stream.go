package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// IngestStream is the JetStream stream that captures graph ingestion and
// export subjects.
const IngestStream = "GRAPH"

// StreamSubjects are the subjects bound to IngestStream.
var StreamSubjects = []string{"graph.ingest.>", "graph.export.>"}

// EnsureIngestStream creates the graph ingestion stream when it does not
// exist. An existing stream is left untouched.
func EnsureIngestStream(ctx context.Context, js jetstream.JetStream) error {
	_, err := js.Stream(ctx, IngestStream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("get stream %s: %w", IngestStream, err)
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     IngestStream,
		Subjects: StreamSubjects,
		Storage:  jetstream.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("create stream %s: %w", IngestStream, err)
	}
	return nil
}
