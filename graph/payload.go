package graph

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"

	shapevocab "github.com/c360studio/semshape/vocabulary/shape"
)

func init() {
	err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "shape",
		Category:    "catalog_entity",
		Version:     "v1",
		Description: "Shape catalog entity payload for graph ingestion",
		Factory:     func() any { return &EntityPayload{} },
	})
	if err != nil {
		panic("failed to register EntityPayload: " + err.Error())
	}
}

// EntityType is the message type for shape catalog entity payloads.
var EntityType = message.Type{Domain: "shape", Category: "catalog_entity", Version: "v1"}

// EntityPayload is one catalog entity and its triples.
type EntityPayload struct {
	ID         string                `json:"id"`
	Kind       shapevocab.EntityType `json:"kind"`
	TripleData []message.Triple      `json:"triples"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

func (e *EntityPayload) EntityID() string          { return e.ID }
func (e *EntityPayload) Triples() []message.Triple { return e.TripleData }
func (e *EntityPayload) Schema() message.Type      { return EntityType }

func (e *EntityPayload) Validate() error {
	if e.ID == "" {
		return errors.New("entity ID is required")
	}
	if len(e.TripleData) == 0 {
		return errors.New("at least one triple is required")
	}
	return nil
}

func (e *EntityPayload) MarshalJSON() ([]byte, error) {
	type Alias EntityPayload
	return json.Marshal((*Alias)(e))
}

func (e *EntityPayload) UnmarshalJSON(data []byte) error {
	type Alias EntityPayload
	return json.Unmarshal(data, (*Alias)(e))
}
