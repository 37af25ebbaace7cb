package catalogexport

import (
	"encoding/json"
	"errors"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
)

func init() {
	err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "shape",
		Category:    "catalog_rdf",
		Version:     "v1",
		Description: "Serialized RDF for one shape catalog entity",
		Factory:     func() any { return &Payload{} },
	})
	if err != nil {
		panic("failed to register Payload: " + err.Error())
	}
}

// RDFExportType is the message type for catalog RDF payloads.
var RDFExportType = message.Type{Domain: "shape", Category: "catalog_rdf", Version: "v1"}

// Payload is the RDF rendering of one catalog entity.
type Payload struct {
	EntityID   string `json:"entity_id"`
	Generation string `json:"generation,omitempty"`
	Format     string `json:"format"`  // turtle, ntriples, jsonld
	Profile    string `json:"profile"` // minimal, bfo, cco
	Content    string `json:"content"` // serialized RDF
}

// Schema implements message.Payload.
func (p *Payload) Schema() message.Type { return RDFExportType }

// Validate requires an entity ID, a format and non-empty content.
func (p *Payload) Validate() error {
	if p.EntityID == "" {
		return errors.New("entity_id is required")
	}
	if p.Format == "" {
		return errors.New("format is required")
	}
	if p.Content == "" {
		return errors.New("content is required")
	}
	return nil
}

func (p *Payload) MarshalJSON() ([]byte, error) {
	type Alias Payload
	return json.Marshal((*Alias)(p))
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	type Alias Payload
	return json.Unmarshal(data, (*Alias)(p))
}
