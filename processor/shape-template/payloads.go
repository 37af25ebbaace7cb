package shapetemplate

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
)

// Error kinds reported in TemplateResponse.ErrorKind.
const (
	ErrorKindUnknownType    = "unknown_type"
	ErrorKindCycle          = "cycle"
	ErrorKindInvalidRequest = "invalid_request"
	ErrorKindInternal       = "internal"
)

// TemplateRequest is the request payload for template synthesis.
type TemplateRequest struct {
	// Type is the type name to synthesize a template for.
	Type string `json:"type,omitempty"`

	// MandatoryOnly limits the template to properties with minCount > 0.
	MandatoryOnly bool `json:"mandatory_only,omitempty"`

	// Format is json, yaml or jsonld. Empty selects the configured default.
	Format string `json:"format,omitempty"`

	// ListTypes asks for the registry's type names instead of a template.
	ListTypes bool `json:"list_types,omitempty"`
}

// TemplateResponse is the response payload for template synthesis.
type TemplateResponse struct {
	// Type echoes the requested type name.
	Type string `json:"type,omitempty"`

	// Generation identifies the registry snapshot that served the request.
	Generation string `json:"generation,omitempty"`

	// Format is the format the template was rendered in.
	Format string `json:"format,omitempty"`

	// Template is the JSON (or JSON-LD) document.
	Template json.RawMessage `json:"template,omitempty"`

	// Rendered holds the document text for non-JSON formats such as YAML.
	Rendered string `json:"rendered,omitempty"`

	// Types lists every type name for list_types requests.
	Types []string `json:"types,omitempty"`

	// Error is set if the request could not be served.
	Error string `json:"error,omitempty"`

	// ErrorKind classifies Error: unknown_type, cycle, invalid_request, internal.
	ErrorKind string `json:"error_kind,omitempty"`
}

// Schema returns the message type for TemplateRequest.
func (p *TemplateRequest) Schema() message.Type {
	return TemplateRequestType
}

// Validate validates the TemplateRequest.
func (p *TemplateRequest) Validate() error {
	if p.ListTypes {
		return nil
	}
	if p.Type == "" {
		return fmt.Errorf("type is required")
	}
	return nil
}

// MarshalJSON marshals the TemplateRequest to JSON.
func (p *TemplateRequest) MarshalJSON() ([]byte, error) {
	type Alias TemplateRequest
	return json.Marshal((*Alias)(p))
}

// UnmarshalJSON unmarshals the TemplateRequest from JSON.
func (p *TemplateRequest) UnmarshalJSON(data []byte) error {
	type Alias TemplateRequest
	return json.Unmarshal(data, (*Alias)(p))
}

// Schema returns the message type for TemplateResponse.
func (p *TemplateResponse) Schema() message.Type {
	return TemplateResponseType
}

// Validate validates the TemplateResponse.
func (p *TemplateResponse) Validate() error {
	return nil
}

// MarshalJSON marshals the TemplateResponse to JSON.
func (p *TemplateResponse) MarshalJSON() ([]byte, error) {
	type Alias TemplateResponse
	return json.Marshal((*Alias)(p))
}

// UnmarshalJSON unmarshals the TemplateResponse from JSON.
func (p *TemplateResponse) UnmarshalJSON(data []byte) error {
	type Alias TemplateResponse
	return json.Unmarshal(data, (*Alias)(p))
}

// TemplateRequestType is the message type for template requests.
var TemplateRequestType = message.Type{
	Domain:   "shape",
	Category: "template-request",
	Version:  "v1",
}

// TemplateResponseType is the message type for template responses.
var TemplateResponseType = message.Type{
	Domain:   "shape",
	Category: "template-response",
	Version:  "v1",
}

func init() {
	if err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "shape",
		Category:    "template-request",
		Version:     "v1",
		Description: "Shape template synthesis request",
		Factory:     func() any { return &TemplateRequest{} },
	}); err != nil {
		log.Printf("ERROR: failed to register TemplateRequest: %v", err)
	}

	if err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "shape",
		Category:    "template-response",
		Version:     "v1",
		Description: "Shape template synthesis response",
		Factory:     func() any { return &TemplateResponse{} },
	}); err != nil {
		log.Printf("ERROR: failed to register TemplateResponse: %v", err)
	}
}
