package shapetemplate

import (
	"fmt"

	"github.com/c360studio/semstreams/component"
)

// RegistryInterface defines the minimal interface needed for registration.
type RegistryInterface interface {
	RegisterWithConfig(component.RegistrationConfig) error
}

// Register registers the shape-template processor with the given registry.
func Register(registry RegistryInterface) error {
	if registry == nil {
		return fmt.Errorf("registry cannot be nil")
	}
	return registry.RegisterWithConfig(component.RegistrationConfig{
		Name:        "shape-template",
		Factory:     NewComponent,
		Schema:      shapeTemplateSchema,
		Type:        "processor",
		Protocol:    "shape",
		Domain:      "semshape",
		Description: "Request/reply service synthesizing example documents from shapes",
		Version:     "1.0.0",
	})
}
