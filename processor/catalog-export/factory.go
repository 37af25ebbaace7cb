package catalogexport

import (
	"fmt"

	"github.com/c360studio/semstreams/component"
)

// RegistryInterface defines the minimal interface needed for registration.
type RegistryInterface interface {
	RegisterWithConfig(component.RegistrationConfig) error
}

// Register registers the catalog-export output component with the given registry.
func Register(registry RegistryInterface) error {
	if registry == nil {
		return fmt.Errorf("registry cannot be nil")
	}
	return registry.RegisterWithConfig(component.RegistrationConfig{
		Name:        "catalog-export",
		Factory:     NewComponent,
		Schema:      catalogExportSchema,
		Type:        "output",
		Protocol:    "rdf",
		Domain:      "semshape",
		Description: "Serializes shape catalog entities to RDF (Turtle, N-Triples, JSON-LD)",
		Version:     "1.0.0",
	})
}
