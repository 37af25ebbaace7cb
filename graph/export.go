package graph

import (
	"fmt"
	"time"

	"github.com/c360studio/semshape/export"
	"github.com/c360studio/semshape/shape"
)

// ExportCatalog renders the catalog of reg as RDF in format using profile.
func ExportCatalog(reg *shape.Registry, format export.Format, profile export.Profile) (string, error) {
	if info, ok := export.GetFormatInfo(format); !ok || !info.Catalog {
		return "", fmt.Errorf("format %q cannot export the catalog", format)
	}

	entities, err := CatalogEntities(reg, time.Now())
	if err != nil {
		return "", fmt.Errorf("build catalog: %w", err)
	}

	exporter := export.NewRDFExporter(profile)
	for _, e := range entities {
		exporter.AddEntity(export.Entity{
			ID:         e.ID,
			EntityType: e.Kind,
			Triples:    e.TripleData,
		})
	}
	return exporter.Export(format)
}
