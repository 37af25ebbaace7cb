package shape

import (
	"github.com/c360studio/semstreams/vocabulary"
	"github.com/c360studio/semstreams/vocabulary/bfo"
	"github.com/c360studio/semstreams/vocabulary/cco"
)

// EntityType is the kind of a catalog entity for mapping purposes.
type EntityType string

const (
	// EntityTypeNodeShape is a node shape or bare class.
	EntityTypeNodeShape EntityType = "node_shape"
	// EntityTypePropertyShape is one property constraint of a node shape.
	EntityTypePropertyShape EntityType = "property_shape"
)

// SHACLClassMap maps entity types to SHACL class IRIs.
var SHACLClassMap = map[EntityType]string{
	EntityTypeNodeShape:     ShNodeShape,
	EntityTypePropertyShape: ShPropertyShape,
}

// ClassMap maps entity types to shape vocabulary class IRIs.
var ClassMap = map[EntityType]string{
	EntityTypeNodeShape:     ClassNodeShape,
	EntityTypePropertyShape: ClassPropertyShape,
}

// BFOClassMap maps entity types to BFO class IRIs.
var BFOClassMap = map[EntityType]string{
	EntityTypeNodeShape:     bfo.GenericallyDependentContinuant,
	EntityTypePropertyShape: bfo.GenericallyDependentContinuant,
}

// CCOClassMap maps entity types to CCO class IRIs.
var CCOClassMap = map[EntityType]string{
	EntityTypeNodeShape:     cco.InformationContentEntity,
	EntityTypePropertyShape: cco.DirectiveInformationContentEntity,
}

// PROVClassMap maps entity types to PROV-O class IRIs.
var PROVClassMap = map[EntityType]string{
	EntityTypeNodeShape:     vocabulary.ProvEntity,
	EntityTypePropertyShape: vocabulary.ProvEntity,
}

// GetPredicateIRI returns the registered standard IRI for a predicate,
// falling back to the shape namespace.
func GetPredicateIRI(predicate string) string {
	if meta := vocabulary.GetPredicateMetadata(predicate); meta != nil && meta.StandardIRI != "" {
		return meta.StandardIRI
	}
	return Namespace + predicate
}
