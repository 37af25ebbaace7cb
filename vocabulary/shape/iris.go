package shape

// Namespace is the base IRI prefix for shape vocabulary terms.
const Namespace = "https://semshape.dev/ontology/shape/"

// EntityNamespace is the base IRI for catalog entity instances.
const EntityNamespace = "https://semshape.dev/entity/"

// SHACLNamespace is the W3C Shapes Constraint Language namespace.
const SHACLNamespace = "http://www.w3.org/ns/shacl#"

// SHACL IRI constants for mappings.
const (
	// ShNodeShape is the class of node shapes.
	ShNodeShape = SHACLNamespace + "NodeShape"

	// ShPropertyShape is the class of property shapes.
	ShPropertyShape = SHACLNamespace + "PropertyShape"

	// ShTargetClass links a node shape to the class it constrains.
	ShTargetClass = SHACLNamespace + "targetClass"

	// ShProperty links a node shape to its property shapes.
	ShProperty = SHACLNamespace + "property"

	ShPath     = SHACLNamespace + "path"
	ShDatatype = SHACLNamespace + "datatype"
	ShMinCount = SHACLNamespace + "minCount"
	ShMaxCount = SHACLNamespace + "maxCount"
	ShIn       = SHACLNamespace + "in"
	ShNode     = SHACLNamespace + "node"
	ShClass    = SHACLNamespace + "class"
)

// Class IRIs define the types of catalog entities.
const (
	// ClassNodeShape represents a node shape in the catalog.
	// Extends: sh:NodeShape, cco:InformationContentEntity
	ClassNodeShape = Namespace + "NodeShape"

	// ClassPropertyShape represents a property constraint of a node shape.
	// Extends: sh:PropertyShape, cco:DirectiveInformationContentEntity
	ClassPropertyShape = Namespace + "PropertyShape"
)
