package shape

import "github.com/c360studio/semstreams/vocabulary"

// Node predicates describe a node shape.
const (
	// NodeTargetClass is the type name the shape resolves to.
	NodeTargetClass = "shape.node.target_class"

	// NodePropertyCount is the number of property constraints.
	NodePropertyCount = "shape.node.property_count"

	// NodeBareClass marks a class registered without a dedicated shape.
	NodeBareClass = "shape.node.bare_class"

	// NodeGeneration is the registry generation that produced the entity.
	NodeGeneration = "shape.node.generation"
)

// Property predicates describe one property constraint.
const (
	// PropertyPath is the property name used as a template key.
	PropertyPath = "shape.property.path"

	// PropertyKind is the constraint kind.
	// Values: "leaf", "composition", "reference"
	PropertyKind = "shape.property.kind"

	// PropertyDatatype is the declared datatype of a leaf.
	PropertyDatatype = "shape.property.datatype"

	// PropertyMinCount is the minimum cardinality.
	PropertyMinCount = "shape.property.min_count"

	// PropertyMaxCount is the maximum cardinality, -1 when unbounded.
	PropertyMaxCount = "shape.property.max_count"

	// PropertyIn is one enumerated value; repeated per value.
	PropertyIn = "shape.property.in"

	// PropertyCandidate is one candidate type name; repeated per candidate.
	PropertyCandidate = "shape.property.candidate"
)

// Relationship predicates link catalog entities.
const (
	// HasProperty links a node shape to its property entities.
	HasProperty = "shape.rel.has_property"

	// Composes links a composition property to the node entity it nests.
	Composes = "shape.rel.composes"

	// References links a reference property to a candidate node entity.
	References = "shape.rel.references"
)

func init() {
	vocabulary.Register(NodeTargetClass,
		vocabulary.WithDescription("Type name a node shape resolves to"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(ShTargetClass))

	vocabulary.Register(NodePropertyCount,
		vocabulary.WithDescription("Number of property constraints on the shape"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(Namespace+"propertyCount"))

	vocabulary.Register(NodeBareClass,
		vocabulary.WithDescription("Class registered as a type without a dedicated shape"),
		vocabulary.WithDataType("bool"),
		vocabulary.WithIRI(Namespace+"bareClass"))

	vocabulary.Register(NodeGeneration,
		vocabulary.WithDescription("Registry generation that produced this entity"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"generation"))

	vocabulary.Register(PropertyPath,
		vocabulary.WithDescription("Property name used as the template key"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(ShPath))

	vocabulary.Register(PropertyKind,
		vocabulary.WithDescription("Constraint kind: leaf, composition, reference"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"kind"))

	vocabulary.Register(PropertyDatatype,
		vocabulary.WithDescription("Declared datatype of a leaf property"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(ShDatatype))

	vocabulary.Register(PropertyMinCount,
		vocabulary.WithDescription("Minimum number of values"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(ShMinCount))

	vocabulary.Register(PropertyMaxCount,
		vocabulary.WithDescription("Maximum number of values, -1 when unbounded"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(ShMaxCount))

	vocabulary.Register(PropertyIn,
		vocabulary.WithDescription("Enumerated value permitted for the property"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(ShIn))

	vocabulary.Register(PropertyCandidate,
		vocabulary.WithDescription("Candidate type name for a composition or reference"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(ShClass))

	vocabulary.Register(HasProperty,
		vocabulary.WithDescription("Node shape has this property constraint"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(ShProperty))

	vocabulary.Register(Composes,
		vocabulary.WithDescription("Property nests values of this node shape"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(ShNode))

	vocabulary.Register(References,
		vocabulary.WithDescription("Property refers to instances of this node shape's type"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"references"))
}
