package shape

import (
	"fmt"
	"reflect"
	"slices"
)

// ShapeID identifies a structural shape declaration.
type ShapeID string

// Kind classifies how a property value is represented in a template.
type Kind int

const (
	// KindLeaf is a scalar constrained by datatype or enumeration.
	KindLeaf Kind = iota

	// KindComposition is an inline sub-shape expanded in place.
	KindComposition

	// KindReference identifies an independent entity by type only.
	KindReference
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindComposition:
		return "composition"
	case KindReference:
		return "reference"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Unbounded is the MaxCount of a property without an upper bound.
const Unbounded = -1

// PropertyConstraint describes one property of a shape.
type PropertyConstraint struct {
	// Name is the template key.
	Name string

	// Kind selects leaf, composition or reference handling.
	Kind Kind

	// CandidateTypes lists the acceptable types for compositions and
	// references, sorted and without duplicates.
	CandidateTypes []string

	// MinCount is the lower cardinality bound; >= 1 marks the property mandatory.
	MinCount int

	// MaxCount is the upper cardinality bound or Unbounded.
	MaxCount int

	// Datatype is the leaf datatype, e.g. "xsd:date". Exclusive with EnumeratedValues.
	Datatype string

	// EnumeratedValues lists the allowed literal values in declaration order.
	EnumeratedValues []any
}

// Mandatory reports whether the property must be present.
func (c PropertyConstraint) Mandatory() bool {
	return c.MinCount >= 1
}

// MultiValued reports whether more than one value is permitted.
func (c PropertyConstraint) MultiValued() bool {
	return c.MaxCount == Unbounded || c.MaxCount > 1
}

// equal compares two constraints field by field. Enumerated values must
// match in type as well as value, so 1 and "1" differ.
func (c PropertyConstraint) equal(o PropertyConstraint) bool {
	return c.Name == o.Name &&
		c.Kind == o.Kind &&
		slices.Equal(c.CandidateTypes, o.CandidateTypes) &&
		c.MinCount == o.MinCount &&
		c.MaxCount == o.MaxCount &&
		c.Datatype == o.Datatype &&
		slices.EqualFunc(c.EnumeratedValues, o.EnumeratedValues, reflect.DeepEqual)
}

func (c PropertyConstraint) clone() PropertyConstraint {
	c.CandidateTypes = slices.Clone(c.CandidateTypes)
	c.EnumeratedValues = slices.Clone(c.EnumeratedValues)
	return c
}
