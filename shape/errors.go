package shape

import (
	"fmt"
	"strings"
)

// UnknownTypeError is returned when a type name has no registered shape.
type UnknownTypeError struct {
	TypeName string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type: %q", e.TypeName)
}

// UnknownShapeError is returned when a shape identifier is not registered.
type UnknownShapeError struct {
	ShapeID ShapeID
}

func (e *UnknownShapeError) Error() string {
	return fmt.Sprintf("unknown shape: %q", e.ShapeID)
}

// ShapeLoadError reports declarations that cannot be merged into a registry.
type ShapeLoadError struct {
	// ShapeID is the offending shape, empty for source-level failures.
	ShapeID ShapeID

	// Sources names the sources involved, sorted.
	Sources []string

	// Detail describes the conflict.
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

func (e *ShapeLoadError) Error() string {
	var sb strings.Builder
	sb.WriteString("shape load")
	if e.ShapeID != "" {
		fmt.Fprintf(&sb, " %q", e.ShapeID)
	}
	if len(e.Sources) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(e.Sources, ", "))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Detail)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ShapeLoadError) Unwrap() error {
	return e.Err
}

// CompositionCycleError is returned when a chain of composed shapes revisits
// a shape already on the recursion path.
type CompositionCycleError struct {
	ShapeID ShapeID

	// Path lists the shapes from the requested type down to the revisit.
	Path []ShapeID
}

func (e *CompositionCycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = string(id)
	}
	return fmt.Sprintf("composition cycle at %q: %s", e.ShapeID, strings.Join(parts, " -> "))
}
