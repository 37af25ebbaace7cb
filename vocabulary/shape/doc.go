// Package shape provides vocabulary predicates for the shape catalog.
//
// The catalog describes every node shape of a registry as a graph entity,
// with one child entity per property constraint. Predicates map onto the
// W3C SHACL vocabulary so an RDF export of the catalog reads as a SHACL
// shapes graph.
//
// # Entity Layout
//
//	Node Entity: semshape.local.shape.catalog.node.{shape}
//	  - shape.node.target_class, shape.node.property_count
//	  - shape.rel.has_property → property entities
//
//	Property Entity: semshape.local.shape.catalog.property.{shape}-{path}
//	  - shape.property.path, kind, datatype, min_count, max_count, in
//	  - shape.rel.composes / shape.rel.references → node entities
//
// {shape} and {path} keep ASCII letters and digits; every other byte is
// written as _XX in upper-case hex.
//
// Import this package to auto-register predicates:
//
//	import _ "github.com/c360studio/semshape/vocabulary/shape"
package shape
