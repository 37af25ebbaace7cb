package shape

import (
	"slices"
	"strings"
)

// Sentinel values used for temporal datatypes.
const (
	SentinelDate     = "9999-12-31"
	SentinelDateTime = "9999-12-31T00:00:00"
)

const (
	xsdNamespace = "http://www.w3.org/2001/XMLSchema#"
	rdfNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
)

// datatypeValues maps XSD local names to their representative value.
var datatypeValues = map[string]any{
	"string":             "",
	"normalizedString":   "",
	"token":              "",
	"language":           "",
	"anyURI":             "",
	"langString":         "",
	"boolean":            false,
	"integer":            0,
	"int":                0,
	"long":               0,
	"short":              0,
	"byte":               0,
	"nonNegativeInteger": 0,
	"nonPositiveInteger": 0,
	"positiveInteger":    0,
	"negativeInteger":    0,
	"unsignedLong":       0,
	"unsignedInt":        0,
	"unsignedShort":      0,
	"unsignedByte":       0,
	"decimal":            0.0,
	"float":              0.0,
	"double":             0.0,
	"date":               SentinelDate,
	"dateTime":           SentinelDateTime,
}

// ResolveValue returns a representative example value for a leaf constraint.
// An enumeration with several values is returned whole; unknown or missing
// datatypes resolve to the empty string.
func ResolveValue(c PropertyConstraint) any {
	switch len(c.EnumeratedValues) {
	case 0:
	case 1:
		return c.EnumeratedValues[0]
	default:
		return slices.Clone(c.EnumeratedValues)
	}
	if v, ok := datatypeValues[datatypeLocalName(c.Datatype)]; ok {
		return v
	}
	return ""
}

// datatypeLocalName strips the XSD or RDF namespace from a datatype.
// Datatypes in other namespaces yield "".
func datatypeLocalName(dt string) string {
	for _, prefix := range []string{xsdNamespace, rdfNamespace, "xsd:", "rdf:"} {
		if rest, ok := strings.CutPrefix(dt, prefix); ok {
			return rest
		}
	}
	if strings.ContainsAny(dt, ":/#") {
		return ""
	}
	return dt
}
