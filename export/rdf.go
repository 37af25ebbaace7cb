package export

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/c360studio/semstreams/message"

	shapevocab "github.com/c360studio/semshape/vocabulary/shape"
)

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Entity is one exportable catalog entity with its type and triples.
type Entity struct {
	ID         string
	EntityType shapevocab.EntityType
	Triples    []message.Triple
}

// RDFExporter renders catalog entities as RDF with configurable ontology
// profiles.
type RDFExporter struct {
	profile  Profile
	entities []Entity
	prefixes map[string]string
}

// NewRDFExporter creates a new RDF exporter with the specified profile.
func NewRDFExporter(profile Profile) *RDFExporter {
	return &RDFExporter{
		profile:  profile,
		prefixes: defaultPrefixes(),
	}
}

func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":    "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs":   "http://www.w3.org/2000/01/rdf-schema#",
		"xsd":    "http://www.w3.org/2001/XMLSchema#",
		"sh":     shapevocab.SHACLNamespace,
		"prov":   "http://www.w3.org/ns/prov#",
		"bfo":    "http://purl.obolibrary.org/obo/",
		"cco":    "http://www.ontologyrepository.com/CommonCoreOntologies/",
		"shape":  shapevocab.Namespace,
		"entity": shapevocab.EntityNamespace,
	}
}

// AddEntity adds an entity to be exported.
func (e *RDFExporter) AddEntity(entity Entity) {
	e.entities = append(e.entities, entity)
}

// Len returns the number of entities added.
func (e *RDFExporter) Len() int {
	return len(e.entities)
}

// Export serializes all entities to the specified format.
func (e *RDFExporter) Export(format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return e.toTurtle(), nil
	case FormatNTriples:
		return e.toNTriples(), nil
	case FormatJSONLD:
		return e.toJSONLD()
	default:
		return "", fmt.Errorf("unsupported catalog format: %s", format)
	}
}

func (e *RDFExporter) toTurtle() string {
	var sb strings.Builder

	for _, prefix := range slices.Sorted(maps.Keys(e.prefixes)) {
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", prefix, e.prefixes[prefix])
	}
	sb.WriteString("\n")

	for _, entity := range e.entities {
		e.writeEntityTurtle(&sb, entity)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (e *RDFExporter) writeEntityTurtle(sb *strings.Builder, entity Entity) {
	fmt.Fprintf(sb, "<%s>\n", entityIDToIRI(entity.ID))

	types := TypeIRIs(entity.EntityType, e.profile)
	for i, typeIRI := range types {
		fmt.Fprintf(sb, "    a <%s>", typeIRI)
		if i < len(types)-1 || len(entity.Triples) > 0 {
			sb.WriteString(" ;\n")
		} else {
			sb.WriteString(" .\n")
		}
	}

	for i, triple := range entity.Triples {
		fmt.Fprintf(sb, "    <%s> %s", shapevocab.GetPredicateIRI(triple.Predicate), formatObject(triple.Object, turtleDatatype))
		if i < len(entity.Triples)-1 {
			sb.WriteString(" ;\n")
		} else {
			sb.WriteString(" .\n")
		}
	}
}

func (e *RDFExporter) toNTriples() string {
	var sb strings.Builder

	for _, entity := range e.entities {
		iri := entityIDToIRI(entity.ID)
		for _, typeIRI := range TypeIRIs(entity.EntityType, e.profile) {
			fmt.Fprintf(&sb, "<%s> <%s> <%s> .\n", iri, rdfType, typeIRI)
		}
		for _, triple := range entity.Triples {
			obj := formatObject(triple.Object, ntriplesDatatype)
			fmt.Fprintf(&sb, "<%s> <%s> %s .\n", iri, shapevocab.GetPredicateIRI(triple.Predicate), obj)
		}
	}
	return sb.String()
}

func (e *RDFExporter) toJSONLD() (string, error) {
	graph := make([]map[string]any, 0, len(e.entities))
	for _, entity := range e.entities {
		node := map[string]any{
			"@id":   entityIDToIRI(entity.ID),
			"@type": TypeIRIs(entity.EntityType, e.profile),
		}
		for _, triple := range entity.Triples {
			key := shapevocab.GetPredicateIRI(triple.Predicate)
			val := jsonLDObject(triple.Object)
			switch existing := node[key].(type) {
			case nil:
				node[key] = val
			case []any:
				node[key] = append(existing, val)
			default:
				node[key] = []any{existing, val}
			}
		}
		graph = append(graph, node)
	}

	doc := map[string]any{
		"@context": e.prefixes,
		"@graph":   graph,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json-ld: %w", err)
	}
	return string(data) + "\n", nil
}

// entityIDToIRI converts a dotted entity ID to an IRI.
// Example: "semshape.local.shape.catalog.node.PersonShape"
//
//	-> "https://semshape.dev/entity/catalog/node/PersonShape"
func entityIDToIRI(entityID string) string {
	parts := strings.Split(entityID, ".")
	if len(parts) < 6 {
		return shapevocab.EntityNamespace + entityID
	}
	return shapevocab.EntityNamespace + strings.Join(parts[3:], "/")
}

func isEntityID(s string) bool {
	return strings.HasPrefix(s, "semshape.") && len(strings.Split(s, ".")) == 6
}

func turtleDatatype(local string) string {
	return "xsd:" + local
}

func ntriplesDatatype(local string) string {
	return "<http://www.w3.org/2001/XMLSchema#" + local + ">"
}

// formatObject formats an object for Turtle or N-Triples; datatype renders
// an XSD datatype reference from its local name.
func formatObject(obj any, datatype func(string) string) string {
	switch v := obj.(type) {
	case string:
		if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
			return fmt.Sprintf("<%s>", v)
		}
		if isEntityID(v) {
			return fmt.Sprintf("<%s>", entityIDToIRI(v))
		}
		return fmt.Sprintf("\"%s\"", escapeString(v))
	case int, int32, int64:
		return fmt.Sprintf("\"%d\"^^%s", v, datatype("integer"))
	case float32, float64:
		return fmt.Sprintf("\"%v\"^^%s", v, datatype("decimal"))
	case bool:
		return fmt.Sprintf("\"%t\"^^%s", v, datatype("boolean"))
	default:
		return fmt.Sprintf("\"%s\"", escapeString(fmt.Sprint(v)))
	}
}

func jsonLDObject(obj any) any {
	if s, ok := obj.(string); ok {
		if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			return map[string]any{"@id": s}
		}
		if isEntityID(s) {
			return map[string]any{"@id": entityIDToIRI(s)}
		}
	}
	return obj
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
