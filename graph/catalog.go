package graph

import (
	"fmt"
	"strings"
	"time"

	"github.com/c360studio/semstreams/message"

	"github.com/c360studio/semshape/shape"
	shapevocab "github.com/c360studio/semshape/vocabulary/shape"
)

// CatalogSource is recorded as the Source of every catalog triple.
const CatalogSource = "semshape.catalog"

// NodeEntityID generates a consistent entity ID for a node shape.
// Format: semshape.local.shape.catalog.node.<shape>
func NodeEntityID(id shape.ShapeID) string {
	return "semshape.local.shape.catalog.node." + escapeIDPart(string(id))
}

// PropertyEntityID generates a consistent entity ID for a property constraint.
// Format: semshape.local.shape.catalog.property.<shape>-<path>
func PropertyEntityID(id shape.ShapeID, path string) string {
	return "semshape.local.shape.catalog.property." + escapeIDPart(string(id)) + "-" + escapeIDPart(path)
}

// escapeIDPart keeps ASCII letters and digits and writes every other byte
// as _XX (upper-case hex). The mapping is injective and never emits '.' or
// '-', so entity IDs keep six dotted parts and the property separator stays
// unambiguous.
func escapeIDPart(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, "_%02X", c)
		}
	}
	return sb.String()
}

// CatalogEntities describes every type of reg as graph entities: one node
// entity per type, in Types order, each followed by its property entities.
func CatalogEntities(reg *shape.Registry, now time.Time) ([]*EntityPayload, error) {
	var entities []*EntityPayload

	for _, typeName := range reg.Types() {
		id, err := reg.ShapeFor(typeName)
		if err != nil {
			return nil, err
		}
		props, err := reg.PropertiesOf(id)
		if err != nil {
			return nil, err
		}

		nodeID := NodeEntityID(id)
		b := tripleBuilder{subject: nodeID, now: now}
		b.add(shapevocab.NodeTargetClass, typeName)
		b.add(shapevocab.NodePropertyCount, len(props))
		b.add(shapevocab.NodeGeneration, reg.Generation())
		if reg.IsBareClass(id) {
			b.add(shapevocab.NodeBareClass, true)
		}

		var propEntities []*EntityPayload
		for _, p := range props {
			propID := PropertyEntityID(id, p.Name)
			b.add(shapevocab.HasProperty, propID)

			pe, err := propertyEntity(reg, propID, p, now)
			if err != nil {
				return nil, fmt.Errorf("describe %s.%s: %w", typeName, p.Name, err)
			}
			propEntities = append(propEntities, pe)
		}

		entities = append(entities, &EntityPayload{
			ID:         nodeID,
			Kind:       shapevocab.EntityTypeNodeShape,
			TripleData: b.triples,
			UpdatedAt:  now,
		})
		entities = append(entities, propEntities...)
	}

	return entities, nil
}

func propertyEntity(reg *shape.Registry, propID string, p shape.PropertyConstraint, now time.Time) (*EntityPayload, error) {
	b := tripleBuilder{subject: propID, now: now}
	b.add(shapevocab.PropertyPath, p.Name)
	b.add(shapevocab.PropertyKind, p.Kind.String())
	b.add(shapevocab.PropertyMinCount, p.MinCount)
	b.add(shapevocab.PropertyMaxCount, p.MaxCount)

	switch p.Kind {
	case shape.KindLeaf:
		if p.Datatype != "" {
			b.add(shapevocab.PropertyDatatype, p.Datatype)
		}
		for _, v := range p.EnumeratedValues {
			b.add(shapevocab.PropertyIn, fmt.Sprint(v))
		}
	case shape.KindComposition, shape.KindReference:
		rel := shapevocab.Composes
		if p.Kind == shape.KindReference {
			rel = shapevocab.References
		}
		for _, c := range p.CandidateTypes {
			b.add(shapevocab.PropertyCandidate, c)
			target, err := reg.ShapeFor(c)
			if err != nil {
				return nil, err
			}
			b.add(rel, NodeEntityID(target))
		}
	}

	return &EntityPayload{
		ID:         propID,
		Kind:       shapevocab.EntityTypePropertyShape,
		TripleData: b.triples,
		UpdatedAt:  now,
	}, nil
}

type tripleBuilder struct {
	subject string
	now     time.Time
	triples []message.Triple
}

func (b *tripleBuilder) add(predicate string, object any) {
	b.triples = append(b.triples, message.Triple{
		Subject:    b.subject,
		Predicate:  predicate,
		Object:     object,
		Source:     CatalogSource,
		Timestamp:  b.now,
		Confidence: 1.0,
	})
}
