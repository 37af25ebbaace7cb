package shape

import (
	"fmt"
	"slices"
)

// Synthesizer builds example templates from a registry.
type Synthesizer struct {
	registry *Registry
}

// NewSynthesizer returns a synthesizer reading from r.
func NewSynthesizer(r *Registry) *Synthesizer {
	return &Synthesizer{registry: r}
}

// Synthesize returns the template for typeName. With mandatoryOnly set,
// properties with a zero minCount are omitted at every level.
func (s *Synthesizer) Synthesize(typeName string, mandatoryOnly bool) (*Template, error) {
	return s.synthesize(typeName, mandatoryOnly, nil)
}

// SynthesizeAll returns a template for every registered type, keyed by type name.
func (s *Synthesizer) SynthesizeAll(mandatoryOnly bool) (map[string]*Template, error) {
	out := make(map[string]*Template, len(s.registry.types))
	for _, typeName := range s.registry.types {
		t, err := s.Synthesize(typeName, mandatoryOnly)
		if err != nil {
			return nil, fmt.Errorf("synthesize %s: %w", typeName, err)
		}
		out[typeName] = t
	}
	return out, nil
}

// synthesize expands typeName. path holds the shapes of the enclosing
// compositions.
func (s *Synthesizer) synthesize(typeName string, mandatoryOnly bool, path []ShapeID) (*Template, error) {
	id, err := s.registry.ShapeFor(typeName)
	if err != nil {
		return nil, err
	}
	if slices.Contains(path, id) {
		return nil, &CompositionCycleError{ShapeID: id, Path: append(slices.Clone(path), id)}
	}
	path = append(path[:len(path):len(path)], id)

	props, err := s.registry.PropertiesOf(id)
	if err != nil {
		return nil, err
	}

	values := map[string]any{
		"id":   "",
		"type": typeName,
	}
	for _, p := range props {
		if p.Name == "id" || p.Name == "type" {
			continue
		}
		if mandatoryOnly && !p.Mandatory() {
			continue
		}
		v, err := s.value(p, mandatoryOnly, path)
		if err != nil {
			return nil, err
		}
		values[p.Name] = v
	}
	return newOrderedTemplate(values), nil
}

func (s *Synthesizer) value(c PropertyConstraint, mandatoryOnly bool, path []ShapeID) (any, error) {
	switch c.Kind {
	case KindLeaf:
		return ResolveValue(c), nil

	case KindComposition:
		if len(c.CandidateTypes) != 1 {
			return nil, fmt.Errorf("property %q: composition with %d candidate types", c.Name, len(c.CandidateTypes))
		}
		nested, err := s.synthesize(c.CandidateTypes[0], mandatoryOnly, path)
		if err != nil {
			return nil, err
		}
		if c.MultiValued() {
			return []any{nested}, nil
		}
		return nested, nil

	case KindReference:
		if len(c.CandidateTypes) == 1 && !c.MultiValued() {
			return c.CandidateTypes[0], nil
		}
		stubs := make([]any, 0, len(c.CandidateTypes))
		for _, candidate := range c.CandidateTypes {
			stubs = append(stubs, NewTemplate().Set("type", candidate))
		}
		return stubs, nil

	default:
		return nil, fmt.Errorf("property %q: unsupported kind %s", c.Name, c.Kind)
	}
}
