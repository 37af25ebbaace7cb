package shape

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Registry indexes the shapes of one or more sources. It is immutable once
// built and safe for concurrent use.
type Registry struct {
	typeToShape       map[string]ShapeID
	shapeToType       map[ShapeID]string
	shapeToProperties map[ShapeID][]PropertyConstraint
	classToShape      map[string]ShapeID
	bareClasses       map[ShapeID]struct{}
	types             []string
	sources           []string
	generation        string
}

// declared is one shape declaration and the source it came from.
type declared struct {
	source string
	decl   ShapeDecl
}

// normalized is a validated shape with properties sorted by name.
// Composition candidates still hold shape ids at this stage.
type normalized struct {
	targetClass string
	properties  []PropertyConstraint
	sources     []string
}

// Load builds a registry from sources. The result does not depend on the
// order of sources; conflicting declarations of the same shape fail with a
// *ShapeLoadError.
func Load(sources ...Source) (*Registry, error) {
	ordered := slices.Clone(sources)
	slices.SortStableFunc(ordered, func(a, b Source) int {
		return strings.Compare(a.Name(), b.Name())
	})

	byShape := make(map[ShapeID][]declared)
	classes := make(map[string]struct{})
	names := make([]string, 0, len(ordered))

	for _, src := range ordered {
		doc, err := src.Declarations()
		if err != nil {
			return nil, &ShapeLoadError{Sources: []string{src.Name()}, Detail: "read declarations", Err: err}
		}
		names = append(names, src.Name())
		if doc == nil {
			continue
		}
		for _, sd := range doc.Shapes {
			if sd.ID == "" {
				return nil, &ShapeLoadError{Sources: []string{src.Name()}, Detail: "shape without id"}
			}
			byShape[sd.ID] = append(byShape[sd.ID], declared{source: src.Name(), decl: sd})
		}
		for _, class := range doc.Classes {
			if class != "" {
				classes[class] = struct{}{}
			}
		}
	}

	ids := slices.Sorted(maps.Keys(byShape))
	merged := make(map[ShapeID]*normalized, len(ids))
	for _, id := range ids {
		n, err := mergeShape(id, byShape[id])
		if err != nil {
			return nil, err
		}
		merged[id] = n
	}

	r := &Registry{
		typeToShape:       make(map[string]ShapeID),
		shapeToType:       make(map[ShapeID]string),
		shapeToProperties: make(map[ShapeID][]PropertyConstraint),
		classToShape:      make(map[string]ShapeID),
		bareClasses:       make(map[ShapeID]struct{}),
		sources:           slices.Compact(names),
		generation:        uuid.NewString(),
	}

	for _, id := range ids {
		n := merged[id]
		typeName := n.targetClass
		if typeName == "" {
			typeName = string(id)
		}
		if other, ok := r.typeToShape[typeName]; ok {
			return nil, &ShapeLoadError{
				ShapeID: id,
				Sources: unionSorted(merged[other].sources, n.sources),
				Detail:  fmt.Sprintf("type %q already resolves to shape %q", typeName, other),
			}
		}
		r.typeToShape[typeName] = id
		r.shapeToType[id] = typeName
		if n.targetClass != "" {
			r.classToShape[n.targetClass] = id
		}
		for _, p := range n.properties {
			if p.Kind == KindReference {
				for _, class := range p.CandidateTypes {
					classes[class] = struct{}{}
				}
			}
		}
	}

	// Classes without a dedicated shape act as shapes with no properties.
	for _, class := range slices.Sorted(maps.Keys(classes)) {
		if _, ok := r.typeToShape[class]; ok {
			continue
		}
		bare := ShapeID(class)
		if n, taken := merged[bare]; taken {
			return nil, &ShapeLoadError{
				ShapeID: bare,
				Sources: n.sources,
				Detail:  fmt.Sprintf("class %q collides with shape %q targeting %q", class, bare, n.targetClass),
			}
		}
		r.typeToShape[class] = bare
		r.shapeToType[bare] = class
		r.classToShape[class] = bare
		r.shapeToProperties[bare] = []PropertyConstraint{}
		r.bareClasses[bare] = struct{}{}
	}

	for _, id := range ids {
		n := merged[id]
		props := make([]PropertyConstraint, len(n.properties))
		for i, p := range n.properties {
			if p.Kind == KindComposition {
				target := ShapeID(p.CandidateTypes[0])
				typeName, ok := r.shapeToType[target]
				if !ok {
					return nil, &ShapeLoadError{
						ShapeID: id,
						Sources: n.sources,
						Detail:  fmt.Sprintf("property %q composes undeclared shape %q", p.Name, target),
					}
				}
				p.CandidateTypes = []string{typeName}
			}
			props[i] = p
		}
		r.shapeToProperties[id] = props
	}

	r.types = slices.Sorted(maps.Keys(r.typeToShape))
	return r, nil
}

// mergeShape validates every declaration of id and checks they agree.
func mergeShape(id ShapeID, decls []declared) (*normalized, error) {
	var first *normalized
	var firstSource string
	for _, d := range decls {
		n, err := normalizeShape(d.decl)
		if err != nil {
			return nil, &ShapeLoadError{ShapeID: id, Sources: []string{d.source}, Detail: err.Error()}
		}
		if first == nil {
			first, firstSource = n, d.source
			first.sources = []string{d.source}
			continue
		}
		if detail := first.conflict(n); detail != "" {
			return nil, &ShapeLoadError{
				ShapeID: id,
				Sources: unionSorted([]string{firstSource}, []string{d.source}),
				Detail:  "conflicting declarations: " + detail,
			}
		}
		first.sources = unionSorted(first.sources, []string{d.source})
	}
	return first, nil
}

func normalizeShape(sd ShapeDecl) (*normalized, error) {
	props := make([]PropertyConstraint, 0, len(sd.Properties))
	seen := make(map[string]bool, len(sd.Properties))
	for _, pd := range sd.Properties {
		c, err := normalizeProperty(pd)
		if err != nil {
			return nil, err
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("property %q declared twice", c.Name)
		}
		seen[c.Name] = true
		props = append(props, c)
	}
	slices.SortFunc(props, func(a, b PropertyConstraint) int {
		return strings.Compare(a.Name, b.Name)
	})
	return &normalized{targetClass: sd.TargetClass, properties: props}, nil
}

func normalizeProperty(pd PropertyDecl) (PropertyConstraint, error) {
	if pd.Path == "" {
		return PropertyConstraint{}, fmt.Errorf("property without path")
	}
	c := PropertyConstraint{
		Name:             pd.Path,
		Kind:             KindLeaf,
		MaxCount:         Unbounded,
		Datatype:         pd.Datatype,
		EnumeratedValues: slices.Clone(pd.In),
	}
	if pd.MinCount != nil {
		if *pd.MinCount < 0 {
			return c, fmt.Errorf("property %q: negative minCount", pd.Path)
		}
		c.MinCount = *pd.MinCount
	}
	if pd.MaxCount != nil {
		if *pd.MaxCount < 0 {
			return c, fmt.Errorf("property %q: negative maxCount", pd.Path)
		}
		c.MaxCount = *pd.MaxCount
	}
	if c.MaxCount != Unbounded && c.MinCount > c.MaxCount {
		return c, fmt.Errorf("property %q: minCount %d exceeds maxCount %d", pd.Path, c.MinCount, c.MaxCount)
	}
	if pd.Datatype != "" && len(pd.In) > 0 {
		return c, fmt.Errorf("property %q: datatype and in are mutually exclusive", pd.Path)
	}

	var nodes, classes []string
	if pd.Node != "" {
		nodes = append(nodes, string(pd.Node))
	}
	if pd.Class != "" {
		classes = append(classes, pd.Class)
	}
	for _, alt := range pd.Or {
		switch {
		case alt.Node != "" && alt.Class != "":
			return c, fmt.Errorf("property %q: alternative names both node and class", pd.Path)
		case alt.Node != "":
			nodes = append(nodes, string(alt.Node))
		case alt.Class != "":
			classes = append(classes, alt.Class)
		default:
			return c, fmt.Errorf("property %q: empty alternative", pd.Path)
		}
	}

	isLeaf := pd.Datatype != "" || len(pd.In) > 0
	switch {
	case len(nodes) > 0 && len(classes) > 0:
		return c, fmt.Errorf("property %q: mixes node and class alternatives", pd.Path)
	case len(nodes) > 0:
		nodes = sortedUnique(nodes)
		if len(nodes) != 1 {
			return c, fmt.Errorf("property %q: composition must name exactly one shape, got %d", pd.Path, len(nodes))
		}
		if isLeaf {
			return c, fmt.Errorf("property %q: composition cannot declare datatype or in", pd.Path)
		}
		c.Kind = KindComposition
		c.CandidateTypes = nodes
	case len(classes) > 0:
		if isLeaf {
			return c, fmt.Errorf("property %q: reference cannot declare datatype or in", pd.Path)
		}
		c.Kind = KindReference
		c.CandidateTypes = sortedUnique(classes)
	}
	return c, nil
}

// conflict describes the first difference between two normalized shapes,
// or returns "" when they are equivalent.
func (n *normalized) conflict(o *normalized) string {
	if n.targetClass != o.targetClass {
		return fmt.Sprintf("target class %q vs %q", n.targetClass, o.targetClass)
	}
	if len(n.properties) != len(o.properties) {
		return fmt.Sprintf("%d vs %d properties", len(n.properties), len(o.properties))
	}
	for i := range n.properties {
		a, b := n.properties[i], o.properties[i]
		if a.Name != b.Name {
			return fmt.Sprintf("property %q vs %q", a.Name, b.Name)
		}
		if !a.equal(b) {
			return fmt.Sprintf("property %q differs", a.Name)
		}
	}
	return ""
}

// IsBareClass reports whether id stands for a class that no shape declares.
func (r *Registry) IsBareClass(id ShapeID) bool {
	_, ok := r.bareClasses[id]
	return ok
}

// Types returns every resolvable type name in ascending order.
func (r *Registry) Types() []string {
	return slices.Clone(r.types)
}

// HasType reports whether typeName resolves to a shape.
func (r *Registry) HasType(typeName string) bool {
	_, ok := r.typeToShape[typeName]
	return ok
}

// ShapeFor resolves a type name to its shape.
func (r *Registry) ShapeFor(typeName string) (ShapeID, error) {
	id, ok := r.typeToShape[typeName]
	if !ok {
		return "", &UnknownTypeError{TypeName: typeName}
	}
	return id, nil
}

// ShapeForClass returns the shape of a referenced class, if one is registered.
func (r *Registry) ShapeForClass(class string) (ShapeID, bool) {
	id, ok := r.classToShape[class]
	return id, ok
}

// TypeOf returns the type name a shape resolves from.
func (r *Registry) TypeOf(id ShapeID) (string, bool) {
	t, ok := r.shapeToType[id]
	return t, ok
}

// PropertiesOf returns the constraints of a shape, sorted by name.
func (r *Registry) PropertiesOf(id ShapeID) ([]PropertyConstraint, error) {
	props, ok := r.shapeToProperties[id]
	if !ok {
		return nil, &UnknownShapeError{ShapeID: id}
	}
	out := make([]PropertyConstraint, len(props))
	for i, p := range props {
		out[i] = p.clone()
	}
	return out, nil
}

// Sources returns the names of the loaded sources in ascending order.
func (r *Registry) Sources() []string {
	return slices.Clone(r.sources)
}

// Generation uniquely identifies this registry build.
func (r *Registry) Generation() string {
	return r.generation
}

func sortedUnique(s []string) []string {
	out := slices.Clone(s)
	slices.Sort(out)
	return slices.Compact(out)
}

func unionSorted(a, b []string) []string {
	return sortedUnique(append(slices.Clone(a), b...))
}
