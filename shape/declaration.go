package shape

// Source is a collection of shape declarations, such as a document on disk.
type Source interface {
	// Name identifies the source in error messages.
	Name() string

	// Declarations returns the declarations held by the source.
	Declarations() (*Document, error)
}

// Document is the declaration content of a single source.
type Document struct {
	// Shapes are node shape declarations.
	Shapes []ShapeDecl `yaml:"shapes" json:"shapes"`

	// Classes are class names usable as types without a dedicated shape.
	Classes []string `yaml:"classes,omitempty" json:"classes,omitempty"`
}

// ShapeDecl declares a node shape.
type ShapeDecl struct {
	ID          ShapeID        `yaml:"id" json:"id"`
	TargetClass string         `yaml:"targetClass,omitempty" json:"targetClass,omitempty"`
	Properties  []PropertyDecl `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// PropertyDecl declares one property of a node shape.
//
// Node makes the property a composition of another shape; Class (or Or with
// class alternatives) makes it a reference. Datatype and In constrain leaves.
type PropertyDecl struct {
	Path     string        `yaml:"path" json:"path"`
	Datatype string        `yaml:"datatype,omitempty" json:"datatype,omitempty"`
	In       []any         `yaml:"in,omitempty" json:"in,omitempty"`
	Node     ShapeID       `yaml:"node,omitempty" json:"node,omitempty"`
	Class    string        `yaml:"class,omitempty" json:"class,omitempty"`
	Or       []Alternative `yaml:"or,omitempty" json:"or,omitempty"`
	MinCount *int          `yaml:"minCount,omitempty" json:"minCount,omitempty"`
	MaxCount *int          `yaml:"maxCount,omitempty" json:"maxCount,omitempty"`
}

// Alternative is one branch of an alternative-typed property.
type Alternative struct {
	Class string  `yaml:"class,omitempty" json:"class,omitempty"`
	Node  ShapeID `yaml:"node,omitempty" json:"node,omitempty"`
}

// StaticSource is an in-memory Source.
type StaticSource struct {
	SourceName string
	Document   Document
}

// NewStaticSource returns a Source serving doc under name.
func NewStaticSource(name string, doc Document) *StaticSource {
	return &StaticSource{SourceName: name, Document: doc}
}

// Name implements Source.
func (s *StaticSource) Name() string {
	return s.SourceName
}

// Declarations implements Source.
func (s *StaticSource) Declarations() (*Document, error) {
	doc := s.Document
	return &doc, nil
}
