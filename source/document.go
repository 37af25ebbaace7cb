package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semshape/shape"
)

// FileSource is a shape.Source backed by one document on disk. The file is
// read on every call to Declarations so a reload observes edits.
type FileSource struct {
	path string
	name string
}

// File returns a source for the document at path, named by path.
func File(path string) *FileSource {
	return &FileSource{path: path, name: path}
}

// Name returns the name used in load errors.
func (f *FileSource) Name() string {
	return f.name
}

// Path returns the file path.
func (f *FileSource) Path() string {
	return f.path
}

// Declarations reads and decodes the document.
func (f *FileSource) Declarations() (*shape.Document, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read shape document: %w", err)
	}
	return Decode(data)
}

// Decode parses a YAML or JSON shape document. Unknown keys are rejected so
// misspelled constraints fail loudly instead of being ignored. An empty
// document decodes to an empty Document.
func Decode(data []byte) (*shape.Document, error) {
	var doc shape.Document

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("decode shape document: %w", err)
	}
	return &doc, nil
}
