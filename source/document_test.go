package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semshape/shape"
)

const personYAML = `shapes:
  - id: PersonShape
    targetClass: Person
    properties:
      - path: name
        datatype: xsd:string
        minCount: 1
        maxCount: 1
      - path: gender
        in: [female, male]
      - path: address
        node: AddressShape
        maxCount: 1
  - id: AddressShape
    targetClass: Address
    properties:
      - path: streetAddress
        datatype: xsd:string
`

const employeeJSON = `{
  "shapes": [
    {
      "id": "EmployeeShape",
      "targetClass": "Employee",
      "properties": [
        {"path": "supervisor", "class": "Employee", "maxCount": 1},
        {"path": "founder", "or": [{"class": "Person"}, {"class": "Organization"}]}
      ]
    }
  ],
  "classes": ["Organization"]
}`

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDecode_YAML(t *testing.T) {
	doc, err := Decode([]byte(personYAML))
	require.NoError(t, err)
	require.Len(t, doc.Shapes, 2)

	person := doc.Shapes[0]
	assert.Equal(t, shape.ShapeID("PersonShape"), person.ID)
	assert.Equal(t, "Person", person.TargetClass)
	require.Len(t, person.Properties, 3)

	name := person.Properties[0]
	require.NotNil(t, name.MinCount)
	assert.Equal(t, 1, *name.MinCount)
	assert.Equal(t, []any{"female", "male"}, person.Properties[1].In)
	assert.Equal(t, shape.ShapeID("AddressShape"), person.Properties[2].Node)
}

func TestDecode_JSON(t *testing.T) {
	doc, err := Decode([]byte(employeeJSON))
	require.NoError(t, err)
	require.Len(t, doc.Shapes, 1)
	assert.Equal(t, []string{"Organization"}, doc.Classes)

	founder := doc.Shapes[0].Properties[1]
	assert.Equal(t, []shape.Alternative{{Class: "Person"}, {Class: "Organization"}}, founder.Or)
}

func TestDecode_Empty(t *testing.T) {
	doc, err := Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Shapes)
}

func TestDecode_RejectsUnknownKeys(t *testing.T) {
	_, err := Decode([]byte("shapes:\n  - id: A\n    properties:\n      - path: x\n        mincount: 1\n"))
	assert.Error(t, err)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte("shapes: [unclosed"))
	assert.Error(t, err)
}

func TestFile_LoadsRegistry(t *testing.T) {
	dir := t.TempDir()
	personPath := writeFile(t, dir, "person.yaml", personYAML)
	employeePath := writeFile(t, dir, "employee.json", employeeJSON)

	reg, err := shape.Load(File(personPath), File(employeePath))
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"Address", "Employee", "Organization", "Person"},
		reg.Types())
}

func TestFile_MissingFile(t *testing.T) {
	src := File(filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := shape.Load(src)
	require.Error(t, err)

	var loadErr *shape.ShapeLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, []string{src.Name()}, loadErr.Sources)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFile_ReadsCurrentContent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.yaml", "shapes:\n  - id: A\n")
	src := File(path)

	doc, err := src.Declarations()
	require.NoError(t, err)
	assert.Equal(t, shape.ShapeID("A"), doc.Shapes[0].ID)

	writeFile(t, dir, "a.yaml", "shapes:\n  - id: B\n")
	doc, err = src.Declarations()
	require.NoError(t, err)
	assert.Equal(t, shape.ShapeID("B"), doc.Shapes[0].ID)
}
