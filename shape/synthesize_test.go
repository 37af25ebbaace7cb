package shape_test

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semshape/shape"
	"github.com/c360studio/semshape/shape/shapetest"
)

func synthesizeJSON(t *testing.T, s *shape.Synthesizer, typeName string, mandatoryOnly bool) string {
	t.Helper()
	tmpl, err := s.Synthesize(typeName, mandatoryOnly)
	require.NoError(t, err)
	data, err := json.Marshal(tmpl)
	require.NoError(t, err)
	return string(data)
}

func TestSynthesize_Person(t *testing.T) {
	s := shape.NewSynthesizer(shapetest.Registry(t))

	got := synthesizeJSON(t, s, "Person", false)
	want := `{"id":"","type":"Person",` +
		`"address":{"id":"","type":"Address","postalCode":"","streetAddress":""},` +
		`"birthDate":"9999-12-31","deathDate":"9999-12-31",` +
		`"gender":["female","male"],"givenName":"","name":""}`
	assert.Equal(t, want, got)
}

func TestSynthesize_EmployeeReferences(t *testing.T) {
	s := shape.NewSynthesizer(shapetest.Registry(t))

	tmpl, err := s.Synthesize("Employee", false)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"id", "type", "address", "contractor", "department", "founder", "name", "supervisor"},
		tmpl.Keys())

	for key, want := range map[string]string{
		"contractor": "Organization",
		"department": "Organization",
		"supervisor": "Employee",
	} {
		v, ok := tmpl.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, want, v, key)
	}

	founder, ok := tmpl.Get("founder")
	require.True(t, ok)
	data, err := json.Marshal(founder)
	require.NoError(t, err)
	assert.Equal(t, `[{"type":"Organization"},{"type":"Person"}]`, string(data))
}

func TestSynthesize_ActivityMandatoryOnly(t *testing.T) {
	s := shape.NewSynthesizer(shapetest.Registry(t))

	tmpl, err := s.Synthesize("Activity", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "type", "generated", "status"}, tmpl.Keys())

	all, err := s.Synthesize("Activity", false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"id", "type", "archived", "endedAtTime", "generated", "progress",
		"retries", "startedAtTime", "status", "used", "wasAssociatedWith",
	}, all.Keys())

	v, _ := all.Get("startedAtTime")
	assert.Equal(t, shape.SentinelDateTime, v)
	v, _ = all.Get("retries")
	assert.Equal(t, 0, v)
	v, _ = all.Get("progress")
	assert.Equal(t, 0.0, v)
	v, _ = all.Get("archived")
	assert.Equal(t, false, v)
}

func TestSynthesize_Unknown(t *testing.T) {
	s := shape.NewSynthesizer(shapetest.Registry(t))

	for _, mandatoryOnly := range []bool{false, true} {
		tmpl, err := s.Synthesize("Invalid", mandatoryOnly)
		assert.Nil(t, tmpl)
		var unknown *shape.UnknownTypeError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "Invalid", unknown.TypeName)
	}
}

func TestSynthesize_BareClass(t *testing.T) {
	s := shape.NewSynthesizer(shapetest.Registry(t))
	assert.Equal(t, `{"id":"","type":"Dataset"}`, synthesizeJSON(t, s, "Dataset", false))
}

func TestSynthesize_Deterministic(t *testing.T) {
	reg := shapetest.Registry(t)
	s := shape.NewSynthesizer(reg)

	sources := shapetest.Sources()
	slices.Reverse(sources)
	other, err := shape.Load(sources...)
	require.NoError(t, err)
	s2 := shape.NewSynthesizer(other)

	for _, typeName := range reg.Types() {
		for _, mandatoryOnly := range []bool{false, true} {
			first := synthesizeJSON(t, s, typeName, mandatoryOnly)
			assert.Equal(t, first, synthesizeJSON(t, s, typeName, mandatoryOnly), typeName)
			assert.Equal(t, first, synthesizeJSON(t, s2, typeName, mandatoryOnly), typeName)
		}
	}
}

func assertOrdered(t *testing.T, tmpl *shape.Template) {
	t.Helper()
	keys := tmpl.Keys()
	assert.Equal(t, shape.OrderKeys(keys), keys)
	if len(keys) >= 2 && keys[0] == "id" {
		assert.Equal(t, "type", keys[1])
	}
	for _, k := range keys {
		v, _ := tmpl.Get(k)
		switch x := v.(type) {
		case *shape.Template:
			assertOrdered(t, x)
		case []any:
			for _, e := range x {
				if nested, ok := e.(*shape.Template); ok {
					assertOrdered(t, nested)
				}
			}
		}
	}
}

func TestSynthesize_KeyOrderAtEveryLevel(t *testing.T) {
	reg := shapetest.Registry(t)
	s := shape.NewSynthesizer(reg)

	for _, typeName := range reg.Types() {
		tmpl, err := s.Synthesize(typeName, false)
		require.NoError(t, err)
		assertOrdered(t, tmpl)
	}
}

func TestSynthesize_MandatorySubset(t *testing.T) {
	reg := shapetest.Registry(t)
	s := shape.NewSynthesizer(reg)

	for _, typeName := range reg.Types() {
		all, err := s.Synthesize(typeName, false)
		require.NoError(t, err)
		mandatory, err := s.Synthesize(typeName, true)
		require.NoError(t, err)
		assert.Subset(t, all.Keys(), mandatory.Keys(), typeName)
	}
}

func TestSynthesize_MultiValuedComposition(t *testing.T) {
	reg, err := shape.Load(shape.NewStaticSource("org.yaml", shape.Document{
		Shapes: []shape.ShapeDecl{
			{
				ID:          "OrgShape",
				TargetClass: "Organization",
				Properties: []shape.PropertyDecl{
					{Path: "location", Node: "PlaceShape", MinCount: shapetest.Int(1)},
					{Path: "name", Datatype: "xsd:string"},
				},
			},
			{
				ID:          "PlaceShape",
				TargetClass: "Place",
				Properties: []shape.PropertyDecl{
					{Path: "label", Datatype: "xsd:string", MinCount: shapetest.Int(1)},
					{Path: "latitude", Datatype: "xsd:double"},
				},
			},
		},
	}))
	require.NoError(t, err)
	s := shape.NewSynthesizer(reg)

	assert.Equal(t,
		`{"id":"","type":"Organization","location":[{"id":"","type":"Place","label":"","latitude":0}],"name":""}`,
		synthesizeJSON(t, s, "Organization", false))
	assert.Equal(t,
		`{"id":"","type":"Organization","location":[{"id":"","type":"Place","label":""}]}`,
		synthesizeJSON(t, s, "Organization", true))
}

func TestSynthesize_ReservedKeysNotOverridden(t *testing.T) {
	reg, err := shape.Load(shape.NewStaticSource("thing.yaml", shape.Document{
		Shapes: []shape.ShapeDecl{{
			ID:          "ThingShape",
			TargetClass: "Thing",
			Properties: []shape.PropertyDecl{
				{Path: "type", Datatype: "xsd:string", MinCount: shapetest.Int(1)},
				{Path: "id", Datatype: "xsd:integer"},
			},
		}},
	}))
	require.NoError(t, err)

	assert.Equal(t, `{"id":"","type":"Thing"}`, synthesizeJSON(t, shape.NewSynthesizer(reg), "Thing", false))
}

func TestSynthesize_CompositionCycle(t *testing.T) {
	reg, err := shape.Load(shape.NewStaticSource("cycle.yaml", shape.Document{
		Shapes: []shape.ShapeDecl{
			{ID: "AShape", TargetClass: "A", Properties: []shape.PropertyDecl{{Path: "b", Node: "BShape", MaxCount: shapetest.Int(1)}}},
			{ID: "BShape", TargetClass: "B", Properties: []shape.PropertyDecl{{Path: "a", Node: "AShape", MaxCount: shapetest.Int(1)}}},
			{ID: "SelfShape", TargetClass: "Self", Properties: []shape.PropertyDecl{{Path: "self", Node: "SelfShape"}}},
		},
	}))
	require.NoError(t, err, "cycles are detected at synthesis, not load")
	s := shape.NewSynthesizer(reg)

	_, err = s.Synthesize("A", false)
	var cycle *shape.CompositionCycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, shape.ShapeID("AShape"), cycle.ShapeID)
	assert.Equal(t, []shape.ShapeID{"AShape", "BShape", "AShape"}, cycle.Path)

	// Optional cycle members disappear in mandatory-only mode.
	tmpl, err := s.Synthesize("A", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "type"}, tmpl.Keys())

	_, err = s.Synthesize("Self", false)
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []shape.ShapeID{"SelfShape", "SelfShape"}, cycle.Path)
}

func TestSynthesize_SiblingCompositionsAreNotCycles(t *testing.T) {
	reg, err := shape.Load(shape.NewStaticSource("siblings.yaml", shape.Document{
		Shapes: []shape.ShapeDecl{
			{ID: "EventShape", TargetClass: "Event", Properties: []shape.PropertyDecl{
				{Path: "start", Node: "InstantShape", MaxCount: shapetest.Int(1)},
				{Path: "end", Node: "InstantShape", MaxCount: shapetest.Int(1)},
			}},
			{ID: "InstantShape", TargetClass: "Instant", Properties: []shape.PropertyDecl{
				{Path: "at", Datatype: "xsd:dateTime", MaxCount: shapetest.Int(1)},
			}},
		},
	}))
	require.NoError(t, err)

	got := synthesizeJSON(t, shape.NewSynthesizer(reg), "Event", false)
	assert.Equal(t,
		`{"id":"","type":"Event","end":{"id":"","type":"Instant","at":"9999-12-31T00:00:00"},"start":{"id":"","type":"Instant","at":"9999-12-31T00:00:00"}}`,
		got)
}

func TestSynthesizeAll(t *testing.T) {
	reg := shapetest.Registry(t)

	all, err := shape.NewSynthesizer(reg).SynthesizeAll(false)
	require.NoError(t, err)
	assert.Len(t, all, len(reg.Types()))
	for typeName, tmpl := range all {
		v, _ := tmpl.Get("type")
		assert.Equal(t, typeName, v)
	}
}
