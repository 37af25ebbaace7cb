package shape

import (
	"testing"

	"github.com/c360studio/semstreams/vocabulary"
	"github.com/c360studio/semstreams/vocabulary/bfo"
	"github.com/c360studio/semstreams/vocabulary/cco"
)

func TestPredicatesRegistered(t *testing.T) {
	predicates := []string{
		NodeTargetClass,
		NodePropertyCount,
		NodeBareClass,
		NodeGeneration,
		PropertyPath,
		PropertyKind,
		PropertyDatatype,
		PropertyMinCount,
		PropertyMaxCount,
		PropertyIn,
		PropertyCandidate,
		HasProperty,
		Composes,
		References,
	}

	for _, pred := range predicates {
		t.Run(pred, func(t *testing.T) {
			meta := vocabulary.GetPredicateMetadata(pred)
			if meta == nil {
				t.Fatalf("predicate %s not registered", pred)
			}
			if meta.Description == "" {
				t.Errorf("predicate %s missing description", pred)
			}
		})
	}
}

func TestSHACLMappings(t *testing.T) {
	tests := []struct {
		predicate   string
		expectedIRI string
	}{
		{NodeTargetClass, "http://www.w3.org/ns/shacl#targetClass"},
		{PropertyPath, "http://www.w3.org/ns/shacl#path"},
		{PropertyDatatype, "http://www.w3.org/ns/shacl#datatype"},
		{PropertyMinCount, "http://www.w3.org/ns/shacl#minCount"},
		{PropertyMaxCount, "http://www.w3.org/ns/shacl#maxCount"},
		{PropertyIn, "http://www.w3.org/ns/shacl#in"},
		{HasProperty, "http://www.w3.org/ns/shacl#property"},
		{Composes, "http://www.w3.org/ns/shacl#node"},
	}

	for _, tt := range tests {
		t.Run(tt.predicate, func(t *testing.T) {
			meta := vocabulary.GetPredicateMetadata(tt.predicate)
			if meta == nil {
				t.Fatalf("predicate %s not registered", tt.predicate)
			}
			if meta.StandardIRI != tt.expectedIRI {
				t.Errorf("predicate %s: expected IRI %s, got %s", tt.predicate, tt.expectedIRI, meta.StandardIRI)
			}
			if got := GetPredicateIRI(tt.predicate); got != tt.expectedIRI {
				t.Errorf("GetPredicateIRI(%s) = %s", tt.predicate, got)
			}
		})
	}
}

func TestGetPredicateIRI_Unregistered(t *testing.T) {
	if got := GetPredicateIRI("shape.unknown.thing"); got != Namespace+"shape.unknown.thing" {
		t.Errorf("unexpected fallback IRI %s", got)
	}
}

func TestClassMapsCoverEntityTypes(t *testing.T) {
	maps := map[string]map[EntityType]string{
		"shape": ClassMap,
		"shacl": SHACLClassMap,
		"prov":  PROVClassMap,
		"bfo":   BFOClassMap,
		"cco":   CCOClassMap,
	}
	for name, m := range maps {
		for _, et := range []EntityType{EntityTypeNodeShape, EntityTypePropertyShape} {
			if m[et] == "" {
				t.Errorf("%s map has no class for %s", name, et)
			}
		}
	}

	if BFOClassMap[EntityTypeNodeShape] != bfo.GenericallyDependentContinuant {
		t.Errorf("node shape BFO class = %s", BFOClassMap[EntityTypeNodeShape])
	}
	if CCOClassMap[EntityTypePropertyShape] != cco.DirectiveInformationContentEntity {
		t.Errorf("property shape CCO class = %s", CCOClassMap[EntityTypePropertyShape])
	}
}
