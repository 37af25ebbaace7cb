package shape

import "testing"

func TestResolveValue(t *testing.T) {
	tests := []struct {
		name       string
		constraint PropertyConstraint
		want       any
	}{
		{"prefixed string", PropertyConstraint{Datatype: "xsd:string"}, ""},
		{"full IRI string", PropertyConstraint{Datatype: "http://www.w3.org/2001/XMLSchema#string"}, ""},
		{"bare boolean", PropertyConstraint{Datatype: "boolean"}, false},
		{"integer", PropertyConstraint{Datatype: "xsd:integer"}, 0},
		{"long", PropertyConstraint{Datatype: "xsd:long"}, 0},
		{"decimal", PropertyConstraint{Datatype: "xsd:decimal"}, 0.0},
		{"double", PropertyConstraint{Datatype: "xsd:double"}, 0.0},
		{"float", PropertyConstraint{Datatype: "xsd:float"}, 0.0},
		{"date", PropertyConstraint{Datatype: "xsd:date"}, "9999-12-31"},
		{"dateTime", PropertyConstraint{Datatype: "xsd:dateTime"}, "9999-12-31T00:00:00"},
		{"langString", PropertyConstraint{Datatype: "rdf:langString"}, ""},
		{"unknown xsd type", PropertyConstraint{Datatype: "xsd:gYearMonth"}, ""},
		{"foreign namespace", PropertyConstraint{Datatype: "schema:Integer"}, ""},
		{"no datatype", PropertyConstraint{}, ""},
		{"single enumeration", PropertyConstraint{EnumeratedValues: []any{"only"}}, "only"},
		{"numeric enumeration", PropertyConstraint{EnumeratedValues: []any{3}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveValue(tt.constraint)
			if got != tt.want {
				t.Errorf("ResolveValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestResolveValue_EnumerationSequence(t *testing.T) {
	c := PropertyConstraint{EnumeratedValues: []any{"female", "male"}}

	got, ok := ResolveValue(c).([]any)
	if !ok {
		t.Fatalf("expected []any, got %T", ResolveValue(c))
	}
	if len(got) != 2 || got[0] != "female" || got[1] != "male" {
		t.Errorf("got %v, want [female male]", got)
	}

	got[0] = "changed"
	if c.EnumeratedValues[0] != "female" {
		t.Error("ResolveValue must not share the constraint's backing array")
	}
}

func TestResolveValue_EnumerationWinsOverDatatype(t *testing.T) {
	// Load rejects this combination; the resolver still prefers the enumeration.
	c := PropertyConstraint{Datatype: "xsd:integer", EnumeratedValues: []any{"a"}}
	if got := ResolveValue(c); got != "a" {
		t.Errorf("ResolveValue() = %#v, want \"a\"", got)
	}
}
