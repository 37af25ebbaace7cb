// Package shapetest provides shape fixtures shared by tests.
package shapetest

import (
	"testing"

	"github.com/c360studio/semshape/shape"
)

// Int returns a pointer to n, for cardinality fields.
func Int(n int) *int {
	return &n
}

// PersonSource declares Person and the composed Address shape.
func PersonSource() *shape.StaticSource {
	return shape.NewStaticSource("person.yaml", shape.Document{
		Shapes: []shape.ShapeDecl{
			{
				ID:          "PersonShape",
				TargetClass: "Person",
				Properties: []shape.PropertyDecl{
					{Path: "name", Datatype: "xsd:string", MinCount: Int(1), MaxCount: Int(1)},
					{Path: "givenName", Datatype: "xsd:string", MaxCount: Int(1)},
					{Path: "gender", In: []any{"female", "male"}, MaxCount: Int(1)},
					{Path: "birthDate", Datatype: "xsd:date", MaxCount: Int(1)},
					{Path: "deathDate", Datatype: "xsd:date", MaxCount: Int(1)},
					{Path: "address", Node: "AddressShape", MaxCount: Int(1)},
				},
			},
			{
				ID:          "AddressShape",
				TargetClass: "Address",
				Properties: []shape.PropertyDecl{
					{Path: "streetAddress", Datatype: "xsd:string", MaxCount: Int(1)},
					{Path: "postalCode", Datatype: "xsd:string", MaxCount: Int(1)},
				},
			},
		},
	})
}

// EmployeeSource declares Employee and Organization. Employee composes the
// Address shape declared by PersonSource.
func EmployeeSource() *shape.StaticSource {
	return shape.NewStaticSource("employee.yaml", shape.Document{
		Shapes: []shape.ShapeDecl{
			{
				ID:          "EmployeeShape",
				TargetClass: "Employee",
				Properties: []shape.PropertyDecl{
					{Path: "name", Datatype: "xsd:string", MinCount: Int(1), MaxCount: Int(1)},
					{Path: "address", Node: "AddressShape", MaxCount: Int(1)},
					{Path: "contractor", Class: "Organization", MaxCount: Int(1)},
					{Path: "department", Class: "Organization", MaxCount: Int(1)},
					{Path: "supervisor", Class: "Employee", MaxCount: Int(1)},
					{Path: "founder", Or: []shape.Alternative{{Class: "Person"}, {Class: "Organization"}}},
				},
			},
			{
				ID:          "OrganizationShape",
				TargetClass: "Organization",
				Properties: []shape.PropertyDecl{
					{Path: "name", Datatype: "xsd:string", MinCount: Int(1), MaxCount: Int(1)},
					{Path: "foundingDate", Datatype: "xsd:date", MaxCount: Int(1)},
				},
			},
		},
	})
}

// ActivitySource declares Activity, where only generated and status are mandatory.
func ActivitySource() *shape.StaticSource {
	return shape.NewStaticSource("activity.yaml", shape.Document{
		Shapes: []shape.ShapeDecl{
			{
				ID:          "ActivityShape",
				TargetClass: "Activity",
				Properties: []shape.PropertyDecl{
					{Path: "status", In: []any{"pending", "running", "completed"}, MinCount: Int(1), MaxCount: Int(1)},
					{Path: "generated", Class: "Dataset", MinCount: Int(1)},
					{Path: "used", Class: "Dataset"},
					{Path: "wasAssociatedWith", Or: []shape.Alternative{{Class: "Person"}, {Class: "Agent"}}},
					{Path: "startedAtTime", Datatype: "xsd:dateTime", MaxCount: Int(1)},
					{Path: "endedAtTime", Datatype: "xsd:dateTime", MaxCount: Int(1)},
					{Path: "retries", Datatype: "xsd:integer", MaxCount: Int(1)},
					{Path: "progress", Datatype: "xsd:decimal", MaxCount: Int(1)},
					{Path: "archived", Datatype: "xsd:boolean", MaxCount: Int(1)},
				},
			},
		},
		Classes: []string{"Agent"},
	})
}

// Sources returns every fixture source.
func Sources() []shape.Source {
	return []shape.Source{PersonSource(), EmployeeSource(), ActivitySource()}
}

// Registry loads every fixture source, failing the test on error.
func Registry(tb testing.TB) *shape.Registry {
	tb.Helper()
	reg, err := shape.Load(Sources()...)
	if err != nil {
		tb.Fatalf("load fixture shapes: %v", err)
	}
	return reg
}
