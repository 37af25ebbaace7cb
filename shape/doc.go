// Package shape compiles node shape declarations into example templates.
//
// A Registry indexes shape declarations loaded from one or more Sources.
// Each shape describes the properties a logical entity type may carry:
// datatypes, enumerations, cardinalities, and whether a value is composed
// inline (Composition) or points at an independently identified entity
// (Reference).
//
// # Synthesis
//
// A Synthesizer walks the registry and produces an ordered Template for a
// type:
//
//	reg, err := shape.Load(sources...)
//	if err != nil {
//	    return err
//	}
//	tmpl, err := shape.NewSynthesizer(reg).Synthesize("Person", false)
//
// Every template starts with the keys "id" and "type"; remaining keys follow
// in code-point order at every nesting level. Composition properties are
// expanded in place, Reference properties are reduced to their type names.
//
// # Concurrency
//
// A Registry is immutable once Load returns and may be shared by any number
// of goroutines. Reloading is done by building a new Registry and publishing
// it through a Holder.
package shape
