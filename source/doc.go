// Package source loads shape declarations from YAML and JSON documents on
// disk and watches them for changes.
//
// A shape document has two top-level keys:
//
//	shapes:
//	  - id: PersonShape
//	    targetClass: Person
//	    properties:
//	      - path: name
//	        datatype: xsd:string
//	        minCount: 1
//	        maxCount: 1
//	      - path: address
//	        node: AddressShape
//	classes: [Agent]
//
// JSON documents use the same keys. Each file becomes one shape.Source named
// by its path, so load errors point at the offending file.
package source
