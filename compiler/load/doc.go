// Package load reads the inputs of a generation pass: class models and
// transformation scripts written in YAML, and the binary model snapshots a
// previous pass left behind.
//
// A script declares the starting model and the ordered migrations to
// compile against it:
//
//	model:
//	  - name: Customer
//	    keys: [Id]
//	    properties:
//	      - {name: Id, type: int}
//	      - {name: Street, type: string}
//	migrations:
//	  - id: "202610171200"
//	    name: AddAddress
//	    up:
//	      - {op: extract_complex_type, class: Customer, complex_type: Address, members: [Street]}
//
// A class may list built-in mixins (see package schema/mixin) whose
// properties and keys it gets ahead of its own, e.g. mixins: [id, time].
//
// Snapshots hold the model as msgpack so that the next pass can start from
// the model the previous one produced without re-running its migrations.
package load
