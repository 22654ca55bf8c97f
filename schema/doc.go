// Package schema describes a fragment of an object model: classes, their
// properties and the optional column facets of primitive properties.
//
// The subpackages provide builders for the values defined here:
//
//   - [field]: primitive property builders
//   - [edge]: navigation and foreign-key property builders, associations
//   - [index]: foreign-key index attributes
//
// # Quick Start
//
//	order := &schema.ClassModel{
//	    Name:        "Order",
//	    PrimaryKeys: []string{"Id"},
//	    Properties: []schema.Property{
//	        field.Int("Id").Identity().Property(),
//	        field.String("Street").MaxLength(100).Property(),
//	        edge.Many("OrderLine"),
//	    },
//	}
//
// # Optional Facets
//
// Every facet of [ColumnInfo] and every mutability flag of a property is a
// pointer. A nil facet is unset and inherits the framework default; it never
// means false or zero.
//
// # Ownership
//
// Values are built once per generation pass. A transformation that needs a
// snapshot independent of later mutation takes a Copy; properties are never
// shared between two class models.
package schema
