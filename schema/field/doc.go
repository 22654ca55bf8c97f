// Package field provides fluent builders for primitive properties.
//
//	field.Int("Id").Identity()
//	field.String("Name").Required().MaxLength(100)
//	field.Decimal("Price").Precision(18, 2)
//	field.Of("Tags", "[]string").Column("tags_json")
//
// Every facet that is not configured stays unset and inherits the framework
// default. Call Property to obtain the built *schema.PrimitiveProperty; the
// builder keeps no reference to it.
package field
