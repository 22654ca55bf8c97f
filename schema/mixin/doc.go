// Package mixin provides reusable property sets for classes.
//
// A mixin contributes properties, and optionally primary key members, to
// every class it is applied to:
//
//	cls := &schema.ClassModel{
//	    Name:       "Customer",
//	    Properties: field.Properties(field.String("Name").Required()),
//	}
//	err := mixin.Apply(cls, mixin.ID{}, mixin.Time{})
//	// cls: Id (key, identity), CreatedAt, UpdatedAt, Name
//
// The built-in mixins are also available by name through Lookup, which is
// how class documents refer to them:
//
//	- name: Customer
//	  mixins: [id, time]
//
// To create a custom mixin, embed Schema and override the methods you need.
package mixin
