package mixin

import (
	"fmt"
	"maps"
	"slices"

	"github.com/syssam/evolve/schema"
	"github.com/syssam/evolve/schema/field"
)

// Mixin is a reusable set of properties and key members shared by several
// classes.
type Mixin interface {
	// Properties returns new copies of the properties on every call.
	Properties() []schema.Property
	// Keys returns the names of the properties that join the primary key.
	Keys() []string
}

// Schema is the default implementation of Mixin. It should be embedded in
// all custom mixin definitions.
//
//	type Audit struct {
//	    mixin.Schema
//	}
//
//	func (Audit) Properties() []schema.Property {
//	    return field.Properties(field.String("CreatedBy").Optional())
//	}
type Schema struct{}

// Properties returns the properties of the mixin.
func (Schema) Properties() []schema.Property { return nil }

// Keys returns the key members of the mixin.
func (Schema) Keys() []string { return nil }

var _ Mixin = (*Schema)(nil)

// Apply adds the properties and keys of ms to cls, in order and ahead of the
// properties cls already declares. It fails when a property exists twice.
func Apply(cls *schema.ClassModel, ms ...Mixin) error {
	var (
		props []schema.Property
		keys  []string
	)
	for _, m := range ms {
		props = append(props, m.Properties()...)
		for _, k := range m.Keys() {
			if !slices.Contains(keys, k) {
				keys = append(keys, k)
			}
		}
	}
	merged := &schema.ClassModel{Name: cls.Name}
	for _, p := range slices.Concat(props, cls.Properties) {
		if err := merged.AddProperty(p); err != nil {
			return fmt.Errorf("mixin: %w", err)
		}
	}
	for _, k := range cls.PrimaryKeys {
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	cls.Properties = merged.Properties
	cls.PrimaryKeys = keys
	return nil
}

// ID adds an identity key property named "Id".
type ID struct {
	Schema
	// Type is the declared key type. Defaults to int.
	Type string
}

// Properties returns the key property.
func (m ID) Properties() []schema.Property {
	typ := m.Type
	if typ == "" {
		typ = "int"
	}
	return field.Properties(field.Of("Id", typ).Identity())
}

// Keys returns the key member.
func (ID) Keys() []string { return []string{"Id"} }

// Time adds CreatedAt and UpdatedAt timestamp properties.
type Time struct {
	Schema
}

// Properties returns the time tracking properties.
func (Time) Properties() []schema.Property {
	return slices.Concat(CreateTime{}.Properties(), UpdateTime{}.Properties())
}

// CreateTime adds only the CreatedAt timestamp property.
type CreateTime struct {
	Schema
}

// Properties returns the CreatedAt property.
func (CreateTime) Properties() []schema.Property {
	return field.Properties(field.Time("CreatedAt").Required())
}

// UpdateTime adds only the UpdatedAt timestamp property.
type UpdateTime struct {
	Schema
}

// Properties returns the UpdatedAt property.
func (UpdateTime) Properties() []schema.Property {
	return field.Properties(field.Time("UpdatedAt").Required())
}

// SoftDelete adds a nullable DeletedAt property. A row with a value is
// considered deleted but stays in its table.
type SoftDelete struct {
	Schema
}

// Properties returns the soft delete property.
func (SoftDelete) Properties() []schema.Property {
	return field.Properties(field.Of("DeletedAt", "*time.Time").Optional())
}

// TimeSoftDelete combines Time and SoftDelete.
type TimeSoftDelete struct {
	Schema
}

// Properties returns all timestamp and soft delete properties.
func (TimeSoftDelete) Properties() []schema.Property {
	return slices.Concat(Time{}.Properties(), SoftDelete{}.Properties())
}

// RowVersion adds a RowVersion concurrency token.
type RowVersion struct {
	Schema
}

// Properties returns the row version property.
func (RowVersion) Properties() []schema.Property {
	return field.Properties(field.Bytes("RowVersion").RowVersion().ConcurrencyToken())
}

// AnnotateProperties wraps a mixin and adds column annotations to all its
// primitive properties.
//
//	mixin.AnnotateProperties(mixin.Time{}, map[string]any{"Audit": true})
func AnnotateProperties(m Mixin, annotations map[string]any) Mixin {
	return annotator{Mixin: m, annotations: annotations}
}

type annotator struct {
	Mixin
	annotations map[string]any
}

func (a annotator) Properties() []schema.Property {
	props := a.Mixin.Properties()
	for _, p := range props {
		pp, ok := p.(*schema.PrimitiveProperty)
		if !ok || len(a.annotations) == 0 {
			continue
		}
		if pp.Column.Annotations == nil {
			pp.Column.Annotations = make(map[string]any, len(a.annotations))
		}
		maps.Copy(pp.Column.Annotations, a.annotations)
	}
	return props
}

var builtin = map[string]Mixin{
	"id":               ID{},
	"time":             Time{},
	"create_time":      CreateTime{},
	"update_time":      UpdateTime{},
	"soft_delete":      SoftDelete{},
	"time_soft_delete": TimeSoftDelete{},
	"row_version":      RowVersion{},
}

// Lookup returns the built-in mixin registered under name, such as "id",
// "time" or "soft_delete".
func Lookup(name string) (Mixin, bool) {
	m, ok := builtin[name]
	return m, ok
}

// Names returns the names of the built-in mixins, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(builtin))
}
