package transform

import (
	"github.com/syssam/evolve"
	"github.com/syssam/evolve/change"
	"github.com/syssam/evolve/compiler/fluent"
	"github.com/syssam/evolve/migrate"
	"github.com/syssam/evolve/schema"
)

// AddProperty adds a property to a class and its columns to the table.
type AddProperty struct {
	Class    string
	Property schema.Property
}

// Kind implements Transformation.
func (*AddProperty) Kind() string { return "AddProperty" }

// ModelChanges implements Transformation.
func (t *AddProperty) ModelChanges(schema.Provider) ([]change.Operation, error) {
	op := &change.AddPropertyToClass{Class: t.Class, Property: t.Property.Copy()}
	if p, ok := t.Property.(*schema.PrimitiveProperty); ok {
		if c := fluent.ForProperty(t.Class, p); c != nil {
			op.Mapping = []fluent.Chain{*c}
		}
	}
	return []change.Operation{op}, nil
}

// MigrationOperations implements Transformation. Navigation properties
// mapped to no column yield no operation.
func (t *AddProperty) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	name := t.Property.PropertyName()
	if _, ok := t.Property.(*schema.NavigationProperty); ok && !mapsColumns(b.New, t.Class, name) {
		return nil, nil
	}
	return b.AddColumns(t.Class, name)
}

// Inverse implements Transformation.
func (t *AddProperty) Inverse() Transformation {
	return &RemoveProperty{Class: t.Class, Name: t.Property.PropertyName(), Property: t.Property.Copy()}
}

// RemoveProperty removes a property from a class and its columns from the
// table.
type RemoveProperty struct {
	Class string
	Name  string
	// Property is the definition of the removed property. It is captured
	// from the model before the property is removed and makes the
	// transformation invertible.
	Property schema.Property
}

// Kind implements Transformation.
func (*RemoveProperty) Kind() string { return "RemoveProperty" }

// Capture implements Capturer.
func (t *RemoveProperty) Capture(p schema.Provider) error {
	cls, err := p.Class(t.Class)
	if err != nil {
		return err
	}
	prop := cls.Property(t.Name)
	if prop == nil {
		return evolve.NewNotFoundError("property", t.Class+"."+t.Name)
	}
	t.Property = prop.Copy()
	return nil
}

// ModelChanges implements Transformation.
func (t *RemoveProperty) ModelChanges(schema.Provider) ([]change.Operation, error) {
	return []change.Operation{&change.RemovePropertyFromClass{Class: t.Class, Property: t.Name}}, nil
}

// MigrationOperations implements Transformation. Navigation properties
// mapped to no column yield no operation.
func (t *RemoveProperty) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	if _, ok := t.Property.(*schema.PrimitiveProperty); !ok && !mapsColumns(b.Old, t.Class, t.Name) {
		return nil, nil
	}
	return b.DropColumns(t.Class, t.Name)
}

// Inverse implements Transformation. It is nil until the property
// definition was captured.
func (t *RemoveProperty) Inverse() Transformation {
	if t.Property == nil {
		return nil
	}
	return &AddProperty{Class: t.Class, Property: t.Property.Copy()}
}

// RenameProperty renames a property and its columns.
type RenameProperty struct {
	Class    string
	Old, New string
}

// Kind implements Transformation.
func (*RenameProperty) Kind() string { return "RenameProperty" }

// ModelChanges implements Transformation.
func (t *RenameProperty) ModelChanges(schema.Provider) ([]change.Operation, error) {
	return []change.Operation{&change.RenameProperty{Class: t.Class, Old: t.Old, New: t.New}}, nil
}

// MigrationOperations implements Transformation. Properties of complex
// types and navigation properties without columns yield no operation.
func (t *RenameProperty) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	if _, ok := b.Old.Table(t.Class); !ok || !mapsColumns(b.Old, t.Class, t.Old) {
		return nil, nil
	}
	return b.RenameColumn(t.Class, t.Old, t.New)
}

// Inverse implements Transformation.
func (t *RenameProperty) Inverse() Transformation {
	return &RenameProperty{Class: t.Class, Old: t.New, New: t.Old}
}

func (*AddProperty) transformation()    {}
func (*RemoveProperty) transformation() {}
func (*RenameProperty) transformation() {}

// mapsColumns reports whether property of class is mapped to at least one
// column in m.
func mapsColumns(m migrate.Mapping, class, property string) bool {
	t, ok := m.Table(class)
	return ok && len(t.PropertyColumns(property)) > 0
}
