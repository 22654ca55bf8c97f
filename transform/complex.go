package transform

import (
	"slices"
	"strings"

	"github.com/syssam/evolve"
	"github.com/syssam/evolve/change"
	"github.com/syssam/evolve/migrate"
	"github.com/syssam/evolve/schema"
	"github.com/syssam/evolve/schema/edge"
)

// ExtractComplexType moves properties of Class into a new complex type and
// references it through a navigation property. The columns stay in the
// table of Class and are renamed to the complex-type convention.
type ExtractComplexType struct {
	Class       string
	ComplexType string
	Properties  []string
	// Navigation is declared on Class. When nil, a navigation property
	// named after the complex type is used.
	Navigation *schema.NavigationProperty
}

// Kind implements Transformation.
func (*ExtractComplexType) Kind() string { return "ExtractComplexType" }

func (t *ExtractComplexType) navigation() *schema.NavigationProperty {
	if t.Navigation != nil {
		return t.Navigation
	}
	return edge.One(t.ComplexType)
}

// ModelChanges implements Transformation.
func (t *ExtractComplexType) ModelChanges(schema.Provider) ([]change.Operation, error) {
	if len(t.Properties) == 0 {
		return nil, evolve.NewPreconditionError("extract-complex-type", "no properties to extract from %q", t.Class)
	}
	ops := []change.Operation{
		&change.CreateEmptyClass{Class: &schema.ClassModel{Name: t.ComplexType, Complex: true}},
	}
	for _, name := range t.Properties {
		ops = append(ops, &change.MovePropertyBetweenClasses{From: t.Class, To: t.ComplexType, Property: name})
	}
	return append(ops, &change.AddPropertyToClass{Class: t.Class, Property: t.navigation().Copy()}), nil
}

// MigrationOperations implements Transformation.
func (t *ExtractComplexType) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	nav := t.navigation().Name
	var ops []migrate.Operation
	for _, name := range t.Properties {
		rename, err := b.RenameColumn(t.Class, name, nav+"."+name)
		if err != nil {
			return nil, err
		}
		ops = append(ops, rename...)
	}
	return ops, nil
}

// Inverse implements Transformation.
func (t *ExtractComplexType) Inverse() Transformation {
	return &JoinComplexType{
		ComplexType: t.ComplexType,
		Class:       t.Class,
		Properties:  slices.Clone(t.Properties),
		Navigation:  t.navigation().Copy().(*schema.NavigationProperty),
	}
}

// JoinComplexType moves every property of a complex type back into Class,
// removes the complex type and the navigation properties of Class
// referencing it.
type JoinComplexType struct {
	ComplexType string
	Class       string
	// Properties and Navigation are captured from the model before the join
	// and make the transformation invertible.
	Properties []string
	Navigation *schema.NavigationProperty
}

// Kind implements Transformation.
func (*JoinComplexType) Kind() string { return "JoinComplexType" }

// Capture implements Capturer.
func (t *JoinComplexType) Capture(p schema.Provider) error {
	ct, err := p.Class(t.ComplexType)
	if err != nil {
		return err
	}
	cls, err := p.Class(t.Class)
	if err != nil {
		return err
	}
	t.Properties = ct.PropertyNames()
	t.Navigation = nil
	if navs := referencing(cls, t.ComplexType); len(navs) > 0 {
		t.Navigation = navs[0].Copy().(*schema.NavigationProperty)
	}
	return nil
}

// ModelChanges implements Transformation. The properties are moved in
// declaration order before the complex type and the navigation properties
// are removed.
func (t *JoinComplexType) ModelChanges(p schema.Provider) ([]change.Operation, error) {
	ct, err := p.Class(t.ComplexType)
	if err != nil {
		return nil, err
	}
	cls, err := p.Class(t.Class)
	if err != nil {
		return nil, err
	}
	var ops []change.Operation
	for _, name := range ct.PropertyNames() {
		ops = append(ops, &change.MovePropertyBetweenClasses{From: t.ComplexType, To: t.Class, Property: name})
	}
	ops = append(ops, &change.RemoveClass{Name: t.ComplexType})
	for _, nav := range referencing(cls, t.ComplexType) {
		ops = append(ops, &change.RemovePropertyFromClass{Class: t.Class, Property: nav.Name})
	}
	return ops, nil
}

// MigrationOperations implements Transformation.
func (t *JoinComplexType) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	return b.RenameColumnsForJoinComplexType(t.ComplexType, t.Class)
}

// Inverse implements Transformation. It is nil until the complex type was
// captured.
func (t *JoinComplexType) Inverse() Transformation {
	if len(t.Properties) == 0 {
		return nil
	}
	inv := &ExtractComplexType{Class: t.Class, ComplexType: t.ComplexType, Properties: slices.Clone(t.Properties)}
	if t.Navigation != nil {
		inv.Navigation = t.Navigation.Copy().(*schema.NavigationProperty)
	}
	return inv
}

func (*ExtractComplexType) transformation() {}
func (*JoinComplexType) transformation()    {}

// referencing returns the navigation properties of cls whose declared type
// contains the name of complexType.
func referencing(cls *schema.ClassModel, complexType string) []*schema.NavigationProperty {
	var navs []*schema.NavigationProperty
	for _, p := range cls.Properties {
		if nav, ok := p.(*schema.NavigationProperty); ok && strings.Contains(nav.Type, complexType) {
			navs = append(navs, nav)
		}
	}
	return navs
}
