package schema

import (
	"fmt"
	"reflect"
)

// Property is one member of a class. The set of implementations is closed:
// *PrimitiveProperty, *NavigationProperty and *ForeignKeyProperty.
type Property interface {
	PropertyName() string
	PropertyType() string
	// Common returns the facets shared by every property kind.
	Common() *PropertyBase
	// Copy returns a deep copy that shares no memory with the receiver.
	Copy() Property
	property()
}

// PropertyBase holds the facets shared by every property kind.
type PropertyBase struct {
	Name          string
	Type          string // declared type, as emitted in source
	Visibility    Visibility
	Virtual       *bool
	SetterPrivate *bool
}

// PropertyName returns the property name.
func (b *PropertyBase) PropertyName() string { return b.Name }

// PropertyType returns the declared type.
func (b *PropertyBase) PropertyType() string { return b.Type }

// Common returns b.
func (b *PropertyBase) Common() *PropertyBase { return b }

func (b *PropertyBase) property() {}

func (b PropertyBase) clone() PropertyBase {
	b.Virtual = clonePtr(b.Virtual)
	b.SetterPrivate = clonePtr(b.SetterPrivate)
	return b
}

// PrimitiveProperty is a scalar property mapped to a column.
type PrimitiveProperty struct {
	PropertyBase
	Column ColumnInfo
}

// Copy implements Property.
func (p *PrimitiveProperty) Copy() Property {
	return &PrimitiveProperty{PropertyBase: p.PropertyBase.clone(), Column: p.Column.Copy()}
}

// NavigationProperty references another class, either a single instance or a
// collection of them.
type NavigationProperty struct {
	PropertyBase
	Target     string
	Collection bool
}

// NewNavigationProperty returns a navigation property whose declared type is
// derived from the target and the multiplicity.
func NewNavigationProperty(name, target string, collection bool) *NavigationProperty {
	return &NavigationProperty{
		PropertyBase: PropertyBase{Name: name, Type: NavigationType(target, collection)},
		Target:       target,
		Collection:   collection,
	}
}

// NavigationType returns the declared type of a navigation property.
func NavigationType(target string, collection bool) string {
	if collection {
		return "[]*" + target
	}
	return "*" + target
}

// Copy implements Property.
func (p *NavigationProperty) Copy() Property {
	return &NavigationProperty{PropertyBase: p.PropertyBase.clone(), Target: p.Target, Collection: p.Collection}
}

// ForeignKeyProperty is a scalar property holding the key of a principal class.
type ForeignKeyProperty struct {
	PropertyBase
}

// Copy implements Property.
func (p *ForeignKeyProperty) Copy() Property {
	return &ForeignKeyProperty{PropertyBase: p.PropertyBase.clone()}
}

// EqualProperty reports whether two properties are structurally equal.
func EqualProperty(a, b Property) bool {
	return reflect.DeepEqual(a, b)
}

// KindOf returns the kind name of a property: "primitive", "navigation" or "foreign_key".
func KindOf(p Property) string {
	switch p.(type) {
	case *PrimitiveProperty:
		return "primitive"
	case *NavigationProperty:
		return "navigation"
	case *ForeignKeyProperty:
		return "foreign_key"
	default:
		panic(fmt.Sprintf("schema: unexpected property %T", p))
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
