package schema

import (
	"slices"

	"github.com/syssam/evolve"
)

// Visibility is the access level of a class or property in generated code.
type Visibility uint8

// Visibility values. VisibilityDefault leaves the choice to the code emitter.
const (
	VisibilityDefault Visibility = iota
	VisibilityPublic
	VisibilityPrivate
	VisibilityProtected
	VisibilityInternal
)

// String returns the lower-case name of the visibility.
func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityPrivate:
		return "private"
	case VisibilityProtected:
		return "protected"
	case VisibilityInternal:
		return "internal"
	default:
		return "default"
	}
}

// ParseVisibility returns the visibility with the given name.
// Unknown names map to VisibilityDefault.
func ParseVisibility(s string) Visibility {
	switch s {
	case "public":
		return VisibilityPublic
	case "private":
		return VisibilityPrivate
	case "protected":
		return VisibilityProtected
	case "internal":
		return VisibilityInternal
	default:
		return VisibilityDefault
	}
}

// ClassModel describes one class of the object model.
type ClassModel struct {
	Name       string
	Base       string // optional base type
	Visibility Visibility
	// Complex marks a complex type: a property group without its own identity.
	Complex     bool
	PrimaryKeys []string
	Properties  []Property
}

// Property returns the property with the given name, or nil.
func (c *ClassModel) Property(name string) Property {
	for _, p := range c.Properties {
		if p.PropertyName() == name {
			return p
		}
	}
	return nil
}

// HasProperty reports whether the class declares a property with the given name.
func (c *ClassModel) HasProperty(name string) bool {
	return c.Property(name) != nil
}

// PropertyNames returns the property names in declaration order.
func (c *ClassModel) PropertyNames() []string {
	names := make([]string, len(c.Properties))
	for i, p := range c.Properties {
		names[i] = p.PropertyName()
	}
	return names
}

// AddProperty appends p. It fails if a property with the same name exists.
func (c *ClassModel) AddProperty(p Property) error {
	if c.HasProperty(p.PropertyName()) {
		return evolve.NewPreconditionError("add-property", "class %q already has property %q", c.Name, p.PropertyName())
	}
	c.Properties = append(c.Properties, p)
	return nil
}

// RemoveProperty removes and returns the named property.
func (c *ClassModel) RemoveProperty(name string) (Property, error) {
	for i, p := range c.Properties {
		if p.PropertyName() == name {
			c.Properties = slices.Delete(c.Properties, i, i+1)
			return p, nil
		}
	}
	return nil, evolve.NewNotFoundError("property", c.Name+"."+name)
}

// IsPrimaryKey reports whether the named property is part of the primary key.
func (c *ClassModel) IsPrimaryKey(name string) bool {
	return slices.Contains(c.PrimaryKeys, name)
}

// Copy returns a deep copy of the class.
func (c *ClassModel) Copy() *ClassModel {
	if c == nil {
		return nil
	}
	cp := &ClassModel{
		Name:        c.Name,
		Base:        c.Base,
		Visibility:  c.Visibility,
		Complex:     c.Complex,
		PrimaryKeys: slices.Clone(c.PrimaryKeys),
		Properties:  make([]Property, len(c.Properties)),
	}
	for i, p := range c.Properties {
		cp.Properties[i] = p.Copy()
	}
	return cp
}

// Provider gives read access to the current class model.
type Provider interface {
	// Class returns the named class. Implementations return a value the
	// caller may not mutate; it fails with an evolve.NotFoundError.
	Class(name string) (*ClassModel, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(string) (*ClassModel, error)

// Class calls f(name).
func (f ProviderFunc) Class(name string) (*ClassModel, error) { return f(name) }

// Equal reports whether two classes are structurally equal. Properties are
// compared as a set keyed by name, since moving a property out of a class and
// back again appends it at the end.
func Equal(a, b *ClassModel) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || a.Base != b.Base || a.Visibility != b.Visibility || a.Complex != b.Complex {
		return false
	}
	if !sameSet(a.PrimaryKeys, b.PrimaryKeys) || len(a.Properties) != len(b.Properties) {
		return false
	}
	for _, p := range a.Properties {
		q := b.Property(p.PropertyName())
		if q == nil || !EqualProperty(p, q) {
			return false
		}
	}
	return true
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, s := range a {
		if !slices.Contains(b, s) {
			return false
		}
	}
	return true
}
