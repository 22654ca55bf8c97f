package edge

import (
	"fmt"
	"slices"

	"github.com/go-openapi/inflect"

	"github.com/syssam/evolve"
	"github.com/syssam/evolve/schema"
	"github.com/syssam/evolve/schema/index"
)

// Multiplicity is the number of instances at one end of an association.
type Multiplicity uint8

// Multiplicities.
const (
	MultiplicityOne Multiplicity = iota + 1
	MultiplicityZeroOrOne
	MultiplicityMany
)

// String returns the multiplicity name.
func (m Multiplicity) String() string {
	switch m {
	case MultiplicityOne:
		return "One"
	case MultiplicityZeroOrOne:
		return "ZeroOrOne"
	case MultiplicityMany:
		return "Many"
	default:
		return fmt.Sprintf("Multiplicity(%d)", m)
	}
}

// Required returns MultiplicityOne when required is set and
// MultiplicityZeroOrOne otherwise.
func Required(required bool) Multiplicity {
	if required {
		return MultiplicityOne
	}
	return MultiplicityZeroOrOne
}

// Option configures a navigation or foreign-key property.
type Option func(*schema.PropertyBase)

// Named overrides the default property name.
func Named(name string) Option {
	return func(b *schema.PropertyBase) { b.Name = name }
}

// Visibility sets the access level.
func Visibility(v schema.Visibility) Option {
	return func(b *schema.PropertyBase) { b.Visibility = v }
}

// Virtual sets the virtual flag.
func Virtual(v bool) Option {
	return func(b *schema.PropertyBase) { b.Virtual = evolve.Ptr(v) }
}

// SetterPrivate sets the private-setter flag.
func SetterPrivate(v bool) Option {
	return func(b *schema.PropertyBase) { b.SetterPrivate = evolve.Ptr(v) }
}

// One returns a navigation property referencing a single instance of target.
// Unless Named is given, the property is named after the target.
func One(target string, opts ...Option) *schema.NavigationProperty {
	return navigation(target, false, opts)
}

// Many returns a navigation property referencing a collection of target.
// Unless Named is given, the property is named after the pluralized target.
func Many(target string, opts ...Option) *schema.NavigationProperty {
	return navigation(target, true, opts)
}

func navigation(target string, collection bool, opts []Option) *schema.NavigationProperty {
	name := target
	if collection {
		name = inflect.Pluralize(target)
	}
	p := schema.NewNavigationProperty(name, target, collection)
	for _, opt := range opts {
		opt(&p.PropertyBase)
	}
	return p
}

// ForeignKey returns a foreign-key property of the given declared type.
func ForeignKey(name, typ string, opts ...Option) *schema.ForeignKeyProperty {
	p := &schema.ForeignKeyProperty{PropertyBase: schema.PropertyBase{Name: name, Type: typ}}
	for _, opt := range opts {
		opt(&p.PropertyBase)
	}
	return p
}

// End is one side of an association.
type End struct {
	Class        string
	Multiplicity Multiplicity
	// Navigation is the property declared on Class pointing at the other
	// end. Nil when the association is not navigable from this side.
	Navigation *schema.NavigationProperty
}

// NavigationName returns the navigation property name, or "" when absent.
func (e End) NavigationName() string {
	if e.Navigation == nil {
		return ""
	}
	return e.Navigation.Name
}

// Copy returns a deep copy of e.
func (e End) Copy() End {
	if e.Navigation != nil {
		e.Navigation = e.Navigation.Copy().(*schema.NavigationProperty)
	}
	return e
}

// Ref identifies an association end by class and navigation property name.
// It is what removing an association needs.
type Ref struct {
	Class      string
	Navigation string
}

// Ref returns the reference to e.
func (e End) Ref() Ref {
	return Ref{Class: e.Class, Navigation: e.NavigationName()}
}

// JoinTable describes the join table of a many-to-many association.
type JoinTable struct {
	Name string
	// LeftKeys reference the principal (source) end, RightKeys the dependent.
	LeftKeys  []string
	RightKeys []string
}

// Copy returns a deep copy of j.
func (j *JoinTable) Copy() *JoinTable {
	if j == nil {
		return nil
	}
	return &JoinTable{Name: j.Name, LeftKeys: slices.Clone(j.LeftKeys), RightKeys: slices.Clone(j.RightKeys)}
}

// Info holds the optional facets of an association. A zero facet is unset.
type Info struct {
	CascadeOnDelete      *bool
	ForeignKeyColumns    []string
	ForeignKeyProperties []*schema.ForeignKeyProperty
	JoinTable            *JoinTable
	ForeignKeyIndex      *index.Index
}

// Copy returns a deep copy of i.
func (i Info) Copy() Info {
	cp := Info{
		ForeignKeyColumns: slices.Clone(i.ForeignKeyColumns),
		JoinTable:         i.JoinTable.Copy(),
		ForeignKeyIndex:   i.ForeignKeyIndex.Copy(),
	}
	if i.CascadeOnDelete != nil {
		cp.CascadeOnDelete = evolve.Ptr(*i.CascadeOnDelete)
	}
	for _, p := range i.ForeignKeyProperties {
		cp.ForeignKeyProperties = append(cp.ForeignKeyProperties, p.Copy().(*schema.ForeignKeyProperty))
	}
	return cp
}

// Association connects a principal class to a dependent class.
type Association struct {
	Principal End
	Dependent End
	Info      Info
}

// NewAssociation returns an association between two distinct classes.
func NewAssociation(principal, dependent End, info Info) (*Association, error) {
	if principal.Class == "" || dependent.Class == "" {
		return nil, evolve.NewPreconditionError("association", "both ends must name a class")
	}
	if principal.Class == dependent.Class {
		return nil, evolve.NewPreconditionError("association", "self association on %q is not supported", principal.Class)
	}
	return &Association{Principal: principal, Dependent: dependent, Info: info}, nil
}

// Copy returns a deep copy of a.
func (a *Association) Copy() *Association {
	if a == nil {
		return nil
	}
	return &Association{Principal: a.Principal.Copy(), Dependent: a.Dependent.Copy(), Info: a.Info.Copy()}
}

// ForeignKeyNames returns the explicit foreign-key names of the dependent
// end: the property names when properties are given, the column names
// otherwise.
func (a *Association) ForeignKeyNames() []string {
	if len(a.Info.ForeignKeyProperties) > 0 {
		names := make([]string, len(a.Info.ForeignKeyProperties))
		for i, p := range a.Info.ForeignKeyProperties {
			names[i] = p.Name
		}
		return names
	}
	return slices.Clone(a.Info.ForeignKeyColumns)
}
