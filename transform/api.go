package transform

import (
	"github.com/syssam/evolve/schema"
	"github.com/syssam/evolve/schema/edge"
)

// CreateClass adds a CreateClass transformation.
func (s *Set) CreateClass(name string, properties []schema.Property, primaryKeys ...string) *Set {
	return s.Add(NewCreateClass(name, properties, primaryKeys...))
}

// RemoveClass adds a RemoveClass transformation.
func (s *Set) RemoveClass(name string) *Set {
	return s.Add(&RemoveClass{Name: name})
}

// AddProperty adds an AddProperty transformation.
func (s *Set) AddProperty(class string, p schema.Property) *Set {
	return s.Add(&AddProperty{Class: class, Property: p})
}

// RemoveProperty adds a RemoveProperty transformation.
func (s *Set) RemoveProperty(class, name string) *Set {
	return s.Add(&RemoveProperty{Class: class, Name: name})
}

// RenameClass adds a RenameClass transformation.
func (s *Set) RenameClass(old, new string) *Set {
	return s.Add(&RenameClass{Old: old, New: new})
}

// RenameProperty adds a RenameProperty transformation.
func (s *Set) RenameProperty(class, old, new string) *Set {
	return s.Add(&RenameProperty{Class: class, Old: old, New: new})
}

// ExtractComplexType adds an ExtractComplexType transformation. A nil nav
// declares a navigation property named after the complex type.
func (s *Set) ExtractComplexType(class, complexType string, properties []string, nav *schema.NavigationProperty) *Set {
	return s.Add(&ExtractComplexType{Class: class, ComplexType: complexType, Properties: properties, Navigation: nav})
}

// JoinComplexType adds a JoinComplexType transformation.
func (s *Set) JoinComplexType(complexType, class string) *Set {
	return s.Add(&JoinComplexType{ComplexType: complexType, Class: class})
}

// ExtractClass adds an ExtractClass transformation. fromNav is declared on
// from and classNav on the new class; both are optional.
func (s *Set) ExtractClass(from string, properties []string, class *schema.ClassModel, fromNav, classNav *schema.NavigationProperty) *Set {
	return s.Add(&ExtractClass{
		From:            from,
		Properties:      properties,
		Class:           class,
		FromNavigation:  fromNav,
		ClassNavigation: classNav,
	})
}

// MergeClasses adds a MergeClasses transformation.
func (s *Set) MergeClasses(principal, principalNav, dependent, dependentNav string, properties ...string) *Set {
	return s.Add(&MergeClasses{
		Principal:           principal,
		PrincipalNavigation: principalNav,
		Dependent:           dependent,
		DependentNavigation: dependentNav,
		Properties:          properties,
	})
}

// AddOneToOnePrimaryKeyAssociation adds a shared primary key association.
// The principal end is required only when bothRequired is set.
func (s *Set) AddOneToOnePrimaryKeyAssociation(principal string, principalNav *schema.NavigationProperty, dependent string, dependentNav *schema.NavigationProperty, bothRequired bool, info edge.Info) *Set {
	return s.Add(&AddOneToOnePrimaryKeyAssociation{Association: &edge.Association{
		Principal: edge.End{Class: principal, Multiplicity: edge.Required(bothRequired), Navigation: principalNav},
		Dependent: edge.End{Class: dependent, Multiplicity: edge.MultiplicityOne, Navigation: dependentNav},
		Info:      info,
	}})
}

// AddOneToOneForeignKeyAssociation adds a one-to-one association through a
// foreign key of the dependent.
func (s *Set) AddOneToOneForeignKeyAssociation(principal string, principalNav *schema.NavigationProperty, dependent string, dependentNav *schema.NavigationProperty, principalRequired, dependentRequired bool, info edge.Info) *Set {
	return s.Add(&AddOneToOneForeignKeyAssociation{Association: &edge.Association{
		Principal: edge.End{Class: principal, Multiplicity: edge.Required(principalRequired), Navigation: principalNav},
		Dependent: edge.End{Class: dependent, Multiplicity: edge.Required(dependentRequired), Navigation: dependentNav},
		Info:      info,
	}})
}

// AddOneToManyAssociation adds a one-to-many association.
func (s *Set) AddOneToManyAssociation(principal string, principalNav *schema.NavigationProperty, dependent string, dependentNav *schema.NavigationProperty, principalRequired bool, info edge.Info) *Set {
	return s.Add(&AddOneToManyAssociation{Association: &edge.Association{
		Principal: edge.End{Class: principal, Multiplicity: edge.Required(principalRequired), Navigation: principalNav},
		Dependent: edge.End{Class: dependent, Multiplicity: edge.MultiplicityMany, Navigation: dependentNav},
		Info:      info,
	}})
}

// AddManyToManyAssociation adds a many-to-many association. A nil joinTable
// uses the conventional join table.
func (s *Set) AddManyToManyAssociation(source string, sourceNav *schema.NavigationProperty, target string, targetNav *schema.NavigationProperty, joinTable *edge.JoinTable) *Set {
	return s.Add(&AddManyToManyAssociation{Association: &edge.Association{
		Principal: edge.End{Class: source, Multiplicity: edge.MultiplicityMany, Navigation: sourceNav},
		Dependent: edge.End{Class: target, Multiplicity: edge.MultiplicityMany, Navigation: targetNav},
		Info:      edge.Info{JoinTable: joinTable},
	}})
}

// RemoveOneToOnePrimaryKeyAssociation adds the removal of a shared primary
// key association.
func (s *Set) RemoveOneToOnePrimaryKeyAssociation(principal, principalNav, dependent, dependentNav string, addIdentity bool) *Set {
	return s.Add(&RemoveOneToOnePrimaryKeyAssociation{
		Principal:   edge.Ref{Class: principal, Navigation: principalNav},
		Dependent:   edge.Ref{Class: dependent, Navigation: dependentNav},
		AddIdentity: addIdentity,
	})
}

// RemoveOneToOneForeignKeyAssociation adds the removal of a one-to-one
// foreign key association.
func (s *Set) RemoveOneToOneForeignKeyAssociation(principal, principalNav, dependent, dependentNav string) *Set {
	return s.Add(&RemoveOneToOneForeignKeyAssociation{
		Principal: edge.Ref{Class: principal, Navigation: principalNav},
		Dependent: edge.Ref{Class: dependent, Navigation: dependentNav},
	})
}

// RemoveOneToManyAssociation adds the removal of a one-to-many association
// and of the listed foreign key properties.
func (s *Set) RemoveOneToManyAssociation(principal, principalNav, dependent, dependentNav string, foreignKeyProperties ...string) *Set {
	return s.Add(&RemoveOneToManyAssociation{
		Principal:            edge.Ref{Class: principal, Navigation: principalNav},
		Dependent:            edge.Ref{Class: dependent, Navigation: dependentNav},
		ForeignKeyProperties: foreignKeyProperties,
	})
}

// RemoveManyToManyAssociation adds the removal of a many-to-many
// association.
func (s *Set) RemoveManyToManyAssociation(source, sourceNav, target, targetNav string) *Set {
	return s.Add(&RemoveManyToManyAssociation{
		Principal: edge.Ref{Class: source, Navigation: sourceNav},
		Dependent: edge.Ref{Class: target, Navigation: targetNav},
	})
}
