package transform

import (
	"slices"

	"github.com/syssam/evolve"
	"github.com/syssam/evolve/change"
	"github.com/syssam/evolve/compiler/fluent"
	"github.com/syssam/evolve/migrate"
	"github.com/syssam/evolve/schema"
	"github.com/syssam/evolve/schema/edge"
)

// CreateClass creates a class with its properties and, unless the class is
// a complex type, its table.
type CreateClass struct {
	Class *schema.ClassModel
}

// NewCreateClass returns a CreateClass of a class named name.
func NewCreateClass(name string, properties []schema.Property, primaryKeys ...string) *CreateClass {
	return &CreateClass{Class: &schema.ClassModel{Name: name, Properties: properties, PrimaryKeys: primaryKeys}}
}

// Kind implements Transformation.
func (*CreateClass) Kind() string { return "CreateClass" }

// ModelChanges implements Transformation.
func (t *CreateClass) ModelChanges(schema.Provider) ([]change.Operation, error) {
	cls := t.Class.Copy()
	return []change.Operation{&change.CreateEmptyClass{Class: cls, Mapping: classMapping(cls)}}, nil
}

// MigrationOperations implements Transformation.
func (t *CreateClass) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	if t.Class.Complex {
		return nil, nil
	}
	return b.CreateTable(t.Class.Name)
}

// Inverse implements Transformation.
func (t *CreateClass) Inverse() Transformation {
	return &RemoveClass{Name: t.Class.Name, Class: t.Class.Copy()}
}

// RemoveClass removes a class and drops its table.
type RemoveClass struct {
	Name string
	// Class is the definition of the removed class. It is captured from the
	// model before the class is removed and makes the transformation
	// invertible.
	Class *schema.ClassModel
}

// Kind implements Transformation.
func (*RemoveClass) Kind() string { return "RemoveClass" }

// Capture implements Capturer.
func (t *RemoveClass) Capture(p schema.Provider) error {
	cls, err := p.Class(t.Name)
	if err != nil {
		return err
	}
	t.Class = cls.Copy()
	return nil
}

// ModelChanges implements Transformation.
func (t *RemoveClass) ModelChanges(schema.Provider) ([]change.Operation, error) {
	return []change.Operation{&change.RemoveClass{Name: t.Name}}, nil
}

// MigrationOperations implements Transformation.
func (t *RemoveClass) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	if t.Class != nil && t.Class.Complex {
		return nil, nil
	}
	return b.DropTable(t.Name)
}

// Inverse implements Transformation. It is nil until the class definition
// was captured.
func (t *RemoveClass) Inverse() Transformation {
	if t.Class == nil {
		return nil
	}
	return &CreateClass{Class: t.Class.Copy()}
}

// RenameClass renames a class and its table.
type RenameClass struct {
	Old, New string
}

// Kind implements Transformation.
func (*RenameClass) Kind() string { return "RenameClass" }

// ModelChanges implements Transformation.
func (t *RenameClass) ModelChanges(schema.Provider) ([]change.Operation, error) {
	return []change.Operation{&change.RenameClass{Old: t.Old, New: t.New}}, nil
}

// MigrationOperations implements Transformation.
func (t *RenameClass) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	if _, ok := b.Old.Table(t.Old); !ok {
		// Complex types have no table.
		return nil, nil
	}
	return b.RenameTable(t.Old, t.New)
}

// Inverse implements Transformation.
func (t *RenameClass) Inverse() Transformation {
	return &RenameClass{Old: t.New, New: t.Old}
}

// ExtractClass moves properties of From into a new class sharing its
// primary key. The rows of From are copied into the new table before the
// columns are dropped.
type ExtractClass struct {
	From       string
	Properties []string
	// Class is the new class. When it declares no primary key, the key
	// properties of From are copied into it without value generation.
	Class *schema.ClassModel
	// FromNavigation is declared on From and points at Class. Optional.
	FromNavigation *schema.NavigationProperty
	// ClassNavigation is declared on Class and points at From. Optional.
	ClassNavigation *schema.NavigationProperty
}

// Kind implements Transformation.
func (*ExtractClass) Kind() string { return "ExtractClass" }

// ModelChanges implements Transformation.
func (t *ExtractClass) ModelChanges(p schema.Provider) ([]change.Operation, error) {
	if len(t.Properties) == 0 {
		return nil, evolve.NewPreconditionError("extract-class", "no properties to extract from %q", t.From)
	}
	from, err := p.Class(t.From)
	if err != nil {
		return nil, err
	}
	cls := t.Class.Copy()
	if len(cls.PrimaryKeys) == 0 {
		var keys []schema.Property
		for _, k := range from.PrimaryKeys {
			kp, ok := from.Property(k).(*schema.PrimitiveProperty)
			if !ok {
				return nil, evolve.NewPreconditionError("extract-class", "key %s.%s is not a primitive property", t.From, k)
			}
			kp = kp.Copy().(*schema.PrimitiveProperty)
			kp.Column.Generated = evolve.Ptr(schema.GeneratedNone)
			keys = append(keys, kp)
		}
		cls.Properties = append(keys, cls.Properties...)
		cls.PrimaryKeys = slices.Clone(from.PrimaryKeys)
	}
	ops := []change.Operation{&change.CreateEmptyClass{Class: cls, Mapping: classMapping(cls)}}
	for _, name := range t.Properties {
		ops = append(ops, &change.MovePropertyBetweenClasses{From: t.From, To: cls.Name, Property: name})
	}
	a := t.association()
	if a.Principal.Navigation != nil || a.Dependent.Navigation != nil {
		navs, err := addNavigations(a)
		if err != nil {
			return nil, err
		}
		ops = append(ops, navs...)
	}
	return ops, nil
}

func (t *ExtractClass) association() *edge.Association {
	return &edge.Association{
		Principal: edge.End{Class: t.From, Multiplicity: edge.MultiplicityOne, Navigation: t.FromNavigation},
		Dependent: edge.End{Class: t.Class.Name, Multiplicity: edge.MultiplicityZeroOrOne, Navigation: t.ClassNavigation},
	}
}

// MigrationOperations implements Transformation.
func (t *ExtractClass) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	ft, err := b.OldTable(t.From)
	if err != nil {
		return nil, err
	}
	nt, err := b.NewTable(t.Class.Name)
	if err != nil {
		return nil, err
	}
	ins, err := b.InsertFrom(
		t.From, slices.Concat(ft.PrimaryKey, t.Properties),
		t.Class.Name, slices.Concat(nt.PrimaryKey, t.Properties),
	)
	if err != nil {
		return nil, err
	}
	fk, err := sharedKey(nt, ft, false)
	if err != nil {
		return nil, err
	}
	ops := []migrate.Operation{nt.Definition(), ins, b.AddForeignKey(fk)}
	for _, name := range t.Properties {
		drop, err := b.DropColumns(t.From, name)
		if err != nil {
			return nil, err
		}
		ops = append(ops, drop...)
	}
	return ops, nil
}

// Inverse implements Transformation.
func (t *ExtractClass) Inverse() Transformation {
	return &MergeClasses{
		Principal:           t.From,
		PrincipalNavigation: navigationName(t.FromNavigation),
		Dependent:           t.Class.Name,
		DependentNavigation: navigationName(t.ClassNavigation),
		Properties:          slices.Clone(t.Properties),
	}
}

// MergeClasses moves properties of Dependent into Principal, copies their
// values into the principal table and removes Dependent. It has no inverse.
type MergeClasses struct {
	Principal           string
	PrincipalNavigation string
	Dependent           string
	DependentNavigation string
	Properties          []string
}

// Kind implements Transformation.
func (*MergeClasses) Kind() string { return "MergeClasses" }

// ModelChanges implements Transformation.
func (t *MergeClasses) ModelChanges(schema.Provider) ([]change.Operation, error) {
	if len(t.Properties) == 0 {
		return nil, evolve.NewPreconditionError("merge-classes", "no properties to merge from %q", t.Dependent)
	}
	var ops []change.Operation
	for _, name := range t.Properties {
		ops = append(ops, &change.MovePropertyBetweenClasses{From: t.Dependent, To: t.Principal, Property: name})
	}
	if t.PrincipalNavigation != "" {
		ops = append(ops, &change.RemovePropertyFromClass{Class: t.Principal, Property: t.PrincipalNavigation})
	}
	return append(ops, &change.RemoveClass{Name: t.Dependent}), nil
}

// MigrationOperations implements Transformation. Rows are matched through
// the foreign key of the dependent table, or through the primary keys when
// the tables share them.
func (t *MergeClasses) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	dt, err := b.OldTable(t.Dependent)
	if err != nil {
		return nil, err
	}
	pt, err := b.OldTable(t.Principal)
	if err != nil {
		return nil, err
	}
	var ops []migrate.Operation
	for _, name := range t.Properties {
		add, err := b.AddColumns(t.Principal, name)
		if err != nil {
			return nil, err
		}
		ops = append(ops, add...)
	}
	fromJoin, toJoin := dt.PrimaryKey, pt.PrimaryKey
	if fk, ok := dt.ForeignKeyTo(pt.Name); ok {
		fromJoin, toJoin = fk.Columns, fk.PrincipalColumns
	}
	upd, err := b.UpdateFrom(t.Dependent, t.Properties, fromJoin, t.Principal, t.Properties, toJoin)
	if err != nil {
		return nil, err
	}
	drop, err := b.DropTable(t.Dependent)
	if err != nil {
		return nil, err
	}
	return append(append(ops, upd), drop...), nil
}

// Inverse implements Transformation. MergeClasses is not invertible.
func (*MergeClasses) Inverse() Transformation { return nil }

func (*CreateClass) transformation()  {}
func (*RemoveClass) transformation()  {}
func (*RenameClass) transformation()  {}
func (*ExtractClass) transformation() {}
func (*MergeClasses) transformation() {}

// classMapping returns the mapping chains of a new class: its key when it is
// not the conventional "Id", and the configured facets of its properties.
func classMapping(cls *schema.ClassModel) []fluent.Chain {
	var chains []fluent.Chain
	if !slices.Equal(cls.PrimaryKeys, []string{"Id"}) {
		if c := fluent.ForKey(cls.Name, cls.PrimaryKeys); c != nil {
			chains = append(chains, *c)
		}
	}
	for _, p := range cls.Properties {
		if pp, ok := p.(*schema.PrimitiveProperty); ok {
			if c := fluent.ForProperty(cls.Name, pp); c != nil {
				chains = append(chains, *c)
			}
		}
	}
	return chains
}

// sharedKey returns the foreign key from the primary key of dependent to the
// primary key of principal.
func sharedKey(dependent, principal *migrate.TableMapping, cascade bool) (migrate.ForeignKey, error) {
	if len(dependent.PrimaryKey) == 0 || len(dependent.PrimaryKey) != len(principal.PrimaryKey) {
		return migrate.ForeignKey{}, evolve.NewPreconditionError("shared-key",
			"%q has %d key columns, %q has %d", dependent.Name, len(dependent.PrimaryKey), principal.Name, len(principal.PrimaryKey))
	}
	return migrate.ForeignKey{
		Name:             migrate.ForeignKeyName(dependent.Name, principal.Name, dependent.PrimaryKey...),
		DependentTable:   dependent.Name,
		DependentColumns: slices.Clone(dependent.PrimaryKey),
		PrincipalTable:   principal.Name,
		PrincipalColumns: slices.Clone(principal.PrimaryKey),
		CascadeDelete:    cascade,
	}, nil
}

func navigationName(p *schema.NavigationProperty) string {
	if p == nil {
		return ""
	}
	return p.Name
}
