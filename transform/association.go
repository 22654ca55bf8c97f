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

// AddOneToOnePrimaryKeyAssociation associates two classes through the
// primary key of the dependent, which references the primary key of the
// principal. An identity on the dependent key is switched off first.
type AddOneToOnePrimaryKeyAssociation struct {
	Association *edge.Association
}

// Kind implements Transformation.
func (*AddOneToOnePrimaryKeyAssociation) Kind() string { return "AddOneToOnePrimaryKeyAssociation" }

// ModelChanges implements Transformation.
func (t *AddOneToOnePrimaryKeyAssociation) ModelChanges(schema.Provider) ([]change.Operation, error) {
	return addNavigations(t.Association)
}

// MigrationOperations implements Transformation.
func (t *AddOneToOnePrimaryKeyAssociation) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	a := t.Association
	dt, err := b.OldTable(a.Dependent.Class)
	if err != nil {
		return nil, err
	}
	pt, err := b.OldTable(a.Principal.Class)
	if err != nil {
		return nil, err
	}
	fk, err := sharedKey(dt, pt, cascade(a))
	if err != nil {
		return nil, err
	}
	var ops []migrate.Operation
	if identityKey(dt) {
		id, err := b.Identity(a.Dependent.Class, false)
		if err != nil {
			return nil, err
		}
		ops = append(ops, id)
	}
	return append(ops, b.AddForeignKey(fk)), nil
}

// Inverse implements Transformation. The inverse restores the identity of
// the dependent key.
func (t *AddOneToOnePrimaryKeyAssociation) Inverse() Transformation {
	return &RemoveOneToOnePrimaryKeyAssociation{
		Principal:   t.Association.Principal.Ref(),
		Dependent:   t.Association.Dependent.Ref(),
		AddIdentity: true,
	}
}

// AddOneToOneForeignKeyAssociation associates two classes through a unique
// foreign key of the dependent.
type AddOneToOneForeignKeyAssociation struct {
	Association *edge.Association
}

// Kind implements Transformation.
func (*AddOneToOneForeignKeyAssociation) Kind() string { return "AddOneToOneForeignKeyAssociation" }

// ModelChanges implements Transformation.
func (t *AddOneToOneForeignKeyAssociation) ModelChanges(schema.Provider) ([]change.Operation, error) {
	return addNavigations(t.Association)
}

// MigrationOperations implements Transformation.
func (t *AddOneToOneForeignKeyAssociation) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	return addForeignKey(b, t.Association, true)
}

// Inverse implements Transformation.
func (t *AddOneToOneForeignKeyAssociation) Inverse() Transformation {
	return &RemoveOneToOneForeignKeyAssociation{
		Principal: t.Association.Principal.Ref(),
		Dependent: t.Association.Dependent.Ref(),
	}
}

// AddOneToManyAssociation associates many dependents with one principal
// through a foreign key of the dependent.
type AddOneToManyAssociation struct {
	Association *edge.Association
}

// Kind implements Transformation.
func (*AddOneToManyAssociation) Kind() string { return "AddOneToManyAssociation" }

// ModelChanges implements Transformation.
func (t *AddOneToManyAssociation) ModelChanges(schema.Provider) ([]change.Operation, error) {
	return addNavigations(t.Association)
}

// MigrationOperations implements Transformation.
func (t *AddOneToManyAssociation) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	idx := t.Association.Info.ForeignKeyIndex
	return addForeignKey(b, t.Association, idx != nil && idx.Unique)
}

// Inverse implements Transformation.
func (t *AddOneToManyAssociation) Inverse() Transformation {
	inv := &RemoveOneToManyAssociation{
		Principal: t.Association.Principal.Ref(),
		Dependent: t.Association.Dependent.Ref(),
	}
	for _, p := range t.Association.Info.ForeignKeyProperties {
		inv.ForeignKeyProperties = append(inv.ForeignKeyProperties, p.Name)
	}
	return inv
}

// AddManyToManyAssociation associates two classes through a join table.
type AddManyToManyAssociation struct {
	Association *edge.Association
}

// Kind implements Transformation.
func (*AddManyToManyAssociation) Kind() string { return "AddManyToManyAssociation" }

// ModelChanges implements Transformation.
func (t *AddManyToManyAssociation) ModelChanges(schema.Provider) ([]change.Operation, error) {
	return addNavigations(t.Association)
}

// MigrationOperations implements Transformation.
func (t *AddManyToManyAssociation) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	create, fks, err := b.JoinTableFor(t.Association)
	if err != nil {
		return nil, err
	}
	ops := []migrate.Operation{create}
	for _, fk := range fks {
		ops = append(ops, b.AddForeignKey(fk))
	}
	for _, fk := range fks {
		ops = append(ops, &migrate.CreateIndex{
			Table:   fk.DependentTable,
			Name:    migrate.IndexName(nil, fk.DependentColumns...),
			Columns: fk.DependentColumns,
		})
	}
	return ops, nil
}

// Inverse implements Transformation.
func (t *AddManyToManyAssociation) Inverse() Transformation {
	return &RemoveManyToManyAssociation{
		Principal: t.Association.Principal.Ref(),
		Dependent: t.Association.Dependent.Ref(),
	}
}

// RemoveOneToOnePrimaryKeyAssociation removes a shared primary key
// association. AddIdentity switches the identity of the dependent key back
// on. It has no inverse.
type RemoveOneToOnePrimaryKeyAssociation struct {
	Principal   edge.Ref
	Dependent   edge.Ref
	AddIdentity bool
}

// Kind implements Transformation.
func (*RemoveOneToOnePrimaryKeyAssociation) Kind() string {
	return "RemoveOneToOnePrimaryKeyAssociation"
}

// ModelChanges implements Transformation.
func (t *RemoveOneToOnePrimaryKeyAssociation) ModelChanges(schema.Provider) ([]change.Operation, error) {
	return removeNavigations(t.Principal, t.Dependent), nil
}

// MigrationOperations implements Transformation.
func (t *RemoveOneToOnePrimaryKeyAssociation) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	dt, err := b.OldTable(t.Dependent.Class)
	if err != nil {
		return nil, err
	}
	fk, err := b.ExistingForeignKey(t.Dependent.Class, t.Principal.Class, "", dt.PrimaryKey)
	if err != nil {
		return nil, err
	}
	ops := []migrate.Operation{b.DropForeignKey(fk)}
	if t.AddIdentity {
		id, err := b.Identity(t.Dependent.Class, true)
		if err != nil {
			return nil, err
		}
		ops = append(ops, id)
	}
	return ops, nil
}

// Inverse implements Transformation. Removing an association is not
// invertible.
func (*RemoveOneToOnePrimaryKeyAssociation) Inverse() Transformation { return nil }

// RemoveOneToOneForeignKeyAssociation removes a one-to-one foreign key
// association with its foreign key columns. It has no inverse.
type RemoveOneToOneForeignKeyAssociation struct {
	Principal edge.Ref
	Dependent edge.Ref
}

// Kind implements Transformation.
func (*RemoveOneToOneForeignKeyAssociation) Kind() string {
	return "RemoveOneToOneForeignKeyAssociation"
}

// ModelChanges implements Transformation.
func (t *RemoveOneToOneForeignKeyAssociation) ModelChanges(schema.Provider) ([]change.Operation, error) {
	return removeNavigations(t.Principal, t.Dependent), nil
}

// MigrationOperations implements Transformation.
func (t *RemoveOneToOneForeignKeyAssociation) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	return dropForeignKey(b, t.Principal, t.Dependent, nil)
}

// Inverse implements Transformation. Removing an association is not
// invertible.
func (*RemoveOneToOneForeignKeyAssociation) Inverse() Transformation { return nil }

// RemoveOneToManyAssociation removes a one-to-many association, its foreign
// key columns and the listed foreign key properties. It has no inverse.
type RemoveOneToManyAssociation struct {
	Principal            edge.Ref
	Dependent            edge.Ref
	ForeignKeyProperties []string
}

// Kind implements Transformation.
func (*RemoveOneToManyAssociation) Kind() string { return "RemoveOneToManyAssociation" }

// ModelChanges implements Transformation.
func (t *RemoveOneToManyAssociation) ModelChanges(schema.Provider) ([]change.Operation, error) {
	ops := removeNavigations(t.Principal, t.Dependent)
	for _, name := range t.ForeignKeyProperties {
		ops = append(ops, &change.RemovePropertyFromClass{Class: t.Dependent.Class, Property: name})
	}
	return ops, nil
}

// MigrationOperations implements Transformation.
func (t *RemoveOneToManyAssociation) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	var columns []string
	if len(t.ForeignKeyProperties) > 0 {
		dt, err := b.OldTable(t.Dependent.Class)
		if err != nil {
			return nil, err
		}
		for _, name := range t.ForeignKeyProperties {
			c, ok := dt.Column(name)
			if !ok {
				return nil, evolve.NewNotFoundError("column of property", t.Dependent.Class+"."+name)
			}
			columns = append(columns, c.Name)
		}
	}
	return dropForeignKey(b, t.Principal, t.Dependent, columns)
}

// Inverse implements Transformation. Removing an association is not
// invertible.
func (*RemoveOneToManyAssociation) Inverse() Transformation { return nil }

// RemoveManyToManyAssociation removes a many-to-many association and drops
// its join table. It has no inverse.
type RemoveManyToManyAssociation struct {
	Principal edge.Ref
	Dependent edge.Ref
}

// Kind implements Transformation.
func (*RemoveManyToManyAssociation) Kind() string { return "RemoveManyToManyAssociation" }

// ModelChanges implements Transformation.
func (t *RemoveManyToManyAssociation) ModelChanges(schema.Provider) ([]change.Operation, error) {
	return removeNavigations(t.Principal, t.Dependent), nil
}

// MigrationOperations implements Transformation.
func (t *RemoveManyToManyAssociation) MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error) {
	jt, err := b.ExistingJoinTable(t.Principal.Class, t.Dependent.Class)
	if err != nil {
		return nil, err
	}
	var ops []migrate.Operation
	for _, fk := range jt.ForeignKeys {
		ops = append(ops, b.DropForeignKey(jt.ForeignKey(fk)))
	}
	return append(ops, &migrate.DropTable{Name: jt.Name}), nil
}

// Inverse implements Transformation. Removing an association is not
// invertible.
func (*RemoveManyToManyAssociation) Inverse() Transformation { return nil }

func (*AddOneToOnePrimaryKeyAssociation) transformation()    {}
func (*AddOneToOneForeignKeyAssociation) transformation()    {}
func (*AddOneToManyAssociation) transformation()             {}
func (*AddManyToManyAssociation) transformation()            {}
func (*RemoveOneToOnePrimaryKeyAssociation) transformation() {}
func (*RemoveOneToOneForeignKeyAssociation) transformation() {}
func (*RemoveOneToManyAssociation) transformation()          {}
func (*RemoveManyToManyAssociation) transformation()         {}

// addNavigations returns the changes declaring the navigation and foreign
// key properties of a. The mapping chain of the association is attached to
// the property of the class it configures.
func addNavigations(a *edge.Association) ([]change.Operation, error) {
	if a == nil {
		return nil, evolve.NewPreconditionError("association", "no association given")
	}
	if _, err := edge.NewAssociation(a.Principal, a.Dependent, a.Info); err != nil {
		return nil, err
	}
	var (
		ops   []change.Operation
		chain = fluent.ForAssociation(a)
	)
	for _, e := range []edge.End{a.Principal, a.Dependent} {
		if e.Navigation != nil {
			ops = append(ops, &change.AddPropertyToClass{Class: e.Class, Property: e.Navigation.Copy()})
		}
	}
	for _, p := range a.Info.ForeignKeyProperties {
		ops = append(ops, &change.AddPropertyToClass{Class: a.Dependent.Class, Property: p.Copy()})
	}
	if len(ops) == 0 {
		return nil, evolve.NewPreconditionError("association", "association between %q and %q declares no property", a.Principal.Class, a.Dependent.Class)
	}
	target := ops[0].(*change.AddPropertyToClass)
	for _, op := range ops {
		if op := op.(*change.AddPropertyToClass); op.Class == chain.Entity {
			target = op
			break
		}
	}
	target.Mapping = append(target.Mapping, chain)
	return ops, nil
}

// removeNavigations returns the changes removing the navigation properties
// of both ends.
func removeNavigations(principal, dependent edge.Ref) []change.Operation {
	var ops []change.Operation
	for _, r := range []edge.Ref{principal, dependent} {
		if r.Navigation != "" {
			ops = append(ops, &change.RemovePropertyFromClass{Class: r.Class, Property: r.Navigation})
		}
	}
	return ops
}

// addForeignKey returns the operations adding the foreign key of a with its
// missing columns and an index over them.
func addForeignKey(b *migrate.Builder, a *edge.Association, unique bool) ([]migrate.Operation, error) {
	fk, cols, err := b.ForeignKeyFor(a)
	if err != nil {
		return nil, err
	}
	dt, err := b.OldTable(a.Dependent.Class)
	if err != nil {
		return nil, err
	}
	var ops []migrate.Operation
	for _, c := range cols {
		if _, ok := dt.ColumnByName(c.Name); !ok {
			ops = append(ops, &migrate.AddColumn{Table: fk.DependentTable, Column: c})
		}
	}
	idx := &migrate.CreateIndex{
		Table:   fk.DependentTable,
		Name:    migrate.IndexName(a.Info.ForeignKeyIndex, fk.DependentColumns...),
		Columns: fk.DependentColumns,
		Unique:  unique,
	}
	if a.Info.ForeignKeyIndex != nil {
		idx.Clustered = a.Info.ForeignKeyIndex.Clustered
	}
	return append(ops, idx, b.AddForeignKey(fk)), nil
}

// dropForeignKey returns the operations dropping the foreign key of the
// association between principal and dependent, its index and its columns.
func dropForeignKey(b *migrate.Builder, principal, dependent edge.Ref, columns []string) ([]migrate.Operation, error) {
	dt, err := b.OldTable(dependent.Class)
	if err != nil {
		return nil, err
	}
	fk, err := b.ExistingForeignKey(dependent.Class, principal.Class, dependent.Navigation, columns)
	if err != nil {
		return nil, err
	}
	ops := []migrate.Operation{
		b.DropForeignKey(fk),
		&migrate.DropIndex{Table: fk.DependentTable, Name: migrate.IndexName(nil, fk.DependentColumns...)},
	}
	for _, c := range fk.DependentColumns {
		// Columns of surviving foreign key properties stay.
		if cm, ok := dt.ColumnByName(c); ok && cm.Property != "" && !slices.Contains(columns, c) {
			continue
		}
		ops = append(ops, &migrate.DropColumn{Table: fk.DependentTable, Column: c})
	}
	return ops, nil
}

func cascade(a *edge.Association) bool {
	return a.Info.CascadeOnDelete != nil && *a.Info.CascadeOnDelete
}

// identityKey reports whether t has a single-column primary key generated
// as an identity.
func identityKey(t *migrate.TableMapping) bool {
	if len(t.PrimaryKey) != 1 {
		return false
	}
	c, ok := t.ColumnByName(t.PrimaryKey[0])
	return ok && c.Identity
}
