package migrate

import (
	"strings"

	"github.com/syssam/evolve"
	"github.com/syssam/evolve/schema/edge"
)

// Builder builds migration operations from the mapping before a
// transformation (Old) and after it (New).
type Builder struct {
	Old Mapping
	New Mapping
}

// NewBuilder returns a builder over the two mappings.
func NewBuilder(old, new Mapping) *Builder {
	return &Builder{Old: old, New: new}
}

// OldTable returns the table of class before the transformation.
func (b *Builder) OldTable(class string) (*TableMapping, error) {
	return table(b.Old, class)
}

// NewTable returns the table of class after the transformation.
func (b *Builder) NewTable(class string) (*TableMapping, error) {
	return table(b.New, class)
}

func table(m Mapping, class string) (*TableMapping, error) {
	if m == nil {
		return nil, evolve.NewNotFoundError("table of class", class)
	}
	t, ok := m.Table(class)
	if !ok {
		return nil, evolve.NewNotFoundError("table of class", class)
	}
	return t, nil
}

// RenameTable renames the table of oldClass to the table of newClass. It
// returns no operation when both map to the same table.
func (b *Builder) RenameTable(oldClass, newClass string) ([]Operation, error) {
	ot, err := b.OldTable(oldClass)
	if err != nil {
		return nil, err
	}
	nt, err := b.NewTable(newClass)
	if err != nil {
		return nil, err
	}
	if ot.Name == nt.Name {
		return nil, nil
	}
	return []Operation{&RenameTable{Old: ot.Name, New: nt.Name}}, nil
}

// RenameColumn renames the columns of the property at oldPath to the
// columns of the property at newPath. A complex property renames every
// member column. Columns whose name does not change yield no operation.
func (b *Builder) RenameColumn(class, oldPath, newPath string) ([]Operation, error) {
	ot, err := b.OldTable(class)
	if err != nil {
		return nil, err
	}
	nt, err := b.NewTable(class)
	if err != nil {
		return nil, err
	}
	cols := ot.PropertyColumns(oldPath)
	if len(cols) == 0 {
		return nil, evolve.NewNotFoundError("column of property", class+"."+oldPath)
	}
	var ops []Operation
	for _, c := range cols {
		path := newPath + strings.TrimPrefix(c.Property, oldPath)
		nc, ok := nt.Column(path)
		if !ok {
			return nil, evolve.NewNotFoundError("column of property", class+"."+path)
		}
		if c.Name != nc.Name {
			ops = append(ops, &RenameColumn{Table: ot.Name, Old: c.Name, New: nc.Name})
		}
	}
	return ops, nil
}

// RenameColumnsForJoinComplexType renames the member columns of complexType
// embedded in the table of class to the names of the properties moved back
// into class.
func (b *Builder) RenameColumnsForJoinComplexType(complexType, class string) ([]Operation, error) {
	ot, err := b.OldTable(class)
	if err != nil {
		return nil, err
	}
	nt, err := b.NewTable(class)
	if err != nil {
		return nil, err
	}
	var ops []Operation
	for _, c := range ot.Columns {
		if c.ComplexType != complexType {
			continue
		}
		nc, ok := nt.Column(c.Member())
		if !ok {
			// The member does not survive the join.
			continue
		}
		if c.Name != nc.Name {
			ops = append(ops, &RenameColumn{Table: ot.Name, Old: c.Name, New: nc.Name})
		}
	}
	return ops, nil
}

// CreateTable creates the table of class with its foreign keys.
func (b *Builder) CreateTable(class string) ([]Operation, error) {
	nt, err := b.NewTable(class)
	if err != nil {
		return nil, err
	}
	ops := []Operation{nt.Definition()}
	for _, fk := range nt.ForeignKeys {
		ops = append(ops, &AddForeignKey{ForeignKey: nt.ForeignKey(fk)})
	}
	return ops, nil
}

// DropTable drops the table of class after dropping the foreign keys of
// other tables referencing it.
func (b *Builder) DropTable(class string) ([]Operation, error) {
	ot, err := b.OldTable(class)
	if err != nil {
		return nil, err
	}
	var ops []Operation
	for _, t := range b.Old.Tables() {
		if t == ot {
			continue
		}
		for _, fk := range t.ForeignKeys {
			if fk.PrincipalTable == ot.Name {
				ops = append(ops, &DropForeignKey{ForeignKey: t.ForeignKey(fk)})
			}
		}
	}
	return append(ops, &DropTable{Name: ot.Name}), nil
}

// AddColumns adds the columns of property to the table of class.
func (b *Builder) AddColumns(class, property string) ([]Operation, error) {
	nt, err := b.NewTable(class)
	if err != nil {
		return nil, err
	}
	cols := nt.PropertyColumns(property)
	if len(cols) == 0 {
		return nil, evolve.NewNotFoundError("column of property", class+"."+property)
	}
	ops := make([]Operation, len(cols))
	for i, c := range cols {
		ops[i] = &AddColumn{Table: nt.Name, Column: c.Column()}
	}
	return ops, nil
}

// DropColumns drops the columns of property from the table of class.
func (b *Builder) DropColumns(class, property string) ([]Operation, error) {
	ot, err := b.OldTable(class)
	if err != nil {
		return nil, err
	}
	cols := ot.PropertyColumns(property)
	if len(cols) == 0 {
		return nil, evolve.NewNotFoundError("column of property", class+"."+property)
	}
	ops := make([]Operation, len(cols))
	for i, c := range cols {
		ops[i] = &DropColumn{Table: ot.Name, Column: c.Name}
	}
	return ops, nil
}

// InsertFrom copies fromProps of fromClass, resolved in the old mapping, into
// toProps of toClass, resolved in the new mapping. The lists are zipped
// positionally and must have the same length.
func (b *Builder) InsertFrom(fromClass string, fromProps []string, toClass string, toProps []string) (*InsertFrom, error) {
	if err := sameArity("insert-from", "properties", fromProps, toProps); err != nil {
		return nil, err
	}
	from, err := b.columns(b.Old, fromClass, fromProps)
	if err != nil {
		return nil, err
	}
	to, err := b.columns(b.New, toClass, toProps)
	if err != nil {
		return nil, err
	}
	return NewInsertFrom(from, to)
}

// UpdateFrom copies fromProps of fromClass into toProps of toClass for the
// rows joined on fromJoin = toJoin. Join lists name columns.
func (b *Builder) UpdateFrom(fromClass string, fromProps, fromJoin []string, toClass string, toProps, toJoin []string) (*UpdateFrom, error) {
	if err := sameArity("update-from", "properties", fromProps, toProps); err != nil {
		return nil, err
	}
	from, err := b.columns(b.Old, fromClass, fromProps)
	if err != nil {
		return nil, err
	}
	to, err := b.columns(b.New, toClass, toProps)
	if err != nil {
		return nil, err
	}
	return NewUpdateFrom(from, to, fromJoin, toJoin)
}

func (b *Builder) columns(m Mapping, class string, props []string) (TableColumns, error) {
	t, err := table(m, class)
	if err != nil {
		return TableColumns{}, err
	}
	tc := TableColumns{Table: t.Name}
	for _, p := range props {
		cols := t.PropertyColumns(p)
		if len(cols) == 0 {
			// Key columns without a property are addressed by name.
			c, ok := t.ColumnByName(p)
			if !ok {
				return TableColumns{}, evolve.NewNotFoundError("column of property", class+"."+p)
			}
			cols = []ColumnMapping{c}
		}
		for _, c := range cols {
			tc.Columns = append(tc.Columns, c.Name)
		}
	}
	return tc, nil
}

// Identity returns the operation switching the identity policy of the
// single-column primary key of class. Dependents are the foreign keys
// referencing the key in the old mapping.
func (b *Builder) Identity(class string, on bool) (*Identity, error) {
	ot, err := b.OldTable(class)
	if err != nil {
		return nil, err
	}
	if len(ot.PrimaryKey) != 1 {
		return nil, evolve.NewPreconditionError("identity", "table %q must have a single-column primary key, has %d", ot.Name, len(ot.PrimaryKey))
	}
	col, ok := ot.ColumnByName(ot.PrimaryKey[0])
	if !ok {
		return nil, evolve.NewNotFoundError("column", ot.Name+"."+ot.PrimaryKey[0])
	}
	return &Identity{
		PrincipalTable:  ot.Name,
		PrincipalColumn: col.Column(),
		Dependents:      ForeignKeysReferencing(b.Old, ot.Name, col.Name),
		On:              on,
	}, nil
}

// ForeignKeyFor returns the foreign key of a new association and the
// columns that must be added to the dependent table for it. Explicit
// foreign-key columns or properties win over the conventional
// "<Navigation>_<Key>" names.
func (b *Builder) ForeignKeyFor(a *edge.Association) (ForeignKey, []Column, error) {
	pt, err := b.NewTable(a.Principal.Class)
	if err != nil {
		return ForeignKey{}, nil, err
	}
	dt, err := b.NewTable(a.Dependent.Class)
	if err != nil {
		return ForeignKey{}, nil, err
	}
	keys := pt.KeyColumns()
	names := a.ForeignKeyNames()
	if len(names) == 0 {
		prefix := a.Dependent.NavigationName()
		if prefix == "" {
			prefix = a.Principal.Class
		}
		for _, k := range keys {
			names = append(names, ForeignKeyColumnName(prefix, k.Name))
		}
	}
	if len(names) != len(keys) {
		return ForeignKey{}, nil, evolve.NewPreconditionError("foreign-key", "%d foreign key columns for %d key columns of %q", len(names), len(keys), pt.Name)
	}
	fk := ForeignKey{
		DependentTable: dt.Name,
		PrincipalTable: pt.Name,
		CascadeDelete:  a.Info.CascadeOnDelete != nil && *a.Info.CascadeOnDelete,
	}
	var cols []Column
	for i, k := range keys {
		name := names[i]
		if c, ok := dt.Column(name); ok {
			name = c.Name
		}
		fk.DependentColumns = append(fk.DependentColumns, name)
		fk.PrincipalColumns = append(fk.PrincipalColumns, k.Name)
		// Foreign-key properties keep their own column definition.
		if c, ok := dt.ColumnByName(name); ok && c.Property != "" {
			cols = append(cols, c.Column())
			continue
		}
		cols = append(cols, Column{Name: name, Type: k.Type, Nullable: a.Principal.Multiplicity != edge.MultiplicityOne})
	}
	fk.Name = ForeignKeyName(fk.DependentTable, fk.PrincipalTable, fk.DependentColumns...)
	return fk, cols, nil
}

// ExistingForeignKey returns the foreign key of dependentClass referencing
// principalClass in the old mapping. When the mapping declares none, the key
// is derived from columns, or from the conventional names over navigation.
func (b *Builder) ExistingForeignKey(dependentClass, principalClass, navigation string, columns []string) (ForeignKey, error) {
	dt, err := b.OldTable(dependentClass)
	if err != nil {
		return ForeignKey{}, err
	}
	pt, err := b.OldTable(principalClass)
	if err != nil {
		return ForeignKey{}, err
	}
	if fk, ok := dt.ForeignKeyTo(pt.Name); ok {
		return dt.ForeignKey(fk), nil
	}
	fk := ForeignKey{DependentTable: dt.Name, PrincipalTable: pt.Name}
	if navigation == "" {
		navigation = principalClass
	}
	for i, k := range pt.KeyColumns() {
		name := ForeignKeyColumnName(navigation, k.Name)
		if i < len(columns) {
			name = columns[i]
		}
		fk.DependentColumns = append(fk.DependentColumns, name)
		fk.PrincipalColumns = append(fk.PrincipalColumns, k.Name)
	}
	fk.Name = ForeignKeyName(fk.DependentTable, fk.PrincipalTable, fk.DependentColumns...)
	return fk, nil
}

// JoinTableFor returns the join table of a new many-to-many association and
// its two foreign keys.
func (b *Builder) JoinTableFor(a *edge.Association) (*CreateTable, []ForeignKey, error) {
	lt, err := b.NewTable(a.Principal.Class)
	if err != nil {
		return nil, nil, err
	}
	rt, err := b.NewTable(a.Dependent.Class)
	if err != nil {
		return nil, nil, err
	}
	jt := a.Info.JoinTable
	if jt == nil {
		jt = &edge.JoinTable{}
	}
	op := &CreateTable{Name: jt.Name}
	if op.Name == "" {
		op.Name = JoinTableName(a.Principal.Class, a.Dependent.Class)
	}
	var fks []ForeignKey
	for _, side := range []struct {
		class string
		t     *TableMapping
		names []string
	}{
		{a.Principal.Class, lt, jt.LeftKeys},
		{a.Dependent.Class, rt, jt.RightKeys},
	} {
		fk := ForeignKey{DependentTable: op.Name, PrincipalTable: side.t.Name, CascadeDelete: true}
		for i, k := range side.t.KeyColumns() {
			name := ForeignKeyColumnName(side.class, k.Name)
			if i < len(side.names) {
				name = side.names[i]
			}
			op.Columns = append(op.Columns, Column{Name: name, Type: k.Type})
			op.PrimaryKey = append(op.PrimaryKey, name)
			fk.DependentColumns = append(fk.DependentColumns, name)
			fk.PrincipalColumns = append(fk.PrincipalColumns, k.Name)
		}
		fk.Name = ForeignKeyName(fk.DependentTable, fk.PrincipalTable, fk.DependentColumns...)
		fks = append(fks, fk)
	}
	return op, fks, nil
}

// ExistingJoinTable returns the join table connecting the tables of the two
// classes in the old mapping, falling back to the conventional definition.
func (b *Builder) ExistingJoinTable(left, right string) (*TableMapping, error) {
	lt, err := b.OldTable(left)
	if err != nil {
		return nil, err
	}
	rt, err := b.OldTable(right)
	if err != nil {
		return nil, err
	}
	for _, t := range b.Old.Tables() {
		if t.Class != "" {
			continue
		}
		_, l := t.ForeignKeyTo(lt.Name)
		_, r := t.ForeignKeyTo(rt.Name)
		if l && r {
			return t, nil
		}
	}
	t := &TableMapping{Name: JoinTableName(left, right)}
	for _, side := range []struct {
		class string
		t     *TableMapping
	}{{left, lt}, {right, rt}} {
		fk := ForeignKeyMapping{PrincipalTable: side.t.Name, CascadeDelete: true}
		for _, k := range side.t.KeyColumns() {
			name := ForeignKeyColumnName(side.class, k.Name)
			t.Columns = append(t.Columns, ColumnMapping{Name: name, Type: k.Type})
			t.PrimaryKey = append(t.PrimaryKey, name)
			fk.Columns = append(fk.Columns, name)
			fk.PrincipalColumns = append(fk.PrincipalColumns, k.Name)
		}
		t.ForeignKeys = append(t.ForeignKeys, fk)
	}
	return t, nil
}

// AddForeignKey returns the operation adding fk.
func (b *Builder) AddForeignKey(fk ForeignKey) *AddForeignKey {
	return &AddForeignKey{ForeignKey: fk}
}

// DropForeignKey returns the operation dropping fk.
func (b *Builder) DropForeignKey(fk ForeignKey) *DropForeignKey {
	return &DropForeignKey{ForeignKey: fk}
}

// ForeignKeysReferencing returns the foreign keys referencing the
// single-column primary key of class in the old mapping.
func (b *Builder) ForeignKeysReferencing(class string) ([]DependentColumn, error) {
	ot, err := b.OldTable(class)
	if err != nil {
		return nil, err
	}
	var deps []DependentColumn
	for _, k := range ot.PrimaryKey {
		deps = append(deps, ForeignKeysReferencing(b.Old, ot.Name, k)...)
	}
	return deps, nil
}
