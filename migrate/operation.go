package migrate

import (
	"fmt"
	"strings"
)

// Operation is a single migration intent. The set of operations is closed;
// dialects switch over the concrete types exhaustively.
type Operation interface {
	// Kind returns the operation name, e.g. "AddColumn".
	Kind() string
	operation()
}

// Column defines a table column.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Identity bool
}

// CreateTable creates a table with its columns and primary key.
type CreateTable struct {
	Name       string
	Columns    []Column
	PrimaryKey []string
}

// DropTable drops a table.
type DropTable struct {
	Name string
}

// RenameTable renames a table.
type RenameTable struct {
	Old, New string
}

// AddColumn adds a column to a table.
type AddColumn struct {
	Table  string
	Column Column
}

// DropColumn drops a column.
type DropColumn struct {
	Table  string
	Column string
}

// RenameColumn renames a column.
type RenameColumn struct {
	Table    string
	Old, New string
}

// AddPrimaryKey adds a primary-key constraint.
type AddPrimaryKey struct {
	Table   string
	Name    string
	Columns []string
}

// DropPrimaryKey drops the primary-key constraint of a table.
type DropPrimaryKey struct {
	Table string
	Name  string
}

// ForeignKey describes a foreign-key constraint.
type ForeignKey struct {
	Name             string
	DependentTable   string
	DependentColumns []string
	PrincipalTable   string
	PrincipalColumns []string
	CascadeDelete    bool
}

// AddForeignKey adds a foreign-key constraint.
type AddForeignKey struct {
	ForeignKey
}

// DropForeignKey drops a foreign-key constraint.
type DropForeignKey struct {
	ForeignKey
}

// CreateIndex creates an index.
type CreateIndex struct {
	Table     string
	Name      string
	Columns   []string
	Unique    bool
	Clustered bool
}

// DropIndex drops an index.
type DropIndex struct {
	Table string
	Name  string
}

// SQL is a raw statement.
type SQL struct {
	Statement string
}

// TableColumns names columns of one table.
type TableColumns struct {
	Table   string
	Columns []string
}

// InsertFrom copies the From columns of every row into the To columns of a
// new row. Column lists are zipped positionally.
type InsertFrom struct {
	From, To TableColumns
}

// UpdateFrom copies the From columns into the To columns of the rows joined
// on the join columns. Column lists are zipped positionally.
type UpdateFrom struct {
	From, To         TableColumns
	FromJoin, ToJoin []string
}

// DependentColumn is a foreign-key column referencing a principal column.
type DependentColumn struct {
	DependentTable   string
	ForeignKeyColumn string
	// ForeignKey is the constraint name; empty means the conventional name.
	ForeignKey string
}

// Identity switches the database generation of a primary key column on or off.
type Identity struct {
	PrincipalTable  string
	PrincipalColumn Column
	Dependents      []DependentColumn
	On              bool
}

// Kind implements Operation.
func (*CreateTable) Kind() string    { return "CreateTable" }
func (*DropTable) Kind() string      { return "DropTable" }
func (*RenameTable) Kind() string    { return "RenameTable" }
func (*AddColumn) Kind() string      { return "AddColumn" }
func (*DropColumn) Kind() string     { return "DropColumn" }
func (*RenameColumn) Kind() string   { return "RenameColumn" }
func (*AddPrimaryKey) Kind() string  { return "AddPrimaryKey" }
func (*DropPrimaryKey) Kind() string { return "DropPrimaryKey" }
func (*AddForeignKey) Kind() string  { return "AddForeignKey" }
func (*DropForeignKey) Kind() string { return "DropForeignKey" }
func (*CreateIndex) Kind() string    { return "CreateIndex" }
func (*DropIndex) Kind() string      { return "DropIndex" }
func (*SQL) Kind() string            { return "SQL" }
func (*InsertFrom) Kind() string     { return "InsertFrom" }
func (*UpdateFrom) Kind() string     { return "UpdateFrom" }
func (*Identity) Kind() string       { return "Identity" }

func (*CreateTable) operation()    {}
func (*DropTable) operation()      {}
func (*RenameTable) operation()    {}
func (*AddColumn) operation()      {}
func (*DropColumn) operation()     {}
func (*RenameColumn) operation()   {}
func (*AddPrimaryKey) operation()  {}
func (*DropPrimaryKey) operation() {}
func (*AddForeignKey) operation()  {}
func (*DropForeignKey) operation() {}
func (*CreateIndex) operation()    {}
func (*DropIndex) operation()      {}
func (*SQL) operation()            {}
func (*InsertFrom) operation()     {}
func (*UpdateFrom) operation()     {}
func (*Identity) operation()       {}

// Describe returns a one-line human readable description of op.
func Describe(op Operation) string {
	switch op := op.(type) {
	case *CreateTable:
		return fmt.Sprintf("create table %s (%d columns)", op.Name, len(op.Columns))
	case *DropTable:
		return "drop table " + op.Name
	case *RenameTable:
		return fmt.Sprintf("rename table %s to %s", op.Old, op.New)
	case *AddColumn:
		return fmt.Sprintf("add column %s.%s", op.Table, op.Column.Name)
	case *DropColumn:
		return fmt.Sprintf("drop column %s.%s", op.Table, op.Column)
	case *RenameColumn:
		return fmt.Sprintf("rename column %s.%s to %s", op.Table, op.Old, op.New)
	case *AddPrimaryKey:
		return fmt.Sprintf("add primary key %s on %s(%s)", op.Name, op.Table, strings.Join(op.Columns, ", "))
	case *DropPrimaryKey:
		return fmt.Sprintf("drop primary key %s on %s", op.Name, op.Table)
	case *AddForeignKey:
		return "add foreign key " + op.Name
	case *DropForeignKey:
		return "drop foreign key " + op.Name
	case *CreateIndex:
		return fmt.Sprintf("create index %s on %s(%s)", op.Name, op.Table, strings.Join(op.Columns, ", "))
	case *DropIndex:
		return fmt.Sprintf("drop index %s on %s", op.Name, op.Table)
	case *SQL:
		return "sql: " + op.Statement
	case *InsertFrom:
		return fmt.Sprintf("insert into %s from %s", op.To.Table, op.From.Table)
	case *UpdateFrom:
		return fmt.Sprintf("update %s from %s", op.To.Table, op.From.Table)
	case *Identity:
		state := "off"
		if op.On {
			state = "on"
		}
		return fmt.Sprintf("identity %s on %s.%s", state, op.PrincipalTable, op.PrincipalColumn.Name)
	default:
		panic(fmt.Sprintf("migrate: unexpected operation %T", op))
	}
}

var (
	_ Operation = (*CreateTable)(nil)
	_ Operation = (*DropTable)(nil)
	_ Operation = (*RenameTable)(nil)
	_ Operation = (*AddColumn)(nil)
	_ Operation = (*DropColumn)(nil)
	_ Operation = (*RenameColumn)(nil)
	_ Operation = (*AddPrimaryKey)(nil)
	_ Operation = (*DropPrimaryKey)(nil)
	_ Operation = (*AddForeignKey)(nil)
	_ Operation = (*DropForeignKey)(nil)
	_ Operation = (*CreateIndex)(nil)
	_ Operation = (*DropIndex)(nil)
	_ Operation = (*SQL)(nil)
	_ Operation = (*InsertFrom)(nil)
	_ Operation = (*UpdateFrom)(nil)
	_ Operation = (*Identity)(nil)
)
