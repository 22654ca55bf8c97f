package migrate

import (
	"strings"

	"github.com/syssam/evolve"
)

// Table aliases used by UpdateFrom statements.
const (
	FromAlias = "fromTable"
	ToAlias   = "toTable"
)

// TempPrefix prefixes the temporary name of a principal column while its
// identity policy changes.
const TempPrefix = "old_"

// TempColumn returns the temporary name of column.
func TempColumn(column string) string { return TempPrefix + column }

// NewInsertFrom returns an InsertFrom zipping from and to positionally. The
// column lists must have the same non-zero length.
func NewInsertFrom(from, to TableColumns) (*InsertFrom, error) {
	if err := sameArity("insert-from", "columns", from.Columns, to.Columns); err != nil {
		return nil, err
	}
	return &InsertFrom{From: from, To: to}, nil
}

// NewUpdateFrom returns an UpdateFrom zipping from and to, and the join
// columns, positionally.
func NewUpdateFrom(from, to TableColumns, fromJoin, toJoin []string) (*UpdateFrom, error) {
	if err := sameArity("update-from", "columns", from.Columns, to.Columns); err != nil {
		return nil, err
	}
	if err := sameArity("update-from", "join columns", fromJoin, toJoin); err != nil {
		return nil, err
	}
	return &UpdateFrom{From: from, To: to, FromJoin: fromJoin, ToJoin: toJoin}, nil
}

func sameArity(op, what string, from, to []string) error {
	if len(from) == 0 {
		return evolve.NewPreconditionError(op, "no %s given", what)
	}
	if len(from) != len(to) {
		return evolve.NewPreconditionError(op, "%d source %s but %d destination %s", len(from), what, len(to), what)
	}
	return nil
}

// SQL returns the statement:
//
//	INSERT INTO <to> (<to cols>) SELECT <from cols> FROM <from>
func (op *InsertFrom) SQL() string {
	return "INSERT INTO " + op.To.Table + " (" + strings.Join(op.To.Columns, ", ") + ") " +
		"SELECT " + strings.Join(op.From.Columns, ", ") + " FROM " + op.From.Table
}

// SQL returns the statement:
//
//	UPDATE toTable SET toTable.<c> = fromTable.<c>, ...
//	FROM <to> AS toTable INNER JOIN <from> AS fromTable ON toTable.<j> = fromTable.<j>
//
// on a single line. Multiple join conditions are combined with AND.
func (op *UpdateFrom) SQL() string {
	return "UPDATE " + ToAlias + " SET " + zipAliased(op.To.Columns, op.From.Columns, ", ") +
		" FROM " + op.To.Table + " AS " + ToAlias +
		" INNER JOIN " + op.From.Table + " AS " + FromAlias +
		" ON " + zipAliased(op.ToJoin, op.FromJoin, " AND ")
}

func zipAliased(to, from []string, sep string) string {
	n := min(len(to), len(from))
	parts := make([]string, n)
	for i := range n {
		parts[i] = ToAlias + "." + to[i] + " = " + FromAlias + "." + from[i]
	}
	return strings.Join(parts, sep)
}

// CopyIdentitySQL returns the statement copying the temporary column into the
// restored principal column when identity is switched off.
func CopyIdentitySQL(table, column string) string {
	return "UPDATE " + table + " SET " + column + " = " + TempColumn(column) + ";"
}

// RequireColumnSQL returns the statement restoring NOT NULL on a column that
// was added as nullable.
func RequireColumnSQL(table string, c Column) string {
	return "ALTER TABLE " + table + " ALTER COLUMN " + c.Name + " " + c.Type + " NOT NULL;"
}

// RepointSQL returns the statement pointing a dependent foreign key at the
// newly generated principal value when identity is switched on. It picks the
// first principal row whose temporary column matches; callers must keep the
// temporary column unique for the result to be deterministic.
func RepointSQL(principalTable, principalColumn string, d DependentColumn) string {
	return "UPDATE " + d.DependentTable +
		" SET " + d.ForeignKeyColumn +
		" = (SELECT TOP 1 " + principalColumn +
		" FROM " + principalTable +
		" WHERE " + TempColumn(principalColumn) + " = " + d.DependentTable + "." + d.ForeignKeyColumn + ")"
}
