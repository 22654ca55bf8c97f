package sql

import (
	"fmt"
	"strings"

	"github.com/syssam/evolve/migrate"
)

// Render returns the SQL Server statements of op, without terminating
// semicolons. An Identity operation renders its expanded sequence.
func Render(op migrate.Operation) ([]string, error) {
	var b builder
	b.render(op)
	if b.err != nil {
		return nil, b.err
	}
	return b.stmts, nil
}

// RenderAll renders ops in order.
func RenderAll(ops []migrate.Operation) ([]string, error) {
	var b builder
	for _, op := range ops {
		b.render(op)
	}
	if b.err != nil {
		return nil, b.err
	}
	return b.stmts, nil
}

// builder collects statements and keeps the first error.
type builder struct {
	stmts []string
	err   error
}

func (b *builder) add(format string, args ...any) {
	b.stmts = append(b.stmts, fmt.Sprintf(format, args...))
}

func (b *builder) render(op migrate.Operation) {
	if b.err != nil {
		return
	}
	switch op := op.(type) {
	case *migrate.CreateTable:
		defs := make([]string, 0, len(op.Columns)+1)
		for _, c := range op.Columns {
			defs = append(defs, b.column(c))
		}
		if len(op.PrimaryKey) > 0 {
			defs = append(defs, fmt.Sprintf("CONSTRAINT %s PRIMARY KEY (%s)",
				b.quote(migrate.PrimaryKeyName(op.Name)), b.list(op.PrimaryKey)))
		}
		b.add("CREATE TABLE %s (%s)", b.quote(op.Name), strings.Join(defs, ", "))
	case *migrate.DropTable:
		b.add("DROP TABLE %s", b.quote(op.Name))
	case *migrate.RenameTable:
		b.add("EXEC sp_rename %s, %s", b.literal(b.quote(op.Old)), b.literal(op.New))
	case *migrate.AddColumn:
		b.add("ALTER TABLE %s ADD %s", b.quote(op.Table), b.column(op.Column))
	case *migrate.DropColumn:
		b.add("ALTER TABLE %s DROP COLUMN %s", b.quote(op.Table), b.quote(op.Column))
	case *migrate.RenameColumn:
		b.add("EXEC sp_rename %s, %s, N'COLUMN'",
			b.literal(b.quote(op.Table)+"."+b.quote(op.Old)), b.literal(op.New))
	case *migrate.AddPrimaryKey:
		b.add("ALTER TABLE %s ADD CONSTRAINT %s PRIMARY KEY (%s)", b.quote(op.Table), b.quote(op.Name), b.list(op.Columns))
	case *migrate.DropPrimaryKey:
		b.add("ALTER TABLE %s DROP CONSTRAINT %s", b.quote(op.Table), b.quote(op.Name))
	case *migrate.AddForeignKey:
		stmt := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
			b.quote(op.DependentTable), b.quote(op.Name), b.list(op.DependentColumns),
			b.quote(op.PrincipalTable), b.list(op.PrincipalColumns))
		if op.CascadeDelete {
			stmt += " ON DELETE CASCADE"
		}
		b.stmts = append(b.stmts, stmt)
	case *migrate.DropForeignKey:
		b.add("ALTER TABLE %s DROP CONSTRAINT %s", b.quote(op.DependentTable), b.quote(op.Name))
	case *migrate.CreateIndex:
		var kind strings.Builder
		if op.Unique {
			kind.WriteString("UNIQUE ")
		}
		if op.Clustered {
			kind.WriteString("CLUSTERED ")
		}
		b.add("CREATE %sINDEX %s ON %s (%s)", kind.String(), b.quote(op.Name), b.quote(op.Table), b.list(op.Columns))
	case *migrate.DropIndex:
		b.add("DROP INDEX %s ON %s", b.quote(op.Name), b.quote(op.Table))
	case *migrate.SQL:
		b.stmts = append(b.stmts, strings.TrimSuffix(strings.TrimSpace(op.Statement), ";"))
	case *migrate.InsertFrom:
		b.stmts = append(b.stmts, op.SQL())
	case *migrate.UpdateFrom:
		b.stmts = append(b.stmts, op.SQL())
	case *migrate.Identity:
		for _, step := range migrate.ExpandIdentity(op) {
			b.render(step)
		}
	default:
		b.err = fmt.Errorf("dialect/sql: unexpected operation %T", op)
	}
}

func (b *builder) column(c migrate.Column) string {
	def := b.quote(c.Name) + " " + c.Type
	if c.Nullable {
		def += " NULL"
	} else {
		def += " NOT NULL"
	}
	if c.Identity {
		def += " IDENTITY"
	}
	return def
}

// quote returns the bracket-quoted identifier. Schema-qualified names are
// quoted part by part.
func (b *builder) quote(ident string) string {
	if !isValidIdentifier(ident) {
		if b.err == nil {
			b.err = fmt.Errorf("dialect/sql: invalid identifier %q", ident)
		}
		return ident
	}
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		parts[i] = "[" + p + "]"
	}
	return strings.Join(parts, ".")
}

func (b *builder) list(idents []string) string {
	quoted := make([]string, len(idents))
	for i, c := range idents {
		quoted[i] = b.quote(c)
	}
	return strings.Join(quoted, ", ")
}

// literal returns s as a unicode string literal.
func (b *builder) literal(s string) string {
	return "N'" + strings.ReplaceAll(s, "'", "''") + "'"
}
