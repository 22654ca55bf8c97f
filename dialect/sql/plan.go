package sql

import (
	"fmt"

	atlas "ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/schema"

	"github.com/syssam/evolve/migrate"
)

// Plan returns the atlas plan executing ops in order. Every statement of
// an operation becomes one change commented with the operation
// description. Plans are transactional.
func Plan(version, name string, ops []migrate.Operation) (*atlas.Plan, error) {
	plan := &atlas.Plan{
		Version:       version,
		Name:          name,
		Transactional: true,
	}
	for _, op := range ops {
		stmts, err := Render(op)
		if err != nil {
			return nil, fmt.Errorf("dialect/sql: plan %s: %w", name, err)
		}
		source := change(op)
		for i, stmt := range stmts {
			c := &atlas.Change{Cmd: stmt, Source: source}
			if i == 0 {
				c.Comment = migrate.Describe(op)
			}
			plan.Changes = append(plan.Changes, c)
		}
	}
	return plan, nil
}

// WriteDir formats plans with the atlas default formatter, writes them to
// dir and updates its sum file.
func WriteDir(dir atlas.Dir, plans ...*atlas.Plan) error {
	for _, p := range plans {
		files, err := atlas.DefaultFormatter.Format(p)
		if err != nil {
			return fmt.Errorf("dialect/sql: format plan %s: %w", p.Name, err)
		}
		for _, f := range files {
			if err := dir.WriteFile(f.Name(), f.Bytes()); err != nil {
				return fmt.Errorf("dialect/sql: write %s: %w", f.Name(), err)
			}
		}
	}
	sum, err := dir.Checksum()
	if err != nil {
		return fmt.Errorf("dialect/sql: checksum: %w", err)
	}
	return atlas.WriteSumFile(dir, sum)
}

// change returns the atlas schema change an operation corresponds to, or
// nil for operations atlas has no counterpart for.
func change(op migrate.Operation) schema.Change {
	switch op := op.(type) {
	case *migrate.CreateTable:
		t := schema.NewTable(op.Name)
		for _, c := range op.Columns {
			t.AddColumns(column(c))
		}
		return &schema.AddTable{T: t}
	case *migrate.DropTable:
		return &schema.DropTable{T: schema.NewTable(op.Name)}
	case *migrate.RenameTable:
		return &schema.RenameTable{From: schema.NewTable(op.Old), To: schema.NewTable(op.New)}
	case *migrate.AddColumn:
		return modify(op.Table, &schema.AddColumn{C: column(op.Column)})
	case *migrate.DropColumn:
		return modify(op.Table, &schema.DropColumn{C: schema.NewColumn(op.Column)})
	case *migrate.RenameColumn:
		return modify(op.Table, &schema.RenameColumn{From: schema.NewColumn(op.Old), To: schema.NewColumn(op.New)})
	default:
		return nil
	}
}

func modify(table string, c schema.Change) schema.Change {
	return &schema.ModifyTable{T: schema.NewTable(table), Changes: []schema.Change{c}}
}

func column(c migrate.Column) *schema.Column {
	return schema.NewColumn(c.Name).
		SetType(&schema.UnsupportedType{T: c.Type}).
		SetNull(c.Nullable)
}
