package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/evolve/change"
	"github.com/syssam/evolve/compiler/fluent"
	"github.com/syssam/evolve/migrate"
	"github.com/syssam/evolve/transform"
)

const migratePkg = "github.com/syssam/evolve/migrate"

// MigrationFile returns the generated model migration of res: a type named
// after the migration whose Up and Down methods return the database
// operations of both passes and whose Mapping method returns the mapping
// statements the up pass introduces.
func (c *Config) MigrationFile(res *transform.Result) (*jen.File, error) {
	f := c.newFile(c.PackageName())
	name := res.Name

	f.Commentf("%s is the model migration %s.", name, res.ID)
	f.Comment("")
	f.Comment("Up:")
	for _, line := range describe(res.Up) {
		f.Comment("  - " + line)
	}
	if len(res.Dropped) > 0 {
		f.Comment("")
		f.Comment("Left out of Down, no inverse:")
		for _, t := range res.Dropped {
			f.Comment("  - " + transform.Describe(t))
		}
	}
	f.Type().Id(name).Struct()

	f.Comment("ID returns the migration id.")
	f.Func().Params(jen.Id(name)).Id("ID").Params().String().Block(
		jen.Return(jen.Lit(res.ID)),
	)
	f.Comment("Name returns the migration name.")
	f.Func().Params(jen.Id(name)).Id("Name").Params().String().Block(
		jen.Return(jen.Lit(res.Name)),
	)

	for _, pass := range []struct {
		method, doc string
		ops         []migrate.Operation
	}{
		{"Up", "Up returns the database operations of the up pass.", res.Up.Operations()},
		{"Down", "Down returns the database operations reverting Up.", res.Down.Operations()},
	} {
		values, err := operations(pass.ops)
		if err != nil {
			return nil, err
		}
		f.Comment(pass.doc)
		f.Func().Params(jen.Id(name)).Id(pass.method).Params().Index().Qual(migratePkg, "Operation").Block(
			jen.Return(jen.Index().Qual(migratePkg, "Operation").ValuesFunc(func(g *jen.Group) {
				for _, v := range values {
					g.Line().Add(v)
				}
				if len(values) > 0 {
					g.Line()
				}
			})),
		)
	}

	stmts, err := mappingStatements(res.Up.Changes())
	if err != nil {
		return nil, err
	}
	f.Comment("Mapping returns the mapping statements introduced by Up.")
	f.Func().Params(jen.Id(name)).Id("Mapping").Params().Index().String().Block(
		jen.Return(jen.Index().String().ValuesFunc(func(g *jen.Group) {
			for _, s := range stmts {
				g.Line().Lit(s)
			}
			if len(stmts) > 0 {
				g.Line()
			}
		})),
	)
	return f, nil
}

func (c *Config) newFile(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	if c.Header != "" {
		f.HeaderComment(c.Header)
	}
	return f
}

func describe(p *transform.Pass) []string {
	lines := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		lines[i] = transform.Describe(s.Transformation)
	}
	return lines
}

// mappingStatements renders the mapping chains carried by changes in order.
func mappingStatements(changes []change.Operation) ([]string, error) {
	var stmts []string
	for _, op := range changes {
		var chains []fluent.Chain
		switch op := op.(type) {
		case *change.CreateEmptyClass:
			chains = op.Mapping
		case *change.AddPropertyToClass:
			chains = op.Mapping
		}
		for _, ch := range chains {
			g, err := fluent.Render(ch)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, g.Statement())
		}
	}
	return stmts, nil
}

func operations(ops []migrate.Operation) ([]jen.Code, error) {
	codes := make([]jen.Code, len(ops))
	for i, op := range ops {
		c, err := operation(op)
		if err != nil {
			return nil, err
		}
		codes[i] = c
	}
	return codes, nil
}

// operation returns the composite literal constructing op.
func operation(op migrate.Operation) (jen.Code, error) {
	d := jen.Dict{}
	switch op := op.(type) {
	case *migrate.CreateTable:
		lit(d, "Name", op.Name)
		if len(op.Columns) > 0 {
			d[jen.Id("Columns")] = jen.Index().Qual(migratePkg, "Column").ValuesFunc(func(g *jen.Group) {
				for _, c := range op.Columns {
					g.Add(column(c, false))
				}
			})
		}
		strs(d, "PrimaryKey", op.PrimaryKey)
	case *migrate.DropTable:
		lit(d, "Name", op.Name)
	case *migrate.RenameTable:
		lit(d, "Old", op.Old)
		lit(d, "New", op.New)
	case *migrate.AddColumn:
		lit(d, "Table", op.Table)
		d[jen.Id("Column")] = column(op.Column, true)
	case *migrate.DropColumn:
		lit(d, "Table", op.Table)
		lit(d, "Column", op.Column)
	case *migrate.RenameColumn:
		lit(d, "Table", op.Table)
		lit(d, "Old", op.Old)
		lit(d, "New", op.New)
	case *migrate.AddPrimaryKey:
		lit(d, "Table", op.Table)
		lit(d, "Name", op.Name)
		strs(d, "Columns", op.Columns)
	case *migrate.DropPrimaryKey:
		lit(d, "Table", op.Table)
		lit(d, "Name", op.Name)
	case *migrate.AddForeignKey:
		d[jen.Id("ForeignKey")] = foreignKey(op.ForeignKey)
	case *migrate.DropForeignKey:
		d[jen.Id("ForeignKey")] = foreignKey(op.ForeignKey)
	case *migrate.CreateIndex:
		lit(d, "Table", op.Table)
		lit(d, "Name", op.Name)
		strs(d, "Columns", op.Columns)
		flag(d, "Unique", op.Unique)
		flag(d, "Clustered", op.Clustered)
	case *migrate.DropIndex:
		lit(d, "Table", op.Table)
		lit(d, "Name", op.Name)
	case *migrate.SQL:
		lit(d, "Statement", op.Statement)
	case *migrate.InsertFrom:
		d[jen.Id("From")] = tableColumns(op.From)
		d[jen.Id("To")] = tableColumns(op.To)
	case *migrate.UpdateFrom:
		d[jen.Id("From")] = tableColumns(op.From)
		d[jen.Id("To")] = tableColumns(op.To)
		strs(d, "FromJoin", op.FromJoin)
		strs(d, "ToJoin", op.ToJoin)
	case *migrate.Identity:
		lit(d, "PrincipalTable", op.PrincipalTable)
		d[jen.Id("PrincipalColumn")] = column(op.PrincipalColumn, true)
		if len(op.Dependents) > 0 {
			d[jen.Id("Dependents")] = jen.Index().Qual(migratePkg, "DependentColumn").ValuesFunc(func(g *jen.Group) {
				for _, dep := range op.Dependents {
					dd := jen.Dict{}
					lit(dd, "DependentTable", dep.DependentTable)
					lit(dd, "ForeignKeyColumn", dep.ForeignKeyColumn)
					lit(dd, "ForeignKey", dep.ForeignKey)
					g.Values(dd)
				}
			})
		}
		flag(d, "On", op.On)
	default:
		return nil, NewGenerationError("migration", "", "", fmt.Sprintf("unexpected operation %T", op), nil)
	}
	return jen.Op("&").Qual(migratePkg, op.Kind()).Values(d), nil
}

func column(c migrate.Column, typed bool) jen.Code {
	d := jen.Dict{}
	lit(d, "Name", c.Name)
	lit(d, "Type", c.Type)
	flag(d, "Nullable", c.Nullable)
	flag(d, "Identity", c.Identity)
	if typed {
		return jen.Qual(migratePkg, "Column").Values(d)
	}
	return jen.Values(d)
}

func foreignKey(fk migrate.ForeignKey) jen.Code {
	d := jen.Dict{}
	lit(d, "Name", fk.Name)
	lit(d, "DependentTable", fk.DependentTable)
	strs(d, "DependentColumns", fk.DependentColumns)
	lit(d, "PrincipalTable", fk.PrincipalTable)
	strs(d, "PrincipalColumns", fk.PrincipalColumns)
	flag(d, "CascadeDelete", fk.CascadeDelete)
	return jen.Qual(migratePkg, "ForeignKey").Values(d)
}

func tableColumns(tc migrate.TableColumns) jen.Code {
	d := jen.Dict{}
	lit(d, "Table", tc.Table)
	strs(d, "Columns", tc.Columns)
	return jen.Qual(migratePkg, "TableColumns").Values(d)
}

func lit(d jen.Dict, key, v string) {
	if v != "" {
		d[jen.Id(key)] = jen.Lit(v)
	}
}

func flag(d jen.Dict, key string, v bool) {
	if v {
		d[jen.Id(key)] = jen.True()
	}
}

func strs(d jen.Dict, key string, vs []string) {
	if len(vs) == 0 {
		return
	}
	d[jen.Id(key)] = jen.Index().String().ValuesFunc(func(g *jen.Group) {
		for _, v := range vs {
			g.Lit(v)
		}
	})
}
