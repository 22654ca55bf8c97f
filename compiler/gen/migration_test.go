package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/evolve/migrate"
	"github.com/syssam/evolve/transform"
)

func TestMigrationFile(t *testing.T) {
	model, ms := shop(t)
	cfg := MustNewConfig(WithPackage("migrations"))

	t.Run("renames", func(t *testing.T) {
		res, err := transform.Compile(ms[0], model)
		require.NoError(t, err)
		f, err := cfg.MigrationFile(res)
		require.NoError(t, err)

		src := render(t, f)
		assert.Contains(t, src, "//Codegeneratedbyevolve.DONOTEDIT.")
		assert.Contains(t, src, "packagemigrations")
		assert.Contains(t, src, `"github.com/syssam/evolve/migrate"`)
		assert.Contains(t, src, "//-extractcomplextypeAddressfromCustomer")
		assert.Contains(t, src, "//-renamepropertyCustomer.NametoFullName")
		assert.Contains(t, src, "typeAddAddressstruct{}")
		assert.Contains(t, src, `func(AddAddress)ID()string{return"202610171200"}`)
		assert.Contains(t, src, `func(AddAddress)Name()string{return"AddAddress"}`)
		assert.Contains(t, src, "func(AddAddress)Up()[]migrate.Operation{return[]migrate.Operation{&migrate.RenameColumn{")
		assert.Contains(t, src, `New:"Address_Street"`)
		assert.Contains(t, src, `Old:"Street"`)
		assert.Contains(t, src, `Table:"Customers"`)
		assert.Contains(t, src, "func(AddAddress)Down()[]migrate.Operation{")
		assert.Contains(t, src, "func(AddAddress)Mapping()[]string{")
		assert.NotContains(t, src, "Leftout")
	})

	t.Run("associations", func(t *testing.T) {
		res, err := transform.Compile(ms[0], model)
		require.NoError(t, err)
		res, err = transform.Compile(ms[1], res.Up.Model)
		require.NoError(t, err)
		f, err := cfg.MigrationFile(res)
		require.NoError(t, err)

		src := render(t, f)
		assert.Contains(t, src, "typeLinkInvoicesstruct{}")
		assert.Contains(t, src, "&migrate.AddColumn{Column:migrate.Column{")
		assert.Contains(t, src, "&migrate.CreateIndex{")
		assert.Contains(t, src, "&migrate.AddForeignKey{ForeignKey:migrate.ForeignKey{")
		assert.Contains(t, src, "&migrate.DropForeignKey{")
		assert.Contains(t, src, "&migrate.DropColumn{")
	})

	t.Run("dropped inverses", func(t *testing.T) {
		res := &transform.Result{
			ID:   "1",
			Name: "Merge",
			Up: &transform.Pass{Direction: transform.Up, Steps: []transform.Step{
				{Transformation: &transform.MergeClasses{Principal: "Customer", Dependent: "Profile", PrincipalNavigation: "Profile"}},
			}},
			Down:    &transform.Pass{Direction: transform.Down},
			Dropped: []transform.Transformation{&transform.MergeClasses{Principal: "Customer", Dependent: "Profile", PrincipalNavigation: "Profile"}},
		}
		f, err := cfg.MigrationFile(res)
		require.NoError(t, err)

		src := render(t, f)
		assert.Contains(t, src, "//LeftoutofDown,noinverse:")
		assert.Contains(t, src, "//-mergeclassProfileintoCustomer")
		assert.Contains(t, src, "func(Merge)Up()[]migrate.Operation{return[]migrate.Operation{}}")
	})
}

func TestOperation(t *testing.T) {
	tests := []struct {
		name string
		op   migrate.Operation
		want string
	}{
		{
			name: "create table",
			op: &migrate.CreateTable{
				Name:       "Profiles",
				Columns:    []migrate.Column{{Name: "Id", Type: "int", Identity: true}, {Name: "Bio", Type: "nvarchar(max)", Nullable: true}},
				PrimaryKey: []string{"Id"},
			},
			want: `&migrate.CreateTable{Columns:[]migrate.Column{{Identity:true,Name:"Id",Type:"int"},{Name:"Bio",Nullable:true,Type:"nvarchar(max)"}},Name:"Profiles",PrimaryKey:[]string{"Id"}}`,
		},
		{
			name: "sql",
			op:   &migrate.SQL{Statement: "SELECT 1"},
			want: `&migrate.SQL{Statement:"SELECT1"}`,
		},
		{
			name: "insert from",
			op: &migrate.InsertFrom{
				From: migrate.TableColumns{Table: "Customers", Columns: []string{"Id"}},
				To:   migrate.TableColumns{Table: "Profiles", Columns: []string{"CustomerId"}},
			},
			want: `&migrate.InsertFrom{From:migrate.TableColumns{Columns:[]string{"Id"},Table:"Customers"},To:migrate.TableColumns{Columns:[]string{"CustomerId"},Table:"Profiles"}}`,
		},
		{
			name: "identity",
			op: &migrate.Identity{
				PrincipalTable:  "Orders",
				PrincipalColumn: migrate.Column{Name: "Id", Type: "int"},
				Dependents:      []migrate.DependentColumn{{DependentTable: "Lines", ForeignKeyColumn: "OrderId", ForeignKey: "FK_Lines_Orders"}},
				On:              true,
			},
			want: `&migrate.Identity{Dependents:[]migrate.DependentColumn{{DependentTable:"Lines",ForeignKey:"FK_Lines_Orders",ForeignKeyColumn:"OrderId"}},On:true,PrincipalColumn:migrate.Column{Name:"Id",Type:"int"},PrincipalTable:"Orders"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := operation(tt.op)
			require.NoError(t, err)
			f := MustNewConfig(WithPackage("p")).newFile("p")
			f.Var().Id("_").Op("=").Add(code)
			// Multi-line literals end in a trailing comma.
			src := strings.ReplaceAll(render(t, f), ",}", "}")
			assert.Contains(t, src, "var_="+tt.want)
		})
	}
}
