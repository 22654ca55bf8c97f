package sql_test

import (
	"testing"

	"github.com/syssam/evolve/dialect/sql"
	"github.com/syssam/evolve/migrate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		op   migrate.Operation
		want []string
	}{
		{
			name: "create table",
			op: &migrate.CreateTable{
				Name: "Customers",
				Columns: []migrate.Column{
					{Name: "Id", Type: "int", Identity: true},
					{Name: "Name", Type: "nvarchar(100)", Nullable: true},
				},
				PrimaryKey: []string{"Id"},
			},
			want: []string{"CREATE TABLE [Customers] ([Id] int NOT NULL IDENTITY, [Name] nvarchar(100) NULL, CONSTRAINT [PK_Customers] PRIMARY KEY ([Id]))"},
		},
		{
			name: "drop table",
			op:   &migrate.DropTable{Name: "dbo.Customers"},
			want: []string{"DROP TABLE [dbo].[Customers]"},
		},
		{
			name: "rename table",
			op:   &migrate.RenameTable{Old: "Customers", New: "Clients"},
			want: []string{"EXEC sp_rename N'[Customers]', N'Clients'"},
		},
		{
			name: "add column",
			op:   &migrate.AddColumn{Table: "Customers", Column: migrate.Column{Name: "Age", Type: "int"}},
			want: []string{"ALTER TABLE [Customers] ADD [Age] int NOT NULL"},
		},
		{
			name: "drop column",
			op:   &migrate.DropColumn{Table: "Customers", Column: "Age"},
			want: []string{"ALTER TABLE [Customers] DROP COLUMN [Age]"},
		},
		{
			name: "rename column",
			op:   &migrate.RenameColumn{Table: "Customers", Old: "Street", New: "Address_Street"},
			want: []string{"EXEC sp_rename N'[Customers].[Street]', N'Address_Street', N'COLUMN'"},
		},
		{
			name: "foreign key",
			op: &migrate.AddForeignKey{ForeignKey: migrate.ForeignKey{
				Name:             "FK_Orders_Customers_Customer_Id",
				DependentTable:   "Orders",
				DependentColumns: []string{"Customer_Id"},
				PrincipalTable:   "Customers",
				PrincipalColumns: []string{"Id"},
				CascadeDelete:    true,
			}},
			want: []string{"ALTER TABLE [Orders] ADD CONSTRAINT [FK_Orders_Customers_Customer_Id] FOREIGN KEY ([Customer_Id]) REFERENCES [Customers] ([Id]) ON DELETE CASCADE"},
		},
		{
			name: "drop foreign key",
			op: &migrate.DropForeignKey{ForeignKey: migrate.ForeignKey{
				Name:           "FK_Orders_Customers_Customer_Id",
				DependentTable: "Orders",
			}},
			want: []string{"ALTER TABLE [Orders] DROP CONSTRAINT [FK_Orders_Customers_Customer_Id]"},
		},
		{
			name: "unique clustered index",
			op:   &migrate.CreateIndex{Table: "Orders", Name: "IX_Customer_Id", Columns: []string{"Customer_Id"}, Unique: true, Clustered: true},
			want: []string{"CREATE UNIQUE CLUSTERED INDEX [IX_Customer_Id] ON [Orders] ([Customer_Id])"},
		},
		{
			name: "drop index",
			op:   &migrate.DropIndex{Table: "Orders", Name: "IX_Customer_Id"},
			want: []string{"DROP INDEX [IX_Customer_Id] ON [Orders]"},
		},
		{
			name: "sql",
			op:   &migrate.SQL{Statement: "UPDATE Order SET Id = old_Id;"},
			want: []string{"UPDATE Order SET Id = old_Id"},
		},
		{
			name: "insert from",
			op: &migrate.InsertFrom{
				From: migrate.TableColumns{Table: "Customers", Columns: []string{"Id", "Street"}},
				To:   migrate.TableColumns{Table: "Profiles", Columns: []string{"Id", "Street"}},
			},
			want: []string{"INSERT INTO Profiles (Id, Street) SELECT Id, Street FROM Customers"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := sql.Render(tt.op)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_Identity(t *testing.T) {
	t.Parallel()

	op := &migrate.Identity{
		PrincipalTable:  "Orders",
		PrincipalColumn: migrate.Column{Name: "Id", Type: "int"},
		On:              false,
	}
	got, err := sql.Render(op)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ALTER TABLE [Orders] DROP CONSTRAINT [PK_Orders]",
		"EXEC sp_rename N'[Orders].[Id]', N'old_Id', N'COLUMN'",
		"ALTER TABLE [Orders] ADD [Id] int NULL",
		"UPDATE Orders SET Id = old_Id",
		"ALTER TABLE Orders ALTER COLUMN Id int NOT NULL",
		"ALTER TABLE [Orders] DROP COLUMN [old_Id]",
		"ALTER TABLE [Orders] ADD CONSTRAINT [PK_Orders] PRIMARY KEY ([Id])",
	}, got)

	all, err := sql.RenderAll(migrate.ExpandIdentity(op))
	require.NoError(t, err)
	assert.Equal(t, got, all)
}

func TestRender_IdentityOn(t *testing.T) {
	t.Parallel()

	got, err := sql.Render(&migrate.Identity{
		PrincipalTable:  "Orders",
		PrincipalColumn: migrate.Column{Name: "Id", Type: "int"},
		Dependents:      []migrate.DependentColumn{{DependentTable: "Lines", ForeignKeyColumn: "OrderId"}},
		On:              true,
	})
	require.NoError(t, err)
	require.Len(t, got, 8)
	assert.Equal(t, "ALTER TABLE [Orders] ADD [Id] int NOT NULL IDENTITY", got[3])
	assert.Equal(t, "UPDATE Lines SET OrderId = (SELECT TOP 1 Id FROM Orders WHERE old_Id = Lines.OrderId)", got[4])
	for _, stmt := range got {
		assert.NotContains(t, stmt, "ALTER COLUMN")
	}
}

func TestRender_InvalidIdentifier(t *testing.T) {
	t.Parallel()

	_, err := sql.Render(&migrate.DropTable{Name: "Customers; DROP TABLE Orders"})
	assert.ErrorContains(t, err, "invalid identifier")

	_, err = sql.RenderAll([]migrate.Operation{
		&migrate.DropTable{Name: "Orders"},
		&migrate.DropColumn{Table: "Orders", Column: "1st"},
	})
	assert.ErrorContains(t, err, `invalid identifier "1st"`)
}
