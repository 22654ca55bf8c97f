package sql_test

import (
	"os"
	"path/filepath"
	"testing"

	atlas "ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/schema"

	"github.com/syssam/evolve/dialect/sql"
	"github.com/syssam/evolve/migrate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	t.Parallel()

	plan, err := sql.Plan("20261017120000", "AddAddress", []migrate.Operation{
		&migrate.RenameColumn{Table: "Customers", Old: "Street", New: "Address_Street"},
		&migrate.Identity{PrincipalTable: "Orders", PrincipalColumn: migrate.Column{Name: "Id", Type: "int"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "20261017120000", plan.Version)
	assert.Equal(t, "AddAddress", plan.Name)
	assert.True(t, plan.Transactional)
	require.Len(t, plan.Changes, 8)

	first := plan.Changes[0]
	assert.Equal(t, "EXEC sp_rename N'[Customers].[Street]', N'Address_Street', N'COLUMN'", first.Cmd)
	assert.Equal(t, "rename column Customers.Street to Address_Street", first.Comment)
	modify, ok := first.Source.(*schema.ModifyTable)
	require.True(t, ok)
	assert.Equal(t, "Customers", modify.T.Name)

	assert.Equal(t, "identity off on Orders.Id", plan.Changes[1].Comment)
	for _, c := range plan.Changes[2:] {
		assert.Empty(t, c.Comment)
		assert.Nil(t, c.Source)
	}

	_, err = sql.Plan("1", "Bad", []migrate.Operation{&migrate.DropTable{Name: "a b"}})
	assert.ErrorContains(t, err, "plan Bad")
}

func TestWriteDir(t *testing.T) {
	t.Parallel()

	p := t.TempDir()
	dir, err := atlas.NewLocalDir(p)
	require.NoError(t, err)

	up, err := sql.Plan("20261017120000", "AddAddress", []migrate.Operation{
		&migrate.AddColumn{Table: "Customers", Column: migrate.Column{Name: "Age", Type: "int", Nullable: true}},
	})
	require.NoError(t, err)
	down, err := sql.Plan("20261017120000", "RevertAddAddress", []migrate.Operation{
		&migrate.DropColumn{Table: "Customers", Column: "Age"},
	})
	require.NoError(t, err)
	require.NoError(t, sql.WriteDir(dir, up, down))

	b, err := os.ReadFile(filepath.Join(p, "20261017120000_AddAddress.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "ALTER TABLE [Customers] ADD [Age] int NULL;\n")
	b, err = os.ReadFile(filepath.Join(p, "20261017120000_RevertAddAddress.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "ALTER TABLE [Customers] DROP COLUMN [Age];\n")
	require.FileExists(t, filepath.Join(p, atlas.HashFileName))
}
