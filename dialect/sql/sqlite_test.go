package sql_test

import (
	"context"
	"testing"

	"github.com/syssam/evolve/dialect"
	"github.com/syssam/evolve/dialect/sql"
	"github.com/syssam/evolve/migrate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestInsertFrom_SQLite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	drv, err := sql.Open(dialect.SQLite, "file:insertfrom?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { drv.Close() })
	for _, stmt := range []string{
		"CREATE TABLE Customers (Id integer NOT NULL PRIMARY KEY, Street text, City text)",
		"CREATE TABLE Profiles (Id integer NOT NULL PRIMARY KEY, Street text, City text)",
		"INSERT INTO Customers (Id, Street, City) VALUES (1, 'Main St', 'Springfield'), (2, 'Elm St', 'Shelbyville')",
	} {
		require.NoError(t, drv.Exec(ctx, stmt, []any{}, nil))
	}

	ins, err := migrate.NewInsertFrom(
		migrate.TableColumns{Table: "Customers", Columns: []string{"Id", "Street", "City"}},
		migrate.TableColumns{Table: "Profiles", Columns: []string{"Id", "Street", "City"}},
	)
	require.NoError(t, err)
	plan, err := sql.Plan("1", "ExtractProfile", []migrate.Operation{ins})
	require.NoError(t, err)
	require.NoError(t, sql.NewExecutor(drv).Apply(ctx, plan))

	rows := &sql.Rows{}
	require.NoError(t, drv.Query(ctx, "SELECT Id, Street, City FROM Profiles ORDER BY Id", []any{}, rows))
	defer rows.Close()
	var got [][3]string
	for rows.Next() {
		var r [3]string
		require.NoError(t, rows.Scan(&r[0], &r[1], &r[2]))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, [][3]string{{"1", "Main St", "Springfield"}, {"2", "Elm St", "Shelbyville"}}, got)
}
