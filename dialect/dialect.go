package dialect

import (
	"context"
	"database/sql/driver"
	"fmt"
)

// Database dialects.
const (
	SQLServer = "sqlserver"
	Postgres  = "postgres"
	MySQL     = "mysql"
	SQLite    = "sqlite"
)

// ExecQuerier wraps the Exec and Query methods.
type ExecQuerier interface {
	// Exec executes a statement that returns no rows. v is nil or a
	// *sql.Result receiving the result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows into v.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface a migration plan is executed through.
type Driver interface {
	ExecQuerier
	// Tx starts a transaction.
	Tx(ctx context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name.
	Dialect() string
}

// Tx is a transaction.
type Tx interface {
	ExecQuerier
	driver.Tx
}

// Of returns the dialect of a database/sql driver name.
func Of(driverName string) (string, error) {
	switch driverName {
	case SQLServer, "mssql":
		return SQLServer, nil
	case Postgres, "pgx":
		return Postgres, nil
	case MySQL:
		return MySQL, nil
	case SQLite, "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("dialect: unknown driver %q", driverName)
	}
}
