// Package dialect names the database dialects evolve talks to and defines
// the driver interfaces migration plans are executed through.
//
// # Dialects
//
//	dialect.SQLServer = "sqlserver"
//	dialect.Postgres  = "postgres"
//	dialect.MySQL     = "mysql"
//	dialect.SQLite    = "sqlite"
//
// Migration operations render to SQL Server statements. The other dialects
// can run the data statements of a plan (INSERT ... SELECT) and are used by
// tests and by `evolve apply` against scratch databases.
//
// # Driver Interface
//
//	type Driver interface {
//	    ExecQuerier
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// The dialect/sql package implements Driver over database/sql.
package dialect
