// Package sql renders migration operations to SQL Server statements, packs
// them into atlas migration plans and executes the plans over database/sql.
//
// # Rendering
//
// Render turns one operation into its statements. Identifiers are
// bracket-quoted and validated; the data statements of InsertFrom,
// UpdateFrom and the identity toggle are emitted verbatim:
//
//	stmts, err := sql.Render(&migrate.RenameColumn{Table: "Customers", Old: "Name", New: "FullName"})
//	// EXEC sp_rename N'[Customers].[Name]', N'FullName', N'COLUMN'
//
// # Plans
//
// Plan builds an atlas plan from an operation list and WriteDir writes plans
// into a migration directory together with its sum file:
//
//	up, _ := sql.Plan("20261017120000", "AddAddress", pass.Operations())
//	dir, _ := migrate.NewLocalDir("migrations")
//	err := sql.WriteDir(dir, up)
//
// # Execution
//
// An Executor applies plans through a dialect.Driver. Transactional plans are
// rolled back on the first failing statement:
//
//	drv, _ := sql.Open("sqlserver", dsn)
//	err := sql.NewExecutor(sql.NewStatsDriver(drv)).Apply(ctx, up)
package sql
