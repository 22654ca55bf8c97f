// evolve compiles model migration scripts into generated migrations and SQL
// plans, and applies those plans to a database.
//
//	evolve generate              compile the script and write the artifacts
//	evolve apply [--down]        execute the SQL plans of the script
//	evolve watch                 regenerate whenever the script changes
//
// Settings are read from evolve.yaml (see --config); EVOLVE_DSN and
// EVOLVE_DIALECT fill in missing database settings, and a .env file in the
// working directory is loaded first.
package main

import (
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
