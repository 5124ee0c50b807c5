// migrate runs the schema migrations against the configured database and
// exits. Deployments that start the server with SKIP_MIGRATIONS=1 run this
// first so schema changes happen once, not on every instance.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nguyentoan1998/stockflow_backend/config"
	"github.com/nguyentoan1998/stockflow_backend/models"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "If true, only check the database connection; do not migrate")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	if *dryRun {
		fmt.Println("[dry-run] connection ok, skipping migration")
		return
	}

	if err := models.MigrateTable(db); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("migration complete")
}
