// Command migrate applies the embedded goose migrations to PostgreSQL.
//
// Usage:
//
//	migrate [up|down|status|version|redo|reset] [args...]
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"fooddispatch/cmd"
	"fooddispatch/internal/adapters/out/postgres"

	_ "github.com/lib/pq"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate [up|down|status|version|redo|reset] [args...]")
	}
	flag.Parse()

	command := "up"
	var args []string
	if flag.NArg() > 0 {
		command = flag.Arg(0)
		args = flag.Args()[1:]
	}

	if err := run(context.Background(), command, args); err != nil {
		slog.Error("migration failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string) error {
	config, err := cmd.LoadConfig()
	if err != nil {
		return err
	}
	if config.DBDriver == postgres.DriverSQLite {
		return fmt.Errorf("migrations target PostgreSQL; sqlite schemas are created with DB_AUTO_MIGRATE")
	}

	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err = db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	return postgres.Migrate(ctx, db, command, args...)
}
