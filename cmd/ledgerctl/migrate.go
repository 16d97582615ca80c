package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"finledger/internal/config"
	"finledger/internal/database"

	"github.com/golang-migrate/migrate/v4"
	"github.com/google/subcommands"
	_ "github.com/lib/pq"
)

type migrateCmd struct {
	down   bool
	status bool
	seed   bool
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply or roll back the PostgreSQL schema migrations" }
func (*migrateCmd) Usage() string {
	return `ledgerctl migrate [-down | -status] [-seed]

  Applies every pending migration from DB_MIGRATIONS_PATH. With -seed the
  files in DB_SEEDS_PATH are executed afterwards. Only PostgreSQL is
  supported; SQLite databases are migrated by the server on startup.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.down, "down", false, "roll back the most recent migration")
	f.BoolVar(&c.status, "status", false, "print the current migration version")
	f.BoolVar(&c.seed, "seed", false, "load the seed files after migrating")
}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := config.Load()
	if cfg.Database.Driver != config.DriverPostgres {
		fail("migrate requires DB_DRIVER=%s, got %q", config.DriverPostgres, cfg.Database.Driver)
		return subcommands.ExitUsageError
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.URL())
	if err != nil {
		fail("failed to open database: %v", err)
		return subcommands.ExitFailure
	}
	defer sqlDB.Close()

	opts := []database.RunnerOption{
		database.WithMigrationsPath(cfg.Database.MigrationsPath),
		database.WithLogger(newLogger(cfg)),
	}
	if c.seed {
		opts = append(opts, database.WithSeeds(cfg.Database.SeedsPath))
	}
	runner := database.NewMigrationRunner(sqlDB, opts...)

	switch {
	case c.status:
		err = printStatus(runner)
	case c.down:
		err = runner.RollbackLast()
	default:
		err = runner.Migrate(ctx)
	}
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	if !c.status {
		if err := printStatus(runner); err != nil {
			fail("%v", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

func printStatus(runner *database.MigrationRunner) error {
	version, dirty, err := runner.GetMigrationStatus()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("no migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	fmt.Printf("version %d dirty=%t\n", version, dirty)
	return nil
}
