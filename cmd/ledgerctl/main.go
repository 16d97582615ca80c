// Command ledgerctl manages the ledger database from the command line.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&importCmd{}, "ledger")
	commander.Register(&balanceCmd{}, "ledger")
	commander.Register(&listCmd{}, "ledger")
	commander.Register(&categoriesCmd{}, "ledger")
	commander.Register(&sampleCmd{}, "ledger")
	commander.Register(&migrateCmd{}, "database")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}
