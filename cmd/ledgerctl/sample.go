package main

import (
	"context"
	"flag"
	"os"

	"finledger/internal/services"

	"github.com/google/subcommands"
)

type sampleCmd struct {
	rows int
	seed uint64
}

func (*sampleCmd) Name() string     { return "sample" }
func (*sampleCmd) Synopsis() string { return "write a sample import CSV to stdout" }
func (*sampleCmd) Usage() string {
	return `ledgerctl sample [-n <rows>] [-seed <seed>] > sample.csv

  Generates salaries and everyday expenses whose running total never goes
  below zero. Use the same non-zero seed to get the same file again.
`
}

func (c *sampleCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.rows, "n", 50, "number of data rows")
	f.Uint64Var(&c.seed, "seed", 0, "random seed, 0 for a random file")
}

func (c *sampleCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.rows < 0 {
		fail("-n must not be negative")
		return subcommands.ExitUsageError
	}

	rows := services.NewSampleGenerator(c.seed).Rows(c.rows)
	if err := services.WriteImportCSV(os.Stdout, rows); err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
