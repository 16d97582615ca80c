package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"finledger/internal/dto"
	"finledger/internal/models"
	"finledger/internal/services"

	"github.com/google/subcommands"
)

type importCmd struct {
	dryRun bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a CSV file" }
func (*importCmd) Usage() string {
	return `ledgerctl import [-n] <file.csv>

  Reads a CSV file with the columns title, type, value, category and records
  every row as a transaction. Missing categories are created. Nothing is
  written when a row is malformed.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "n", false, "validate the file and print the rows without writing them")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fail("import expects exactly one file")
		return subcommands.ExitUsageError
	}
	source := services.FileSource(f.Arg(0))

	if c.dryRun {
		return c.preview(ctx, source)
	}

	ledger, err := openLedger(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer ledger.close()

	transactions, err := ledger.Import.ImportFrom(ctx, source)
	if err != nil {
		var rowErr *services.RowError
		if errors.As(err, &rowErr) {
			fail("%s: %v", f.Arg(0), rowErr)
		} else {
			fail("import failed: %v", err)
		}
		return subcommands.ExitFailure
	}

	printTransactions(transactions, ledger.currency)
	fmt.Printf("imported %d transactions\n", len(transactions))
	return subcommands.ExitSuccess
}

func (c *importCmd) preview(ctx context.Context, source services.SourceOpener) subcommands.ExitStatus {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tTITLE\tTYPE\tVALUE\tCATEGORY")

	count := 0
	for row, err := range services.ReadImportRows(ctx, source) {
		if err != nil {
			w.Flush()
			fail("%v", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", row.Line, row.Title, row.Type, row.Value.String(), row.Category)
		count++
	}
	w.Flush()

	fmt.Printf("%d rows are valid\n", count)
	return subcommands.ExitSuccess
}

type balanceCmd struct{}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "print the income, outcome and total of the ledger" }
func (*balanceCmd) Usage() string {
	return `ledgerctl balance
`
}

func (*balanceCmd) SetFlags(*flag.FlagSet) {}

func (*balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := openLedger(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer ledger.close()

	balance, err := ledger.Balance.GetBalance(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	printBalance(balance, ledger.currency)
	return subcommands.ExitSuccess
}

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list every transaction followed by the balance" }
func (*listCmd) Usage() string {
	return `ledgerctl list
`
}

func (*listCmd) SetFlags(*flag.FlagSet) {}

func (*listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := openLedger(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer ledger.close()

	response, err := ledger.Transactions.List(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	printTransactions(response.Transactions, ledger.currency)
	fmt.Println()
	printBalance(response.Balance, ledger.currency)
	return subcommands.ExitSuccess
}

func printTransactions(transactions []dto.TransactionView, currency string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTITLE\tTYPE\tVALUE\tCATEGORY")
	for _, tx := range transactions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			tx.CreatedAt.Format("2006-01-02 15:04"), tx.Title, tx.Type, formatAmount(tx.Value, currency), tx.Category.Title)
	}
	w.Flush()
}

func printBalance(balance models.Balance, currency string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "income\t%s\t\n", formatAmount(balance.Income, currency))
	fmt.Fprintf(w, "outcome\t%s\t\n", formatAmount(balance.Outcome, currency))
	fmt.Fprintf(w, "total\t%s\t\n", formatAmount(balance.Total, currency))
	w.Flush()
}

type categoriesCmd struct{}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list categories with their totals" }
func (*categoriesCmd) Usage() string {
	return `ledgerctl categories
`
}

func (*categoriesCmd) SetFlags(*flag.FlagSet) {}

func (*categoriesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := openLedger(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer ledger.close()

	summaries, err := ledger.Categories.ListSummaries(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tCOUNT\tINCOME\tOUTCOME")
	for _, summary := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			summary.Title, summary.TransactionCount, formatAmount(summary.Income, ledger.currency), formatAmount(summary.Outcome, ledger.currency))
	}
	w.Flush()
	return subcommands.ExitSuccess
}
