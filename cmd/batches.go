package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	wheel "github.com/jelefra/options-dashboard-sub000"
	"github.com/jelefra/options-dashboard-sub000/renderer"
)

// batchesCmd holds the flags for the 'batches' subcommand.
type batchesCmd struct {
	date string
}

func (*batchesCmd) Name() string     { return "batches" }
func (*batchesCmd) Synopsis() string { return "per-batch wheel state for every ticker" }
func (*batchesCmd) Usage() string {
	return `osd batches [-d <date>]

  Rebuilds the batch ledger from the record files and displays every batch
  with its cost basis, collected premium, open covered call and status.
`
}

func (c *batchesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", wheel.Today().Record(), "Reporting date")
}

func (c *batchesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := wheel.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	ref, err := DecodeReference()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	txs, trades, err := DecodeRecords()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	prices, err := DecodePrices(ref)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	ledger := wheel.NewLedger(ref, txs, trades, prices, asOf)
	printMarkdown(renderer.RenderBatches(renderer.NewBatches(ledger)))
	return subcommands.ExitSuccess
}
