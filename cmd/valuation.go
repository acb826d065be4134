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

// valuationCmd holds the flags for the 'valuation' subcommand.
type valuationCmd struct {
	date string
	cash string
}

func (*valuationCmd) Name() string     { return "valuation" }
func (*valuationCmd) Synopsis() string { return "unrealized returns and currency allocation" }
func (*valuationCmd) Usage() string {
	return `osd valuation [-d <date>] [-cash <CUR:amount,...>]

  Values the open positions at current prices, computes per-ticker unrealized
  returns net of collected premium, and the allocation by currency including
  externally held cash.
`
}

func (c *valuationCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", wheel.Today().Record(), "Reporting date")
	f.StringVar(&c.cash, "cash", "", "Cash balances to include, e.g. GBP:1000,USD:250")
}

func (c *valuationCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := wheel.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	cash, err := parseCash(c.cash)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
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
	rates, err := DecodeRates()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	ledger := wheel.NewLedger(ref, txs, trades, prices, asOf)
	valuation := wheel.NewValuation(ledger, prices, rates, cash)
	printMarkdown(renderer.RenderValuation(renderer.NewValuationView(valuation)))
	return subcommands.ExitSuccess
}
