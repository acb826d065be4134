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

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	year int
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized capital gains by month and fiscal year" }
func (*gainsCmd) Usage() string {
	return `osd gains [-y <year>]

  Replays the record files and displays realized gains and losses bucketed by
  month, account, currency and category, with a fiscal year roll-up.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "y", 0, "Calendar year the fiscal year starts in (defaults to the current one)")
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	start, err := FiscalStart()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	fy := wheel.FinancialYearOf(wheel.MonthOf(wheel.Today()), start)
	if c.year != 0 {
		fy.Year = c.year
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
	rates, err := DecodeRates()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	report := wheel.NewGainsReport(ref, txs, trades, rates)
	printMarkdown(renderer.GainsMarkdown(report, fy))
	return subcommands.ExitSuccess
}
