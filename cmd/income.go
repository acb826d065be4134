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

type incomeCmd struct{}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "gross option premium received by month" }
func (*incomeCmd) Usage() string {
	return `osd income

  Displays the gross premium received from puts and calls, bucketed by month,
  account and currency, with a cross-account All row and a converted BASE row.
`
}

func (*incomeCmd) SetFlags(*flag.FlagSet) {}

func (c *incomeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ref, err := DecodeReference()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	_, trades, err := DecodeRecords()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	rates, err := DecodeRates()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	report := wheel.NewIncomeReport(ref, trades, rates)
	printMarkdown(renderer.IncomeMarkdown(report))
	return subcommands.ExitSuccess
}
