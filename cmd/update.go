package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	wheel "github.com/jelefra/options-dashboard-sub000"
)

// updateCmd holds the flags for the 'update' subcommand.
type updateCmd struct {
	endpoint string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "refresh the current exchange rates" }
func (*updateCmd) Usage() string {
	return `osd update [-endpoint <url>]

  Fetches the latest exchange rates for the reporting currency from a
  frankfurter-compatible endpoint and rewrites the rates file. Responses are
  cached on disk for the rest of the day.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.endpoint, "endpoint", "https://api.frankfurter.dev/v1", "Exchange rates endpoint")
}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rates := wheel.NewRates(*baseCurrency)
	if err := wheel.FetchCurrentRates(wheel.DailyClient(), c.endpoint, rates); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	// Rewrite the rates file in the same document shape the decoder reads.
	doc := struct {
		Amount int                `json:"amount"`
		Base   string             `json:"base"`
		Date   string             `json:"date"`
		Rates  map[string]float64 `json:"rates"`
	}{Amount: 1, Base: rates.Base, Date: wheel.Today().String(), Rates: make(map[string]float64)}
	for currency, rate := range rates.Current {
		doc.Rates[currency] = rate.InexactFloat64()
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding rates: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(*ratesFile, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing rates file %q: %v\n", *ratesFile, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully updated %d rates in %s\n", len(doc.Rates), *ratesFile)
	return subcommands.ExitSuccess
}
