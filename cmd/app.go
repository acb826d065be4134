// Package cmd implements the CLI application to manage a wheel strategy
// portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	wheel "github.com/jelefra/options-dashboard-sub000"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "records")
	c.Register(&sellCmd{}, "records")
	c.Register(&putCmd{}, "records")
	c.Register(&callCmd{}, "records")

	c.Register(&batchesCmd{}, "reports")
	c.Register(&gainsCmd{}, "reports")
	c.Register(&incomeCmd{}, "reports")
	c.Register(&valuationCmd{}, "reports")

	c.Register(&updateCmd{}, "market data")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var transactionsFile = flag.String("transactions-file", "transactions.jsonl", "Path to the stock transactions file (JSONL format)")
var tradesFile = flag.String("trades-file", "trades.jsonl", "Path to the option trades file (JSONL format)")
var referenceFile = flag.String("reference-file", "reference.jsonl", "Path to the instruments and splits file (JSONL format)")
var ratesFile = flag.String("rates-file", "rates.json", "Path to the current exchange rates document")
var historicalRatesFile = flag.String("historical-rates-file", "", "Path to the historical exchange rates document (optional)")
var pricesFile = flag.String("prices-file", "prices.json", "Path to the current quotes document")
var baseCurrency = flag.String("base", "GBP", "Reporting currency")
var fiscalStart = flag.Int("fiscal-start", 1, "First month of the fiscal year (1-12)")
var plainOutput = flag.Bool("plain", false, "Print reports as raw markdown instead of rendering for the terminal")

// DecodeReference loads the instruments and splits table.
func DecodeReference() (*wheel.Reference, error) {
	f, err := os.Open(*referenceFile)
	if err != nil {
		return nil, fmt.Errorf("could not open reference file %q: %w", *referenceFile, err)
	}
	defer f.Close()
	return wheel.DecodeReference(f)
}

// DecodeRecords loads the transaction and trade streams. A missing file is an
// empty stream, not an error.
func DecodeRecords() (txs []wheel.Transaction, trades []wheel.Trade, err error) {
	if f, e := os.Open(*transactionsFile); e == nil {
		defer f.Close()
		if txs, err = wheel.DecodeTransactions(f); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", *transactionsFile, err)
		}
	} else if !errors.Is(e, fs.ErrNotExist) {
		return nil, nil, e
	}
	if f, e := os.Open(*tradesFile); e == nil {
		defer f.Close()
		if trades, err = wheel.DecodeTrades(f); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", *tradesFile, err)
		}
	} else if !errors.Is(e, fs.ErrNotExist) {
		return nil, nil, e
	}
	return txs, trades, nil
}

// DecodeRates loads the current rates, and the historical rates when a file is
// configured.
func DecodeRates() (*wheel.Rates, error) {
	rates := wheel.NewRates(*baseCurrency)
	f, err := os.Open(*ratesFile)
	if err != nil {
		return nil, fmt.Errorf("could not open rates file %q: %w", *ratesFile, err)
	}
	defer f.Close()
	if err := wheel.DecodeCurrentRates(rates, f); err != nil {
		return nil, fmt.Errorf("%s: %w", *ratesFile, err)
	}
	if *historicalRatesFile == "" {
		return rates, nil
	}
	h, err := os.Open(*historicalRatesFile)
	if err != nil {
		return nil, fmt.Errorf("could not open historical rates file %q: %w", *historicalRatesFile, err)
	}
	defer h.Close()
	if err := wheel.DecodeHistoricalRates(rates, h); err != nil {
		return nil, fmt.Errorf("%s: %w", *historicalRatesFile, err)
	}
	return rates, nil
}

// DecodePrices loads the current quotes. A missing file is an empty table.
func DecodePrices(ref *wheel.Reference) (wheel.Prices, error) {
	f, err := os.Open(*pricesFile)
	if errors.Is(err, fs.ErrNotExist) {
		return wheel.Prices{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open prices file %q: %w", *pricesFile, err)
	}
	defer f.Close()
	prices, err := wheel.DecodePrices(f, ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", *pricesFile, err)
	}
	return prices, nil
}

// FiscalStart validates and returns the configured fiscal start month.
func FiscalStart() (time.Month, error) {
	if *fiscalStart < 1 || *fiscalStart > 12 {
		return 0, fmt.Errorf("invalid fiscal start month %d", *fiscalStart)
	}
	return time.Month(*fiscalStart), nil
}

// printMarkdown renders a markdown report for the terminal, falling back to
// the raw text when rendering fails or -plain is set.
func printMarkdown(md string) {
	if !*plainOutput {
		if out, err := glamour.Render(md, "auto"); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Println(md)
}

// appendRecord appends a record to the given JSONL file.
func appendRecord(filename string, record interface{ MarshalJSON() ([]byte, error) }) subcommands.ExitStatus {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening record file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := wheel.EncodeRecord(f, record); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to record file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended record to %s\n", filename)
	return subcommands.ExitSuccess
}

// parseCash parses a "CUR:amount,CUR:amount" flag into per-currency balances.
func parseCash(s string) (map[string]wheel.Money, error) {
	cash := make(map[string]wheel.Money)
	if s == "" {
		return cash, nil
	}
	for _, part := range strings.Split(s, ",") {
		currency, amount, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("invalid cash entry %q: want CUR:amount", part)
		}
		var value float64
		if _, err := fmt.Sscanf(amount, "%g", &value); err != nil {
			return nil, fmt.Errorf("invalid cash amount %q: %w", amount, err)
		}
		cash[currency] = cash[currency].Add(wheel.M(value, currency))
	}
	return cash, nil
}
