package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	wheel "github.com/jelefra/options-dashboard-sub000"
)

// --- Buy Command ---

type buyCmd struct {
	date       string
	account    string
	ticker     string
	quantity   float64
	price      float64
	commission float64
	batchCodes string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a stock purchase" }
func (*buyCmd) Usage() string {
	return `osd buy -a <account> -t <ticker> -q <quantity> -p <price> [-d <date>] [-c <commission>] [-b <codes>]

  Records a stock purchase. Batch codes assign the shares to tracked batches;
  without codes the shares join the ticker's partial holding.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", wheel.Today().Record(), "Transaction date (DD/MM/YYYY)")
	f.StringVar(&c.account, "a", "", "Account name")
	f.StringVar(&c.ticker, "t", "", "Ticker")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.Float64Var(&c.commission, "c", 0, "Commission")
	f.StringVar(&c.batchCodes, "b", "", "Comma-separated batch codes")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.ticker == "" || c.quantity <= 0 || c.price <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := wheel.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	tx := wheel.NewPurchase(c.account, c.ticker, day, wheel.Q(c.quantity),
		wheel.M(c.price, ""), wheel.M(c.commission, ""), c.batchCodes)
	return appendRecord(*transactionsFile, tx)
}

// --- Sell Command ---

type sellCmd struct {
	date       string
	account    string
	ticker     string
	quantity   float64
	price      float64
	commission float64
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a stock sale" }
func (*sellCmd) Usage() string {
	return `osd sell -a <account> -t <ticker> -q <quantity> -p <price> [-d <date>] [-c <commission>]

  Records a stock sale out of the ticker's partial holding. Batches exit
  through exercised calls, not sales.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", wheel.Today().Record(), "Transaction date (DD/MM/YYYY)")
	f.StringVar(&c.account, "a", "", "Account name")
	f.StringVar(&c.ticker, "t", "", "Ticker")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.Float64Var(&c.commission, "c", 0, "Commission")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.ticker == "" || c.quantity <= 0 || c.price <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := wheel.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	tx := wheel.NewSale(c.account, c.ticker, day, wheel.Q(c.quantity),
		wheel.M(c.price, ""), wheel.M(c.commission, ""))
	return appendRecord(*transactionsFile, tx)
}

// --- Option Commands ---

// optionFlags carries the flags shared by the put and call commands.
type optionFlags struct {
	date       string
	account    string
	ticker     string
	expiry     string
	strike     float64
	tradePrice float64
	commission float64
	batchCode  string
}

func (c *optionFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", wheel.Today().Record(), "Trade date (DD/MM/YYYY)")
	f.StringVar(&c.account, "a", "", "Account name")
	f.StringVar(&c.ticker, "t", "", "Ticker")
	f.StringVar(&c.expiry, "e", "", "Expiry date (DD/MM/YYYY)")
	f.Float64Var(&c.strike, "strike", 0, "Strike price")
	f.Float64Var(&c.tradePrice, "p", 0, "Premium per share")
	f.Float64Var(&c.commission, "c", 0, "Commission")
	f.StringVar(&c.batchCode, "b", "", "Batch code")
}

func (c *optionFlags) parse(f *flag.FlagSet) (day, expiry wheel.Date, ok bool) {
	if c.account == "" || c.ticker == "" || c.expiry == "" || c.strike <= 0 {
		f.Usage()
		return day, expiry, false
	}
	var err error
	if day, err = wheel.ParseDate(c.date); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return day, expiry, false
	}
	if expiry, err = wheel.ParseDate(c.expiry); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing expiry: %v\n", err)
		return day, expiry, false
	}
	return day, expiry, true
}

type putCmd struct{ optionFlags }

func (*putCmd) Name() string     { return "put" }
func (*putCmd) Synopsis() string { return "record a sold put" }
func (*putCmd) Usage() string {
	return `osd put -a <account> -t <ticker> -e <expiry> -strike <price> -p <premium> [-d <date>] [-c <commission>] [-b <code>]

  Records a cash-secured put. The batch code names the batch an assignment
  would create or extend.
`
}

func (c *putCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *putCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, expiry, ok := c.parse(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	trade := wheel.NewPut(c.account, c.ticker, day, expiry,
		wheel.M(c.strike, ""), wheel.M(c.tradePrice, ""), wheel.M(c.commission, ""), c.batchCode)
	return appendRecord(*tradesFile, trade)
}

type callCmd struct{ optionFlags }

func (*callCmd) Name() string     { return "call" }
func (*callCmd) Synopsis() string { return "record a covered call" }
func (*callCmd) Usage() string {
	return `osd call -a <account> -t <ticker> -e <expiry> -strike <price> -p <premium> -b <code> [-d <date>] [-c <commission>]

  Records a covered call written against an existing batch.
`
}

func (c *callCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *callCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, expiry, ok := c.parse(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	if c.batchCode == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	trade := wheel.NewCall(c.account, c.ticker, day, expiry,
		wheel.M(c.strike, ""), wheel.M(c.tradePrice, ""), wheel.M(c.commission, ""), c.batchCode)
	return appendRecord(*tradesFile, trade)
}
