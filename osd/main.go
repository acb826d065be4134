// Command osd is the options selling dashboard CLI.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/jelefra/options-dashboard-sub000/cmd"
)

func main() {
	// Shell completion hook; exits the process when invoked by the shell.
	completion().Complete("osd")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	date := predict.Something
	option := map[string]complete.Predictor{
		"d": date, "a": predict.Something, "t": predict.Something,
		"e": date, "strike": predict.Something, "p": predict.Something,
		"c": predict.Something, "b": predict.Something,
	}
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"buy":  {Flags: option},
			"sell": {Flags: option},
			"put":  {Flags: option},
			"call": {Flags: option},

			"batches": {Flags: map[string]complete.Predictor{"d": date}},
			"gains":   {Flags: map[string]complete.Predictor{"y": predict.Something}},
			"income":  {},
			"valuation": {Flags: map[string]complete.Predictor{
				"d": date, "cash": predict.Something,
			}},
			"update": {Flags: map[string]complete.Predictor{"endpoint": predict.Something}},
		},
		Flags: map[string]complete.Predictor{
			"transactions-file":     predict.Files("*.jsonl"),
			"trades-file":           predict.Files("*.jsonl"),
			"reference-file":        predict.Files("*.jsonl"),
			"rates-file":            predict.Files("*.json"),
			"historical-rates-file": predict.Files("*.json"),
			"prices-file":           predict.Files("*.json"),
			"base":                  predict.Set{"GBP", "USD", "EUR"},
			"fiscal-start":          predict.Something,
			"plain":                 predict.Nothing,
		},
	}
}
