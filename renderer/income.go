package renderer

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	wheel "github.com/jelefra/options-dashboard-sub000"
)

// IncomeMarkdown renders the monthly premium income ledger. Each account gets
// a table of months by currency; the All row aggregates across accounts and
// the BASE row converts to the reporting currency.
func IncomeMarkdown(r *wheel.IncomeReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Premium Income (%s base)\n", r.Base)

	months := r.Months()
	currencies := incomeCurrencies(r)

	for _, account := range r.Accounts() {
		fmt.Fprintf(&b, "\n## %s\n\n", account)
		fmt.Fprintln(&b, "| Month | Currency | Puts | Calls | Total |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|")

		for _, month := range months {
			for _, currency := range currencies {
				total := r.Cell(month, account, currency, wheel.IncomeTotal)
				if total.IsZero() {
					continue
				}
				label := month.String()
				if currency == wheel.BaseRow && r.Estimated[month] {
					label += " (e)"
				}
				fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
					label,
					currency,
					r.Cell(month, account, currency, wheel.IncomePut).String(),
					r.Cell(month, account, currency, wheel.IncomeCall).String(),
					total.String(),
				)
			}
		}
	}

	ConditionalBlock(&b, func(w io.Writer) bool {
		printed := false
		for _, month := range months {
			if r.Estimated[month] {
				printed = true
				break
			}
		}
		fmt.Fprintln(w, "\n(e) converted with a current-rate fallback for at least one trade.")
		return printed
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintln(w, "\n## Quarantined")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "| Ticker | Reason |")
		fmt.Fprintln(w, "|:---|:---|")
		tickers := slices.Sorted(maps.Keys(r.Faults.Tickers()))
		for _, ticker := range tickers {
			reasons := make([]string, 0, 1)
			for _, f := range r.Faults.ForTicker(ticker) {
				reasons = append(reasons, f.Kind.String())
			}
			fmt.Fprintf(w, "| %s | %s |\n", ticker, strings.Join(reasons, ", "))
		}
		return len(tickers) > 0
	})

	return b.String()
}

// incomeCurrencies lists the populated currencies, native ones first and the
// BASE row last.
func incomeCurrencies(r *wheel.IncomeReport) []string {
	set := make(map[string]bool)
	for k := range r.Cells {
		if k.Currency != wheel.BaseRow {
			set[k.Currency] = true
		}
	}
	return append(slices.Sorted(maps.Keys(set)), wheel.BaseRow)
}
