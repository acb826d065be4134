package renderer

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	wheel "github.com/jelefra/options-dashboard-sub000"
)

// GainsMarkdown renders the monthly capital gains ledger, one table per
// account. Each currency contributes a row per month, with the BASE row
// carrying the converted cross-currency total. Months whose conversion fell
// back to a current rate are marked estimated.
func GainsMarkdown(r *wheel.GainsReport, fy wheel.FinancialYear) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Capital Gains Report (%s)\n", fy)

	months := r.Months()
	currencies := append(r.Currencies(), wheel.BaseRow)

	for _, account := range r.Accounts() {
		fmt.Fprintf(&b, "\n## %s\n\n", account)
		fmt.Fprintln(&b, "| Month | Currency | Puts | Calls | ITM Calls | Sales | Total |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|")

		for _, month := range months {
			for _, currency := range currencies {
				total := r.Cell(month, account, currency, wheel.CategoryTotal)
				if total.Gains.IsZero() && total.Losses.IsZero() {
					continue
				}
				label := month.String()
				if currency == wheel.BaseRow && r.Estimated[month] {
					label += " (e)"
				}
				fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
					label,
					currency,
					r.Cell(month, account, currency, wheel.CategoryPut).Net().SignedString(),
					r.Cell(month, account, currency, wheel.CategoryCall).Net().SignedString(),
					r.Cell(month, account, currency, wheel.CategoryITMCall).Net().SignedString(),
					r.Cell(month, account, currency, wheel.CategorySale).Net().SignedString(),
					total.Net().SignedString(),
				)
			}
		}

		fyMarkdown(&b, r, fy, account)
	}

	quarantine := Header(func(w io.Writer) {
		fmt.Fprintln(w, "\n## Quarantined")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "| Ticker | Reason |")
		fmt.Fprintln(w, "|:---|:---|")
	})
	for _, ticker := range slices.Sorted(maps.Keys(r.Faults.Tickers())) {
		quarantine.PrintHeader(&b)
		reasons := make([]string, 0, 1)
		for _, f := range r.Faults.ForTicker(ticker) {
			reasons = append(reasons, f.Kind.String())
		}
		fmt.Fprintf(&b, "| %s | %s |\n", ticker, strings.Join(reasons, ", "))
	}

	if r.EstimatedIn(fy) {
		fmt.Fprintln(&b, "\n(e) converted with a current-rate fallback for at least one trade.")
	}

	return b.String()
}

// fyMarkdown prints the fiscal year roll-up for one account, with gains and
// losses shown separately the way a tax filing wants them.
func fyMarkdown(b *strings.Builder, r *wheel.GainsReport, fy wheel.FinancialYear, account string) {
	cells := r.FinancialYearCells(fy)
	currencies := append(r.Currencies(), wheel.BaseRow)

	section := Header(func(w io.Writer) {
		fmt.Fprintf(w, "\n### %s totals\n\n", fy)
		fmt.Fprintln(w, "| Currency | Gains | Losses | Net |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|")
	})
	for _, currency := range currencies {
		cell, ok := cells[wheel.FYKey{Account: account, Currency: currency, Category: wheel.CategoryTotal}]
		if !ok {
			continue
		}
		section.PrintHeader(b)
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			currency,
			cell.Gains.String(),
			cell.Losses.String(),
			cell.Net().SignedString(),
		)
	}
}
