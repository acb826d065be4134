package renderer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	wheel "github.com/jelefra/options-dashboard-sub000"
)

// fixture builds a small but complete portfolio: one wheeling batch with an
// open covered call, one assigned put that got called away, and one put that
// expired worthless.
func fixture(t *testing.T) (*wheel.Reference, []wheel.Transaction, []wheel.Trade, wheel.Prices, *wheel.Rates) {
	t.Helper()

	ref := wheel.NewReference()
	ref.AddInstrument(wheel.Instrument{Ticker: "AAPL", Currency: "USD", Size: 100})
	ref.AddInstrument(wheel.Instrument{Ticker: "SHEL", Currency: "GBP", Size: 100})

	d := func(day, month, year int) wheel.Date { return wheel.NewDate(year, time.Month(month), day) }

	txs := []wheel.Transaction{
		wheel.NewPurchase("trading", "AAPL", d(1, 2, 2024), wheel.Q(100), wheel.M(50, "USD"), wheel.M(1, "USD"), "B1"),
	}
	trades := []wheel.Trade{
		// Covered call on the purchased batch, still open.
		wheel.NewCall("trading", "AAPL", d(5, 2, 2024), d(19, 12, 2025), wheel.M(55, "USD"), wheel.M(1.5, "USD"), wheel.M(1, "USD"), "B1"),
		// Put assigned into a batch, then called away above cost.
		wheel.NewPut("trading", "SHEL", d(10, 2, 2024), d(15, 3, 2024), wheel.M(25, "GBP"), wheel.M(0.4, "GBP"), wheel.M(1, "GBP"), "S1").
			WithClose(d(15, 3, 2024), wheel.M(24, "GBP"), wheel.M(0, "GBP"), wheel.M(0, "GBP")),
		wheel.NewCall("trading", "SHEL", d(20, 3, 2024), d(19, 4, 2024), wheel.M(27, "GBP"), wheel.M(0.5, "GBP"), wheel.M(1, "GBP"), "S1").
			WithClose(d(19, 4, 2024), wheel.M(28, "GBP"), wheel.M(0, "GBP"), wheel.M(0, "GBP")),
		// Put that expired worthless: premium only.
		wheel.NewPut("isa", "AAPL", d(1, 3, 2024), d(19, 4, 2024), wheel.M(45, "USD"), wheel.M(0.8, "USD"), wheel.M(1, "USD"), "").
			WithClose(d(19, 4, 2024), wheel.M(50, "USD"), wheel.M(0, "USD"), wheel.M(0, "USD")),
	}

	prices := wheel.Prices{
		"AAPL": wheel.M(60, "USD"),
		"SHEL": wheel.M(26, "GBP"),
	}

	rates := wheel.NewRates("GBP")
	rates.SetCurrent("USD", decimal.NewFromFloat(1.25))
	return ref, txs, trades, prices, rates
}

// mustGFM converts the rendered markdown with the GitHub flavored extensions
// and fails the test when it does not parse or produces no table.
func mustGFM(t *testing.T, src string) string {
	t.Helper()
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		t.Fatalf("markdown does not convert: %v\n%s", err, src)
	}
	html := buf.String()
	if !strings.Contains(html, "<table>") {
		t.Fatalf("markdown produced no table:\n%s", src)
	}
	return html
}

func TestRenderBatches(t *testing.T) {
	ref, txs, trades, prices, _ := fixture(t)
	ledger := wheel.NewLedger(ref, txs, trades, prices, wheel.NewDate(2024, time.June, 1))

	got := RenderBatches(NewBatches(ledger))
	mustGFM(t, got)

	for _, want := range []string{
		"# Batches on 2024-06-01",
		"## AAPL (USD)",
		"| B1 | trading | purchase | 01/02/2024 |",
		"wheeling",
		"## SHEL (GBP)",
		"| S1 | trading | assignment |",
		"wheeled",
		"Missed upside on covered calls",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("batches report misses %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Quarantined") {
		t.Errorf("batches report has an unexpected quarantine section:\n%s", got)
	}
}

func TestRenderBatchesQuarantine(t *testing.T) {
	ref, txs, trades, prices, _ := fixture(t)
	// A call on an unknown batch quarantines its ticker.
	trades = append(trades, wheel.NewCall("trading", "AAPL", wheel.NewDate(2024, time.May, 1), wheel.NewDate(2024, time.June, 20),
		wheel.M(70, "USD"), wheel.M(0.3, "USD"), wheel.M(1, "USD"), "NOPE"))
	ledger := wheel.NewLedger(ref, txs, trades, prices, wheel.NewDate(2024, time.June, 1))

	got := RenderBatches(NewBatches(ledger))
	mustGFM(t, got)
	if !strings.Contains(got, "## Quarantined") || !strings.Contains(got, "AAPL") {
		t.Errorf("batches report misses the quarantine section:\n%s", got)
	}
}

func TestGainsMarkdown(t *testing.T) {
	ref, txs, trades, _, rates := fixture(t)
	report := wheel.NewGainsReport(ref, txs, trades, rates)
	fy := wheel.FinancialYearOf(wheel.MonthOf(wheel.NewDate(2024, time.March, 1)), time.January)

	got := GainsMarkdown(report, fy)
	mustGFM(t, got)

	for _, want := range []string{
		"# Capital Gains Report (2024)",
		"## trading",
		"## isa",
		"| 2024-03 | GBP |",
		"BASE",
		"totals",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("gains report misses %q:\n%s", want, got)
		}
	}
	// USD amounts convert with the current rate: the months are estimated.
	if !strings.Contains(got, "(e)") {
		t.Errorf("gains report misses the estimated marker:\n%s", got)
	}
}

func TestIncomeMarkdown(t *testing.T) {
	ref, _, trades, _, rates := fixture(t)
	report := wheel.NewIncomeReport(ref, trades, rates)

	got := IncomeMarkdown(report)
	mustGFM(t, got)

	for _, want := range []string{
		"# Premium Income (GBP base)",
		"## All",
		"## trading",
		"## isa",
		"| Month | Currency | Puts | Calls | Total |",
		"BASE",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("income report misses %q:\n%s", want, got)
		}
	}
}

func TestRenderValuation(t *testing.T) {
	ref, txs, trades, prices, rates := fixture(t)
	ledger := wheel.NewLedger(ref, txs, trades, prices, wheel.NewDate(2024, time.June, 1))
	valuation := wheel.NewValuation(ledger, prices, rates, map[string]wheel.Money{"GBP": wheel.M(1000, "GBP")})

	got := RenderValuation(NewValuationView(valuation))
	mustGFM(t, got)

	for _, want := range []string{
		"# Valuation on 2024-06-01",
		"Total Portfolio Value:",
		"| AAPL | 100 |",
		"## Allocation by Currency",
		"| USD |",
		"| GBP |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("valuation report misses %q:\n%s", want, got)
		}
	}
}

func TestRenderValuationBlocked(t *testing.T) {
	ref, txs, trades, prices, rates := fixture(t)
	delete(prices, "AAPL")
	ledger := wheel.NewLedger(ref, txs, trades, prices, wheel.NewDate(2024, time.June, 1))
	valuation := wheel.NewValuation(ledger, prices, rates, nil)

	got := RenderValuation(NewValuationView(valuation))
	if !strings.Contains(got, "## Blocked") || !strings.Contains(got, "AAPL") {
		t.Errorf("valuation report misses the blocked section:\n%s", got)
	}
}
