package wheel

import (
	"testing"
	"time"
)

// setupValuation builds the simple-wheel ledger: one batch of 100 AAPL at a
// 5001 USD cost, 149 of premium, and an open in-the-money 55 call.
func setupValuation(t *testing.T) (*Ledger, Prices, *Rates) {
	t.Helper()
	ref := newTestReference(t)
	txs := []Transaction{
		NewPurchase("trading", "AAPL", day(1, time.February, 2024), Q(100), M(50, "USD"), M(1, "USD"), "B1"),
	}
	trades := []Trade{
		NewCall("trading", "AAPL", day(5, time.February, 2024), day(19, time.December, 2025),
			M(55, "USD"), M(1.5, "USD"), M(1, "USD"), "B1"),
	}
	prices := Prices{"AAPL": M(60, "USD")}
	ledger := NewLedger(ref, txs, trades, prices, day(1, time.June, 2024))
	return ledger, prices, newTestRates(t)
}

func TestValuation(t *testing.T) {
	ledger, prices, rates := setupValuation(t)
	cash := map[string]Money{"GBP": M(1000, "GBP")}

	v := NewValuation(ledger, prices, rates, cash)
	if len(v.Faults) != 0 {
		t.Fatalf("unexpected faults: %v", v.Faults)
	}
	if len(v.Tickers) != 1 {
		t.Fatalf("got %d tickers, want 1", len(v.Tickers))
	}

	var aapl TickerValuation
	for _, tv := range v.Tickers {
		if tv.Ticker == "AAPL" {
			aapl = tv
		}
	}
	if aapl.Blocked {
		t.Fatal("AAPL is blocked")
	}
	checkQuantity(t, "Quantity", aapl.Quantity, 100)
	// 100 shares at 60, minus the (60-55)*100 committed to the open call.
	checkMoney(t, "Value", aapl.Value, 5500, "USD")
	// Net cost is the acquisition cost minus collected premium: 5001 - 149.
	checkMoney(t, "AvgCost", aapl.AvgCost, 48.52, "USD")
	if want := Percent(60.0/48.52 - 1); !aapl.Return.Equal(want) {
		t.Errorf("Return = %v, want %v", aapl.Return, want)
	}
	// (5500 - 4852) USD converted at 1.25.
	checkMoney(t, "BaseReturn", aapl.BaseReturn, 518.4, "GBP")

	checkMoney(t, "Breakdown.Wheeling", aapl.Breakdown.Wheeling, 5500, "USD")
	checkMoney(t, "Breakdown.Partial", aapl.Breakdown.Partial, 0, "USD")

	// USD 5500 -> 4400 GBP, plus 1000 GBP cash.
	checkMoney(t, "GrandTotal", v.GrandTotal, 5400, "GBP")
	usd := v.Currencies["USD"]
	checkMoney(t, "USD total", usd.Total, 5500, "USD")
	checkMoney(t, "USD base total", usd.BaseTotal, 4400, "GBP")
	if want := Percent(4400.0 / 5400.0); !usd.Weight.Equal(want) {
		t.Errorf("USD weight = %v, want %v", usd.Weight, want)
	}
	gbp := v.Currencies["GBP"]
	checkMoney(t, "GBP total", gbp.Total, 1000, "GBP")
	if want := Percent(4400.0 / 5400.0); !aapl.Weight.Equal(want) {
		t.Errorf("AAPL weight = %v, want %v", aapl.Weight, want)
	}
}

func TestValuationWheeledNetsAgainstCost(t *testing.T) {
	ref := newTestReference(t)
	trades := []Trade{
		// Assigned into a batch, called away with a 200 gain, plus 108 of
		// premium. Nothing is left open.
		NewPut("trading", "SHEL", day(10, time.February, 2024), day(15, time.March, 2024),
			M(40, "GBP"), M(0.5, "GBP"), M(1, "GBP"), "S1").
			WithClose(day(15, time.March, 2024), M(38, "GBP"), M(0, "GBP"), M(0, "GBP")),
		NewCall("trading", "SHEL", day(20, time.March, 2024), day(19, time.April, 2024),
			M(42, "GBP"), M(0.6, "GBP"), M(1, "GBP"), "S1").
			WithClose(day(19, time.April, 2024), M(45, "GBP"), M(0, "GBP"), M(0, "GBP")),
	}
	prices := Prices{"SHEL": M(44, "GBP")}
	ledger := NewLedger(ref, nil, trades, prices, day(1, time.June, 2024))

	v := NewValuation(ledger, prices, newTestRates(t), nil)
	shel := v.Tickers[0]
	checkQuantity(t, "Quantity", shel.Quantity, 0)
	checkMoney(t, "Value", shel.Value, 0, "GBP")
	// The realized return shows up in the breakdown even with no open
	// shares.
	checkMoney(t, "Breakdown.Wheeled", shel.Breakdown.Wheeled, 200, "GBP")
}

func TestValuationMissingPriceBlocks(t *testing.T) {
	ledger, prices, rates := setupValuation(t)
	delete(prices, "AAPL")

	v := NewValuation(ledger, prices, rates, nil)
	var aapl TickerValuation
	for _, tv := range v.Tickers {
		if tv.Ticker == "AAPL" {
			aapl = tv
		}
	}
	if !aapl.Blocked {
		t.Fatal("ticker with open shares and no price is not blocked")
	}
	if len(v.Faults.ForTicker("AAPL")) != 1 || v.Faults.ForTicker("AAPL")[0].Kind != FaultMissingPrice {
		t.Fatalf("Faults = %v, want one missing price fault", v.Faults)
	}
	// A blocked ticker's value must not read as zero-and-fine: it is
	// excluded from the totals.
	checkMoney(t, "GrandTotal", v.GrandTotal, 0, "GBP")
}

func TestValuationMissingRateBlocks(t *testing.T) {
	ledger, prices, _ := setupValuation(t)
	rates := NewRates("GBP") // no USD rate

	v := NewValuation(ledger, prices, rates, nil)
	var aapl TickerValuation
	for _, tv := range v.Tickers {
		if tv.Ticker == "AAPL" {
			aapl = tv
		}
	}
	if !aapl.Blocked {
		t.Fatal("ticker without a currency rate is not blocked")
	}
	if len(v.Faults) == 0 {
		t.Fatal("missing rate did not fault")
	}
}
