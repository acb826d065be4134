package wheel

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAdjustForward(t *testing.T) {
	ref := newTestReference(t)
	ref.AddSplit(StockSplit{Ticker: "AAPL", Effective: day(31, time.August, 2020), Ratio: decimal.NewFromInt(20)})

	// A quantity recorded before the split inflates 20-fold.
	got, err := ref.AdjustForward("AAPL", Q(5), day(1, time.June, 2020))
	if err != nil {
		t.Fatalf("AdjustForward failed: %v", err)
	}
	checkQuantity(t, "pre-split quantity", got, 100)

	// On or after the effective date the quantity is already in current
	// terms.
	got, err = ref.AdjustForward("AAPL", Q(5), day(31, time.August, 2020))
	if err != nil {
		t.Fatalf("AdjustForward failed: %v", err)
	}
	checkQuantity(t, "post-split quantity", got, 5)

	// Tickers with no splits pass through.
	got, err = ref.AdjustForward("SHEL", Q(5), day(1, time.June, 2020))
	if err != nil {
		t.Fatalf("AdjustForward failed: %v", err)
	}
	checkQuantity(t, "no-split quantity", got, 5)
}

func TestAdjustRoundTrip(t *testing.T) {
	ref := newTestReference(t)
	ref.AddSplit(StockSplit{Ticker: "AAPL", Effective: day(31, time.August, 2020), Ratio: decimal.NewFromInt(20)})
	ref.AddSplit(StockSplit{Ticker: "AAPL", Effective: day(1, time.March, 2023), Ratio: decimal.NewFromInt(3)})

	on := day(1, time.June, 2020)
	forward, err := ref.AdjustForward("AAPL", Q(7), on)
	if err != nil {
		t.Fatalf("AdjustForward failed: %v", err)
	}
	checkQuantity(t, "double-split quantity", forward, 7*20*3)

	back, err := ref.AdjustBackward("AAPL", forward, on)
	if err != nil {
		t.Fatalf("AdjustBackward failed: %v", err)
	}
	checkQuantity(t, "round trip quantity", back, 7)
}

func TestAdjustBadRatio(t *testing.T) {
	ref := newTestReference(t)
	ref.AddSplit(StockSplit{Ticker: "AAPL", Effective: day(31, time.August, 2020), Ratio: decimal.Zero})

	_, err := ref.AdjustForward("AAPL", Q(5), day(1, time.June, 2020))
	f := asFault(err, "AAPL")
	if err == nil || f.Kind != FaultBadSplitRatio {
		t.Fatalf("AdjustForward with zero ratio = %v, want bad split ratio fault", err)
	}
}
