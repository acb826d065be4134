package wheel

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// day builds a Date from the DD/MM/YYYY order records use.
func day(dd int, mm time.Month, yyyy int) Date { return NewDate(yyyy, mm, dd) }

// newTestReference returns reference data with the two instruments most tests
// use: a USD and a GBP stock, both with 100-share option contracts.
func newTestReference(t *testing.T) *Reference {
	t.Helper()
	ref := NewReference()
	ref.AddInstrument(Instrument{Ticker: "AAPL", Currency: "USD", Size: 100})
	ref.AddInstrument(Instrument{Ticker: "SHEL", Currency: "GBP", Size: 100})
	return ref
}

// newTestRates returns a GBP-based rate table with a current USD rate.
func newTestRates(t *testing.T) *Rates {
	t.Helper()
	rates := NewRates("GBP")
	rates.SetCurrent("USD", decimal.NewFromFloat(1.25))
	return rates
}

// checkMoney fails the test when got is not the wanted amount in the wanted
// currency.
func checkMoney(t *testing.T, name string, got Money, value float64, currency string) {
	t.Helper()
	want := M(value, currency)
	if !got.Equal(want) || got.Currency() != currency {
		t.Errorf("%s = %s %s, want %s %s", name, got.Amount(), got.Currency(), want.Amount(), currency)
	}
}

// checkQuantity fails the test when got is not the wanted share count.
func checkQuantity(t *testing.T, name string, got Quantity, value float64) {
	t.Helper()
	if !got.Equal(Q(value)) {
		t.Errorf("%s = %s, want %v", name, got, value)
	}
}
