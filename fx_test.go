package wheel

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRatesOn(t *testing.T) {
	rates := NewRates("GBP")
	rates.SetCurrent("USD", decimal.NewFromFloat(1.25))
	rates.SetHistorical(day(15, time.March, 2024), "USD", decimal.NewFromFloat(1.2))

	// Base currency is always 1, never estimated.
	rate, estimated, err := rates.On(day(1, time.January, 2024), "GBP")
	if err != nil || estimated || !rate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("On(base) = %v, %v, %v", rate, estimated, err)
	}

	// Historical hit.
	rate, estimated, err = rates.On(day(15, time.March, 2024), "USD")
	if err != nil || estimated || !rate.Equal(decimal.NewFromFloat(1.2)) {
		t.Errorf("On(historical) = %v, %v, %v", rate, estimated, err)
	}

	// Missing date falls back to the current rate and says so.
	rate, estimated, err = rates.On(day(16, time.March, 2024), "USD")
	if err != nil || !estimated || !rate.Equal(decimal.NewFromFloat(1.25)) {
		t.Errorf("On(fallback) = %v, %v, %v", rate, estimated, err)
	}

	// Unknown currency is a fault.
	_, _, err = rates.On(day(15, time.March, 2024), "JPY")
	if f := asFault(err, "JPY"); err == nil || f.Kind != FaultMissingRate {
		t.Errorf("On(unknown) = %v, want missing rate fault", err)
	}
}

func TestRatesNow(t *testing.T) {
	rates := NewRates("GBP")
	rates.SetCurrent("USD", decimal.NewFromFloat(1.25))

	if rate, err := rates.Now("GBP"); err != nil || !rate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("Now(base) = %v, %v", rate, err)
	}
	if rate, err := rates.Now("USD"); err != nil || !rate.Equal(decimal.NewFromFloat(1.25)) {
		t.Errorf("Now(USD) = %v, %v", rate, err)
	}
	if _, err := rates.Now("JPY"); err == nil {
		t.Error("Now(unknown) did not fail")
	}
}

func TestMoneyDivRate(t *testing.T) {
	usd := M(125, "USD")
	got := usd.DivRate(decimal.NewFromFloat(1.25), "GBP")
	checkMoney(t, "converted", got, 100, "GBP")
}
