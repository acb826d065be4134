package wheel

import (
	"github.com/shopspring/decimal"
)

// Prices is the current price lookup table, keyed by ticker, in the ticker's
// settlement currency.
type Prices map[string]Money

// Rates bundles the pre-resolved exchange rate lookup tables the engines
// consume. A rate is the number of units of a currency one unit of the base
// currency buys, so converting to base divides by the rate.
type Rates struct {
	Base       string                                // the reporting currency
	Current    map[string]decimal.Decimal            // by currency
	Historical map[Date]map[string]decimal.Decimal   // by date, then currency (sparse)
}

// NewRates creates an empty rate table for the given base currency.
func NewRates(base string) *Rates {
	return &Rates{
		Base:       base,
		Current:    make(map[string]decimal.Decimal),
		Historical: make(map[Date]map[string]decimal.Decimal),
	}
}

// SetCurrent records the current rate for a currency.
func (r *Rates) SetCurrent(currency string, rate decimal.Decimal) {
	r.Current[currency] = rate
}

// SetHistorical records the rate in effect for a currency on a date.
func (r *Rates) SetHistorical(on Date, currency string, rate decimal.Decimal) {
	day, ok := r.Historical[on]
	if !ok {
		day = make(map[string]decimal.Decimal)
		r.Historical[on] = day
	}
	day[currency] = rate
}

// On returns the rate in effect for a currency on a date. When no historical
// rate is known for that date it falls back to the current rate and reports
// estimated=true, so callers can tag the period instead of silently mixing
// rate vintages. A currency with no rate at all is a fault.
func (r *Rates) On(on Date, currency string) (rate decimal.Decimal, estimated bool, err error) {
	if currency == r.Base {
		return decimal.NewFromInt(1), false, nil
	}
	if day, ok := r.Historical[on]; ok {
		if rate, ok := day[currency]; ok && rate.IsPositive() {
			return rate, false, nil
		}
	}
	if rate, ok := r.Current[currency]; ok && rate.IsPositive() {
		return rate, true, nil
	}
	return decimal.Decimal{}, false, Fault{Kind: FaultMissingRate, Ticker: currency, On: on}
}

// Now returns the current rate for a currency, or a fault when unknown.
func (r *Rates) Now(currency string) (decimal.Decimal, error) {
	if currency == r.Base {
		return decimal.NewFromInt(1), nil
	}
	if rate, ok := r.Current[currency]; ok && rate.IsPositive() {
		return rate, nil
	}
	return decimal.Decimal{}, Fault{Kind: FaultMissingRate, Ticker: currency}
}
