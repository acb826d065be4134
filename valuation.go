package wheel

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// ValuationBreakdown categorizes a ticker's valuation by holding kind.
type ValuationBreakdown struct {
	Wheeling Money // open batches at current price, net of missed upside
	Partial  Money // un-lotted shares at current price
	Wheeled  Money // realized return of exited batches (exit minus cost)
	PutOnly  Money // premium from puts that never assigned
}

// TickerValuation is the unrealized state of one ticker at the reporting
// instant.
type TickerValuation struct {
	Ticker   string
	Currency string

	Price      Money
	Quantity   Quantity // open (wheeling + partial) shares
	Value      Money    // open shares at current price, net of missed upside
	AvgCost    Money    // per share, net of premiums and wheeled returns
	Return     Percent  // price / avgCost - 1
	BaseReturn Money    // premium and growth components, in the base currency
	Breakdown  ValuationBreakdown
	Weight     Percent // share of the grand total, in base terms

	// Blocked marks a ticker whose valuation could not be computed for lack
	// of a price or rate. Its money fields are zero and must not be read as
	// "worthless".
	Blocked bool
}

// CurrencyAllocation sums one currency's holdings and cash.
type CurrencyAllocation struct {
	Total     Money // holdings value plus cash, currency-native
	BaseTotal Money
	Weight    Percent
}

// Valuation is the unrealized-return and allocation view of a batch ledger at
// one instant, in current prices and current rates.
type Valuation struct {
	Base       string
	AsOf       Date
	Tickers    []TickerValuation
	Currencies map[string]CurrencyAllocation
	GrandTotal Money // in base currency
	Faults     Faults
}

// NewValuation computes unrealized returns, categorized valuations and
// allocation weights from the batch ledger. cash supplies externally held
// account balances by currency, included in the allocation totals.
//
// A ticker missing a current price, or a currency missing a rate, is reported
// blocked rather than silently valued at zero.
func NewValuation(ledger *Ledger, prices Prices, rates *Rates, cash map[string]Money) *Valuation {
	v := &Valuation{
		Base:       rates.Base,
		AsOf:       ledger.AsOf,
		Currencies: make(map[string]CurrencyAllocation),
	}

	currencyTotals := make(map[string]Money)

	for _, ticker := range ledger.Tickers() {
		s := ledger.Stocks[ticker]
		tv := TickerValuation{Ticker: ticker, Currency: s.Currency}

		openQty := s.Wheeling.Quantity.Add(s.Partial.Quantity)
		tv.Quantity = openQty

		price, havePrice := prices[ticker]
		if !havePrice && openQty.IsPositive() {
			tv.Blocked = true
			v.Faults = append(v.Faults, Fault{Kind: FaultMissingPrice, Ticker: ticker})
			v.Tickers = append(v.Tickers, tv)
			continue
		}
		tv.Price = price

		wheeledReturn := s.Wheeled.ExitValue.Sub(s.Wheeled.AcquisitionCost)
		totalPremium := s.Wheeling.Premium.Add(s.Wheeled.Premium).Add(s.PutOnly.Premium)

		tv.Breakdown = ValuationBreakdown{
			Wheeling: price.Mul(s.Wheeling.Quantity).Sub(s.Wheeling.MissedUpside),
			Partial:  price.Mul(s.Partial.Quantity),
			Wheeled:  wheeledReturn,
			PutOnly:  s.PutOnly.Premium,
		}
		tv.Value = price.Mul(openQty).Sub(s.Wheeling.MissedUpside)

		netCost := s.Wheeling.AcquisitionCost.Add(s.Partial.AcquisitionCost).
			Sub(wheeledReturn).Sub(totalPremium)
		if openQty.IsPositive() {
			tv.AvgCost = netCost.Div(openQty)
			if !tv.AvgCost.IsZero() {
				tv.Return = Percent(price.Amount().Div(tv.AvgCost.Amount()).InexactFloat64() - 1)
			}
		}

		rate, err := rates.Now(s.Currency)
		if err != nil {
			tv.Blocked = true
			v.Faults = append(v.Faults, asFault(err, ticker))
			v.Tickers = append(v.Tickers, tv)
			continue
		}
		tv.BaseReturn = tv.Value.Sub(netCost).DivRate(rate, v.Base)

		cur := M(currencyTotals[s.Currency].Amount(), s.Currency).Add(tv.Value)
		currencyTotals[s.Currency] = cur

		v.Tickers = append(v.Tickers, tv)
	}

	// Cash balances count toward allocation even in currencies with no
	// holdings.
	for currency, amount := range cash {
		currencyTotals[currency] = M(currencyTotals[currency].Amount(), currency).Add(amount)
	}

	grand := decimal.Zero
	baseTotals := make(map[string]Money)
	for _, currency := range slices.Sorted(maps.Keys(currencyTotals)) {
		rate, err := rates.Now(currency)
		if err != nil {
			v.Faults = append(v.Faults, asFault(err, currency))
			continue
		}
		baseTotal := currencyTotals[currency].DivRate(rate, v.Base)
		baseTotals[currency] = baseTotal
		grand = grand.Add(baseTotal.Amount())
	}
	v.GrandTotal = M(grand, v.Base)

	for currency, total := range currencyTotals {
		alloc := CurrencyAllocation{Total: total}
		if baseTotal, ok := baseTotals[currency]; ok {
			alloc.BaseTotal = baseTotal
			if grand.IsPositive() {
				alloc.Weight = Percent(baseTotal.Amount().Div(grand).InexactFloat64())
			}
		}
		v.Currencies[currency] = alloc
	}

	// Per-ticker weight of the grand total.
	if grand.IsPositive() {
		for i := range v.Tickers {
			tv := &v.Tickers[i]
			if tv.Blocked || tv.Value.IsZero() {
				continue
			}
			rate, err := rates.Now(tv.Currency)
			if err != nil {
				continue
			}
			tv.Weight = Percent(tv.Value.Amount().Div(rate).Div(grand).InexactFloat64())
		}
	}
	return v
}
