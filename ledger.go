package wheel

import (
	"maps"
	"slices"
)

// Ledger is the batch accounting state built from the raw record streams at
// one reporting instant. It is the input of the valuation engine and of the
// batches view.
type Ledger struct {
	AsOf    Date
	Batches map[string]*Batch // by batch code
	Stocks  map[string]*Stock // by ticker
	Faults  Faults
}

// NewLedger folds the raw records into batches and per-ticker aggregates.
//
// Transactions are processed before trades, each stream in input order.
// prices feed the missed-upside figure of open in-the-money calls; asOf
// decides whether an unclosed call is still active. Faulted tickers are
// quarantined and reported in Faults, never half-built.
func NewLedger(ref *Reference, txs []Transaction, trades []Trade, prices Prices, asOf Date) *Ledger {
	l := &Ledger{
		AsOf:    asOf,
		Batches: make(map[string]*Batch),
		Stocks:  make(map[string]*Stock),
	}

	j := newJournal(ref, txs, trades)
	l.Faults = j.faults

	stock := func(ticker string) *Stock {
		s, ok := l.Stocks[ticker]
		if !ok {
			currency := ""
			if inst := ref.Instrument(ticker); inst != nil {
				currency = inst.Currency
			}
			s = &Stock{Ticker: ticker, Currency: currency}
			l.Stocks[ticker] = s
		}
		return s
	}

	for _, e := range j.events {
		switch v := e.(type) {
		case acquireShares:
			if v.code == "" {
				p := &stock(v.ticker).Partial
				p.AcquisitionCost = p.AcquisitionCost.Add(v.amount).Add(v.commission)
				p.Quantity = p.Quantity.Add(v.quantity)
				continue
			}
			b, ok := l.Batches[v.code]
			if !ok {
				b = &Batch{
					Account: v.account, Ticker: v.ticker, Code: v.code,
					Origin: OriginPurchase, Currency: v.amount.Currency(),
					Acquired: v.on,
				}
				l.Batches[v.code] = b
			}
			b.fund(v.amount, v.commission, v.quantity)
		case sellShares:
			// Only the partial holding supports sales; lotted shares exit
			// through call assignment.
			p := &stock(v.ticker).Partial
			if p.Quantity.IsPositive() {
				unit := p.AcquisitionCost.Div(p.Quantity)
				p.AcquisitionCost = p.AcquisitionCost.Sub(unit.Mul(v.quantity))
			}
			p.Quantity = p.Quantity.Sub(v.quantity)
		case assignPut:
			b, ok := l.Batches[v.code]
			if !ok {
				b = &Batch{
					Account: v.account, Ticker: v.ticker, Code: v.code,
					Origin: OriginAssignment, Currency: v.strike.Currency(),
					Acquired:        v.on,
					AcquisitionCost: v.strike.Mul(v.size),
					Quantity:        v.size,
				}
				l.Batches[v.code] = b
			} else {
				b.fund(v.strike.Mul(v.size), Money{}, v.size)
			}
			b.Premium = b.Premium.Add(v.premium)
		case putPremium:
			po := &stock(v.ticker).PutOnly
			po.Premium = po.Premium.Add(v.premium)
		case callTraded:
			// The journal guarantees the batch exists and is not closed.
			b := l.Batches[v.code]
			b.Premium = b.Premium.Add(v.premium)
			switch {
			case v.exercised:
				b.ExitValue = v.strike.Mul(v.size)
				b.Exited = true
				b.CurrentCall = nil
			case v.open && !v.expiry.Before(asOf):
				b.CurrentCall = &OpenCall{Strike: v.strike, Expiry: v.expiry, TradePrice: v.tradePrice}
			}
		}
	}

	// Fold every batch into its ticker aggregate: exactly one of wheeling
	// or wheeled.
	for _, code := range slices.Sorted(maps.Keys(l.Batches)) {
		b := l.Batches[code]
		s := stock(b.Ticker)
		if b.Exited {
			w := &s.Wheeled
			w.AcquisitionCost = w.AcquisitionCost.Add(b.CostBasis())
			w.ExitValue = w.ExitValue.Add(b.ExitValue)
			w.Premium = w.Premium.Add(b.Premium)
			w.Quantity = w.Quantity.Add(b.Quantity)
			continue
		}
		w := &s.Wheeling
		w.AcquisitionCost = w.AcquisitionCost.Add(b.CostBasis())
		w.Premium = w.Premium.Add(b.Premium)
		w.Quantity = w.Quantity.Add(b.Quantity)
		if b.CurrentCall != nil {
			w.ActiveCalls++
			if price, ok := prices[b.Ticker]; ok && price.GreaterThan(b.CurrentCall.Strike) {
				w.MissedUpside = w.MissedUpside.Add(price.Sub(b.CurrentCall.Strike).Mul(b.Quantity))
			}
		}
	}
	return l
}

// fund adds a contribution to the batch's acquisition cost and quantity.
//
// Purchase-origin batches keep a quantity-weighted per-share average:
// (oldCost x oldQty + notional + commission) / (oldQty + qty). The whole
// commission enters the average once per batch, not pro-rated by quantity
// (source behavior, preserved). Assignment-origin batches hold totals, so a
// later purchase adds its full cost.
func (b *Batch) fund(amount, commission Money, quantity Quantity) {
	if b.Origin == OriginAssignment {
		b.AcquisitionCost = b.AcquisitionCost.Add(amount).Add(commission)
		b.Quantity = b.Quantity.Add(quantity)
		return
	}
	total := b.AcquisitionCost.Mul(b.Quantity).Add(amount).Add(commission)
	b.Quantity = b.Quantity.Add(quantity)
	b.AcquisitionCost = total.Div(b.Quantity)
}

// Tickers returns the ledger's tickers in alphabetical order.
func (l *Ledger) Tickers() []string {
	return slices.Sorted(maps.Keys(l.Stocks))
}

// BatchesOf returns the ticker's batches, ordered by code.
func (l *Ledger) BatchesOf(ticker string) []*Batch {
	var out []*Batch
	for _, code := range slices.Sorted(maps.Keys(l.Batches)) {
		if b := l.Batches[code]; b.Ticker == ticker {
			out = append(out, b)
		}
	}
	return out
}
