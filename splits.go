package wheel

import "github.com/shopspring/decimal"

// StockSplit is a share split event: quantities recorded before the effective
// date are worth Ratio times as many shares afterwards.
type StockSplit struct {
	Ticker    string          `json:"ticker"`
	Effective Date            `json:"effective"`
	Ratio     decimal.Decimal `json:"ratio"`
}

// AdjustForward restates a quantity recorded on a given date in current-share
// terms: every split effective after that date multiplies it by the split
// ratio. Quantities recorded on or after a split's effective date are left
// untouched by that split.
func (r *Reference) AdjustForward(ticker string, quantity Quantity, on Date) (Quantity, error) {
	for _, s := range r.splits[ticker] {
		if !s.Ratio.IsPositive() {
			return Quantity{}, Fault{Kind: FaultBadSplitRatio, Ticker: ticker, On: s.Effective}
		}
		if on.Before(s.Effective) {
			quantity = quantity.Mul(Q(s.Ratio))
		}
	}
	return quantity, nil
}

// AdjustBackward is the exact inverse of AdjustForward: it restates a
// current-share quantity in the share terms of the given date.
func (r *Reference) AdjustBackward(ticker string, quantity Quantity, on Date) (Quantity, error) {
	for _, s := range r.splits[ticker] {
		if !s.Ratio.IsPositive() {
			return Quantity{}, Fault{Kind: FaultBadSplitRatio, Ticker: ticker, On: s.Effective}
		}
		if on.Before(s.Effective) {
			quantity = quantity.Div(Q(s.Ratio))
		}
	}
	return quantity, nil
}
