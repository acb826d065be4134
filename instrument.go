package wheel

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Instrument is the immutable reference data of a tradable option underlying.
type Instrument struct {
	Ticker    string `json:"ticker"`
	Currency  string `json:"currency"`
	Size      int    `json:"optionSize"`           // shares per option contract
	AltTicker string `json:"altTicker,omitempty"`  // symbol used by external lookups
	Name      string `json:"name,omitempty"`       // display name
}

// ContractSize returns the option size as a quantity, or a fault when the
// reference data is malformed.
func (i Instrument) ContractSize() (Quantity, error) {
	if i.Size <= 0 {
		return Quantity{}, Fault{Kind: FaultBadOptionSize, Ticker: i.Ticker}
	}
	return Q(i.Size), nil
}

// Reference indexes instruments and stock splits by ticker. It is built once
// from reference data files and read by every engine.
type Reference struct {
	instruments map[string]Instrument
	splits      map[string][]StockSplit
}

// NewReference creates an empty reference table.
func NewReference() *Reference {
	return &Reference{
		instruments: make(map[string]Instrument),
		splits:      make(map[string][]StockSplit),
	}
}

// AddInstrument registers an instrument, replacing any previous entry for the
// same ticker.
func (r *Reference) AddInstrument(i Instrument) {
	r.instruments[i.Ticker] = i
}

// AddSplit registers a stock split, keeping each ticker's splits in effective
// date order.
func (r *Reference) AddSplit(s StockSplit) {
	splits := append(r.splits[s.Ticker], s)
	slices.SortStableFunc(splits, func(a, b StockSplit) int {
		switch {
		case a.Effective.Before(b.Effective):
			return -1
		case a.Effective.After(b.Effective):
			return 1
		default:
			return 0
		}
	})
	r.splits[s.Ticker] = splits
}

// Instrument returns the instrument declared for this ticker, or nil if unknown.
func (r *Reference) Instrument(ticker string) *Instrument {
	i, ok := r.instruments[ticker]
	if !ok {
		return nil
	}
	return &i
}

// Currency returns the settlement currency of the ticker, or an error when
// the ticker is unknown.
func (r *Reference) Currency(ticker string) (string, error) {
	i, ok := r.instruments[ticker]
	if !ok {
		return "", fmt.Errorf("instrument %q not declared", ticker)
	}
	return i.Currency, nil
}

// AllInstruments iterates over instruments in ticker order.
func (r *Reference) AllInstruments() iter.Seq[Instrument] {
	return func(yield func(Instrument) bool) {
		tickers := slices.Collect(maps.Keys(r.instruments))
		slices.Sort(tickers)
		for _, t := range tickers {
			if !yield(r.instruments[t]) {
				return
			}
		}
	}
}

// Splits returns the splits declared for a ticker, oldest first.
func (r *Reference) Splits(ticker string) []StockSplit {
	return r.splits[ticker]
}
