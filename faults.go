package wheel

import "fmt"

// FaultKind classifies the data faults an engine can surface.
type FaultKind int

const (
	// FaultUnknownBatch is a call or sale referencing a batch code that no
	// purchase or put assignment ever created.
	FaultUnknownBatch FaultKind = iota
	// FaultBatchClosed is a call trade referencing a batch that already
	// exited through an in-the-money call.
	FaultBatchClosed
	// FaultMissingInstrument is a trade on a ticker absent from the
	// instrument reference table.
	FaultMissingInstrument
	// FaultBadOptionSize is an instrument declaring a non-positive option
	// contract size; premium-per-share cannot be computed from it.
	FaultBadOptionSize
	// FaultBadSplitRatio is a stock split declaring a non-positive ratio.
	FaultBadSplitRatio
	// FaultMissingPrice blocks a ticker's valuation when no current price
	// is available.
	FaultMissingPrice
	// FaultMissingRate blocks a currency conversion when no rate is
	// available at all.
	FaultMissingRate
)

func (k FaultKind) String() string {
	switch k {
	case FaultUnknownBatch:
		return "unknown batch"
	case FaultBatchClosed:
		return "batch already closed"
	case FaultMissingInstrument:
		return "missing instrument"
	case FaultBadOptionSize:
		return "bad option size"
	case FaultBadSplitRatio:
		return "bad split ratio"
	case FaultMissingPrice:
		return "missing price"
	case FaultMissingRate:
		return "missing rate"
	default:
		return "unknown fault"
	}
}

// Fault records a data-integrity problem local to one ticker or batch.
// Engines collect faults and quarantine the affected ticker instead of
// aborting the whole run, so one bad record cannot hide every other result.
type Fault struct {
	Kind   FaultKind
	Ticker string
	Code   string // batch code, when relevant
	On     Date   // date of the offending record, when relevant
}

func (f Fault) Error() string {
	s := fmt.Sprintf("%s: %s", f.Ticker, f.Kind)
	if f.Code != "" {
		s += fmt.Sprintf(" (batch %s)", f.Code)
	}
	if !f.On.IsZero() {
		s += fmt.Sprintf(" on %s", f.On)
	}
	return s
}

// Faults is the collection of faults surfaced by one engine run.
type Faults []Fault

// Tickers returns the set of tickers with at least one fault.
func (fs Faults) Tickers() map[string]bool {
	set := make(map[string]bool, len(fs))
	for _, f := range fs {
		set[f.Ticker] = true
	}
	return set
}

// ForTicker returns the faults recorded against one ticker.
func (fs Faults) ForTicker(ticker string) Faults {
	var out Faults
	for _, f := range fs {
		if f.Ticker == ticker {
			out = append(out, f)
		}
	}
	return out
}
