package wheel

import "errors"

// The journal is the single owner of the batch-formation rules. It replays
// the raw records into low-level atomic events that both the batch ledger and
// the capital gains engine fold over, so a rule change lands in exactly one
// place.
//
// Replay order is part of the contract: all transactions first, then all
// trades, each in input order. The streams are never re-sorted by date; the
// source system's historical behavior depends on input order and later steps
// (call trades) depend on batches created by earlier ones.

// asFault converts an engine error into a Fault for the given ticker.
func asFault(err error, ticker string) Fault {
	var f Fault
	if errors.As(err, &f) {
		return f
	}
	return Fault{Kind: FaultBadSplitRatio, Ticker: ticker}
}

// event represents a single, atomic operation in the wheel's history.
type event interface {
	when() Date
}

// acquireShares adds shares to a batch (code set) or, with an empty code, to
// the ticker's partial holding.
type acquireShares struct {
	on         Date
	account    string
	ticker     string
	code       string
	quantity   Quantity // split-adjusted, current-share terms
	amount     Money    // raw notional (price x recorded quantity)
	commission Money
}

func (e acquireShares) when() Date { return e.on }

// sellShares removes shares from the ticker's partial holding.
type sellShares struct {
	on         Date
	account    string
	ticker     string
	quantity   Quantity // split-adjusted
	amount     Money    // raw notional
	commission Money
}

func (e sellShares) when() Date { return e.on }

// assignPut creates (or funds) a batch from an assigned short put.
type assignPut struct {
	on      Date // assignment date (the put's close date)
	traded  Date // the put's trade date, used for premium bucketing
	account string
	ticker  string
	code    string
	strike  Money
	size    Quantity
	premium Money // net premium of the whole put trade
}

func (e assignPut) when() Date { return e.on }

// putPremium is the net premium of a put that expired, was bought back, or is
// still open: put-only income, no batch involved.
type putPremium struct {
	on      Date
	account string
	ticker  string
	premium Money
}

func (e putPremium) when() Date { return e.on }

// callTraded is a covered call written against an existing batch.
type callTraded struct {
	on         Date // trade date
	account    string
	ticker     string
	code       string
	strike     Money
	expiry     Date
	size       Quantity
	premium    Money // net premium of the whole call trade
	tradePrice Money
	open       bool // no closing leg
	exercised  bool // closed above strike: the batch is called away
}

func (e callTraded) when() Date { return e.on }

// journal is the replayed event stream plus the faults that quarantined
// tickers during the replay.
type journal struct {
	events []event
	faults Faults
}

// newJournal replays transactions then trades into atomic events.
//
// A referential fault (call against an unknown or closed batch, missing or
// malformed instrument) quarantines the whole ticker: its events are dropped
// and a Fault is recorded, so a corrupted cost basis can never leak into a
// report while other tickers still process normally.
func newJournal(ref *Reference, txs []Transaction, trades []Trade) *journal {
	j := &journal{}

	faulted := make(map[string]bool)
	batchTicker := make(map[string]string) // batch code -> owning ticker
	closed := make(map[string]bool)        // batch codes that exited

	fault := func(f Fault) {
		faulted[f.Ticker] = true
		j.faults = append(j.faults, f)
	}

	// instrument resolves the reference data a record needs, faulting the
	// ticker when it is missing or malformed.
	instrument := func(ticker string, needSize bool) (Instrument, Quantity, bool) {
		if faulted[ticker] {
			return Instrument{}, Quantity{}, false
		}
		inst := ref.Instrument(ticker)
		if inst == nil {
			fault(Fault{Kind: FaultMissingInstrument, Ticker: ticker})
			return Instrument{}, Quantity{}, false
		}
		if !needSize {
			return *inst, Quantity{}, true
		}
		size, err := inst.ContractSize()
		if err != nil {
			fault(Fault{Kind: FaultBadOptionSize, Ticker: ticker})
			return Instrument{}, Quantity{}, false
		}
		return *inst, size, true
	}

	for _, tx := range txs {
		switch v := tx.(type) {
		case Purchase:
			inst, _, ok := instrument(v.Ticker, false)
			if !ok {
				continue
			}
			price := M(v.Price.Amount(), inst.Currency)
			commission := M(v.Commission.Amount(), inst.Currency)
			if len(v.BatchCodes) == 0 {
				adjusted, err := ref.AdjustForward(v.Ticker, v.Quantity, v.Date)
				if err != nil {
					fault(asFault(err, v.Ticker))
					continue
				}
				j.events = append(j.events, acquireShares{
					on: v.Date, account: v.Account, ticker: v.Ticker,
					quantity: adjusted, amount: price.Mul(v.Quantity), commission: commission,
				})
				continue
			}
			// The notional is split pro-rata across the listed codes, but
			// each batch is charged the full commission (source behavior).
			share := v.Quantity.Div(Q(len(v.BatchCodes)))
			adjusted, err := ref.AdjustForward(v.Ticker, share, v.Date)
			if err != nil {
				fault(asFault(err, v.Ticker))
				continue
			}
			for _, code := range v.BatchCodes {
				if owner, ok := batchTicker[code]; ok && owner != v.Ticker {
					fault(Fault{Kind: FaultUnknownBatch, Ticker: v.Ticker, Code: code, On: v.Date})
					break
				}
				batchTicker[code] = v.Ticker
				j.events = append(j.events, acquireShares{
					on: v.Date, account: v.Account, ticker: v.Ticker, code: code,
					quantity: adjusted, amount: price.Mul(share), commission: commission,
				})
			}
		case Sale:
			inst, _, ok := instrument(v.Ticker, false)
			if !ok {
				continue
			}
			adjusted, err := ref.AdjustForward(v.Ticker, v.Quantity, v.Date)
			if err != nil {
				fault(asFault(err, v.Ticker))
				continue
			}
			j.events = append(j.events, sellShares{
				on: v.Date, account: v.Account, ticker: v.Ticker,
				quantity: adjusted,
				amount:   M(v.Price.Amount(), inst.Currency).Mul(v.Quantity),
				commission: M(v.Commission.Amount(), inst.Currency),
			})
		}
	}

	for _, trade := range trades {
		switch v := trade.(type) {
		case Put:
			inst, size, ok := instrument(v.Ticker, true)
			if !ok {
				continue
			}
			strike := M(v.Strike.Amount(), inst.Currency)
			premium := rebase(v.NetPremium(size), inst.Currency)
			if !v.Assigned() {
				j.events = append(j.events, putPremium{
					on: v.Date, account: v.Account, ticker: v.Ticker, premium: premium,
				})
				continue
			}
			if v.BatchCode == "" {
				// An assigned put with no code cannot create a trackable batch.
				fault(Fault{Kind: FaultUnknownBatch, Ticker: v.Ticker, On: v.Date})
				continue
			}
			if owner, ok := batchTicker[v.BatchCode]; ok && owner != v.Ticker {
				fault(Fault{Kind: FaultUnknownBatch, Ticker: v.Ticker, Code: v.BatchCode, On: v.Date})
				continue
			}
			batchTicker[v.BatchCode] = v.Ticker
			j.events = append(j.events, assignPut{
				on: v.Close.Date, traded: v.Date,
				account: v.Account, ticker: v.Ticker, code: v.BatchCode,
				strike: strike, size: size, premium: premium,
			})
		case Call:
			inst, size, ok := instrument(v.Ticker, true)
			if !ok {
				continue
			}
			owner, exists := batchTicker[v.BatchCode]
			if !exists || owner != v.Ticker {
				// A call must reference an existing batch; creating a
				// phantom one here would corrupt the cost basis downstream.
				fault(Fault{Kind: FaultUnknownBatch, Ticker: v.Ticker, Code: v.BatchCode, On: v.Date})
				continue
			}
			if closed[v.BatchCode] {
				fault(Fault{Kind: FaultBatchClosed, Ticker: v.Ticker, Code: v.BatchCode, On: v.Date})
				continue
			}
			exercised := v.Exercised()
			if exercised {
				closed[v.BatchCode] = true
			}
			j.events = append(j.events, callTraded{
				on: v.Date, account: v.Account, ticker: v.Ticker, code: v.BatchCode,
				strike: M(v.Strike.Amount(), inst.Currency), expiry: v.Expiry, size: size,
				premium:    rebase(v.NetPremium(size), inst.Currency),
				tradePrice: M(v.TradePrice.Amount(), inst.Currency),
				open:       !v.Closed(),
				exercised:  exercised,
			})
		}
	}

	if len(faulted) > 0 {
		kept := j.events[:0]
		for _, e := range j.events {
			if !faulted[eventTicker(e)] {
				kept = append(kept, e)
			}
		}
		j.events = kept
	}
	return j
}

// rebase stamps a currency-weak amount with the instrument currency.
func rebase(m Money, currency string) Money { return M(m.Amount(), currency) }

func eventTicker(e event) string {
	switch v := e.(type) {
	case acquireShares:
		return v.ticker
	case sellShares:
		return v.ticker
	case assignPut:
		return v.ticker
	case putPremium:
		return v.ticker
	case callTraded:
		return v.ticker
	default:
		return ""
	}
}
