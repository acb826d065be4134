package wheel

import (
	"errors"
	"fmt"
)

// Trade is a single options trade: a short put or a covered call.
type Trade interface {
	Kind() RecordKind
	When() Date
}

// OptionClose is the closing leg of an option trade. Price is the underlying
// price at settlement; TradePrice is the buy-back premium per share, zero when
// the option expired or settled.
type OptionClose struct {
	Date       Date
	Price      Money
	TradePrice Money
	Commission Money
}

// optionRecord carries the fields common to put and call trades.
type optionRecord struct {
	Account    string
	Ticker     string
	Date       Date
	Expiry     Date
	Strike     Money
	TradePrice Money // premium received per share
	Commission Money
	BatchCode  string
	Close      *OptionClose
}

// When returns the date the option was written.
func (r optionRecord) When() Date { return r.Date }

// Closed reports whether the trade has a closing leg.
func (r optionRecord) Closed() bool { return r.Close != nil }

// ActiveAt reports whether the option is still open: no closing leg, and not
// yet expired at the reporting instant.
func (r optionRecord) ActiveAt(asOf Date) bool {
	return r.Close == nil && !r.Expiry.Before(asOf)
}

// NetPremium is the cumulative cash effect of the option per contract:
// premium received, minus any buy-back, minus commissions on both legs.
func (r optionRecord) NetPremium(size Quantity) Money {
	premium := r.TradePrice.Mul(size).Sub(r.Commission)
	if r.Close != nil {
		premium = premium.Sub(r.Close.TradePrice.Mul(size)).Sub(r.Close.Commission)
	}
	return premium
}

// Validate checks the fields every option record must carry.
func (r optionRecord) Validate() error {
	if r.Account == "" {
		return errors.New("account is missing")
	}
	if r.Ticker == "" {
		return errors.New("ticker is missing")
	}
	if r.Date.IsZero() {
		return errors.New("trade date is missing")
	}
	if r.Expiry.IsZero() {
		return errors.New("expiry is missing")
	}
	if !r.Strike.IsPositive() {
		return fmt.Errorf("strike must be positive, got %s", r.Strike)
	}
	return nil
}

func (r optionRecord) marshal(kind RecordKind) ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", kind)
	w.Append("account", r.Account)
	w.Append("ticker", r.Ticker)
	w.Append("date", r.Date)
	w.Append("expiry", r.Expiry)
	w.Append("strike", r.Strike.Amount())
	w.Append("tradePrice", r.TradePrice.Amount())
	w.Append("commission", r.Commission.Amount())
	w.Optional("batchCode", r.BatchCode)
	if r.Close != nil {
		w.Append("closeDate", r.Close.Date)
		w.Append("closePrice", r.Close.Price.Amount())
		w.Append("closeTradePrice", r.Close.TradePrice.Amount())
		w.Append("closeCommission", r.Close.Commission.Amount())
	}
	return w.MarshalJSON()
}

// Put is a cash-secured short put. If it settles below strike it is assigned
// and creates a new batch; otherwise its premium is put-only income.
type Put struct {
	optionRecord
}

// NewPut creates a Put trade.
func NewPut(account, ticker string, day, expiry Date, strike, tradePrice, commission Money, code string) Put {
	return Put{optionRecord{
		Account: account, Ticker: ticker, Date: day, Expiry: expiry,
		Strike: strike, TradePrice: tradePrice, Commission: commission, BatchCode: code,
	}}
}

func (Put) Kind() RecordKind { return KindPut }

// Assigned reports whether the put settled in the money: closed, with the
// underlying strictly below strike.
func (p Put) Assigned() bool {
	return p.Close != nil && p.Close.Price.LessThan(p.Strike)
}

// MarshalJSON implements the json.Marshaler interface for Put.
func (p Put) MarshalJSON() ([]byte, error) { return p.optionRecord.marshal(KindPut) }

// Call is a covered call written against an existing batch.
type Call struct {
	optionRecord
}

// NewCall creates a Call trade against the given batch code.
func NewCall(account, ticker string, day, expiry Date, strike, tradePrice, commission Money, code string) Call {
	return Call{optionRecord{
		Account: account, Ticker: ticker, Date: day, Expiry: expiry,
		Strike: strike, TradePrice: tradePrice, Commission: commission, BatchCode: code,
	}}
}

func (Call) Kind() RecordKind { return KindCall }

// Exercised reports whether the call settled in the money: closed, with the
// underlying strictly above strike. The batch is then called away.
func (c Call) Exercised() bool {
	return c.Close != nil && c.Close.Price.GreaterThan(c.Strike)
}

// MarshalJSON implements the json.Marshaler interface for Call.
func (c Call) MarshalJSON() ([]byte, error) { return c.optionRecord.marshal(KindCall) }

// WithClose returns a copy of the put with a closing leg attached.
func (p Put) WithClose(day Date, price, tradePrice, commission Money) Put {
	p.Close = &OptionClose{Date: day, Price: price, TradePrice: tradePrice, Commission: commission}
	return p
}

// WithClose returns a copy of the call with a closing leg attached.
func (c Call) WithClose(day Date, price, tradePrice, commission Money) Call {
	c.Close = &OptionClose{Date: day, Price: price, TradePrice: tradePrice, Commission: commission}
	return c
}
