package wheel

import (
	"errors"
	"fmt"
	"strings"
)

// RecordKind is a typed string identifying a raw record.
type RecordKind string

// Record kinds used for identifying transactions and trades.
const (
	KindPurchase RecordKind = "purchase"
	KindSale     RecordKind = "sale"
	KindPut      RecordKind = "put"
	KindCall     RecordKind = "call"
)

// Transaction is an outright stock purchase or sale.
type Transaction interface {
	Kind() RecordKind
	When() Date
}

// stockRecord carries the fields common to purchases and sales. Prices and
// commissions are currency-weak: the settlement currency comes from the
// instrument reference data.
type stockRecord struct {
	Account    string
	Ticker     string
	Date       Date
	Quantity   Quantity
	Price      Money // per share
	Commission Money
}

// When returns the date of the record.
func (r stockRecord) When() Date { return r.Date }

// Validate checks the fields every stock record must carry.
func (r stockRecord) Validate() error {
	if r.Account == "" {
		return errors.New("account is missing")
	}
	if r.Ticker == "" {
		return errors.New("ticker is missing")
	}
	if r.Date.IsZero() {
		return errors.New("date is missing")
	}
	if !r.Quantity.IsPositive() {
		return fmt.Errorf("quantity must be positive, got %s", r.Quantity)
	}
	return nil
}

// Purchase is a stock buy. When it carries batch codes, the bought shares
// fund those lots; otherwise they accumulate in the ticker's partial holding.
type Purchase struct {
	stockRecord
	BatchCodes []string
}

// NewPurchase creates a Purchase. codes is the optional comma-separated list
// of batch codes the buy contributes to.
func NewPurchase(account, ticker string, day Date, quantity Quantity, price, commission Money, codes string) Purchase {
	return Purchase{
		stockRecord: stockRecord{Account: account, Ticker: ticker, Date: day, Quantity: quantity, Price: price, Commission: commission},
		BatchCodes:  SplitBatchCodes(codes),
	}
}

func (Purchase) Kind() RecordKind { return KindPurchase }

// MarshalJSON implements the json.Marshaler interface for Purchase.
func (t Purchase) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", KindPurchase)
	w.Append("account", t.Account)
	w.Append("ticker", t.Ticker)
	w.Append("date", t.Date)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price.Amount())
	w.Append("commission", t.Commission.Amount())
	w.Optional("batchCodes", strings.Join(t.BatchCodes, ","))
	return w.MarshalJSON()
}

// Sale is a stock sell. Sales never carry batch codes: lotted shares exit
// only through call assignment, so a sale always draws on the partial holding.
type Sale struct {
	stockRecord
}

// NewSale creates a Sale.
func NewSale(account, ticker string, day Date, quantity Quantity, price, commission Money) Sale {
	return Sale{
		stockRecord: stockRecord{Account: account, Ticker: ticker, Date: day, Quantity: quantity, Price: price, Commission: commission},
	}
}

func (Sale) Kind() RecordKind { return KindSale }

// MarshalJSON implements the json.Marshaler interface for Sale.
func (t Sale) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", KindSale)
	w.Append("account", t.Account)
	w.Append("ticker", t.Ticker)
	w.Append("date", t.Date)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price.Amount())
	w.Append("commission", t.Commission.Amount())
	return w.MarshalJSON()
}

// SplitBatchCodes parses the comma-separated batch code list of a raw record.
func SplitBatchCodes(codes string) []string {
	if strings.TrimSpace(codes) == "" {
		return nil
	}
	parts := strings.Split(codes, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
