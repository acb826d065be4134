package wheel

import (
	"maps"
	"slices"
)

// IncomeSource classifies a row of the premium income ledger.
type IncomeSource string

const (
	IncomePut   IncomeSource = "put"
	IncomeCall  IncomeSource = "call"
	IncomeTotal IncomeSource = "total"
)

// AccountAll is the synthetic cross-account row of the income ledger.
const AccountAll = "All"

// IncomeKey addresses one cell of the monthly income ledger.
type IncomeKey struct {
	Month    Month
	Account  string
	Currency string
	Source   IncomeSource
}

// IncomeReport buckets gross premium received by month, account, currency and
// option kind. It is the cash-received view: no cost basis, no lots, each
// trade contributes independently.
type IncomeReport struct {
	Base      string
	Cells     map[IncomeKey]Money
	Estimated map[Month]bool
	Faults    Faults
}

// NewIncomeReport computes the premium income ledger from the trade stream.
//
// Income per trade is tradePrice x size + commission. The sign convention
// differs deliberately from the gains engine: this view reports gross cash
// received, so the commission is a cash adjustment rather than a cost.
func NewIncomeReport(ref *Reference, trades []Trade, rates *Rates) *IncomeReport {
	r := &IncomeReport{
		Base:      rates.Base,
		Cells:     make(map[IncomeKey]Money),
		Estimated: make(map[Month]bool),
	}

	faulted := make(map[string]bool)
	for _, trade := range trades {
		var rec optionRecord
		var source IncomeSource
		switch v := trade.(type) {
		case Put:
			rec, source = v.optionRecord, IncomePut
		case Call:
			rec, source = v.optionRecord, IncomeCall
		default:
			continue
		}
		if faulted[rec.Ticker] {
			continue
		}
		inst := ref.Instrument(rec.Ticker)
		if inst == nil {
			faulted[rec.Ticker] = true
			r.Faults = append(r.Faults, Fault{Kind: FaultMissingInstrument, Ticker: rec.Ticker})
			continue
		}
		size, err := inst.ContractSize()
		if err != nil {
			faulted[rec.Ticker] = true
			r.Faults = append(r.Faults, asFault(err, rec.Ticker))
			continue
		}

		income := M(rec.TradePrice.Amount(), inst.Currency).Mul(size).
			Add(M(rec.Commission.Amount(), inst.Currency))
		r.book(rates, rec.Date, rec.Account, source, income)
	}
	return r
}

// book accumulates one trade's income into its source cell, the total cell,
// the cross-account All rows, and their BASE counterparts.
func (r *IncomeReport) book(rates *Rates, on Date, account string, source IncomeSource, amount Money) {
	month := MonthOf(on)
	currency := amount.Currency()
	for _, acct := range []string{account, AccountAll} {
		r.add(month, acct, currency, source, amount)
		r.add(month, acct, currency, IncomeTotal, amount)
	}

	rate, estimated, err := rates.On(on, currency)
	if err != nil {
		r.Faults = append(r.Faults, asFault(err, currency))
		return
	}
	if estimated {
		r.Estimated[month] = true
	}
	converted := amount.DivRate(rate, r.Base)
	for _, acct := range []string{account, AccountAll} {
		r.add(month, acct, BaseRow, source, converted)
		r.add(month, acct, BaseRow, IncomeTotal, converted)
	}
}

func (r *IncomeReport) add(m Month, account, currency string, source IncomeSource, amount Money) {
	k := IncomeKey{Month: m, Account: account, Currency: currency, Source: source}
	r.Cells[k] = r.Cells[k].Add(amount)
}

// Cell returns the cell at the given coordinates (zero when empty).
func (r *IncomeReport) Cell(m Month, account, currency string, source IncomeSource) Money {
	return r.Cells[IncomeKey{Month: m, Account: account, Currency: currency, Source: source}]
}

// Months returns the populated months in chronological order.
func (r *IncomeReport) Months() []Month {
	set := make(map[Month]bool)
	for k := range r.Cells {
		set[k.Month] = true
	}
	months := slices.Collect(maps.Keys(set))
	slices.SortFunc(months, func(a, b Month) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		default:
			return 0
		}
	})
	return months
}

// Accounts returns the populated accounts, All last.
func (r *IncomeReport) Accounts() []string {
	set := make(map[string]bool)
	for k := range r.Cells {
		if k.Account != AccountAll {
			set[k.Account] = true
		}
	}
	accounts := slices.Sorted(maps.Keys(set))
	if len(accounts) > 0 {
		accounts = append(accounts, AccountAll)
	}
	return accounts
}
