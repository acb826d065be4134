package wheel

import (
	"maps"
	"slices"
)

// GainsCategory classifies a realized amount in the capital gains ledger.
type GainsCategory string

const (
	CategoryPut     GainsCategory = "put"      // net premium of puts
	CategoryCall    GainsCategory = "call"     // net premium of calls
	CategoryITMCall GainsCategory = "itm-call" // strike vs cost-basis spread on exercise
	CategorySale    GainsCategory = "sale"     // realized gain on outright sales
	CategoryTotal   GainsCategory = "total"    // roll-up of all categories
)

// BaseRow is the synthetic currency key holding the FX-converted total across
// all of an account's currencies.
const BaseRow = "BASE"

// GainsKey addresses one cell of the monthly capital gains ledger.
type GainsKey struct {
	Month    Month
	Account  string
	Currency string
	Category GainsCategory
}

// GainsCell accumulates gains and losses separately; they are netted only at
// display time.
type GainsCell struct {
	Gains  Money
	Losses Money // positive magnitudes
}

// Net returns gains minus losses.
func (c GainsCell) Net() Money { return c.Gains.Sub(c.Losses) }

// GainsReport is the monthly capital gains ledger: realized amounts bucketed
// by calendar month, account, currency and category, with a BASE currency row
// per account converted at the rate in effect on each trade date.
type GainsReport struct {
	Base      string
	Cells     map[GainsKey]GainsCell
	Estimated map[Month]bool // months whose BASE row used a current-rate fallback
	Faults    Faults
}

// FYKey addresses one aggregated cell of a financial-year view.
type FYKey struct {
	Account  string
	Currency string
	Category GainsCategory
}

// NewGainsReport replays the record streams and buckets every realized gain
// and loss by month, account, currency and category.
//
// It folds the same journal as the batch ledger, but tracks a running
// quantity-weighted acquisition cost per (account, ticker) instead of batch
// identity, because sales need a per-share cost basis.
func NewGainsReport(ref *Reference, txs []Transaction, trades []Trade, rates *Rates) *GainsReport {
	r := &GainsReport{
		Base:      rates.Base,
		Cells:     make(map[GainsKey]GainsCell),
		Estimated: make(map[Month]bool),
	}

	j := newJournal(ref, txs, trades)
	r.Faults = j.faults

	type positionKey struct{ account, ticker string }
	type position struct {
		cost Money // total
		qty  Quantity
	}
	positions := make(map[positionKey]*position)
	at := func(account, ticker string) *position {
		k := positionKey{account, ticker}
		p, ok := positions[k]
		if !ok {
			p = &position{}
			positions[k] = p
		}
		return p
	}

	for _, e := range j.events {
		switch v := e.(type) {
		case acquireShares:
			p := at(v.account, v.ticker)
			p.cost = p.cost.Add(v.amount).Add(v.commission)
			p.qty = p.qty.Add(v.quantity)
		case assignPut:
			// The assignment strike substitutes the put's cost basis as if
			// it were a purchase; only the premium is realized.
			p := at(v.account, v.ticker)
			p.cost = p.cost.Add(v.strike.Mul(v.size))
			p.qty = p.qty.Add(v.size)
			r.book(rates, v.traded, v.account, CategoryPut, v.premium)
		case putPremium:
			r.book(rates, v.on, v.account, CategoryPut, v.premium)
		case sellShares:
			p := at(v.account, v.ticker)
			proceeds := v.amount.Sub(v.commission)
			var basis Money
			if p.qty.IsPositive() {
				unit := p.cost.Div(p.qty)
				basis = unit.Mul(v.quantity)
			}
			r.book(rates, v.on, v.account, CategorySale, proceeds.Sub(basis))
			p.cost = p.cost.Sub(basis)
			p.qty = p.qty.Sub(v.quantity)
		case callTraded:
			r.book(rates, v.on, v.account, CategoryCall, v.premium)
			if !v.exercised {
				continue
			}
			p := at(v.account, v.ticker)
			var unit Money
			if p.qty.IsPositive() {
				unit = p.cost.Div(p.qty)
			}
			spread := v.strike.Sub(unit).Mul(v.size)
			r.book(rates, v.on, v.account, CategoryITMCall, spread)
			p.cost = p.cost.Sub(unit.Mul(v.size))
			p.qty = p.qty.Sub(v.size)
		}
	}
	return r
}

// book accumulates one realized amount into its category cell and the total
// cell, in the native currency and in the BASE row.
func (r *GainsReport) book(rates *Rates, on Date, account string, category GainsCategory, amount Money) {
	if amount.IsZero() {
		return
	}
	month := MonthOf(on)
	r.add(month, account, amount.Currency(), category, amount)
	r.add(month, account, amount.Currency(), CategoryTotal, amount)

	rate, estimated, err := rates.On(on, amount.Currency())
	if err != nil {
		r.Faults = append(r.Faults, asFault(err, amount.Currency()))
		return
	}
	if estimated {
		r.Estimated[month] = true
	}
	converted := amount.DivRate(rate, r.Base)
	r.add(month, account, BaseRow, category, converted)
	r.add(month, account, BaseRow, CategoryTotal, converted)
}

func (r *GainsReport) add(m Month, account, currency string, category GainsCategory, amount Money) {
	k := GainsKey{Month: m, Account: account, Currency: currency, Category: category}
	cell := r.Cells[k]
	if amount.IsNegative() {
		cell.Losses = cell.Losses.Add(amount.Neg())
	} else {
		cell.Gains = cell.Gains.Add(amount)
	}
	r.Cells[k] = cell
}

// Cell returns the cell at the given coordinates (zero when empty).
func (r *GainsReport) Cell(m Month, account, currency string, category GainsCategory) GainsCell {
	return r.Cells[GainsKey{Month: m, Account: account, Currency: currency, Category: category}]
}

// Months returns the populated months in chronological order.
func (r *GainsReport) Months() []Month {
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

// Accounts returns the populated accounts in alphabetical order.
func (r *GainsReport) Accounts() []string {
	set := make(map[string]bool)
	for k := range r.Cells {
		set[k.Account] = true
	}
	return slices.Sorted(maps.Keys(set))
}

// Currencies returns the populated currencies (excluding the BASE row) in
// alphabetical order.
func (r *GainsReport) Currencies() []string {
	set := make(map[string]bool)
	for k := range r.Cells {
		if k.Currency != BaseRow {
			set[k.Currency] = true
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// FinancialYearCells aggregates the report's monthly cells over one fiscal
// year: 12 consecutive calendar months from the fiscal start month.
func (r *GainsReport) FinancialYearCells(fy FinancialYear) map[FYKey]GainsCell {
	months := make(map[Month]bool, 12)
	for _, m := range fy.Months() {
		months[m] = true
	}
	out := make(map[FYKey]GainsCell)
	for k, cell := range r.Cells {
		if !months[k.Month] {
			continue
		}
		fk := FYKey{Account: k.Account, Currency: k.Currency, Category: k.Category}
		agg := out[fk]
		agg.Gains = agg.Gains.Add(cell.Gains)
		agg.Losses = agg.Losses.Add(cell.Losses)
		out[fk] = agg
	}
	return out
}

// EstimatedIn reports whether the fiscal year contains an estimated month.
func (r *GainsReport) EstimatedIn(fy FinancialYear) bool {
	for _, m := range fy.Months() {
		if r.Estimated[m] {
			return true
		}
	}
	return false
}
