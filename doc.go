// Package wheel implements the accounting core of a multi-account
// options-selling ("wheel") dashboard.
//
// The package turns an append-only stream of option trades and stock
// transactions into cost-basis-tracked share lots ("batches"), and derives
// realized capital gains, premium income and valuation reports from those
// lots, across currencies and reporting periods, adjusted for stock splits
// and historical exchange rates.
//
// All engines are pure folds over immutable inputs: they never read the
// clock, fetch data, or persist anything. External market data (prices and
// FX rates) is supplied as pre-resolved lookup tables, and the reporting
// instant is an explicit parameter, so every computation is reproducible
// at a frozen point in time.
package wheel
