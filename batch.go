package wheel

// BatchOrigin records how a batch came into existence.
type BatchOrigin int

const (
	// OriginPurchase is a batch created by a purchase transaction naming
	// its code.
	OriginPurchase BatchOrigin = iota
	// OriginAssignment is a batch created by a short put settling below
	// strike.
	OriginAssignment
)

func (o BatchOrigin) String() string {
	if o == OriginAssignment {
		return "assignment"
	}
	return "purchase"
}

// OpenCall is the covered call currently written against a batch.
type OpenCall struct {
	Strike     Money
	Expiry     Date
	TradePrice Money
}

// Batch is a tracked lot of shares with a single cost basis, created exactly
// once by a coded purchase or a put assignment, and exited only by an
// in-the-money call.
//
// AcquisitionCost keeps the source system's bookkeeping: purchase-funded
// batches hold a running quantity-weighted per-share cost, while assigned
// batches hold the strike x contract-size total. CostBasis normalizes both to
// total terms.
type Batch struct {
	Account  string
	Ticker   string
	Code     string
	Origin   BatchOrigin
	Currency string

	Acquired        Date
	AcquisitionCost Money
	Quantity        Quantity
	Premium         Money // cumulative net option premium collected

	CurrentCall *OpenCall
	ExitValue   Money // strike x size once called away
	Exited      bool
}

// CostBasis returns the batch's total acquisition cost.
func (b *Batch) CostBasis() Money {
	if b.Origin == OriginAssignment {
		return b.AcquisitionCost
	}
	return b.AcquisitionCost.Mul(b.Quantity)
}

// Closed reports whether the batch exited through an in-the-money call.
func (b *Batch) Closed() bool { return b.Exited }

// PartialBatch accumulates un-lotted share holdings for one ticker.
type PartialBatch struct {
	AcquisitionCost Money // total
	Quantity        Quantity
}

// PutOnly accumulates premium from puts that never assigned or are still open.
type PutOnly struct {
	Premium Money
}

// WheelingSummary sums a ticker's open batches.
type WheelingSummary struct {
	AcquisitionCost Money // total terms
	Premium         Money
	Quantity        Quantity
	ActiveCalls     int
	MissedUpside    Money // value given up to in-the-money open calls
}

// WheeledSummary sums a ticker's exited batches.
type WheeledSummary struct {
	AcquisitionCost Money
	ExitValue       Money
	Premium         Money
	Quantity        Quantity
}

// Stock is the per-ticker aggregate, rebuilt from scratch on every run as a
// pure fold over batches and transactions.
type Stock struct {
	Ticker   string
	Currency string

	Partial  PartialBatch
	PutOnly  PutOnly
	Wheeling WheelingSummary
	Wheeled  WheeledSummary
}
