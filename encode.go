package wheel

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// stockLine is a specialized struct for decoding one transaction record.
type stockLine struct {
	Kind       RecordKind      `json:"kind"`
	Account    string          `json:"account"`
	Ticker     string          `json:"ticker"`
	Date       Date            `json:"date"`
	Quantity   Quantity        `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Commission decimal.Decimal `json:"commission"`
	BatchCodes string          `json:"batchCodes,omitempty"`
}

func (l stockLine) record() stockRecord {
	return stockRecord{
		Account: l.Account, Ticker: l.Ticker, Date: l.Date,
		Quantity: l.Quantity, Price: M(l.Price, ""), Commission: M(l.Commission, ""),
	}
}

// optionLine is a specialized struct for decoding one trade record.
type optionLine struct {
	Kind       RecordKind      `json:"kind"`
	Account    string          `json:"account"`
	Ticker     string          `json:"ticker"`
	Date       Date            `json:"date"`
	Expiry     Date            `json:"expiry"`
	Strike     decimal.Decimal `json:"strike"`
	TradePrice decimal.Decimal `json:"tradePrice"`
	Commission decimal.Decimal `json:"commission"`
	BatchCode  string          `json:"batchCode,omitempty"`

	CloseDate       Date            `json:"closeDate,omitempty"`
	ClosePrice      decimal.Decimal `json:"closePrice,omitempty"`
	CloseTradePrice decimal.Decimal `json:"closeTradePrice,omitempty"`
	CloseCommission decimal.Decimal `json:"closeCommission,omitempty"`
}

func (l optionLine) record() optionRecord {
	r := optionRecord{
		Account: l.Account, Ticker: l.Ticker, Date: l.Date, Expiry: l.Expiry,
		Strike: M(l.Strike, ""), TradePrice: M(l.TradePrice, ""),
		Commission: M(l.Commission, ""), BatchCode: l.BatchCode,
	}
	if !l.CloseDate.IsZero() {
		r.Close = &OptionClose{
			Date:       l.CloseDate,
			Price:      M(l.ClosePrice, ""),
			TradePrice: M(l.CloseTradePrice, ""),
			Commission: M(l.CloseCommission, ""),
		}
	}
	return r
}

// DecodeTransactions decodes the stock transaction stream from JSONL data,
// preserving input order.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	if err := decodeLines(r, func(line []byte, kind RecordKind) error {
		var l stockLine
		if err := json.Unmarshal(line, &l); err != nil {
			return err
		}
		rec := l.record()
		if err := rec.Validate(); err != nil {
			return err
		}
		switch kind {
		case KindPurchase:
			txs = append(txs, Purchase{stockRecord: rec, BatchCodes: SplitBatchCodes(l.BatchCodes)})
		case KindSale:
			txs = append(txs, Sale{stockRecord: rec})
		default:
			return fmt.Errorf("unexpected record kind %q in transaction stream", kind)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return txs, nil
}

// DecodeTrades decodes the option trade stream from JSONL data, preserving
// input order.
func DecodeTrades(r io.Reader) ([]Trade, error) {
	var trades []Trade
	if err := decodeLines(r, func(line []byte, kind RecordKind) error {
		var l optionLine
		if err := json.Unmarshal(line, &l); err != nil {
			return err
		}
		rec := l.record()
		if err := rec.Validate(); err != nil {
			return err
		}
		switch kind {
		case KindPut:
			trades = append(trades, Put{rec})
		case KindCall:
			trades = append(trades, Call{rec})
		default:
			return fmt.Errorf("unexpected record kind %q in trade stream", kind)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return trades, nil
}

// decodeLines scans JSONL input and dispatches each non-empty line on its
// "kind" field.
func decodeLines(r io.Reader, decode func(line []byte, kind RecordKind) error) error {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var identifier struct {
			Kind RecordKind `json:"kind"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return fmt.Errorf("line %d: could not identify record kind: %w", n, err)
		}
		if err := decode(line, identifier.Kind); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return scanner.Err()
}

// referenceLine is a specialized struct for decoding one reference data record.
type referenceLine struct {
	Kind RecordKind `json:"kind"`
	Instrument
	Effective Date            `json:"effective"`
	Ratio     decimal.Decimal `json:"ratio"`
}

// Reference record kinds.
const (
	KindInstrument RecordKind = "instrument"
	KindSplit      RecordKind = "split"
)

// DecodeReference decodes the instrument and split tables from JSONL data.
func DecodeReference(r io.Reader) (*Reference, error) {
	ref := NewReference()
	if err := decodeLines(r, func(line []byte, kind RecordKind) error {
		var l referenceLine
		if err := json.Unmarshal(line, &l); err != nil {
			return err
		}
		switch kind {
		case KindInstrument:
			if l.Ticker == "" {
				return fmt.Errorf("instrument ticker is missing")
			}
			ref.AddInstrument(l.Instrument)
		case KindSplit:
			if !l.Ratio.IsPositive() {
				return Fault{Kind: FaultBadSplitRatio, Ticker: l.Ticker, On: l.Effective}
			}
			ref.AddSplit(StockSplit{Ticker: l.Ticker, Effective: l.Effective, Ratio: l.Ratio})
		default:
			return fmt.Errorf("unexpected record kind %q in reference data", kind)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return ref, nil
}

// EncodeRecord appends one record to a JSONL stream.
func EncodeRecord(w io.Writer, record json.Marshaler) error {
	data, err := record.MarshalJSON()
	if err != nil {
		return fmt.Errorf("could not marshal record: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("could not write record: %w", err)
	}
	return nil
}
