package wheel

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// Provider payload parsing. The dashboard keeps frankfurter-style JSON
// documents on disk (one current snapshot, one historical range); this file
// turns them into the Rates table the engines consume. The CLI can also
// refresh the snapshot over HTTP, through the daily disk cache.

/*
	{
	    "amount": 1,
	    "base": "GBP",
	    "date": "2024-03-01",
	    "rates": { "EUR": 1.17, "USD": 1.26 }
	}
*/

// DecodeCurrentRates reads a current-rates document into the table.
func DecodeCurrentRates(rates *Rates, r io.Reader) error {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return fmt.Errorf("could not decode rates document: %w", err)
	}
	if err := checkBase(jobj, rates.Base); err != nil {
		return err
	}
	jval, err := jsonpath.Get("$.rates", jobj)
	if err != nil {
		return fmt.Errorf("rates document has no rates object: %w", err)
	}
	table, ok := jval.(map[string]any)
	if !ok {
		return fmt.Errorf("rates document: rates is not an object")
	}
	for currency, raw := range table {
		rate, err := toDecimal(raw)
		if err != nil {
			return fmt.Errorf("rate for %s: %w", currency, err)
		}
		rates.SetCurrent(currency, rate)
	}
	return nil
}

/*
	{
	    "amount": 1,
	    "base": "GBP",
	    "start_date": "2024-01-01",
	    "end_date": "2024-03-01",
	    "rates": {
	        "2024-01-02": { "EUR": 1.15, "USD": 1.27 },
	        "2024-01-03": { "EUR": 1.16, "USD": 1.26 }
	    }
	}
*/

// DecodeHistoricalRates reads a historical-range document into the table.
// Dates absent from the document stay absent: the engines fall back to the
// current rate and flag the estimate.
func DecodeHistoricalRates(rates *Rates, r io.Reader) error {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return fmt.Errorf("could not decode rates document: %w", err)
	}
	if err := checkBase(jobj, rates.Base); err != nil {
		return err
	}
	jval, err := jsonpath.Get("$.rates", jobj)
	if err != nil {
		return fmt.Errorf("rates document has no rates object: %w", err)
	}
	days, ok := jval.(map[string]any)
	if !ok {
		return fmt.Errorf("rates document: rates is not an object")
	}
	for day, rawTable := range days {
		on, err := ParseDate(day)
		if err != nil {
			return err
		}
		table, ok := rawTable.(map[string]any)
		if !ok {
			return fmt.Errorf("rates for %s is not an object", day)
		}
		for currency, raw := range table {
			rate, err := toDecimal(raw)
			if err != nil {
				return fmt.Errorf("rate for %s on %s: %w", currency, day, err)
			}
			rates.SetHistorical(on, currency, rate)
		}
	}
	return nil
}

/*
	{
	    "quotes": [
	        { "symbol": "AAPL", "price": 211.16, "currency": "USD" },
	        { "symbol": "SHEL.L", "price": 27.61, "currency": "GBP" }
	    ]
	}
*/

// DecodePrices reads a current-quotes document. altTickers maps the
// provider's symbols back to ledger tickers (instrument alternate symbols).
func DecodePrices(r io.Reader, ref *Reference) (Prices, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("could not decode quotes document: %w", err)
	}
	jval, err := jsonpath.Get("$.quotes[*]", jobj)
	if err != nil {
		return nil, fmt.Errorf("quotes document has no quotes array: %w", err)
	}
	quotes, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("quotes document: quotes is not an array")
	}

	// Map provider symbols (alternate tickers) back to ledger tickers.
	symbols := make(map[string]Instrument)
	for inst := range ref.AllInstruments() {
		symbols[inst.Ticker] = inst
		if inst.AltTicker != "" {
			symbols[inst.AltTicker] = inst
		}
	}

	prices := make(Prices)
	for _, rawQuote := range quotes {
		quote, ok := rawQuote.(map[string]any)
		if !ok {
			continue
		}
		symbol, _ := quote["symbol"].(string)
		inst, known := symbols[symbol]
		if !known {
			continue
		}
		price, err := toDecimal(quote["price"])
		if err != nil {
			return nil, fmt.Errorf("price for %s: %w", symbol, err)
		}
		prices[inst.Ticker] = M(price, inst.Currency)
	}
	return prices, nil
}

// FetchCurrentRates refreshes the current rates over HTTP from a
// frankfurter-compatible endpoint.
func FetchCurrentRates(client *http.Client, endpoint string, rates *Rates) error {
	var jobj any
	addr := fmt.Sprintf("%s/latest?base=%s", endpoint, rates.Base)
	if err := jwget(client, addr, &jobj); err != nil {
		return fmt.Errorf("could not fetch rates: %w", err)
	}
	jval, err := jsonpath.Get("$.rates", jobj)
	if err != nil {
		return fmt.Errorf("rates response has no rates object: %w", err)
	}
	table, ok := jval.(map[string]any)
	if !ok {
		return fmt.Errorf("rates response: rates is not an object")
	}
	for currency, raw := range table {
		rate, err := toDecimal(raw)
		if err != nil {
			return fmt.Errorf("rate for %s: %w", currency, err)
		}
		rates.SetCurrent(currency, rate)
	}
	return nil
}

func checkBase(jobj any, base string) error {
	jval, err := jsonpath.Get("$.base", jobj)
	if err != nil {
		return nil // no base field to check
	}
	if s, ok := jval.(string); ok && s != base {
		return fmt.Errorf("rates document base is %s, want %s", s, base)
	}
	return nil
}

func toDecimal(raw any) (decimal.Decimal, error) {
	f, ok := raw.(float64)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("not a number: %v", raw)
	}
	return decimal.NewFromFloat(f), nil
}
