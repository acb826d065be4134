package renderer

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/template"

	wheel "github.com/jelefra/options-dashboard-sub000"
)

// Batches is a struct to represent the batch ledger data in json.
// Numbers are handled using the exact decimal types (Money, Quantity, etc.)
// so that they already contain basic renderers (SignedString etc.)
type Batches struct {

	// Date of the report.
	Date wheel.Date `json:"date"`
	// Tickers is the per-ticker batch breakdown.
	Tickers []BatchesTicker `json:"tickers"`
	// Quarantined lists the tickers excluded from the report with the reason.
	Quarantined []QuarantinedTicker `json:"quarantined,omitempty"`
}

// BatchesTicker groups one ticker's batches and aggregates.
type BatchesTicker struct {
	Ticker   string     `json:"ticker"`
	Currency string     `json:"currency,omitempty"`
	Rows     []BatchRow `json:"batches"`

	PartialQuantity wheel.Quantity `json:"partialQuantity"`
	PartialCost     wheel.Money    `json:"partialCost"`
	PutOnlyPremium  wheel.Money    `json:"putOnlyPremium"`

	WheelingCost     wheel.Money    `json:"wheelingCost"`
	WheelingPremium  wheel.Money    `json:"wheelingPremium"`
	WheelingQuantity wheel.Quantity `json:"wheelingQuantity"`
	MissedUpside     wheel.Money    `json:"missedUpside"`

	WheeledCost    wheel.Money `json:"wheeledCost"`
	WheeledExit    wheel.Money `json:"wheeledExit"`
	WheeledPremium wheel.Money `json:"wheeledPremium"`
	WheeledReturn  wheel.Money `json:"wheeledReturn"`
}

// BatchRow represents a single batch.
type BatchRow struct {
	Code      string         `json:"code"`
	Account   string         `json:"account"`
	Origin    string         `json:"origin"`
	Acquired  wheel.Date     `json:"acquired"`
	Quantity  wheel.Quantity `json:"quantity"`
	CostBasis wheel.Money    `json:"costBasis"`
	Premium   wheel.Money    `json:"premium"`
	Call      string         `json:"call,omitempty"` // open covered call, formatted
	Status    string         `json:"status"`         // wheeling or wheeled
	ExitValue wheel.Money    `json:"exitValue"`
}

// QuarantinedTicker reports a ticker dropped from the report.
type QuarantinedTicker struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// NewBatches creates a new Batches struct from a batch ledger.
// It populates the struct with all the necessary data for rendering a batches report.
func NewBatches(l *wheel.Ledger) *Batches {
	b := &Batches{
		Date:    l.AsOf,
		Tickers: make([]BatchesTicker, 0, len(l.Stocks)),
	}

	for _, ticker := range l.Tickers() {
		s := l.Stocks[ticker]
		bt := BatchesTicker{
			Ticker:   ticker,
			Currency: s.Currency,

			PartialQuantity: s.Partial.Quantity,
			PartialCost:     s.Partial.AcquisitionCost,
			PutOnlyPremium:  s.PutOnly.Premium,

			WheelingCost:     s.Wheeling.AcquisitionCost,
			WheelingPremium:  s.Wheeling.Premium,
			WheelingQuantity: s.Wheeling.Quantity,
			MissedUpside:     s.Wheeling.MissedUpside,

			WheeledCost:    s.Wheeled.AcquisitionCost,
			WheeledExit:    s.Wheeled.ExitValue,
			WheeledPremium: s.Wheeled.Premium,
			WheeledReturn:  s.Wheeled.ExitValue.Sub(s.Wheeled.AcquisitionCost).Add(s.Wheeled.Premium),
		}
		for _, batch := range l.BatchesOf(ticker) {
			row := BatchRow{
				Code:      batch.Code,
				Account:   batch.Account,
				Origin:    batch.Origin.String(),
				Acquired:  batch.Acquired,
				Quantity:  batch.Quantity,
				CostBasis: batch.CostBasis(),
				Premium:   batch.Premium,
				Status:    "wheeling",
				ExitValue: batch.ExitValue,
			}
			if batch.Closed() {
				row.Status = "wheeled"
			}
			if c := batch.CurrentCall; c != nil {
				row.Call = fmt.Sprintf("%s exp. %s", c.Strike, c.Expiry.Record())
			}
			bt.Rows = append(bt.Rows, row)
		}
		b.Tickers = append(b.Tickers, bt)
	}

	for _, ticker := range slices.Sorted(maps.Keys(l.Faults.Tickers())) {
		reasons := make([]string, 0, 1)
		for _, f := range l.Faults.ForTicker(ticker) {
			reasons = append(reasons, f.Kind.String())
		}
		b.Quarantined = append(b.Quarantined, QuarantinedTicker{
			Ticker: ticker,
			Reason: strings.Join(reasons, ", "),
		})
	}

	return b
}

// batchesMarkdownTemplate is the template for rendering a Batches report in Markdown.
const batchesMarkdownTemplate = `# Batches on {{ .Date }}
{{- range .Tickers }}

## {{ .Ticker }}{{ if .Currency }} ({{ .Currency }}){{ end }}

{{- if .Rows }}

| Batch | Account | Origin | Acquired | Quantity | Cost Basis | Premium | Call | Status |
|:---|:---|:---|:---|---:|---:|---:|:---|:---|
{{- range .Rows }}
| {{ .Code }} | {{ .Account }} | {{ .Origin }} | {{ .Acquired.Record }} | {{ .Quantity }} | {{ .CostBasis }} | {{ .Premium.SignedString }} | {{ .Call }} | {{ .Status }} |
{{- end }}
{{- end }}

| | Quantity | Cost | Premium | Return |
|:---|---:|---:|---:|---:|
| Wheeling | {{ .WheelingQuantity }} | {{ .WheelingCost }} | {{ .WheelingPremium.SignedString }} | |
| Wheeled | | {{ .WheeledCost }} | {{ .WheeledPremium.SignedString }} | {{ .WheeledReturn.SignedString }} |
{{- if not .PartialQuantity.IsZero }}
| Partial | {{ .PartialQuantity }} | {{ .PartialCost }} | | |
{{- end }}
{{- if not .PutOnlyPremium.IsZero }}
| Put only | | | {{ .PutOnlyPremium.SignedString }} | |
{{- end }}
{{- if not .MissedUpside.IsZero }}

Missed upside on covered calls: {{ .MissedUpside }}
{{- end }}
{{- end }}

{{- if .Quarantined }}

## Quarantined

| Ticker | Reason |
|:---|:---|
{{- range .Quarantined }}
| {{ .Ticker }} | {{ .Reason }} |
{{- end }}
{{- end }}
`

// RenderBatches renders the Batches struct to a markdown string using a text/template.
func RenderBatches(b *Batches) string {
	tmpl := template.Must(template.New("batches").Parse(batchesMarkdownTemplate))
	var sb strings.Builder
	if err := tmpl.Execute(&sb, b); err != nil {
		return fmt.Sprintf("Error executing template: %v", err)
	}
	return sb.String()
}
