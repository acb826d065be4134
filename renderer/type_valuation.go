package renderer

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/template"

	wheel "github.com/jelefra/options-dashboard-sub000"
)

// ValuationView is a struct to represent the valuation data in json.
type ValuationView struct {

	// Date of the valuation.
	Date wheel.Date `json:"date"`
	// Base is the reporting currency.
	Base string `json:"base"`
	// GrandTotal is the portfolio value in the reporting currency.
	GrandTotal wheel.Money `json:"grandTotal"`
	// Tickers lists the per-ticker valuations, blocked ones excluded.
	Tickers []ValuationTicker `json:"tickers"`
	// Blocked lists the tickers whose valuation could not be computed.
	Blocked []string `json:"blocked,omitempty"`
	// Currencies is the allocation by currency.
	Currencies []ValuationCurrency `json:"currencies"`
}

// ValuationTicker represents a single ticker valuation.
type ValuationTicker struct {
	Ticker     string         `json:"ticker"`
	Currency   string         `json:"currency"`
	Quantity   wheel.Quantity `json:"quantity"`
	Price      wheel.Money    `json:"price"`
	AvgCost    wheel.Money    `json:"avgCost"`
	Value      wheel.Money    `json:"value"`
	Return     wheel.Percent  `json:"return"`
	BaseReturn wheel.Money    `json:"baseReturn"`
	Weight     wheel.Percent  `json:"weight"`
}

// ValuationCurrency represents the allocation of one currency.
type ValuationCurrency struct {
	Currency  string      `json:"currency"`
	Total     wheel.Money `json:"total"`
	BaseTotal wheel.Money `json:"baseTotal"`
	Weight    wheel.Percent `json:"weight"`
}

// NewValuationView creates a new ValuationView from a valuation.
func NewValuationView(v *wheel.Valuation) *ValuationView {
	view := &ValuationView{
		Date:       v.AsOf,
		Base:       v.Base,
		GrandTotal: v.GrandTotal,
		Tickers:    make([]ValuationTicker, 0, len(v.Tickers)),
	}

	for _, tv := range v.Tickers {
		if tv.Blocked {
			view.Blocked = append(view.Blocked, tv.Ticker)
			continue
		}
		if tv.Quantity.IsZero() && tv.Value.IsZero() {
			continue
		}
		view.Tickers = append(view.Tickers, ValuationTicker{
			Ticker:     tv.Ticker,
			Currency:   tv.Currency,
			Quantity:   tv.Quantity,
			Price:      tv.Price,
			AvgCost:    tv.AvgCost,
			Value:      tv.Value,
			Return:     tv.Return,
			BaseReturn: tv.BaseReturn,
			Weight:     tv.Weight,
		})
	}

	for _, currency := range slices.Sorted(maps.Keys(v.Currencies)) {
		a := v.Currencies[currency]
		view.Currencies = append(view.Currencies, ValuationCurrency{
			Currency:  currency,
			Total:     a.Total,
			BaseTotal: a.BaseTotal,
			Weight:    a.Weight,
		})
	}

	return view
}

// valuationMarkdownTemplate is the template for rendering a ValuationView in Markdown.
const valuationMarkdownTemplate = `# Valuation on {{ .Date }}

Total Portfolio Value: **{{ .GrandTotal }}**

{{- if .Tickers }}

## Holdings

| Ticker | Quantity | Price | Avg Cost | Value | Return | Base Return | Weight |
|:---|---:|---:|---:|---:|---:|---:|---:|
{{- range .Tickers }}
| {{ .Ticker }} | {{ .Quantity }} | {{ .Price }} | {{ .AvgCost }} | {{ .Value }} | {{ .Return.SignedString }} | {{ .BaseReturn.SignedString }} | {{ .Weight }} |
{{- end }}
{{- end -}}

{{- if .Currencies }}

## Allocation by Currency

| Currency | Total | In {{ .Base }} | Weight |
|:---|---:|---:|---:|
{{- range .Currencies }}
| {{ .Currency }} | {{ .Total }} | {{ .BaseTotal }} | {{ .Weight }} |
{{- end }}
| **Total** | | **{{ .GrandTotal }}** | |
{{- end -}}

{{- if .Blocked }}

## Blocked

Missing price or rate for: {{ range $i, $t := .Blocked }}{{ if $i }}, {{ end }}{{ $t }}{{ end }}.
{{- end }}
`

// RenderValuation renders the ValuationView struct to a markdown string using a text/template.
func RenderValuation(v *ValuationView) string {
	tmpl := template.Must(template.New("valuation").Parse(valuationMarkdownTemplate))
	var b strings.Builder
	if err := tmpl.Execute(&b, v); err != nil {
		return fmt.Sprintf("Error executing template: %v", err)
	}
	return b.String()
}
