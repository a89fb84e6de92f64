package tools

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

// majorCurrencies lead the forex quote sections, in this order.
var majorCurrencies = []string{"EUR", "USD", "GBP", "JPY", "AUD", "CAD", "CHF"}

func forexTools(k Kit) []Tool {
	return []Tool{
		&fmpTool{
			name:        "get_forex_list",
			description: "Get the list of available forex pairs with base and quote currencies.",
			run:         k.forexList,
		},
		&fmpTool{
			name:        "get_forex_quotes",
			description: "Get current forex quotes grouped by base currency.",
			params: []Param{
				stringParam("symbols", "Forex pair symbol(s), comma separated (e.g., EURUSD,GBPUSD); omit for major pairs"),
			},
			run: k.forexQuotes,
		},
	}
}

// pairCurrencies splits a six-letter pair symbol such as EURUSD.
func pairCurrencies(symbol string) (base, quote string, ok bool) {
	if len(symbol) < 6 {
		return "", "", false
	}
	return symbol[:3], symbol[3:6], true
}

func (k Kit) forexList(ctx context.Context, a Args) (string, error) {
	pairs, err := report.Expectation{
		Doing: "fetching forex list",
		Empty: "No forex pair data found",
	}.Records(k.fetch(ctx, a, "forex-list", fmp.Params{}))
	if err != nil {
		return "", err
	}

	side := func(first bool) func(int, fmp.Record) string {
		return func(_ int, r fmp.Record) string {
			base, quote, ok := pairCurrencies(r.String("symbol"))
			switch {
			case !ok:
				return report.NA
			case first:
				return base
			}
			return quote
		}
	}

	d := report.NewDoc("Available Forex Pairs")
	d.Stamp(k.now())
	d.Blank()
	d.Table([]report.Column{
		report.Field("Symbol", "symbol"),
		report.Field("Name", "name"),
		{Header: "Base Currency", Cell: side(true)},
		{Header: "Quote Currency", Cell: side(false)},
	}, pairs)
	d.Blank()
	d.Text("*Note: Use these symbols with the get_forex_quotes function to get current values.*")
	return d.String(), nil
}

func (k Kit) forexQuotes(ctx context.Context, a Args) (string, error) {
	symbols := strings.TrimSpace(a.String("symbols"))
	params := fmp.Params{}
	if symbols != "" {
		params["symbols"] = symbols
	}

	quotes, err := report.Expectation{
		Doing: "fetching forex quotes",
		Empty: "No quote data found for forex pairs: " + report.Or(symbols, "major pairs"),
	}.Records(k.fetch(ctx, a, "forex-quotes", params))
	if err != nil {
		return "", err
	}

	byBase := make(map[string][]fmp.Record)
	for _, q := range quotes {
		base, _, ok := pairCurrencies(q.String("symbol"))
		if !ok {
			base = "Other"
		}
		byBase[base] = append(byBase[base], q)
	}

	order := append([]string(nil), majorCurrencies...)
	var rest []string
	for base := range byBase {
		if !slices.Contains(majorCurrencies, base) {
			rest = append(rest, base)
		}
	}
	sort.Strings(rest)
	order = append(order, rest...)

	cols := []report.Column{
		report.Field("Symbol", "symbol"),
		report.NumField("Exchange Rate", "price"),
		{Header: "Change", Cell: absChange},
		{Header: "Change %", Cell: func(_ int, r fmp.Record) string { return percentText(r, "changesPercentage") }},
		report.NumField("Bid", "bid"),
		report.NumField("Ask", "ask"),
		{Header: "Day Range", Cell: rangeCell("dayLow", "dayHigh")},
	}

	d := report.NewDoc("Forex Quotes")
	d.Stamp(k.now())
	d.Blank()
	d.Text(report.Table(cols, nil)...)
	for _, base := range order {
		rows := byBase[base]
		if len(rows) == 0 {
			continue
		}
		d.Sub("%s Pairs", base)
		d.Text(report.Table(cols, rows)[2:]...)
		d.Blank()
	}
	return d.String(), nil
}

