package tools

import (
	"context"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

// indexNames labels common indices whose quotes come back without a name.
var indexNames = map[string]string{
	"^GSPC":  "S&P 500",
	"^DJI":   "Dow Jones Industrial Average",
	"^IXIC":  "NASDAQ Composite",
	"^RUT":   "Russell 2000",
	"^VIX":   "CBOE Volatility Index",
	"^FTSE":  "FTSE 100",
	"^N225":  "Nikkei 225",
	"^HSI":   "Hang Seng Index",
	"^GDAXI": "DAX",
}

func indexTools(k Kit) []Tool {
	return []Tool{
		&fmpTool{
			name:        "get_index_list",
			description: "Get the list of available market indices with symbols, names and exchanges.",
			run:         k.indexList,
		},
		&fmpTool{
			name:        "get_index_quote",
			description: "Get the current value and change for a market index.",
			params:      []Param{symbolParam("Index symbol (e.g., ^GSPC for S&P 500, ^DJI for Dow Jones)")},
			run:         k.indexQuote,
		},
	}
}

func (k Kit) indexList(ctx context.Context, a Args) (string, error) {
	indices, err := report.Expectation{
		Doing: "fetching index list",
		Empty: "No index data found",
	}.Records(k.fetch(ctx, a, "index-list", fmp.Params{}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("Market Indices List")
	d.Stamp(k.now())
	d.Blank()
	d.Table([]report.Column{
		report.Field("Symbol", "symbol"),
		report.Field("Name", "name"),
		report.Field("Exchange", "exchange"),
		{Header: "Currency", Cell: func(_ int, r fmp.Record) string { return report.Or(r.String("currency"), "USD") }},
	}, indices)
	d.Blank()
	d.Text("*Note: Use these symbols with the get_index_quote function to get current values.*")
	return d.String(), nil
}

func indexName(q fmp.Record, symbol string) string {
	if name := q.String("name"); name != "" {
		return name
	}
	if name, ok := indexNames[symbol]; ok {
		return name
	}
	return "Index " + symbol
}

func (k Kit) indexQuote(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	if err := report.Validate(report.Required("Symbol", symbol)); err != nil {
		return "", err
	}

	q, err := report.Expectation{
		Doing: "fetching index quote for " + symbol,
		Empty: "No quote data found for index " + symbol,
	}.First(k.fetch(ctx, a, "quote", fmp.Params{"symbol": symbol}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("%s (%s)", indexName(q, symbol), symbol)
	d.Bold("Value", report.Num(q, "price"))
	d.Bold("Change", report.ChangeArrow(q, "change", "changesPercentage")+" "+report.Num(q, "change")+" ("+report.Val(q, "changesPercentage")+"%)")
	d.Blank()
	d.Section("Trading Information")
	d.Bold("Previous Close", report.Num(q, "previousClose"))
	d.Bold("Day Range", report.Num(q, "dayLow")+" - "+report.Num(q, "dayHigh"))
	d.Bold("Year Range", report.Num(q, "yearLow")+" - "+report.Num(q, "yearHigh"))
	d.Blank()
	d.Stamp(k.now())
	return d.String(), nil
}
