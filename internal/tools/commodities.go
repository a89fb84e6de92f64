package tools

import (
	"context"
	"strings"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

// commodityGroups classify a commodity by keywords in its name, first match wins.
var commodityGroups = []struct {
	name     string
	keywords []string
}{
	{"Metals", []string{"gold", "silver", "platinum", "palladium", "copper"}},
	{"Energy", []string{"oil", "gas", "gasoline", "diesel", "propane", "ethanol"}},
	{"Agricultural", []string{"corn", "wheat", "soybean", "sugar", "coffee", "cotton", "rice"}},
}

// priceGroupOrder is the section order of get_commodities_prices.
var priceGroupOrder = []string{"Energy", "Metals", "Agricultural", "Other"}

func commodityTools(k Kit) []Tool {
	return []Tool{
		&fmpTool{
			name:        "get_commodities_list",
			description: "Get the list of available commodities with symbols, currency and group.",
			run:         k.commoditiesList,
		},
		&fmpTool{
			name:        "get_commodities_prices",
			description: "Get current prices for commodities, grouped by type.",
			params: []Param{
				stringParam("symbol", "Commodity symbol(s), comma separated (e.g., GCUSD,CLUSD); omit for all"),
			},
			run: k.commoditiesPrices,
		},
	}
}

func commodityGroup(name string) string {
	lower := strings.ToLower(name)
	for _, g := range commodityGroups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return g.name
			}
		}
	}
	return "Other"
}

func (k Kit) commoditiesList(ctx context.Context, a Args) (string, error) {
	items, err := report.Expectation{
		Doing: "fetching commodities list",
		Empty: "No commodities data found",
	}.Records(k.fetch(ctx, a, "commodities-list", fmp.Params{}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("Available Commodities")
	d.Stamp(k.now())
	d.Blank()
	d.Table([]report.Column{
		report.Field("Symbol", "symbol"),
		report.Field("Name", "name"),
		{Header: "Currency", Cell: func(_ int, r fmp.Record) string { return report.Or(r.String("currency"), "USD") }},
		{Header: "Group", Cell: func(_ int, r fmp.Record) string { return commodityGroup(r.String("name")) }},
	}, items)
	d.Blank()
	d.Text("*Note: Use these symbols with the get_commodities_prices function to get current values.*")
	return d.String(), nil
}

// rangeCell renders "low - high".
func rangeCell(lowKey, highKey string) func(int, fmp.Record) string {
	return func(_ int, r fmp.Record) string { return report.Num(r, lowKey) + " - " + report.Num(r, highKey) }
}

// absChange renders the direction indicator and the unsigned change.
func absChange(_ int, r fmp.Record) string {
	c, ok := r.Float("change")
	if !ok {
		return report.Arrow(0) + " 0"
	}
	return report.Arrow(c) + " " + report.FormatNumber(absNumber(r["change"], c))
}

func (k Kit) commoditiesPrices(ctx context.Context, a Args) (string, error) {
	symbol := strings.TrimSpace(a.String("symbol"))
	params := fmp.Params{}
	if symbol != "" {
		params["symbol"] = symbol
	}

	quotes, err := report.Expectation{
		Doing: "fetching commodities prices",
		Empty: "No price data found for commodities: " + report.Or(symbol, "all"),
	}.Records(k.fetch(ctx, a, "quote", params))
	if err != nil {
		return "", err
	}

	byGroup := make(map[string][]fmp.Record)
	for _, q := range quotes {
		g := commodityGroup(q.String("name"))
		byGroup[g] = append(byGroup[g], q)
	}

	cols := []report.Column{
		report.Field("Symbol", "symbol"),
		report.Field("Name", "name"),
		report.NumField("Price", "price"),
		{Header: "Change", Cell: absChange},
		{Header: "Change %", Cell: func(_ int, r fmp.Record) string { return percentText(r, "changesPercentage") }},
		{Header: "Day Range", Cell: rangeCell("dayLow", "dayHigh")},
		{Header: "Year Range", Cell: rangeCell("yearLow", "yearHigh")},
	}
	table := report.Table(cols, nil)

	d := report.NewDoc("Commodities Prices")
	d.Stamp(k.now())
	d.Blank()
	d.Text(table...)
	for _, g := range priceGroupOrder {
		rows := byGroup[g]
		if len(rows) == 0 {
			continue
		}
		d.Sub("%s", g)
		d.Text(report.Table(cols, rows)[2:]...)
		d.Blank()
	}
	return d.String(), nil
}
