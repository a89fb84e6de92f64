package tools

import (
	"context"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

const etfSymbolDesc = "ETF symbol (e.g., SPY, QQQ, VTI)"

func etfTools(k Kit) []Tool {
	return []Tool{
		&fmpTool{
			name:        "get_etf_sectors",
			description: "Get sector weightings for an ETF.",
			params:      []Param{symbolParam(etfSymbolDesc)},
			run: func(ctx context.Context, a Args) (string, error) {
				return k.etfWeightings(ctx, a, "etf-sector-weightings", "Sector", "sector")
			},
		},
		&fmpTool{
			name:        "get_etf_countries",
			description: "Get country weightings for an ETF.",
			params:      []Param{symbolParam(etfSymbolDesc)},
			run: func(ctx context.Context, a Args) (string, error) {
				return k.etfWeightings(ctx, a, "etf-country-weightings", "Country", "country")
			},
		},
		&fmpTool{
			name:        "get_etf_holdings",
			description: "Get the top holdings of an ETF with weights, shares and market values.",
			params: []Param{
				symbolParam(etfSymbolDesc),
				limitParam("etf-holdings", 10),
			},
			run: k.etfHoldings,
		},
	}
}

// weight renders a weighting; fractions (<= 1) are scaled to percent.
func weight(r fmp.Record, key string) string {
	if w, ok := r.Float(key); ok && w <= 1 {
		return report.Fixed(w*100, 2) + "%"
	}
	return percentText(r, key)
}

func (k Kit) etfWeightings(ctx context.Context, a Args, endpoint, label, key string) (string, error) {
	symbol := a.String("symbol")
	if err := report.Validate(report.Required("Symbol", symbol)); err != nil {
		return "", err
	}

	rows, err := report.Expectation{
		Doing: "fetching ETF " + key + " weightings for " + symbol,
		Empty: "No " + key + " weightings data found for ETF " + symbol,
	}.Records(k.fetch(ctx, a, endpoint, fmp.Params{"symbol": symbol}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("%s ETF %s Weightings", symbol, label)
	d.Stamp(k.now())
	d.Blank()
	d.Table([]report.Column{
		report.Field(label, key),
		{Header: "Weight", Cell: func(_ int, r fmp.Record) string { return weight(r, "weightPercentage") }},
	}, rows)
	return d.String(), nil
}

func (k Kit) etfHoldings(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	limit := a.Int("limit")
	if err := report.Validate(
		report.Required("Symbol", symbol),
		report.Limit(limit, boundsFor("etf-holdings")),
	); err != nil {
		return "", err
	}

	holdings, err := report.Expectation{
		Doing: "fetching ETF holdings for " + symbol,
		Empty: "No holdings data found for ETF " + symbol,
	}.Records(k.fetch(ctx, a, "etf-holdings", fmp.Params{"symbol": symbol}))
	if err != nil {
		return "", err
	}
	holdings = holdings[:min(limit, len(holdings))]

	d := report.NewDoc("%s ETF Top %d Holdings", symbol, limit)
	d.Stamp(k.now())
	d.Blank()
	d.Table([]report.Column{
		report.RankField("Rank"),
		report.Field("Asset", "asset"),
		report.Field("Name", "name"),
		{Header: "Weight", Cell: func(_ int, r fmp.Record) string { return weight(r, "weightPercentage") }},
		{Header: "Shares", Cell: func(_ int, r fmp.Record) string {
			if r.Has("shares") {
				return report.Num(r, "shares")
			}
			return report.Num(r, "sharesNumber")
		}},
		{Header: "Market Value", Cell: func(_ int, r fmp.Record) string { return report.Money(report.Num(r, "marketValue")) }},
	}, holdings)

	if info, ok := holdings[0].Object("etfInfo"); ok {
		d.Blank()
		d.Section("ETF Information")
		d.Bold("Name", report.Val(info, "etfName"))
		d.Bold("Asset Class", report.Val(info, "assetClass"))
		d.Bold("AUM", report.Money(report.Num(info, "aum")))
		d.Bold("Expense Ratio", weight(info, "expenseRatio"))
	}
	return d.String(), nil
}
