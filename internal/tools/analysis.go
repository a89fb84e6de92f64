package tools

import (
	"context"
	"strings"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

func analysisTools(k Kit) []Tool {
	return []Tool{
		&fmpTool{
			name:        "get_financial_ratios",
			description: "Get key financial ratios: valuation, profitability, liquidity and debt.",
			params:      []Param{symbolParam(symbolDesc)},
			run:         k.financialRatios,
		},
		&fmpTool{
			name:        "get_key_metrics",
			description: "Get key financial metrics and KPIs per reporting period.",
			params: []Param{
				symbolParam(symbolDesc),
				periodParam(),
				limitParam("key-metrics", 1),
			},
			run: k.keyMetrics,
		},
	}
}

type ratioGroup struct {
	title string
	lines []statementLine
}

var ratioGroups = []ratioGroup{
	{"Valuation Ratios", []statementLine{
		{"P/E Ratio", "peRatio", false},
		{"Price to Book", "priceToBookRatio", false},
		{"Price to Sales", "priceToSalesRatio", false},
		{"EV/EBITDA", "enterpriseValueMultiple", false},
		{"Earnings Yield", "earningsYield", false},
	}},
	{"Profitability Ratios", []statementLine{
		{"Gross Margin", "grossProfitMargin", false},
		{"Operating Margin", "operatingProfitMargin", false},
		{"Net Profit Margin", "netProfitMargin", false},
		{"ROE", "returnOnEquity", false},
		{"ROA", "returnOnAssets", false},
	}},
	{"Liquidity Ratios", []statementLine{
		{"Current Ratio", "currentRatio", false},
		{"Quick Ratio", "quickRatio", false},
		{"Cash Ratio", "cashRatio", false},
	}},
	{"Debt Ratios", []statementLine{
		{"Debt to Equity", "debtToEquity", false},
		{"Debt to Assets", "debtToAssets", false},
		{"Interest Coverage", "interestCoverage", false},
	}},
}

// ratioValue reads the first present key; the stable API renamed several ratios.
func ratioValue(r fmp.Record, keys ...string) string {
	for _, k := range keys {
		if r.Has(k) {
			return report.Val(r, k)
		}
	}
	return report.NA
}

var ratioAliases = map[string][]string{
	"peRatio":          {"peRatio", "priceToEarningsRatio"},
	"returnOnEquity":   {"returnOnEquity", "roe"},
	"returnOnAssets":   {"returnOnAssets", "roa"},
	"debtToEquity":     {"debtToEquity", "debtToEquityRatio"},
	"debtToAssets":     {"debtToAssets", "debtToAssetsRatio"},
	"interestCoverage": {"interestCoverage", "interestCoverageRatio"},
}

func (k Kit) financialRatios(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	if err := report.Validate(report.Required("Symbol", symbol)); err != nil {
		return "", err
	}

	r, err := report.Expectation{
		Doing: "fetching ratios for " + symbol,
		Empty: "No financial ratio data found for symbol " + symbol,
	}.First(k.fetch(ctx, a, "ratios", fmp.Params{"symbol": symbol}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("Financial Ratios for %s", symbol)
	d.Line("*Period: %s*", report.Or(r.String("date"), "Unknown"))
	for _, g := range ratioGroups {
		d.Blank()
		d.Section(g.title)
		for _, l := range g.lines {
			keys, ok := ratioAliases[l.key]
			if !ok {
				keys = []string{l.key}
			}
			d.Bold(l.label, ratioValue(r, keys...))
		}
	}
	return d.String(), nil
}

var metricGroups = []ratioGroup{
	{"Valuation Metrics", []statementLine{
		{"Market Cap", "marketCap", true},
		{"Enterprise Value", "enterpriseValue", true},
		{"EV/EBITDA", "evToEBITDA", false},
		{"EV/Sales", "evToSales", false},
		{"Earnings Yield", "earningsYield", false},
		{"Free Cash Flow Yield", "freeCashFlowYield", false},
	}},
	{"Profitability Metrics", []statementLine{
		{"ROE", "returnOnEquity", false},
		{"ROA", "returnOnAssets", false},
		{"ROIC", "returnOnInvestedCapital", false},
	}},
	{"Financial Health", []statementLine{
		{"Current Ratio", "currentRatio", false},
		{"Net Debt to EBITDA", "netDebtToEBITDA", false},
		{"Working Capital", "workingCapital", true},
	}},
}

func (k Kit) keyMetrics(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	period := a.String("period")
	limit := a.Int("limit")
	if err := report.Validate(
		report.Required("Symbol", symbol),
		report.Period(period),
		report.Limit(limit, boundsFor("key-metrics")),
	); err != nil {
		return "", err
	}

	records, err := report.Expectation{
		Doing: "fetching key metrics for " + symbol,
		Empty: "No key metrics data found for symbol " + symbol,
	}.Records(k.fetch(ctx, a, "key-metrics", fmp.Params{"symbol": symbol, "period": period, "limit": limit}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("Key Financial Metrics for %s", symbol)
	for _, r := range records {
		d.Blank()
		d.Section("Period: %s", report.Or(r.String("date"), "Unknown"))
		d.Bold("Report Type", capitalize(report.Or(r.String("period"), "Unknown")))
		for _, g := range metricGroups {
			d.Blank()
			d.Sub(g.title)
			for _, l := range g.lines {
				v := report.Num(r, l.key)
				if l.money {
					v = report.Money(v)
				}
				d.Bold(l.label, v)
			}
		}
	}
	return d.String(), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
