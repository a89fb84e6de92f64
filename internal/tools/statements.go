package tools

import (
	"context"
	"strings"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

type statementLine struct {
	label string
	key   string
	money bool
}

type statement struct {
	tool     string
	endpoint string
	title    string // "Income Statement"
	noun     string // "income statement"
	lines    []statementLine
}

var statements = []statement{
	{
		tool:     "get_income_statement",
		endpoint: "income-statement",
		title:    "Income Statement",
		noun:     "income statement",
		lines: []statementLine{
			{"Revenue", "revenue", true},
			{"Cost of Revenue", "costOfRevenue", true},
			{"Gross Profit", "grossProfit", true},
			{"Operating Expenses", "operatingExpenses", true},
			{"Operating Income", "operatingIncome", true},
			{"EBITDA", "ebitda", true},
			{"Net Income", "netIncome", true},
			{"EPS", "eps", true},
			{"EPS Diluted", "epsDiluted", true},
		},
	},
	{
		tool:     "get_balance_sheet",
		endpoint: "balance-sheet-statement",
		title:    "Balance Sheet",
		noun:     "balance sheet",
		lines: []statementLine{
			{"Cash and Equivalents", "cashAndCashEquivalents", true},
			{"Total Current Assets", "totalCurrentAssets", true},
			{"Total Assets", "totalAssets", true},
			{"Total Current Liabilities", "totalCurrentLiabilities", true},
			{"Long-Term Debt", "longTermDebt", true},
			{"Total Liabilities", "totalLiabilities", true},
			{"Total Stockholders' Equity", "totalStockholdersEquity", true},
			{"Total Debt", "totalDebt", true},
			{"Net Debt", "netDebt", true},
		},
	},
	{
		tool:     "get_cash_flow",
		endpoint: "cash-flow-statement",
		title:    "Cash Flow Statement",
		noun:     "cash flow statement",
		lines: []statementLine{
			{"Operating Cash Flow", "operatingCashFlow", true},
			{"Capital Expenditure", "capitalExpenditure", true},
			{"Free Cash Flow", "freeCashFlow", true},
			{"Dividends Paid", "commonDividendsPaid", true},
			{"Stock Repurchased", "commonStockRepurchased", true},
			{"Net Change in Cash", "netChangeInCash", true},
		},
	},
}

func statementTools(k Kit) []Tool {
	out := make([]Tool, 0, len(statements))
	for _, s := range statements {
		s := s
		out = append(out, &fmpTool{
			name:        s.tool,
			description: "Get the " + s.noun + " for a company, annual or quarterly.",
			params: []Param{
				symbolParam(symbolDesc),
				periodParam(),
				limitParam(s.endpoint, 1),
			},
			run: func(ctx context.Context, a Args) (string, error) { return k.statement(ctx, a, s) },
		})
	}
	return out
}

func (k Kit) statement(ctx context.Context, a Args, s statement) (string, error) {
	symbol := a.String("symbol")
	period := a.String("period")
	limit := a.Int("limit")
	if err := report.Validate(
		report.Required("Symbol", symbol),
		report.Period(period),
		report.Limit(limit, boundsFor(s.endpoint)),
	); err != nil {
		return "", err
	}

	records, err := report.Expectation{
		Doing: "fetching " + s.noun + " for " + symbol,
		Empty: "No " + s.noun + " data found for symbol " + symbol,
	}.Records(k.fetch(ctx, a, s.endpoint, fmp.Params{"symbol": symbol, "period": period, "limit": limit}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("%s for %s", s.title, symbol)
	for _, r := range records {
		d.Blank()
		d.Section("Period: %s", report.Val(r, "date"))
		if r.Has("period") || r.Has("fiscalYear") {
			d.Bold("Report Type", strings.TrimSpace(r.String("fiscalYear")+" "+r.String("period")))
		}
		for _, l := range s.lines {
			v := report.Num(r, l.key)
			if l.money {
				v = report.Money(v)
			}
			d.Bold(l.label, v)
		}
	}
	return d.String(), nil
}
