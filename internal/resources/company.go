package resources

import (
	"context"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

type stockInfo struct {
	Symbol        string `json:"symbol"`
	Name          any    `json:"name"`
	Sector        any    `json:"sector"`
	Industry      any    `json:"industry"`
	Price         any    `json:"price"`
	Change        any    `json:"change"`
	ChangePercent any    `json:"changePercent"`
	MarketCap     any    `json:"marketCap"`
	Website       any    `json:"website"`
	Description   any    `json:"description"`
}

func first(p fmp.Payload) fmp.Record {
	c := report.Classify(p, "")
	if c.Outcome != report.OutcomeSuccess {
		return nil
	}
	return c.Records[0]
}

func (c *Catalog) stockInfo(ctx context.Context, vars map[string]string) any {
	symbol := vars["symbol"]
	profile := first(c.client.Fetch(ctx, "profile", fmp.Params{"symbol": symbol}))
	if profile == nil {
		return failure("No profile data found for symbol %s", symbol)
	}
	quote := first(c.client.Fetch(ctx, "quote", fmp.Params{"symbol": symbol}))
	if quote == nil {
		return failure("No quote data found for symbol %s", symbol)
	}

	marketCap := valueOr(profile, "mktCap", nil)
	if marketCap == nil {
		marketCap = valueOr(profile, "marketCap", report.NA)
	}
	return stockInfo{
		Symbol:        symbol,
		Name:          valueOr(profile, "companyName", "Unknown"),
		Sector:        valueOr(profile, "sector", report.NA),
		Industry:      valueOr(profile, "industry", report.NA),
		Price:         valueOr(quote, "price", report.NA),
		Change:        valueOr(quote, "change", report.NA),
		ChangePercent: valueOr(quote, "changesPercentage", report.NA),
		MarketCap:     marketCap,
		Website:       valueOr(profile, "website", report.NA),
		Description:   valueOr(profile, "description", report.NA),
	}
}

var statementEndpoints = map[string]string{
	"income":    "income-statement",
	"balance":   "balance-sheet-statement",
	"cash-flow": "cash-flow-statement",
}

func (c *Catalog) financialStatement(ctx context.Context, vars map[string]string) any {
	symbol, kind, period := vars["symbol"], vars["statement_type"], vars["period"]
	endpoint, ok := statementEndpoints[kind]
	if !ok {
		return failure("Invalid statement type. Must be 'income', 'balance', or 'cash-flow'")
	}
	if period != "annual" && period != "quarter" {
		return failure("Invalid period. Must be 'annual' or 'quarter'")
	}
	rows, errBody := records(
		c.client.Fetch(ctx, endpoint, fmp.Params{"symbol": symbol, "period": period, "limit": 4}),
		"fetching data", "No data found for "+symbol)
	if errBody != nil {
		return errBody
	}
	return rows
}

func (c *Catalog) ratios(ctx context.Context, vars map[string]string) any {
	symbol := vars["symbol"]
	rows, errBody := records(
		c.client.Fetch(ctx, "ratios", fmp.Params{"symbol": symbol, "limit": 4}),
		"fetching ratios", "No ratio data found for "+symbol)
	if errBody != nil {
		return errBody
	}
	return rows
}

func (c *Catalog) priceTargets(ctx context.Context, vars map[string]string) any {
	symbol := vars["symbol"]
	rows, errBody := records(
		c.client.Fetch(ctx, "price-target-consensus", fmp.Params{"symbol": symbol}),
		"fetching price targets", "No price target data found for "+symbol)
	if errBody != nil {
		return errBody
	}
	return rows[0]
}

// sectorPeers lists well-known constituents per sector.
var sectorPeers = map[string][]string{
	"Technology":             {"AAPL", "MSFT", "GOOGL", "AMZN", "META", "ORCL", "IBM", "CSCO", "INTC"},
	"Healthcare":             {"JNJ", "PFE", "MRK", "ABBV", "ABT", "TMO", "LLY", "AMGN", "BMY"},
	"Financials":             {"JPM", "BAC", "WFC", "C", "GS", "MS", "BLK", "AXP", "V", "MA"},
	"Financial Services":     {"JPM", "BAC", "WFC", "C", "GS", "MS", "BLK", "AXP", "V", "MA"},
	"Consumer Cyclical":      {"AMZN", "TSLA", "HD", "MCD", "NKE", "SBUX", "TJX", "LOW", "TGT"},
	"Industrials":            {"HON", "UNP", "UPS", "CAT", "DE", "LMT", "RTX", "GE", "BA"},
	"Energy":                 {"XOM", "CVX", "COP", "EOG", "SLB", "PSX", "VLO", "MPC", "KMI"},
	"Utilities":              {"NEE", "DUK", "SO", "D", "AEP", "EXC", "SRE", "XEL", "ED"},
	"Basic Materials":        {"LIN", "APD", "ECL", "SHW", "FCX", "NEM", "NUE", "DOW", "DD"},
	"Communication Services": {"GOOGL", "META", "VZ", "T", "CMCSA", "NFLX", "DIS", "TMUS", "EA"},
	"Real Estate":            {"AMT", "PLD", "CCI", "EQIX", "PSA", "O", "DLR", "WELL", "SPG"},
	"Consumer Defensive":     {"PG", "KO", "PEP", "WMT", "COST", "PM", "MO", "EL", "CL", "GIS"},
}

type peer struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`
	Sector string `json:"sector"`
}

type peers struct {
	Symbol string `json:"symbol"`
	Sector string `json:"sector"`
	Peers  []peer `json:"peers"`
}

func (c *Catalog) stockPeers(ctx context.Context, vars map[string]string) any {
	symbol := vars["symbol"]
	profile := first(c.client.Fetch(ctx, "profile", fmp.Params{"symbol": symbol}))
	if profile == nil {
		return failure("No profile data found for %s", symbol)
	}
	sector := profile.String("sector")
	if sector == "" {
		return failure("Could not determine company sector")
	}

	out := peers{
		Symbol: symbol,
		Sector: sector,
		Peers:  []peer{{Symbol: symbol, Name: report.Or(profile.String("companyName"), "Unknown"), Sector: sector}},
	}
	for _, s := range sectorPeers[sector] {
		if s != symbol {
			out.Peers = append(out.Peers, peer{Symbol: s, Sector: sector})
		}
	}
	return out
}
