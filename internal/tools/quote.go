package tools

import (
	"context"
	"time"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

const symbolDesc = "Stock ticker symbol (e.g., AAPL, MSFT, TSLA)"

func quoteTools(k Kit) []Tool {
	return []Tool{
		&fmpTool{
			name:        "get_quote",
			description: "Get the current stock quote: price, change, trading ranges, market cap and volume.",
			params:      []Param{symbolParam(symbolDesc)},
			run:         k.quote,
		},
		&fmpTool{
			name:        "get_quote_short",
			description: "Get a simplified stock quote with just price, change and volume.",
			params:      []Param{symbolParam(symbolDesc)},
			run:         k.quoteShort,
		},
		&fmpTool{
			name:        "get_quote_change",
			description: "Get stock price change percentages over periods from 1 day to all time.",
			params:      []Param{symbolParam(symbolDesc)},
			run:         k.quoteChange,
		},
		&fmpTool{
			name:        "get_aftermarket_quote",
			description: "Get the aftermarket (pre/post market) bid and ask for a stock.",
			params:      []Param{symbolParam(symbolDesc)},
			run:         k.aftermarketQuote,
		},
	}
}

func (k Kit) quote(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	if err := report.Validate(report.Required("Symbol", symbol)); err != nil {
		return "", err
	}

	q, err := report.Expectation{
		Doing: "fetching quote for " + symbol,
		Empty: "No quote data found for symbol " + symbol,
	}.First(k.fetch(ctx, a, "quote", fmp.Params{"symbol": symbol}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("%s (%s)", report.Or(q.String("name"), "Unknown Company"), report.Or(q.String("symbol"), "Unknown"))
	d.Bold("Price", report.Money(report.Num(q, "price")))
	d.Bold("Change", changeLine(q, "$"))
	d.Blank()
	d.Section("Trading Information")
	d.Bold("Previous Close", report.Money(report.Num(q, "previousClose")))
	d.Bold("Day Range", report.Money(report.Num(q, "dayLow"))+" - "+report.Money(report.Num(q, "dayHigh")))
	d.Bold("Year Range", report.Money(report.Num(q, "yearLow"))+" - "+report.Money(report.Num(q, "yearHigh")))
	d.Bold("Market Cap", report.Money(report.Num(q, "marketCap")))
	d.Bold("Volume", report.Num(q, "volume"))
	d.Bold("Average Volume", report.Num(q, "avgVolume"))
	d.Bold("Open", report.Money(report.Val(q, "open")))
	d.Bold("PE Ratio", report.Val(q, "pe"))
	d.Bold("EPS", report.Money(report.Val(q, "eps")))
	d.Blank()
	d.Stamp(k.now())
	return d.String(), nil
}

// changeLine renders "🔺 $2.5 (1.25%)"; prefix goes before the change amount.
func changeLine(q fmp.Record, prefix string) string {
	change := report.Val(q, "change")
	if change != report.NA {
		change = prefix + change
	}
	return report.ChangeArrow(q, "change", "changesPercentage") + " " + change + " (" + report.Val(q, "changesPercentage") + "%)"
}

func (k Kit) quoteShort(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	if err := report.Validate(report.Required("Symbol", symbol)); err != nil {
		return "", err
	}

	q, err := report.Expectation{
		Doing: "fetching simplified quote for " + symbol,
		Empty: "No simplified quote data found for symbol " + symbol,
	}.First(k.fetch(ctx, a, "quote-short", fmp.Params{"symbol": symbol}))
	if err != nil {
		return "", err
	}

	change := report.Num(q, "change")
	if change != report.NA {
		change = "$" + change
	}
	d := report.NewDoc("Stock Quote: %s", report.Or(q.String("symbol"), "Unknown"))
	d.Bold("Price", report.Money(report.Num(q, "price")))
	d.Bold("Change", report.ChangeArrow(q, "change", "changesPercentage")+" "+change)
	d.Bold("Volume", report.Num(q, "volume"))
	d.Blank()
	d.Stamp(k.now())
	return d.String(), nil
}

var changePeriods = []struct{ key, label string }{
	{"1D", "1 Day"},
	{"5D", "5 Days"},
	{"1M", "1 Month"},
	{"3M", "3 Months"},
	{"6M", "6 Months"},
	{"ytd", "Year to Date"},
	{"1Y", "1 Year"},
	{"3Y", "3 Years"},
	{"5Y", "5 Years"},
	{"10Y", "10 Years"},
	{"max", "All Time"},
}

func (k Kit) quoteChange(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	if err := report.Validate(report.Required("Symbol", symbol)); err != nil {
		return "", err
	}

	c, err := report.Expectation{
		Doing: "fetching price change for " + symbol,
		Empty: "No price change data found for symbol " + symbol,
	}.First(k.fetch(ctx, a, "stock-price-change", fmp.Params{"symbol": symbol}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("Price Change for %s", symbol)
	d.Stamp(k.now())
	d.Blank()
	d.Text("| Time Period | Change (%) |", "|-------------|------------|")
	for _, p := range changePeriods {
		v, ok := c.Float(p.key)
		if !ok {
			continue
		}
		d.Line("| %s | %s %s%% |", p.label, report.Arrow(v), report.Fixed(v, 2))
	}
	return d.String(), nil
}

func (k Kit) aftermarketQuote(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	if err := report.Validate(report.Required("Symbol", symbol)); err != nil {
		return "", err
	}

	q, err := report.Expectation{
		Doing: "fetching aftermarket quote for " + symbol,
		Empty: "No aftermarket quote data found for symbol " + symbol,
	}.First(k.fetch(ctx, a, "aftermarket-quote", fmp.Params{"symbol": symbol}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("Aftermarket Quote: %s", report.Or(q.String("symbol"), symbol))
	d.Bold("Bid", report.Money(report.Num(q, "bidPrice"))+" (size "+report.Num(q, "bidSize")+")")
	d.Bold("Ask", report.Money(report.Num(q, "askPrice"))+" (size "+report.Num(q, "askSize")+")")
	bid, okBid := q.Float("bidPrice")
	ask, okAsk := q.Float("askPrice")
	if okBid && okAsk {
		d.Bold("Spread", "$"+report.Fixed(ask-bid, 4))
	}
	d.Bold("Volume", report.Num(q, "volume"))
	if ts, ok := q.Float("timestamp"); ok {
		d.Bold("Last Update", time.UnixMilli(int64(ts)).UTC().Format(report.StampLayout)+" UTC")
	}
	d.Blank()
	d.Stamp(k.now())
	return d.String(), nil
}
