package tools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
)

func TestBiggestGainers(t *testing.T) {
	f := newFake().on("biggest-gainers", `[
		{"symbol": "ABC", "name": "Abc Corp", "price": 12.5, "change": 2.25, "changesPercentage": 21.95, "volume": 1234567},
		{"symbol": "DEF", "name": "Def Inc", "price": 3, "change": 0.5, "changesPercentage": 20}
	]`)
	out := callTool(t, f, "get_biggest_gainers", map[string]any{"limit": 1})

	assert.Contains(t, out, "# Top 1 Biggest Gainers")
	assert.Contains(t, out, "| Rank | Symbol | Company | Price | Change | Change % | Volume |")
	assert.Contains(t, out, "| 1 | ABC | Abc Corp | $12.5 | $2.25 | 21.95% | 1,234,567 |")
	assert.NotContains(t, out, "DEF")
}

func TestMostActive_Arrow(t *testing.T) {
	f := newFake().on("most-actives", `[{"symbol": "NVDA", "name": "NVIDIA", "price": 480, "change": -1.25, "changesPercentage": -0.26, "volume": 50000000}]`)
	out := callTool(t, f, "get_most_active", map[string]any{})
	assert.Contains(t, out, "| 1 | NVDA | NVIDIA | $480 | 🔻 $1.25 | -0.26% | 50,000,000 |")
}

func TestIndexQuote(t *testing.T) {
	f := newFake().on("quote", `[{"symbol": "^GSPC", "name": "S&P 500", "price": 4850.25, "change": 15.75, "changesPercentage": 0.32}]`)
	out := callTool(t, f, "get_index_quote", map[string]any{"symbol": "^GSPC"})
	assert.Contains(t, out, "# S&P 500 (^GSPC)")
	assert.Contains(t, out, "**Value**: 4,850.25")
	assert.Contains(t, out, "**Change**: 🔺 15.75 (0.32%)")
}

func TestMarketIndexes(t *testing.T) {
	f := newFake().on("batch-quote", `[
		{"symbol": "^DJI", "price": 37500.5, "change": -20.1, "changesPercentage": -0.05},
		{"symbol": "^GSPC", "price": 4850.25, "change": 15.75, "changesPercentage": 0.32}
	]`)
	out := callTool(t, f, "get_market_indexes", map[string]any{})

	assert.Equal(t, fmp.Params{"symbols": "^GSPC,^DJI,^IXIC,^RUT"}, f.lastCall().params)
	assert.Contains(t, out, "## S&P 500\n**Current Value**: 4,850.25\n**Change**: 🔺 15.75 (0.32%)")
	assert.Less(t, strings.Index(out, "## S&P 500"), strings.Index(out, "## Dow Jones Industrial Average"))
}

func TestCommoditiesPrices_Grouped(t *testing.T) {
	f := newFake().on("quote", `[
		{"symbol": "GCUSD", "name": "Gold", "price": 2362.45, "change": 24.75, "changesPercentage": 1.06,
			"dayLow": 2335.25, "dayHigh": 2365.8, "yearLow": 1825.3, "yearHigh": 2400.15},
		{"symbol": "CLUSD", "name": "Crude Oil", "price": 78.2, "change": -0.4, "changesPercentage": -0.51}
	]`)
	out := callTool(t, f, "get_commodities_prices", map[string]any{"symbol": "GCUSD,CLUSD"})

	assert.Contains(t, out, "| GCUSD | Gold | 2,362.45 | 🔺 24.75 | 1.06% | 2,335.25 - 2,365.8 | 1,825.3 - 2,400.15 |")
	assert.Contains(t, out, "| CLUSD | Crude Oil | 78.2 | 🔻 0.4 | -0.51% | N/A - N/A | N/A - N/A |")
	assert.Less(t, strings.Index(out, "### Energy"), strings.Index(out, "### Metals"))
	assert.Equal(t, fmp.Params{"symbol": "GCUSD,CLUSD"}, f.lastCall().params)
}

func TestCommoditiesPrices_EmptyNamesFilter(t *testing.T) {
	out := callTool(t, newFake().always(`[]`), "get_commodities_prices", map[string]any{})
	assert.Equal(t, "No price data found for commodities: all", out)
}

func TestCommoditiesList(t *testing.T) {
	f := newFake().on("commodities-list", `[{"symbol": "ZCUSX", "name": "Corn Futures"}, {"symbol": "HGUSD", "name": "Copper", "currency": "USD"}]`)
	out := callTool(t, f, "get_commodities_list", map[string]any{})
	assert.Contains(t, out, "| ZCUSX | Corn Futures | USD | Agricultural |")
	assert.Contains(t, out, "| HGUSD | Copper | USD | Metals |")
}

func TestCryptoQuote(t *testing.T) {
	f := newFake().on("quote", `[{"symbol": "BTCUSD", "name": "Bitcoin", "price": 63850.25, "change": 1250.75, "changesPercentage": 2.0,
		"marketCap": 1250000000000, "volume24h": 35000000000}]`)
	out := callTool(t, f, "get_crypto_quote", map[string]any{"symbol": "BTCUSD"})
	assert.Contains(t, out, "| Symbol | Name | Price | Change | Change % | Market Cap | Volume (24h) |")
	assert.Contains(t, out, "| BTCUSD | Bitcoin | 63,850.25 | 🔺 1,250.75 | 2.0% | $1,250.0B | 35,000,000,000 |")
}

func TestCryptoQuote_Empty(t *testing.T) {
	out := callTool(t, newFake().always(`[]`), "get_crypto_quote", map[string]any{})
	assert.Equal(t, "No quote data found for cryptocurrencies: top cryptocurrencies", out)
}

func TestForexQuotes_GroupedByBase(t *testing.T) {
	f := newFake().on("forex-quotes", `[
		{"symbol": "XAUUSD", "price": 2050.1},
		{"symbol": "GBPUSD", "price": 1.27, "change": -0.002, "changesPercentage": -0.16},
		{"symbol": "EURUSD", "price": 1.0825, "change": 0.0015, "changesPercentage": 0.14, "bid": 1.0824, "ask": 1.0826, "dayLow": 1.08, "dayHigh": 1.085},
		{"symbol": "USDJPY", "price": 147.5}
	]`)
	out := callTool(t, f, "get_forex_quotes", map[string]any{"symbols": "EURUSD,GBPUSD,USDJPY,XAUUSD"})

	assert.Contains(t, out, "| EURUSD | 1.0825 | 🔺 0.0015 | 0.14% | 1.0824 | 1.0826 | 1.08 - 1.085 |")
	eur, usd, gbp, xau := strings.Index(out, "### EUR Pairs"), strings.Index(out, "### USD Pairs"), strings.Index(out, "### GBP Pairs"), strings.Index(out, "### XAU Pairs")
	assert.True(t, eur < usd && usd < gbp && gbp < xau, out)
}

func TestForexList(t *testing.T) {
	f := newFake().on("forex-list", `[{"symbol": "EURUSD", "name": "EUR/USD"}, {"symbol": "X", "name": "Odd"}]`)
	out := callTool(t, f, "get_forex_list", map[string]any{})
	assert.Contains(t, out, "| EURUSD | EUR/USD | EUR | USD |")
	assert.Contains(t, out, "| X | Odd | N/A | N/A |")
}

func TestETFHoldings(t *testing.T) {
	f := newFake().on("etf-holdings", `[
		{"asset": "AAPL", "name": "Apple Inc.", "weightPercentage": 7.1, "sharesNumber": 170000000, "marketValue": 32000000000},
		{"asset": "MSFT", "name": "Microsoft", "weightPercentage": 0.065, "shares": 90000000}
	]`)
	out := callTool(t, f, "get_etf_holdings", map[string]any{"symbol": "SPY", "limit": 2})
	assert.Contains(t, out, "# SPY ETF Top 2 Holdings")
	assert.Contains(t, out, "| 1 | AAPL | Apple Inc. | 7.1% | 170,000,000 | $32,000,000,000 |")
	assert.Contains(t, out, "| 2 | MSFT | Microsoft | 6.50% | 90,000,000 | N/A |")
}

func TestMarketHours(t *testing.T) {
	f := newFake().on("market-hours", `[
		{"exchange": "NYSE", "name": "New York Stock Exchange", "openingHour": "09:30 AM -05:00", "closingHour": "04:00 PM -05:00", "timezone": "America/New_York", "isMarketOpen": true},
		{"exchange": "LSE", "name": "London Stock Exchange", "isMarketOpen": false}
	]`)
	out := callTool(t, f, "get_market_hours", map[string]any{})
	assert.Contains(t, out, "## 🟢 Open Markets\n\n- New York Stock Exchange")
	assert.Contains(t, out, "## 🔴 Closed Markets\n\n- London Stock Exchange")
	assert.Contains(t, out, "| New York Stock Exchange | 09:30 AM -05:00 | 04:00 PM -05:00 | America/New_York |")
}

func TestHolidays_Chronological(t *testing.T) {
	f := newFake().on("market-holidays", `[
		{"date": "2023-12-25", "name": "Christmas", "isClosed": true},
		{"date": "2023-01-02", "name": "New Year's Day", "isClosed": true},
		{"date": "2024-01-01", "name": "New Year's Day", "isClosed": true}
	]`)
	out := callTool(t, f, "get_holidays", map[string]any{})
	assert.Contains(t, out, "| January 02, 2023 | New Year's Day | 🔴 Closed | US |")
	assert.Less(t, strings.Index(out, "January 02, 2023"), strings.Index(out, "December 25, 2023"))
	assert.Less(t, strings.Index(out, "### 2023 Holidays"), strings.Index(out, "### 2024 Holidays"))
	assert.Equal(t, fmp.Params{"exchange": "US"}, f.lastCall().params)
}
