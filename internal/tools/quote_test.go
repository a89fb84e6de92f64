package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuote(t *testing.T) {
	f := newFake().on("quote", `[{"symbol": "AAPL", "name": "Apple Inc.", "price": 190.5, "change": 2.5, "changesPercentage": 1.25,
		"dayLow": 188.1, "dayHigh": 191.2, "marketCap": 2950000000000, "volume": 54000000, "pe": 29.4, "eps": 6.48}]`)
	out := callTool(t, f, "get_quote", map[string]any{"symbol": "AAPL"})

	assert.Contains(t, out, "# Apple Inc. (AAPL)")
	assert.Contains(t, out, "**Price**: $190.5")
	assert.Contains(t, out, "**Change**: 🔺 $2.5 (1.25%)")
	assert.Contains(t, out, "**Day Range**: $188.1 - $191.2")
	assert.Contains(t, out, "**Market Cap**: $2,950,000,000,000")
	assert.Contains(t, out, "**Volume**: 54,000,000")
	assert.Contains(t, out, "**Average Volume**: N/A")
	assert.Contains(t, out, "*Data as of 2024-01-15 10:30:00*")
}

func TestQuote_Down(t *testing.T) {
	f := newFake().on("quote", `[{"symbol": "TSLA", "name": "Tesla", "price": 200, "change": -3.1, "changesPercentage": -1.5}]`)
	out := callTool(t, f, "get_quote", map[string]any{"symbol": "TSLA"})
	assert.Contains(t, out, "**Change**: 🔻 $-3.1 (-1.5%)")
}

func TestQuote_RangesGrouped(t *testing.T) {
	f := newFake().on("quote", `[{"symbol": "BRK-A", "name": "Berkshire Hathaway", "price": 612000,
		"dayLow": 600100, "dayHigh": 615250.5, "yearLow": 410000, "yearHigh": 700000}]`)
	out := callTool(t, f, "get_quote", map[string]any{"symbol": "BRK-A"})
	assert.Contains(t, out, "**Day Range**: $600,100 - $615,250.5")
	assert.Contains(t, out, "**Year Range**: $410,000 - $700,000")
}

func TestQuoteShort(t *testing.T) {
	f := newFake().on("quote-short", `[{"symbol": "AAPL", "price": 190.5, "change": 0, "volume": 1234567}]`)
	out := callTool(t, f, "get_quote_short", map[string]any{"symbol": "AAPL"})
	assert.Contains(t, out, "# Stock Quote: AAPL")
	assert.Contains(t, out, "**Change**: ➖ $0")
	assert.Contains(t, out, "**Volume**: 1,234,567")
}

func TestQuoteChange(t *testing.T) {
	f := newFake().on("stock-price-change", `[{"symbol": "AAPL", "1D": 4.06, "5D": -1.2, "1M": 0, "ytd": 12.346}]`)
	out := callTool(t, f, "get_quote_change", map[string]any{"symbol": "AAPL"})
	assert.Contains(t, out, "| 1 Day | 🔺 4.06% |")
	assert.Contains(t, out, "| 5 Days | 🔻 -1.20% |")
	assert.Contains(t, out, "| 1 Month | ➖ 0.00% |")
	assert.Contains(t, out, "| Year to Date | 🔺 12.35% |")
	assert.NotContains(t, out, "10 Years")
}

func TestAftermarketQuote(t *testing.T) {
	f := newFake().on("aftermarket-quote", `[{"symbol": "AAPL", "bidSize": 1, "bidPrice": 190.1, "askSize": 3, "askPrice": 190.15, "volume": 5200, "timestamp": 1705314600000}]`)
	out := callTool(t, f, "get_aftermarket_quote", map[string]any{"symbol": "AAPL"})
	assert.Contains(t, out, "**Bid**: $190.1 (size 1)")
	assert.Contains(t, out, "**Spread**: $0.0500")
	assert.Contains(t, out, "**Last Update**: 2024-01-15 10:30:00 UTC")
}
