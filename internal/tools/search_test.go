package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
)

func TestSearchBySymbol(t *testing.T) {
	f := newFake().on("search-symbol", `[{"symbol": "AAPL", "name": "Apple Inc.", "currency": "USD", "exchangeFullName": "NASDAQ Global Select", "exchange": "NASDAQ"}]`)
	out := callTool(t, f, "search_by_symbol", map[string]any{"query": "AAP", "exchange": "NASDAQ"})

	assert.Contains(t, out, "# Symbol Search Results for 'AAP' on NASDAQ")
	assert.Contains(t, out, "## AAPL - Apple Inc.")
	assert.Contains(t, out, "**Exchange**: NASDAQ Global Select (NASDAQ)")
	assert.Equal(t, fmp.Params{"query": "AAP", "limit": 10, "exchange": "NASDAQ"}, f.lastCall().params)
}

func TestSearchByName_Empty(t *testing.T) {
	out := callTool(t, newFake().always(`[]`), "search_by_name", map[string]any{"query": "nothing"})
	assert.Equal(t, "# Company Name Search Results for 'nothing'\nNo matching companies found", out)
}

func TestSearchByName_RequiresQuery(t *testing.T) {
	f := newFake()
	out := callTool(t, f, "search_by_name", map[string]any{"query": "  "})
	assert.Equal(t, "Error: query parameter is required", out)
	assert.Zero(t, f.callCount())
}

func TestSearchDocuments_Dedup(t *testing.T) {
	f := newFake().
		on("search-symbol", `[{"symbol": "AAPL", "name": "Apple Inc."}]`).
		on("search-name", `[{"symbol": "AAPL", "name": "Apple Inc."}, {"symbol": "APLE", "name": "Apple Hospitality REIT"}]`)
	out := callTool(t, f, "search", map[string]any{"query": "apple"})

	var res searchResults
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Results, 2)
	assert.Equal(t, searchHit{ID: "stock-AAPL", Title: "AAPL - Apple Inc.", URL: "https://financialmodelingprep.com/company/AAPL"}, res.Results[0])
	assert.Equal(t, "Apple Hospitality REIT (APLE)", res.Results[1].Title)
}

func TestSearchDocuments_ProviderErrorIsEmpty(t *testing.T) {
	out := callTool(t, newFake().always(`{"error": "boom", "message": "down"}`), "search", map[string]any{"query": "apple"})
	assert.JSONEq(t, `{"results": []}`, out)
}

func TestFetchDocument(t *testing.T) {
	f := newFake().
		on("profile", `[{"companyName": "Apple Inc.", "sector": "Technology", "mktCap": 2840000000000, "isEtf": false}]`).
		on("quote", `[{"price": 190.5, "change": 2.5, "changesPercentage": 1.25, "volume": 1000}]`)
	out := callTool(t, f, "fetch", map[string]any{"id": "stock-AAPL"})

	var doc document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "stock-AAPL", doc.ID)
	assert.Equal(t, "Apple Inc. (AAPL)", doc.Title)
	assert.Contains(t, doc.Text, "Market Cap: $2,840,000,000,000")
	assert.Contains(t, doc.Text, "Current Price: $190.5")
	assert.Equal(t, "Technology", doc.Metadata["sector"])
}

func TestFetchDocument_InvalidID(t *testing.T) {
	f := newFake()
	assert.Equal(t, "Error: Unknown resource type: bond-XYZ", callTool(t, f, "fetch", map[string]any{"id": "bond-XYZ"}))
	assert.Equal(t, "Error: Document ID is required", callTool(t, f, "fetch", map[string]any{}))
	assert.Zero(t, f.callCount())
}

func TestFetchDocument_EmptySymbol(t *testing.T) {
	f := newFake()
	assert.Equal(t, "Error: Symbol parameter is required", callTool(t, f, "fetch", map[string]any{"id": "stock-"}))
	assert.Equal(t, "Error: Symbol parameter is required", callTool(t, f, "fetch", map[string]any{"id": "stock-  "}))
	assert.Zero(t, f.callCount())
}

func TestFetchDocument_RangesGrouped(t *testing.T) {
	f := newFake().
		on("profile", `[]`).
		on("quote", `[{"price": 612000, "dayLow": 600100, "dayHigh": 615250.5, "yearLow": 410000, "yearHigh": 700000}]`)
	out := callTool(t, f, "fetch", map[string]any{"id": "stock-BRK-A"})

	var doc document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc.Text, "Day Range: $600,100 - $615,250.5")
	assert.Contains(t, doc.Text, "52-Week Range: $410,000 - $700,000")
}
