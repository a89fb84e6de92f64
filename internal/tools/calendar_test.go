package tools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
)

func TestCompanyDividends_ProviderError(t *testing.T) {
	f := newFake().on("dividends", `{"error": "HTTP error: 404", "message": "Not Found"}`)
	out := callTool(t, f, "get_company_dividends", map[string]any{"symbol": "INVALID"})
	assert.Contains(t, out, "Error fetching dividend data for INVALID")
	assert.Contains(t, out, "Not Found")
}

func TestCompanyDividends_Quarterly(t *testing.T) {
	f := newFake().on("dividends", `[
		{"date": "2024-02-09", "dividend": 0.24, "adjDividend": 0.24, "yield": 0.51, "recordDate": "2024-02-12", "paymentDate": "2024-02-15", "declarationDate": "2024-02-01"},
		{"date": "2023-11-10", "dividend": 0.24, "adjDividend": 0.24},
		{"date": "2023-08-11", "dividend": 0.24, "adjDividend": 0.24},
		{"date": "2023-05-12", "dividend": 0.24, "adjDividend": 0.24}
	]`)
	out := callTool(t, f, "get_company_dividends", map[string]any{"symbol": "AAPL", "limit": 4})

	assert.Contains(t, out, "# Dividend History for AAPL")
	assert.Contains(t, out, "**Current Yield**: 0.51%")
	assert.Contains(t, out, "**Estimated Annual Dividend**: $0.96")
	assert.Contains(t, out, "**Dividend Frequency**: Quarterly")
	assert.Contains(t, out, "| 2024-02-09 | $0.2400 | $0.2400 | 2024-02-12 | 2024-02-15 | 2024-02-01 |")
	assert.Equal(t, fmp.Params{"symbol": "AAPL", "limit": 4}, f.lastCall().params)
}

func TestDividendsCalendar_RangeTooWide(t *testing.T) {
	f := newFake().always(`[{"symbol": "AAPL"}]`)
	out := callTool(t, f, "get_dividends_calendar", map[string]any{"from_date": "2023-01-01", "to_date": "2023-05-01"})
	assert.Equal(t, "Error: Maximum date range is 90 days", out)
	assert.Zero(t, f.callCount())
}

func TestDividendsCalendar_Reversed(t *testing.T) {
	f := newFake()
	out := callTool(t, f, "get_dividends_calendar", map[string]any{"from_date": "2023-02-01", "to_date": "2023-01-01"})
	assert.Equal(t, "Error: 'to_date' must be after 'from_date'", out)
	assert.Zero(t, f.callCount())
}

func TestDividendsCalendar_BadDate(t *testing.T) {
	out := callTool(t, newFake(), "get_dividends_calendar", map[string]any{"from_date": "01/02/2023", "to_date": "2023-01-10"})
	assert.Equal(t, "Error: dates must be in YYYY-MM-DD format", out)
}

func TestDividendsCalendar_GroupedByDate(t *testing.T) {
	f := newFake().on("dividends-calendar", `[
		{"symbol": "KO", "name": "Coca-Cola", "date": "2024-01-20", "dividend": 0.46, "yield": 3.1},
		{"symbol": "AAPL", "name": "Apple Inc.", "date": "2024-01-16", "dividend": 0.24, "yield": 0.5}
	]`)
	out := callTool(t, f, "get_dividends_calendar", map[string]any{})

	assert.Contains(t, out, "# Dividend Calendar: 2024-01-15 to 2024-02-14")
	assert.Contains(t, out, "*Showing 2 dividend events*")
	assert.Less(t, strings.Index(out, "## 2024-01-16"), strings.Index(out, "## 2024-01-20"))
	assert.Contains(t, out, "| KO | Coca-Cola | $0.4600 | 3.10% | 2024-01-20 | N/A | N/A |")
	assert.Equal(t, fmp.Params{"from": "2024-01-15", "to": "2024-02-14", "limit": 50}, f.lastCall().params)
}

func TestDividendsCalendar_Empty(t *testing.T) {
	out := callTool(t, newFake().always(`[]`), "get_dividends_calendar", map[string]any{"from_date": "2023-01-01", "to_date": "2023-01-31"})
	assert.Equal(t, "No dividend events found between 2023-01-01 and 2023-01-31", out)
}
