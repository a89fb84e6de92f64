package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

const (
	companyURL     = "https://financialmodelingprep.com/company/"
	documentPrefix = "stock-"
	maxSearchHits  = 10
)

func searchTools(k Kit) []Tool {
	return []Tool{
		&fmpTool{
			name:        "search_by_symbol",
			description: "Search for stocks by ticker symbol, optionally on one exchange.",
			params: []Param{
				{Name: "query", Type: "string", Description: "Symbol to search for (e.g., AAPL, MSFT)", Required: true},
				limitParam("search-symbol", 10),
				stringParam("exchange", "Filter by exchange (e.g., NASDAQ, NYSE)"),
			},
			run: k.searchBySymbol,
		},
		&fmpTool{
			name:        "search_by_name",
			description: "Search for stocks by company name, optionally on one exchange.",
			params: []Param{
				{Name: "query", Type: "string", Description: "Company name to search for (e.g., Apple, Microsoft)", Required: true},
				limitParam("search-name", 10),
				stringParam("exchange", "Filter by exchange (e.g., NASDAQ, NYSE)"),
			},
			run: k.searchByName,
		},
		&fmpTool{
			name:        "search",
			description: "Search financial instruments by symbol or name. Returns JSON {\"results\": [{id, title, url}]} for document retrieval with fetch.",
			params: []Param{
				{Name: "query", Type: "string", Description: "Symbol or company name", Required: true},
			},
			run: k.searchDocuments,
		},
		&fmpTool{
			name:        "fetch",
			description: "Fetch a document returned by search (id format stock-SYMBOL) as JSON with profile and quote details.",
			params: []Param{
				{Name: "id", Type: "string", Description: "Document id, e.g. stock-AAPL", Required: true},
			},
			run: k.fetchDocument,
		},
	}
}

func searchParams(a Args, query string, limit int) (fmp.Params, string) {
	params := fmp.Params{"query": query, "limit": limit}
	heading := "'" + query + "'"
	if ex := a.String("exchange"); ex != "" {
		params["exchange"] = ex
		heading += " on " + ex
	}
	return params, heading
}

func (k Kit) searchBySymbol(ctx context.Context, a Args) (string, error) {
	query := a.String("query")
	limit := a.Int("limit")
	if err := report.Validate(
		report.Required("query", query),
		report.Limit(limit, boundsFor("search-symbol")),
	); err != nil {
		return "", err
	}

	params, heading := searchParams(a, query, limit)
	title := "# Symbol Search Results for " + heading
	hits, err := report.Expectation{
		Doing: "searching for symbol '" + query + "'",
		Empty: title + "\nNo matching symbols found",
	}.Records(k.fetch(ctx, a, "search-symbol", params))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("Symbol Search Results for %s", heading)
	for _, h := range hits {
		exchange := report.Or(h.String("exchange"), "Unknown")
		d.Section("%s - %s", report.Or(h.String("symbol"), "Unknown"), report.Or(h.String("name"), "Unknown"))
		d.Bold("Exchange", report.Or(h.String("exchangeFullName"), exchange)+" ("+exchange+")")
		d.Bold("Currency", report.Or(h.String("currency"), "Unknown"))
		d.Blank()
	}
	return d.String(), nil
}

func (k Kit) searchByName(ctx context.Context, a Args) (string, error) {
	query := a.String("query")
	limit := a.Int("limit")
	if err := report.Validate(
		report.Required("query", query),
		report.Limit(limit, boundsFor("search-name")),
	); err != nil {
		return "", err
	}

	params, heading := searchParams(a, query, limit)
	title := "# Company Name Search Results for " + heading
	hits, err := report.Expectation{
		Doing: "searching for company '" + query + "'",
		Empty: title + "\nNo matching companies found",
	}.Records(k.fetch(ctx, a, "search-name", params))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("Company Name Search Results for %s", heading)
	for _, h := range hits {
		d.Section("%s (%s)", report.Or(h.String("name"), "Unknown"), report.Or(h.String("symbol"), "Unknown"))
		d.Bold("Exchange", report.Or(report.Or(h.String("exchangeShortName"), h.String("exchange")), "Unknown"))
		d.Bold("Currency", report.Or(h.String("currency"), "Unknown"))
		d.Bold("Type", report.Or(report.Or(h.String("stockType"), h.String("type")), "Unknown"))
		d.Blank()
	}
	return d.String(), nil
}

type searchHit struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type searchResults struct {
	Results []searchHit `json:"results"`
}

func toJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(b), nil
}

// searchDocuments merges symbol and name matches, deduplicated by symbol.
// Provider failures yield an empty result list.
func (k Kit) searchDocuments(ctx context.Context, a Args) (string, error) {
	out := searchResults{Results: []searchHit{}}
	query := strings.TrimSpace(a.String("query"))
	if query == "" {
		return toJSON(out)
	}

	seen := make(map[string]bool)
	add := func(endpoint string, title func(fmp.Record, string) string) {
		c := report.Classify(k.fetch(ctx, a, endpoint, fmp.Params{"query": query, "limit": maxSearchHits}), "")
		for _, r := range c.Records {
			sym := r.String("symbol")
			if sym == "" || seen[sym] {
				continue
			}
			seen[sym] = true
			out.Results = append(out.Results, searchHit{
				ID:    documentPrefix + sym,
				Title: title(r, sym),
				URL:   companyURL + sym,
			})
		}
	}
	add("search-symbol", func(r fmp.Record, sym string) string {
		return sym + " - " + report.Or(r.String("name"), "Unknown")
	})
	add("search-name", func(r fmp.Record, sym string) string {
		return report.Or(r.String("name"), "Unknown") + " (" + sym + ")"
	})
	if len(out.Results) > maxSearchHits {
		out.Results = out.Results[:maxSearchHits]
	}
	return toJSON(out)
}

type document struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	URL      string         `json:"url"`
	Metadata map[string]any `json:"metadata"`
}

func (k Kit) fetchDocument(ctx context.Context, a Args) (string, error) {
	id := strings.TrimSpace(a.String("id"))
	if err := report.Validate(
		report.Check(id != "", "Error: Document ID is required"),
		report.Check(id == "" || strings.HasPrefix(id, documentPrefix), "Error: Unknown resource type: %s", id),
	); err != nil {
		return "", err
	}
	symbol := strings.TrimSpace(strings.TrimPrefix(id, documentPrefix))
	if err := report.Validate(report.Required("Symbol", symbol)); err != nil {
		return "", err
	}

	profile := firstRecord(k.fetch(ctx, a, "profile", fmp.Params{"symbol": symbol}))
	quote := firstRecord(k.fetch(ctx, a, "quote", fmp.Params{"symbol": symbol}))

	doc := document{
		ID:    id,
		Title: "Stock Information for " + symbol,
		URL:   companyURL + symbol,
	}
	var text []string
	meta := map[string]any{}
	if profile != nil {
		name := report.Or(profile.String("companyName"), "Unknown")
		doc.Title = name + " (" + symbol + ")"
		text = append(text,
			"Company: "+name,
			"Symbol: "+symbol,
			"Sector: "+report.Or(profile.String("sector"), "Unknown"),
			"Industry: "+report.Or(profile.String("industry"), "Unknown"),
			"CEO: "+report.Or(profile.String("ceo"), "Unknown"),
			"Website: "+report.Val(profile, "website"),
			"Employees: "+report.Val(profile, "fullTimeEmployees"),
			"Market Cap: "+report.Money(report.Num(profile, marketCapKey(profile))),
			"Exchange: "+report.Or(report.Or(profile.String("exchangeShortName"), profile.String("exchange")), "Unknown"),
			"Country: "+report.Or(profile.String("country"), "Unknown"),
		)
		if desc := profile.String("description"); desc != "" {
			text = append(text, "Description: "+desc)
		}
		meta["sector"] = profile["sector"]
		meta["industry"] = profile["industry"]
		meta["exchange"] = report.Or(profile.String("exchangeShortName"), profile.String("exchange"))
		meta["currency"] = report.Or(profile.String("currency"), "USD")
		meta["country"] = profile["country"]
		meta["is_etf"] = profile.Bool("isEtf")
	}
	if quote != nil {
		text = append(text,
			"",
			"Current Price: "+report.Money(report.Val(quote, "price")),
			"Change: "+report.Money(report.Val(quote, "change"))+" ("+report.Val(quote, "changesPercentage")+"%)",
			"Day Range: "+report.Money(report.Num(quote, "dayLow"))+" - "+report.Money(report.Num(quote, "dayHigh")),
			"52-Week Range: "+report.Money(report.Num(quote, "yearLow"))+" - "+report.Money(report.Num(quote, "yearHigh")),
			"Volume: "+report.Num(quote, "volume"),
			"Average Volume: "+report.Num(quote, "avgVolume"),
			"P/E Ratio: "+report.Val(quote, "pe"),
			"EPS: "+report.Money(report.Val(quote, "eps")),
		)
		meta["price"] = quote["price"]
		meta["market_cap"] = quote["marketCap"]
		meta["pe_ratio"] = quote["pe"]
		meta["volume"] = quote["volume"]
	}
	doc.Text = "No information available"
	if len(text) > 0 {
		doc.Text = strings.Join(text, "\n")
	}
	if len(meta) > 0 {
		doc.Metadata = meta
	}
	return toJSON(doc)
}

// firstRecord returns the first record of a successful payload, or nil.
func firstRecord(p fmp.Payload) fmp.Record {
	c := report.Classify(p, "")
	if c.Outcome != report.OutcomeSuccess {
		return nil
	}
	return c.Records[0]
}
