package tools

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

const newsSummaryChars = 250

func newsTools(k Kit) []Tool {
	return []Tool{
		&fmpTool{
			name:        "get_stock_news",
			description: "Get the latest news for one or more stocks, or general market news when no symbol is given.",
			params: []Param{
				stringParam("symbol", "Stock ticker symbol(s), comma separated; omit for general market news"),
				limitParam("news/stock", 5),
			},
			run: k.stockNews,
		},
	}
}

func (k Kit) stockNews(ctx context.Context, a Args) (string, error) {
	symbol := strings.TrimSpace(a.String("symbol"))
	limit := a.Int("limit")

	endpoint, params := "news/general-latest", fmp.Params{"limit": limit}
	if symbol != "" {
		endpoint = "news/stock"
		params["symbols"] = symbol
	}
	if err := report.Validate(report.Limit(limit, boundsFor(endpoint))); err != nil {
		return "", err
	}

	articles, err := report.Expectation{
		Doing: "fetching news",
		Empty: "No news articles found",
	}.Records(k.fetch(ctx, a, endpoint, params))
	if err != nil {
		return "", err
	}
	if len(articles) > limit {
		articles = articles[:limit]
	}

	var d *report.Doc
	if symbol != "" {
		d = report.NewDoc("Latest News for %s", symbol)
	} else {
		d = report.NewDoc("Latest Market News")
	}
	for _, art := range articles {
		d.Blank()
		d.Section("%s", report.Or(art.String("title"), "No Title"))
		d.Text("**Published**: " + report.Or(art.String("publishedDate"), "Unknown Date") +
			" | **Source**: " + report.Or(report.Or(art.String("site"), art.String("publisher")), "Unknown Source"))
		d.Bold("URL", report.Or(art.String("url"), "#"))
		d.Blank()
		d.Text(truncate(report.Or(art.String("text"), "No summary available"), newsSummaryChars))
	}
	return d.String(), nil
}

// truncate cuts s to n runes and marks the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
