package tools

import (
	"context"
	"strings"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

// majorIndexes are reported by get_market_indexes, in this order.
var majorIndexes = []string{"^GSPC", "^DJI", "^IXIC", "^RUT"}

func marketTools(k Kit) []Tool {
	return []Tool{
		&fmpTool{
			name:        "get_market_indexes",
			description: "Get current values and daily changes of the major US indexes (S&P 500, Dow Jones, NASDAQ, Russell 2000).",
			run:         k.marketIndexes,
		},
	}
}

func (k Kit) marketIndexes(ctx context.Context, a Args) (string, error) {
	quotes, err := report.Expectation{
		Doing: "fetching market indexes",
		Empty: "No market index data found",
	}.Records(k.fetch(ctx, a, "batch-quote", fmp.Params{"symbols": strings.Join(majorIndexes, ",")}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("Major Market Indexes")
	d.Stamp(k.now())
	d.Blank()
	for _, q := range orderBySymbol(quotes, majorIndexes) {
		symbol := q.String("symbol")
		name, ok := indexNames[symbol]
		if !ok {
			name = report.Or(q.String("name"), report.Or(symbol, "Unknown"))
		}
		d.Section("%s", name)
		d.Bold("Current Value", floatOr(q, "price", report.Grouped))
		change := floatOr(q, "change", report.Grouped)
		pct := floatOr(q, "changesPercentage", func(f float64) string { return report.Fixed(f, 2) })
		d.Bold("Change", report.ChangeArrow(q, "change", "changesPercentage")+" "+change+" ("+pct+"%)")
		d.Blank()
	}
	return d.String(), nil
}

// floatOr formats a numeric field with f, or returns N/A.
func floatOr(r fmp.Record, key string, f func(float64) string) string {
	v, ok := r.Float(key)
	if !ok {
		return report.NA
	}
	return f(v)
}

// orderBySymbol puts records for the given symbols first, in that order,
// followed by any others in provider order.
func orderBySymbol(records []fmp.Record, order []string) []fmp.Record {
	rank := make(map[string]int, len(order))
	for i, s := range order {
		rank[s] = i
	}
	out := make([]fmp.Record, 0, len(records))
	for _, s := range order {
		for _, r := range records {
			if r.String("symbol") == s {
				out = append(out, r)
			}
		}
	}
	for _, r := range records {
		if _, ok := rank[r.String("symbol")]; !ok {
			out = append(out, r)
		}
	}
	return out
}
