package resources

import (
	"context"
	"strings"
	"time"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

type named struct{ symbol, name string }

var snapshotIndexes = []named{
	{"^GSPC", "S&P 500"},
	{"^DJI", "Dow Jones"},
	{"^IXIC", "NASDAQ"},
}

var sectorETFs = []named{
	{"XLF", "Financials"},
	{"XLK", "Technology"},
	{"XLV", "Healthcare"},
	{"XLE", "Energy"},
	{"XLU", "Utilities"},
	{"XLI", "Industrials"},
	{"XLP", "Consumer Staples"},
	{"XLY", "Consumer Discretionary"},
	{"XLB", "Materials"},
	{"XLRE", "Real Estate"},
}

type indexLevel struct {
	Name          string `json:"name"`
	Value         any    `json:"value"`
	Change        any    `json:"change"`
	ChangePercent any    `json:"changePercent"`
}

type sectorLevel struct {
	Name          string `json:"name"`
	Price         any    `json:"price"`
	Change        any    `json:"change"`
	ChangePercent any    `json:"changePercent"`
}

type snapshot struct {
	Timestamp string        `json:"timestamp"`
	Indexes   []indexLevel  `json:"indexes"`
	Sectors   []sectorLevel `json:"sectors"`
}

// quotesBySymbol fetches a batch quote; failures yield an empty map.
func (c *Catalog) quotesBySymbol(ctx context.Context, list []named) map[string]fmp.Record {
	symbols := make([]string, len(list))
	for i, n := range list {
		symbols[i] = n.symbol
	}
	out := make(map[string]fmp.Record)
	for _, r := range report.Classify(c.client.Fetch(ctx, "batch-quote", fmp.Params{"symbols": strings.Join(symbols, ",")}), "").Records {
		out[r.String("symbol")] = r
	}
	return out
}

func (c *Catalog) marketSnapshot(ctx context.Context, _ map[string]string) any {
	out := snapshot{
		Timestamp: c.now().Format(time.RFC3339),
		Indexes:   []indexLevel{},
		Sectors:   []sectorLevel{},
	}
	indexes := c.quotesBySymbol(ctx, snapshotIndexes)
	for _, n := range snapshotIndexes {
		if q, ok := indexes[n.symbol]; ok {
			out.Indexes = append(out.Indexes, indexLevel{
				Name:          n.name,
				Value:         valueOr(q, "price", 0),
				Change:        valueOr(q, "change", 0),
				ChangePercent: valueOr(q, "changesPercentage", 0),
			})
		}
	}
	sectors := c.quotesBySymbol(ctx, sectorETFs)
	for _, n := range sectorETFs {
		if q, ok := sectors[n.symbol]; ok {
			out.Sectors = append(out.Sectors, sectorLevel{
				Name:          n.name,
				Price:         valueOr(q, "price", 0),
				Change:        valueOr(q, "change", 0),
				ChangePercent: valueOr(q, "changesPercentage", 0),
			})
		}
	}
	return out
}
