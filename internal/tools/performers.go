package tools

import (
	"context"
	"math"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

type performerList struct {
	tool     string
	endpoint string
	title    string // "Biggest Gainers"
	subject  string // "biggest gainers"
	arrow    bool   // change column carries a direction indicator
}

var performerLists = []performerList{
	{"get_biggest_gainers", "biggest-gainers", "Biggest Gainers", "biggest gainers", false},
	{"get_biggest_losers", "biggest-losers", "Biggest Losers", "biggest losers", false},
	{"get_most_active", "most-actives", "Most Active Stocks", "most active stocks", true},
}

func performerTools(k Kit) []Tool {
	out := make([]Tool, 0, len(performerLists))
	for _, pl := range performerLists {
		pl := pl
		out = append(out, &fmpTool{
			name:        pl.tool,
			description: "Get today's " + pl.subject + " with price, change and volume.",
			params:      []Param{limitParam(pl.endpoint, 10)},
			run:         func(ctx context.Context, a Args) (string, error) { return k.performers(ctx, a, pl) },
		})
	}
	return out
}

func (k Kit) performers(ctx context.Context, a Args, pl performerList) (string, error) {
	limit := a.Int("limit")
	if err := report.Validate(report.Limit(limit, boundsFor(pl.endpoint))); err != nil {
		return "", err
	}

	stocks, err := report.Expectation{
		Doing: "fetching " + pl.subject,
		Empty: "No data found for " + pl.subject,
	}.Records(k.fetch(ctx, a, pl.endpoint, fmp.Params{}))
	if err != nil {
		return "", err
	}
	stocks = stocks[:min(limit, len(stocks))]

	change := func(_ int, r fmp.Record) string { return report.Money(report.Num(r, "change")) }
	if pl.arrow {
		change = func(_ int, r fmp.Record) string {
			c, ok := r.Float("change")
			if !ok {
				return report.NA
			}
			return report.ChangeArrow(r, "change", "changesPercentage") + " $" + report.FormatNumber(absNumber(r["change"], c))
		}
	}

	d := report.NewDoc("Top %d %s", limit, pl.title)
	d.Stamp(k.now())
	d.Blank()
	d.Table([]report.Column{
		report.RankField("Rank"),
		report.Field("Symbol", "symbol"),
		report.Field("Company", "name"),
		{Header: "Price", Cell: func(_ int, r fmp.Record) string { return report.Money(report.Num(r, "price")) }},
		{Header: "Change", Cell: change},
		{Header: "Change %", Cell: func(_ int, r fmp.Record) string { return percentText(r, "changesPercentage") }},
		report.NumField("Volume", "volume"),
	}, stocks)
	return d.String(), nil
}

// percentText appends "%" to a present value.
func percentText(r fmp.Record, key string) string {
	v := report.Val(r, key)
	if v == report.NA {
		return v
	}
	return v + "%"
}

// absNumber drops the sign of a numeric JSON value, keeping its integer or
// float form for formatting.
func absNumber(raw any, f float64) any {
	if f >= 0 {
		return raw
	}
	if f == math.Trunc(f) && report.Plain(raw) == report.Fixed(f, 0) {
		return int64(-f)
	}
	return -f
}
