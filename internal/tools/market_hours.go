package tools

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

func marketHoursTools(k Kit) []Tool {
	return []Tool{
		&fmpTool{
			name:        "get_market_hours",
			description: "Get which major stock exchanges are open or closed right now, with trading hours.",
			run:         k.marketHours,
		},
		&fmpTool{
			name:        "get_holidays",
			description: "Get market holidays and early closes for an exchange.",
			params: []Param{
				{Name: "exchange", Type: "string", Description: "Exchange code", Default: "US"},
			},
			run: k.holidays,
		},
	}
}

func exchangeName(r fmp.Record) string {
	return report.Or(report.Or(r.String("stockExchangeName"), r.String("name")), report.Or(r.String("exchange"), "Unknown"))
}

func marketOpen(r fmp.Record) bool {
	return r.Bool("isTheStockMarketOpen") || r.Bool("isMarketOpen")
}

func (k Kit) marketHours(ctx context.Context, a Args) (string, error) {
	exchanges, err := report.Expectation{
		Doing: "fetching market hours information",
		Empty: "No market hours data found",
	}.Records(k.fetch(ctx, a, "market-hours", fmp.Params{}))
	if err != nil {
		return "", err
	}

	var open, closed []string
	for _, ex := range exchanges {
		if marketOpen(ex) {
			open = append(open, exchangeName(ex))
		} else {
			closed = append(closed, exchangeName(ex))
		}
	}

	d := report.NewDoc("Market Hours Status")
	d.Stamp(k.now())
	d.Blank()
	for _, group := range []struct {
		title string
		names []string
	}{{"🟢 Open Markets", open}, {"🔴 Closed Markets", closed}} {
		if len(group.names) == 0 {
			continue
		}
		sort.Strings(group.names)
		d.Section("%s", group.title)
		d.Blank()
		for _, n := range group.names {
			d.Line("- %s", n)
		}
		d.Blank()
	}

	var timed []fmp.Record
	for _, ex := range exchanges {
		if ex.String("openingHour") != "" && ex.String("closingHour") != "" {
			timed = append(timed, ex)
		}
	}
	if len(timed) > 0 {
		d.Section("Market Trading Hours")
		d.Blank()
		d.Table([]report.Column{
			{Header: "Exchange", Cell: func(_ int, r fmp.Record) string { return exchangeName(r) }},
			report.Field("Opens", "openingHour"),
			report.Field("Closes", "closingHour"),
			{Header: "Timezone", Cell: func(_ int, r fmp.Record) string { return r.String("timezone") }},
		}, timed)
	}
	return d.String(), nil
}

func holidayStatus(r fmp.Record) string {
	status := r.String("status")
	if status == "" {
		switch {
		case r.Bool("isClosed"):
			status = "Closed"
		case r.Has("adjOpenTime") || r.Has("adjCloseTime"):
			status = "Early Close"
		default:
			status = "Unknown"
		}
	}
	switch strings.ToLower(status) {
	case "closed":
		return "🔴 Closed"
	case "early close", "early closing":
		return "🟠 Early Close"
	}
	return status
}

func (k Kit) holidays(ctx context.Context, a Args) (string, error) {
	exchange := report.Or(strings.TrimSpace(a.String("exchange")), "US")

	days, err := report.Expectation{
		Doing: "fetching market holidays",
		Empty: "No market holiday data found for exchange: " + exchange,
	}.Records(k.fetch(ctx, a, "market-holidays", fmp.Params{"exchange": exchange}))
	if err != nil {
		return "", err
	}

	type holiday struct {
		when time.Time
		date string
		rec  fmp.Record
	}
	byYear := make(map[int][]holiday)
	for _, r := range days {
		h := holiday{date: report.Or(r.String("date"), "Unknown"), rec: r}
		year := 0
		if t, err := parseDate(r.String("date")); err == nil {
			h.when, h.date, year = t, t.Format("January 02, 2006"), t.Year()
		}
		byYear[year] = append(byYear[year], h)
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	d := report.NewDoc("Market Holidays for %s Exchange", exchange)
	d.Blank()
	d.Text("| Date | Holiday | Status | Exchange |", "|------|---------|--------|----------|")
	for _, y := range years {
		list := byYear[y]
		sort.SliceStable(list, func(i, j int) bool { return list[i].when.Before(list[j].when) })
		d.Sub("%s Holidays", yearLabel(y))
		for _, h := range list {
			d.Line("| %s | %s | %s | %s |", h.date, report.Or(h.rec.String("name"), "Unknown"), holidayStatus(h.rec), report.Or(h.rec.String("exchange"), exchange))
		}
		d.Blank()
	}
	return d.String(), nil
}

func yearLabel(y int) string {
	if y == 0 {
		return "Undated"
	}
	return strconv.Itoa(y)
}
