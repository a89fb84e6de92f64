package tools

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

// maxCalendarDays is the widest span the dividends calendar accepts.
const maxCalendarDays = 90

func calendarTools(k Kit) []Tool {
	return []Tool{
		&fmpTool{
			name:        "get_company_dividends",
			description: "Get dividend history for a company with estimated annual dividend, yield and payment frequency.",
			params: []Param{
				symbolParam("Stock ticker symbol (e.g., AAPL, MSFT, JNJ)"),
				limitParam("dividends", 10),
			},
			run: k.companyDividends,
		},
		&fmpTool{
			name:        "get_dividends_calendar",
			description: "Get upcoming dividend events for all stocks in a date range of at most 90 days.",
			params: []Param{
				stringParam("from_date", "Start date in YYYY-MM-DD format (defaults to today)"),
				stringParam("to_date", "End date in YYYY-MM-DD format (defaults to 30 days from today)"),
				limitParam("dividends-calendar", 50),
			},
			run: k.dividendsCalendar,
		},
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(report.DateLayout, s)
}

func dividendAmount(r fmp.Record, key string) string {
	v, ok := r.Float(key)
	if !ok {
		return report.Val(r, key)
	}
	return "$" + report.Fixed(v, 4)
}

// dividendFrequency names the average spacing between dated records.
func dividendFrequency(records []fmp.Record) (string, bool) {
	var dates []time.Time
	for _, r := range records {
		if t, err := parseDate(r.String("date")); err == nil {
			dates = append(dates, t)
		}
	}
	if len(dates) < 2 {
		return "", false
	}
	total := 0
	for i := 0; i < len(dates)-1; i++ {
		total += report.DaysBetween(dates[i+1], dates[i])
	}
	avg := float64(total) / float64(len(dates)-1)
	switch {
	case avg >= 80 && avg <= 100:
		return "Quarterly", true
	case avg >= 170 && avg <= 190:
		return "Semi-annually", true
	case avg >= 350 && avg <= 380:
		return "Annually", true
	case avg >= 25 && avg <= 35:
		return "Monthly", true
	}
	return fmt.Sprintf("Approximately every %d days", int(avg)), true
}

func (k Kit) companyDividends(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	limit := a.Int("limit")
	if err := report.Validate(
		report.Required("Symbol", symbol),
		report.Limit(limit, boundsFor("dividends")),
	); err != nil {
		return "", err
	}

	divs, err := report.Expectation{
		Doing: "fetching dividend data for " + symbol,
		Empty: "No dividend data found for symbol " + symbol,
	}.Records(k.fetch(ctx, a, "dividends", fmp.Params{"symbol": symbol, "limit": limit}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("Dividend History for %s", symbol)
	d.Stamp(k.now())
	d.Blank()

	if latest, ok := divs[0].Float("dividend"); ok && latest > 0 {
		if len(divs) >= 4 {
			annual := 0.0
			for _, r := range divs[:4] {
				v, _ := r.Float("dividend")
				annual += v
			}
			if y, ok := divs[0].Float("yield"); ok {
				d.Bold("Current Yield", report.Fixed(y, 2)+"%")
			}
			d.Bold("Estimated Annual Dividend", "$"+report.FormatNumber(roundTo(annual, 6)))
		}
		if freq, ok := dividendFrequency(divs); ok {
			d.Bold("Dividend Frequency", freq)
		}
		d.Blank()
	}

	d.Section("Dividend History")
	d.Table([]report.Column{
		report.Field("Date", "date"),
		{Header: "Dividend", Cell: func(_ int, r fmp.Record) string { return dividendAmount(r, "dividend") }},
		{Header: "Adjusted Dividend", Cell: func(_ int, r fmp.Record) string { return dividendAmount(r, "adjDividend") }},
		report.Field("Record Date", "recordDate"),
		report.Field("Payment Date", "paymentDate"),
		report.Field("Declaration Date", "declarationDate"),
	}, divs)
	return d.String(), nil
}

// roundTo trims float noise from sums of decimal amounts.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func (k Kit) dividendsCalendar(ctx context.Context, a Args) (string, error) {
	limit := a.Int("limit")
	today := k.now()
	from := a.String("from_date")
	if from == "" {
		from = today.Format(report.DateLayout)
	}
	to := a.String("to_date")
	if to == "" {
		to = today.AddDate(0, 0, 30).Format(report.DateLayout)
	}
	if err := report.Validate(
		report.Limit(limit, boundsFor("dividends-calendar")),
		report.DateRange(from, to, maxCalendarDays),
	); err != nil {
		return "", err
	}

	events, err := report.Expectation{
		Doing: "fetching dividends calendar",
		Empty: "No dividend events found between " + from + " and " + to,
	}.Records(k.fetch(ctx, a, "dividends-calendar", fmp.Params{"from": from, "to": to, "limit": limit}))
	if err != nil {
		return "", err
	}
	if len(events) > limit {
		events = events[:limit]
	}

	byDate := make(map[string][]fmp.Record)
	for _, e := range events {
		date := report.Or(e.String("date"), "Unknown")
		byDate[date] = append(byDate[date], e)
	}
	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	d := report.NewDoc("Dividend Calendar: %s to %s", from, to)
	d.Stamp(k.now())
	d.Line("*Showing %d dividend events*", len(events))
	d.Blank()
	cols := []report.Column{
		report.Field("Symbol", "symbol"),
		report.Field("Company", "name"),
		{Header: "Dividend", Cell: func(_ int, r fmp.Record) string { return dividendAmount(r, "dividend") }},
		{Header: "Yield", Cell: func(_ int, r fmp.Record) string { return report.Pct(r, "yield") }},
		report.Field("Ex-Dividend Date", "date"),
		report.Field("Payment Date", "paymentDate"),
		report.Field("Record Date", "recordDate"),
	}
	for _, date := range dates {
		d.Section("%s", date)
		d.Table(cols, byDate[date])
		d.Blank()
	}
	return d.String(), nil
}
