package tools

import (
	"context"
	"sort"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

func chartTools(k Kit) []Tool {
	return []Tool{
		&fmpTool{
			name:        "get_price_change",
			description: "Get the latest price and 1 day, 1 week and 1 month changes computed from end-of-day history.",
			params:      []Param{symbolParam(symbolDesc)},
			run:         k.priceChange,
		},
		&fmpTool{
			name:        "get_historical_price_eod_light",
			description: "Get light end-of-day price history (date, price, volume) for a symbol.",
			params: []Param{
				symbolParam("Symbol (stock, index, commodity or crypto, e.g., AAPL, GCUSD)"),
				stringParam("from_date", "Start date in YYYY-MM-DD format"),
				stringParam("to_date", "End date in YYYY-MM-DD format"),
				limitParam("historical-price-eod/light", 30),
			},
			run: k.historicalLight,
		},
		&fmpTool{
			name:        "get_historical_price",
			description: "Get full end-of-day OHLCV history with a period summary (defaults to the last 30 days).",
			params: []Param{
				symbolParam(symbolDesc),
				stringParam("from_date", "Start date in YYYY-MM-DD format (defaults to 30 days before to_date)"),
				stringParam("to_date", "End date in YYYY-MM-DD format (defaults to today)"),
			},
			run: k.historicalFull,
		},
	}
}

// byDateDesc sorts records newest first. Dates are ISO strings.
func byDateDesc(records []fmp.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].String("date") > records[j].String("date")
	})
}

func byDateAsc(records []fmp.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].String("date") < records[j].String("date")
	})
}

// closePrice reads "close", falling back to "price" (light history).
func closePrice(r fmp.Record) (float64, bool) {
	if v, ok := r.Float("close"); ok {
		return v, true
	}
	return r.Float("price")
}

func closeValue(r fmp.Record) any {
	if v, ok := r.Value("close"); ok {
		return v
	}
	v, _ := r.Value("price")
	return v
}

func (k Kit) priceChange(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	if err := report.Validate(report.Required("Symbol", symbol)); err != nil {
		return "", err
	}

	history, err := report.Expectation{
		Doing:  "fetching price change for " + symbol,
		Empty:  "No historical price data found for symbol " + symbol,
		Nested: "historical",
	}.Records(k.fetch(ctx, a, "historical-price-eod/light", fmp.Params{"symbol": symbol}))
	if err != nil {
		return "", err
	}
	byDateDesc(history)

	latest := history[0]
	latestPrice, ok := closePrice(latest)
	if !ok {
		return "", report.NoData("Price data not available for %s", symbol)
	}

	d := report.NewDoc("Price History for %s", symbol)
	d.Stamp(k.now())
	d.Blank()
	d.Bold("Latest Price", "$"+report.FormatNumber(closeValue(latest))+" on "+report.Or(latest.String("date"), "unknown date"))
	d.Blank()

	if len(history) < 30 {
		d.Text("*Insufficient historical data for price change calculations*")
		return d.String(), nil
	}
	for _, span := range []struct {
		label string
		index int
	}{{"1 Day Change", 1}, {"1 Week Change", 5}, {"1 Month Change", 21}} {
		prev, ok := closePrice(history[span.index])
		if !ok || prev == 0 {
			continue
		}
		pct := (latestPrice - prev) / prev * 100
		d.Bold(span.label, report.Arrow(pct)+" "+report.Fixed(pct, 2)+"%")
	}
	return d.String(), nil
}

func (k Kit) historicalLight(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	from, to := a.String("from_date"), a.String("to_date")
	limit := a.Int("limit")
	rules := []report.Rule{
		report.Required("Symbol", symbol),
		report.Limit(limit, boundsFor("historical-price-eod/light")),
		report.Date(from),
		report.Date(to),
	}
	if from != "" && to != "" {
		rules = append(rules, report.DateRange(from, to, 0))
	}
	if err := report.Validate(rules...); err != nil {
		return "", err
	}

	params := fmp.Params{"symbol": symbol}
	if from != "" {
		params["from"] = from
	}
	if to != "" {
		params["to"] = to
	}
	history, err := report.Expectation{
		Doing:  "fetching historical prices for " + symbol,
		Empty:  "No historical price data found for symbol " + symbol,
		Nested: "historical",
	}.Records(k.fetch(ctx, a, "historical-price-eod/light", params))
	if err != nil {
		return "", err
	}
	byDateDesc(history)
	shown := history[:min(limit, len(history))]

	d := report.NewDoc("Historical Prices (EOD Light) for %s", symbol)
	d.Stamp(k.now())
	if from != "" || to != "" {
		d.Bold("Period", report.Or(from, "earliest")+" to "+report.Or(to, "latest"))
	}
	d.Blank()
	d.Line("*Showing %d of %d records*", len(shown), len(history))
	d.Blank()
	d.Table([]report.Column{
		report.Field("Date", "date"),
		{Header: "Price", Cell: func(_ int, r fmp.Record) string { return report.Money(report.FormatNumber(closeValue(r))) }},
		report.NumField("Volume", "volume"),
	}, shown)
	return d.String(), nil
}

func money2(r fmp.Record, key string) string {
	v, ok := r.Float(key)
	if !ok {
		return report.NA
	}
	return "$" + report.Fixed(v, 2)
}

func (k Kit) historicalFull(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	if err := report.Validate(report.Required("Symbol", symbol)); err != nil {
		return "", err
	}
	to := a.String("to_date")
	if to == "" {
		to = k.now().Format(report.DateLayout)
	}
	from := a.String("from_date")
	if err := report.Validate(report.Date(to)); err != nil {
		return "", err
	}
	if from == "" {
		end, _ := parseDate(to)
		from = end.AddDate(0, 0, -30).Format(report.DateLayout)
	}
	if err := report.Validate(report.DateRange(from, to, 0)); err != nil {
		return "", err
	}

	payload := k.fetch(ctx, a, "historical-price-eod/full", fmp.Params{"symbol": symbol, "from": from, "to": to})
	history, err := report.Expectation{
		Doing:  "fetching historical prices for " + symbol,
		Empty:  "No historical price data found for " + symbol + " in the specified date range",
		Nested: "historical",
	}.Records(payload)
	if err != nil {
		return "", err
	}
	byDateAsc(history)

	d := report.NewDoc("Historical Prices for %s", symbol)
	d.Bold("Period", from+" to "+to)
	d.Blank()

	first, last := history[0], history[len(history)-1]
	firstClose, ok1 := first.Float("close")
	lastClose, ok2 := last.Float("close")
	if ok1 && ok2 && firstClose != 0 {
		diff := lastClose - firstClose
		d.Bold("Summary", report.Arrow(diff)+" $"+report.Fixed(diff, 2)+" ("+report.Fixed(diff/firstClose*100, 2)+"%)")
		d.Bold("Starting Price", "$"+report.Fixed(firstClose, 2)+" on "+report.Val(first, "date"))
		d.Bold("Ending Price", "$"+report.Fixed(lastClose, 2)+" on "+report.Val(last, "date"))
		hi, lo := extremes(history)
		if hi != nil {
			d.Bold("Highest Price", money2(hi, "high")+" on "+report.Val(hi, "date"))
		}
		if lo != nil {
			d.Bold("Lowest Price", money2(lo, "low")+" on "+report.Val(lo, "date"))
		}
	}

	d.Blank()
	d.Section("Daily Price Data")
	d.Table([]report.Column{
		report.Field("Date", "date"),
		{Header: "Open", Cell: func(_ int, r fmp.Record) string { return money2(r, "open") }},
		{Header: "High", Cell: func(_ int, r fmp.Record) string { return money2(r, "high") }},
		{Header: "Low", Cell: func(_ int, r fmp.Record) string { return money2(r, "low") }},
		{Header: "Close", Cell: func(_ int, r fmp.Record) string { return money2(r, "close") }},
		report.NumField("Volume", "volume"),
	}, history[:min(30, len(history))])
	if len(history) > 30 {
		d.Blank()
		d.Text("*Note: Showing data for the first 30 days only*")
	}
	return d.String(), nil
}

// extremes returns the records with the highest high and the lowest low.
func extremes(history []fmp.Record) (hi, lo fmp.Record) {
	var hiV, loV float64
	for _, r := range history {
		if v, ok := r.Float("high"); ok && (hi == nil || v > hiV) {
			hi, hiV = r, v
		}
		if v, ok := r.Float("low"); ok && (lo == nil || v < loV) {
			lo, loV = r, v
		}
	}
	return hi, lo
}
