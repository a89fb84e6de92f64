package tools

import (
	"context"
	"strings"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

var timeframes = []string{"1min", "5min", "15min", "30min", "1hour", "4hour", "1day"}

var emaNotes = []string{
	"* The Exponential Moving Average is a trend-following indicator.",
	"* When the price is above the EMA, it typically signals an uptrend.",
	"* When the price is below the EMA, it typically signals a downtrend.",
	"* EMA gives more weight to recent prices, making it more responsive to new information.",
	"* EMA responds more quickly to price changes than Simple Moving Average (SMA).",
	"* Crossovers between different period EMAs are often used as trading signals.",
	"* Common EMA periods for analysis are 12, 26, 50, and 200 days.",
}

// emaRows caps the rendered data points.
const emaRows = 10

func technicalTools(k Kit) []Tool {
	return []Tool{
		&fmpTool{
			name:        "get_ema",
			description: "Get Exponential Moving Average (EMA) values with closing prices for a symbol.",
			params: []Param{
				symbolParam(symbolDesc),
				intParam("period_length", "Period length for the EMA calculation", 10),
				{
					Name:        "timeframe",
					Type:        "string",
					Description: "Time frame of the data points",
					Default:     "1day",
					Enum:        timeframes,
				},
				stringParam("from_date", "Start date in YYYY-MM-DD format"),
				stringParam("to_date", "End date in YYYY-MM-DD format"),
			},
			run: k.ema,
		},
	}
}

func (k Kit) ema(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	period := a.Int("period_length")
	timeframe := a.String("timeframe")
	from, to := a.String("from_date"), a.String("to_date")
	if err := report.Validate(
		report.Required("Symbol", symbol),
		report.OneOf("timeframe", timeframe, timeframes),
		report.Positive("periodLength", period),
		report.Date(from),
		report.Date(to),
	); err != nil {
		return "", err
	}

	params := fmp.Params{"symbol": symbol, "periodLength": period, "timeframe": timeframe}
	if from != "" {
		params["from"] = from
	}
	if to != "" {
		params["to"] = to
	}

	points, err := report.Expectation{
		Doing: "fetching EMA data for " + symbol,
		Empty: "No EMA data found for symbol " + symbol,
	}.Records(k.fetch(ctx, a, "technical-indicators/ema", params))
	if err != nil {
		return "", err
	}
	points = points[:min(emaRows, len(points))]

	stamp := k.now().Format(report.StampLayout)
	d := report.NewDoc("Exponential Moving Average (EMA) for %s", symbol)
	if from != "" && to != "" {
		d.Line("*Period: %d, Time Frame: %s, Date Range: %s to %s, Data as of %s*", period, timeframe, from, to, stamp)
	} else {
		d.Line("*Period: %d, Time Frame: %s, Data as of %s*", period, timeframe, stamp)
	}
	d.Blank()
	d.Table([]report.Column{
		{Header: "Date", Cell: func(_ int, r fmp.Record) string {
			day, _, _ := strings.Cut(report.Val(r, "date"), " ")
			return day
		}},
		report.NumField("Close", "close"),
		report.NumField("EMA", "ema"),
	}, points)
	d.Blank()
	d.Section("Indicator Interpretation")
	d.Text(emaNotes...)
	return d.String(), nil
}
