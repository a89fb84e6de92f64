package tools

import (
	"context"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

func analystTools(k Kit) []Tool {
	return []Tool{
		&fmpTool{
			name:        "get_ratings_snapshot",
			description: "Get the analyst ratings snapshot for a company: overall score, recommendation and component scores.",
			params:      []Param{symbolParam(symbolDesc)},
			run:         k.ratingsSnapshot,
		},
		&fmpTool{
			name:        "get_financial_estimates",
			description: "Get analyst estimates for revenue, EPS and net income.",
			params: []Param{
				symbolParam(symbolDesc),
				periodParam(),
				limitParam("analyst-estimates", 10),
			},
			run: k.financialEstimates,
		},
		&fmpTool{
			name:        "get_price_target_news",
			description: "Get the latest analyst price target updates across all stocks.",
			params: []Param{
				limitParam("price-target-latest-news", 10),
				intParam("page", "Page number for pagination (0-based)", 0),
			},
			run: k.priceTargetNews,
		},
	}
}

func (k Kit) ratingsSnapshot(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	if err := report.Validate(report.Required("Symbol", symbol)); err != nil {
		return "", err
	}

	r, err := report.Expectation{
		Doing: "fetching ratings for " + symbol,
		Empty: "No ratings data found for symbol " + symbol,
	}.First(k.fetch(ctx, a, "ratings-snapshot", fmp.Params{"symbol": symbol}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("Analyst Ratings for %s", symbol)
	d.Stamp(k.now())
	d.Blank()
	d.Section("Rating Summary")
	d.Bold("Rating", report.Val(r, "rating"))
	d.Bold("Rating Score", ratioValue(r, "ratingScore", "overallScore"))
	d.Bold("Recommendation", ratioValue(r, "ratingRecommendation", "recommendation"))
	d.Bold("DCF Score", ratioValue(r, "ratingDetailsDCFScore", "discountedCashFlowScore"))
	d.Bold("ROE Score", ratioValue(r, "ratingDetailsROEScore", "returnOnEquityScore"))
	d.Bold("ROA Score", ratioValue(r, "ratingDetailsROAScore", "returnOnAssetsScore"))
	d.Bold("DE Score", ratioValue(r, "ratingDetailsDEScore", "debtToEquityScore"))
	d.Bold("P/E Score", ratioValue(r, "ratingDetailsPEScore", "priceToEarningsScore"))
	d.Bold("PB Score", ratioValue(r, "ratingDetailsPBScore", "priceToBookScore"))
	if r.Has("ratingDetailsStrongBuy") || r.Has("ratingDetailsBuy") {
		d.Blank()
		d.Section("Consensus Ratings")
		d.Bold("Strong Buy", report.Val(r, "ratingDetailsStrongBuy"))
		d.Bold("Buy", report.Val(r, "ratingDetailsBuy"))
		d.Bold("Hold", report.Val(r, "ratingDetailsHold"))
		d.Bold("Sell", report.Val(r, "ratingDetailsSell"))
		d.Bold("Strong Sell", report.Val(r, "ratingDetailsStrongSell"))
	}
	return d.String(), nil
}

var estimateGroups = []struct {
	title  string
	prefix string
}{
	{"Revenue", "revenue"},
	{"EBITDA", "ebitda"},
	{"EPS", "eps"},
	{"Net Income", "netIncome"},
}

func (k Kit) financialEstimates(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	period := a.String("period")
	limit := a.Int("limit")
	if err := report.Validate(
		report.Required("Symbol", symbol),
		report.Period(period),
		report.Limit(limit, boundsFor("analyst-estimates")),
	); err != nil {
		return "", err
	}

	records, err := report.Expectation{
		Doing: "fetching financial estimates for " + symbol,
		Empty: "No financial estimates found for symbol " + symbol,
	}.Records(k.fetch(ctx, a, "analyst-estimates", fmp.Params{"symbol": symbol, "period": period, "limit": limit}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("Financial Estimates for %s (%s)", symbol, period)
	d.Stamp(k.now())
	for _, r := range records {
		d.Blank()
		d.Section("Estimates for %s", report.Or(r.String("date"), "Unknown"))
		for _, g := range estimateGroups {
			if !r.Has(g.prefix+"Avg") && !r.Has(g.prefix+"Low") && !r.Has(g.prefix+"High") {
				continue
			}
			d.Blank()
			d.Sub(g.title)
			d.Bold("Low", report.Money(report.Num(r, g.prefix+"Low")))
			d.Bold("Average", report.Money(report.Num(r, g.prefix+"Avg")))
			d.Bold("High", report.Money(report.Num(r, g.prefix+"High")))
		}
		if r.Has("numAnalystsRevenue") || r.Has("numAnalystsEps") {
			d.Blank()
			d.Bold("Analysts (Revenue / EPS)", report.Val(r, "numAnalystsRevenue")+" / "+report.Val(r, "numAnalystsEps"))
		}
	}
	return d.String(), nil
}

func (k Kit) priceTargetNews(ctx context.Context, a Args) (string, error) {
	limit := a.Int("limit")
	page := a.Int("page")
	if err := report.Validate(
		report.Limit(limit, boundsFor("price-target-latest-news")),
		report.Check(page >= 0, "Error: page must be a non-negative integer"),
	); err != nil {
		return "", err
	}

	params := fmp.Params{"limit": limit}
	if page > 0 {
		params["page"] = page
	}
	news, err := report.Expectation{
		Doing: "fetching price target news",
		Empty: "No price target updates found",
	}.Records(k.fetch(ctx, a, "price-target-latest-news", params))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("Latest Price Target Updates")
	d.Stamp(k.now())
	d.Blank()
	d.Table([]report.Column{
		report.Field("Symbol", "symbol"),
		report.Field("Company", "companyName"),
		report.Field("Publisher", "newsPublisher"),
		{Header: "Analyst", Cell: func(_ int, r fmp.Record) string { return analystLabel(r) }},
		{Header: "Old Target", Cell: func(_ int, r fmp.Record) string { return report.Money(report.Num(r, "adjPriceTarget")) }},
		{Header: "New Target", Cell: func(_ int, r fmp.Record) string { return report.Money(report.Num(r, "priceTarget")) }},
		{Header: "Stock Price", Cell: func(_ int, r fmp.Record) string { return report.Money(report.Num(r, "priceWhenPosted")) }},
		{Header: "Change (%)", Cell: func(_ int, r fmp.Record) string { return targetUpside(r) }},
	}, news)

	d.Blank()
	d.Section("Headlines")
	for _, r := range news {
		title := r.String("newsTitle")
		if title == "" {
			continue
		}
		d.Line("- **%s** %s (%s)", report.Val(r, "symbol"), title, report.Val(r, "publishedDate"))
		if u := r.String("newsURL"); u != "" {
			d.Line("  %s", u)
		}
	}
	return d.String(), nil
}

func analystLabel(r fmp.Record) string {
	name, firm := r.String("analystName"), r.String("analystCompany")
	switch {
	case name != "" && firm != "":
		return name + " (" + firm + ")"
	case firm != "":
		return firm
	case name != "":
		return name
	}
	return report.NA
}

// targetUpside is the new target relative to the price when it was posted.
func targetUpside(r fmp.Record) string {
	target, ok1 := r.Float("priceTarget")
	price, ok2 := r.Float("priceWhenPosted")
	if !ok1 || !ok2 || price == 0 {
		return report.NA
	}
	pct := (target - price) / price * 100
	return report.Arrow(pct) + " " + report.Fixed(pct, 2) + "%"
}
