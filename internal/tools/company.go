package tools

import (
	"context"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

func companyTools(k Kit) []Tool {
	return []Tool{
		&fmpTool{
			name:        "get_company_profile",
			description: "Get detailed profile information for a company: sector, industry, CEO, market cap and key metrics.",
			params:      []Param{symbolParam("Stock ticker symbol (e.g., AAPL, MSFT, TSLA)")},
			run:         k.companyProfile,
		},
		&fmpTool{
			name:        "get_company_notes",
			description: "Get notes (debt securities) issued by a company.",
			params:      []Param{symbolParam("Stock ticker symbol (e.g., AAPL, MSFT, TSLA)")},
			run:         k.companyNotes,
		},
	}
}

func (k Kit) companyProfile(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	if err := report.Validate(report.Required("Symbol", symbol)); err != nil {
		return "", err
	}

	p, err := report.Expectation{
		Doing: "fetching profile for " + symbol,
		Empty: "No profile data found for symbol " + symbol,
	}.First(k.fetch(ctx, a, "profile", fmp.Params{"symbol": symbol}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("%s (%s)", report.Or(p.String("companyName"), "Unknown Company"), report.Or(p.String("symbol"), "Unknown"))
	d.Bold("Sector", report.Val(p, "sector"))
	d.Bold("Industry", report.Val(p, "industry"))
	d.Bold("CEO", report.Val(p, "ceo"))
	d.Bold("Description", report.Val(p, "description"))
	d.Blank()
	d.Section("Financial Overview")
	d.Bold("Market Cap", report.Money(report.Num(p, marketCapKey(p))))
	d.Bold("Price", report.Money(report.Num(p, "price")))
	d.Bold("Beta", report.Val(p, "beta"))
	d.Bold("Volume Average", report.Num(p, volumeAverageKey(p)))
	d.Bold("DCF", report.Money(report.Val(p, "dcf")))
	d.Blank()
	d.Section("Key Metrics")
	d.Bold("P/E Ratio", report.Val(p, "pe"))
	d.Bold("EPS", report.Money(report.Val(p, "eps")))
	d.Bold("ROE", report.Val(p, "roe"))
	d.Bold("ROA", report.Val(p, "roa"))
	d.Bold("Revenue Per Share", report.Money(report.Val(p, "revenuePerShare")))
	d.Blank()
	d.Section("Additional Information")
	d.Bold("Website", report.Val(p, "website"))
	d.Bold("Exchange", report.Val(p, "exchange"))
	d.Bold("Founded", report.Val(p, "ipoDate"))
	return d.String(), nil
}

// The stable API renamed mktCap and volAvg; accept both spellings.
func marketCapKey(r fmp.Record) string {
	if r.Has("mktCap") {
		return "mktCap"
	}
	return "marketCap"
}

func volumeAverageKey(r fmp.Record) string {
	if r.Has("volAvg") {
		return "volAvg"
	}
	return "averageVolume"
}

func (k Kit) companyNotes(ctx context.Context, a Args) (string, error) {
	symbol := a.String("symbol")
	if err := report.Validate(report.Required("Symbol", symbol)); err != nil {
		return "", err
	}

	notes, err := report.Expectation{
		Doing: "fetching company notes for " + symbol,
		Empty: "No company notes found for symbol " + symbol,
	}.Records(k.fetch(ctx, a, "company-notes", fmp.Params{"symbol": symbol}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("Company Notes for %s", symbol)
	d.Stamp(k.now())
	d.Blank()
	d.Line("*Showing %d notes*", len(notes))
	d.Blank()
	d.Table([]report.Column{
		report.Field("Title", "title"),
		report.Field("Exchange", "exchange"),
		report.Field("CIK", "cik"),
	}, notes)
	return d.String(), nil
}
