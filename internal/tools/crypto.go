package tools

import (
	"context"
	"strings"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

func cryptoTools(k Kit) []Tool {
	return []Tool{
		&fmpTool{
			name:        "get_crypto_list",
			description: "Get the list of available cryptocurrencies.",
			run:         k.cryptoList,
		},
		&fmpTool{
			name:        "get_crypto_quote",
			description: "Get current quotes for cryptocurrencies with market cap and 24h volume.",
			params: []Param{
				stringParam("symbol", "Cryptocurrency symbol(s), comma separated (e.g., BTCUSD,ETHUSD); omit for top cryptocurrencies"),
			},
			run: k.cryptoQuote,
		},
	}
}

func (k Kit) cryptoList(ctx context.Context, a Args) (string, error) {
	coins, err := report.Expectation{
		Doing: "fetching cryptocurrency list",
		Empty: "No cryptocurrency data found",
	}.Records(k.fetch(ctx, a, "cryptocurrency-list", fmp.Params{}))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("Available Cryptocurrencies")
	d.Stamp(k.now())
	d.Blank()
	d.Table([]report.Column{
		report.Field("Symbol", "symbol"),
		report.Field("Name", "name"),
		{Header: "Currency", Cell: func(_ int, r fmp.Record) string { return report.Or(r.String("currency"), "USD") }},
	}, coins)
	d.Blank()
	d.Text("*Note: Use these symbols with the get_crypto_quote function to get current values.*")
	return d.String(), nil
}

// marketCap abbreviates to billions or millions.
func marketCap(_ int, r fmp.Record) string {
	mc, ok := r.Float("marketCap")
	if !ok {
		return report.NA
	}
	switch {
	case mc >= 1e9:
		return "$" + report.FormatNumber(mc/1e9) + "B"
	case mc >= 1e6:
		return "$" + report.FormatNumber(mc/1e6) + "M"
	}
	return report.Money(report.Num(r, "marketCap"))
}

func (k Kit) cryptoQuote(ctx context.Context, a Args) (string, error) {
	symbol := strings.TrimSpace(a.String("symbol"))
	params := fmp.Params{}
	if symbol != "" {
		params["symbol"] = symbol
	}

	quotes, err := report.Expectation{
		Doing: "fetching cryptocurrency quotes",
		Empty: "No quote data found for cryptocurrencies: " + report.Or(symbol, "top cryptocurrencies"),
	}.Records(k.fetch(ctx, a, "quote", params))
	if err != nil {
		return "", err
	}

	d := report.NewDoc("Cryptocurrency Quotes")
	d.Stamp(k.now())
	d.Blank()
	d.Table([]report.Column{
		report.Field("Symbol", "symbol"),
		report.Field("Name", "name"),
		report.NumField("Price", "price"),
		{Header: "Change", Cell: absChange},
		{Header: "Change %", Cell: func(_ int, r fmp.Record) string { return percentText(r, "changesPercentage") }},
		{Header: "Market Cap", Cell: marketCap},
		{Header: "Volume (24h)", Cell: func(_ int, r fmp.Record) string {
			if r.Has("volume24h") {
				return report.Num(r, "volume24h")
			}
			return report.Num(r, "volume")
		}},
	}, quotes)
	return d.String(), nil
}
