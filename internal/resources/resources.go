// Package resources serves read-only JSON documents addressed by URI,
// such as stock-info://AAPL, built from FMP data.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

// MIMEType is the content type of every resource body.
const MIMEType = "application/json"

// Resource is one URI template and the document it serves.
type Resource struct {
	Template    string // e.g. "stock-info://{symbol}"
	Name        string
	Description string

	read func(ctx context.Context, vars map[string]string) any
}

// Static reports whether the template has no variables.
func (r Resource) Static() bool { return !strings.Contains(r.Template, "{") }

// Scheme returns the URI scheme, e.g. "stock-info".
func (r Resource) Scheme() string {
	scheme, _, _ := strings.Cut(r.Template, "://")
	return scheme
}

func (r Resource) vars() []string {
	_, path, _ := strings.Cut(r.Template, "://")
	var names []string
	for _, seg := range strings.Split(path, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			names = append(names, seg[1:len(seg)-1])
		}
	}
	return names
}

// match binds the URI's path segments to the template variables.
func (r Resource) match(uri string) (map[string]string, bool) {
	scheme, path, ok := strings.Cut(uri, "://")
	if !ok || scheme != r.Scheme() {
		return nil, false
	}
	if r.Static() {
		_, want, _ := strings.Cut(r.Template, "://")
		return map[string]string{}, path == want
	}
	names := r.vars()
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs) != len(names) {
		return nil, false
	}
	vars := make(map[string]string, len(names))
	for i, n := range names {
		if segs[i] == "" {
			return nil, false
		}
		vars[n] = segs[i]
	}
	return vars, true
}

// Catalog is the set of resources backed by one provider client.
type Catalog struct {
	client fmp.Fetcher
	now    func() time.Time
	list   []Resource
}

// New builds the catalog. now defaults to time.Now.
func New(client fmp.Fetcher, now func() time.Time) *Catalog {
	if now == nil {
		now = time.Now
	}
	c := &Catalog{client: client, now: now}
	c.list = []Resource{
		{
			Template:    "stock-info://{symbol}",
			Name:        "Stock information",
			Description: "Company profile combined with the latest quote",
			read:        c.stockInfo,
		},
		{
			Template:    "market-snapshot://current",
			Name:        "Market snapshot",
			Description: "Major US indexes and sector ETF performance",
			read:        c.marketSnapshot,
		},
		{
			Template:    "financial-statement://{symbol}/{statement_type}/{period}",
			Name:        "Financial statement",
			Description: "Last four income, balance or cash-flow statements (annual or quarter)",
			read:        c.financialStatement,
		},
		{
			Template:    "ratios://{symbol}",
			Name:        "Financial ratios",
			Description: "Recent financial ratio records",
			read:        c.ratios,
		},
		{
			Template:    "stock-peers://{symbol}",
			Name:        "Stock peers",
			Description: "Companies in the same sector",
			read:        c.stockPeers,
		},
		{
			Template:    "price-targets://{symbol}",
			Name:        "Price targets",
			Description: "Analyst price target consensus",
			read:        c.priceTargets,
		},
	}
	return c
}

// All returns the resources in registration order.
func (c *Catalog) All() []Resource {
	return append([]Resource(nil), c.list...)
}

// Read renders the document for uri as indented JSON. Provider failures
// are reported inside the document as {"error": "..."}; only an unknown
// URI is a Go error.
func (c *Catalog) Read(ctx context.Context, uri string) (string, error) {
	for _, r := range c.list {
		vars, ok := r.match(uri)
		if !ok {
			continue
		}
		b, err := json.MarshalIndent(r.read(ctx, vars), "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", uri, err)
		}
		return string(b), nil
	}
	return "", fmt.Errorf("unknown resource: %s", uri)
}

type errorBody struct {
	Error string `json:"error"`
}

func failure(format string, args ...any) errorBody {
	return errorBody{Error: fmt.Sprintf(format, args...)}
}

// records classifies p; on failure the returned body describes it.
func records(p fmp.Payload, doing, empty string) ([]fmp.Record, *errorBody) {
	c := report.Classify(p, "")
	switch c.Outcome {
	case report.OutcomeError:
		e := failure("Error %s: %s", doing, c.Message)
		return nil, &e
	case report.OutcomeEmpty:
		e := failure("%s", empty)
		return nil, &e
	}
	return c.Records, nil
}

// valueOr returns r[key], or fallback when absent.
func valueOr(r fmp.Record, key string, fallback any) any {
	if v, ok := r.Value(key); ok {
		return v
	}
	return fallback
}
