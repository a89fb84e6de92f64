package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/report"
)

// Param declares one tool argument.
type Param struct {
	Name        string
	Type        string // JSON Schema type: string, integer, boolean
	Description string
	Required    bool
	Default     any
	Enum        []string
	Bounds      *report.Bounds
}

func (p Param) schema() map[string]any {
	s := map[string]any{"type": p.Type}
	if p.Description != "" {
		s["description"] = p.Description
	}
	if p.Default != nil {
		s["default"] = p.Default
	}
	if len(p.Enum) > 0 {
		s["enum"] = p.Enum
	}
	if p.Bounds != nil {
		s["minimum"] = p.Bounds.Min
		s["maximum"] = p.Bounds.Max
	}
	return s
}

func stringParam(name, desc string) Param {
	return Param{Name: name, Type: "string", Description: desc}
}

func symbolParam(desc string) Param {
	return Param{Name: "symbol", Type: "string", Description: desc, Required: true}
}

func intParam(name, desc string, def int) Param {
	return Param{Name: name, Type: "integer", Description: desc, Default: def}
}

func periodParam() Param {
	return Param{
		Name:        "period",
		Type:        "string",
		Description: "Data period: annual or quarter",
		Default:     "annual",
		Enum:        []string{"annual", "quarter"},
	}
}

// limitParam declares "limit" with the endpoint's bounds.
func limitParam(endpoint string, def int) Param {
	b := boundsFor(endpoint)
	return Param{
		Name:        "limit",
		Type:        "integer",
		Description: fmt.Sprintf("Number of results to return (%d-%d)", b.Min, b.Max),
		Default:     def,
		Bounds:      &b,
	}
}

// fmpTool is a declarative tool: a parameter list plus a run function.
type fmpTool struct {
	name        string
	description string
	params      []Param
	run         func(ctx context.Context, a Args) (string, error)
}

func (t *fmpTool) Name() string        { return t.name }
func (t *fmpTool) Description() string { return t.description }

func (t *fmpTool) Parameters() map[string]any {
	props := make(map[string]any, len(t.params))
	var required []string
	for _, p := range t.params {
		props[p.Name] = p.schema()
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func (t *fmpTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	return report.Text(t.run(ctx, bind(t.params, args)))
}

// Args are call arguments with declared defaults filled in.
type Args map[string]any

func bind(params []Param, raw map[string]any) Args {
	a := make(Args, len(raw)+len(params))
	for k, v := range raw {
		a[k] = v
	}
	for _, p := range params {
		if v, ok := a[p.Name]; (!ok || v == nil) && p.Default != nil {
			a[p.Name] = p.Default
		}
	}
	return a
}

// String returns the argument as text, "" when absent.
func (a Args) String(name string) string {
	switch v := a[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the argument as an integer. Unparseable values give 0,
// which every bounds rule rejects.
func (a Args) Int(name string) int {
	switch v := a[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v != math.Trunc(v) {
			return 0
		}
		return int(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return 0
}

// Kit carries what every tool needs: the provider client and a clock.
type Kit struct {
	Client fmp.Fetcher
	Now    func() time.Time
}

func (k Kit) now() time.Time {
	if k.Now != nil {
		return k.Now()
	}
	return time.Now()
}

type keyBinder interface {
	WithAPIKey(key string) *fmp.Client
}

// fetch calls the provider, honoring a per-call "api_key" argument when the
// client supports rebinding its key.
func (k Kit) fetch(ctx context.Context, a Args, endpoint string, params fmp.Params) fmp.Payload {
	var f fmp.Fetcher = k.Client
	if key := a.String("api_key"); key != "" {
		if kb, ok := k.Client.(keyBinder); ok {
			f = kb.WithAPIKey(key)
		}
	}
	return f.Fetch(ctx, endpoint, params)
}

// limitBounds holds the provider's accepted limit range per endpoint.
var limitBounds = map[string]report.Bounds{
	"search-symbol":              {Min: 1, Max: 100},
	"search-name":                {Min: 1, Max: 100},
	"biggest-gainers":            {Min: 1, Max: 100},
	"biggest-losers":             {Min: 1, Max: 100},
	"most-actives":               {Min: 1, Max: 100},
	"etf-holdings":               {Min: 1, Max: 100},
	"income-statement":           {Min: 1, Max: 120},
	"balance-sheet-statement":    {Min: 1, Max: 120},
	"cash-flow-statement":        {Min: 1, Max: 120},
	"key-metrics":                {Min: 1, Max: 120},
	"dividends":                  {Min: 1, Max: 1000},
	"analyst-estimates":          {Min: 1, Max: 1000},
	"price-target-latest-news":   {Min: 1, Max: 1000},
	"historical-price-eod/light": {Min: 1, Max: 1000},
	"dividends-calendar":         {Min: 1, Max: 3000},
	"news/stock":                 {Min: 1, Max: 50},
	"news/general-latest":        {Min: 1, Max: 50},
}

func boundsFor(endpoint string) report.Bounds {
	if b, ok := limitBounds[endpoint]; ok {
		return b
	}
	return report.Bounds{Min: 1, Max: 100}
}

// RegisterAll registers the full FMP tool catalog.
func RegisterAll(reg *Registry, k Kit) {
	families := [][]Tool{
		companyTools(k),
		quoteTools(k),
		chartTools(k),
		statementTools(k),
		analysisTools(k),
		analystTools(k),
		calendarTools(k),
		newsTools(k),
		searchTools(k),
		indexTools(k),
		marketTools(k),
		performerTools(k),
		marketHoursTools(k),
		etfTools(k),
		commodityTools(k),
		cryptoTools(k),
		forexTools(k),
		technicalTools(k),
	}
	for _, family := range families {
		for _, t := range family {
			reg.Register(t)
		}
	}
}
