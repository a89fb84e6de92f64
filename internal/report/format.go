package report

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
)

// NA stands in for missing values.
const NA = "N/A"

// FormatNumber renders a number with thousands separators.
// Integral floats keep a ".0" suffix; non-numbers pass through unchanged,
// so applying it twice gives the same text.
func FormatNumber(v any) string {
	switch n := v.(type) {
	case nil:
		return NA
	case string:
		return n
	case json.Number:
		s := n.String()
		if isIntegerLiteral(s) {
			if i, err := n.Int64(); err == nil {
				return humanize.Comma(i)
			}
			if b, ok := new(big.Int).SetString(s, 10); ok {
				return humanize.BigComma(b)
			}
			return s
		}
		f, err := n.Float64()
		if err != nil {
			return s
		}
		return commaFloat(f)
	case float64:
		return commaFloat(n)
	case float32:
		return commaFloat(float64(n))
	case int:
		return humanize.Comma(int64(n))
	case int32:
		return humanize.Comma(int64(n))
	case int64:
		return humanize.Comma(n)
	case uint64:
		return humanize.BigComma(new(big.Int).SetUint64(n))
	}
	return fmt.Sprint(v)
}

func commaFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e18 {
		return humanize.Comma(int64(f)) + ".0"
	}
	return humanize.Commaf(f)
}

func isIntegerLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Plain renders a scalar without separators. Integral floats keep ".0".
func Plain(v any) string {
	switch n := v.(type) {
	case nil:
		return NA
	case string:
		return n
	case json.Number:
		s := n.String()
		if isIntegerLiteral(s) {
			return s
		}
		f, err := n.Float64()
		if err != nil {
			return s
		}
		return plainFloat(f)
	case float64:
		return plainFloat(n)
	case float32:
		return plainFloat(float64(n))
	}
	return fmt.Sprint(v)
}

func plainFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// Val returns r[key] as plain text, or N/A.
func Val(r fmp.Record, key string) string {
	v, ok := r.Value(key)
	if !ok {
		return NA
	}
	if s, ok := v.(string); ok && s == "" {
		return NA
	}
	return Plain(v)
}

// Num returns r[key] with thousands separators, or N/A.
func Num(r fmp.Record, key string) string {
	v, ok := r.Value(key)
	if !ok {
		return NA
	}
	return FormatNumber(v)
}

// Money prefixes a present value with "$".
func Money(s string) string {
	if s == NA {
		return NA
	}
	return "$" + s
}

// Fixed renders f with exactly n decimals.
func Fixed(f float64, n int) string {
	return strconv.FormatFloat(f, 'f', n, 64)
}

// Grouped renders f with separators and at most two decimals.
func Grouped(f float64) string {
	return humanize.FormatFloat("#,###.##", f)
}

// Pct renders r[key] as "x.xx%", or N/A when missing or not numeric.
func Pct(r fmp.Record, key string) string {
	f, ok := r.Float(key)
	if !ok {
		return NA
	}
	return Fixed(f, 2) + "%"
}

// Or returns s, or fallback when s is empty.
func Or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Direction is the sign of a change.
type Direction int

const (
	Down Direction = iota - 1
	Flat
	Up
)

var directionSymbols = map[Direction]string{
	Up:   "🔺",
	Down: "🔻",
	Flat: "➖",
}

// DirectionOf classifies a change value.
func DirectionOf(change float64) Direction {
	switch {
	case change > 0:
		return Up
	case change < 0:
		return Down
	}
	return Flat
}

// Arrow returns the indicator for a change value.
func Arrow(change float64) string { return directionSymbols[DirectionOf(change)] }

// ChangeArrow picks the indicator from the change field, falling back to the
// percentage field only when there is no change value.
func ChangeArrow(r fmp.Record, changeKey, percentKey string) string {
	if c, ok := r.Float(changeKey); ok {
		return Arrow(c)
	}
	if percentKey != "" {
		if p, ok := r.Float(percentKey); ok {
			return Arrow(p)
		}
	}
	return directionSymbols[Flat]
}
