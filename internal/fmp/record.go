package fmp

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is one JSON object from a provider response.
// Numbers decoded by Client are json.Number; hand-built records may hold Go numbers.
type Record map[string]any

// Value returns the field, treating JSON null like a missing key.
func (r Record) Value(key string) (any, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has reports whether the field is present and not null.
func (r Record) Has(key string) bool {
	_, ok := r.Value(key)
	return ok
}

// String returns the field as text, or "" when missing.
func (r Record) String(key string) string {
	v, ok := r.Value(key)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Float returns the field as a float64 when it is numeric.
func (r Record) Float(key string) (float64, bool) {
	v, ok := r.Value(key)
	if !ok {
		return 0, false
	}
	return ToFloat(v)
}

// Bool returns the field as a bool, false when missing or not a bool.
func (r Record) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// Object returns a nested JSON object field.
func (r Record) Object(key string) (Record, bool) {
	v, ok := r.Value(key)
	if !ok {
		return nil, false
	}
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return Record(m), true
	}
	return nil, false
}

// ToFloat converts any numeric JSON value to float64. Strings are not numbers.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Records converts a decoded JSON array into records.
// The second result is false when v is not an array. Non-object elements are skipped.
func Records(v any) ([]Record, bool) {
	switch list := v.(type) {
	case []Record:
		return list, true
	case []map[string]any:
		out := make([]Record, len(list))
		for i, m := range list {
			out[i] = Record(m)
		}
		return out, true
	case []any:
		out := make([]Record, 0, len(list))
		for _, item := range list {
			switch m := item.(type) {
			case map[string]any:
				out = append(out, Record(m))
			case Record:
				out = append(out, m)
			}
		}
		return out, true
	}
	return nil, false
}

// formatParam renders one query parameter value.
func formatParam(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}
