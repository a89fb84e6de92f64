package report

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only accepted date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Rule checks one constraint. A nil result means the constraint holds.
type Rule func() *Failure

// Validate runs rules in order and returns the first failure, or nil.
func Validate(rules ...Rule) error {
	for _, r := range rules {
		if f := r(); f != nil {
			return f
		}
	}
	return nil
}

// Bounds is an inclusive integer range.
type Bounds struct {
	Min int
	Max int
}

// Contains reports whether v is inside the range.
func (b Bounds) Contains(v int) bool { return v >= b.Min && v <= b.Max }

// Required fails when v is blank.
func Required(label, v string) Rule {
	return func() *Failure {
		if strings.TrimSpace(v) == "" {
			return Invalid("Error: %s parameter is required", label)
		}
		return nil
	}
}

// Period accepts "annual" or "quarter".
func Period(v string) Rule {
	return func() *Failure {
		if v != "annual" && v != "quarter" {
			return Invalid("Error: period must be 'annual' or 'quarter'")
		}
		return nil
	}
}

// Limit checks v against the endpoint's bounds.
func Limit(v int, b Bounds) Rule {
	return func() *Failure {
		if !b.Contains(v) {
			return Invalid("Error: limit must be between %d and %d", b.Min, b.Max)
		}
		return nil
	}
}

// Positive requires v > 0.
func Positive(name string, v int) Rule {
	return func() *Failure {
		if v <= 0 {
			return Invalid("Error: %s must be a positive integer", name)
		}
		return nil
	}
}

// OneOf requires v to be one of options.
func OneOf(name, v string, options []string) Rule {
	return func() *Failure {
		for _, o := range options {
			if v == o {
				return nil
			}
		}
		quoted := make([]string, len(options))
		for i, o := range options {
			quoted[i] = "'" + o + "'"
		}
		return Invalid("Error: '%s' is not a valid %s. Valid options are: %s", v, name, strings.Join(quoted, ", "))
	}
}

// Date checks the format of an optional date. Empty passes.
func Date(v string) Rule {
	return func() *Failure {
		if v == "" {
			return nil
		}
		if _, err := time.Parse(DateLayout, v); err != nil {
			return Invalid("Error: dates must be in YYYY-MM-DD format")
		}
		return nil
	}
}

// DateRange checks both dates, their order, and a maximum span in days.
// maxDays <= 0 disables the span check.
func DateRange(from, to string, maxDays int) Rule {
	return func() *Failure {
		start, err1 := time.Parse(DateLayout, from)
		end, err2 := time.Parse(DateLayout, to)
		if err1 != nil || err2 != nil {
			return Invalid("Error: dates must be in YYYY-MM-DD format")
		}
		days := DaysBetween(start, end)
		if days < 0 {
			return Invalid("Error: 'to_date' must be after 'from_date'")
		}
		if maxDays > 0 && days > maxDays {
			return Invalid("Error: Maximum date range is %d days", maxDays)
		}
		return nil
	}
}

// DaysBetween counts whole days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// Check adapts a plain condition into a Rule.
func Check(ok bool, format string, args ...any) Rule {
	return func() *Failure {
		if !ok {
			return Invalid(format, args...)
		}
		return nil
	}
}

// String renders bounds as "min-max".
func (b Bounds) String() string { return fmt.Sprintf("%d-%d", b.Min, b.Max) }
