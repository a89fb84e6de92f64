// Package report is the shared contract every FMP tool follows:
// declarative argument validation, response classification, and
// deterministic Markdown rendering.
package report

import (
	"errors"
	"fmt"
)

// Kind is the category of an expected tool failure.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindTransport
	KindProvider
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindProvider:
		return "provider"
	case KindEmpty:
		return "empty"
	}
	return "unknown"
}

// Failure is an expected, classified tool failure. Its message is shown to
// the caller verbatim in place of a report.
type Failure struct {
	Kind    Kind
	Message string
}

func (f *Failure) Error() string { return f.Message }

// Invalid builds a validation failure.
func Invalid(format string, args ...any) *Failure {
	return &Failure{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NoData builds an empty-result failure.
func NoData(format string, args ...any) *Failure {
	return &Failure{Kind: KindEmpty, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the failure kind of err, or 0 when err is not a *Failure.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return 0
}

// Text collapses a tool outcome into what the caller receives.
// Classified failures become their message with a nil error; any other
// error is a defect and is returned as is.
func Text(body string, err error) (string, error) {
	if err == nil {
		return body, nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Message, nil
	}
	return "", err
}
