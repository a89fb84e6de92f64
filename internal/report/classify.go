package report

import (
	"github.com/dayuer/fmp-mcp-go/internal/fmp"
)

// Outcome is how a provider payload is interpreted.
type Outcome int

const (
	OutcomeError Outcome = iota + 1
	OutcomeEmpty
	OutcomeSuccess
)

func (o Outcome) String() string {
	switch o {
	case OutcomeError:
		return "error"
	case OutcomeEmpty:
		return "empty"
	case OutcomeSuccess:
		return "success"
	}
	return "unknown"
}

// Classified is a payload after classification.
type Classified struct {
	Outcome Outcome
	// Records holds the data on success.
	Records []fmp.Record
	// Top is the enclosing object when records came from a nested field.
	Top fmp.Record
	// Message describes the failure on error.
	Message string
	// Transport is set when the failure happened before a response was read.
	Transport bool
}

// Classify interprets one payload. When nested is set, an object body is
// expected to carry its records under that key.
//
// A body is an error when the client failed, or when it is an object with
// an "error" or "Error Message" key. Anything else without records is empty.
func Classify(p fmp.Payload, nested string) Classified {
	if p.Err != nil {
		msg := p.Err.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return Classified{Outcome: OutcomeError, Message: msg, Transport: p.Err.Transport()}
	}

	switch body := p.Data.(type) {
	case nil:
		return Classified{Outcome: OutcomeEmpty}
	case map[string]any:
		if msg, ok := providerError(body); ok {
			return Classified{Outcome: OutcomeError, Message: msg}
		}
		if nested == "" {
			return Classified{Outcome: OutcomeEmpty}
		}
		records, _ := fmp.Records(body[nested])
		if len(records) == 0 {
			return Classified{Outcome: OutcomeEmpty}
		}
		return Classified{Outcome: OutcomeSuccess, Records: records, Top: fmp.Record(body)}
	default:
		records, ok := fmp.Records(body)
		if !ok || len(records) == 0 {
			return Classified{Outcome: OutcomeEmpty}
		}
		return Classified{Outcome: OutcomeSuccess, Records: records}
	}
}

func providerError(body map[string]any) (string, bool) {
	if _, ok := body["error"]; ok {
		if msg, ok := body["message"].(string); ok && msg != "" {
			return msg, true
		}
		return "Unknown error", true
	}
	if msg, ok := body["Error Message"].(string); ok {
		return msg, true
	}
	return "", false
}

// Expectation names what a tool was doing, for its error and empty texts.
type Expectation struct {
	// Doing completes "Error <Doing>: <message>", e.g. "fetching quote for AAPL".
	Doing string
	// Empty is the full message for a response without data.
	Empty string
	// Nested is the object key holding the records, when the body is an object.
	Nested string
}

// Records classifies p and returns its records, or a *Failure.
func (e Expectation) Records(p fmp.Payload) ([]fmp.Record, error) {
	c := Classify(p, e.Nested)
	switch c.Outcome {
	case OutcomeError:
		kind := KindProvider
		if c.Transport {
			kind = KindTransport
		}
		return nil, &Failure{Kind: kind, Message: "Error " + e.Doing + ": " + c.Message}
	case OutcomeEmpty:
		return nil, &Failure{Kind: KindEmpty, Message: e.Empty}
	}
	return c.Records, nil
}

// First returns the first record of a successful payload.
func (e Expectation) First(p fmp.Payload) (fmp.Record, error) {
	records, err := e.Records(p)
	if err != nil {
		return nil, err
	}
	return records[0], nil
}
