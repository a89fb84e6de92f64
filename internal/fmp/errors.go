package fmp

import "fmt"

// ErrorKind tags how a provider call failed.
type ErrorKind int

const (
	// KindHTTP means the provider answered with a non-2xx status.
	KindHTTP ErrorKind = iota + 1
	// KindRequest means the provider could not be reached (DNS, refused, timeout, cancel).
	KindRequest
	// KindUnknown covers everything else, e.g. a body that is not JSON.
	KindUnknown
)

// Error is the structured failure carried by a Payload.
type Error struct {
	Kind    ErrorKind
	Status  int // HTTP status, only for KindHTTP
	Message string
}

// Title is the short error label: "HTTP error: <code>", "Request error" or "Unknown error".
func (e *Error) Title() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("HTTP error: %d", e.Status)
	case KindRequest:
		return "Request error"
	default:
		return "Unknown error"
	}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Title()
	}
	return e.Title() + ": " + e.Message
}

// Map returns the error mapping form {"error": title, "message": details}.
func (e *Error) Map() map[string]any {
	return map[string]any{
		"error":   e.Title(),
		"message": e.Message,
	}
}

// Transport reports whether the provider was never reached.
func (e *Error) Transport() bool {
	return e.Kind == KindRequest
}
