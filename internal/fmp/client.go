// Package fmp is the Financial Modeling Prep API client.
//
// A Client issues exactly one GET per call and never fails with a Go error:
// every outcome is a Payload holding either the decoded JSON body or an *Error.
package fmp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the provider's stable API root.
	DefaultBaseURL = "https://financialmodelingprep.com/stable"
	// DemoAPIKey is used when no key is configured; the provider serves a few symbols with it.
	DemoAPIKey = "demo"
	// DefaultTimeout bounds every request.
	DefaultTimeout = 30 * time.Second

	apiKeyParam = "apikey"
)

// Params are the query parameters of one call. Values are scalars.
type Params map[string]any

// Payload is the outcome of one provider call.
type Payload struct {
	// Data is the decoded JSON body: []any, map[string]any or a scalar.
	// Numbers are json.Number.
	Data any
	// Err is set when the call failed; Data is nil then.
	Err *Error
}

// OK wraps a decoded body.
func OK(data any) Payload { return Payload{Data: data} }

// Failed wraps a call failure.
func Failed(err *Error) Payload { return Payload{Err: err} }

// Fetcher performs provider calls. Tools depend on this, not on *Client.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, params Params) Payload
}

// Options configure a Client. They are built once at startup.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is the provider HTTP client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Client. Empty options fall back to the defaults.
func NewClient(opts Options, options ...ClientOption) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.APIKey == "" {
		opts.APIKey = DemoAPIKey
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// WithAPIKey returns a copy of the client that authenticates with key.
func (c *Client) WithAPIKey(key string) *Client {
	cp := *c
	if key != "" {
		cp.apiKey = key
	}
	return &cp
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Fetch issues GET base_url/endpoint?params&apikey=key and decodes the JSON body.
func (c *Client) Fetch(ctx context.Context, endpoint string, params Params) Payload {
	p := c.fetch(ctx, endpoint, params)
	if p.Err != nil {
		log.Printf("[FMP] ⚠️ %s: %s", endpoint, p.Err.Title())
	}
	return p
}

func (c *Client) fetch(ctx context.Context, endpoint string, params Params) Payload {
	u, err := url.Parse(c.baseURL + "/" + strings.TrimLeft(endpoint, "/"))
	if err != nil {
		return Failed(&Error{Kind: KindUnknown, Message: err.Error()})
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, formatParam(v))
	}
	q.Set(apiKeyParam, c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Failed(&Error{Kind: KindUnknown, Message: err.Error()})
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Failed(&Error{Kind: KindRequest, Message: redact(err)})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failed(&Error{Kind: KindRequest, Message: err.Error()})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := resp.Status
		if detail := strings.TrimSpace(string(body)); detail != "" {
			msg += ": " + detail[:min(len(detail), 300)]
		}
		return Failed(&Error{Kind: KindHTTP, Status: resp.StatusCode, Message: msg})
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return Failed(&Error{Kind: KindUnknown, Message: "invalid JSON response: " + err.Error()})
	}
	return OK(data)
}

// redact drops the request URL (which carries the API key) from transport errors.
func redact(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		if uerr.Timeout() {
			return "request timed out: " + uerr.Err.Error()
		}
		return uerr.Err.Error()
	}
	return err.Error()
}
