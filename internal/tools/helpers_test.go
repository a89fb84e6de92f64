package tools

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
)

type fakeCall struct {
	endpoint string
	params   fmp.Params
}

// fakeFetcher serves canned payloads per endpoint and records every call.
// Endpoints without a payload get fallback (an empty body by default).
type fakeFetcher struct {
	mu       sync.Mutex
	payloads map[string]fmp.Payload
	fallback fmp.Payload
	calls    []fakeCall
}

func newFake() *fakeFetcher {
	return &fakeFetcher{payloads: make(map[string]fmp.Payload)}
}

// on serves the JSON body for endpoint.
func (f *fakeFetcher) on(endpoint, body string) *fakeFetcher {
	f.payloads[endpoint] = fmp.OK(decodeJSON(body))
	return f
}

// always serves the JSON body for every endpoint.
func (f *fakeFetcher) always(body string) *fakeFetcher {
	f.fallback = fmp.OK(decodeJSON(body))
	return f
}

func (f *fakeFetcher) Fetch(_ context.Context, endpoint string, params fmp.Params) fmp.Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{endpoint: endpoint, params: params})
	if p, ok := f.payloads[endpoint]; ok {
		return p
	}
	return f.fallback
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) lastCall() fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return fakeCall{}
	}
	return f.calls[len(f.calls)-1]
}

// decodeJSON decodes the way the FMP client does, keeping numbers exact.
func decodeJSON(body string) any {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		panic(err)
	}
	return v
}

var fixedNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func testKit(f fmp.Fetcher) Kit {
	return Kit{Client: f, Now: func() time.Time { return fixedNow }}
}

// callTool runs one registered tool and fails the test on a non-nil error.
func callTool(t *testing.T, f fmp.Fetcher, name string, args map[string]any) string {
	t.Helper()
	reg := NewRegistry()
	RegisterAll(reg, testKit(f))
	tool := reg.Get(name)
	require.NotNil(t, tool, "tool %s not registered", name)
	out, err := tool.Execute(context.Background(), args)
	require.NoError(t, err)
	return out
}

// requiredArgs fills every required parameter of tool with a plausible value.
func requiredArgs(tool Tool) map[string]any {
	args := map[string]any{}
	required, _ := tool.Parameters()["required"].([]string)
	for _, name := range required {
		switch name {
		case "symbol":
			args[name] = "AAPL"
		case "query":
			args[name] = "apple"
		case "id":
			args[name] = "stock-AAPL"
		default:
			args[name] = "x"
		}
	}
	return args
}
