package fmp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RequestShape(t *testing.T) {
	var calls atomic.Int32
	var gotPath string
	var gotQuery map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`[{"symbol":"AAPL","price":190.5}]`))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL + "/stable", APIKey: "test_key"})
	p := c.Fetch(context.Background(), "quote", Params{"symbol": "AAPL"})

	require.Nil(t, p.Err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "/stable/quote", gotPath)
	assert.Equal(t, []string{"AAPL"}, gotQuery["symbol"])
	assert.Equal(t, []string{"test_key"}, gotQuery["apikey"])

	records, ok := Records(p.Data)
	require.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, "AAPL", records[0].String("symbol"))
	assert.Equal(t, json.Number("190.5"), records[0]["price"])
}

func TestClient_DemoKeyFallback(t *testing.T) {
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.URL.Query().Get("apikey")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	NewClient(Options{BaseURL: srv.URL}).Fetch(context.Background(), "profile", nil)
	assert.Equal(t, DemoAPIKey, key)
}

func TestClient_WithAPIKey(t *testing.T) {
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.URL.Query().Get("apikey")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	base := NewClient(Options{BaseURL: srv.URL, APIKey: "tenant-a"})
	other := base.WithAPIKey("tenant-b")

	other.Fetch(context.Background(), "quote", Params{"symbol": "MSFT"})
	assert.Equal(t, "tenant-b", key)

	base.Fetch(context.Background(), "quote", Params{"symbol": "MSFT"})
	assert.Equal(t, "tenant-a", key)
}

func TestClient_ParamFormatting(t *testing.T) {
	var q map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	NewClient(Options{BaseURL: srv.URL}).Fetch(context.Background(), "income-statement", Params{
		"symbol": "^GSPC",
		"limit":  10,
		"ratio":  0.5,
	})
	assert.Equal(t, "^GSPC", q["symbol"][0])
	assert.Equal(t, "10", q["limit"][0])
	assert.Equal(t, "0.5", q["ratio"][0])
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewClient(Options{BaseURL: srv.URL}).Fetch(context.Background(), "profile", Params{"symbol": "X"})
	require.NotNil(t, p.Err)
	assert.Nil(t, p.Data)
	assert.Equal(t, KindHTTP, p.Err.Kind)
	assert.Equal(t, 404, p.Err.Status)
	assert.Equal(t, "HTTP error: 404", p.Err.Map()["error"])
	assert.Contains(t, p.Err.Message, "Not Found")
}

func TestClient_RequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // connection refused from here on

	p := NewClient(Options{BaseURL: url, APIKey: "secret-key"}).Fetch(context.Background(), "quote", nil)
	require.NotNil(t, p.Err)
	assert.Equal(t, KindRequest, p.Err.Kind)
	assert.Equal(t, "Request error", p.Err.Map()["error"])
	assert.True(t, p.Err.Transport())
	assert.NotContains(t, p.Err.Message, "secret-key")
}

func TestClient_TruncatedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		w.Write([]byte(`[{"symbol"`))
	}))
	defer srv.Close()

	p := NewClient(Options{BaseURL: srv.URL}).Fetch(context.Background(), "quote", nil)
	require.NotNil(t, p.Err)
	assert.Equal(t, KindRequest, p.Err.Kind)
	assert.Equal(t, "Request error", p.Err.Title())
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	p := c.Fetch(context.Background(), "quote", nil)
	require.NotNil(t, p.Err)
	assert.Equal(t, "Request error", p.Err.Title())
}

func TestClient_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	p := NewClient(Options{BaseURL: srv.URL}).Fetch(context.Background(), "quote", nil)
	require.NotNil(t, p.Err)
	assert.Equal(t, "Unknown error", p.Err.Title())
	assert.True(t, strings.HasPrefix(p.Err.Message, "invalid JSON response"))
}

func TestClient_ObjectBodyVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"AAPL","historical":[{"date":"2024-01-02","close":185.64}]}`))
	}))
	defer srv.Close()

	p := NewClient(Options{BaseURL: srv.URL}).Fetch(context.Background(), "historical-price-eod/full", Params{"symbol": "AAPL"})
	require.Nil(t, p.Err)
	obj, ok := p.Data.(map[string]any)
	require.True(t, ok)
	nested, ok := Records(obj["historical"])
	require.True(t, ok)
	assert.Equal(t, "2024-01-02", nested[0].String("date"))
}

func TestRecord_Accessors(t *testing.T) {
	r := Record{
		"price":   json.Number("12.5"),
		"volume":  1200,
		"name":    "Gold",
		"missing": nil,
		"open":    true,
		"info":    map[string]any{"etfName": "SPY"},
	}

	f, ok := r.Float("price")
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	f, ok = r.Float("volume")
	assert.True(t, ok)
	assert.Equal(t, 1200.0, f)

	_, ok = r.Float("name")
	assert.False(t, ok)

	assert.False(t, r.Has("missing"))
	assert.Equal(t, "", r.String("missing"))
	assert.Equal(t, "1200", r.String("volume"))
	assert.True(t, r.Bool("open"))

	info, ok := r.Object("info")
	require.True(t, ok)
	assert.Equal(t, "SPY", info.String("etfName"))
}

func TestRecords_NotAList(t *testing.T) {
	_, ok := Records(map[string]any{"error": "x"})
	assert.False(t, ok)

	list, ok := Records([]any{map[string]any{"a": 1}, "stray"})
	assert.True(t, ok)
	assert.Len(t, list, 1)
}
