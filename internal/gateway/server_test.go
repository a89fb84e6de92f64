package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayuer/fmp-mcp-go/internal/tools"
)

// echoTool returns its "symbol" argument, or fails when asked to.
type echoTool struct{}

func (echoTool) Name() string               { return "echo" }
func (echoTool) Description() string        { return "Echo the symbol" }
func (echoTool) Parameters() map[string]any { return map[string]any{"type": "object"} }
func (echoTool) Execute(_ context.Context, args map[string]any) (string, error) {
	if args["fail"] == true {
		return "", errors.New("boom")
	}
	return fmt.Sprintf("symbol=%v", args["symbol"]), nil
}

func newTestServer(key string) *Server {
	reg := tools.NewRegistry()
	reg.Register(echoTool{})
	return New(Config{
		Key:   key,
		Tools: reg,
		Mounts: map[string]http.Handler{
			"/mcp": http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "mcp "+r.URL.Path)
			}),
		},
	})
}

func serve(s *Server, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestHandleHealth(t *testing.T) {
	w := serve(newTestServer("secret"), "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"status": "healthy", "service": "fmp-mcp-server"}, decode(t, w))
}

func TestHandleStatus_NoAuth(t *testing.T) {
	w := serve(newTestServer("secret"), "GET", "/api/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", decode(t, w)["error"])
}

func TestHandleStatus_WithAuth(t *testing.T) {
	s := newTestServer("secret")
	auth := map[string]string{"Authorization": "Bearer secret"}
	serve(s, "POST", "/api/tools/echo", `{"symbol": "AAPL"}`, auth)

	w := serve(s, "GET", "/api/status", "", auth)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["totalRequests"])
	assert.Equal(t, float64(0), body["activeRequests"])
	assert.Equal(t, float64(1), body["toolCount"])
	assert.Equal(t, float64(0), body["wsConnections"])
}

func TestHandleListTools(t *testing.T) {
	w := serve(newTestServer(""), "GET", "/api/tools", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["total"])
	list := body["tools"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "echo", list[0].(map[string]any)["name"])
}

func TestHandleCallTool(t *testing.T) {
	s := newTestServer("")

	w := serve(s, "POST", "/api/tools/echo", `{"symbol": "MSFT"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"tool": "echo", "content": "symbol=MSFT"}, decode(t, w))

	w = serve(s, "POST", "/api/tools/echo", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "symbol=<nil>", decode(t, w)["content"])
}

func TestHandleCallTool_Errors(t *testing.T) {
	s := newTestServer("")

	w := serve(s, "POST", "/api/tools/nope", `{}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "unknown tool: nope", decode(t, w)["error"])

	w = serve(s, "POST", "/api/tools/echo", `{bad`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(s, "POST", "/api/tools/echo", `{"fail": true}`, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "boom", decode(t, w)["error"])

	w = serve(s, "GET", "/api/tools/echo", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestMounts(t *testing.T) {
	s := newTestServer("secret")
	w := serve(s, "POST", "/mcp", "", nil)
	assert.Equal(t, "mcp /mcp", w.Body.String())
	w = serve(s, "GET", "/mcp/", "", nil)
	assert.Equal(t, "mcp /mcp/", w.Body.String())
}

func dialWS(t *testing.T, s *Server, query string) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws"+query, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second)) //nolint:errcheck
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWS_Call(t *testing.T) {
	conn := dialWS(t, newTestServer(""), "")

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "call", "id": "7", "tool": "echo", "args": map[string]any{"symbol": "NVDA"}}))
	msg := readMsg(t, conn)
	assert.Equal(t, "result", msg.Type)
	assert.Equal(t, "7", msg.ID)
	assert.Equal(t, "symbol=NVDA", msg.Content)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "call", "id": "8", "tool": "missing"}))
	msg = readMsg(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "8", msg.ID)
	assert.Equal(t, "unknown tool: missing", msg.Error)
}

func TestWS_PingPong(t *testing.T) {
	conn := dialWS(t, newTestServer(""), "")

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ping"}))
	msg := readMsg(t, conn)
	assert.Equal(t, "pong", msg.Type)
	assert.Contains(t, msg.Load, "activeRequests")
	assert.Contains(t, msg.Load, "avgLatencyMs")
}

func TestWS_BadFrames(t *testing.T) {
	conn := dialWS(t, newTestServer(""), "")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	assert.Equal(t, "invalid JSON", readMsg(t, conn).Error)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "subscribe", "id": "1"}))
	assert.Equal(t, "unknown message type: subscribe", readMsg(t, conn).Error)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "call", "id": "2"}))
	assert.Equal(t, "tool is required", readMsg(t, conn).Error)
}

func TestWS_Auth(t *testing.T) {
	s := newTestServer("secret")
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn := dialWS(t, s, "?token=secret")
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ping"}))
	assert.Equal(t, "pong", readMsg(t, conn).Type)
}

func TestAuthorized(t *testing.T) {
	s := newTestServer("secret")
	req := func(path, header string) *http.Request {
		r := httptest.NewRequest("GET", path, nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		return r
	}

	assert.True(t, s.authorized(req("/api/status", "Bearer secret")))
	assert.False(t, s.authorized(req("/api/status", "Bearer secreT")))
	assert.False(t, s.authorized(req("/api/status", "Bearer secret2")))
	assert.False(t, s.authorized(req("/api/status", "secret")))
	assert.True(t, s.authorized(req("/ws?token=secret", "")))
	assert.False(t, s.authorized(req("/ws?token=secreX", "")))
	assert.False(t, s.authorized(req("/ws?token=", "")))
	assert.False(t, s.authorized(req("/api/status?token=secret", "")))
}

// blockTool holds each call until release is closed.
type blockTool struct{ release chan struct{} }

func (blockTool) Name() string               { return "block" }
func (blockTool) Description() string        { return "Wait for release" }
func (blockTool) Parameters() map[string]any { return map[string]any{"type": "object"} }
func (b blockTool) Execute(ctx context.Context, _ map[string]any) (string, error) {
	select {
	case <-b.release:
		return "released", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestWS_InFlightLimit(t *testing.T) {
	release := make(chan struct{})
	reg := tools.NewRegistry()
	reg.Register(blockTool{release: release})
	conn := dialWS(t, New(Config{Tools: reg}), "")

	for i := 0; i < wsMaxInFlight; i++ {
		require.NoError(t, conn.WriteJSON(map[string]any{"type": "call", "id": fmt.Sprint(i), "tool": "block"}))
	}
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "call", "id": "over", "tool": "block"}))

	msg := readMsg(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "over", msg.ID)
	assert.Equal(t, "too many calls in flight", msg.Error)

	close(release)
	for i := 0; i < wsMaxInFlight; i++ {
		msg := readMsg(t, conn)
		assert.Equal(t, "result", msg.Type)
		assert.Equal(t, "released", msg.Content)
	}

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "call", "id": "again", "tool": "block"}))
	msg = readMsg(t, conn)
	assert.Equal(t, "again", msg.ID)
	assert.Equal(t, "released", msg.Content)
}

func TestWS_Heartbeat(t *testing.T) {
	s := newTestServer("")
	conn := dialWS(t, s, "")
	require.Eventually(t, func() bool { return s.hub.count() == 1 }, time.Second, 10*time.Millisecond)

	s.broadcastHeartbeat()
	msg := readMsg(t, conn)
	assert.Equal(t, "heartbeat", msg.Type)
	assert.Contains(t, msg.Load, "totalRequests")
}

func TestLatencyWindow(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	w := newLatencyWindow(time.Minute)
	w.now = func() time.Time { return now }

	w.Record(100 * time.Millisecond)
	now = now.Add(30 * time.Second)
	w.Record(300 * time.Millisecond)

	avg, n := w.Avg()
	assert.Equal(t, int64(200), avg)
	assert.Equal(t, int64(2), n)

	now = now.Add(45 * time.Second)
	avg, n = w.Avg()
	assert.Equal(t, int64(300), avg)
	assert.Equal(t, int64(1), n)

	now = now.Add(time.Hour)
	avg, n = w.Avg()
	assert.Zero(t, avg)
	assert.Zero(t, n)
}

func TestLatencyWindow_RecordDropsExpired(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	w := newLatencyWindow(time.Minute)
	w.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		w.Record(time.Millisecond)
		now = now.Add(time.Second)
	}
	assert.LessOrEqual(t, len(w.samples), 61)
	assert.LessOrEqual(t, cap(w.samples), 1000)
}

func TestCallStats(t *testing.T) {
	c := newCallStats()
	done := c.begin()
	assert.Equal(t, int64(1), c.load()["activeRequests"])
	done(false)
	load := c.load()
	assert.Equal(t, int64(0), load["activeRequests"])
	assert.Equal(t, int64(1), load["totalRequests"])
	assert.Equal(t, int64(1), load["failedRequests"])
}
