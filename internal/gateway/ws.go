package gateway

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsReadTimeout = 60 * time.Second
	// wsMaxInFlight caps concurrent tool calls per connection.
	wsMaxInFlight = 8
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn serializes writes; gorilla/websocket allows one concurrent writer.
type wsConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteJSON(v)
}

func (c *wsConn) writePing() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
}

func (c *wsConn) writeClose(code int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, text))
}

// wsHub tracks live connections.
type wsHub struct {
	mu    sync.Mutex
	conns map[*wsConn]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{conns: make(map[*wsConn]struct{})}
}

func (h *wsHub) add(c *wsConn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

func (h *wsHub) remove(c *wsConn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

func (h *wsHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *wsHub) snapshot() []*wsConn {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*wsConn, 0, len(h.conns))
	for c := range h.conns {
		out = append(out, c)
	}
	return out
}

func (h *wsHub) closeAll() {
	for _, c := range h.snapshot() {
		c.writeClose(websocket.CloseGoingAway, "server shutdown") //nolint:errcheck
		c.Close()
		h.remove(c)
	}
}

// wsMessage is the envelope for every frame in both directions.
type wsMessage struct {
	Type    string         `json:"type"`
	ID      string         `json:"id,omitempty"`
	Tool    string         `json:"tool,omitempty"`
	Args    map[string]any `json:"args,omitempty"`
	Content string         `json:"content,omitempty"`
	Error   string         `json:"error,omitempty"`
	Load    map[string]any `json:"load,omitempty"`
}

// handleWS runs tool calls over a WebSocket.
//
// Protocol:
//
//	client → server: {"type": "call", "id": "1", "tool": "get_quote", "args": {...}}
//	server → client: {"type": "result", "id": "1", "tool": "get_quote", "content": "..."}
//	server → client: {"type": "error", "id": "1", "error": "..."}
//	client → server: {"type": "ping"} → {"type": "pong", "load": {...}}
//	server → client: {"type": "heartbeat", "load": {...}} with a ping frame
//
// Calls run concurrently; results may arrive out of order and carry the
// call's id.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	raw, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] ⚠️ Upgrade failed: %v", err)
		return
	}

	conn := &wsConn{Conn: raw}
	peer := r.RemoteAddr
	log.Printf("[WS] 🔗 Connected: %s ✅", peer)
	s.hub.add(conn)

	ctx, cancel := context.WithCancel(context.Background())
	var calls sync.WaitGroup
	inFlight := make(chan struct{}, wsMaxInFlight)
	defer func() {
		cancel()
		calls.Wait()
		raw.Close()
		s.hub.remove(conn)
		log.Printf("[WS] 🔌 Disconnected: %s", peer)
	}()

	raw.SetReadDeadline(time.Now().Add(wsReadTimeout)) //nolint:errcheck
	raw.SetPongHandler(func(string) error {
		return raw.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	for {
		_, data, err := raw.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] ⚠️ Error: %v", err)
			}
			return
		}
		raw.SetReadDeadline(time.Now().Add(wsReadTimeout)) //nolint:errcheck

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			conn.writeJSON(wsMessage{Type: "error", Error: "invalid JSON"}) //nolint:errcheck
			continue
		}

		switch msg.Type {
		case "ping":
			conn.writeJSON(wsMessage{Type: "pong", Load: s.stats.load()}) //nolint:errcheck

		case "call":
			if msg.Tool == "" {
				conn.writeJSON(wsMessage{Type: "error", ID: msg.ID, Error: "tool is required"}) //nolint:errcheck
				continue
			}
			select {
			case inFlight <- struct{}{}:
			default:
				conn.writeJSON(wsMessage{Type: "error", ID: msg.ID, Tool: msg.Tool, Error: "too many calls in flight"}) //nolint:errcheck
				continue
			}
			calls.Add(1)
			go func(msg wsMessage) {
				defer calls.Done()
				content, err := s.callTool(ctx, msg.Tool, msg.Args)
				<-inFlight
				reply := wsMessage{Type: "result", ID: msg.ID, Tool: msg.Tool, Content: content}
				if err != nil {
					reply = wsMessage{Type: "error", ID: msg.ID, Tool: msg.Tool, Error: err.Error()}
				}
				if err := conn.writeJSON(reply); err != nil {
					log.Printf("[WS] ⚠️ Reply to %s: %v", peer, err)
				}
			}(msg)

		default:
			conn.writeJSON(wsMessage{Type: "error", ID: msg.ID, Error: "unknown message type: " + msg.Type}) //nolint:errcheck
		}
	}
}

// heartbeatLoop pings every connection on each tick.
func (s *Server) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcastHeartbeat()
		}
	}
}

// broadcastHeartbeat sends a ping frame and a JSON heartbeat to every
// connection, dropping those that fail.
func (s *Server) broadcastHeartbeat() {
	conns := s.hub.snapshot()
	if len(conns) == 0 {
		return
	}
	beat := wsMessage{Type: "heartbeat", Load: s.stats.load()}
	for _, c := range conns {
		if err := c.writePing(); err != nil {
			s.hub.remove(c)
			c.Close()
			continue
		}
		if err := c.writeJSON(beat); err != nil {
			s.hub.remove(c)
			c.Close()
		}
	}
}
