// Package gateway is the HTTP front of the FMP MCP server: the MCP network
// transports, a health probe, a small JSON API over the tool registry and a
// WebSocket channel for tool calls.
package gateway

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dayuer/fmp-mcp-go/internal/tools"
)

// ServiceName is reported by /health.
const ServiceName = "fmp-mcp-server"

// Config configures the gateway Server.
type Config struct {
	Host string
	Port int
	// Key guards /api/* and /ws with a bearer token when set.
	Key   string
	Tools *tools.Registry
	// Mounts maps URL paths to MCP transport handlers, e.g. "/mcp".
	Mounts map[string]http.Handler
	// HeartbeatInterval defaults to 10 seconds.
	HeartbeatInterval time.Duration
}

// Server is the gateway HTTP server.
type Server struct {
	addr      string
	key       string
	tools     *tools.Registry
	heartbeat time.Duration
	startTime time.Time
	stats     *callStats
	hub       *wsHub

	router chi.Router
	srv    *http.Server
}

// New creates the gateway and registers its routes.
func New(cfg Config) *Server {
	if cfg.Tools == nil {
		cfg.Tools = tools.NewRegistry()
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = 10 * time.Second
	}
	s := &Server{
		addr:      net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		key:       cfg.Key,
		tools:     cfg.Tools,
		heartbeat: cfg.HeartbeatInterval,
		startTime: time.Now(),
		stats:     newCallStats(),
		hub:       newWSHub(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.With(s.withAuth).Get("/ws", s.handleWS)
	r.Route("/api", func(r chi.Router) {
		r.Use(s.withAuth)
		r.Get("/status", s.handleStatus)
		r.Get("/tools", s.handleListTools)
		r.Post("/tools/{name}", s.handleCallTool)
	})
	for path, h := range cfg.Mounts {
		r.Handle(path, h)
		r.Handle(strings.TrimSuffix(path, "/")+"/*", h)
	}

	s.router = r
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Addr is the listen address.
func (s *Server) Addr() string { return s.addr }

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("[Gateway] ✅ HTTP API → http://%s", s.addr)
	log.Printf("[Gateway] ✅ WebSocket → ws://%s/ws", s.addr)

	go s.heartbeatLoop(ctx)

	go func() {
		<-ctx.Done()
		s.hub.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[Gateway] ⚠️ Shutdown: %v", err)
		}
	}()

	if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.key != "" && !s.authorized(r) {
			writeJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authorized accepts "Authorization: Bearer <key>", or ?token=<key> for
// WebSocket clients that cannot set headers.
func (s *Server) authorized(r *http.Request) bool {
	if keyMatches(r.Header.Get("Authorization"), "Bearer "+s.key) {
		return true
	}
	return r.URL.Path == "/ws" && keyMatches(r.URL.Query().Get("token"), s.key)
}

// keyMatches compares in constant time for equal-length inputs.
func keyMatches(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{"status": "healthy", "service": ServiceName})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	status := s.stats.load()
	status["service"] = ServiceName
	status["uptime"] = int(time.Since(s.startTime).Seconds())
	status["toolCount"] = s.tools.Len()
	status["wsConnections"] = s.hub.count()
	writeJSON(w, status)
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"tools": s.tools.Schemas(),
		"total": s.tools.Len(),
	})
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	args, err := decodeArgs(r.Body)
	if err != nil {
		writeJSONError(w, "invalid JSON arguments", http.StatusBadRequest)
		return
	}

	content, err := s.callTool(r.Context(), name, args)
	switch {
	case errors.Is(err, errUnknownTool):
		writeJSONError(w, err.Error(), http.StatusNotFound)
	case err != nil:
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
	default:
		writeJSON(w, map[string]any{"tool": name, "content": content})
	}
}

var errUnknownTool = errors.New("unknown tool")

// callTool runs one registry tool and records it in the load stats.
func (s *Server) callTool(ctx context.Context, name string, args map[string]any) (string, error) {
	t := s.tools.Get(name)
	if t == nil {
		return "", fmt.Errorf("%w: %s", errUnknownTool, name)
	}
	done := s.stats.begin()
	content, err := t.Execute(ctx, args)
	done(err == nil)
	if err != nil {
		log.Printf("[Gateway] ⚠️ %s failed: %v", name, err)
	}
	return content, err
}

// decodeArgs reads a JSON object body; an empty body means no arguments.
// Numbers stay json.Number so integer arguments keep their form.
func decodeArgs(body io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()
	var args map[string]any
	if err := dec.Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Gateway] ⚠️ Encode response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg}) //nolint:errcheck
}
