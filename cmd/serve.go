package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dayuer/fmp-mcp-go/internal/config"
	"github.com/dayuer/fmp-mcp-go/internal/gateway"
	"github.com/dayuer/fmp-mcp-go/internal/mcpserver"
	"github.com/dayuer/fmp-mcp-go/internal/prompts"
	"github.com/dayuer/fmp-mcp-go/internal/resources"
)

var (
	serveTransport  string
	serveSSE        bool
	serveStreamable bool
	serveStateless  bool
	serveHost       string
	servePort       int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio, SSE or streamable HTTP)",
	Long: `Start the FMP MCP server.

  stdio (default)  MCP over stdin/stdout
  sse              GET /sse + POST /message, plus the HTTP gateway
  http             streamable HTTP at /mcp, plus the HTTP gateway

The HTTP transports also serve /health, /api/tools, /api/status and /ws.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveTransport, "transport", "t", "", "Transport: stdio, sse or http (default from config)")
	serveCmd.Flags().BoolVar(&serveSSE, "sse", false, "Shorthand for --transport sse")
	serveCmd.Flags().BoolVar(&serveStreamable, "streamable-http", false, "Shorthand for --transport http")
	serveCmd.Flags().BoolVar(&serveStateless, "stateless", false, "Streamable HTTP without sessions")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (default from config, 0.0.0.0)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (default from config or PORT, 8000)")
}

// resolveTransport merges the transport flags over the configured default.
func resolveTransport(configured, flag string, sse, streamable bool) (string, error) {
	if sse && streamable {
		return "", fmt.Errorf("cannot specify both --sse and --streamable-http")
	}
	t := configured
	switch {
	case sse:
		t = "sse"
	case streamable:
		t = "http"
	case flag != "":
		t = flag
	}
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		t = "stdio"
	}
	if !slices.Contains(config.Transports, t) {
		return "", fmt.Errorf("unknown transport %q (want one of %s)", t, strings.Join(config.Transports, ", "))
	}
	return t, nil
}

func modeDescription(stateless bool) string {
	if stateless {
		return "stateless"
	}
	return "stateful"
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	transport, err := resolveTransport(cfg.Server.Transport, serveTransport, serveSSE, serveStreamable)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if cmd.Flags().Changed("stateless") {
		cfg.Server.Stateless = serveStateless
	}

	client := makeClient(cfg)
	reg := makeRegistry(client)
	catalog, err := prompts.Load()
	if err != nil {
		return err
	}
	srv, err := mcpserver.New(mcpserver.Config{
		Version:   Version,
		Tools:     reg,
		Resources: resources.New(client, nil),
		Prompts:   catalog,
	})
	if err != nil {
		return err
	}

	if transport == "stdio" {
		// stdout carries the protocol; banners go to the log.
		log.Printf("[Serve] FMP MCP Server (stdio), %d tools, API Key configured: %s", reg.Len(), keyStatus(cfg))
		return mcpserver.ServeStdio(srv)
	}

	addr := fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	mounts := map[string]http.Handler{}
	if transport == "sse" {
		sse := mcpserver.SSEHandler(srv)
		mounts["/sse"] = sse
		mounts["/message"] = sse
		fmt.Printf("Starting FMP MCP Server (SSE mode) on %s\n", addr)
	} else {
		mounts["/mcp"] = mcpserver.StreamableHandler(srv, cfg.Server.Stateless)
		fmt.Printf("Starting FMP MCP Server (Streamable HTTP %s mode) on %s\n", modeDescription(cfg.Server.Stateless), addr)
		fmt.Printf("Streamable HTTP endpoint: %s/mcp\n", addr)
	}
	fmt.Printf("API Key configured: %s\n", keyStatus(cfg))
	fmt.Printf("Tools: %d\n", reg.Len())
	fmt.Println("────────────────────────────────────────")

	gw := gateway.New(gateway.Config{
		Host:   cfg.Server.Host,
		Port:   cfg.Server.Port,
		Key:    cfg.Server.GatewayKey,
		Tools:  reg,
		Mounts: mounts,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("[Serve] Shutting down...")
		cancel()
	}()

	return gw.Start(ctx)
}
