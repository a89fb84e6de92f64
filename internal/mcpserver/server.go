// Package mcpserver exposes the tool registry, resource catalog and prompt
// catalog over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dayuer/fmp-mcp-go/internal/prompts"
	"github.com/dayuer/fmp-mcp-go/internal/resources"
	"github.com/dayuer/fmp-mcp-go/internal/tools"
)

// Name is the server name announced during initialization.
const Name = "FMP Financial Data"

// Config lists what the server publishes. Nil catalogs are skipped.
type Config struct {
	Version   string
	Tools     *tools.Registry
	Resources *resources.Catalog
	Prompts   *prompts.Catalog
}

// New builds an MCP server with every tool, resource and prompt registered.
func New(cfg Config) (*server.MCPServer, error) {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(Name, version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	)

	if cfg.Tools != nil {
		for _, t := range cfg.Tools.All() {
			schema, err := json.Marshal(t.Parameters())
			if err != nil {
				return nil, fmt.Errorf("schema for %s: %w", t.Name(), err)
			}
			s.AddTool(mcp.NewToolWithRawSchema(t.Name(), t.Description(), schema), toolHandler(t))
		}
	}

	if cfg.Resources != nil {
		read := resourceHandler(cfg.Resources)
		for _, r := range cfg.Resources.All() {
			if r.Static() {
				s.AddResource(mcp.NewResource(r.Template, r.Name,
					mcp.WithResourceDescription(r.Description),
					mcp.WithMIMEType(resources.MIMEType),
				), read)
				continue
			}
			s.AddResourceTemplate(mcp.NewResourceTemplate(r.Template, r.Name,
				mcp.WithTemplateDescription(r.Description),
				mcp.WithTemplateMIMEType(resources.MIMEType),
			), read)
		}
	}

	if cfg.Prompts != nil {
		for _, p := range cfg.Prompts.All() {
			opts := []mcp.PromptOption{mcp.WithPromptDescription(p.Description)}
			for _, a := range p.Arguments {
				argOpts := []mcp.ArgumentOption{mcp.ArgumentDescription(a.Description)}
				if a.Required {
					argOpts = append(argOpts, mcp.RequiredArgument())
				}
				opts = append(opts, mcp.WithArgument(a.Name, argOpts...))
			}
			s.AddPrompt(mcp.NewPrompt(p.Name, opts...), promptHandler(p))
		}
	}

	return s, nil
}

func toolHandler(t tools.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := t.Execute(ctx, request.GetArguments())
		if err != nil {
			log.Printf("[MCP] ⚠️ %s failed: %v", t.Name(), err)
			return errorResult(err.Error()), nil
		}
		return textResult(text), nil
	}
}

// resourceHandler serves both static resources and templates, so it keeps
// an unnamed func type assignable to either handler type.
func resourceHandler(c *resources.Catalog) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		uri := request.Params.URI
		body, err := c.Read(ctx, uri)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: uri, MIMEType: resources.MIMEType, Text: body},
		}, nil
	}
}

func promptHandler(p *prompts.Prompt) server.PromptHandlerFunc {
	return func(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		text, err := p.Render(request.Params.Arguments)
		if err != nil {
			return nil, err
		}
		return mcp.NewGetPromptResult(p.Description, []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		}), nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// ServeStdio runs the server over stdin/stdout until the input closes.
func ServeStdio(s *server.MCPServer) error {
	log.Println("[MCP] ✅ Serving over stdio")
	return server.ServeStdio(s)
}

// SSEHandler serves the SSE transport at /sse with messages posted to
// /message.
func SSEHandler(s *server.MCPServer) http.Handler {
	return server.NewSSEServer(s)
}

// StreamableHandler serves the streamable HTTP transport. In stateless
// mode no session id is issued or required.
func StreamableHandler(s *server.MCPServer, stateless bool) http.Handler {
	return server.NewStreamableHTTPServer(s, server.WithStateLess(stateless))
}
