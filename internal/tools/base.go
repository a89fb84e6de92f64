// Package tools defines the Tool interface and the FMP tool catalog.
package tools

import "context"

// Tool is the interface that all FMP tools implement.
type Tool interface {
	// Name returns the tool name used in MCP tool calls.
	Name() string

	// Description returns what the tool does.
	Description() string

	// Parameters returns the JSON Schema for tool parameters.
	Parameters() map[string]any

	// Execute runs the tool with the given arguments.
	// Expected failures come back as the report text with a nil error.
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// ToSchema converts a tool to the MCP tool listing format.
func ToSchema(t Tool) map[string]any {
	return map[string]any{
		"name":        t.Name(),
		"description": t.Description(),
		"inputSchema": t.Parameters(),
	}
}
