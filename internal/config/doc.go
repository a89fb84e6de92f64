// Package config handles configuration loading, saving, and schema definition.
package config

import "time"

// Config is the top-level fmpmcp configuration.
// Uses json tags in camelCase to match the JSON config file format.
type Config struct {
	FMP    FMPConfig    `json:"fmp"`
	Server ServerConfig `json:"server"`
}

// FMPConfig holds Financial Modeling Prep API settings.
type FMPConfig struct {
	APIKey  string   `json:"apiKey,omitempty"`
	BaseURL string   `json:"baseUrl,omitempty"`
	Timeout Duration `json:"timeout,omitempty"`
}

// ServerConfig holds MCP server and gateway settings.
type ServerConfig struct {
	Transport  string `json:"transport,omitempty"` // stdio, sse or http
	Host       string `json:"host,omitempty"`
	Port       int    `json:"port,omitempty"`
	Stateless  bool   `json:"stateless,omitempty"`  // streamable HTTP without sessions
	GatewayKey string `json:"gatewayKey,omitempty"` // bearer key for /api and /ws
}

// Duration is a time.Duration that reads "30s" style strings or seconds.
type Duration time.Duration

// DemoAPIKey is the provider's public, rate-limited key.
const DemoAPIKey = "demo"

// Transports accepted by ServerConfig.Transport.
var Transports = []string{"stdio", "sse", "http"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		FMP: FMPConfig{
			APIKey:  DemoAPIKey,
			BaseURL: "https://financialmodelingprep.com/stable",
			Timeout: Duration(30 * time.Second),
		},
		Server: ServerConfig{
			Transport: "stdio",
			Host:      "0.0.0.0",
			Port:      8000,
		},
	}
}

// APIKeyConfigured reports whether a real (non-demo) key is set.
func (c Config) APIKeyConfigured() bool {
	return c.FMP.APIKey != "" && c.FMP.APIKey != DemoAPIKey
}
