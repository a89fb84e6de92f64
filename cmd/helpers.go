package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dayuer/fmp-mcp-go/internal/config"
	"github.com/dayuer/fmp-mcp-go/internal/fmp"
	"github.com/dayuer/fmp-mcp-go/internal/tools"
)

// loadConfig resolves the config file, .env and environment.
func loadConfig() (config.Config, error) {
	return config.Resolve(configPath)
}

// makeClient creates the provider client from the loaded config.
func makeClient(cfg config.Config) *fmp.Client {
	return fmp.NewClient(fmp.Options{
		BaseURL: cfg.FMP.BaseURL,
		APIKey:  cfg.FMP.APIKey,
		Timeout: cfg.FMP.Timeout.Std(),
	})
}

// makeRegistry registers the full tool catalog against client.
func makeRegistry(client fmp.Fetcher) *tools.Registry {
	reg := tools.NewRegistry()
	tools.RegisterAll(reg, tools.Kit{Client: client})
	return reg
}

func keyStatus(cfg config.Config) string {
	if cfg.APIKeyConfigured() {
		return "Yes"
	}
	return "No - using demo mode"
}

// parseArgs turns key=value pairs into tool arguments. Integers and
// booleans are converted; everything else stays a string.
func parseArgs(pairs []string) (map[string]any, error) {
	args := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid argument %q, want key=value", p)
		}
		if i, err := strconv.Atoi(v); err == nil {
			args[k] = i
		} else if b, err := strconv.ParseBool(v); err == nil && (v == "true" || v == "false") {
			args[k] = b
		} else {
			args[k] = v
		}
	}
	return args, nil
}

// requiredParams lists a tool's required parameters, for usage output.
func requiredParams(t tools.Tool) []string {
	var out []string
	switch req := t.Parameters()["required"].(type) {
	case []string:
		out = append(out, req...)
	case []any:
		for _, r := range req {
			out = append(out, fmt.Sprint(r))
		}
	}
	sort.Strings(out)
	return out
}
