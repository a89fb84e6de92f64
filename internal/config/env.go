package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey     = "FMP_API_KEY"
	EnvBaseURL    = "FMP_BASE_URL"
	EnvTimeout    = "FMP_TIMEOUT"
	EnvHost       = "HOST"
	EnvPort       = "PORT"
	EnvGatewayKey = "FMP_GATEWAY_KEY"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env")
// without overriding variables already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays environment variables onto cfg. Blank values are skipped.
func ApplyEnv(cfg *Config) error {
	if v := env(EnvAPIKey); v != "" {
		cfg.FMP.APIKey = v
	}
	if v := env(EnvBaseURL); v != "" {
		cfg.FMP.BaseURL = strings.TrimRight(v, "/")
	}
	if v := env(EnvTimeout); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.FMP.Timeout = Duration(d)
	}
	if v := env(EnvHost); v != "" {
		cfg.Server.Host = v
	}
	if v := env(EnvPort); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p <= 0 || p > 65535 {
			return fmt.Errorf("%s: invalid port %q", EnvPort, v)
		}
		cfg.Server.Port = p
	}
	if v := env(EnvGatewayKey); v != "" {
		cfg.Server.GatewayKey = v
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// Resolve loads the config file, then .env, then applies the environment.
func Resolve(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if err := LoadDotEnv(); err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
