package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dayuer/fmp-mcp-go/internal/config"
)

var initAPIKey string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default fmpmcp configuration file",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initAPIKey, "api-key", "", "FMP API key to store (default: demo)")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	out := cmd.OutOrStdout()

	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "Config already exists at %s\n", path)
		return nil
	}

	cfg := config.DefaultConfig()
	if initAPIKey != "" {
		cfg.FMP.APIKey = initAPIKey
	}
	if err := config.Save(cfg, path); err != nil {
		return fmt.Errorf("creating config: %w", err)
	}
	fmt.Fprintf(out, "✓ Created config at %s\n", path)
	if !cfg.APIKeyConfigured() {
		fmt.Fprintf(out, "  No API key stored; set %s or edit fmp.apiKey to leave demo mode.\n", config.EnvAPIKey)
	}
	return nil
}
