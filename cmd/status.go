package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dayuer/fmp-mcp-go/internal/config"
	"github.com/dayuer/fmp-mcp-go/internal/prompts"
	"github.com/dayuer/fmp-mcp-go/internal/resources"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show fmpmcp configuration and catalog sizes",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "📈 fmpmcp Status")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Config: %s\n", path)
	fmt.Fprintf(out, "API Base: %s\n", makeClient(cfg).BaseURL())
	fmt.Fprintf(out, "API Key configured: %s\n", keyStatus(cfg))
	fmt.Fprintf(out, "Timeout: %s\n", cfg.FMP.Timeout.Std())
	fmt.Fprintf(out, "Transport: %s (%s:%d)\n", cfg.Server.Transport, cfg.Server.Host, cfg.Server.Port)
	if cfg.Server.GatewayKey != "" {
		fmt.Fprintln(out, "Gateway auth: ✓")
	}

	fmt.Fprintln(out, "\nCatalog:")
	fmt.Fprintf(out, "  Tools: %d\n", makeRegistry(nil).Len())
	fmt.Fprintf(out, "  Resources: %d\n", len(resources.New(nil, nil).All()))
	if c, err := prompts.Load(); err == nil {
		fmt.Fprintf(out, "  Prompts: %d\n", len(c.All()))
	}
	return nil
}
