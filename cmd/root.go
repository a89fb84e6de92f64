package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "fmpmcp",
	Short: "fmpmcp: Financial Modeling Prep data over the Model Context Protocol",
	Long: `fmpmcp serves Financial Modeling Prep market data to MCP clients as
Markdown tools, JSON resources and analysis prompts.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json (default ~/.fmpmcp/config.json)")
}
