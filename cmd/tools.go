package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available tools",
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	reg := makeRegistry(nil)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d tools\n\n", reg.Len())
	for _, t := range reg.All() {
		line := t.Name()
		if req := requiredParams(t); len(req) > 0 {
			line += " (" + strings.Join(req, ", ") + ")"
		}
		fmt.Fprintf(out, "  %s\n      %s\n", line, t.Description())
	}
	return nil
}
