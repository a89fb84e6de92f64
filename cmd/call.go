package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var callArgs []string

var callCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Run one tool and print its Markdown report",
	Example: `  fmpmcp call get_quote --arg symbol=AAPL
  fmpmcp call get_income_statement --arg symbol=MSFT --arg period=quarter --arg limit=4`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().StringArrayVarP(&callArgs, "arg", "a", nil, "Tool argument as key=value (repeatable)")
}

func runCall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	toolArgs, err := parseArgs(callArgs)
	if err != nil {
		return err
	}

	reg := makeRegistry(makeClient(cfg))
	t := reg.Get(args[0])
	if t == nil {
		return fmt.Errorf("unknown tool %q (see 'fmpmcp tools')", args[0])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	out, err := t.Execute(ctx, toolArgs)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
