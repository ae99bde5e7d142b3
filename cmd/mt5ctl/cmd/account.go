package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/mt5bridge/terminal"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show the logged-in trading account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.AccountInfo(ctx)
		})
	},
}

var terminalCmd = &cobra.Command{
	Use:   "terminal",
	Short: "Inspect the terminal",
}

var terminalInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show terminal state and settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.TerminalInfo(ctx)
		})
	},
}

var terminalVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the terminal version, build and build date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.Version(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(terminalCmd)
	terminalCmd.AddCommand(terminalInfoCmd)
	terminalCmd.AddCommand(terminalVersionCmd)
}
