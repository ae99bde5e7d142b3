package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/mt5bridge/terminal"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "List and inspect financial instruments",
	Long: `Query the instruments known to the terminal.

Examples:
  mt5ctl symbols total
  mt5ctl symbols list --group "*USD*,!*JPY*"
  mt5ctl symbols info EURUSD
  mt5ctl symbols tick EURUSD
  mt5ctl symbols select GBPUSD --disable`,
}

var (
	symbolsGroup   string
	symbolsDisable bool
)

var symbolsTotalCmd = &cobra.Command{
	Use:   "total",
	Short: "Count all symbols",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.SymbolsTotal(ctx)
		})
	},
}

var symbolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List symbols, optionally filtered by group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.SymbolsGet(ctx, symbolsGroup)
		})
	},
}

var symbolsInfoCmd = &cobra.Command{
	Use:   "info <symbol>",
	Short: "Show the properties of a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.SymbolInfo(ctx, args[0])
		})
	},
}

var symbolsTickCmd = &cobra.Command{
	Use:   "tick <symbol>",
	Short: "Show the last tick of a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.SymbolInfoTick(ctx, args[0])
		})
	},
}

var symbolsSelectCmd = &cobra.Command{
	Use:   "select <symbol>",
	Short: "Add a symbol to MarketWatch, or remove it with --disable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.SymbolSelect(ctx, args[0], !symbolsDisable)
		})
	},
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
	symbolsCmd.AddCommand(symbolsTotalCmd, symbolsListCmd, symbolsInfoCmd, symbolsTickCmd, symbolsSelectCmd)

	symbolsListCmd.Flags().StringVarP(&symbolsGroup, "group", "g", "", `group filter, e.g. "*,!*JPY*"`)
	symbolsSelectCmd.Flags().BoolVar(&symbolsDisable, "disable", false, "remove the symbol from MarketWatch")
}
