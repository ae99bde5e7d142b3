package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/mt5bridge/terminal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Trading history",
	Long: `Query historical orders and deals.

Dates are ignored by the terminal when --ticket or --position is given.

Examples:
  mt5ctl history deals --from 2024-07-01 --to 2024-07-15 --group "*USD*"
  mt5ctl history orders --position 1001
  mt5ctl history orders --from 2024-07-01 --total`,
}

var (
	historyFrom   string
	historyTo     string
	historyTotal  bool
	historyFilter filterFlags
)

var historyOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List or count historical orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := parseRange(historyFrom, historyTo)
		if err != nil {
			return err
		}
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			if historyTotal {
				return t.HistoryOrdersTotal(ctx, from, to)
			}
			return t.HistoryOrdersGet(ctx, from, to, historyFilter.filter())
		})
	},
}

var historyDealsCmd = &cobra.Command{
	Use:   "deals",
	Short: "List or count deals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := parseRange(historyFrom, historyTo)
		if err != nil {
			return err
		}
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			if historyTotal {
				return t.HistoryDealsTotal(ctx, from, to)
			}
			return t.HistoryDealsGet(ctx, from, to, historyFilter.filter())
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyOrdersCmd, historyDealsCmd)

	pf := historyCmd.PersistentFlags()
	pf.StringVar(&historyFrom, "from", "1970-01-01", "start of the range")
	pf.StringVar(&historyTo, "to", "", "end of the range (default now)")
	pf.BoolVar(&historyTotal, "total", false, "print the count only")
	historyFilter.register(pf)
}
