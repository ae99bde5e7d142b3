package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/mt5bridge/mql"
	"github.com/rustyeddy/mt5bridge/terminal"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Active orders, margin and profit estimates, trade requests",
	Long: `Query active orders and send trade requests.

Examples:
  mt5ctl orders list --symbol EURUSD
  mt5ctl orders margin --type buy --symbol EURUSD --volume 1 --price 1.1
  mt5ctl orders check --action deal --symbol EURUSD --volume 0.1 --type buy
  mt5ctl orders send --action deal --symbol EURUSD --volume 0.1 --type sell --position 1001`,
}

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Open positions",
}

var (
	ordersFilter    filterFlags
	positionsFilter filterFlags

	calcType   string
	calcSymbol string
	calcVolume float64
	calcPrice  float64
	calcOpen   float64
	calcClose  float64
)

var ordersTotalCmd = &cobra.Command{
	Use:   "total",
	Short: "Count active orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.OrdersTotal(ctx)
		})
	},
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.OrdersGet(ctx, ordersFilter.filter())
		})
	},
}

var ordersMarginCmd = &cobra.Command{
	Use:   "margin",
	Short: "Estimate the margin of an order in account currency",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ot, err := mql.OrderTypeByName(calcType)
		if err != nil {
			return err
		}
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.OrderCalcMargin(ctx, ot, calcSymbol, calcVolume, calcPrice)
		})
	},
}

var ordersProfitCmd = &cobra.Command{
	Use:   "profit",
	Short: "Estimate the profit of a trade in account currency",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ot, err := mql.OrderTypeByName(calcType)
		if err != nil {
			return err
		}
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.OrderCalcProfit(ctx, ot, calcSymbol, calcVolume, calcOpen, calcClose)
		})
	},
}

var ordersCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a trade request would be accepted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := tradeRequest(cmd)
		if err != nil {
			return err
		}
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.OrderCheck(ctx, req)
		})
	},
}

var ordersSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a trade request",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := tradeRequest(cmd)
		if err != nil {
			return err
		}
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.OrderSend(ctx, req)
		})
	},
}

var positionsTotalCmd = &cobra.Command{
	Use:   "total",
	Short: "Count open positions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.PositionsTotal(ctx)
		})
	},
}

var positionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open positions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.PositionsGet(ctx, positionsFilter.filter())
		})
	},
}

func init() {
	rootCmd.AddCommand(ordersCmd, positionsCmd)
	ordersCmd.AddCommand(ordersTotalCmd, ordersListCmd, ordersMarginCmd, ordersProfitCmd, ordersCheckCmd, ordersSendCmd)
	positionsCmd.AddCommand(positionsTotalCmd, positionsListCmd)

	ordersFilter.register(ordersListCmd.Flags())
	positionsFilter.register(positionsListCmd.Flags())

	for _, c := range []*cobra.Command{ordersMarginCmd, ordersProfitCmd} {
		c.Flags().StringVar(&calcType, "type", "buy", "order type")
		c.Flags().StringVar(&calcSymbol, "symbol", "", "symbol (required)")
		c.Flags().Float64Var(&calcVolume, "volume", 1, "volume in lots")
		_ = c.MarkFlagRequired("symbol")
	}
	ordersMarginCmd.Flags().Float64Var(&calcPrice, "price", 0, "open price (required)")
	_ = ordersMarginCmd.MarkFlagRequired("price")
	ordersProfitCmd.Flags().Float64Var(&calcOpen, "open", 0, "open price (required)")
	ordersProfitCmd.Flags().Float64Var(&calcClose, "close", 0, "close price (required)")
	_ = ordersProfitCmd.MarkFlagRequired("open")
	_ = ordersProfitCmd.MarkFlagRequired("close")

	registerRequestFlags(ordersCheckCmd)
	registerRequestFlags(ordersSendCmd)
}
