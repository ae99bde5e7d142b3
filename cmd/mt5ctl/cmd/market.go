package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/mt5bridge/mql"
	"github.com/rustyeddy/mt5bridge/terminal"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Copy bars",
	Long: `Copy OHLC bars of a symbol.

Examples:
  mt5ctl rates from EURUSD --timeframe H1 --from 2024-07-15 --count 24
  mt5ctl rates from-pos EURUSD --timeframe M15 --start 0 --count 100
  mt5ctl rates range EURUSD --timeframe D1 --from 2024-01-01 --to 2024-07-01`,
}

var ticksCmd = &cobra.Command{
	Use:   "ticks",
	Short: "Copy ticks",
}

var (
	marketTimeframe string
	marketFrom      string
	marketTo        string
	marketStart     int64
	marketCount     int64
	marketFlags     string
)

func timeframe() (mql.Timeframe, error) { return mql.TimeframeByName(marketTimeframe) }

func tickFlags() (mql.CopyTicksFlag, error) { return mql.CopyTicksFlagByName(marketFlags) }

var ratesFromCmd = &cobra.Command{
	Use:   "from <symbol>",
	Short: "Copy count bars ending at --from",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tf, err := timeframe()
		if err != nil {
			return err
		}
		from, err := parseTime(marketFrom)
		if err != nil {
			return err
		}
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.CopyRatesFrom(ctx, args[0], tf, from, marketCount)
		})
	},
}

var ratesFromPosCmd = &cobra.Command{
	Use:   "from-pos <symbol>",
	Short: "Copy count bars starting --start bars back from the current one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tf, err := timeframe()
		if err != nil {
			return err
		}
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.CopyRatesFromPos(ctx, args[0], tf, marketStart, marketCount)
		})
	},
}

var ratesRangeCmd = &cobra.Command{
	Use:   "range <symbol>",
	Short: "Copy the bars between --from and --to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tf, err := timeframe()
		if err != nil {
			return err
		}
		from, to, err := parseRange(marketFrom, marketTo)
		if err != nil {
			return err
		}
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.CopyRatesRange(ctx, args[0], tf, from, to)
		})
	},
}

var ticksFromCmd = &cobra.Command{
	Use:   "from <symbol>",
	Short: "Copy count ticks starting at --from",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags, err := tickFlags()
		if err != nil {
			return err
		}
		from, err := parseTime(marketFrom)
		if err != nil {
			return err
		}
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.CopyTicksFrom(ctx, args[0], from, marketCount, flags)
		})
	},
}

var ticksRangeCmd = &cobra.Command{
	Use:   "range <symbol>",
	Short: "Copy the ticks between --from and --to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags, err := tickFlags()
		if err != nil {
			return err
		}
		from, to, err := parseRange(marketFrom, marketTo)
		if err != nil {
			return err
		}
		return query(cmd, func(ctx context.Context, t terminal.Terminal) (any, error) {
			return t.CopyTicksRange(ctx, args[0], from, to, flags)
		})
	},
}

func init() {
	rootCmd.AddCommand(ratesCmd, ticksCmd)
	ratesCmd.AddCommand(ratesFromCmd, ratesFromPosCmd, ratesRangeCmd)
	ticksCmd.AddCommand(ticksFromCmd, ticksRangeCmd)

	ratesCmd.PersistentFlags().StringVarP(&marketTimeframe, "timeframe", "t", "H1", "bar period (M1..M30, H1..H12, D1, W1, MN1)")
	ticksCmd.PersistentFlags().StringVar(&marketFlags, "flags", "all", "tick kinds: all, info or trade")

	for _, c := range []*cobra.Command{ratesFromCmd, ratesRangeCmd, ticksFromCmd, ticksRangeCmd} {
		c.Flags().StringVar(&marketFrom, "from", "", "start time (RFC 3339 or YYYY-MM-DD, default now)")
	}
	for _, c := range []*cobra.Command{ratesRangeCmd, ticksRangeCmd} {
		c.Flags().StringVar(&marketTo, "to", "", "end time (default now)")
	}
	for _, c := range []*cobra.Command{ratesFromCmd, ratesFromPosCmd, ticksFromCmd} {
		c.Flags().Int64VarP(&marketCount, "count", "n", 100, "number of records")
	}
	ratesFromPosCmd.Flags().Int64Var(&marketStart, "start", 0, "index of the first bar, 0 is the current one")
}
