package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/mt5bridge/config"
	"github.com/rustyeddy/mt5bridge/internal/logging"
	"github.com/rustyeddy/mt5bridge/terminal"
)

var rootCmd = &cobra.Command{
	Use:   "mt5ctl",
	Short: "Query and trade a MetaTrader 5 terminal",
	Long: `mt5ctl drives a MetaTrader 5 terminal from the command line.

It reaches the terminal in one of three ways:
  - through the terminal's Python module in a child interpreter (default)
  - through an mt5ctl proxy over HTTP (--remote or proxy.url)
  - against a built-in simulated demo terminal (--demo)

Results are printed as JSON.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgFile   string
	remoteURL string
	demo      bool
	logLevel  string

	cfg *config.Config
	log = zap.NewNop()
)

// Execute runs the root command until ctx is done and flushes the logger.
func Execute(ctx context.Context) error {
	defer func() { _ = log.Sync() }()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	pf.StringVar(&remoteURL, "remote", "", "proxy URL, overrides proxy.url")
	pf.BoolVar(&demo, "demo", false, "use the simulated demo terminal")
	pf.StringVar(&logLevel, "log-level", "", "log level, overrides log.level")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	log, err = logging.Build(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// query opens the terminal, runs fn and prints its result.
func query(cmd *cobra.Command, fn func(ctx context.Context, t terminal.Terminal) (any, error)) error {
	ctx := cmd.Context()
	t, closeFn, err := openTerminal(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	v, err := fn(ctx, t)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), v)
}
