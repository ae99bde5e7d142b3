package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/mt5bridge/proxy"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the terminal over HTTP",
	Long: `Run the HTTP proxy in front of the terminal until interrupted.

Clients log in with POST /security/login and use the returned bearer token.
Metrics are served on /metrics and a liveness probe on /health.

Example:
  mt5ctl serve --listen 127.0.0.1:8000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveListen string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address, overrides proxy.listen")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	addr := serveListen
	if addr == "" {
		addr = cfg.Proxy.Listen
	}

	t, closeFn, err := openTerminal(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	opts := []proxy.Option{proxy.WithLogger(log)}
	j, err := openJournal()
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
		opts = append(opts, proxy.WithJournal(j))
		log.Info("journal_opened", zap.String("type", cfg.Journal.Type), zap.String("path", cfg.Journal.Path))
	}

	return proxy.New(t, opts...).Run(ctx, addr)
}
