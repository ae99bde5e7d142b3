package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/mt5bridge/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage mt5ctl configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  mt5ctl config init -o mt5.yaml
  mt5ctl config validate -f mt5.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check that a configuration file can be loaded. Environment overrides
(TERMINAL_PATH, TERMINAL_ACCOUNT_*, MT5_SITE_PACKAGES, MT5_PROXY_URL) are
applied before validation.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "mt5.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	_ = configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.Default().SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created default configuration: %s\n", configInitOutput)
	fmt.Fprintf(out, "\nEdit the file and run with:\n  mt5ctl -c %s account\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	c, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid: %s\n", configValidatePath)
	if creds, ok := c.Account.Credentials(); ok {
		fmt.Fprintf(out, "  Account: %d @ %s\n", creds.Login, creds.Server)
	}
	if c.Proxy.URL != "" {
		fmt.Fprintf(out, "  Proxy:   %s\n", c.Proxy.URL)
	}
	if c.Journal.Type != "" {
		fmt.Fprintf(out, "  Journal: %s (%s)\n", c.Journal.Type, c.Journal.Path)
	}
	return nil
}
