package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/mt5bridge/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the trade journal",
	Long: `Query the SQLite journal written by "mt5ctl serve" (journal.type: sqlite).

Subcommands:
  get   - Show one entry by ID
  since - List entries recorded since a time

Examples:
  mt5ctl journal get 01J2ZK6N3Q8W0F4C5V7B9D1E2G
  mt5ctl journal since 2024-07-15`,
}

var journalGetCmd = &cobra.Command{
	Use:   "get <entry-id>",
	Short: "Show one journal entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openSQLiteJournal()
		if err != nil {
			return err
		}
		defer j.Close()

		e, err := j.Get(args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), e)
	},
}

var journalSinceCmd = &cobra.Command{
	Use:   "since [time]",
	Short: "List entries recorded since a time (default: all)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		since := "1970-01-01"
		if len(args) == 1 {
			since = args[0]
		}
		t, err := parseTime(since)
		if err != nil {
			return err
		}

		j, err := openSQLiteJournal()
		if err != nil {
			return err
		}
		defer j.Close()

		entries, err := j.ListSince(t)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), entries)
	},
}

func openSQLiteJournal() (*journal.SQLite, error) {
	if cfg.Journal.Type != "sqlite" {
		return nil, errors.New("journal queries need journal.type sqlite")
	}
	j, err := journal.NewSQLite(cfg.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalGetCmd, journalSinceCmd)
}
