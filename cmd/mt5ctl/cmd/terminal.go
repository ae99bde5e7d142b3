package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rustyeddy/mt5bridge/foreign/python"
	"github.com/rustyeddy/mt5bridge/journal"
	"github.com/rustyeddy/mt5bridge/sim"
	"github.com/rustyeddy/mt5bridge/terminal"
	"github.com/rustyeddy/mt5bridge/terminal/native"
	"github.com/rustyeddy/mt5bridge/terminal/remote"
)

// openTerminal connects the way the flags and config ask for. The returned
// func releases the connection.
func openTerminal(ctx context.Context) (terminal.Terminal, func(), error) {
	timeout, err := cfg.Terminal.ParseTimeout()
	if err != nil {
		return nil, nil, fmt.Errorf("terminal.timeout: %w", err)
	}
	creds, hasCreds := cfg.Account.Credentials()

	switch {
	case demo:
		eng := sim.New(sim.WithLogger(log.Named("sim")))
		s, err := native.Initialize(ctx, eng, "", native.WithLogger(log))
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			_ = s.Shutdown(context.Background())
			_ = eng.Close()
		}, nil

	case remoteURL != "" || cfg.Proxy.URL != "":
		url := remoteURL
		if url == "" {
			url = cfg.Proxy.URL
		}
		if !hasCreds {
			return nil, nil, errors.New("remote access needs account credentials (account.* or TERMINAL_ACCOUNT_*)")
		}
		c := remote.New(url, remote.WithLogger(log))
		if err := c.Login(ctx, creds, timeout); err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Shutdown(context.Background()) }, nil

	default:
		rt, err := python.Start(ctx, python.Options{
			Python:       cfg.Python.Executable,
			SitePackages: cfg.Python.SitePackages,
			Module:       cfg.Python.Module,
			Logger:       log,
		})
		if err != nil {
			return nil, nil, err
		}

		var s *native.Session
		if hasCreds {
			var portable *bool
			if cfg.Terminal.Portable {
				portable = &cfg.Terminal.Portable
			}
			s, err = native.InitializeWithCredentials(ctx, rt, cfg.Terminal.Path, creds, timeout, portable, native.WithLogger(log))
		} else {
			s, err = native.Initialize(ctx, rt, cfg.Terminal.Path, native.WithLogger(log))
		}
		if err != nil {
			_ = rt.Close()
			return nil, nil, err
		}
		return s, func() {
			_ = s.Shutdown(context.Background())
			_ = rt.Close()
		}, nil
	}
}

// openJournal returns nil when no journal is configured.
func openJournal() (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "":
		return nil, nil
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.Path)
	case "csv":
		return journal.NewCSV(cfg.Journal.Path)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
	}
}
