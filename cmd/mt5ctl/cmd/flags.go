package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/rustyeddy/mt5bridge/mql"
)

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// parseTime accepts RFC 3339, a minute-resolution UTC timestamp or a date.
// An empty string means now.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("time %q: use RFC 3339 or YYYY-MM-DD", s)
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	f, err := parseTime(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	t, err := parseTime(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return f, t, nil
}

// filterFlags are the selectors shared by the list commands.
type filterFlags struct {
	symbol   string
	group    string
	ticket   int64
	position int64
}

func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.symbol, "symbol", "", "only this symbol")
	fs.StringVar(&f.group, "group", "", `symbol group, e.g. "*USD*,!EUR*"`)
	fs.Int64Var(&f.ticket, "ticket", 0, "only this ticket")
	fs.Int64Var(&f.position, "position", 0, "only this position")
}

func (f *filterFlags) filter() mql.Filter {
	return mql.Filter{Symbol: f.symbol, Group: f.group, Ticket: f.ticket, Position: f.position}
}
