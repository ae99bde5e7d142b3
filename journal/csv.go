package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/mt5bridge/mql"
)

var _ Journal = (*CSVJournal)(nil)

// Header is the first row of a CSV journal.
var Header = []string{
	"id", "time", "kind", "symbol", "action", "type", "volume", "price",
	"sl", "tp", "retcode", "order_ticket", "deal_ticket", "comment",
}

type CSVJournal struct {
	w  *csv.Writer
	fh *os.File
}

func NewCSV(path string) (*CSVJournal, error) {
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(fh)
	if err := w.Write(Header); err != nil {
		_ = fh.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = fh.Close()
		return nil, err
	}

	return &CSVJournal{w: w, fh: fh}, nil
}

func (j *CSVJournal) RecordCheck(res mql.CheckResult) error {
	return j.Record(CheckEntry(res))
}

func (j *CSVJournal) RecordSend(res mql.TradeResult) error {
	return j.Record(SendEntry(res))
}

func (j *CSVJournal) Record(e Entry) error {
	if err := j.w.Write(Row(e)); err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

// Row renders e in Header order.
func Row(e Entry) []string {
	return []string{
		e.ID,
		e.Time.Format(time.RFC3339),
		string(e.Kind),
		e.Symbol,
		i(e.Action),
		i(e.Type),
		f(e.Volume),
		f(e.Price),
		f(e.SL),
		f(e.TP),
		i(e.Retcode),
		i(e.OrderTicket),
		i(e.DealTicket),
		e.Comment,
	}
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	return j.fh.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func i(x int64) string {
	return strconv.FormatInt(x, 10)
}
