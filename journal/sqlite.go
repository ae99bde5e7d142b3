package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/mt5bridge/mql"
)

var _ Journal = (*SQLite)(nil)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordCheck(res mql.CheckResult) error {
	return j.Record(CheckEntry(res))
}

func (j *SQLite) RecordSend(res mql.TradeResult) error {
	return j.Record(SendEntry(res))
}

// Record stores e as is.
func (j *SQLite) Record(e Entry) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(id, time, kind, symbol, action, type, volume, price, sl, tp, retcode, order_ticket, deal_ticket, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Time, string(e.Kind), e.Symbol, e.Action, e.Type, e.Volume, e.Price,
		e.SL, e.TP, e.Retcode, e.OrderTicket, e.DealTicket, e.Comment,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
