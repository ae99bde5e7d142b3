package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const selectEntry = `
	SELECT id, time, kind, symbol, action, type, volume, price, sl, tp, retcode, order_ticket, deal_ticket, comment
	FROM trades`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e    Entry
		kind string
	)
	err := s.Scan(
		&e.ID,
		&e.Time,
		&kind,
		&e.Symbol,
		&e.Action,
		&e.Type,
		&e.Volume,
		&e.Price,
		&e.SL,
		&e.TP,
		&e.Retcode,
		&e.OrderTicket,
		&e.DealTicket,
		&e.Comment,
	)
	e.Kind = Kind(kind)
	return e, err
}

// Get returns a single entry by ID.
func (j *SQLite) Get(entryID string) (Entry, error) {
	e, err := scanEntry(j.db.QueryRow(selectEntry+` WHERE id = ?`, entryID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, fmt.Errorf("entry %q not found", entryID)
		}
		return Entry{}, err
	}
	return e, nil
}

// ListSince returns entries recorded at or after since, oldest first.
func (j *SQLite) ListSince(since time.Time) ([]Entry, error) {
	rows, err := j.db.Query(selectEntry+`
		WHERE time >= ?
		ORDER BY time ASC, id ASC`, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
