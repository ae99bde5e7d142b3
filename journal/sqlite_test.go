package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/mt5bridge/mql"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = 'trades'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "trades", name)
}

func TestSQLiteRecord(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := Entry{
		ID:          "E1",
		Time:        ts,
		Kind:        KindCheck,
		Symbol:      "EURUSD",
		Action:      int64(mql.TradeActionPending),
		Type:        int64(mql.OrderTypeBuyLimit),
		Volume:      0.5,
		Price:       1.0801,
		SL:          1.07,
		TP:          1.1,
		Retcode:     int64(mql.ReturnCodeCheckOK),
		OrderTicket: 0,
		DealTicket:  0,
		Comment:     "Done",
	}

	require.NoError(t, j.Record(rec))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		id      string
		gotTime time.Time
		kind    string
		symbol  string
		price   float64
		retcode int64
	)
	err = db.QueryRow(`SELECT id, time, kind, symbol, price, retcode FROM trades LIMIT 1`).
		Scan(&id, &gotTime, &kind, &symbol, &price, &retcode)
	require.NoError(t, err)

	assert.Equal(t, "E1", id)
	assert.True(t, gotTime.Equal(ts))
	assert.Equal(t, "check", kind)
	assert.Equal(t, "EURUSD", symbol)
	assert.InDelta(t, 1.0801, price, 1e-9)
	assert.Equal(t, int64(0), retcode)
}

func TestSQLiteRecordResults(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	req := mql.TradeRequest{
		Action: int64(mql.TradeActionDeal),
		Symbol: "USDJPY",
		Volume: 0.3,
		Type:   int64(mql.OrderTypeBuy),
		SL:     150,
	}
	require.NoError(t, j.RecordCheck(mql.CheckResult{Retcode: 0, Comment: "Done", Request: req}))
	require.NoError(t, j.RecordSend(mql.TradeResult{
		Retcode: int64(mql.ReturnCodeDone),
		Order:   1001,
		Deal:    1002,
		Volume:  0.3,
		Price:   151.234,
		Comment: "Request executed",
		Request: req,
	}))

	entries, err := j.ListSince(time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, KindCheck, entries[0].Kind)
	assert.Equal(t, KindSend, entries[1].Kind)
	assert.Equal(t, "USDJPY", entries[1].Symbol)
	assert.Equal(t, 150.0, entries[1].SL)
	assert.Equal(t, 151.234, entries[1].Price)
	assert.Equal(t, int64(1002), entries[1].DealTicket)
	assert.Equal(t, mql.ReturnCodeDone, entries[1].ReturnCode())
	assert.Less(t, entries[0].ID, entries[1].ID)
}
