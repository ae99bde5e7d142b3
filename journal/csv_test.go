package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/mt5bridge/mql"
)

func TestCSVJournalHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")
	j, err := NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	header, err := csv.NewReader(strings.NewReader(string(data))).Read()
	require.NoError(t, err)
	assert.Equal(t, Header, header)
}

func TestCSVJournalRecord(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")
	j, err := NewCSV(path)
	require.NoError(t, err)

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	err = j.Record(Entry{
		ID:          "01J0000000000000000000000",
		Time:        ts,
		Kind:        KindSend,
		Symbol:      "EURUSD",
		Action:      int64(mql.TradeActionDeal),
		Type:        int64(mql.OrderTypeSell),
		Volume:      0.25,
		Price:       1.0845678,
		Retcode:     int64(mql.ReturnCodeDone),
		OrderTicket: 1001,
		DealTicket:  1002,
		Comment:     "Request executed",
	})
	require.NoError(t, err)
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(string(data)))
	_, err = reader.Read() // header
	require.NoError(t, err)
	row, err := reader.Read()
	require.NoError(t, err)

	want := []string{
		"01J0000000000000000000000",
		ts.Format(time.RFC3339),
		"send",
		"EURUSD",
		"1",
		"1",
		"0.250000",
		"1.084568",
		"0.000000",
		"0.000000",
		"10009",
		"1001",
		"1002",
		"Request executed",
	}
	assert.Equal(t, want, row)
}

func TestCSVJournalRecordResults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")
	j, err := NewCSV(path)
	require.NoError(t, err)

	req := mql.TradeRequest{Action: int64(mql.TradeActionDeal), Symbol: "GBPUSD", Volume: 0.1}
	require.NoError(t, j.RecordCheck(mql.CheckResult{Comment: "Done", Request: req}))
	require.NoError(t, j.RecordSend(mql.TradeResult{Retcode: int64(mql.ReturnCodeDone), Price: 1.27, Request: req}))
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "check", rows[1][2])
	assert.Equal(t, "send", rows[2][2])
	assert.Equal(t, "1.270000", rows[2][7])
}
