package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	ts := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	want := Entry{
		ID:          "T123",
		Time:        ts,
		Kind:        KindSend,
		Symbol:      "EURUSD",
		Action:      1,
		Volume:      0.15,
		Price:       1.085,
		Retcode:     10009,
		OrderTicket: 7,
		DealTicket:  8,
		Comment:     "Request executed",
	}
	require.NoError(t, j.Record(want))

	got, err := j.Get("T123")
	require.NoError(t, err)
	assert.True(t, got.Time.Equal(ts))
	got.Time = ts
	assert.Equal(t, want, got)

	_, err = j.Get("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListSince(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for n, id := range []string{"A", "B", "C"} {
		require.NoError(t, j.Record(Entry{ID: id, Time: base.Add(time.Duration(n) * time.Hour), Kind: KindCheck}))
	}

	got, err := j.ListSince(base.Add(30 * time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].ID)
	assert.Equal(t, "C", got[1].ID)

	got, err = j.ListSince(base.Add(24 * time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)
}
