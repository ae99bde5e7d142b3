package foreign

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/mt5bridge/mql"
)

func decodeWire(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewBufferString(s))
	dec.UseNumber()
	var raw any
	require.NoError(t, dec.Decode(&raw))
	v, err := Normalize(raw)
	require.NoError(t, err)
	return v
}

func TestNormalizeNumbers(t *testing.T) {
	v := decodeWire(t, `[1, 2.5, -3, "x", true, null]`)
	assert.Equal(t, []any{int64(1), 2.5, int64(-3), "x", true, nil}, v)
}

func TestNormalizeFloats(t *testing.T) {
	v := decodeWire(t, `[{"$float":"nan"},{"$float":"inf"},{"$float":"-inf"},1.5]`)
	list, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, list, 4)
	assert.True(t, math.IsNaN(list[0].(float64)))
	assert.Equal(t, math.Inf(1), list[1])
	assert.Equal(t, math.Inf(-1), list[2])
	assert.Equal(t, 1.5, list[3])

	_, err := Normalize(map[string]any{"$float": "huge"})
	assert.Error(t, err)
}

func TestNormalizeRecord(t *testing.T) {
	v := decodeWire(t, `{"$record":{"fields":["retcode","request"],"values":[10009,{"$record":{"fields":["symbol"],"values":["EURUSD"]}}]}}`)

	rec, ok := v.(*Record)
	require.True(t, ok)
	d := rec.AsDict()
	assert.Equal(t, int64(10009), d["retcode"])

	// shallow: the nested record stays a record
	nested, ok := d["request"].(*Record)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"symbol": "EURUSD"}, nested.AsDict())

	sym, ok := nested.Get("symbol")
	assert.True(t, ok)
	assert.Equal(t, "EURUSD", sym)
}

func TestNormalizeColumns(t *testing.T) {
	v := decodeWire(t, `{"$columns":{"fields":["time","open"],"data":{"time":[10,20],"open":[1.5,1.6]}}}`)

	cols, ok := v.(*Columns)
	require.True(t, ok)
	assert.Equal(t, 2, cols.Len())

	rows, err := cols.Rows()
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"time": int64(10), "open": 1.5},
		{"time": int64(20), "open": 1.6},
	}, rows)
}

func TestColumnsRowsLengthMismatch(t *testing.T) {
	cols := &Columns{Fields: []string{"a", "b"}, Data: map[string][]any{"a": {1, 2}, "b": {1}}}
	_, err := cols.Rows()
	assert.Error(t, err)
}

func TestRecordJSONRoundTrip(t *testing.T) {
	rec := NewRecord([]string{"a", "b"}, []any{int64(1), "two"})
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	back := decodeWire(t, string(data))
	assert.Equal(t, rec, back)
}

func TestDateTime(t *testing.T) {
	ts := time.Date(2024, 3, 4, 5, 6, 7, 8000, time.Local)
	dt := NewDateTime(ts)
	assert.Equal(t, DateTime{2024, 3, 4, 5, 6, 7, 8}, dt)
	assert.True(t, ts.Equal(dt.Time()))

	data, err := json.Marshal(dt)
	require.NoError(t, err)
	assert.JSONEq(t, `{"$datetime":[2024,3,4,5,6,7,8]}`, string(data))

	back := decodeWire(t, string(data))
	assert.Equal(t, dt, back)
}

func TestDecodeStrict(t *testing.T) {
	t.Run("complete record", func(t *testing.T) {
		rec := NewRecord(
			[]string{"time", "bid", "ask", "last", "volume", "time_msc", "flags", "volume_real"},
			[]any{int64(1700000000), 1.1, 1.2, 0.0, int64(0), int64(1700000000123), int64(6), 0.0},
		)
		var tick mql.Tick
		require.NoError(t, Decode(rec, &tick))
		assert.Equal(t, 1.1, tick.Bid)
		assert.Equal(t, int64(6), tick.Flags)
	})

	t.Run("integer into float field", func(t *testing.T) {
		var v mql.TerminalVersion
		require.NoError(t, Decode(map[string]any{"terminal_version": int64(500), "build": int64(4000), "build_date": "1 Jan 2024"}, &v))
		assert.Equal(t, int64(4000), v.Build)
	})

	t.Run("missing field", func(t *testing.T) {
		var tick mql.Tick
		err := Decode(map[string]any{"time": int64(1), "bid": 1.0}, &tick)
		assert.ErrorIs(t, err, mql.ErrDecode)
	})

	t.Run("wrong type", func(t *testing.T) {
		var v mql.TerminalVersion
		err := Decode(map[string]any{"terminal_version": "five", "build": int64(1), "build_date": "x"}, &v)
		assert.ErrorIs(t, err, mql.ErrDecode)
	})

	tickFields := func(over map[string]any) map[string]any {
		m := map[string]any{
			"time": int64(1700000000), "bid": 1.1, "ask": 1.2, "last": 0.0, "volume": int64(0),
			"time_msc": int64(1700000000123), "flags": int64(6), "volume_real": 0.0,
		}
		for k, v := range over {
			m[k] = v
		}
		return m
	}

	t.Run("float into int field", func(t *testing.T) {
		var tick mql.Tick
		err := Decode(tickFields(map[string]any{"time": 1.7e9 + 0.9}), &tick)
		assert.ErrorIs(t, err, mql.ErrDecode)
		assert.Contains(t, err.Error(), "not an integer")
	})

	t.Run("whole float into int field", func(t *testing.T) {
		var tick mql.Tick
		require.NoError(t, Decode(tickFields(map[string]any{"time": 1.7e9}), &tick))
		assert.Equal(t, int64(1700000000), tick.Time)
	})

	t.Run("null into float field", func(t *testing.T) {
		var tick mql.Tick
		err := Decode(tickFields(map[string]any{"bid": nil}), &tick)
		assert.ErrorIs(t, err, mql.ErrDecode)
		assert.Contains(t, err.Error(), "bid is null")
	})

	t.Run("null nested field", func(t *testing.T) {
		var res mql.TradeResult
		err := Decode(map[string]any{"request": map[string]any{"symbol": nil}}, &res)
		assert.ErrorIs(t, err, mql.ErrDecode)
		assert.Contains(t, err.Error(), "request.symbol is null")
	})

	t.Run("null scalar", func(t *testing.T) {
		var n int64
		assert.ErrorIs(t, Decode(nil, &n), mql.ErrDecode)
	})

	t.Run("nan stays a float", func(t *testing.T) {
		var tick mql.Tick
		require.NoError(t, Decode(tickFields(map[string]any{"last": math.NaN()}), &tick))
		assert.True(t, math.IsNaN(tick.Last))
	})
}

func TestDecodeRows(t *testing.T) {
	rows, err := DecodeRows[mql.Filter](nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	type pair struct {
		A int64  `json:"a"`
		B string `json:"b"`
	}
	got, err := DecodeRows[pair]([]any{
		NewRecord([]string{"a", "b"}, []any{int64(1), "x"}),
		map[string]any{"a": int64(2), "b": "y"},
	})
	require.NoError(t, err)
	assert.Equal(t, []pair{{1, "x"}, {2, "y"}}, got)

	_, err = DecodeRows[pair]("nope")
	assert.ErrorIs(t, err, mql.ErrDecode)
}
