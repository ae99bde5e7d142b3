package python

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rustyeddy/mt5bridge/foreign"
)

type fakeProc struct {
	once    sync.Once
	done    chan struct{}
	closers []io.Closer
}

func (p *fakeProc) exit() {
	p.once.Do(func() {
		for _, c := range p.closers {
			_ = c.Close()
		}
		close(p.done)
	})
}

func (p *fakeProc) Kill() error { p.exit(); return nil }
func (p *fakeProc) Wait() error { <-p.done; return nil }

// startFake wires a Runtime to an in-process stand-in for bridge.py.
func startFake(t *testing.T, hello ready, handle func(req request) response) *Runtime {
	t.Helper()

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	proc := &fakeProc{done: make(chan struct{}), closers: []io.Closer{inR, outW}}
	t.Cleanup(proc.exit)

	go func() {
		enc := json.NewEncoder(outW)
		if err := enc.Encode(hello); err != nil {
			return
		}
		dec := json.NewDecoder(inR)
		dec.UseNumber()
		for {
			var req request
			if err := dec.Decode(&req); err != nil {
				proc.exit()
				return
			}
			resp := handle(req)
			if resp.ID == 0 {
				resp.ID = req.ID
			}
			if err := enc.Encode(resp); err != nil {
				return
			}
		}
	}()

	return newRuntime(inW, outR, proc, zap.NewNop())
}

var helloOK = ready{Ready: true, Module: "MetaTrader5", Version: "5.0.45"}

func TestHandshake(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		r := startFake(t, helloOK, nil)
		require.NoError(t, r.handshake(context.Background()))
		assert.Equal(t, "MetaTrader5", r.Module)
		assert.Equal(t, "5.0.45", r.Version)
	})

	t.Run("import failed", func(t *testing.T) {
		r := startFake(t, ready{Error: "ModuleNotFoundError: No module named 'MetaTrader5'"}, nil)
		err := r.handshake(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ModuleNotFoundError")
	})
}

func TestCallRoundTrip(t *testing.T) {
	var got request
	r := startFake(t, helloOK, func(req request) response {
		got = req
		return response{OK: true, Value: map[string]any{
			"$record": map[string]any{
				"fields": []string{"bid", "ask", "time"},
				"values": []any{1.1, 1.2, 1700000000},
			},
		}}
	})
	require.NoError(t, r.handshake(context.Background()))

	from := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	v, err := r.Call(context.Background(), "copy_ticks_from",
		[]any{"EURUSD", foreign.NewDateTime(from), int64(10), int64(-1)},
		map[string]any{"flag": true})
	require.NoError(t, err)

	rec, ok := v.(*foreign.Record)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"bid": 1.1, "ask": 1.2, "time": int64(1700000000)}, rec.AsDict())

	assert.Equal(t, "copy_ticks_from", got.Fn)
	require.Len(t, got.Args, 4)
	dt, ok := got.Args[1].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, dt, "$datetime")
	assert.Equal(t, true, got.Kwargs["flag"])
}

func TestCallException(t *testing.T) {
	r := startFake(t, helloOK, func(req request) response {
		return response{Error: &foreign.CallError{Fn: req.Fn, Type: "TypeError", Message: "bad args"}}
	})
	require.NoError(t, r.handshake(context.Background()))

	_, err := r.Call(context.Background(), "symbol_info", []any{int64(1)}, nil)
	var ce *foreign.CallError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "TypeError", ce.Type)
	assert.Equal(t, "symbol_info", ce.Fn)

	// the runtime stays usable after an exception
	_, err = r.Call(context.Background(), "symbol_info", nil, nil)
	assert.ErrorAs(t, err, &ce)
}

func TestCallCancelKillsRuntime(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	r := startFake(t, helloOK, func(req request) response {
		<-release
		return response{OK: true}
	})
	require.NoError(t, r.handshake(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.Call(ctx, "terminal_info", nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = r.Call(context.Background(), "terminal_info", nil, nil)
	assert.ErrorIs(t, err, foreign.ErrClosed)
}

func TestClose(t *testing.T) {
	r := startFake(t, helloOK, func(req request) response { return response{OK: true, Value: true} })
	require.NoError(t, r.handshake(context.Background()))

	v, err := r.Call(context.Background(), "symbol_select", []any{"EURUSD", true}, nil)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err = r.Call(context.Background(), "symbol_select", nil, nil)
	assert.True(t, errors.Is(err, foreign.ErrClosed))
}

func TestResolveSitePackages(t *testing.T) {
	t.Setenv("MT5_SITE_PACKAGES", "")
	t.Setenv("POETRY_ENVIRONMENT", "")
	assert.Equal(t, "", ResolveSitePackages(""))
	assert.Equal(t, "/explicit", ResolveSitePackages("/explicit"))

	t.Setenv("POETRY_ENVIRONMENT", `C:\venv`)
	assert.Equal(t, `C:\venv\lib\site-packages\`, ResolveSitePackages(""))

	t.Setenv("MT5_SITE_PACKAGES", "/site")
	assert.Equal(t, "/site", ResolveSitePackages(""))
}
