package proxy

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rustyeddy/mt5bridge/journal"
	"github.com/rustyeddy/mt5bridge/mql"
	"github.com/rustyeddy/mt5bridge/sim"
	"github.com/rustyeddy/mt5bridge/terminal/native"
	"github.com/rustyeddy/mt5bridge/terminal/remote"
)

var now = time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	eng    *sim.Engine
	server *httptest.Server
	client *remote.Client
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	eng := sim.New(sim.WithClock(func() time.Time { return now }))
	sess, err := native.Initialize(context.Background(), eng, "", native.WithLogger(log))
	require.NoError(t, err)

	srv := New(sess, append([]Option{WithLogger(log)}, opts...)...)
	hs := httptest.NewServer(srv)
	t.Cleanup(hs.Close)

	return &fixture{eng: eng, server: hs, client: remote.New(hs.URL, remote.WithLogger(log))}
}

func (f *fixture) login(t *testing.T) *remote.Client {
	t.Helper()
	require.NoError(t, f.client.Authenticate(context.Background(), sim.DemoCredentials))
	return f.client
}

func (f *fixture) get(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, f.server.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestTokenRequired(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.get(t, remote.PathAccount, "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, f.get(t, remote.PathAccount, "made-up").StatusCode)

	_, err := f.client.AccountInfo(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")

	assert.Equal(t, http.StatusOK, f.get(t, "/health", "").StatusCode)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("checked by the terminal", func(t *testing.T) {
		f := newFixture(t)
		bad := sim.DemoCredentials
		bad.Password = "wrong"

		err := f.client.Authenticate(ctx, bad)
		assert.ErrorIs(t, err, mql.ErrAuthFailed)
		assert.Empty(t, f.client.Token())

		c := f.login(t)
		assert.NotEmpty(t, c.Token())
		call, ok := f.eng.LastCall("login")
		require.True(t, ok)
		assert.Equal(t, []any{sim.DemoCredentials.Login}, call.Args)
	})

	t.Run("configured credentials", func(t *testing.T) {
		creds := mql.AccountCredentials{Login: 1, Password: "secret", Server: "Proxy"}
		f := newFixture(t, WithCredentials(creds))

		err := f.client.Authenticate(ctx, sim.DemoCredentials)
		assert.ErrorIs(t, err, mql.ErrAuthFailed)

		require.NoError(t, f.client.Authenticate(ctx, creds))
		_, ok := f.eng.LastCall("login")
		assert.False(t, ok)
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		f := newFixture(t)
		c := f.login(t)
		token := c.Token()
		assert.Equal(t, http.StatusOK, f.get(t, remote.PathAccount, token).StatusCode)

		require.NoError(t, c.Shutdown(ctx))
		assert.Equal(t, http.StatusUnauthorized, f.get(t, remote.PathAccount, token).StatusCode)
	})
}

func TestRoundTrip(t *testing.T) {
	f := newFixture(t)
	c := f.login(t)
	ctx := context.Background()

	acct, err := c.AccountInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "USD", acct.Currency)
	assert.Equal(t, 10000.0, acct.Balance)

	v, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(500), v.TerminalVersion)

	total, err := c.SymbolsTotal(ctx)
	require.NoError(t, err)
	symbols, err := c.SymbolsGet(ctx, "")
	require.NoError(t, err)
	assert.Len(t, symbols, int(total))

	usd, err := c.SymbolsGet(ctx, "*,!*JPY*")
	require.NoError(t, err)
	assert.Less(t, len(usd), len(symbols))

	info, err := c.SymbolInfo(ctx, "EURUSD")
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Digits)

	tick, err := c.SymbolInfoTick(ctx, "EURUSD")
	require.NoError(t, err)
	assert.Less(t, tick.Bid, tick.Ask)

	ok, err := c.SymbolSelect(ctx, "GBPUSD", true)
	require.NoError(t, err)
	assert.True(t, ok)

	rates, err := c.CopyRatesFrom(ctx, "EURUSD", mql.TimeframeH1, now, 5)
	require.NoError(t, err)
	require.Len(t, rates, 5)
	for _, r := range rates {
		assert.LessOrEqual(t, r.Low, r.High)
	}

	ticks, err := c.CopyTicksRange(ctx, "EURUSD", now.Add(-time.Minute), now, mql.CopyTicksAll)
	require.NoError(t, err)
	assert.NotEmpty(t, ticks)

	margin, err := c.OrderCalcMargin(ctx, mql.OrderTypeBuy, "EURUSD", 1, 1.1)
	require.NoError(t, err)
	assert.InDelta(t, 1100, margin, 0.001)
}

func TestTradingThroughProxy(t *testing.T) {
	j, err := journal.NewSQLite(filepath.Join(t.TempDir(), "trades.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	f := newFixture(t, WithJournal(j))
	c := f.login(t)
	ctx := context.Background()

	req := mql.NewTradeRequest().
		WithAction(mql.TradeActionDeal).
		WithSymbol("EURUSD").
		WithVolume(0.1).
		WithType(mql.OrderTypeBuy).
		WithComment("proxy")

	check, err := c.OrderCheck(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, mql.ReturnCodeCheckOK, check.ReturnCode())

	res, err := c.OrderSend(ctx, req)
	require.NoError(t, err)
	require.Equal(t, mql.ReturnCodeDone, res.ReturnCode())
	assert.Equal(t, "EURUSD", res.Request.Symbol)
	assert.Equal(t, 0.1, res.Request.Volume)

	n, err := c.PositionsTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	positions, err := c.PositionsGet(ctx, mql.Filter{Symbol: "EURUSD"})
	require.NoError(t, err)
	require.Len(t, positions, 1)

	deals, err := c.HistoryDealsGet(ctx, now.Add(-time.Hour), now.Add(time.Hour), mql.Filter{Position: positions[0].Ticket})
	require.NoError(t, err)
	assert.Len(t, deals, 1)

	entries, err := j.ListSince(time.Time{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, journal.KindCheck, entries[0].Kind)
	assert.Equal(t, journal.KindSend, entries[1].Kind)
	assert.Equal(t, res.Deal, entries[1].DealTicket)
}

func TestErrors(t *testing.T) {
	f := newFixture(t)
	c := f.login(t)
	ctx := context.Background()

	t.Run("terminal code survives", func(t *testing.T) {
		_, err := c.SymbolInfo(ctx, "NOPE")
		var te *mql.Error
		require.ErrorAs(t, err, &te)
		assert.Equal(t, mql.RuntimeNotFound, te.Code)
		assert.Equal(t, "Terminal: Not found", te.Message)
	})

	t.Run("symbol with a slash reaches the terminal", func(t *testing.T) {
		_, err := c.SymbolInfo(ctx, "EUR/USD")
		assert.ErrorIs(t, err, mql.ErrNotFound)
		call, ok := f.eng.LastCall("symbol_info")
		require.True(t, ok)
		assert.Equal(t, []any{"EUR/USD"}, call.Args)

		_, err = c.SymbolInfoTick(ctx, "EUR/USD")
		assert.ErrorIs(t, err, mql.ErrNotFound)
	})

	t.Run("scripted failure", func(t *testing.T) {
		f.eng.FailNext("positions_total", mql.RuntimeInternalFailTimeout, "Terminal: Timeout")
		_, err := c.PositionsTotal(ctx)
		assert.ErrorIs(t, err, mql.ErrInternalFailTimeout)
	})

	t.Run("malformed parameter", func(t *testing.T) {
		resp := f.get(t, remote.PathRatesFrom+"?symbol=EURUSD&timeframe=16385&count=3&from=yesterday", c.Token())
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "yesterday")
	})

	t.Run("missing parameter", func(t *testing.T) {
		resp := f.get(t, remote.PathCalcMargin+"?type=0&symbol=EURUSD&volume=1", c.Token())
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	c := f.login(t)
	_, _ = c.SymbolInfo(context.Background(), "NOPE")

	resp := f.get(t, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `mt5proxy_requests_total{route="POST /security/login",status="200"} 1`)
	assert.Contains(t, text, `mt5proxy_terminal_errors_total{code="NOT_FOUND"} 1`)
	assert.Contains(t, text, "mt5proxy_request_duration_seconds_bucket")
}

func TestRunStopsWithContext(t *testing.T) {
	sess, err := native.Initialize(context.Background(), sim.New(), "")
	require.NoError(t, err)
	srv := New(sess, WithLogger(zaptest.NewLogger(t)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
