package native

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rustyeddy/mt5bridge/foreign"
	"github.com/rustyeddy/mt5bridge/mql"
	"github.com/rustyeddy/mt5bridge/sim"
)

var now = time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)

func openSession(t *testing.T) (*Session, *sim.Engine) {
	t.Helper()
	eng := sim.New(sim.WithClock(func() time.Time { return now }))
	s, err := Initialize(context.Background(), eng, "", WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return s, eng
}

func requireTermError(t *testing.T, err error, code mql.RuntimeError, msg string) {
	t.Helper()
	var te *mql.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, code, te.Code)
	assert.Equal(t, msg, te.Message)
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("with path", func(t *testing.T) {
		eng := sim.New()
		_, err := Initialize(ctx, eng, `C:\MT5\terminal64.exe`)
		require.NoError(t, err)
		c, ok := eng.LastCall("initialize")
		require.True(t, ok)
		assert.Equal(t, []any{`C:\MT5\terminal64.exe`}, c.Args)
		assert.Nil(t, c.Kwargs)
	})

	t.Run("credentials", func(t *testing.T) {
		eng := sim.New()
		portable := true
		s, err := InitializeWithCredentials(ctx, eng, "", sim.DemoCredentials, 5*time.Second, &portable)
		require.NoError(t, err)
		c, _ := eng.LastCall("initialize")
		assert.Equal(t, int64(5000), c.Kwargs["timeout"])
		assert.Equal(t, true, c.Kwargs["portable"])
		assert.Equal(t, sim.DemoCredentials.Login, c.Kwargs["login"])

		acct, err := s.AccountInfo(ctx)
		require.NoError(t, err)
		assert.Equal(t, sim.DemoCredentials.Login, acct.Login)
	})

	t.Run("no timeout key when zero", func(t *testing.T) {
		eng := sim.New()
		_, err := InitializeWithCredentials(ctx, eng, "", sim.DemoCredentials, 0, nil)
		require.NoError(t, err)
		c, _ := eng.LastCall("initialize")
		assert.NotContains(t, c.Kwargs, "timeout")
		assert.NotContains(t, c.Kwargs, "portable")
	})

	t.Run("rejected credentials", func(t *testing.T) {
		eng := sim.New()
		bad := sim.DemoCredentials
		bad.Password = "wrong"
		s, err := InitializeWithCredentials(ctx, eng, "", bad, 0, nil)
		assert.Nil(t, s)
		requireTermError(t, err, mql.RuntimeAuthFailed, "Terminal: Authorization failed")
	})

	t.Run("false without negative code", func(t *testing.T) {
		eng := sim.New()
		eng.ReturnNext("initialize", false, mql.RuntimeOK, "Success")
		_, err := Initialize(ctx, eng, "")
		requireTermError(t, err, mql.RuntimeAuthFailed, mql.InitializeFailedMessage)
		assert.ErrorIs(t, err, mql.ErrAuthFailed)
	})
}

func TestLogin(t *testing.T) {
	s, eng := openSession(t)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, sim.DemoCredentials, time.Second))
	c, _ := eng.LastCall("login")
	assert.Equal(t, []any{sim.DemoCredentials.Login}, c.Args)
	assert.Equal(t, int64(1000), c.Kwargs["timeout"])

	bad := sim.DemoCredentials
	bad.Login = 42
	assert.ErrorIs(t, s.Login(ctx, bad, 0), mql.ErrAuthFailed)
}

func TestNegativeCodeDiscardsValue(t *testing.T) {
	s, eng := openSession(t)
	ctx := context.Background()

	good, err := s.AccountInfo(ctx)
	require.NoError(t, err)

	// a well formed value must not leak out when the channel reports failure
	rec := foreign.NewRecord([]string{"login"}, []any{int64(77)})
	eng.ReturnNext("account_info", rec, mql.RuntimeInternalFailTimeout, "Terminal: Timeout")
	acct, err := s.AccountInfo(ctx)
	requireTermError(t, err, mql.RuntimeInternalFailTimeout, "Terminal: Timeout")
	assert.Zero(t, acct)
	assert.NotZero(t, good.Login)

	eng.FailNext("symbols_total", mql.RuntimeFail, "Generic fail")
	n, err := s.SymbolsTotal(ctx)
	requireTermError(t, err, mql.RuntimeFail, "Generic fail")
	assert.Zero(t, n)

	_, err = s.SymbolInfo(ctx, "NOPE")
	requireTermError(t, err, mql.RuntimeNotFound, "Terminal: Not found")
	assert.ErrorIs(t, err, mql.ErrNotFound)
}

func TestEveryOperationChecksTheChannel(t *testing.T) {
	s, eng := openSession(t)
	ctx := context.Background()
	req := mql.NewTradeRequest().
		WithAction(mql.TradeActionDeal).
		WithSymbol("EURUSD").
		WithVolume(0.1).
		WithType(mql.OrderTypeBuy)

	ops := map[string]func() error{
		"account_info":         func() error { _, err := s.AccountInfo(ctx); return err },
		"terminal_info":        func() error { _, err := s.TerminalInfo(ctx); return err },
		"version":              func() error { _, err := s.Version(ctx); return err },
		"symbols_total":        func() error { _, err := s.SymbolsTotal(ctx); return err },
		"symbols_get":          func() error { _, err := s.SymbolsGet(ctx, ""); return err },
		"symbol_info":          func() error { _, err := s.SymbolInfo(ctx, "EURUSD"); return err },
		"symbol_info_tick":     func() error { _, err := s.SymbolInfoTick(ctx, "EURUSD"); return err },
		"symbol_select":        func() error { _, err := s.SymbolSelect(ctx, "EURUSD", true); return err },
		"copy_rates_from":      func() error { _, err := s.CopyRatesFrom(ctx, "EURUSD", mql.TimeframeH1, now, 10); return err },
		"copy_rates_from_pos":  func() error { _, err := s.CopyRatesFromPos(ctx, "EURUSD", mql.TimeframeH1, 0, 10); return err },
		"copy_rates_range":     func() error { _, err := s.CopyRatesRange(ctx, "EURUSD", mql.TimeframeH1, now.Add(-time.Hour), now); return err },
		"copy_ticks_from":      func() error { _, err := s.CopyTicksFrom(ctx, "EURUSD", now, 10, mql.CopyTicksAll); return err },
		"copy_ticks_range":     func() error { _, err := s.CopyTicksRange(ctx, "EURUSD", now, now.Add(time.Second), mql.CopyTicksAll); return err },
		"orders_total":         func() error { _, err := s.OrdersTotal(ctx); return err },
		"orders_get":           func() error { _, err := s.OrdersGet(ctx, mql.Filter{}); return err },
		"order_calc_margin":    func() error { _, err := s.OrderCalcMargin(ctx, mql.OrderTypeBuy, "EURUSD", 1, 1.1); return err },
		"order_calc_profit":    func() error { _, err := s.OrderCalcProfit(ctx, mql.OrderTypeBuy, "EURUSD", 1, 1.1, 1.2); return err },
		"order_check":          func() error { _, err := s.OrderCheck(ctx, req); return err },
		"order_send":           func() error { _, err := s.OrderSend(ctx, req); return err },
		"positions_total":      func() error { _, err := s.PositionsTotal(ctx); return err },
		"positions_get":        func() error { _, err := s.PositionsGet(ctx, mql.Filter{}); return err },
		"history_orders_total": func() error { _, err := s.HistoryOrdersTotal(ctx, now.Add(-time.Hour), now); return err },
		"history_orders_get":   func() error { _, err := s.HistoryOrdersGet(ctx, now.Add(-time.Hour), now, mql.Filter{}); return err },
		"history_deals_total":  func() error { _, err := s.HistoryDealsTotal(ctx, now.Add(-time.Hour), now); return err },
		"history_deals_get":    func() error { _, err := s.HistoryDealsGet(ctx, now.Add(-time.Hour), now, mql.Filter{}); return err },
	}

	for fn, op := range ops {
		t.Run(fn, func(t *testing.T) {
			require.NoError(t, op())

			eng.FailNext(fn, mql.RuntimeInvalidParams, "Invalid params for "+fn)
			requireTermError(t, op(), mql.RuntimeInvalidParams, "Invalid params for "+fn)
		})
	}
}

type raisingRuntime struct {
	code int64
}

func (r raisingRuntime) Call(_ context.Context, fn string, _ []any, _ map[string]any) (any, error) {
	if fn == "last_error" {
		return []any{r.code, "IPC timeout"}, nil
	}
	return nil, &foreign.CallError{Fn: fn, Type: "RuntimeError", Message: "boom"}
}

func (raisingRuntime) Close() error { return nil }

func TestPythonExceptions(t *testing.T) {
	ctx := context.Background()

	t.Run("non-negative code", func(t *testing.T) {
		s, eng := openSession(t)
		eng.RaiseNext("terminal_info", "boom")
		_, err := s.TerminalInfo(ctx)
		var ce *foreign.CallError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "terminal_info", ce.Fn)
	})

	t.Run("negative code wins", func(t *testing.T) {
		s := &Session{rt: raisingRuntime{code: int64(mql.RuntimeInternalFailTimeout)}, log: zaptest.NewLogger(t)}
		_, err := s.TerminalInfo(ctx)
		requireTermError(t, err, mql.RuntimeInternalFailTimeout, "IPC timeout")
	})
}

func TestDecodeDefect(t *testing.T) {
	s, eng := openSession(t)
	eng.ReturnNext("account_info", "not a record", mql.RuntimeOK, "Success")
	_, err := s.AccountInfo(context.Background())
	assert.ErrorIs(t, err, mql.ErrDecode)

	eng.ReturnNext("version", []any{int64(500)}, mql.RuntimeOK, "Success")
	_, err = s.Version(context.Background())
	assert.ErrorIs(t, err, mql.ErrDecode)
}

func TestShutdownNeverFails(t *testing.T) {
	s, eng := openSession(t)
	ctx := context.Background()

	eng.RaiseNext("shutdown", "already gone")
	assert.NoError(t, s.Shutdown(ctx))

	require.NoError(t, eng.Close())
	assert.NoError(t, s.Shutdown(ctx))

	_, err := s.AccountInfo(ctx)
	assert.True(t, errors.Is(err, foreign.ErrClosed))
}

func TestVersion(t *testing.T) {
	s, _ := openSession(t)
	v, err := s.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mql.TerminalVersion{TerminalVersion: 500, Build: 4410, BuildDate: "12 Jul 2024"}, v)
}

func TestCopyRatesFrom(t *testing.T) {
	s, eng := openSession(t)
	ctx := context.Background()

	rates, err := s.CopyRatesFrom(ctx, "EURUSD", mql.TimeframeH1, now, 50)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(rates), 50)
	for _, r := range rates {
		assert.LessOrEqual(t, r.Low, math2(r.Open, r.Close, false))
		assert.GreaterOrEqual(t, r.High, math2(r.Open, r.Close, true))
	}

	c, ok := eng.LastCall("copy_rates_from")
	require.True(t, ok)
	assert.Equal(t, int64(16385), c.Args[1])
	assert.IsType(t, foreign.DateTime{}, c.Args[2])
}

func math2(a, b float64, max bool) float64 {
	if (a > b) == max {
		return a
	}
	return b
}

func TestCopyRatesTruncatesToCount(t *testing.T) {
	s, eng := openSession(t)
	ctx := context.Background()

	over := &foreign.Columns{
		Fields: []string{"time", "open", "high", "low", "close", "tick_volume", "spread", "real_volume"},
		Data: map[string][]any{
			"time":        {int64(1), int64(2), int64(3)},
			"open":        {1.0, 1.0, 1.0},
			"high":        {1.0, 1.0, 1.0},
			"low":         {1.0, 1.0, 1.0},
			"close":       {1.0, 1.0, 1.0},
			"tick_volume": {int64(1), int64(1), int64(1)},
			"spread":      {int64(0), int64(0), int64(0)},
			"real_volume": {int64(0), int64(0), int64(0)},
		},
	}
	eng.ReturnNext("copy_rates_from", over, mql.RuntimeOK, "Success")
	rates, err := s.CopyRatesFrom(ctx, "EURUSD", mql.TimeframeM1, now, 2)
	require.NoError(t, err)
	assert.Len(t, rates, 2)

	eng.ReturnNext("copy_rates_from_pos", over, mql.RuntimeOK, "Success")
	rates, err = s.CopyRatesFromPos(ctx, "EURUSD", mql.TimeframeM1, 0, 1)
	require.NoError(t, err)
	assert.Len(t, rates, 1)
}

func TestNilListIsEmpty(t *testing.T) {
	s, eng := openSession(t)
	eng.ReturnNext("positions_get", nil, mql.RuntimeOK, "Success")
	positions, err := s.PositionsGet(context.Background(), mql.Filter{})
	require.NoError(t, err)
	assert.NotNil(t, positions)
	assert.Empty(t, positions)
}

func TestSymbolsGetForwardsGroup(t *testing.T) {
	s, eng := openSession(t)
	ctx := context.Background()

	syms, err := s.SymbolsGet(ctx, "*,!*JPY*")
	require.NoError(t, err)
	assert.Len(t, syms, 2)
	c, _ := eng.LastCall("symbols_get")
	assert.Equal(t, "*,!*JPY*", c.Kwargs["group"])

	_, err = s.SymbolsGet(ctx, "")
	require.NoError(t, err)
	c, _ = eng.LastCall("symbols_get")
	assert.Nil(t, c.Kwargs)
}

func TestSymbolInfoProperty(t *testing.T) {
	s, _ := openSession(t)
	info, err := s.SymbolInfo(context.Background(), "USDJPY")
	require.NoError(t, err)

	point, err := info.InfoFloat(mql.SymbolInfoPoint)
	require.NoError(t, err)
	assert.Equal(t, info.Point, point)

	_, err = info.InfoString(mql.SymbolInfoPoint)
	assert.ErrorIs(t, err, mql.ErrPropertyKind)
}

func TestOrderRequestOmitsUnsetFields(t *testing.T) {
	s, eng := openSession(t)
	ctx := context.Background()

	tick, err := s.SymbolInfoTick(ctx, "EURUSD")
	require.NoError(t, err)

	req := mql.NewTradeRequest().
		WithAction(mql.TradeActionDeal).
		WithSymbol("EURUSD").
		WithVolume(0.2).
		WithPrice(tick.Ask).
		WithType(mql.OrderTypeBuy)

	_, err = s.OrderSend(ctx, req)
	require.NoError(t, err)

	c, ok := eng.LastCall("order_send")
	require.True(t, ok)
	sent, ok := c.Args[0].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, sent, "sl")
	assert.NotContains(t, sent, "tp")
	assert.Len(t, sent, 5)
}

func TestCheckThenSendEchoesRequest(t *testing.T) {
	s, _ := openSession(t)
	ctx := context.Background()

	req := mql.NewTradeRequest().
		WithAction(mql.TradeActionDeal).
		WithSymbol("GBPUSD").
		WithVolume(0.3).
		WithType(mql.OrderTypeSell).
		WithComment("echo")

	check, err := s.OrderCheck(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, mql.ReturnCodeCheckOK, check.ReturnCode())
	assert.Equal(t, "GBPUSD", check.Request.Symbol)

	res, err := s.OrderSend(ctx, req)
	require.NoError(t, err)
	assert.True(t, res.ReturnCode().Succeeded())
	assert.Equal(t, "GBPUSD", res.Request.Symbol)
	assert.Equal(t, 0.3, res.Request.Volume)
	assert.Equal(t, "echo", res.Request.Comment)

	positions, err := s.PositionsGet(ctx, mql.Filter{Symbol: "GBPUSD"})
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, int64(mql.PositionTypeSell), positions[0].Type)
}

func TestHistoryByPositionDropsDates(t *testing.T) {
	s, eng := openSession(t)
	ctx := context.Background()

	res, err := s.OrderSend(ctx, mql.NewTradeRequest().
		WithAction(mql.TradeActionDeal).
		WithSymbol("EURUSD").
		WithVolume(0.1).
		WithType(mql.OrderTypeBuy))
	require.NoError(t, err)

	positions, err := s.PositionsGet(ctx, mql.Filter{})
	require.NoError(t, err)
	require.Len(t, positions, 1)

	deals, err := s.HistoryDealsGet(ctx, time.Time{}, time.Time{}, mql.Filter{Position: positions[0].Ticket})
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, res.Deal, deals[0].Ticket)

	c, _ := eng.LastCall("history_deals_get")
	assert.Nil(t, c.Args)
	assert.Equal(t, positions[0].Ticket, c.Kwargs["position"])

	orders, err := s.HistoryOrdersGet(ctx, now.Add(-time.Minute), now.Add(time.Minute), mql.Filter{Symbol: "EURUSD"})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	c, _ = eng.LastCall("history_orders_get")
	assert.Len(t, c.Args, 2)
}
