// Package sim is a scripted in-memory terminal. It answers the terminal
// module's functions with the same wire shapes (named tuples, structured arrays,
// the last_error channel) so sessions can be exercised without MetaTrader.
package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/mt5bridge/foreign"
	"github.com/rustyeddy/mt5bridge/mql"
)

// Call is one recorded invocation.
type Call struct {
	Fn     string
	Args   []any
	Kwargs map[string]any
}

type scripted struct {
	code  int64
	msg   string
	value any
	raise bool
}

type handler func(e *Engine, a callArgs) any

var handlers = map[string]handler{
	"initialize":           (*Engine).initialize,
	"login":                (*Engine).login,
	"shutdown":             (*Engine).shutdown,
	"version":              (*Engine).version,
	"terminal_info":        (*Engine).terminalInfo,
	"account_info":         (*Engine).accountInfo,
	"symbols_total":        (*Engine).symbolsTotal,
	"symbols_get":          (*Engine).symbolsGet,
	"symbol_info":          (*Engine).symbolInfo,
	"symbol_info_tick":     (*Engine).symbolInfoTick,
	"symbol_select":        (*Engine).symbolSelect,
	"copy_rates_from":      (*Engine).copyRatesFrom,
	"copy_rates_from_pos":  (*Engine).copyRatesFromPos,
	"copy_rates_range":     (*Engine).copyRatesRange,
	"copy_ticks_from":      (*Engine).copyTicksFrom,
	"copy_ticks_range":     (*Engine).copyTicksRange,
	"orders_total":         (*Engine).ordersTotal,
	"orders_get":           (*Engine).ordersGet,
	"order_calc_margin":    (*Engine).orderCalcMargin,
	"order_calc_profit":    (*Engine).orderCalcProfit,
	"order_check":          (*Engine).orderCheck,
	"order_send":           (*Engine).orderSend,
	"positions_total":      (*Engine).positionsTotal,
	"positions_get":        (*Engine).positionsGet,
	"history_orders_total": (*Engine).historyOrdersTotal,
	"history_orders_get":   (*Engine).historyOrdersGet,
	"history_deals_total":  (*Engine).historyDealsTotal,
	"history_deals_get":    (*Engine).historyDealsGet,
}

// Engine is a foreign.Runtime standing in for a logged-in demo terminal.
type Engine struct {
	mu     sync.Mutex
	clock  func() time.Time
	log    *zap.Logger
	closed bool

	initialized bool
	creds       mql.AccountCredentials
	loggedIn    int64
	lastCode    int64
	lastMsg     string

	acct      mql.AccountInfo
	symbols   []*symbolSpec
	selected  map[string]bool
	orders    map[int64]*mql.Order
	positions map[int64]*position
	histOrd   []mql.Order
	deals     []mql.Deal
	nextID    int64
	requestID int64

	calls  []Call
	script map[string][]scripted
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock fixes the engine's notion of now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.clock = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithCredentials sets the account that initialize and login accept.
func WithCredentials(c mql.AccountCredentials) Option {
	return func(e *Engine) { e.creds = c }
}

// WithBalance sets the starting balance.
func WithBalance(b float64) Option {
	return func(e *Engine) { e.acct.Balance = b }
}

// DemoCredentials are accepted by a default Engine.
var DemoCredentials = mql.AccountCredentials{Login: 5001, Password: "demo", Server: "MetaQuotes-Demo"}

func New(opts ...Option) *Engine {
	e := &Engine{
		clock:     time.Now,
		log:       zap.NewNop(),
		creds:     DemoCredentials,
		lastCode:  int64(mql.RuntimeOK),
		lastMsg:   "Success",
		symbols:   defaultSymbols(),
		selected:  map[string]bool{},
		orders:    map[int64]*mql.Order{},
		positions: map[int64]*position{},
		nextID:    1000,
		script:    map[string][]scripted{},
		acct:      mql.AccountInfo{
			TradeMode:      int64(mql.AccountTradeModeDemo),
			Leverage:       100,
			LimitOrders:    200,
			MarginSoMode:   int64(mql.AccountStopoutModePercent),
			TradeAllowed:   true,
			TradeExpert:    true,
			MarginMode:     int64(mql.AccountMarginModeRetailHedging),
			CurrencyDigits: 2,
			Balance:        10000,
			MarginSoCall:   50,
			MarginSoSo:     30,
			Name:           "Sim Trader",
			Currency:       "USD",
			Company:        "MetaQuotes Ltd.",
		},
	}
	for _, o := range opts {
		o(e)
	}
	for _, s := range e.symbols {
		e.selected[s.name] = s.name == "EURUSD"
	}
	return e
}

// FailNext makes the next call to fn return nothing and report code on the
// error channel.
func (e *Engine) FailNext(fn string, code mql.RuntimeError, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.script[fn] = append(e.script[fn], scripted{code: int64(code), msg: msg})
}

// ReturnNext makes the next call to fn return value and report code.
func (e *Engine) ReturnNext(fn string, value any, code mql.RuntimeError, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.script[fn] = append(e.script[fn], scripted{code: int64(code), msg: msg, value: value})
}

// RaiseNext makes the next call to fn raise an exception inside the runtime.
func (e *Engine) RaiseNext(fn string, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.script[fn] = append(e.script[fn], scripted{raise: true, msg: msg})
}

// Calls returns every call received so far, last_error included.
func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Call, len(e.calls))
	copy(out, e.calls)
	return out
}

// LastCall returns the most recent call to fn.
func (e *Engine) LastCall(fn string) (Call, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := len(e.calls) - 1; i >= 0; i-- {
		if e.calls[i].Fn == fn {
			return e.calls[i], true
		}
	}
	return Call{}, false
}

func (e *Engine) Call(ctx context.Context, fn string, args []any, kwargs map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, foreign.ErrClosed
	}
	e.calls = append(e.calls, Call{Fn: fn, Args: args, Kwargs: kwargs})
	e.log.Debug("sim_call", zap.String("fn", fn), zap.Int("args", len(args)), zap.Int("kwargs", len(kwargs)))

	if fn == "last_error" {
		return []any{e.lastCode, e.lastMsg}, nil
	}

	if q := e.script[fn]; len(q) > 0 {
		s := q[0]
		e.script[fn] = q[1:]
		if s.raise {
			return nil, &foreign.CallError{Fn: fn, Type: "RuntimeError", Message: s.msg}
		}
		e.setError(s.code, s.msg)
		return s.value, nil
	}

	h, ok := handlers[fn]
	if !ok {
		return nil, &foreign.CallError{
			Fn:      fn,
			Type:    "AttributeError",
			Message: fmt.Sprintf("module 'MetaTrader5' has no attribute '%s'", fn),
		}
	}
	if !e.initialized && fn != "initialize" && fn != "shutdown" {
		return e.fail(mql.RuntimeInternalFailInit, "IPC initialize failed, MetaTrader 5 x64 not found"), nil
	}
	return h(e, callArgs{pos: args, kw: kwargs}), nil
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func (e *Engine) setError(code int64, msg string) {
	e.lastCode = code
	e.lastMsg = msg
}

func (e *Engine) ok() {
	e.setError(int64(mql.RuntimeOK), "Success")
}

// fail records code on the error channel and returns the None the terminal
// module hands back on failure.
func (e *Engine) fail(code mql.RuntimeError, msg string) any {
	e.setError(int64(code), msg)
	return nil
}

func (e *Engine) invalid(err error) any {
	return e.fail(mql.RuntimeInvalidParams, "Invalid arguments: "+err.Error())
}

func (e *Engine) nextTicket() int64 {
	e.nextID++
	return e.nextID
}

func (e *Engine) checkCredentials(a callArgs, loginIdx int) (bool, any) {
	if !a.has(loginIdx, "login") {
		return true, nil
	}
	login, err := a.int(loginIdx, "login")
	if err != nil {
		return false, e.invalid(err)
	}
	password, _ := a.str(-1, "password")
	server, _ := a.str(-1, "server")
	if login != e.creds.Login || password != e.creds.Password || (server != "" && server != e.creds.Server) {
		e.setError(int64(mql.RuntimeAuthFailed), "Terminal: Authorization failed")
		return false, false
	}
	e.loggedIn = login
	return true, nil
}

func (e *Engine) initialize(a callArgs) any {
	if a.has(0, "path") {
		if _, err := a.str(0, "path"); err != nil {
			return e.invalid(err)
		}
	}
	if ok, ret := e.checkCredentials(a, -1); !ok {
		return ret
	}
	if e.loggedIn == 0 {
		e.loggedIn = e.creds.Login
	}
	e.initialized = true
	e.ok()
	e.log.Info("sim_initialized", zap.Int64("login", e.loggedIn))
	return true
}

func (e *Engine) login(a callArgs) any {
	if !a.has(0, "login") {
		return e.invalid(fmt.Errorf("missing login"))
	}
	if ok, ret := e.checkCredentials(a, 0); !ok {
		return ret
	}
	e.ok()
	return true
}

func (e *Engine) shutdown(callArgs) any {
	e.initialized = false
	e.ok()
	return nil
}

func (e *Engine) version(callArgs) any {
	e.ok()
	return []any{int64(500), int64(4410), "12 Jul 2024"}
}

func (e *Engine) terminalInfo(callArgs) any {
	e.ok()
	return record(mql.TerminalInfo{
		Connected:            true,
		DllsAllowed:          false,
		TradeAllowed:         true,
		EmailEnabled:         false,
		NotificationsEnabled: false,
		Build:                4410,
		MaxBars:              100000,
		CodePage:             0,
		PingLast:             23150,
		Company:              "MetaQuotes Ltd.",
		Name:                 "MetaTrader 5",
		Language:             "English",
		Path:                 `C:\Program Files\MetaTrader 5`,
		DataPath:             `C:\Users\sim\AppData\Roaming\MetaQuotes\Terminal\SIM`,
		CommonDataPath:       `C:\Users\sim\AppData\Roaming\MetaQuotes\Terminal\Common`,
	})
}

func (e *Engine) accountInfo(callArgs) any {
	e.revalueLocked()
	acct := e.acct
	acct.Login = e.loggedIn
	acct.Server = e.creds.Server
	e.ok()
	return record(acct)
}
