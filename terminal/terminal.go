// Package terminal defines the operations a MetaTrader 5 terminal offers,
// independent of how the calls reach it.
package terminal

import (
	"context"
	"time"

	"github.com/rustyeddy/mt5bridge/mql"
)

// Terminal is implemented by an in-process session (terminal/native) and by
// the HTTP client of a proxy (terminal/remote).
//
// Failures reported by the terminal come back as *mql.Error carrying the
// terminal's (code, message) pair.
type Terminal interface {
	Shutdown(ctx context.Context) error

	AccountInfo(ctx context.Context) (mql.AccountInfo, error)
	TerminalInfo(ctx context.Context) (mql.TerminalInfo, error)
	Version(ctx context.Context) (mql.TerminalVersion, error)

	SymbolsTotal(ctx context.Context) (int64, error)
	SymbolsGet(ctx context.Context, group string) ([]mql.SymbolInfo, error)
	SymbolInfo(ctx context.Context, symbol string) (mql.SymbolInfo, error)
	SymbolInfoTick(ctx context.Context, symbol string) (mql.Tick, error)
	SymbolSelect(ctx context.Context, symbol string, enable bool) (bool, error)

	CopyRatesFrom(ctx context.Context, symbol string, tf mql.Timeframe, from time.Time, count int64) ([]mql.Rate, error)
	CopyRatesFromPos(ctx context.Context, symbol string, tf mql.Timeframe, start, count int64) ([]mql.Rate, error)
	CopyRatesRange(ctx context.Context, symbol string, tf mql.Timeframe, from, to time.Time) ([]mql.Rate, error)
	CopyTicksFrom(ctx context.Context, symbol string, from time.Time, count int64, flags mql.CopyTicksFlag) ([]mql.Tick, error)
	CopyTicksRange(ctx context.Context, symbol string, from, to time.Time, flags mql.CopyTicksFlag) ([]mql.Tick, error)

	OrdersTotal(ctx context.Context) (int64, error)
	OrdersGet(ctx context.Context, f mql.Filter) ([]mql.Order, error)
	OrderCalcMargin(ctx context.Context, t mql.OrderType, symbol string, volume, price float64) (float64, error)
	OrderCalcProfit(ctx context.Context, t mql.OrderType, symbol string, volume, priceOpen, priceClose float64) (float64, error)
	OrderCheck(ctx context.Context, req *mql.TradeRequestBuilder) (mql.CheckResult, error)
	OrderSend(ctx context.Context, req *mql.TradeRequestBuilder) (mql.TradeResult, error)

	PositionsTotal(ctx context.Context) (int64, error)
	PositionsGet(ctx context.Context, f mql.Filter) ([]mql.Position, error)

	HistoryOrdersTotal(ctx context.Context, from, to time.Time) (int64, error)
	HistoryOrdersGet(ctx context.Context, from, to time.Time, f mql.Filter) ([]mql.Order, error)
	HistoryDealsTotal(ctx context.Context, from, to time.Time) (int64, error)
	HistoryDealsGet(ctx context.Context, from, to time.Time, f mql.Filter) ([]mql.Deal, error)
}

// Authenticator is implemented by terminals that can switch accounts.
type Authenticator interface {
	Login(ctx context.Context, creds mql.AccountCredentials, timeout time.Duration) error
}
