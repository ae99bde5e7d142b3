package native

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/mt5bridge/foreign"
	"github.com/rustyeddy/mt5bridge/mql"
)

func (s *Session) AccountInfo(ctx context.Context) (mql.AccountInfo, error) {
	return call[mql.AccountInfo](ctx, s, "account_info", nil, nil)
}

func (s *Session) TerminalInfo(ctx context.Context) (mql.TerminalInfo, error) {
	return call[mql.TerminalInfo](ctx, s, "terminal_info", nil, nil)
}

// Version decodes the (version, build, date) tuple.
func (s *Session) Version(ctx context.Context) (mql.TerminalVersion, error) {
	var out mql.TerminalVersion
	v, err := s.exec(ctx, "version", nil, nil)
	if err != nil {
		return out, err
	}
	tuple, ok := v.([]any)
	if !ok || len(tuple) != 3 {
		return out, fmt.Errorf("version: %w: got %v", mql.ErrDecode, v)
	}
	err = foreign.Decode(map[string]any{
		"terminal_version": tuple[0],
		"build":            tuple[1],
		"build_date":       tuple[2],
	}, &out)
	if err != nil {
		return mql.TerminalVersion{}, fmt.Errorf("version: %w", err)
	}
	return out, nil
}

func (s *Session) SymbolsTotal(ctx context.Context) (int64, error) {
	return call[int64](ctx, s, "symbols_total", nil, nil)
}

// SymbolsGet lists symbols matching group, passed to the terminal as is.
// An empty group lists all symbols.
func (s *Session) SymbolsGet(ctx context.Context, group string) ([]mql.SymbolInfo, error) {
	var kw map[string]any
	if group != "" {
		kw = map[string]any{"group": group}
	}
	return rows[mql.SymbolInfo](ctx, s, "symbols_get", nil, kw)
}

func (s *Session) SymbolInfo(ctx context.Context, symbol string) (mql.SymbolInfo, error) {
	return call[mql.SymbolInfo](ctx, s, "symbol_info", []any{symbol}, nil)
}

func (s *Session) SymbolInfoTick(ctx context.Context, symbol string) (mql.Tick, error) {
	return call[mql.Tick](ctx, s, "symbol_info_tick", []any{symbol}, nil)
}

// SymbolSelect shows or hides symbol in Market Watch.
func (s *Session) SymbolSelect(ctx context.Context, symbol string, enable bool) (bool, error) {
	return call[bool](ctx, s, "symbol_select", []any{symbol, enable}, nil)
}

func truncate[T any](items []T, count int64) []T {
	if count >= 0 && int64(len(items)) > count {
		return items[:count]
	}
	return items
}

// CopyRatesFrom returns up to count bars ending at from.
func (s *Session) CopyRatesFrom(ctx context.Context, symbol string, tf mql.Timeframe, from time.Time, count int64) ([]mql.Rate, error) {
	out, err := rows[mql.Rate](ctx, s, "copy_rates_from",
		[]any{symbol, int64(tf), foreign.NewDateTime(from), count}, nil)
	return truncate(out, count), err
}

// CopyRatesFromPos returns up to count bars, start bars back from the current one.
func (s *Session) CopyRatesFromPos(ctx context.Context, symbol string, tf mql.Timeframe, start, count int64) ([]mql.Rate, error) {
	out, err := rows[mql.Rate](ctx, s, "copy_rates_from_pos",
		[]any{symbol, int64(tf), start, count}, nil)
	return truncate(out, count), err
}

func (s *Session) CopyRatesRange(ctx context.Context, symbol string, tf mql.Timeframe, from, to time.Time) ([]mql.Rate, error) {
	return rows[mql.Rate](ctx, s, "copy_rates_range",
		[]any{symbol, int64(tf), foreign.NewDateTime(from), foreign.NewDateTime(to)}, nil)
}

func (s *Session) CopyTicksFrom(ctx context.Context, symbol string, from time.Time, count int64, flags mql.CopyTicksFlag) ([]mql.Tick, error) {
	return rows[mql.Tick](ctx, s, "copy_ticks_from",
		[]any{symbol, foreign.NewDateTime(from), count, int64(flags)}, nil)
}

func (s *Session) CopyTicksRange(ctx context.Context, symbol string, from, to time.Time, flags mql.CopyTicksFlag) ([]mql.Tick, error) {
	return rows[mql.Tick](ctx, s, "copy_ticks_range",
		[]any{symbol, foreign.NewDateTime(from), foreign.NewDateTime(to), int64(flags)}, nil)
}

func (s *Session) OrdersTotal(ctx context.Context) (int64, error) {
	return call[int64](ctx, s, "orders_total", nil, nil)
}

func filterArgs(f mql.Filter) map[string]any {
	kw := f.Kwargs()
	if len(kw) == 0 {
		return nil
	}
	return kw
}

func (s *Session) OrdersGet(ctx context.Context, f mql.Filter) ([]mql.Order, error) {
	return rows[mql.Order](ctx, s, "orders_get", nil, filterArgs(f))
}

func (s *Session) OrderCalcMargin(ctx context.Context, t mql.OrderType, symbol string, volume, price float64) (float64, error) {
	return call[float64](ctx, s, "order_calc_margin", []any{int64(t), symbol, volume, price}, nil)
}

func (s *Session) OrderCalcProfit(ctx context.Context, t mql.OrderType, symbol string, volume, priceOpen, priceClose float64) (float64, error) {
	return call[float64](ctx, s, "order_calc_profit", []any{int64(t), symbol, volume, priceOpen, priceClose}, nil)
}

// tradeResult flattens a result record whose request field is itself a record,
// then decodes the merged dictionary.
func tradeResult[T any](ctx context.Context, s *Session, fn string, req *mql.TradeRequestBuilder) (T, error) {
	var out T
	v, err := s.exec(ctx, fn, []any{req.Fields()}, nil)
	if err != nil {
		return out, err
	}
	rec, ok := v.(*foreign.Record)
	if !ok {
		return out, fmt.Errorf("%s: %w: got %T", fn, mql.ErrDecode, v)
	}
	d := rec.AsDict()
	if inner, ok := d["request"].(*foreign.Record); ok {
		d["request"] = inner.AsDict()
	}
	if err := foreign.Decode(d, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", fn, err)
	}
	return out, nil
}

// OrderCheck asks whether the account could execute req. Only the fields set
// on req are sent.
func (s *Session) OrderCheck(ctx context.Context, req *mql.TradeRequestBuilder) (mql.CheckResult, error) {
	return tradeResult[mql.CheckResult](ctx, s, "order_check", req)
}

// OrderSend submits req. A trade server rejection is not an error: inspect
// the result's return code.
func (s *Session) OrderSend(ctx context.Context, req *mql.TradeRequestBuilder) (mql.TradeResult, error) {
	res, err := tradeResult[mql.TradeResult](ctx, s, "order_send", req)
	if err == nil {
		s.log.Info("order_send",
			zap.String("symbol", res.Request.Symbol),
			zap.String("retcode", res.ReturnCode().String()),
			zap.Int64("order", res.Order),
		)
	}
	return res, err
}

func (s *Session) PositionsTotal(ctx context.Context) (int64, error) {
	return call[int64](ctx, s, "positions_total", nil, nil)
}

func (s *Session) PositionsGet(ctx context.Context, f mql.Filter) ([]mql.Position, error) {
	return rows[mql.Position](ctx, s, "positions_get", nil, filterArgs(f))
}

func rangeArgs(from, to time.Time) []any {
	return []any{foreign.NewDateTime(from), foreign.NewDateTime(to)}
}

// historyArgs drops the date range when the filter selects by ticket or
// position.
func historyArgs(from, to time.Time, f mql.Filter) []any {
	if f.ByTicket() {
		return nil
	}
	return rangeArgs(from, to)
}

func (s *Session) HistoryOrdersTotal(ctx context.Context, from, to time.Time) (int64, error) {
	return call[int64](ctx, s, "history_orders_total", rangeArgs(from, to), nil)
}

func (s *Session) HistoryOrdersGet(ctx context.Context, from, to time.Time, f mql.Filter) ([]mql.Order, error) {
	return rows[mql.Order](ctx, s, "history_orders_get", historyArgs(from, to, f), filterArgs(f))
}

func (s *Session) HistoryDealsTotal(ctx context.Context, from, to time.Time) (int64, error) {
	return call[int64](ctx, s, "history_deals_total", rangeArgs(from, to), nil)
}

func (s *Session) HistoryDealsGet(ctx context.Context, from, to time.Time, f mql.Filter) ([]mql.Deal, error) {
	return rows[mql.Deal](ctx, s, "history_deals_get", historyArgs(from, to, f), filterArgs(f))
}
