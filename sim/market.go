package sim

import (
	"math"
	"path"
	"strings"
	"time"

	"github.com/rustyeddy/mt5bridge/mql"
)

type symbolSpec struct {
	name         string
	description  string
	base         string
	profit       string
	digits       int
	spread       int64
	mid          float64
	contractSize float64
}

func defaultSymbols() []*symbolSpec {
	return []*symbolSpec{
		{name: "EURUSD", description: "Euro vs US Dollar", base: "EUR", profit: "USD", digits: 5, spread: 12, mid: 1.08500, contractSize: 100000},
		{name: "GBPUSD", description: "Great Britain Pound vs US Dollar", base: "GBP", profit: "USD", digits: 5, spread: 15, mid: 1.26800, contractSize: 100000},
		{name: "USDJPY", description: "US Dollar vs Japanese Yen", base: "USD", profit: "JPY", digits: 3, spread: 14, mid: 151.200, contractSize: 100000},
	}
}

func (s *symbolSpec) point() float64 { return math.Pow10(-s.digits) }

func (s *symbolSpec) round(p float64) float64 {
	f := math.Pow10(s.digits)
	return math.Round(p*f) / f
}

// midAt is a smooth deterministic price path around the symbol's reference.
func (s *symbolSpec) midAt(ts int64) float64 {
	x := float64(ts)
	return s.mid * (1 + 0.01*math.Sin(x/43200) + 0.003*math.Sin(x/3700))
}

func (s *symbolSpec) quote(ts int64) (bid, ask float64) {
	bid = s.round(s.midAt(ts))
	ask = s.round(bid + float64(s.spread)*s.point())
	return bid, ask
}

// jitter maps ts to a stable fraction in [0,1).
func jitter(ts int64, salt uint64) float64 {
	h := uint64(ts)*2654435761 + salt*40503
	h ^= h >> 13
	return float64(h%1000) / 1000
}

func (e *Engine) lookup(name string) *symbolSpec {
	for _, s := range e.symbols {
		if s.name == name {
			return s
		}
	}
	return nil
}

func (e *Engine) symbolRecord(s *symbolSpec) mql.SymbolInfo {
	now := e.clock().Unix()
	bid, ask := s.quote(now)
	return mql.SymbolInfo{
		ChartMode:            int64(mql.SymbolChartModeBid),
		Select:               e.selected[s.name],
		Visible:              e.selected[s.name],
		Time:                 now,
		Digits:               int64(s.digits),
		Spread:               s.spread,
		SpreadFloat:          true,
		TradeCalcMode:        int64(mql.SymbolCalcModeForex),
		TradeMode:            int64(mql.SymbolTradeModeFull),
		TradeStopsLevel:      0,
		TradeExeMode:         int64(mql.SymbolTradeExecutionMarket),
		SwapMode:             int64(mql.SymbolSwapModePoints),
		SwapRollover3Days:    int64(mql.Wednesday),
		ExpirationMode:       mql.SymbolExpirationGTC | mql.SymbolExpirationDay | mql.SymbolExpirationSpecified | mql.SymbolExpirationSpecifiedDay,
		FillingMode:          mql.SymbolFillingFOK | mql.SymbolFillingIOC,
		OrderMode:            mql.SymbolOrderMarket | mql.SymbolOrderLimit | mql.SymbolOrderStop | mql.SymbolOrderStopLimit | mql.SymbolOrderSL | mql.SymbolOrderTP | mql.SymbolOrderCloseBy,
		OrderGTCMode:         int64(mql.SymbolOrdersGTC),
		Bid:                  bid,
		BidHigh:              s.round(s.mid * 1.013),
		BidLow:               s.round(s.mid * 0.987),
		Ask:                  ask,
		AskHigh:              s.round(s.mid*1.013 + float64(s.spread)*s.point()),
		AskLow:               s.round(s.mid*0.987 + float64(s.spread)*s.point()),
		Point:                s.point(),
		TradeTickValue:       1,
		TradeTickValueProfit: 1,
		TradeTickValueLoss:   1,
		TradeTickSize:        s.point(),
		TradeContractSize:    s.contractSize,
		VolumeMin:            0.01,
		VolumeMax:            500,
		VolumeStep:           0.01,
		SwapLong:             -7.2,
		SwapShort:            1.9,
		MarginHedged:         s.contractSize / 2,
		CurrencyBase:         s.base,
		CurrencyProfit:       s.profit,
		CurrencyMargin:       s.base,
		Description:          s.description,
		Name:                 s.name,
		Path:                 `Forex\` + s.name,
	}
}

// matchGroup applies the terminal's group syntax: comma separated wildcard
// patterns, with a leading ! excluding matches.
func matchGroup(group, name string) bool {
	if group == "" {
		return true
	}
	matched := false
	for _, p := range strings.Split(group, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, "!") {
			if ok, _ := path.Match(p[1:], name); ok {
				return false
			}
			continue
		}
		if ok, _ := path.Match(p, name); ok {
			matched = true
		}
	}
	return matched
}

func (e *Engine) symbolsTotal(callArgs) any {
	e.ok()
	return int64(len(e.symbols))
}

func (e *Engine) symbolsGet(a callArgs) any {
	group := ""
	if a.has(-1, "group") {
		g, err := a.str(-1, "group")
		if err != nil {
			return e.invalid(err)
		}
		group = g
	}
	var out []mql.SymbolInfo
	for _, s := range e.symbols {
		if matchGroup(group, s.name) {
			out = append(out, e.symbolRecord(s))
		}
	}
	e.ok()
	return records(out)
}

func (e *Engine) symbolArg(a callArgs) (*symbolSpec, any) {
	name, err := a.str(0, "symbol")
	if err != nil {
		return nil, e.invalid(err)
	}
	s := e.lookup(name)
	if s == nil {
		return nil, e.fail(mql.RuntimeNotFound, "Terminal: Not found")
	}
	return s, nil
}

func (e *Engine) symbolInfo(a callArgs) any {
	s, ret := e.symbolArg(a)
	if s == nil {
		return ret
	}
	e.ok()
	return record(e.symbolRecord(s))
}

func (e *Engine) tickAt(s *symbolSpec, ts time.Time) mql.Tick {
	bid, ask := s.quote(ts.Unix())
	return mql.Tick{
		Time:    ts.Unix(),
		Bid:     bid,
		Ask:     ask,
		TimeMsc: ts.UnixMilli(),
		Flags:   int64(mql.TickFlagBid | mql.TickFlagAsk),
	}
}

func (e *Engine) symbolInfoTick(a callArgs) any {
	s, ret := e.symbolArg(a)
	if s == nil {
		return ret
	}
	e.ok()
	return record(e.tickAt(s, e.clock()))
}

func (e *Engine) symbolSelect(a callArgs) any {
	s, ret := e.symbolArg(a)
	if s == nil {
		return ret
	}
	enable, err := a.boolean(1, "enable", true)
	if err != nil {
		return e.invalid(err)
	}
	e.selected[s.name] = enable
	e.ok()
	return true
}

// periodSeconds returns the bar length. Months are taken as 30 days.
func periodSeconds(tf mql.Timeframe) int64 {
	n := int64(tf) & 0x3FFF
	switch int64(tf) &^ 0x3FFF {
	case 0x4000:
		return n * 3600
	case 0x8000:
		return n * 7 * 86400
	case 0xC000:
		return n * 30 * 86400
	default:
		return n * 60
	}
}

func (s *symbolSpec) bar(open, period int64) mql.Rate {
	o := s.round(s.midAt(open))
	c := s.round(s.midAt(open + period))
	span := s.mid * 0.0005
	hi := s.round(math.Max(o, c) + span*(1+jitter(open, 1)))
	lo := s.round(math.Min(o, c) - span*(1+jitter(open, 2)))
	return mql.Rate{
		Time:       open,
		Open:       o,
		High:       hi,
		Low:        lo,
		Close:      c,
		TickVolume: 100 + int64(jitter(open, 3)*900),
		Spread:     s.spread,
	}
}

const maxBars = 100000

func (e *Engine) ratesArgs(a callArgs) (*symbolSpec, int64, any) {
	s, ret := e.symbolArg(a)
	if s == nil {
		return nil, 0, ret
	}
	code, err := a.int(1, "timeframe")
	if err != nil {
		return nil, 0, e.invalid(err)
	}
	tf, err := mql.ParseTimeframe(code)
	if err != nil {
		return nil, 0, e.invalid(err)
	}
	return s, periodSeconds(tf), nil
}

func (e *Engine) barsEndingAt(s *symbolSpec, period, lastOpen, count int64) []mql.Rate {
	if count > maxBars {
		count = maxBars
	}
	out := make([]mql.Rate, 0, count)
	for i := count - 1; i >= 0; i-- {
		out = append(out, s.bar(lastOpen-i*period, period))
	}
	return out
}

func (e *Engine) copyRatesFrom(a callArgs) any {
	s, period, ret := e.ratesArgs(a)
	if s == nil {
		return ret
	}
	from, err := a.time(2, "date_from")
	if err != nil {
		return e.invalid(err)
	}
	count, err := a.int(3, "count")
	if err != nil || count <= 0 {
		return e.fail(mql.RuntimeInvalidParams, "Invalid \"count\" argument")
	}
	last := from.Unix() / period * period
	e.ok()
	return columns(e.barsEndingAt(s, period, last, count))
}

func (e *Engine) copyRatesFromPos(a callArgs) any {
	s, period, ret := e.ratesArgs(a)
	if s == nil {
		return ret
	}
	start, err := a.int(2, "start_pos")
	if err != nil || start < 0 {
		return e.fail(mql.RuntimeInvalidParams, "Invalid \"start_pos\" argument")
	}
	count, err := a.int(3, "count")
	if err != nil || count <= 0 {
		return e.fail(mql.RuntimeInvalidParams, "Invalid \"count\" argument")
	}
	current := e.clock().Unix() / period * period
	e.ok()
	return columns(e.barsEndingAt(s, period, current-start*period, count))
}

func (e *Engine) copyRatesRange(a callArgs) any {
	s, period, ret := e.ratesArgs(a)
	if s == nil {
		return ret
	}
	from, err := a.time(2, "date_from")
	if err != nil {
		return e.invalid(err)
	}
	to, err := a.time(3, "date_to")
	if err != nil {
		return e.invalid(err)
	}
	first := (from.Unix() + period - 1) / period * period
	last := to.Unix() / period * period
	if last < first {
		e.ok()
		return columns([]mql.Rate{})
	}
	e.ok()
	return columns(e.barsEndingAt(s, period, last, (last-first)/period+1))
}

func (e *Engine) ticksBetween(s *symbolSpec, from time.Time, n int64, flags mql.CopyTicksFlag) []mql.Tick {
	if n > maxBars {
		n = maxBars
	}
	out := make([]mql.Tick, 0, n)
	for i := int64(0); i < n; i++ {
		t := e.tickAt(s, from.Add(time.Duration(i)*time.Second))
		if flags == mql.CopyTicksTrade || (flags == mql.CopyTicksAll && i%4 == 3) {
			t.Last = t.Bid
			t.Volume = 1
			t.VolumeReal = 1
			t.Flags = int64(mql.TickFlagLast | mql.TickFlagVolume)
			if i%2 == 0 {
				t.Flags |= int64(mql.TickFlagBuy)
			} else {
				t.Flags |= int64(mql.TickFlagSell)
			}
		}
		out = append(out, t)
	}
	return out
}

func (e *Engine) ticksFlag(a callArgs, i int) (mql.CopyTicksFlag, error) {
	code, err := a.int(i, "flags")
	if err != nil {
		return 0, err
	}
	return mql.ParseCopyTicksFlag(code)
}

func (e *Engine) copyTicksFrom(a callArgs) any {
	s, ret := e.symbolArg(a)
	if s == nil {
		return ret
	}
	from, err := a.time(1, "date_from")
	if err != nil {
		return e.invalid(err)
	}
	count, err := a.int(2, "count")
	if err != nil || count <= 0 {
		return e.fail(mql.RuntimeInvalidParams, "Invalid \"count\" argument")
	}
	flags, err := e.ticksFlag(a, 3)
	if err != nil {
		return e.invalid(err)
	}
	e.ok()
	return columns(e.ticksBetween(s, from, count, flags))
}

func (e *Engine) copyTicksRange(a callArgs) any {
	s, ret := e.symbolArg(a)
	if s == nil {
		return ret
	}
	from, err := a.time(1, "date_from")
	if err != nil {
		return e.invalid(err)
	}
	to, err := a.time(2, "date_to")
	if err != nil {
		return e.invalid(err)
	}
	flags, err := e.ticksFlag(a, 3)
	if err != nil {
		return e.invalid(err)
	}
	n := int64(0)
	if !to.Before(from) {
		n = int64(to.Sub(from)/time.Second) + 1
	}
	e.ok()
	return columns(e.ticksBetween(s, from, n, flags))
}
