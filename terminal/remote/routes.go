package remote

import "net/url"

// Routes served by the proxy. Paths ending in a slash are collections.
const (
	PathLogin            = "/security/login"
	PathLogout           = "/security/logout"
	PathAccount          = "/account/"
	PathTerminal         = "/terminal/"
	PathVersion          = "/terminal/version"
	PathSymbolsTotal     = "/symbols/total"
	PathSymbols          = "/symbols/"
	PathRatesFrom        = "/rates/from"
	PathRatesFromPos     = "/rates/from_pos"
	PathRatesRange       = "/rates/range"
	PathTicksFrom        = "/ticks/from"
	PathTicksRange       = "/ticks/range"
	PathOrdersTotal      = "/orders/total"
	PathOrders           = "/orders/"
	PathCalcMargin       = "/orders/calc_margin"
	PathCalcProfit       = "/orders/calc_profit"
	PathOrderCheck       = "/orders/check"
	PathOrderSend        = "/orders/send"
	PathPositionsTotal   = "/positions/total"
	PathPositions        = "/positions/"
	PathHistoryOrdersTot = "/history/orders/total"
	PathHistoryOrders    = "/history/orders/"
	PathHistoryDealsTot  = "/history/deals/total"
	PathHistoryDeals     = "/history/deals/"
)

// Query parameter names.
const (
	ParamGroup      = "group"
	ParamSymbol     = "symbol"
	ParamTicket     = "ticket"
	ParamPosition   = "position"
	ParamTimeframe  = "timeframe"
	ParamFrom       = "from"
	ParamTo         = "to"
	ParamStart      = "start"
	ParamCount      = "count"
	ParamFlags      = "flags"
	ParamEnable     = "enable"
	ParamType       = "type"
	ParamVolume     = "volume"
	ParamPrice      = "price"
	ParamPriceOpen  = "price_open"
	ParamPriceClose = "price_close"
)

// LoginRequest is the body of a login call. TimeoutMs is forwarded to the
// terminal when set.
type LoginRequest struct {
	Login     int64  `json:"login"`
	Password  string `json:"password"`
	Server    string `json:"server"`
	TimeoutMs int64  `json:"timeout,omitempty"`
}

// SymbolPath returns the path of one symbol, or of one of its sub-resources
// ("tick", "select").
func SymbolPath(symbol, sub string) string {
	p := PathSymbols + url.PathEscape(symbol)
	if sub != "" {
		p += "/" + sub
	}
	return p
}
