package mql

import "strings"

// SymbolChartMode is the price a symbol's bars are built from.
type SymbolChartMode int

const (
	SymbolChartModeBid  SymbolChartMode = 0
	SymbolChartModeLast SymbolChartMode = 1
)

var symbolChartModeNames = map[SymbolChartMode]string{
	SymbolChartModeBid:  "BID",
	SymbolChartModeLast: "LAST",
}

func (m SymbolChartMode) String() string { return enumString(m, symbolChartModeNames) }

func ParseSymbolChartMode(code int64) (SymbolChartMode, error) {
	return parseEnum(code, symbolChartModeNames, "symbol chart mode")
}

// SymbolCalcMode is how margin and profit are computed for a symbol.
type SymbolCalcMode int

const (
	SymbolCalcModeForex             SymbolCalcMode = 0
	SymbolCalcModeFutures           SymbolCalcMode = 1
	SymbolCalcModeCFD               SymbolCalcMode = 2
	SymbolCalcModeCFDIndex          SymbolCalcMode = 3
	SymbolCalcModeCFDLeverage       SymbolCalcMode = 4
	SymbolCalcModeForexNoLeverage   SymbolCalcMode = 5
	SymbolCalcModeExchStocks        SymbolCalcMode = 32
	SymbolCalcModeExchFutures       SymbolCalcMode = 33
	SymbolCalcModeExchOptions       SymbolCalcMode = 34
	SymbolCalcModeExchOptionsMargin SymbolCalcMode = 36
	SymbolCalcModeExchBonds         SymbolCalcMode = 37
	SymbolCalcModeExchStocksMOEX    SymbolCalcMode = 38
	SymbolCalcModeExchBondsMOEX     SymbolCalcMode = 39
	SymbolCalcModeServCollateral    SymbolCalcMode = 64
)

var symbolCalcModeNames = map[SymbolCalcMode]string{
	SymbolCalcModeForex:             "FOREX",
	SymbolCalcModeFutures:           "FUTURES",
	SymbolCalcModeCFD:               "CFD",
	SymbolCalcModeCFDIndex:          "CFDINDEX",
	SymbolCalcModeCFDLeverage:       "CFDLEVERAGE",
	SymbolCalcModeForexNoLeverage:   "FOREX_NO_LEVERAGE",
	SymbolCalcModeExchStocks:        "EXCH_STOCKS",
	SymbolCalcModeExchFutures:       "EXCH_FUTURES",
	SymbolCalcModeExchOptions:       "EXCH_OPTIONS",
	SymbolCalcModeExchOptionsMargin: "EXCH_OPTIONS_MARGIN",
	SymbolCalcModeExchBonds:         "EXCH_BONDS",
	SymbolCalcModeExchStocksMOEX:    "EXCH_STOCKS_MOEX",
	SymbolCalcModeExchBondsMOEX:     "EXCH_BONDS_MOEX",
	SymbolCalcModeServCollateral:    "SERV_COLLATERAL",
}

func (m SymbolCalcMode) String() string { return enumString(m, symbolCalcModeNames) }

func ParseSymbolCalcMode(code int64) (SymbolCalcMode, error) {
	return parseEnum(code, symbolCalcModeNames, "symbol calc mode")
}

// SymbolTradeMode restricts which trades a symbol accepts.
type SymbolTradeMode int

const (
	SymbolTradeModeDisabled  SymbolTradeMode = 0
	SymbolTradeModeLongOnly  SymbolTradeMode = 1
	SymbolTradeModeShortOnly SymbolTradeMode = 2
	SymbolTradeModeCloseOnly SymbolTradeMode = 3
	SymbolTradeModeFull      SymbolTradeMode = 4
)

var symbolTradeModeNames = map[SymbolTradeMode]string{
	SymbolTradeModeDisabled:  "DISABLED",
	SymbolTradeModeLongOnly:  "LONGONLY",
	SymbolTradeModeShortOnly: "SHORTONLY",
	SymbolTradeModeCloseOnly: "CLOSEONLY",
	SymbolTradeModeFull:      "FULL",
}

func (m SymbolTradeMode) String() string { return enumString(m, symbolTradeModeNames) }

func ParseSymbolTradeMode(code int64) (SymbolTradeMode, error) {
	return parseEnum(code, symbolTradeModeNames, "symbol trade mode")
}

// SymbolTradeExecution is the symbol's execution model.
type SymbolTradeExecution int

const (
	SymbolTradeExecutionRequest  SymbolTradeExecution = 0
	SymbolTradeExecutionInstant  SymbolTradeExecution = 1
	SymbolTradeExecutionMarket   SymbolTradeExecution = 2
	SymbolTradeExecutionExchange SymbolTradeExecution = 3
)

var symbolTradeExecutionNames = map[SymbolTradeExecution]string{
	SymbolTradeExecutionRequest:  "REQUEST",
	SymbolTradeExecutionInstant:  "INSTANT",
	SymbolTradeExecutionMarket:   "MARKET",
	SymbolTradeExecutionExchange: "EXCHANGE",
}

func (e SymbolTradeExecution) String() string { return enumString(e, symbolTradeExecutionNames) }

func ParseSymbolTradeExecution(code int64) (SymbolTradeExecution, error) {
	return parseEnum(code, symbolTradeExecutionNames, "symbol trade execution")
}

// SymbolSwapMode is how overnight swaps are charged.
type SymbolSwapMode int

const (
	SymbolSwapModeDisabled        SymbolSwapMode = 0
	SymbolSwapModePoints          SymbolSwapMode = 1
	SymbolSwapModeCurrencySymbol  SymbolSwapMode = 2
	SymbolSwapModeCurrencyMargin  SymbolSwapMode = 3
	SymbolSwapModeCurrencyDeposit SymbolSwapMode = 4
	SymbolSwapModeInterestCurrent SymbolSwapMode = 5
	SymbolSwapModeInterestOpen    SymbolSwapMode = 6
	SymbolSwapModeReopenCurrent   SymbolSwapMode = 7
	SymbolSwapModeReopenBid       SymbolSwapMode = 8
)

var symbolSwapModeNames = map[SymbolSwapMode]string{
	SymbolSwapModeDisabled:        "DISABLED",
	SymbolSwapModePoints:          "POINTS",
	SymbolSwapModeCurrencySymbol:  "CURRENCY_SYMBOL",
	SymbolSwapModeCurrencyMargin:  "CURRENCY_MARGIN",
	SymbolSwapModeCurrencyDeposit: "CURRENCY_DEPOSIT",
	SymbolSwapModeInterestCurrent: "INTEREST_CURRENT",
	SymbolSwapModeInterestOpen:    "INTEREST_OPEN",
	SymbolSwapModeReopenCurrent:   "REOPEN_CURRENT",
	SymbolSwapModeReopenBid:       "REOPEN_BID",
}

func (m SymbolSwapMode) String() string { return enumString(m, symbolSwapModeNames) }

func ParseSymbolSwapMode(code int64) (SymbolSwapMode, error) {
	return parseEnum(code, symbolSwapModeNames, "symbol swap mode")
}

// DayOfWeek is used for the triple-swap day.
type DayOfWeek int

const (
	Sunday    DayOfWeek = 0
	Monday    DayOfWeek = 1
	Tuesday   DayOfWeek = 2
	Wednesday DayOfWeek = 3
	Thursday  DayOfWeek = 4
	Friday    DayOfWeek = 5
	Saturday  DayOfWeek = 6
)

var dayOfWeekNames = map[DayOfWeek]string{
	Sunday:    "SUNDAY",
	Monday:    "MONDAY",
	Tuesday:   "TUESDAY",
	Wednesday: "WEDNESDAY",
	Thursday:  "THURSDAY",
	Friday:    "FRIDAY",
	Saturday:  "SATURDAY",
}

func (d DayOfWeek) String() string { return enumString(d, dayOfWeekNames) }

func ParseDayOfWeek(code int64) (DayOfWeek, error) {
	return parseEnum(code, dayOfWeekNames, "day of week")
}

// SymbolOrderGTCMode is how long pending orders and stops live.
type SymbolOrderGTCMode int

const (
	SymbolOrdersGTC          SymbolOrderGTCMode = 0
	SymbolOrdersDaily        SymbolOrderGTCMode = 1
	SymbolOrdersDailyNoStops SymbolOrderGTCMode = 2
)

var symbolOrderGTCModeNames = map[SymbolOrderGTCMode]string{
	SymbolOrdersGTC:          "GTC",
	SymbolOrdersDaily:        "DAILY",
	SymbolOrdersDailyNoStops: "DAILY_NO_STOPS",
}

func (m SymbolOrderGTCMode) String() string { return enumString(m, symbolOrderGTCModeNames) }

func ParseSymbolOrderGTCMode(code int64) (SymbolOrderGTCMode, error) {
	return parseEnum(code, symbolOrderGTCModeNames, "symbol order gtc mode")
}

// SymbolOptionRight is the right granted by an option.
type SymbolOptionRight int

const (
	SymbolOptionRightCall SymbolOptionRight = 0
	SymbolOptionRightPut  SymbolOptionRight = 1
)

var symbolOptionRightNames = map[SymbolOptionRight]string{
	SymbolOptionRightCall: "CALL",
	SymbolOptionRightPut:  "PUT",
}

func (r SymbolOptionRight) String() string { return enumString(r, symbolOptionRightNames) }

func ParseSymbolOptionRight(code int64) (SymbolOptionRight, error) {
	return parseEnum(code, symbolOptionRightNames, "symbol option right")
}

// SymbolOptionMode is the exercise style of an option.
type SymbolOptionMode int

const (
	SymbolOptionModeEuropean SymbolOptionMode = 0
	SymbolOptionModeAmerican SymbolOptionMode = 1
)

var symbolOptionModeNames = map[SymbolOptionMode]string{
	SymbolOptionModeEuropean: "EUROPEAN",
	SymbolOptionModeAmerican: "AMERICAN",
}

func (m SymbolOptionMode) String() string { return enumString(m, symbolOptionModeNames) }

func ParseSymbolOptionMode(code int64) (SymbolOptionMode, error) {
	return parseEnum(code, symbolOptionModeNames, "symbol option mode")
}

// Flag sets reported in SymbolInfo.ExpirationMode, FillingMode and OrderMode.
const (
	SymbolExpirationGTC          = 1
	SymbolExpirationDay          = 2
	SymbolExpirationSpecified    = 4
	SymbolExpirationSpecifiedDay = 8

	SymbolFillingFOK = 1
	SymbolFillingIOC = 2

	SymbolOrderMarket    = 1
	SymbolOrderLimit     = 2
	SymbolOrderStop      = 4
	SymbolOrderStopLimit = 8
	SymbolOrderSL        = 16
	SymbolOrderTP        = 32
	SymbolOrderCloseBy   = 64
)

var tickFlagNames = []struct {
	bit  TickFlag
	name string
}{
	{TickFlagBid, "BID"},
	{TickFlagAsk, "ASK"},
	{TickFlagLast, "LAST"},
	{TickFlagVolume, "VOLUME"},
	{TickFlagBuy, "BUY"},
	{TickFlagSell, "SELL"},
}

// String lists the set bits, e.g. "BID|ASK".
func (f TickFlag) String() string {
	var parts []string
	for _, t := range tickFlagNames {
		if f&t.bit != 0 {
			parts = append(parts, t.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// Has reports whether every bit of other is set in f.
func (f TickFlag) Has(other TickFlag) bool { return f&other == other }
