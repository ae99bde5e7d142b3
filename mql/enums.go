// Package mql holds the terminal's code tables, the records it returns and the
// request shapes it accepts. Every integer value and field name here is part of
// the terminal's compatibility surface and must match it exactly.
package mql

import (
	"fmt"
	"strings"
)

// enumString renders a code through its name table. Unmapped codes render as
// UNKNOWN(code) so a record from a newer terminal can still be printed.
func enumString[T ~int](v T, names map[T]string) string {
	if s, ok := names[v]; ok {
		return s
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(v))
}

// parseEnum is the strict decoder: an unmapped code is a contract violation.
func parseEnum[T ~int](code int64, names map[T]string, kind string) (T, error) {
	v := T(code)
	if _, ok := names[v]; !ok {
		return v, fmt.Errorf("%s %d: %w", kind, code, ErrUnknownCode)
	}
	return v, nil
}

// lookupName resolves a variant by its name, case-insensitively.
func lookupName[T ~int](name string, names map[T]string, kind string) (T, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for v, s := range names {
		if s == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%s %q: %w", kind, name, ErrUnknownCode)
}

// Timeframe is a bar period. The low bits carry the count and the high bits the
// unit: minutes are unflagged, hours |0x4000, weeks |0x8000, months |0xC000.
type Timeframe int

const (
	timeframeHour  = 0x4000
	timeframeWeek  = 0x8000
	timeframeMonth = 0xC000
)

const (
	TimeframeM1  Timeframe = 1
	TimeframeM2  Timeframe = 2
	TimeframeM3  Timeframe = 3
	TimeframeM4  Timeframe = 4
	TimeframeM5  Timeframe = 5
	TimeframeM6  Timeframe = 6
	TimeframeM10 Timeframe = 10
	TimeframeM12 Timeframe = 12
	TimeframeM15 Timeframe = 15
	TimeframeM20 Timeframe = 20
	TimeframeM30 Timeframe = 30
	TimeframeH1  Timeframe = 1 | timeframeHour
	TimeframeH2  Timeframe = 2 | timeframeHour
	TimeframeH3  Timeframe = 3 | timeframeHour
	TimeframeH4  Timeframe = 4 | timeframeHour
	TimeframeH6  Timeframe = 6 | timeframeHour
	TimeframeH8  Timeframe = 8 | timeframeHour
	TimeframeH12 Timeframe = 12 | timeframeHour
	TimeframeD1  Timeframe = 24 | timeframeHour
	TimeframeW1  Timeframe = 1 | timeframeWeek
	TimeframeMN1 Timeframe = 1 | timeframeMonth
)

var timeframeNames = map[Timeframe]string{
	TimeframeM1: "M1", TimeframeM2: "M2", TimeframeM3: "M3", TimeframeM4: "M4", TimeframeM5: "M5", TimeframeM6: "M6",
	TimeframeM10: "M10", TimeframeM12: "M12", TimeframeM15: "M15", TimeframeM20: "M20", TimeframeM30: "M30",
	TimeframeH1: "H1", TimeframeH2: "H2", TimeframeH3: "H3", TimeframeH4: "H4", TimeframeH6: "H6", TimeframeH8: "H8", TimeframeH12: "H12",
	TimeframeD1: "D1", TimeframeW1: "W1", TimeframeMN1: "MN1",
}

func (t Timeframe) String() string { return enumString(t, timeframeNames) }

// ParseTimeframe strictly decodes a raw timeframe code.
func ParseTimeframe(code int64) (Timeframe, error) {
	return parseEnum(code, timeframeNames, "timeframe")
}

// TimeframeByName resolves names such as "H1" or "mn1".
func TimeframeByName(name string) (Timeframe, error) {
	return lookupName(name, timeframeNames, "timeframe")
}

// CopyTicksFlag selects which ticks copy_ticks_* returns.
type CopyTicksFlag int

const (
	CopyTicksAll   CopyTicksFlag = -1
	CopyTicksInfo  CopyTicksFlag = 1
	CopyTicksTrade CopyTicksFlag = 2
)

var copyTicksNames = map[CopyTicksFlag]string{
	CopyTicksAll:   "ALL",
	CopyTicksInfo:  "INFO",
	CopyTicksTrade: "TRADE",
}

func (f CopyTicksFlag) String() string { return enumString(f, copyTicksNames) }

func ParseCopyTicksFlag(code int64) (CopyTicksFlag, error) {
	return parseEnum(code, copyTicksNames, "copy ticks flag")
}

func CopyTicksFlagByName(name string) (CopyTicksFlag, error) {
	return lookupName(name, copyTicksNames, "copy ticks flag")
}

// TickFlag is a bit in Tick.Flags telling which fields changed.
type TickFlag int

const (
	TickFlagBid    TickFlag = 0x02
	TickFlagAsk    TickFlag = 0x04
	TickFlagLast   TickFlag = 0x08
	TickFlagVolume TickFlag = 0x10
	TickFlagBuy    TickFlag = 0x20
	TickFlagSell   TickFlag = 0x40
)

// OrderType is the kind of an order, also used as the direction for margin and
// profit calculations.
type OrderType int

const (
	OrderTypeBuy           OrderType = 0
	OrderTypeSell          OrderType = 1
	OrderTypeBuyLimit      OrderType = 2
	OrderTypeSellLimit     OrderType = 3
	OrderTypeBuyStop       OrderType = 4
	OrderTypeSellStop      OrderType = 5
	OrderTypeBuyStopLimit  OrderType = 6
	OrderTypeSellStopLimit OrderType = 7
	OrderTypeCloseBy       OrderType = 8
)

var orderTypeNames = map[OrderType]string{
	OrderTypeBuy:           "BUY",
	OrderTypeSell:          "SELL",
	OrderTypeBuyLimit:      "BUY_LIMIT",
	OrderTypeSellLimit:     "SELL_LIMIT",
	OrderTypeBuyStop:       "BUY_STOP",
	OrderTypeSellStop:      "SELL_STOP",
	OrderTypeBuyStopLimit:  "BUY_STOP_LIMIT",
	OrderTypeSellStopLimit: "SELL_STOP_LIMIT",
	OrderTypeCloseBy:       "CLOSE_BY",
}

func (o OrderType) String() string { return enumString(o, orderTypeNames) }

func ParseOrderType(code int64) (OrderType, error) {
	return parseEnum(code, orderTypeNames, "order type")
}

func OrderTypeByName(name string) (OrderType, error) {
	return lookupName(name, orderTypeNames, "order type")
}

// OrderState is the lifecycle state of an order.
type OrderState int

const (
	OrderStateStarted       OrderState = 0
	OrderStatePlaced        OrderState = 1
	OrderStateCanceled      OrderState = 2
	OrderStatePartial       OrderState = 3
	OrderStateFilled        OrderState = 4
	OrderStateRejected      OrderState = 5
	OrderStateExpired       OrderState = 6
	OrderStateRequestAdd    OrderState = 7
	OrderStateRequestModify OrderState = 8
	OrderStateRequestCancel OrderState = 9
)

var orderStateNames = map[OrderState]string{
	OrderStateStarted:       "STARTED",
	OrderStatePlaced:        "PLACED",
	OrderStateCanceled:      "CANCELED",
	OrderStatePartial:       "PARTIAL",
	OrderStateFilled:        "FILLED",
	OrderStateRejected:      "REJECTED",
	OrderStateExpired:       "EXPIRED",
	OrderStateRequestAdd:    "REQUEST_ADD",
	OrderStateRequestModify: "REQUEST_MODIFY",
	OrderStateRequestCancel: "REQUEST_CANCEL",
}

func (s OrderState) String() string { return enumString(s, orderStateNames) }

func ParseOrderState(code int64) (OrderState, error) {
	return parseEnum(code, orderStateNames, "order state")
}

// OrderFilling is the fill policy of an order.
type OrderFilling int

const (
	OrderFillingFOK    OrderFilling = 0
	OrderFillingIOC    OrderFilling = 1
	OrderFillingReturn OrderFilling = 2
	OrderFillingBOC    OrderFilling = 3
)

var orderFillingNames = map[OrderFilling]string{
	OrderFillingFOK:    "FOK",
	OrderFillingIOC:    "IOC",
	OrderFillingReturn: "RETURN",
	OrderFillingBOC:    "BOC",
}

func (f OrderFilling) String() string { return enumString(f, orderFillingNames) }

func ParseOrderFilling(code int64) (OrderFilling, error) {
	return parseEnum(code, orderFillingNames, "order filling")
}

func OrderFillingByName(name string) (OrderFilling, error) {
	return lookupName(name, orderFillingNames, "order filling")
}

// OrderTime is the lifetime policy of an order.
type OrderTime int

const (
	OrderTimeGTC          OrderTime = 0
	OrderTimeDay          OrderTime = 1
	OrderTimeSpecified    OrderTime = 2
	OrderTimeSpecifiedDay OrderTime = 3
)

var orderTimeNames = map[OrderTime]string{
	OrderTimeGTC:          "GTC",
	OrderTimeDay:          "DAY",
	OrderTimeSpecified:    "SPECIFIED",
	OrderTimeSpecifiedDay: "SPECIFIED_DAY",
}

func (t OrderTime) String() string { return enumString(t, orderTimeNames) }

func ParseOrderTime(code int64) (OrderTime, error) {
	return parseEnum(code, orderTimeNames, "order time")
}

func OrderTimeByName(name string) (OrderTime, error) {
	return lookupName(name, orderTimeNames, "order time")
}

// OrderReason tells what placed an order.
type OrderReason int

const (
	OrderReasonClient OrderReason = 0
	OrderReasonMobile OrderReason = 1
	OrderReasonWeb    OrderReason = 2
	OrderReasonExpert OrderReason = 3
	OrderReasonSL     OrderReason = 4
	OrderReasonTP     OrderReason = 5
	OrderReasonSO     OrderReason = 6
)

var orderReasonNames = map[OrderReason]string{
	OrderReasonClient: "CLIENT",
	OrderReasonMobile: "MOBILE",
	OrderReasonWeb:    "WEB",
	OrderReasonExpert: "EXPERT",
	OrderReasonSL:     "SL",
	OrderReasonTP:     "TP",
	OrderReasonSO:     "SO",
}

func (r OrderReason) String() string { return enumString(r, orderReasonNames) }

func ParseOrderReason(code int64) (OrderReason, error) {
	return parseEnum(code, orderReasonNames, "order reason")
}

// TradeAction is the operation a trade request performs.
type TradeAction int

const (
	TradeActionDeal    TradeAction = 1
	TradeActionPending TradeAction = 5
	TradeActionSLTP    TradeAction = 6
	TradeActionModify  TradeAction = 7
	TradeActionRemove  TradeAction = 8
	TradeActionCloseBy TradeAction = 10
)

var tradeActionNames = map[TradeAction]string{
	TradeActionDeal:    "DEAL",
	TradeActionPending: "PENDING",
	TradeActionSLTP:    "SLTP",
	TradeActionModify:  "MODIFY",
	TradeActionRemove:  "REMOVE",
	TradeActionCloseBy: "CLOSE_BY",
}

func (a TradeAction) String() string { return enumString(a, tradeActionNames) }

func ParseTradeAction(code int64) (TradeAction, error) {
	return parseEnum(code, tradeActionNames, "trade action")
}

func TradeActionByName(name string) (TradeAction, error) {
	return lookupName(name, tradeActionNames, "trade action")
}

// PositionType is the direction of an open position.
type PositionType int

const (
	PositionTypeBuy  PositionType = 0
	PositionTypeSell PositionType = 1
)

var positionTypeNames = map[PositionType]string{
	PositionTypeBuy:  "BUY",
	PositionTypeSell: "SELL",
}

func (p PositionType) String() string { return enumString(p, positionTypeNames) }

func ParsePositionType(code int64) (PositionType, error) {
	return parseEnum(code, positionTypeNames, "position type")
}

// PositionReason tells what opened a position.
type PositionReason int

const (
	PositionReasonClient PositionReason = 0
	PositionReasonMobile PositionReason = 1
	PositionReasonWeb    PositionReason = 2
	PositionReasonExpert PositionReason = 3
)

var positionReasonNames = map[PositionReason]string{
	PositionReasonClient: "CLIENT",
	PositionReasonMobile: "MOBILE",
	PositionReasonWeb:    "WEB",
	PositionReasonExpert: "EXPERT",
}

func (r PositionReason) String() string { return enumString(r, positionReasonNames) }

func ParsePositionReason(code int64) (PositionReason, error) {
	return parseEnum(code, positionReasonNames, "position reason")
}

// DealType is the kind of a history deal.
type DealType int

const (
	DealTypeBuy                    DealType = 0
	DealTypeSell                   DealType = 1
	DealTypeBalance                DealType = 2
	DealTypeCredit                 DealType = 3
	DealTypeCharge                 DealType = 4
	DealTypeCorrection             DealType = 5
	DealTypeBonus                  DealType = 6
	DealTypeCommission             DealType = 7
	DealTypeCommissionDaily        DealType = 8
	DealTypeCommissionMonthly      DealType = 9
	DealTypeCommissionAgentDaily   DealType = 10
	DealTypeCommissionAgentMonthly DealType = 11
	DealTypeInterest               DealType = 12
	DealTypeBuyCanceled            DealType = 13
	DealTypeSellCanceled           DealType = 14
	DealTypeDividend               DealType = 15
	DealTypeDividendFranked        DealType = 16
	DealTypeTax                    DealType = 17
)

var dealTypeNames = map[DealType]string{
	DealTypeBuy:                    "BUY",
	DealTypeSell:                   "SELL",
	DealTypeBalance:                "BALANCE",
	DealTypeCredit:                 "CREDIT",
	DealTypeCharge:                 "CHARGE",
	DealTypeCorrection:             "CORRECTION",
	DealTypeBonus:                  "BONUS",
	DealTypeCommission:             "COMMISSION",
	DealTypeCommissionDaily:        "COMMISSION_DAILY",
	DealTypeCommissionMonthly:      "COMMISSION_MONTHLY",
	DealTypeCommissionAgentDaily:   "COMMISSION_AGENT_DAILY",
	DealTypeCommissionAgentMonthly: "COMMISSION_AGENT_MONTHLY",
	DealTypeInterest:               "INTEREST",
	DealTypeBuyCanceled:            "BUY_CANCELED",
	DealTypeSellCanceled:           "SELL_CANCELED",
	DealTypeDividend:               "DIVIDEND",
	DealTypeDividendFranked:        "DIVIDEND_FRANKED",
	DealTypeTax:                    "TAX",
}

func (d DealType) String() string { return enumString(d, dealTypeNames) }

func ParseDealType(code int64) (DealType, error) {
	return parseEnum(code, dealTypeNames, "deal type")
}

// DealEntry tells whether a deal opened, closed or reversed a position.
type DealEntry int

const (
	DealEntryIn    DealEntry = 0
	DealEntryOut   DealEntry = 1
	DealEntryInOut DealEntry = 2
	DealEntryOutBy DealEntry = 3
)

var dealEntryNames = map[DealEntry]string{
	DealEntryIn:    "IN",
	DealEntryOut:   "OUT",
	DealEntryInOut: "INOUT",
	DealEntryOutBy: "OUT_BY",
}

func (e DealEntry) String() string { return enumString(e, dealEntryNames) }

func ParseDealEntry(code int64) (DealEntry, error) {
	return parseEnum(code, dealEntryNames, "deal entry")
}

// DealReason tells what caused a deal.
type DealReason int

const (
	DealReasonClient   DealReason = 0
	DealReasonMobile   DealReason = 1
	DealReasonWeb      DealReason = 2
	DealReasonExpert   DealReason = 3
	DealReasonSL       DealReason = 4
	DealReasonTP       DealReason = 5
	DealReasonSO       DealReason = 6
	DealReasonRollover DealReason = 7
	DealReasonVMargin  DealReason = 8
	DealReasonSplit    DealReason = 9
)

var dealReasonNames = map[DealReason]string{
	DealReasonClient:   "CLIENT",
	DealReasonMobile:   "MOBILE",
	DealReasonWeb:      "WEB",
	DealReasonExpert:   "EXPERT",
	DealReasonSL:       "SL",
	DealReasonTP:       "TP",
	DealReasonSO:       "SO",
	DealReasonRollover: "ROLLOVER",
	DealReasonVMargin:  "VMARGIN",
	DealReasonSplit:    "SPLIT",
}

func (r DealReason) String() string { return enumString(r, dealReasonNames) }

func ParseDealReason(code int64) (DealReason, error) {
	return parseEnum(code, dealReasonNames, "deal reason")
}
