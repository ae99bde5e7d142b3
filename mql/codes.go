package mql

// ReturnCode is the trade server's answer to a check or send request.
// A passing order_check reports 0.
type ReturnCode int

const (
	ReturnCodeCheckOK            ReturnCode = 0
	ReturnCodeRequote            ReturnCode = 10004
	ReturnCodeReject             ReturnCode = 10006
	ReturnCodeCancel             ReturnCode = 10007
	ReturnCodePlaced             ReturnCode = 10008
	ReturnCodeDone               ReturnCode = 10009
	ReturnCodeDonePartial        ReturnCode = 10010
	ReturnCodeError              ReturnCode = 10011
	ReturnCodeTimeout            ReturnCode = 10012
	ReturnCodeInvalid            ReturnCode = 10013
	ReturnCodeInvalidVolume      ReturnCode = 10014
	ReturnCodeInvalidPrice       ReturnCode = 10015
	ReturnCodeInvalidStops       ReturnCode = 10016
	ReturnCodeTradeDisabled      ReturnCode = 10017
	ReturnCodeMarketClosed       ReturnCode = 10018
	ReturnCodeNoMoney            ReturnCode = 10019
	ReturnCodePriceChanged       ReturnCode = 10020
	ReturnCodePriceOff           ReturnCode = 10021
	ReturnCodeInvalidExpiration  ReturnCode = 10022
	ReturnCodeOrderChanged       ReturnCode = 10023
	ReturnCodeTooManyRequests    ReturnCode = 10024
	ReturnCodeNoChanges          ReturnCode = 10025
	ReturnCodeServerDisablesAT   ReturnCode = 10026
	ReturnCodeClientDisablesAT   ReturnCode = 10027
	ReturnCodeLocked             ReturnCode = 10028
	ReturnCodeFrozen             ReturnCode = 10029
	ReturnCodeInvalidFill        ReturnCode = 10030
	ReturnCodeConnection         ReturnCode = 10031
	ReturnCodeOnlyReal           ReturnCode = 10032
	ReturnCodeLimitOrders        ReturnCode = 10033
	ReturnCodeLimitVolume        ReturnCode = 10034
	ReturnCodeInvalidOrder       ReturnCode = 10035
	ReturnCodePositionClosed     ReturnCode = 10036
	ReturnCodeInvalidCloseVolume ReturnCode = 10038
	ReturnCodeCloseOrderExist    ReturnCode = 10039
	ReturnCodeLimitPositions     ReturnCode = 10040
	ReturnCodeRejectCancel       ReturnCode = 10041
	ReturnCodeLongOnly           ReturnCode = 10042
	ReturnCodeShortOnly          ReturnCode = 10043
	ReturnCodeCloseOnly          ReturnCode = 10044
	ReturnCodeFIFOClose          ReturnCode = 10045
)

var returnCodeNames = map[ReturnCode]string{
	ReturnCodeCheckOK:            "CHECK_OK",
	ReturnCodeRequote:            "REQUOTE",
	ReturnCodeReject:             "REJECT",
	ReturnCodeCancel:             "CANCEL",
	ReturnCodePlaced:             "PLACED",
	ReturnCodeDone:               "DONE",
	ReturnCodeDonePartial:        "DONE_PARTIAL",
	ReturnCodeError:              "ERROR",
	ReturnCodeTimeout:            "TIMEOUT",
	ReturnCodeInvalid:            "INVALID",
	ReturnCodeInvalidVolume:      "INVALID_VOLUME",
	ReturnCodeInvalidPrice:       "INVALID_PRICE",
	ReturnCodeInvalidStops:       "INVALID_STOPS",
	ReturnCodeTradeDisabled:      "TRADE_DISABLED",
	ReturnCodeMarketClosed:       "MARKET_CLOSED",
	ReturnCodeNoMoney:            "NO_MONEY",
	ReturnCodePriceChanged:       "PRICE_CHANGED",
	ReturnCodePriceOff:           "PRICE_OFF",
	ReturnCodeInvalidExpiration:  "INVALID_EXPIRATION",
	ReturnCodeOrderChanged:       "ORDER_CHANGED",
	ReturnCodeTooManyRequests:    "TOO_MANY_REQUESTS",
	ReturnCodeNoChanges:          "NO_CHANGES",
	ReturnCodeServerDisablesAT:   "SERVER_DISABLES_AT",
	ReturnCodeClientDisablesAT:   "CLIENT_DISABLES_AT",
	ReturnCodeLocked:             "LOCKED",
	ReturnCodeFrozen:             "FROZEN",
	ReturnCodeInvalidFill:        "INVALID_FILL",
	ReturnCodeConnection:         "CONNECTION",
	ReturnCodeOnlyReal:           "ONLY_REAL",
	ReturnCodeLimitOrders:        "LIMIT_ORDERS",
	ReturnCodeLimitVolume:        "LIMIT_VOLUME",
	ReturnCodeInvalidOrder:       "INVALID_ORDER",
	ReturnCodePositionClosed:     "POSITION_CLOSED",
	ReturnCodeInvalidCloseVolume: "INVALID_CLOSE_VOLUME",
	ReturnCodeCloseOrderExist:    "CLOSE_ORDER_EXIST",
	ReturnCodeLimitPositions:     "LIMIT_POSITIONS",
	ReturnCodeRejectCancel:       "REJECT_CANCEL",
	ReturnCodeLongOnly:           "LONG_ONLY",
	ReturnCodeShortOnly:          "SHORT_ONLY",
	ReturnCodeCloseOnly:          "CLOSE_ONLY",
	ReturnCodeFIFOClose:          "FIFO_CLOSE",
}

func (r ReturnCode) String() string { return enumString(r, returnCodeNames) }

func ParseReturnCode(code int64) (ReturnCode, error) {
	return parseEnum(code, returnCodeNames, "return code")
}

// Succeeded reports whether the request was accepted by the server.
func (r ReturnCode) Succeeded() bool {
	switch r {
	case ReturnCodeCheckOK, ReturnCodePlaced, ReturnCodeDone, ReturnCodeDonePartial:
		return true
	}
	return false
}

// RuntimeError is a code reported on the terminal's last_error channel.
// Negative values mean the preceding call failed.
type RuntimeError int

const (
	RuntimeOK                  RuntimeError = 1
	RuntimeFail                RuntimeError = -1
	RuntimeInvalidParams       RuntimeError = -2
	RuntimeNoMemory            RuntimeError = -3
	RuntimeNotFound            RuntimeError = -4
	RuntimeInvalidVersion      RuntimeError = -5
	RuntimeAuthFailed          RuntimeError = -6
	RuntimeUnsupported         RuntimeError = -7
	RuntimeAutoTradingDisabled RuntimeError = -8
	RuntimeInternalFail        RuntimeError = -10000
	RuntimeInternalFailSend    RuntimeError = -10001
	RuntimeInternalFailReceive RuntimeError = -10002
	RuntimeInternalFailInit    RuntimeError = -10003
	RuntimeInternalFailConnect RuntimeError = -10004
	RuntimeInternalFailTimeout RuntimeError = -10005
)

var runtimeErrorNames = map[RuntimeError]string{
	RuntimeOK:                  "OK",
	RuntimeFail:                "FAIL",
	RuntimeInvalidParams:       "INVALID_PARAMS",
	RuntimeNoMemory:            "NO_MEMORY",
	RuntimeNotFound:            "NOT_FOUND",
	RuntimeInvalidVersion:      "INVALID_VERSION",
	RuntimeAuthFailed:          "AUTH_FAILED",
	RuntimeUnsupported:         "UNSUPPORTED",
	RuntimeAutoTradingDisabled: "AUTO_TRADING_DISABLED",
	RuntimeInternalFail:        "INTERNAL_FAIL",
	RuntimeInternalFailSend:    "INTERNAL_FAIL_SEND",
	RuntimeInternalFailReceive: "INTERNAL_FAIL_RECEIVE",
	RuntimeInternalFailInit:    "INTERNAL_FAIL_INIT",
	RuntimeInternalFailConnect: "INTERNAL_FAIL_CONNECT",
	RuntimeInternalFailTimeout: "INTERNAL_FAIL_TIMEOUT",
}

func (e RuntimeError) String() string { return enumString(e, runtimeErrorNames) }

// Failed reports whether the code signals a failed call.
func (e RuntimeError) Failed() bool { return e < 0 }

func ParseRuntimeError(code int64) (RuntimeError, error) {
	return parseEnum(code, runtimeErrorNames, "runtime error")
}

// AccountTradeMode tells what kind of account is logged in.
type AccountTradeMode int

const (
	AccountTradeModeDemo    AccountTradeMode = 0
	AccountTradeModeContest AccountTradeMode = 1
	AccountTradeModeReal    AccountTradeMode = 2
)

var accountTradeModeNames = map[AccountTradeMode]string{
	AccountTradeModeDemo:    "DEMO",
	AccountTradeModeContest: "CONTEST",
	AccountTradeModeReal:    "REAL",
}

func (m AccountTradeMode) String() string { return enumString(m, accountTradeModeNames) }

func ParseAccountTradeMode(code int64) (AccountTradeMode, error) {
	return parseEnum(code, accountTradeModeNames, "account trade mode")
}

// AccountStopoutMode is the unit of the stop-out levels.
type AccountStopoutMode int

const (
	AccountStopoutModePercent AccountStopoutMode = 0
	AccountStopoutModeMoney   AccountStopoutMode = 1
)

var accountStopoutModeNames = map[AccountStopoutMode]string{
	AccountStopoutModePercent: "PERCENT",
	AccountStopoutModeMoney:   "MONEY",
}

func (m AccountStopoutMode) String() string { return enumString(m, accountStopoutModeNames) }

func ParseAccountStopoutMode(code int64) (AccountStopoutMode, error) {
	return parseEnum(code, accountStopoutModeNames, "account stopout mode")
}

// AccountMarginMode is the position accounting model.
type AccountMarginMode int

const (
	AccountMarginModeRetailNetting AccountMarginMode = 0
	AccountMarginModeExchange      AccountMarginMode = 1
	AccountMarginModeRetailHedging AccountMarginMode = 2
)

var accountMarginModeNames = map[AccountMarginMode]string{
	AccountMarginModeRetailNetting: "RETAIL_NETTING",
	AccountMarginModeExchange:      "EXCHANGE",
	AccountMarginModeRetailHedging: "RETAIL_HEDGING",
}

func (m AccountMarginMode) String() string { return enumString(m, accountMarginModeNames) }

func ParseAccountMarginMode(code int64) (AccountMarginMode, error) {
	return parseEnum(code, accountMarginModeNames, "account margin mode")
}
