package mql

import "time"

// AccountCredentials identifies a trading account on a server.
type AccountCredentials struct {
	Login    int64  `json:"login" yaml:"login"`
	Password string `json:"password" yaml:"password"`
	Server   string `json:"server" yaml:"server"`
}

// AccountInfo is the snapshot returned by account_info.
type AccountInfo struct {
	Login             int64   `json:"login"`
	TradeMode         int64   `json:"trade_mode"`
	Leverage          int64   `json:"leverage"`
	LimitOrders       int64   `json:"limit_orders"`
	MarginSoMode      int64   `json:"margin_so_mode"`
	TradeAllowed      bool    `json:"trade_allowed"`
	TradeExpert       bool    `json:"trade_expert"`
	MarginMode        int64   `json:"margin_mode"`
	CurrencyDigits    int64   `json:"currency_digits"`
	FifoClose         bool    `json:"fifo_close"`
	Balance           float64 `json:"balance"`
	Credit            float64 `json:"credit"`
	Profit            float64 `json:"profit"`
	Equity            float64 `json:"equity"`
	Margin            float64 `json:"margin"`
	MarginFree        float64 `json:"margin_free"`
	MarginLevel       float64 `json:"margin_level"`
	MarginSoCall      float64 `json:"margin_so_call"`
	MarginSoSo        float64 `json:"margin_so_so"`
	MarginInitial     float64 `json:"margin_initial"`
	MarginMaintenance float64 `json:"margin_maintenance"`
	Assets            float64 `json:"assets"`
	Liabilities       float64 `json:"liabilities"`
	CommissionBlocked float64 `json:"commission_blocked"`
	Name              string  `json:"name"`
	Server            string  `json:"server"`
	Currency          string  `json:"currency"`
	Company           string  `json:"company"`
}

// TerminalInfo describes the running terminal.
type TerminalInfo struct {
	CommunityAccount     bool    `json:"community_account"`
	CommunityConnection  bool    `json:"community_connection"`
	Connected            bool    `json:"connected"`
	DllsAllowed          bool    `json:"dlls_allowed"`
	TradeAllowed         bool    `json:"trade_allowed"`
	TradeAPIDisabled     bool    `json:"tradeapi_disabled"`
	EmailEnabled         bool    `json:"email_enabled"`
	FtpEnabled           bool    `json:"ftp_enabled"`
	NotificationsEnabled bool    `json:"notifications_enabled"`
	MQID                 bool    `json:"mqid"`
	Build                int64   `json:"build"`
	MaxBars              int64   `json:"maxbars"`
	CodePage             int64   `json:"codepage"`
	PingLast             int64   `json:"ping_last"`
	CommunityBalance     float64 `json:"community_balance"`
	Retransmission       float64 `json:"retransmission"`
	Company              string  `json:"company"`
	Name                 string  `json:"name"`
	Language             string  `json:"language"`
	Path                 string  `json:"path"`
	DataPath             string  `json:"data_path"`
	CommonDataPath       string  `json:"commondata_path"`
}

// TerminalVersion is decoded from the positional (version, build, date) tuple.
type TerminalVersion struct {
	TerminalVersion int64  `json:"terminal_version"`
	Build           int64  `json:"build"`
	BuildDate       string `json:"build_date"`
}

// Tick is the last price snapshot of a symbol.
type Tick struct {
	Time       int64   `json:"time"`
	Bid        float64 `json:"bid"`
	Ask        float64 `json:"ask"`
	Last       float64 `json:"last"`
	Volume     int64   `json:"volume"`
	TimeMsc    int64   `json:"time_msc"`
	Flags      int64   `json:"flags"`
	VolumeReal float64 `json:"volume_real"`
}

// Timestamp returns the tick time with millisecond precision.
func (t Tick) Timestamp() time.Time { return time.UnixMilli(t.TimeMsc).UTC() }

// TickFlags returns Flags as a bit set.
func (t Tick) TickFlags() TickFlag { return TickFlag(t.Flags) }

// Rate is one OHLC bar.
type Rate struct {
	Time       int64   `json:"time"`
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	Close      float64 `json:"close"`
	TickVolume int64   `json:"tick_volume"`
	Spread     int64   `json:"spread"`
	RealVolume int64   `json:"real_volume"`
}

// Timestamp returns the bar open time. Terminal times carry no zone, so the
// result is in UTC with the server's wall clock.
func (r Rate) Timestamp() time.Time { return time.Unix(r.Time, 0).UTC() }

// Order is an active or historical order.
type Order struct {
	Ticket         int64   `json:"ticket"`
	TimeSetup      int64   `json:"time_setup"`
	TimeSetupMsc   int64   `json:"time_setup_msc"`
	TimeDone       int64   `json:"time_done"`
	TimeDoneMsc    int64   `json:"time_done_msc"`
	TimeExpiration int64   `json:"time_expiration"`
	Type           int64   `json:"type"`
	TypeTime       int64   `json:"type_time"`
	TypeFilling    int64   `json:"type_filling"`
	State          int64   `json:"state"`
	Magic          int64   `json:"magic"`
	PositionID     int64   `json:"position_id"`
	PositionByID   int64   `json:"position_by_id"`
	Reason         int64   `json:"reason"`
	VolumeInitial  float64 `json:"volume_initial"`
	VolumeCurrent  float64 `json:"volume_current"`
	PriceOpen      float64 `json:"price_open"`
	SL             float64 `json:"sl"`
	TP             float64 `json:"tp"`
	PriceCurrent   float64 `json:"price_current"`
	PriceStopLimit float64 `json:"price_stoplimit"`
	Symbol         string  `json:"symbol"`
	Comment        string  `json:"comment"`
	ExternalID     string  `json:"external_id"`
}

// Position is an open position.
type Position struct {
	Ticket        int64   `json:"ticket"`
	Time          int64   `json:"time"`
	TimeMsc       int64   `json:"time_msc"`
	TimeUpdate    int64   `json:"time_update"`
	TimeUpdateMsc int64   `json:"time_update_msc"`
	Type          int64   `json:"type"`
	Magic         int64   `json:"magic"`
	Identifier    int64   `json:"identifier"`
	Reason        int64   `json:"reason"`
	Volume        float64 `json:"volume"`
	PriceOpen     float64 `json:"price_open"`
	SL            float64 `json:"sl"`
	TP            float64 `json:"tp"`
	PriceCurrent  float64 `json:"price_current"`
	Swap          float64 `json:"swap"`
	Profit        float64 `json:"profit"`
	Symbol        string  `json:"symbol"`
	Comment       string  `json:"comment"`
	ExternalID    string  `json:"external_id"`
}

// Deal is an executed deal from the account history.
type Deal struct {
	Ticket     int64   `json:"ticket"`
	Order      int64   `json:"order"`
	Time       int64   `json:"time"`
	TimeMsc    int64   `json:"time_msc"`
	Type       int64   `json:"type"`
	Entry      int64   `json:"entry"`
	Magic      int64   `json:"magic"`
	PositionID int64   `json:"position_id"`
	Reason     int64   `json:"reason"`
	Volume     float64 `json:"volume"`
	Price      float64 `json:"price"`
	Commission float64 `json:"commission"`
	Swap       float64 `json:"swap"`
	Profit     float64 `json:"profit"`
	Fee        float64 `json:"fee"`
	Symbol     string  `json:"symbol"`
	Comment    string  `json:"comment"`
	ExternalID string  `json:"external_id"`
}

// TradeRequest is the request as echoed back inside a check or send result.
// The terminal fills every field, using zero for those the caller left out.
type TradeRequest struct {
	Action      int64   `json:"action"`
	Magic       int64   `json:"magic"`
	Order       int64   `json:"order"`
	Symbol      string  `json:"symbol"`
	Volume      float64 `json:"volume"`
	Price       float64 `json:"price"`
	StopLimit   float64 `json:"stoplimit"`
	SL          float64 `json:"sl"`
	TP          float64 `json:"tp"`
	Deviation   int64   `json:"deviation"`
	Type        int64   `json:"type"`
	TypeFilling int64   `json:"type_filling"`
	TypeTime    int64   `json:"type_time"`
	Expiration  int64   `json:"expiration"`
	Comment     string  `json:"comment"`
	Position    int64   `json:"position"`
	PositionBy  int64   `json:"position_by"`
}

// TradeResult is the outcome of order_send.
type TradeResult struct {
	Retcode         int64        `json:"retcode"`
	Deal            int64        `json:"deal"`
	Order           int64        `json:"order"`
	Volume          float64      `json:"volume"`
	Price           float64      `json:"price"`
	Bid             float64      `json:"bid"`
	Ask             float64      `json:"ask"`
	Comment         string       `json:"comment"`
	RequestID       int64        `json:"request_id"`
	RetcodeExternal int64        `json:"retcode_external"`
	Request         TradeRequest `json:"request"`
}

// ReturnCode returns Retcode as a code table member.
func (r TradeResult) ReturnCode() ReturnCode { return ReturnCode(r.Retcode) }

// CheckResult is the outcome of order_check.
type CheckResult struct {
	Retcode     int64        `json:"retcode"`
	Balance     float64      `json:"balance"`
	Equity      float64      `json:"equity"`
	Profit      float64      `json:"profit"`
	Margin      float64      `json:"margin"`
	MarginFree  float64      `json:"margin_free"`
	MarginLevel float64      `json:"margin_level"`
	Comment     string       `json:"comment"`
	Request     TradeRequest `json:"request"`
}

// ReturnCode returns Retcode as a code table member.
func (r CheckResult) ReturnCode() ReturnCode { return ReturnCode(r.Retcode) }

// Filter narrows orders_get, positions_get and the history queries. Only
// non-zero fields are forwarded.
type Filter struct {
	Symbol   string `json:"symbol,omitempty"`
	Group    string `json:"group,omitempty"`
	Ticket   int64  `json:"ticket,omitempty"`
	Position int64  `json:"position,omitempty"`
}

// Kwargs returns the set selectors keyed by the terminal's argument names.
func (f Filter) Kwargs() map[string]any {
	kw := map[string]any{}
	if f.Symbol != "" {
		kw["symbol"] = f.Symbol
	}
	if f.Group != "" {
		kw["group"] = f.Group
	}
	if f.Ticket != 0 {
		kw["ticket"] = f.Ticket
	}
	if f.Position != 0 {
		kw["position"] = f.Position
	}
	return kw
}

// ByTicket reports whether the filter selects by ticket or position, which
// replaces the date range in history queries.
func (f Filter) ByTicket() bool { return f.Ticket != 0 || f.Position != 0 }
