package mql

// SymbolInfo is the full property set of a symbol as returned by symbol_info
// and symbols_get.
type SymbolInfo struct {
	Custom                  bool    `json:"custom"`
	ChartMode               int64   `json:"chart_mode"`
	Select                  bool    `json:"select"`
	Visible                 bool    `json:"visible"`
	SessionDeals            int64   `json:"session_deals"`
	SessionBuyOrders        int64   `json:"session_buy_orders"`
	SessionSellOrders       int64   `json:"session_sell_orders"`
	Volume                  int64   `json:"volume"`
	VolumeHigh              int64   `json:"volumehigh"`
	VolumeLow               int64   `json:"volumelow"`
	Time                    int64   `json:"time"`
	Digits                  int64   `json:"digits"`
	Spread                  int64   `json:"spread"`
	SpreadFloat             bool    `json:"spread_float"`
	TicksBookDepth          int64   `json:"ticks_bookdepth"`
	TradeCalcMode           int64   `json:"trade_calc_mode"`
	TradeMode               int64   `json:"trade_mode"`
	StartTime               int64   `json:"start_time"`
	ExpirationTime          int64   `json:"expiration_time"`
	TradeStopsLevel         int64   `json:"trade_stops_level"`
	TradeFreezeLevel        int64   `json:"trade_freeze_level"`
	TradeExeMode            int64   `json:"trade_exemode"`
	SwapMode                int64   `json:"swap_mode"`
	SwapRollover3Days       int64   `json:"swap_rollover3days"`
	MarginHedgedUseLeg      bool    `json:"margin_hedged_use_leg"`
	ExpirationMode          int64   `json:"expiration_mode"`
	FillingMode             int64   `json:"filling_mode"`
	OrderMode               int64   `json:"order_mode"`
	OrderGTCMode            int64   `json:"order_gtc_mode"`
	OptionMode              int64   `json:"option_mode"`
	OptionRight             int64   `json:"option_right"`
	Bid                     float64 `json:"bid"`
	BidHigh                 float64 `json:"bidhigh"`
	BidLow                  float64 `json:"bidlow"`
	Ask                     float64 `json:"ask"`
	AskHigh                 float64 `json:"askhigh"`
	AskLow                  float64 `json:"asklow"`
	Last                    float64 `json:"last"`
	LastHigh                float64 `json:"lasthigh"`
	LastLow                 float64 `json:"lastlow"`
	VolumeReal              float64 `json:"volume_real"`
	VolumeHighReal          float64 `json:"volumehigh_real"`
	VolumeLowReal           float64 `json:"volumelow_real"`
	OptionStrike            float64 `json:"option_strike"`
	Point                   float64 `json:"point"`
	TradeTickValue          float64 `json:"trade_tick_value"`
	TradeTickValueProfit    float64 `json:"trade_tick_value_profit"`
	TradeTickValueLoss      float64 `json:"trade_tick_value_loss"`
	TradeTickSize           float64 `json:"trade_tick_size"`
	TradeContractSize       float64 `json:"trade_contract_size"`
	TradeAccruedInterest    float64 `json:"trade_accrued_interest"`
	TradeFaceValue          float64 `json:"trade_face_value"`
	TradeLiquidityRate      float64 `json:"trade_liquidity_rate"`
	VolumeMin               float64 `json:"volume_min"`
	VolumeMax               float64 `json:"volume_max"`
	VolumeStep              float64 `json:"volume_step"`
	VolumeLimit             float64 `json:"volume_limit"`
	SwapLong                float64 `json:"swap_long"`
	SwapShort               float64 `json:"swap_short"`
	MarginInitial           float64 `json:"margin_initial"`
	MarginMaintenance       float64 `json:"margin_maintenance"`
	SessionVolume           float64 `json:"session_volume"`
	SessionTurnover         float64 `json:"session_turnover"`
	SessionInterest         float64 `json:"session_interest"`
	SessionBuyOrdersVolume  float64 `json:"session_buy_orders_volume"`
	SessionSellOrdersVolume float64 `json:"session_sell_orders_volume"`
	SessionOpen             float64 `json:"session_open"`
	SessionClose            float64 `json:"session_close"`
	SessionAW               float64 `json:"session_aw"`
	SessionPriceSettlement  float64 `json:"session_price_settlement"`
	SessionPriceLimitMin    float64 `json:"session_price_limit_min"`
	SessionPriceLimitMax    float64 `json:"session_price_limit_max"`
	MarginHedged            float64 `json:"margin_hedged"`
	PriceChange             float64 `json:"price_change"`
	PriceVolatility         float64 `json:"price_volatility"`
	PriceTheoretical        float64 `json:"price_theoretical"`
	PriceGreeksDelta        float64 `json:"price_greeks_delta"`
	PriceGreeksTheta        float64 `json:"price_greeks_theta"`
	PriceGreeksGamma        float64 `json:"price_greeks_gamma"`
	PriceGreeksVega         float64 `json:"price_greeks_vega"`
	PriceGreeksRho          float64 `json:"price_greeks_rho"`
	PriceGreeksOmega        float64 `json:"price_greeks_omega"`
	PriceSensitivity        float64 `json:"price_sensitivity"`
	Basis                   string  `json:"basis"`
	Category                string  `json:"category"`
	CurrencyBase            string  `json:"currency_base"`
	CurrencyProfit          string  `json:"currency_profit"`
	CurrencyMargin          string  `json:"currency_margin"`
	Bank                    string  `json:"bank"`
	Description             string  `json:"description"`
	Exchange                string  `json:"exchange"`
	Formula                 string  `json:"formula"`
	ISIN                    string  `json:"isin"`
	Name                    string  `json:"name"`
	Page                    string  `json:"page"`
	Path                    string  `json:"path"`
}

// SymbolInfoProperty names one SymbolInfo field.
type SymbolInfoProperty string

const (
	SymbolInfoCustom                  SymbolInfoProperty = "custom"
	SymbolInfoChartMode               SymbolInfoProperty = "chart_mode"
	SymbolInfoSelect                  SymbolInfoProperty = "select"
	SymbolInfoVisible                 SymbolInfoProperty = "visible"
	SymbolInfoSessionDeals            SymbolInfoProperty = "session_deals"
	SymbolInfoSessionBuyOrders        SymbolInfoProperty = "session_buy_orders"
	SymbolInfoSessionSellOrders       SymbolInfoProperty = "session_sell_orders"
	SymbolInfoVolume                  SymbolInfoProperty = "volume"
	SymbolInfoVolumeHigh              SymbolInfoProperty = "volumehigh"
	SymbolInfoVolumeLow               SymbolInfoProperty = "volumelow"
	SymbolInfoTime                    SymbolInfoProperty = "time"
	SymbolInfoDigits                  SymbolInfoProperty = "digits"
	SymbolInfoSpread                  SymbolInfoProperty = "spread"
	SymbolInfoSpreadFloat             SymbolInfoProperty = "spread_float"
	SymbolInfoTicksBookDepth          SymbolInfoProperty = "ticks_bookdepth"
	SymbolInfoTradeCalcMode           SymbolInfoProperty = "trade_calc_mode"
	SymbolInfoTradeMode               SymbolInfoProperty = "trade_mode"
	SymbolInfoStartTime               SymbolInfoProperty = "start_time"
	SymbolInfoExpirationTime          SymbolInfoProperty = "expiration_time"
	SymbolInfoTradeStopsLevel         SymbolInfoProperty = "trade_stops_level"
	SymbolInfoTradeFreezeLevel        SymbolInfoProperty = "trade_freeze_level"
	SymbolInfoTradeExeMode            SymbolInfoProperty = "trade_exemode"
	SymbolInfoSwapMode                SymbolInfoProperty = "swap_mode"
	SymbolInfoSwapRollover3Days       SymbolInfoProperty = "swap_rollover3days"
	SymbolInfoMarginHedgedUseLeg      SymbolInfoProperty = "margin_hedged_use_leg"
	SymbolInfoExpirationMode          SymbolInfoProperty = "expiration_mode"
	SymbolInfoFillingMode             SymbolInfoProperty = "filling_mode"
	SymbolInfoOrderMode               SymbolInfoProperty = "order_mode"
	SymbolInfoOrderGTCMode            SymbolInfoProperty = "order_gtc_mode"
	SymbolInfoOptionMode              SymbolInfoProperty = "option_mode"
	SymbolInfoOptionRight             SymbolInfoProperty = "option_right"
	SymbolInfoBid                     SymbolInfoProperty = "bid"
	SymbolInfoBidHigh                 SymbolInfoProperty = "bidhigh"
	SymbolInfoBidLow                  SymbolInfoProperty = "bidlow"
	SymbolInfoAsk                     SymbolInfoProperty = "ask"
	SymbolInfoAskHigh                 SymbolInfoProperty = "askhigh"
	SymbolInfoAskLow                  SymbolInfoProperty = "asklow"
	SymbolInfoLast                    SymbolInfoProperty = "last"
	SymbolInfoLastHigh                SymbolInfoProperty = "lasthigh"
	SymbolInfoLastLow                 SymbolInfoProperty = "lastlow"
	SymbolInfoVolumeReal              SymbolInfoProperty = "volume_real"
	SymbolInfoVolumeHighReal          SymbolInfoProperty = "volumehigh_real"
	SymbolInfoVolumeLowReal           SymbolInfoProperty = "volumelow_real"
	SymbolInfoOptionStrike            SymbolInfoProperty = "option_strike"
	SymbolInfoPoint                   SymbolInfoProperty = "point"
	SymbolInfoTradeTickValue          SymbolInfoProperty = "trade_tick_value"
	SymbolInfoTradeTickValueProfit    SymbolInfoProperty = "trade_tick_value_profit"
	SymbolInfoTradeTickValueLoss      SymbolInfoProperty = "trade_tick_value_loss"
	SymbolInfoTradeTickSize           SymbolInfoProperty = "trade_tick_size"
	SymbolInfoTradeContractSize       SymbolInfoProperty = "trade_contract_size"
	SymbolInfoTradeAccruedInterest    SymbolInfoProperty = "trade_accrued_interest"
	SymbolInfoTradeFaceValue          SymbolInfoProperty = "trade_face_value"
	SymbolInfoTradeLiquidityRate      SymbolInfoProperty = "trade_liquidity_rate"
	SymbolInfoVolumeMin               SymbolInfoProperty = "volume_min"
	SymbolInfoVolumeMax               SymbolInfoProperty = "volume_max"
	SymbolInfoVolumeStep              SymbolInfoProperty = "volume_step"
	SymbolInfoVolumeLimit             SymbolInfoProperty = "volume_limit"
	SymbolInfoSwapLong                SymbolInfoProperty = "swap_long"
	SymbolInfoSwapShort               SymbolInfoProperty = "swap_short"
	SymbolInfoMarginInitial           SymbolInfoProperty = "margin_initial"
	SymbolInfoMarginMaintenance       SymbolInfoProperty = "margin_maintenance"
	SymbolInfoSessionVolume           SymbolInfoProperty = "session_volume"
	SymbolInfoSessionTurnover         SymbolInfoProperty = "session_turnover"
	SymbolInfoSessionInterest         SymbolInfoProperty = "session_interest"
	SymbolInfoSessionBuyOrdersVolume  SymbolInfoProperty = "session_buy_orders_volume"
	SymbolInfoSessionSellOrdersVolume SymbolInfoProperty = "session_sell_orders_volume"
	SymbolInfoSessionOpen             SymbolInfoProperty = "session_open"
	SymbolInfoSessionClose            SymbolInfoProperty = "session_close"
	SymbolInfoSessionAW               SymbolInfoProperty = "session_aw"
	SymbolInfoSessionPriceSettlement  SymbolInfoProperty = "session_price_settlement"
	SymbolInfoSessionPriceLimitMin    SymbolInfoProperty = "session_price_limit_min"
	SymbolInfoSessionPriceLimitMax    SymbolInfoProperty = "session_price_limit_max"
	SymbolInfoMarginHedged            SymbolInfoProperty = "margin_hedged"
	SymbolInfoPriceChange             SymbolInfoProperty = "price_change"
	SymbolInfoPriceVolatility         SymbolInfoProperty = "price_volatility"
	SymbolInfoPriceTheoretical        SymbolInfoProperty = "price_theoretical"
	SymbolInfoPriceGreeksDelta        SymbolInfoProperty = "price_greeks_delta"
	SymbolInfoPriceGreeksTheta        SymbolInfoProperty = "price_greeks_theta"
	SymbolInfoPriceGreeksGamma        SymbolInfoProperty = "price_greeks_gamma"
	SymbolInfoPriceGreeksVega         SymbolInfoProperty = "price_greeks_vega"
	SymbolInfoPriceGreeksRho          SymbolInfoProperty = "price_greeks_rho"
	SymbolInfoPriceGreeksOmega        SymbolInfoProperty = "price_greeks_omega"
	SymbolInfoPriceSensitivity        SymbolInfoProperty = "price_sensitivity"
	SymbolInfoBasis                   SymbolInfoProperty = "basis"
	SymbolInfoCategory                SymbolInfoProperty = "category"
	SymbolInfoCurrencyBase            SymbolInfoProperty = "currency_base"
	SymbolInfoCurrencyProfit          SymbolInfoProperty = "currency_profit"
	SymbolInfoCurrencyMargin          SymbolInfoProperty = "currency_margin"
	SymbolInfoBank                    SymbolInfoProperty = "bank"
	SymbolInfoDescription             SymbolInfoProperty = "description"
	SymbolInfoExchange                SymbolInfoProperty = "exchange"
	SymbolInfoFormula                 SymbolInfoProperty = "formula"
	SymbolInfoISIN                    SymbolInfoProperty = "isin"
	SymbolInfoName                    SymbolInfoProperty = "name"
	SymbolInfoPage                    SymbolInfoProperty = "page"
	SymbolInfoPath                    SymbolInfoProperty = "path"
)
