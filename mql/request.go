package mql

import (
	"encoding/json"
	"time"
)

// TradeRequestBuilder assembles the dictionary passed to order_check and
// order_send. Only fields that were set are sent; an unset sl is absent, not 0.
type TradeRequestBuilder struct {
	f requestFields
}

type requestFields struct {
	Action      *TradeAction  `json:"action,omitempty"`
	Magic       *int64        `json:"magic,omitempty"`
	Order       *int64        `json:"order,omitempty"`
	Symbol      *string       `json:"symbol,omitempty"`
	Volume      *float64      `json:"volume,omitempty"`
	Price       *float64      `json:"price,omitempty"`
	StopLimit   *float64      `json:"stoplimit,omitempty"`
	SL          *float64      `json:"sl,omitempty"`
	TP          *float64      `json:"tp,omitempty"`
	Deviation   *int64        `json:"deviation,omitempty"`
	Type        *OrderType    `json:"type,omitempty"`
	TypeFilling *OrderFilling `json:"type_filling,omitempty"`
	TypeTime    *OrderTime    `json:"type_time,omitempty"`
	Expiration  *int64        `json:"expiration,omitempty"`
	Comment     *string       `json:"comment,omitempty"`
	Position    *int64        `json:"position,omitempty"`
	PositionBy  *int64        `json:"position_by,omitempty"`
}

// NewTradeRequest returns an empty builder.
func NewTradeRequest() *TradeRequestBuilder {
	return &TradeRequestBuilder{}
}

func ptr[T any](v T) *T { return &v }

func (b *TradeRequestBuilder) WithAction(a TradeAction) *TradeRequestBuilder {
	b.f.Action = ptr(a)
	return b
}

func (b *TradeRequestBuilder) WithMagic(m int64) *TradeRequestBuilder {
	b.f.Magic = ptr(m)
	return b
}

func (b *TradeRequestBuilder) WithOrder(ticket int64) *TradeRequestBuilder {
	b.f.Order = ptr(ticket)
	return b
}

func (b *TradeRequestBuilder) WithSymbol(s string) *TradeRequestBuilder {
	b.f.Symbol = ptr(s)
	return b
}

func (b *TradeRequestBuilder) WithVolume(v float64) *TradeRequestBuilder {
	b.f.Volume = ptr(v)
	return b
}

func (b *TradeRequestBuilder) WithPrice(p float64) *TradeRequestBuilder {
	b.f.Price = ptr(p)
	return b
}

func (b *TradeRequestBuilder) WithStopLimit(p float64) *TradeRequestBuilder {
	b.f.StopLimit = ptr(p)
	return b
}

func (b *TradeRequestBuilder) WithSL(p float64) *TradeRequestBuilder {
	b.f.SL = ptr(p)
	return b
}

func (b *TradeRequestBuilder) WithTP(p float64) *TradeRequestBuilder {
	b.f.TP = ptr(p)
	return b
}

// WithDeviation sets the accepted slippage in points.
func (b *TradeRequestBuilder) WithDeviation(points int64) *TradeRequestBuilder {
	b.f.Deviation = ptr(points)
	return b
}

func (b *TradeRequestBuilder) WithType(t OrderType) *TradeRequestBuilder {
	b.f.Type = ptr(t)
	return b
}

func (b *TradeRequestBuilder) WithTypeFilling(f OrderFilling) *TradeRequestBuilder {
	b.f.TypeFilling = ptr(f)
	return b
}

func (b *TradeRequestBuilder) WithTypeTime(t OrderTime) *TradeRequestBuilder {
	b.f.TypeTime = ptr(t)
	return b
}

// WithExpiration sets the expiry of an OrderTimeSpecified order.
func (b *TradeRequestBuilder) WithExpiration(t time.Time) *TradeRequestBuilder {
	b.f.Expiration = ptr(t.Unix())
	return b
}

func (b *TradeRequestBuilder) WithComment(c string) *TradeRequestBuilder {
	b.f.Comment = ptr(c)
	return b
}

// WithPosition targets an existing position, for closes and SL/TP changes.
func (b *TradeRequestBuilder) WithPosition(ticket int64) *TradeRequestBuilder {
	b.f.Position = ptr(ticket)
	return b
}

func (b *TradeRequestBuilder) WithPositionBy(ticket int64) *TradeRequestBuilder {
	b.f.PositionBy = ptr(ticket)
	return b
}

// Symbol returns the symbol, if set.
func (b *TradeRequestBuilder) Symbol() (string, bool) {
	if b.f.Symbol == nil {
		return "", false
	}
	return *b.f.Symbol, true
}

// Volume returns the volume, if set.
func (b *TradeRequestBuilder) Volume() (float64, bool) {
	if b.f.Volume == nil {
		return 0, false
	}
	return *b.f.Volume, true
}

// Action returns the action, if set.
func (b *TradeRequestBuilder) Action() (TradeAction, bool) {
	if b.f.Action == nil {
		return 0, false
	}
	return *b.f.Action, true
}

// Type returns the order type, if set.
func (b *TradeRequestBuilder) Type() (OrderType, bool) {
	if b.f.Type == nil {
		return 0, false
	}
	return *b.f.Type, true
}

// Fields returns the set keys with plain values, ready to hand to the terminal.
func (b *TradeRequestBuilder) Fields() map[string]any {
	m := map[string]any{}
	if b.f.Action != nil {
		m["action"] = int64(*b.f.Action)
	}
	if b.f.Magic != nil {
		m["magic"] = *b.f.Magic
	}
	if b.f.Order != nil {
		m["order"] = *b.f.Order
	}
	if b.f.Symbol != nil {
		m["symbol"] = *b.f.Symbol
	}
	if b.f.Volume != nil {
		m["volume"] = *b.f.Volume
	}
	if b.f.Price != nil {
		m["price"] = *b.f.Price
	}
	if b.f.StopLimit != nil {
		m["stoplimit"] = *b.f.StopLimit
	}
	if b.f.SL != nil {
		m["sl"] = *b.f.SL
	}
	if b.f.TP != nil {
		m["tp"] = *b.f.TP
	}
	if b.f.Deviation != nil {
		m["deviation"] = *b.f.Deviation
	}
	if b.f.Type != nil {
		m["type"] = int64(*b.f.Type)
	}
	if b.f.TypeFilling != nil {
		m["type_filling"] = int64(*b.f.TypeFilling)
	}
	if b.f.TypeTime != nil {
		m["type_time"] = int64(*b.f.TypeTime)
	}
	if b.f.Expiration != nil {
		m["expiration"] = *b.f.Expiration
	}
	if b.f.Comment != nil {
		m["comment"] = *b.f.Comment
	}
	if b.f.Position != nil {
		m["position"] = *b.f.Position
	}
	if b.f.PositionBy != nil {
		m["position_by"] = *b.f.PositionBy
	}
	return m
}

func (b *TradeRequestBuilder) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Fields())
}

// UnmarshalJSON sets exactly the keys present in data.
func (b *TradeRequestBuilder) UnmarshalJSON(data []byte) error {
	var f requestFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	b.f = f
	return nil
}
