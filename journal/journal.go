// Package journal keeps an audit trail of trade checks and sends.
package journal

import (
	"time"

	"github.com/rustyeddy/mt5bridge/mql"
	"github.com/rustyeddy/mt5bridge/pkg/id"
)

// Kind tells which call produced an entry.
type Kind string

const (
	KindCheck Kind = "check"
	KindSend  Kind = "send"
)

// Entry is a flattened copy of one check or send outcome.
type Entry struct {
	ID          string
	Time        time.Time
	Kind        Kind
	Symbol      string
	Action      int64
	Type        int64
	Volume      float64
	Price       float64
	SL          float64
	TP          float64
	Retcode     int64
	OrderTicket int64
	DealTicket  int64
	Comment     string
}

// ReturnCode returns Retcode as a code table member.
func (e Entry) ReturnCode() mql.ReturnCode { return mql.ReturnCode(e.Retcode) }

type Journal interface {
	RecordCheck(mql.CheckResult) error
	RecordSend(mql.TradeResult) error
	Close() error
}

func fromRequest(kind Kind, r mql.TradeRequest) Entry {
	now := time.Now().UTC()
	return Entry{
		ID:     id.NewAt(now),
		Time:   now,
		Kind:   kind,
		Symbol: r.Symbol,
		Action: r.Action,
		Type:   r.Type,
		Volume: r.Volume,
		Price:  r.Price,
		SL:     r.SL,
		TP:     r.TP,
	}
}

// CheckEntry flattens an order_check result.
func CheckEntry(res mql.CheckResult) Entry {
	e := fromRequest(KindCheck, res.Request)
	e.Retcode = res.Retcode
	e.Comment = res.Comment
	return e
}

// SendEntry flattens an order_send result. Executed volume and price replace
// the requested ones when the server reports them.
func SendEntry(res mql.TradeResult) Entry {
	e := fromRequest(KindSend, res.Request)
	e.Retcode = res.Retcode
	e.OrderTicket = res.Order
	e.DealTicket = res.Deal
	e.Comment = res.Comment
	if res.Volume != 0 {
		e.Volume = res.Volume
	}
	if res.Price != 0 {
		e.Price = res.Price
	}
	return e
}
