package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/mt5bridge/mql"
)

func registerRequestFlags(c *cobra.Command) {
	fs := c.Flags()
	fs.String("action", "deal", "deal, pending, sltp, modify, remove or close_by")
	fs.String("symbol", "", "symbol")
	fs.Float64("volume", 0, "volume in lots")
	fs.String("type", "", "order type, e.g. buy, sell_limit")
	fs.Float64("price", 0, "price")
	fs.Float64("stoplimit", 0, "stop limit price")
	fs.Float64("sl", 0, "stop loss")
	fs.Float64("tp", 0, "take profit")
	fs.Int64("deviation", 0, "maximal deviation in points")
	fs.Int64("magic", 0, "expert ID")
	fs.Int64("order", 0, "order ticket (modify, remove)")
	fs.Int64("position", 0, "position ticket")
	fs.Int64("position-by", 0, "opposite position ticket (close_by)")
	fs.String("filling", "", "fill policy: fok, ioc, return or boc")
	fs.String("type-time", "", "expiration type: gtc, day, specified or specified_day")
	fs.String("expiration", "", "expiration time")
	fs.String("comment", "", "comment")
}

// tradeRequest builds a request out of the flags the user actually set, so
// unset fields are not sent at all.
func tradeRequest(c *cobra.Command) (*mql.TradeRequestBuilder, error) {
	fs := c.Flags()
	req := mql.NewTradeRequest()

	action, _ := fs.GetString("action")
	a, err := mql.TradeActionByName(action)
	if err != nil {
		return nil, err
	}
	req.WithAction(a)

	if fs.Changed("symbol") {
		v, _ := fs.GetString("symbol")
		req.WithSymbol(v)
	}
	if fs.Changed("volume") {
		v, _ := fs.GetFloat64("volume")
		req.WithVolume(v)
	}
	if fs.Changed("type") {
		v, _ := fs.GetString("type")
		ot, err := mql.OrderTypeByName(v)
		if err != nil {
			return nil, err
		}
		req.WithType(ot)
	}
	if fs.Changed("price") {
		v, _ := fs.GetFloat64("price")
		req.WithPrice(v)
	}
	if fs.Changed("stoplimit") {
		v, _ := fs.GetFloat64("stoplimit")
		req.WithStopLimit(v)
	}
	if fs.Changed("sl") {
		v, _ := fs.GetFloat64("sl")
		req.WithSL(v)
	}
	if fs.Changed("tp") {
		v, _ := fs.GetFloat64("tp")
		req.WithTP(v)
	}
	if fs.Changed("deviation") {
		v, _ := fs.GetInt64("deviation")
		req.WithDeviation(v)
	}
	if fs.Changed("magic") {
		v, _ := fs.GetInt64("magic")
		req.WithMagic(v)
	}
	if fs.Changed("order") {
		v, _ := fs.GetInt64("order")
		req.WithOrder(v)
	}
	if fs.Changed("position") {
		v, _ := fs.GetInt64("position")
		req.WithPosition(v)
	}
	if fs.Changed("position-by") {
		v, _ := fs.GetInt64("position-by")
		req.WithPositionBy(v)
	}
	if fs.Changed("filling") {
		v, _ := fs.GetString("filling")
		f, err := mql.OrderFillingByName(v)
		if err != nil {
			return nil, err
		}
		req.WithTypeFilling(f)
	}
	if fs.Changed("type-time") {
		v, _ := fs.GetString("type-time")
		tt, err := mql.OrderTimeByName(v)
		if err != nil {
			return nil, err
		}
		req.WithTypeTime(tt)
	}
	if fs.Changed("expiration") {
		v, _ := fs.GetString("expiration")
		t, err := parseTime(v)
		if err != nil {
			return nil, err
		}
		req.WithExpiration(t)
	}
	if fs.Changed("comment") {
		v, _ := fs.GetString("comment")
		req.WithComment(v)
	}
	return req, nil
}
