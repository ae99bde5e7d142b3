package sim

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/mt5bridge/mql"
)

// revalueLocked marks open positions to the current quote, closes those whose
// stop loss or take profit has been reached, and refreshes the account.
func (e *Engine) revalueLocked() {
	now := e.clock()
	for _, tk := range e.positionTickets() {
		p := e.positions[tk]
		bid, ask := p.spec.quote(now.Unix())
		p.revalue(bid, ask)
		switch {
		case hitStopLoss(p, p.PriceCurrent):
			e.closePosition(p, p.Volume, p.SL, mql.DealReasonSL, now)
		case hitTakeProfit(p, p.PriceCurrent):
			e.closePosition(p, p.Volume, p.TP, mql.DealReasonTP, now)
		}
	}

	var profit, margin float64
	for _, p := range e.positions {
		profit += p.Profit
		margin += tradeMargin(p.spec, p.Volume, p.PriceOpen, e.acct.Leverage)
	}
	e.acct.Profit = round2(profit)
	e.acct.Equity = round2(e.acct.Balance + profit)
	e.acct.Margin = round2(margin)
	e.acct.MarginFree = round2(e.acct.Equity - margin)
	e.acct.MarginLevel = 0
	if margin > 0 {
		e.acct.MarginLevel = round2(e.acct.Equity / margin * 100)
	}
}

func (e *Engine) positionTickets() []int64 {
	out := make([]int64, 0, len(e.positions))
	for tk := range e.positions {
		out = append(out, tk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (e *Engine) addDeal(p *position, dealType mql.DealType, entry mql.DealEntry, reason mql.DealReason,
	order int64, volume, price, profit float64, comment string, now time.Time) mql.Deal {
	d := mql.Deal{
		Ticket:     e.nextTicket(),
		Order:      order,
		Time:       now.Unix(),
		TimeMsc:    now.UnixMilli(),
		Type:       int64(dealType),
		Entry:      int64(entry),
		Magic:      p.Magic,
		PositionID: p.Ticket,
		Reason:     int64(reason),
		Volume:     volume,
		Price:      price,
		Profit:     profit,
		Symbol:     p.Symbol,
		Comment:    comment,
	}
	e.deals = append(e.deals, d)
	return d
}

// closePosition realizes volume lots of p at price.
func (e *Engine) closePosition(p *position, volume, price float64, reason mql.DealReason, now time.Time) mql.Deal {
	profit := profitUSD(p.spec, p.side(), volume, p.PriceOpen, price)
	e.acct.Balance = round2(e.acct.Balance + profit)

	dealType := mql.DealTypeSell
	orderType := mql.OrderTypeSell
	if p.side() < 0 {
		dealType = mql.DealTypeBuy
		orderType = mql.OrderTypeBuy
	}
	ord := e.historyOrder(p.Symbol, orderType, volume, price, p.Magic, p.Ticket, "", now)
	d := e.addDeal(p, dealType, mql.DealEntryOut, reason, ord.Ticket, volume, price, profit, p.Comment, now)

	p.Volume = round2(p.Volume - volume)
	if p.Volume <= 0 {
		delete(e.positions, p.Ticket)
	}
	e.log.Debug("sim_position_closed",
		zap.Int64("position", p.Ticket),
		zap.Float64("volume", volume),
		zap.Float64("profit", profit),
		zap.String("reason", reason.String()),
	)
	return d
}

func (e *Engine) historyOrder(symbol string, t mql.OrderType, volume, price float64, magic, positionID int64, comment string, now time.Time) mql.Order {
	o := mql.Order{
		Ticket:        e.nextTicket(),
		TimeSetup:     now.Unix(),
		TimeSetupMsc:  now.UnixMilli(),
		TimeDone:      now.Unix(),
		TimeDoneMsc:   now.UnixMilli(),
		Type:          int64(t),
		TypeFilling:   int64(mql.OrderFillingFOK),
		State:         int64(mql.OrderStateFilled),
		Magic:         magic,
		PositionID:    positionID,
		VolumeInitial: volume,
		PriceOpen:     price,
		PriceCurrent:  price,
		Symbol:        symbol,
		Comment:       comment,
	}
	e.histOrd = append(e.histOrd, o)
	return o
}

// parseRequest reads the request dictionary. Keys left out stay zero in the
// echo, as the terminal reports them.
func parseRequest(raw map[string]any) (mql.TradeRequest, error) {
	var r mql.TradeRequest
	ints := map[string]*int64{
		"action": &r.Action, "magic": &r.Magic, "order": &r.Order, "deviation": &r.Deviation,
		"type": &r.Type, "type_filling": &r.TypeFilling, "type_time": &r.TypeTime,
		"expiration": &r.Expiration, "position": &r.Position, "position_by": &r.PositionBy,
	}
	floats := map[string]*float64{
		"volume": &r.Volume, "price": &r.Price, "stoplimit": &r.StopLimit, "sl": &r.SL, "tp": &r.TP,
	}
	strs := map[string]*string{"symbol": &r.Symbol, "comment": &r.Comment}

	for k, v := range raw {
		var err error
		switch {
		case ints[k] != nil:
			*ints[k], err = toInt(v, k)
		case floats[k] != nil:
			*floats[k], err = toFloat(v, k)
		case strs[k] != nil:
			s, ok := v.(string)
			if !ok {
				err = fmt.Errorf("%s is %T, want str", k, v)
			}
			*strs[k] = s
		default:
			err = fmt.Errorf("unsupported request field %q", k)
		}
		if err != nil {
			return r, err
		}
	}
	return r, nil
}

type verdict struct {
	code    mql.ReturnCode
	comment string
	spec    *symbolSpec
	pos     *position
	margin  float64
}

func reject(code mql.ReturnCode, comment string) verdict {
	return verdict{code: code, comment: comment}
}

func volumeOK(v float64) bool {
	if v < 0.01 || v > 500 {
		return false
	}
	steps := v / 0.01
	return math.Abs(steps-math.Round(steps)) < 1e-6
}

// validate decides what the trade server would answer without changing state.
func (e *Engine) validate(r mql.TradeRequest) verdict {
	action, err := mql.ParseTradeAction(r.Action)
	if err != nil {
		return reject(mql.ReturnCodeInvalid, "Invalid request")
	}

	switch action {
	case mql.TradeActionSLTP:
		p := e.positions[r.Position]
		if p == nil {
			return reject(mql.ReturnCodePositionClosed, "Position doesn't exist")
		}
		return verdict{code: mql.ReturnCodeDone, comment: "Request executed", spec: p.spec, pos: p}
	case mql.TradeActionRemove, mql.TradeActionModify:
		o := e.orders[r.Order]
		if o == nil {
			return reject(mql.ReturnCodeInvalidOrder, "Invalid order")
		}
		return verdict{code: mql.ReturnCodeDone, comment: "Request executed", spec: e.lookup(o.Symbol)}
	case mql.TradeActionCloseBy:
		return reject(mql.ReturnCodeInvalid, "Unsupported request")
	}

	s := e.lookup(r.Symbol)
	if s == nil {
		return reject(mql.ReturnCodeInvalid, "Invalid request")
	}
	if !volumeOK(r.Volume) {
		return reject(mql.ReturnCodeInvalidVolume, "Invalid volume")
	}
	ot, err := mql.ParseOrderType(r.Type)
	if err != nil {
		return reject(mql.ReturnCodeInvalid, "Invalid order type")
	}
	bid, ask := s.quote(e.clock().Unix())

	if action == mql.TradeActionDeal {
		if ot != mql.OrderTypeBuy && ot != mql.OrderTypeSell {
			return reject(mql.ReturnCodeInvalid, "Invalid order type")
		}
		fill := bid
		if ot == mql.OrderTypeBuy {
			fill = ask
		}
		if r.Price != 0 && r.Deviation >= 0 && abs(r.Price-fill) > float64(r.Deviation+1)*s.point() {
			return reject(mql.ReturnCodeRequote, "Requote")
		}
		if r.Position != 0 {
			p := e.positions[r.Position]
			if p == nil {
				return reject(mql.ReturnCodePositionClosed, "Position doesn't exist")
			}
			if r.Volume > p.Volume+1e-9 {
				return reject(mql.ReturnCodeInvalidCloseVolume, "Invalid close volume")
			}
			return verdict{code: mql.ReturnCodeDone, comment: "Request executed", spec: s, pos: p}
		}
		if !stopsOK(ot, fill, r.SL, r.TP) {
			return reject(mql.ReturnCodeInvalidStops, "Invalid stops")
		}
		m := tradeMargin(s, r.Volume, fill, e.acct.Leverage)
		if m > e.acct.MarginFree {
			return reject(mql.ReturnCodeNoMoney, "No money")
		}
		return verdict{code: mql.ReturnCodeDone, comment: "Request executed", spec: s, margin: m}
	}

	// pending
	if ot == mql.OrderTypeBuy || ot == mql.OrderTypeSell || ot == mql.OrderTypeCloseBy {
		return reject(mql.ReturnCodeInvalid, "Invalid order type")
	}
	if r.Price <= 0 {
		return reject(mql.ReturnCodeInvalidPrice, "Invalid price")
	}
	if !stopsOK(ot, r.Price, r.SL, r.TP) {
		return reject(mql.ReturnCodeInvalidStops, "Invalid stops")
	}
	return verdict{code: mql.ReturnCodePlaced, comment: "Request executed", spec: s}
}

func stopsOK(t mql.OrderType, price, sl, tp float64) bool {
	if isBuy(t) {
		return (sl == 0 || sl < price) && (tp == 0 || tp > price)
	}
	return (sl == 0 || sl > price) && (tp == 0 || tp < price)
}

func (e *Engine) requestArg(a callArgs) (mql.TradeRequest, any, bool) {
	v, ok := a.get(0, "request")
	raw, isMap := v.(map[string]any)
	if !ok || !isMap {
		return mql.TradeRequest{}, e.fail(mql.RuntimeInvalidParams, "Invalid \"request\" argument"), false
	}
	r, err := parseRequest(raw)
	if err != nil {
		return r, e.invalid(err), false
	}
	return r, nil, true
}

func (e *Engine) orderCheck(a callArgs) any {
	r, ret, ok := e.requestArg(a)
	if !ok {
		return ret
	}
	e.revalueLocked()
	v := e.validate(r)

	res := mql.CheckResult{
		Retcode:     int64(v.code),
		Balance:     e.acct.Balance,
		Equity:      e.acct.Equity,
		Profit:      e.acct.Profit,
		Margin:      e.acct.Margin,
		MarginFree:  e.acct.MarginFree,
		MarginLevel: e.acct.MarginLevel,
		Comment:     v.comment,
		Request:     r,
	}
	if v.code.Succeeded() {
		res.Retcode = int64(mql.ReturnCodeCheckOK)
		res.Comment = "Done"
		res.Margin = round2(e.acct.Margin + v.margin)
		res.MarginFree = round2(e.acct.Equity - res.Margin)
		if res.Margin > 0 {
			res.MarginLevel = round2(e.acct.Equity / res.Margin * 100)
		}
	}
	e.ok()
	return record(res)
}

func (e *Engine) orderSend(a callArgs) any {
	r, ret, ok := e.requestArg(a)
	if !ok {
		return ret
	}
	e.revalueLocked()
	v := e.validate(r)
	e.requestID++

	res := mql.TradeResult{
		Retcode:   int64(v.code),
		Comment:   v.comment,
		RequestID: e.requestID,
		Request:   r,
	}
	if v.spec != nil {
		res.Bid, res.Ask = v.spec.quote(e.clock().Unix())
	}
	if v.code.Succeeded() {
		e.execute(r, v, &res)
		e.revalueLocked()
	}
	e.log.Info("sim_order_send",
		zap.String("symbol", r.Symbol),
		zap.Int64("action", r.Action),
		zap.Float64("volume", r.Volume),
		zap.String("retcode", v.code.String()),
	)
	e.ok()
	return record(res)
}

func (e *Engine) execute(r mql.TradeRequest, v verdict, res *mql.TradeResult) {
	now := e.clock()
	switch mql.TradeAction(r.Action) {
	case mql.TradeActionDeal:
		ot := mql.OrderType(r.Type)
		fill := res.Bid
		if ot == mql.OrderTypeBuy {
			fill = res.Ask
		}
		if v.pos != nil {
			d := e.closePosition(v.pos, r.Volume, fill, mql.DealReasonExpert, now)
			res.Deal, res.Order = d.Ticket, d.Order
		} else {
			tk := e.nextTicket()
			pt := mql.PositionTypeBuy
			dt := mql.DealTypeBuy
			if ot == mql.OrderTypeSell {
				pt, dt = mql.PositionTypeSell, mql.DealTypeSell
			}
			p := &position{spec: v.spec, Position: mql.Position{
				Ticket:        tk,
				Time:          now.Unix(),
				TimeMsc:       now.UnixMilli(),
				TimeUpdate:    now.Unix(),
				TimeUpdateMsc: now.UnixMilli(),
				Type:          int64(pt),
				Magic:         r.Magic,
				Identifier:    tk,
				Reason:        int64(mql.PositionReasonExpert),
				Volume:        r.Volume,
				PriceOpen:     fill,
				SL:            r.SL,
				TP:            r.TP,
				PriceCurrent:  fill,
				Symbol:        r.Symbol,
				Comment:       r.Comment,
			}}
			e.positions[tk] = p
			ord := e.historyOrder(r.Symbol, ot, r.Volume, fill, r.Magic, tk, r.Comment, now)
			d := e.addDeal(p, dt, mql.DealEntryIn, mql.DealReasonExpert, ord.Ticket, r.Volume, fill, 0, r.Comment, now)
			res.Deal, res.Order = d.Ticket, ord.Ticket
		}
		res.Volume, res.Price = r.Volume, fill

	case mql.TradeActionPending:
		o := &mql.Order{
			Ticket:         e.nextTicket(),
			TimeSetup:      now.Unix(),
			TimeSetupMsc:   now.UnixMilli(),
			TimeExpiration: r.Expiration,
			Type:           r.Type,
			TypeTime:       r.TypeTime,
			TypeFilling:    r.TypeFilling,
			State:          int64(mql.OrderStatePlaced),
			Magic:          r.Magic,
			Reason:         int64(mql.OrderReasonExpert),
			VolumeInitial:  r.Volume,
			VolumeCurrent:  r.Volume,
			PriceOpen:      r.Price,
			SL:             r.SL,
			TP:             r.TP,
			PriceCurrent:   r.Price,
			PriceStopLimit: r.StopLimit,
			Symbol:         r.Symbol,
			Comment:        r.Comment,
		}
		e.orders[o.Ticket] = o
		res.Order, res.Volume, res.Price = o.Ticket, r.Volume, r.Price

	case mql.TradeActionRemove:
		o := e.orders[r.Order]
		delete(e.orders, r.Order)
		o.State = int64(mql.OrderStateCanceled)
		o.TimeDone, o.TimeDoneMsc = now.Unix(), now.UnixMilli()
		e.histOrd = append(e.histOrd, *o)
		res.Order = o.Ticket

	case mql.TradeActionModify:
		o := e.orders[r.Order]
		if r.Price != 0 {
			o.PriceOpen = r.Price
		}
		o.SL, o.TP = r.SL, r.TP
		res.Order = o.Ticket

	case mql.TradeActionSLTP:
		v.pos.SL, v.pos.TP = r.SL, r.TP
		v.pos.TimeUpdate, v.pos.TimeUpdateMsc = now.Unix(), now.UnixMilli()
	}
}

func (e *Engine) orderCalcArgs(a callArgs) (mql.OrderType, *symbolSpec, float64, any) {
	code, err := a.int(0, "action")
	if err != nil {
		return 0, nil, 0, e.invalid(err)
	}
	ot, err := mql.ParseOrderType(code)
	if err != nil {
		return 0, nil, 0, e.invalid(err)
	}
	name, err := a.str(1, "symbol")
	if err != nil {
		return 0, nil, 0, e.invalid(err)
	}
	s := e.lookup(name)
	if s == nil {
		return 0, nil, 0, e.fail(mql.RuntimeNotFound, "Terminal: Not found")
	}
	volume, err := a.float(2, "volume")
	if err != nil {
		return 0, nil, 0, e.invalid(err)
	}
	return ot, s, volume, nil
}

func (e *Engine) orderCalcMargin(a callArgs) any {
	_, s, volume, ret := e.orderCalcArgs(a)
	if s == nil {
		return ret
	}
	price, err := a.float(3, "price")
	if err != nil {
		return e.invalid(err)
	}
	e.ok()
	return tradeMargin(s, volume, price, e.acct.Leverage)
}

func (e *Engine) orderCalcProfit(a callArgs) any {
	ot, s, volume, ret := e.orderCalcArgs(a)
	if s == nil {
		return ret
	}
	open, err := a.float(3, "price_open")
	if err != nil {
		return e.invalid(err)
	}
	closeAt, err := a.float(4, "price_close")
	if err != nil {
		return e.invalid(err)
	}
	side := 1
	if !isBuy(ot) {
		side = -1
	}
	e.ok()
	return profitUSD(s, side, volume, open, closeAt)
}

type selector struct {
	symbol, group    string
	ticket, position int64
}

func (e *Engine) selectorArg(a callArgs) (selector, error) {
	var sel selector
	var err error
	if a.has(-1, "symbol") {
		if sel.symbol, err = a.str(-1, "symbol"); err != nil {
			return sel, err
		}
	}
	if a.has(-1, "group") {
		if sel.group, err = a.str(-1, "group"); err != nil {
			return sel, err
		}
	}
	if a.has(-1, "ticket") {
		if sel.ticket, err = a.int(-1, "ticket"); err != nil {
			return sel, err
		}
	}
	if a.has(-1, "position") {
		if sel.position, err = a.int(-1, "position"); err != nil {
			return sel, err
		}
	}
	return sel, nil
}

func (s selector) match(symbol string, ticket, position int64) bool {
	if s.symbol != "" && s.symbol != symbol {
		return false
	}
	if s.group != "" && !matchGroup(s.group, symbol) {
		return false
	}
	if s.ticket != 0 && s.ticket != ticket {
		return false
	}
	if s.position != 0 && s.position != position {
		return false
	}
	return true
}

func (e *Engine) ordersTotal(callArgs) any {
	e.ok()
	return int64(len(e.orders))
}

func (e *Engine) ordersGet(a callArgs) any {
	sel, err := e.selectorArg(a)
	if err != nil {
		return e.invalid(err)
	}
	var out []mql.Order
	for _, o := range e.orders {
		if sel.match(o.Symbol, o.Ticket, o.PositionID) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticket < out[j].Ticket })
	e.ok()
	return records(out)
}

func (e *Engine) positionsTotal(callArgs) any {
	e.revalueLocked()
	e.ok()
	return int64(len(e.positions))
}

func (e *Engine) positionsGet(a callArgs) any {
	sel, err := e.selectorArg(a)
	if err != nil {
		return e.invalid(err)
	}
	e.revalueLocked()
	var out []mql.Position
	for _, tk := range e.positionTickets() {
		p := e.positions[tk]
		if sel.match(p.Symbol, p.Ticket, p.Identifier) {
			out = append(out, p.Position)
		}
	}
	e.ok()
	return records(out)
}

// historyRange reads (date_from, date_to) unless the call selects by ticket
// or position, in which case the terminal takes no dates.
func (e *Engine) historyRange(a callArgs, sel selector) (time.Time, time.Time, error) {
	if sel.ticket != 0 || sel.position != 0 {
		return time.Unix(0, 0), time.Unix(math.MaxInt32, 0), nil
	}
	from, err := a.time(0, "date_from")
	if err != nil {
		return from, from, err
	}
	to, err := a.time(1, "date_to")
	return from, to, err
}

func inRange(ts int64, from, to time.Time) bool {
	return ts >= from.Unix() && ts <= to.Unix()
}

func (e *Engine) historyOrders(a callArgs) ([]mql.Order, error) {
	sel, err := e.selectorArg(a)
	if err != nil {
		return nil, err
	}
	from, to, err := e.historyRange(a, sel)
	if err != nil {
		return nil, err
	}
	out := []mql.Order{}
	for _, o := range e.histOrd {
		if inRange(o.TimeSetup, from, to) && sel.match(o.Symbol, o.Ticket, o.PositionID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (e *Engine) historyDeals(a callArgs) ([]mql.Deal, error) {
	sel, err := e.selectorArg(a)
	if err != nil {
		return nil, err
	}
	from, to, err := e.historyRange(a, sel)
	if err != nil {
		return nil, err
	}
	out := []mql.Deal{}
	for _, d := range e.deals {
		if inRange(d.Time, from, to) && sel.match(d.Symbol, d.Order, d.PositionID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (e *Engine) historyOrdersTotal(a callArgs) any {
	out, err := e.historyOrders(a)
	if err != nil {
		return e.invalid(err)
	}
	e.ok()
	return int64(len(out))
}

func (e *Engine) historyOrdersGet(a callArgs) any {
	out, err := e.historyOrders(a)
	if err != nil {
		return e.invalid(err)
	}
	e.ok()
	return records(out)
}

func (e *Engine) historyDealsTotal(a callArgs) any {
	out, err := e.historyDeals(a)
	if err != nil {
		return e.invalid(err)
	}
	e.ok()
	return int64(len(out))
}

func (e *Engine) historyDealsGet(a callArgs) any {
	out, err := e.historyDeals(a)
	if err != nil {
		return e.invalid(err)
	}
	e.ok()
	return records(out)
}
