package sim

import "github.com/rustyeddy/mt5bridge/mql"

type position struct {
	mql.Position
	spec *symbolSpec
}

// side is +1 for buys and -1 for sells.
func (p *position) side() int {
	if p.Type == int64(mql.PositionTypeSell) {
		return -1
	}
	return 1
}

// markPrice is the price the position would close at: bid for longs, ask for
// shorts.
func (p *position) markPrice(bid, ask float64) float64 {
	if p.side() > 0 {
		return bid
	}
	return ask
}

func (p *position) revalue(bid, ask float64) {
	p.PriceCurrent = p.markPrice(bid, ask)
	p.Profit = profitUSD(p.spec, p.side(), p.Volume, p.PriceOpen, p.PriceCurrent)
}
