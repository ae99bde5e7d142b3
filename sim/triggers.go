package sim

func hitStopLoss(p *position, price float64) bool {
	if p.SL == 0 {
		return false
	}
	if p.side() > 0 {
		return price <= p.SL
	}
	return price >= p.SL
}

func hitTakeProfit(p *position, price float64) bool {
	if p.TP == 0 {
		return false
	}
	if p.side() > 0 {
		return price >= p.TP
	}
	return price <= p.TP
}
