package sim

import "github.com/rustyeddy/mt5bridge/mql"

// tradeMargin is the account-currency margin for volume lots of s at price,
// for an account whose currency is the quote of USD pairs.
func tradeMargin(s *symbolSpec, volume, price float64, leverage int64) float64 {
	if leverage <= 0 {
		leverage = 1
	}
	notional := volume * s.contractSize
	if s.base != "USD" {
		notional *= price
	}
	return round2(notional / float64(leverage))
}

func isBuy(t mql.OrderType) bool {
	switch t {
	case mql.OrderTypeBuy, mql.OrderTypeBuyLimit, mql.OrderTypeBuyStop, mql.OrderTypeBuyStopLimit:
		return true
	}
	return false
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
