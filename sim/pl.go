package sim

import "math"

// profitUSD is the realized or floating profit of volume lots of s moved from
// open to close. side is +1 for buys and -1 for sells.
func profitUSD(s *symbolSpec, side int, volume, open, close float64) float64 {
	pl := float64(side) * (close - open) * volume * s.contractSize
	if s.profit != "USD" && close != 0 {
		pl /= close
	}
	return round2(pl)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
