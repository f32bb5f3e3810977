package indicators

import "FinSignal/internal/domain/models"

const (
	momentumPeriod  = 14
	crossoverPeriod = 7
	oversold        = 30.0
	overbought      = 70.0
)

// MomentumScore rewards oversold and penalises overbought RSI(14).
func MomentumScore(s models.Series) float64 {
	rsi, ok := Last(RSI(s.Closes(), momentumPeriod))
	if !ok {
		return 0
	}
	switch {
	case rsi < oversold:
		return 2
	case rsi > overbought:
		return -2
	default:
		return 0
	}
}

// CrossoverScore fires when RSI(7) leaves an extreme zone on the latest bar.
func CrossoverScore(s models.Series) float64 {
	rsi := RSI(s.Closes(), crossoverPeriod)
	cur, ok := At(rsi, len(rsi)-1)
	if !ok {
		return 0
	}
	prev, ok := At(rsi, len(rsi)-2)
	if !ok {
		return 0
	}
	switch {
	case prev < oversold && cur > oversold:
		return 2
	case prev > overbought && cur < overbought:
		return -2
	default:
		return 0
	}
}
