package indicators

import (
	"slices"

	"FinSignal/internal/domain/models"
)

const (
	stochKPeriod = 14
	stochDPeriod = 3
	stochLow     = 20.0
	stochHigh    = 80.0
)

// Stochastic returns %K and its %D signal line aligned to the series.
func Stochastic(s models.Series) (k, d []float64) {
	k = nanSlice(len(s))
	highs, lows := s.Highs(), s.Lows()
	for i := stochKPeriod - 1; i < len(s); i++ {
		hh := slices.Max(highs[i-stochKPeriod+1 : i+1])
		ll := slices.Min(lows[i-stochKPeriod+1 : i+1])
		if hh == ll {
			k[i] = 50
			continue
		}
		k[i] = (s[i].Close - ll) / (hh - ll) * 100
	}

	first := stochKPeriod - 1
	if len(s) <= first {
		return k, nanSlice(len(s))
	}
	d = append(nanSlice(first), SMA(k[first:], stochDPeriod)...)
	return k, d
}

// StochasticCross reports %K crossing %D out of the oversold (+1) or
// overbought (-1) zone on the latest bar.
func StochasticCross(s models.Series) int {
	k, d := Stochastic(s)
	n := len(s)
	k0, ok1 := At(k, n-2)
	d0, ok2 := At(d, n-2)
	k1, ok3 := At(k, n-1)
	d1, ok4 := At(d, n-1)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0
	}
	switch {
	case k0 <= d0 && k1 > d1 && k0 < stochLow:
		return 1
	case k0 >= d0 && k1 < d1 && k0 > stochHigh:
		return -1
	default:
		return 0
	}
}
