package indicators

import "FinSignal/internal/domain/models"

const (
	bandPeriod    = 20
	bandDeviation = 2.0
	bandWindow    = 10
	// recent width may exceed the prior window by this fraction and still count as flat
	bandFlatTolerance = 0.05
	bandProximity     = 0.01
	minPatternScore   = 3
)

// Bollinger returns middle/upper/lower bands for the window ending at end.
func Bollinger(closes []float64, end int) (mid, upper, lower float64, ok bool) {
	start := end - bandPeriod + 1
	if start < 0 || end >= len(closes) {
		return 0, 0, 0, false
	}
	window := closes[start : end+1]
	mid = mean(window)
	sd := stddev(window)
	return mid, mid + bandDeviation*sd, mid - bandDeviation*sd, true
}

func bandWidth(closes []float64, end int) (float64, bool) {
	mid, up, lo, ok := Bollinger(closes, end)
	if !ok || mid == 0 {
		return 0, false
	}
	return (up - lo) / mid, true
}

// BandsContracting reports whether the mean band width over the last ten
// bars is no wider than over the ten bars before.
func BandsContracting(closes []float64) bool {
	n := len(closes)
	if n < bandPeriod+2*bandWindow-1 {
		return false
	}
	var recent, prior float64
	for i := 0; i < bandWindow; i++ {
		r, ok1 := bandWidth(closes, n-1-i)
		p, ok2 := bandWidth(closes, n-1-bandWindow-i)
		if !ok1 || !ok2 {
			return false
		}
		recent += r
		prior += p
	}
	return recent <= prior*(1+bandFlatTolerance)
}

// BandScore looks for price pressing a band while the bands are flat or
// narrowing, then requires confirmation before scoring.
func BandScore(s models.Series) float64 {
	closes := s.Closes()
	if !BandsContracting(closes) {
		return 0
	}
	_, upper, lower, ok := Bollinger(closes, len(closes)-1)
	if !ok {
		return 0
	}
	price := closes[len(closes)-1]
	rsi, rsiOK := Last(RSI(closes, momentumPeriod))
	stoch := StochasticCross(s)

	if price <= lower*(1+bandProximity) {
		sub := 0
		if rsiOK && rsi < oversold {
			sub += 2
		}
		if stoch > 0 {
			sub++
		}
		if BullishReversal(s) {
			sub++
		}
		if sub >= minPatternScore {
			return float64(sub)
		}
	}
	if price >= upper*(1-bandProximity) {
		sub := 0
		if rsiOK && rsi > overbought {
			sub += 2
		}
		if stoch < 0 {
			sub++
		}
		if BearishReversal(s) {
			sub++
		}
		if sub >= minPatternScore {
			return -float64(sub)
		}
	}
	return 0
}
