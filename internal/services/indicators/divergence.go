package indicators

import "FinSignal/internal/domain/models"

const (
	divergenceWindow  = 50
	swingLookback     = 2
	rsiMatchTolerance = 2
	divergenceBase    = 2
)

// SwingPoint is a local extreme inside a series.
type SwingPoint struct {
	Index int
	Price float64
}

// SwingPoints finds bars whose high (low) is strictly above (below) every
// bar within lookback on both sides.
func SwingPoints(s models.Series, lookback int) (highs, lows []SwingPoint) {
	if len(s) < lookback*2+1 {
		return nil, nil
	}
	for i := lookback; i < len(s)-lookback; i++ {
		isHigh, isLow := true, true
		for j := i - lookback; j <= i+lookback; j++ {
			if j == i {
				continue
			}
			if s[j].High >= s[i].High {
				isHigh = false
			}
			if s[j].Low <= s[i].Low {
				isLow = false
			}
		}
		if isHigh {
			highs = append(highs, SwingPoint{Index: i, Price: s[i].High})
		}
		if isLow {
			lows = append(lows, SwingPoint{Index: i, Price: s[i].Low})
		}
	}
	return highs, lows
}

// rsiNear picks the most extreme RSI within the tolerance around i.
func rsiNear(rsi []float64, i int, highest bool) (float64, bool) {
	var best float64
	found := false
	for j := i - rsiMatchTolerance; j <= i+rsiMatchTolerance; j++ {
		v, ok := At(rsi, j)
		if !ok {
			continue
		}
		if !found || (highest && v > best) || (!highest && v < best) {
			best, found = v, true
		}
	}
	return best, found
}

// DivergenceScore compares the last two swing highs and lows in the
// trailing window with RSI. A regular divergence earns a base score that
// overbought/oversold RSI, contracting volume and a reversal candle
// can lift; only totals of 3 or more count.
func DivergenceScore(s models.Series) float64 {
	if len(s) < divergenceWindow {
		return 0
	}
	rsiAll := RSI(s.Closes(), momentumPeriod)
	offset := len(s) - divergenceWindow
	window := s[offset:]
	rsi := rsiAll[offset:]
	highs, lows := SwingPoints(window, swingLookback)

	var score float64
	if len(highs) >= 2 {
		p1, p2 := highs[len(highs)-2], highs[len(highs)-1]
		r1, ok1 := rsiNear(rsi, p1.Index, true)
		r2, ok2 := rsiNear(rsi, p2.Index, true)
		if ok1 && ok2 && p2.Price > p1.Price && r2 < r1 {
			sub := divergenceBase
			if r1 > overbought || r2 > overbought {
				sub++
			}
			if window[p2.Index].Volume < window[p1.Index].Volume {
				sub++
			}
			if BearishReversal(window) {
				sub++
			}
			if sub >= minPatternScore {
				score -= float64(sub)
			}
		}
	}
	if len(lows) >= 2 {
		p1, p2 := lows[len(lows)-2], lows[len(lows)-1]
		r1, ok1 := rsiNear(rsi, p1.Index, false)
		r2, ok2 := rsiNear(rsi, p2.Index, false)
		if ok1 && ok2 && p2.Price < p1.Price && r2 > r1 {
			sub := divergenceBase
			if r1 < oversold || r2 < oversold {
				sub++
			}
			if window[p2.Index].Volume < window[p1.Index].Volume {
				sub++
			}
			if BullishReversal(window) {
				sub++
			}
			if sub >= minPatternScore {
				score += float64(sub)
			}
		}
	}
	return score
}
