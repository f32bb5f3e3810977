package indicators

import (
	"math"

	"FinSignal/internal/domain/models"
)

func body(b models.Bar) float64 { return math.Abs(b.Close - b.Open) }

func upperShadow(b models.Bar) float64 { return b.High - math.Max(b.Open, b.Close) }

func lowerShadow(b models.Bar) float64 { return math.Min(b.Open, b.Close) - b.Low }

func isBullish(b models.Bar) bool { return b.Close > b.Open }

func isBearish(b models.Bar) bool { return b.Close < b.Open }

// IsHammer: long lower wick, tiny upper wick.
func IsHammer(b models.Bar) bool {
	rng := b.High - b.Low
	if rng <= 0 {
		return false
	}
	return lowerShadow(b) >= 2*body(b) && lowerShadow(b) >= 0.6*rng && upperShadow(b) <= 0.1*rng
}

// IsShootingStar: long upper wick, tiny lower wick.
func IsShootingStar(b models.Bar) bool {
	rng := b.High - b.Low
	if rng <= 0 {
		return false
	}
	return upperShadow(b) >= 2*body(b) && upperShadow(b) >= 0.6*rng && lowerShadow(b) <= 0.1*rng
}

// IsBullishEngulfing: a bullish body that swallows the prior bearish body.
func IsBullishEngulfing(prev, cur models.Bar) bool {
	return isBearish(prev) && isBullish(cur) && cur.Open <= prev.Close && cur.Close >= prev.Open
}

// IsBearishEngulfing: a bearish body that swallows the prior bullish body.
func IsBearishEngulfing(prev, cur models.Bar) bool {
	return isBullish(prev) && isBearish(cur) && cur.Open >= prev.Close && cur.Close <= prev.Open
}

// BullishReversal reports a bullish reversal candle on the latest or prior bar.
func BullishReversal(s models.Series) bool {
	return reversalNear(s, IsHammer, IsBullishEngulfing)
}

// BearishReversal reports a bearish reversal candle on the latest or prior bar.
func BearishReversal(s models.Series) bool {
	return reversalNear(s, IsShootingStar, IsBearishEngulfing)
}

func reversalNear(s models.Series, single func(models.Bar) bool, pair func(prev, cur models.Bar) bool) bool {
	for back := 0; back < 2; back++ {
		i := len(s) - 1 - back
		if i < 0 {
			return false
		}
		if single(s[i]) {
			return true
		}
		if i > 0 && pair(s[i-1], s[i]) {
			return true
		}
	}
	return false
}
