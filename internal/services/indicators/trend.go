package indicators

import "FinSignal/internal/domain/models"

const (
	shortTrendPeriod = 20
	longTrendPeriod  = 50
)

// TrendScore compares price with a short and a long moving average.
// With fewer than 50 bars the long average falls back to the current price,
// which caps the score at +/-1.
func TrendScore(s models.Series, avg Average) float64 {
	if len(s) < shortTrendPeriod {
		return 0
	}
	closes := s.Closes()
	price := closes[len(closes)-1]

	short, ok := Last(avg(closes, shortTrendPeriod))
	if !ok {
		return 0
	}
	long := price
	if len(closes) >= longTrendPeriod {
		if v, ok := Last(avg(closes, longTrendPeriod)); ok {
			long = v
		}
	}

	switch {
	case price > short && short > long:
		return 2
	case price < short && short < long:
		return -2
	case price > short:
		return 1
	case price < short:
		return -1
	default:
		return 0
	}
}
