package indicators

import (
	"math"

	"FinSignal/internal/domain/models"
)

// TrueRange returns max(h-l, |h-prevClose|, |l-prevClose|) for bars[1:].
func TrueRange(s models.Series) []float64 {
	if len(s) < 2 {
		return nil
	}
	out := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		h, l, pc := s[i].High, s[i].Low, s[i-1].Close
		out = append(out, math.Max(h-l, math.Max(math.Abs(h-pc), math.Abs(l-pc))))
	}
	return out
}

// ATR averages the last period true ranges; 0 when history is too short.
func ATR(s models.Series, period int) float64 {
	tr := TrueRange(s)
	if period < 1 || len(tr) < period {
		return 0
	}
	v, ok := Last(SMA(tr, period))
	if !ok {
		return 0
	}
	return v
}
