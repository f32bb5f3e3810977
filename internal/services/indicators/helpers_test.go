package indicators

import (
	"time"

	"FinSignal/internal/domain/models"
)

// fromCloses builds body-less bars with 0.2 wicks so no candle pattern
// fires unless a test adds one.
func fromCloses(closes []float64, volume float64) models.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.Series, len(closes))
	for i, c := range closes {
		s[i] = models.Bar{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   c,
			High:   c + 0.2,
			Low:    c - 0.2,
			Close:  c,
			Volume: volume,
		}
	}
	return s
}

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func alternating(n int, a, b float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = a
		} else {
			out[i] = b
		}
	}
	return out
}
