// Package indicators computes the per-timeframe technical scores. Every
// scorer returns 0 when the series is too short for its lookback.
package indicators

import (
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"

	"FinSignal/internal/domain/strategy"
)

// Average computes a moving average aligned to the input length.
type Average func(values []float64, period int) []float64

// AverageFor maps the configured kind to its implementation.
func AverageFor(kind strategy.AverageKind) Average {
	if kind == strategy.AverageEMA {
		return EMA
	}
	return SMA
}

// SMA returns the simple moving average aligned to values; warmup slots are NaN.
func SMA(values []float64, period int) []float64 {
	if period < 1 || len(values) < period {
		return nanSlice(len(values))
	}
	sma := trend.NewSmaWithPeriod[float64](period)
	return alignRight(helper.ChanToSlice(sma.Compute(helper.SliceToChan(values))), len(values))
}

// EMA returns the exponential moving average aligned to values.
func EMA(values []float64, period int) []float64 {
	if period < 1 || len(values) < period {
		return nanSlice(len(values))
	}
	ema := trend.NewEmaWithPeriod[float64](period)
	return alignRight(helper.ChanToSlice(ema.Compute(helper.SliceToChan(values))), len(values))
}

// RSI returns the relative strength index aligned to values. A flat
// window has no gains or losses and reads as neutral 50.
func RSI(values []float64, period int) []float64 {
	if period < 1 || len(values) <= period {
		return nanSlice(len(values))
	}
	rsi := momentum.NewRsiWithPeriod[float64](period)
	out := helper.ChanToSlice(rsi.Compute(helper.SliceToChan(values)))
	for i, v := range out {
		if math.IsNaN(v) {
			out[i] = 50
		}
	}
	return alignRight(out, len(values))
}

// Last returns the final value and whether it is usable.
func Last(values []float64) (float64, bool) {
	return At(values, len(values)-1)
}

// At returns values[i] and whether it is in range and not NaN.
func At(values []float64, i int) (float64, bool) {
	if i < 0 || i >= len(values) || math.IsNaN(values[i]) {
		return 0, false
	}
	return values[i], true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the population standard deviation.
func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sq float64
	for _, v := range values {
		sq += (v - m) * (v - m)
	}
	return math.Sqrt(sq / float64(len(values)))
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// alignRight pads the indicator output on the left so out[i] lines up with input i.
func alignRight(out []float64, n int) []float64 {
	if len(out) >= n {
		return out[len(out)-n:]
	}
	res := nanSlice(n - len(out))
	return append(res, out...)
}
