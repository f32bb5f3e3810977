package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandsContracting(t *testing.T) {
	assert.True(t, BandsContracting(alternating(45, 99.5, 100.5)))

	widening := alternating(45, 99.5, 100.5)
	for i := 30; i < len(widening); i++ {
		widening[i] += float64(i-30) * float64(i%2*2-1)
	}
	assert.False(t, BandsContracting(widening))

	assert.False(t, BandsContracting(alternating(30, 99.5, 100.5)))
}

func TestBandScoreOversoldAtLowerBand(t *testing.T) {
	closes := linear(45, 1000, -0.5)
	s := fromCloses(closes, 1000)
	last := len(s) - 1
	// hammer on the final bar
	s[last].Open = s[last].Close + 0.05
	s[last].High = s[last].Open
	s[last].Low = s[last].Close - 2

	assert.GreaterOrEqual(t, BandScore(s), 3.0)
}

func TestBandScoreNeedsConfirmation(t *testing.T) {
	// oversold at the lower band but no reversal candle or stochastic cross
	s := fromCloses(linear(45, 1000, -0.5), 1000)
	assert.Zero(t, BandScore(s))
}

func TestSwingPoints(t *testing.T) {
	s := fromCloses([]float64{1, 2, 5, 2, 1, 0, 1, 2}, 1)
	highs, lows := SwingPoints(s, 2)
	require.Len(t, highs, 1)
	assert.Equal(t, 2, highs[0].Index)
	require.Len(t, lows, 1)
	assert.Equal(t, 5, lows[0].Index)
}

// bearishDivergence builds a sharp rally to a first peak, a pullback and a
// choppy grind to a marginally higher second peak on lower volume.
func bearishDivergence() []float64 {
	closes := alternating(20, 100, 100.5)
	price := 100.5
	for i := 0; i < 8; i++ {
		price += 2
		closes = append(closes, price)
	}
	for i := 0; i < 8; i++ {
		price -= 2
		closes = append(closes, price)
	}
	for i := 0; i < 28; i++ {
		if i%2 == 0 {
			price -= 0.8
		} else {
			price += 2
		}
		closes = append(closes, price)
	}
	for i := 0; i < 6; i++ {
		price -= 0.5
		closes = append(closes, price)
	}
	return closes
}

func TestDivergenceScoreBearish(t *testing.T) {
	closes := bearishDivergence()
	require.Len(t, closes, 70)
	s := fromCloses(closes, 1000)
	s[27].Volume = 2000

	assert.LessOrEqual(t, DivergenceScore(s), -3.0)
}

func TestDivergenceScoreInsufficient(t *testing.T) {
	s := fromCloses(bearishDivergence()[:40], 1000)
	assert.Zero(t, DivergenceScore(s))
}

func TestBandScoreOverboughtAtUpperBand(t *testing.T) {
	closes := linear(45, 1000, 0.5)
	s := fromCloses(closes, 1000)
	last := len(s) - 1
	// shooting star on the final bar
	s[last].Open = s[last].Close - 0.05
	s[last].Low = s[last].Open
	s[last].High = s[last].Close + 2

	assert.LessOrEqual(t, BandScore(s), -3.0)
}

func TestBandScoreOverboughtNeedsConfirmation(t *testing.T) {
	s := fromCloses(linear(45, 1000, 0.5), 1000)
	assert.Zero(t, BandScore(s))
}

// reflect mirrors closes around axis so peaks become troughs.
func reflect(closes []float64, axis float64) []float64 {
	out := make([]float64, len(closes))
	for i, c := range closes {
		out[i] = 2*axis - c
	}
	return out
}

func TestDivergenceScoreBullish(t *testing.T) {
	closes := reflect(bearishDivergence(), 100)
	s := fromCloses(closes, 1000)
	s[27].Volume = 2000

	assert.GreaterOrEqual(t, DivergenceScore(s), 3.0)
}

func TestDivergenceScoreMirrorsBearish(t *testing.T) {
	closes := reflect(bearishDivergence(), 100)
	s := fromCloses(closes, 1000)
	s[27].Volume = 2000
	bear := fromCloses(bearishDivergence(), 1000)
	bear[27].Volume = 2000

	assert.InDelta(t, -DivergenceScore(bear), DivergenceScore(s), 1e-9)
}
