package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/strategy"
)

func TestActionForScore(t *testing.T) {
	cases := []struct {
		score    float64
		action   models.Action
		strength float64
	}{
		{3, models.ActionStrongBuy, 0.75},
		{1.5, models.ActionBuy, 0.375},
		{1.49, models.ActionHold, 0.3725},
		{0, models.ActionHold, 0},
		{-1.5, models.ActionSell, 0.375},
		{-3.2, models.ActionStrongSell, 0.8},
		{9, models.ActionStrongBuy, 1},
	}
	for _, tc := range cases {
		action, strength := ActionForScore(tc.score)
		assert.Equal(t, tc.action, action, "score %v", tc.score)
		assert.InDelta(t, tc.strength, strength, 1e-9, "score %v", tc.score)
	}
}

func TestAnalyzeShortSeriesHolds(t *testing.T) {
	a := NewTimeframeAnalyzer(strategy.Default())
	got := a.Analyze(models.TF4h, rising(19, 100, 1))
	assert.Equal(t, models.ActionHold, got.Action)
	assert.Zero(t, got.Strength)
}

func TestAnalyzeRespectsConfiguredMinimum(t *testing.T) {
	s := strategy.Default()
	s.Timeframes[1].MinBars = 60
	a := NewTimeframeAnalyzer(s)
	got := a.Analyze(s.Timeframes[1].Timeframe, rising(59, 100, 1))
	assert.Equal(t, models.ActionHold, got.Action)
	assert.Zero(t, got.Strength)
}

func TestTriggerUsesCrossoverOnlyAndIsDampened(t *testing.T) {
	a := NewTimeframeAnalyzer(threeTimeframes())

	bars := rising(30, 200, -1)
	last := bars[len(bars)-1].Close + 5
	bars = append(bars, models.Bar{Open: last, High: last + 0.2, Low: last - 0.2, Close: last, Volume: 1000})

	got := a.Analyze(models.TF15m, bars)
	assert.InDelta(t, 1.6, got.Score, 1e-9)
	assert.Equal(t, models.ActionBuy, got.Action)
	assert.InDelta(t, 0.4, got.Strength, 1e-9)
}

func TestFastestTimeframeSkipsTrend(t *testing.T) {
	s := threeTimeframes()
	s.Timeframes[2].Timeframe = models.TF5m
	s.Trigger = models.TF4h
	s.BandScoring = false
	s.DivergenceScoring = false
	a := NewTimeframeAnalyzer(s)

	// trend would add +2; only the overbought RSI remains, dampened
	fast := a.Analyze(models.TF5m, rising(60, 100, 1))
	assert.InDelta(t, -1.6, fast.Score, 1e-9)
	assert.Equal(t, models.ActionSell, fast.Action)

	// trend and momentum cancel on a slower timeframe
	slow := a.Analyze(models.TF1h, rising(60, 100, 1))
	assert.InDelta(t, 0, slow.Score, 1e-9)
	assert.Equal(t, models.ActionHold, slow.Action)
}
