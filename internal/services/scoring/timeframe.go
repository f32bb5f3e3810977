package scoring

import (
	"math"
	"time"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/strategy"
	"FinSignal/internal/services/indicators"
)

const (
	minBarsForScore  = 20
	shortDampening   = 0.8
	shortTimeframe   = 15 * time.Minute
	strongThreshold  = 3.0
	regularThreshold = 1.5
	strengthDivisor  = 4.0
)

// TimeframeAnalyzer scores a single timeframe's bar series.
type TimeframeAnalyzer struct {
	settings strategy.Settings
	average  indicators.Average
}

func NewTimeframeAnalyzer(settings strategy.Settings) *TimeframeAnalyzer {
	return &TimeframeAnalyzer{settings: settings, average: indicators.AverageFor(settings.TrendAverage)}
}

// Analyze returns HOLD with zero strength when the series is shorter than
// 20 bars or the timeframe's configured minimum.
func (a *TimeframeAnalyzer) Analyze(tf models.Timeframe, bars models.Series) models.TimeframeSignal {
	if len(bars) < a.minBars(tf) {
		return models.TimeframeSignal{Timeframe: tf, Action: models.ActionHold}
	}

	score := a.score(tf, bars)
	if tf.Duration() <= shortTimeframe {
		score *= shortDampening
	}
	action, strength := ActionForScore(score)
	return models.TimeframeSignal{Timeframe: tf, Action: action, Score: score, Strength: strength}
}

func (a *TimeframeAnalyzer) minBars(tf models.Timeframe) int {
	if ts, ok := a.settings.Setting(tf); ok && ts.MinBars > minBarsForScore {
		return ts.MinBars
	}
	return minBarsForScore
}

func (a *TimeframeAnalyzer) score(tf models.Timeframe, bars models.Series) float64 {
	if tf == a.settings.Trigger {
		return indicators.CrossoverScore(bars)
	}

	var score float64
	if tf != a.settings.Fastest() {
		score += indicators.TrendScore(bars, a.average)
	}
	score += indicators.MomentumScore(bars)
	score += indicators.VolumeScore(bars)
	if a.settings.BandScoring {
		score += indicators.BandScore(bars)
	}
	if a.settings.DivergenceScoring {
		score += indicators.DivergenceScore(bars)
	}
	return score
}

// ActionForScore maps a composite score to an action and a [0,1] strength.
func ActionForScore(score float64) (models.Action, float64) {
	var action models.Action
	switch {
	case score >= strongThreshold:
		action = models.ActionStrongBuy
	case score >= regularThreshold:
		action = models.ActionBuy
	case score <= -strongThreshold:
		action = models.ActionStrongSell
	case score <= -regularThreshold:
		action = models.ActionSell
	default:
		action = models.ActionHold
	}
	return action, math.Min(math.Abs(score)/strengthDivisor, 1)
}
