// Package scoring turns multi-timeframe bar series into aggregated signals
// with entry, target and stop levels.
package scoring

import (
	"time"

	"github.com/google/uuid"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/strategy"
	"FinSignal/pkg/logger"
)

type Engine struct {
	analyzer   *TimeframeAnalyzer
	aggregator *Aggregator
	targets    *TargetEngine
	settings   strategy.Settings
	now        func() time.Time
	l          *logger.Logger
}

type EngineOption func(*Engine)

// WithClock overrides the time source used to stamp signals.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func WithLogger(l *logger.Logger) EngineOption {
	return func(e *Engine) { e.l = l }
}

func NewEngine(settings strategy.Settings, opts ...EngineOption) *Engine {
	e := &Engine{
		analyzer:   NewTimeframeAnalyzer(settings),
		aggregator: NewAggregator(settings),
		targets:    NewTargetEngine(settings),
		settings:   settings,
		now:        time.Now,
		l:          logger.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Analyze scores each configured timeframe present in series and combines
// them. Missing or empty series are skipped; nil is returned when fewer
// than the minimum number of timeframes remain.
func (e *Engine) Analyze(instrument string, series map[models.Timeframe][]models.Bar) *models.AggregatedSignal {
	signals := make(map[models.Timeframe]models.TimeframeSignal, len(series))
	for _, ts := range e.settings.Timeframes {
		bars, ok := series[ts.Timeframe]
		if !ok || len(bars) == 0 {
			continue
		}
		signals[ts.Timeframe] = e.analyzer.Analyze(ts.Timeframe, bars)
	}

	agg, ok := e.aggregator.Aggregate(signals)
	if !ok {
		e.l.Debug("not enough timeframes",
			logger.String("instrument", instrument),
			logger.Int("available", len(signals)),
			logger.Int("required", e.settings.MinTimeframes),
		)
		return nil
	}

	lv := e.targets.Levels(series, agg.Action, agg.FullyAgreed)
	return &models.AggregatedSignal{
		ID:          uuid.NewString(),
		Instrument:  instrument,
		Signals:     agg.Signals,
		Action:      agg.Action,
		Confidence:  agg.Confidence,
		TotalScore:  agg.TotalScore,
		EntryPrice:  lv.Entry,
		TargetPrice: lv.Target,
		StopLoss:    lv.Stop,
		Volatility:  lv.Volatility,
		FullyAgreed: agg.FullyAgreed,
		Reasoning:   agg.Reasoning,
		CreatedAt:   e.now().UTC(),
	}
}
