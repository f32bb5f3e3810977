// Package strategy converts the raw strategy configuration into the typed,
// validated parameters shared by scoring, filtering and attention analysis.
package strategy

import (
	"fmt"
	"time"

	"FinSignal/internal/domain/models"
	"FinSignal/pkg/config"
)

// AverageKind selects the moving average used by the trend score.
type AverageKind string

const (
	AverageSMA AverageKind = "sma"
	AverageEMA AverageKind = "ema"
)

// TimeframeSetting is one configured timeframe with its aggregation weight.
type TimeframeSetting struct {
	Timeframe models.Timeframe
	Weight    float64
	MinBars   int
}

type Settings struct {
	// Timeframes are ordered slowest first.
	Timeframes       []TimeframeSetting
	Trigger          models.Timeframe
	BuyThreshold     float64
	SellThreshold    float64
	ATRPeriod        int
	RewardMultiplier float64
	StopMultiplier   float64
	AgreementBoost   float64
	MaxPositions     int
	MinStopDistance  float64
	MaxStopDistance  float64
	MinTimeframes    int
	AttentionHold    time.Duration
	Workers          int
	HistoryBars      int

	BandScoring       bool
	DivergenceScoring bool
	TrendAverage      AverageKind
}

// NewSettings validates cfg and builds Settings.
func NewSettings(cfg config.Strategy) (Settings, error) {
	s := Settings{
		BuyThreshold:      cfg.BuyThreshold,
		SellThreshold:     cfg.SellThreshold,
		ATRPeriod:         cfg.ATRPeriod,
		RewardMultiplier:  cfg.RewardMultiplier,
		StopMultiplier:    cfg.StopMultiplier,
		AgreementBoost:    cfg.AgreementBoost,
		MaxPositions:      cfg.MaxPositions,
		MinStopDistance:   cfg.MinStopDistance,
		MaxStopDistance:   cfg.MaxStopDistance,
		MinTimeframes:     cfg.MinTimeframes,
		AttentionHold:     cfg.AttentionHold,
		Workers:           cfg.Workers,
		HistoryBars:       cfg.HistoryBars,
		BandScoring:       cfg.BandScoring,
		DivergenceScoring: cfg.DivergenceScoring,
		TrendAverage:      AverageKind(cfg.TrendAverage),
	}

	seen := make(map[models.Timeframe]bool, len(cfg.Timeframes))
	for _, tw := range cfg.Timeframes {
		tf, err := models.ParseTimeframe(tw.Label)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: %v", models.ErrInvalidConfig, err)
		}
		if seen[tf] {
			return Settings{}, fmt.Errorf("%w: timeframe %s configured twice", models.ErrInvalidConfig, tf)
		}
		if tw.Weight <= 0 {
			return Settings{}, fmt.Errorf("%w: timeframe %s weight must be positive", models.ErrInvalidConfig, tf)
		}
		seen[tf] = true
		s.Timeframes = append(s.Timeframes, TimeframeSetting{Timeframe: tf, Weight: tw.Weight, MinBars: tw.MinBars})
	}

	trigger, err := models.ParseTimeframe(cfg.TriggerTimeframe)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: trigger: %v", models.ErrInvalidConfig, err)
	}
	if !seen[trigger] {
		return Settings{}, fmt.Errorf("%w: trigger timeframe %s is not configured", models.ErrInvalidConfig, trigger)
	}
	s.Trigger = trigger

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	s.sortTimeframes()
	return s, nil
}

// Validate checks the invariants the engine relies on.
func (s Settings) Validate() error {
	switch {
	case len(s.Timeframes) == 0:
		return fmt.Errorf("%w: no timeframes", models.ErrInvalidConfig)
	case s.BuyThreshold <= s.SellThreshold:
		return fmt.Errorf("%w: buy threshold must exceed sell threshold", models.ErrInvalidConfig)
	case s.ATRPeriod < 1:
		return fmt.Errorf("%w: atr period must be positive", models.ErrInvalidConfig)
	case s.RewardMultiplier <= 0 || s.StopMultiplier <= 0:
		return fmt.Errorf("%w: multipliers must be positive", models.ErrInvalidConfig)
	case s.MinStopDistance < 0 || s.MinStopDistance >= s.MaxStopDistance:
		return fmt.Errorf("%w: stop distance bounds", models.ErrInvalidConfig)
	case s.MinTimeframes < 1 || s.MinTimeframes > len(s.Timeframes):
		return fmt.Errorf("%w: min timeframes must be within [1,%d]", models.ErrInvalidConfig, len(s.Timeframes))
	case s.MaxPositions < 1:
		return fmt.Errorf("%w: max positions must be positive", models.ErrInvalidConfig)
	case s.TrendAverage != AverageSMA && s.TrendAverage != AverageEMA:
		return fmt.Errorf("%w: trend average %q", models.ErrInvalidConfig, s.TrendAverage)
	}
	return nil
}

func (s *Settings) sortTimeframes() {
	tfs := make([]models.Timeframe, len(s.Timeframes))
	byTF := make(map[models.Timeframe]TimeframeSetting, len(s.Timeframes))
	for i, ts := range s.Timeframes {
		tfs[i] = ts.Timeframe
		byTF[ts.Timeframe] = ts
	}
	models.SortSlowestFirst(tfs)
	for i, tf := range tfs {
		s.Timeframes[i] = byTF[tf]
	}
}

// Setting returns the configuration for tf.
func (s Settings) Setting(tf models.Timeframe) (TimeframeSetting, bool) {
	for _, ts := range s.Timeframes {
		if ts.Timeframe == tf {
			return ts, true
		}
	}
	return TimeframeSetting{}, false
}

// Fastest returns the shortest configured timeframe.
func (s Settings) Fastest() models.Timeframe {
	return s.Timeframes[len(s.Timeframes)-1].Timeframe
}

// Default returns the reference four-timeframe strategy.
func Default() Settings {
	s := Settings{
		Timeframes: []TimeframeSetting{
			{Timeframe: models.TF1d, Weight: 0.30, MinBars: 20},
			{Timeframe: models.TF4h, Weight: 0.25, MinBars: 20},
			{Timeframe: models.TF1h, Weight: 0.20, MinBars: 20},
			{Timeframe: models.TF15m, Weight: 0.25, MinBars: 20},
		},
		Trigger:           models.TF15m,
		BuyThreshold:      0.5,
		SellThreshold:     -0.5,
		ATRPeriod:         14,
		RewardMultiplier:  1.5,
		StopMultiplier:    1.0,
		AgreementBoost:    3.0,
		MaxPositions:      5,
		MinStopDistance:   0.003,
		MaxStopDistance:   0.10,
		MinTimeframes:     3,
		AttentionHold:     5 * time.Hour,
		Workers:           4,
		HistoryBars:       150,
		BandScoring:       true,
		DivergenceScoring: true,
		TrendAverage:      AverageSMA,
	}
	return s
}
