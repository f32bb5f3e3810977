package scoring

import (
	"sort"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/strategy"
	"FinSignal/internal/services/indicators"
)

// Levels are the entry, target and stop prices of a signal.
type Levels struct {
	Entry      float64
	Target     float64
	Stop       float64
	Volatility float64
	Reward     float64
}

type TargetEngine struct {
	settings strategy.Settings
}

func NewTargetEngine(settings strategy.Settings) *TargetEngine {
	return &TargetEngine{settings: settings}
}

// Levels derives prices from the fastest configured timeframe with enough
// bars for ATR, falling back to progressively slower ones. When none has
// enough, the fastest non-empty series still supplies the entry.
func (e *TargetEngine) Levels(series map[models.Timeframe][]models.Bar, action models.Action, fullyAgreed bool) Levels {
	ref := e.referenceSeries(series)
	if len(ref) == 0 {
		return Levels{}
	}

	entry := ref.Last().Close
	atr := indicators.ATR(ref, e.settings.ATRPeriod)
	reward := e.settings.RewardMultiplier
	if fullyAgreed {
		reward *= e.settings.AgreementBoost
	}

	lv := Levels{Entry: entry, Target: entry, Stop: entry, Volatility: atr, Reward: reward}
	switch action.Direction() {
	case 1:
		lv.Target = entry + reward*atr
		lv.Stop = entry - e.settings.StopMultiplier*atr
	case -1:
		lv.Target = entry - reward*atr
		lv.Stop = entry + e.settings.StopMultiplier*atr
	}
	return lv
}

func (e *TargetEngine) referenceSeries(series map[models.Timeframe][]models.Bar) models.Series {
	tfs := make([]models.Timeframe, 0, len(e.settings.Timeframes))
	for _, ts := range e.settings.Timeframes {
		tfs = append(tfs, ts.Timeframe)
	}
	sort.SliceStable(tfs, func(i, j int) bool { return tfs[i].Duration() < tfs[j].Duration() })

	var fallback models.Series
	for _, tf := range tfs {
		bars := series[tf]
		if len(bars) > e.settings.ATRPeriod {
			return bars
		}
		if fallback == nil && len(bars) > 0 {
			fallback = bars
		}
	}
	return fallback
}
