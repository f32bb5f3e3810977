package scoring

import (
	"fmt"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/strategy"
)

// Aggregation is the weighted cross-timeframe verdict before price levels.
type Aggregation struct {
	Signals     map[models.Timeframe]models.TimeframeSignal
	Action      models.Action
	Confidence  models.Confidence
	TotalScore  float64
	FullyAgreed bool
	Reasoning   []string
}

type Aggregator struct {
	settings strategy.Settings
}

func NewAggregator(settings strategy.Settings) *Aggregator {
	return &Aggregator{settings: settings}
}

// Aggregate combines the configured timeframes present in signals. It
// returns false when fewer than the minimum number are present.
func (g *Aggregator) Aggregate(signals map[models.Timeframe]models.TimeframeSignal) (Aggregation, bool) {
	agg := Aggregation{Signals: make(map[models.Timeframe]models.TimeframeSignal, len(signals))}

	direction, agreed := 0, true
	for _, ts := range g.settings.Timeframes {
		sig, ok := signals[ts.Timeframe]
		if !ok {
			continue
		}
		agg.Signals[ts.Timeframe] = sig
		agg.TotalScore += float64(sig.Action.Direction()) * sig.Strength * ts.Weight
		agg.Reasoning = append(agg.Reasoning, fmt.Sprintf("%s: %s (%.2f)", ts.Timeframe, sig.Action, sig.Strength))

		d := sig.Action.Direction()
		switch {
		case d == 0:
			agreed = false
		case direction == 0:
			direction = d
		case d != direction:
			agreed = false
		}
	}
	if len(agg.Signals) < g.settings.MinTimeframes {
		return Aggregation{}, false
	}

	switch {
	case agg.TotalScore >= g.settings.BuyThreshold:
		agg.Action, agg.Confidence = models.ActionBuy, models.ConfidenceHigh
	case agg.TotalScore <= g.settings.SellThreshold:
		agg.Action, agg.Confidence = models.ActionSell, models.ConfidenceHigh
	default:
		agg.Action, agg.Confidence = models.ActionHold, models.ConfidenceLow
	}
	agg.FullyAgreed = agreed && direction != 0

	agg.Reasoning = append(agg.Reasoning, fmt.Sprintf("total score %.3f -> %s", agg.TotalScore, agg.Action))
	if agg.FullyAgreed {
		agg.Reasoning = append(agg.Reasoning, "fully agreed")
	}
	return agg, true
}
