package filters

import (
	"fmt"

	"github.com/shopspring/decimal"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/strategy"
)

const (
	StageThreshold     = "threshold"
	StageContradiction = "contradiction"
	StageTrigger       = "trigger_confirmation"
	StageStopDistance  = "stop_distance"
	StageAlreadyHeld   = "already_held"
	StagePositionCap   = "position_cap"
)

// Stage narrows the candidate set. reason is empty for kept candidates.
type Stage interface {
	Name() string
	Apply(candidates []models.AggregatedSignal, snap Snapshot) (kept []models.AggregatedSignal, dropped []Drop)
}

// Drop records why a candidate left the pipeline.
type Drop struct {
	Stage  string
	Signal models.AggregatedSignal
	Reason string
}

// predicate is a per-candidate stage.
type predicate struct {
	name string
	keep func(sig models.AggregatedSignal, snap Snapshot) (bool, string)
}

func (p predicate) Name() string { return p.name }

func (p predicate) Apply(candidates []models.AggregatedSignal, snap Snapshot) ([]models.AggregatedSignal, []Drop) {
	kept := candidates[:0:0]
	var dropped []Drop
	for _, c := range candidates {
		if ok, reason := p.keep(c, snap); ok {
			kept = append(kept, c)
		} else {
			dropped = append(dropped, Drop{Stage: p.name, Signal: c, Reason: reason})
		}
	}
	return kept, dropped
}

// ThresholdStage keeps BUY at or above the buy threshold and SELL at or
// below the sell threshold.
func ThresholdStage(s strategy.Settings) Stage {
	return predicate{name: StageThreshold, keep: func(sig models.AggregatedSignal, _ Snapshot) (bool, string) {
		switch {
		case sig.Action == models.ActionBuy && sig.TotalScore >= s.BuyThreshold:
			return true, ""
		case sig.Action == models.ActionSell && sig.TotalScore <= s.SellThreshold:
			return true, ""
		}
		return false, fmt.Sprintf("%s with score %.3f", sig.Action, sig.TotalScore)
	}}
}

// ContradictionStage drops a candidate when any timeframe points the other way.
func ContradictionStage() Stage {
	return predicate{name: StageContradiction, keep: func(sig models.AggregatedSignal, _ Snapshot) (bool, string) {
		want := sig.Action.Direction()
		for tf, ts := range sig.Signals {
			if d := ts.Action.Direction(); d != 0 && d != want {
				return false, fmt.Sprintf("%s reports %s", tf, ts.Action)
			}
		}
		return true, ""
	}}
}

// TriggerStage requires the trigger timeframe to agree with the action.
func TriggerStage(s strategy.Settings) Stage {
	return predicate{name: StageTrigger, keep: func(sig models.AggregatedSignal, _ Snapshot) (bool, string) {
		ts, ok := sig.Signals[s.Trigger]
		if !ok {
			return false, fmt.Sprintf("trigger %s missing", s.Trigger)
		}
		if ts.Action.Direction() != sig.Action.Direction() {
			return false, fmt.Sprintf("trigger %s reports %s", s.Trigger, ts.Action)
		}
		return true, ""
	}}
}

// StopDistanceStage bounds |entry-stop|/entry inclusively. The ratio is
// computed in decimal so the configured bounds are exact.
func StopDistanceStage(s strategy.Settings) Stage {
	lo := decimal.NewFromFloat(s.MinStopDistance)
	hi := decimal.NewFromFloat(s.MaxStopDistance)
	return predicate{name: StageStopDistance, keep: func(sig models.AggregatedSignal, _ Snapshot) (bool, string) {
		entry := decimal.NewFromFloat(sig.EntryPrice)
		if !entry.IsPositive() {
			return false, "non-positive entry"
		}
		d := entry.Sub(decimal.NewFromFloat(sig.StopLoss)).Abs().Div(entry)
		if d.LessThan(lo) || d.GreaterThan(hi) {
			return false, fmt.Sprintf("stop distance %s outside [%s,%s]", d.StringFixed(5), lo, hi)
		}
		return true, ""
	}}
}

// AlreadyHeldStage drops instruments that already have an open position.
func AlreadyHeldStage() Stage {
	return predicate{name: StageAlreadyHeld, keep: func(sig models.AggregatedSignal, snap Snapshot) (bool, string) {
		base := models.BaseInstrument(sig.Instrument)
		for _, p := range snap.Positions() {
			if models.BaseInstrument(p.Instrument) == base {
				return false, "position already open"
			}
		}
		return true, ""
	}}
}

type positionCap struct {
	max int
}

// PositionCapStage drops every remaining candidate once open positions
// reach the configured maximum.
func PositionCapStage(s strategy.Settings) Stage { return positionCap{max: s.MaxPositions} }

func (positionCap) Name() string { return StagePositionCap }

func (c positionCap) Apply(candidates []models.AggregatedSignal, snap Snapshot) ([]models.AggregatedSignal, []Drop) {
	open := len(snap.Positions())
	if open < c.max {
		return candidates, nil
	}
	dropped := make([]Drop, 0, len(candidates))
	reason := fmt.Sprintf("%d open positions, cap %d", open, c.max)
	for _, sig := range candidates {
		dropped = append(dropped, Drop{Stage: StagePositionCap, Signal: sig, Reason: reason})
	}
	return nil, dropped
}
