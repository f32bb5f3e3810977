// Package attention flags open positions that need a human look.
package attention

import (
	"fmt"
	"time"

	"FinSignal/internal/domain/models"
)

type Analyzer struct {
	hold time.Duration
	now  func() time.Time
}

type Option func(*Analyzer)

func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

func NewAnalyzer(hold time.Duration, opts ...Option) *Analyzer {
	a := &Analyzer{hold: hold, now: time.Now}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze flags a long facing a SELL opportunity, a short facing a BUY
// opportunity, and independently any position held for at least the hold
// duration. A position can earn both flags.
func (a *Analyzer) Analyze(positions []models.Position, opportunities []models.AggregatedSignal) []models.AttentionFlag {
	byBase := make(map[string][]models.AggregatedSignal, len(opportunities))
	for _, o := range opportunities {
		base := models.BaseInstrument(o.Instrument)
		byBase[base] = append(byBase[base], o)
	}

	now := a.now()
	flags := make([]models.AttentionFlag, 0)
	for _, p := range positions {
		for _, o := range byBase[models.BaseInstrument(p.Instrument)] {
			if opposes(p.Side, o.Action) {
				flags = append(flags, models.AttentionFlag{
					Position: p,
					Reason:   models.ReasonOpposingSignal,
					Detail:   fmt.Sprintf("%s position against %s signal (score %.2f)", p.Side, o.Action, o.TotalScore),
				})
				break
			}
		}
		if held := now.Sub(p.OpenedAt); !p.OpenedAt.IsZero() && held >= a.hold {
			flags = append(flags, models.AttentionFlag{
				Position: p,
				Reason:   models.ReasonHoldingDuration,
				Detail:   fmt.Sprintf("held %s, limit %s", held.Truncate(time.Minute), a.hold),
			})
		}
	}
	return flags
}

func opposes(side models.Side, action models.Action) bool {
	switch side {
	case models.SideLong:
		return action == models.ActionSell
	case models.SideShort:
		return action == models.ActionBuy
	default:
		return false
	}
}
