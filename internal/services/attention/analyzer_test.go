package attention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSignal/internal/domain/models"
)

var now = time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)

func analyzer() *Analyzer {
	return NewAnalyzer(5*time.Hour, WithClock(func() time.Time { return now }))
}

func position(instrument string, side models.Side, age time.Duration) models.Position {
	return models.Position{Instrument: instrument, Side: side, Size: 1, EntryPrice: 100, CurrentPrice: 101, OpenedAt: now.Add(-age)}
}

func opportunity(instrument string, action models.Action) models.AggregatedSignal {
	return models.AggregatedSignal{Instrument: instrument, Action: action}
}

func TestOldPositionWithoutOpportunity(t *testing.T) {
	flags := analyzer().Analyze([]models.Position{position("BTC/USDT", models.SideLong, 6*time.Hour)}, nil)
	require.Len(t, flags, 1)
	assert.Equal(t, models.ReasonHoldingDuration, flags[0].Reason)
}

func TestHoldBoundaryIsInclusive(t *testing.T) {
	flags := analyzer().Analyze([]models.Position{position("BTC/USDT", models.SideLong, 5*time.Hour)}, nil)
	assert.Len(t, flags, 1)

	flags = analyzer().Analyze([]models.Position{position("BTC/USDT", models.SideLong, 5*time.Hour-time.Second)}, nil)
	assert.Empty(t, flags)
}

func TestOpposingSignals(t *testing.T) {
	positions := []models.Position{
		position("BTC/USDT:USDT", models.SideLong, time.Hour),
		position("ETH-PERP", models.SideShort, time.Hour),
		position("SOL/USDT", models.SideLong, time.Hour),
	}
	opps := []models.AggregatedSignal{
		opportunity("BTC/USDT", models.ActionSell),
		opportunity("ETH", models.ActionBuy),
		opportunity("SOL/USDT", models.ActionBuy),
	}

	flags := analyzer().Analyze(positions, opps)
	require.Len(t, flags, 2)
	assert.Equal(t, "BTC/USDT:USDT", flags[0].Position.Instrument)
	assert.Equal(t, models.ReasonOpposingSignal, flags[0].Reason)
	assert.Equal(t, "ETH-PERP", flags[1].Position.Instrument)
	assert.Equal(t, models.ReasonOpposingSignal, flags[1].Reason)
}

func TestBothReasons(t *testing.T) {
	flags := analyzer().Analyze(
		[]models.Position{position("BTC/USDT", models.SideLong, 7*time.Hour)},
		[]models.AggregatedSignal{opportunity("BTC/USDT", models.ActionSell)},
	)
	require.Len(t, flags, 2)
	assert.Equal(t, models.ReasonOpposingSignal, flags[0].Reason)
	assert.Equal(t, models.ReasonHoldingDuration, flags[1].Reason)
}

func TestYoungUnmatchedPositionNotFlagged(t *testing.T) {
	flags := analyzer().Analyze(
		[]models.Position{position("BTC/USDT", models.SideLong, time.Hour)},
		[]models.AggregatedSignal{opportunity("BTC/USDT", models.ActionHold), opportunity("BTC/USDT", models.ActionBuy)},
	)
	assert.Empty(t, flags)
	assert.NotNil(t, flags)
}
