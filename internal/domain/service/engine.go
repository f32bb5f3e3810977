package service

import (
	"context"

	"FinSignal/internal/domain/models"
)

// SignalEngine produces an aggregated signal from multi-timeframe bars.
// A nil signal means fewer timeframes than required were available.
type SignalEngine interface {
	Analyze(instrument string, series map[models.Timeframe][]models.Bar) *models.AggregatedSignal
}

// CycleRunner runs analysis cycles and exposes the latest outcome.
type CycleRunner interface {
	Run(ctx context.Context) (*models.CycleResult, error)
	Latest() *models.CycleResult
}
