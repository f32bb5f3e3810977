package usecase

import (
	"context"
	"fmt"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
)

// BarsUseCase serves raw bar history for inspection.
type BarsUseCase struct {
	store domrepo.BarStore
}

func NewBarsUseCase(store domrepo.BarStore) *BarsUseCase {
	return &BarsUseCase{store: store}
}

type GetBarsParams struct {
	Instrument string
	Timeframe  models.Timeframe
	Limit      int
}

type GetBarsResult struct {
	Instrument string       `json:"instrument"`
	Timeframe  string       `json:"timeframe"`
	Count      int          `json:"count"`
	Bars       []models.Bar `json:"bars"`
}

func (uc *BarsUseCase) GetBars(ctx context.Context, p GetBarsParams) (*GetBarsResult, error) {
	if p.Instrument == "" {
		return nil, fmt.Errorf("instrument required")
	}
	if !models.IsValidTimeframe(p.Timeframe) {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownTimeframe, p.Timeframe)
	}
	if p.Limit <= 0 {
		p.Limit = 200
	}
	if p.Limit > 5000 {
		p.Limit = 5000
	}

	bars, err := uc.store.GetLatestNBars(ctx, p.Instrument, p.Limit, p.Timeframe)
	if err != nil {
		return nil, fmt.Errorf("get bars: %w", err)
	}
	return &GetBarsResult{
		Instrument: p.Instrument,
		Timeframe:  p.Timeframe.String(),
		Count:      len(bars),
		Bars:       bars,
	}, nil
}
