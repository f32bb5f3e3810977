package repository

import (
	"context"

	"FinSignal/internal/domain/models"
)

// BarStore provides read-only access to historical bars.
type BarStore interface {
	// GetLatestNBars returns up to n most recent bars in ascending time order.
	GetLatestNBars(ctx context.Context, instrument string, n int, tf models.Timeframe) ([]models.Bar, error)
}
