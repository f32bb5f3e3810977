package repository

import (
	"context"

	"FinSignal/internal/domain/models"
)

// PositionProvider reports the currently open positions.
type PositionProvider interface {
	OpenPositions(ctx context.Context) ([]models.Position, error)
}

// SignalPublisher fans emitted signals and attention flags out to consumers.
type SignalPublisher interface {
	PublishSignals(ctx context.Context, signals []models.AggregatedSignal) error
	PublishAttention(ctx context.Context, flags []models.AttentionFlag) error
	Close() error
}

type Metrics interface {
	RecordCycle(seconds float64, analyzed, skipped int)
	RecordDropped(stage string, n int)
	RecordEmitted(action string, n int)
	RecordAttention(reason string, n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
