package filters

import (
	"context"
	"sync"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/repository"
	"FinSignal/pkg/logger"
)

// Snapshot is the open-position view shared by every stage in one run.
type Snapshot interface {
	Positions() []models.Position
}

// StaticSnapshot is an already fetched position list.
type StaticSnapshot []models.Position

func (s StaticSnapshot) Positions() []models.Position { return s }

// LazySnapshot fetches positions on first use and reuses them afterwards.
// A failed fetch is logged and treated as no open positions.
type LazySnapshot struct {
	ctx      context.Context
	provider repository.PositionProvider
	l        *logger.Logger

	mu        sync.Mutex
	positions []models.Position
	fetched   bool
}

func NewLazySnapshot(ctx context.Context, provider repository.PositionProvider, l *logger.Logger) *LazySnapshot {
	if l == nil {
		l = logger.NewNop()
	}
	return &LazySnapshot{ctx: ctx, provider: provider, l: l}
}

func (s *LazySnapshot) Positions() []models.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetched {
		return s.positions
	}
	s.fetched = true
	positions, err := s.provider.OpenPositions(s.ctx)
	if err != nil {
		s.l.Warn("position snapshot unavailable, assuming none open", logger.Error(err))
		return nil
	}
	s.positions = positions
	return s.positions
}

// Fetched reports whether the provider has been called.
func (s *LazySnapshot) Fetched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetched
}
