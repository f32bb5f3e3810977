package server

import (
	"context"
	"time"

	"FinSignal/internal/domain/models"
	applogger "FinSignal/pkg/logger"
)

// Runner runs one analysis cycle.
type Runner interface {
	Run(ctx context.Context) (*models.CycleResult, error)
}

// Scheduler runs a cycle immediately and then once per interval. A cycle
// still running when the next tick fires delays that tick; ticks never overlap.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	timeout  time.Duration
	l        *applogger.Logger
}

func NewScheduler(runner Runner, interval, timeout time.Duration, l *applogger.Logger) *Scheduler {
	if l == nil {
		l = applogger.NewNop()
	}
	return &Scheduler{runner: runner, interval: interval, timeout: timeout, l: l}
}

// Run blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.l.Info("scheduler started", applogger.Duration("interval", s.interval))
	for {
		s.RunOnce(ctx)
		select {
		case <-ctx.Done():
			s.l.Info("scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce runs a single cycle bounded by the configured timeout.
func (s *Scheduler) RunOnce(ctx context.Context) *models.CycleResult {
	cctx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	res, err := s.runner.Run(cctx)
	if err != nil {
		s.l.Warn("analysis cycle aborted", applogger.Error(err))
		return nil
	}
	return res
}
