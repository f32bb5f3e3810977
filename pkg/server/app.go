package server

import (
	"context"
	"fmt"

	"FinSignal/internal/domain/models"
	"FinSignal/pkg/config"
	xhttp "FinSignal/pkg/http"
	applogger "FinSignal/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	scheduler  *Scheduler
	httpServer *xhttp.Server
	l          *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, runner Runner, httpServer *xhttp.Server, l *applogger.Logger) *App {
	if l == nil {
		l = applogger.NewNop()
	}
	return &App{
		cfg:        cfg,
		scheduler:  NewScheduler(runner, cfg.Schedule.Interval, cfg.Schedule.Timeout, l),
		httpServer: httpServer,
		l:          l,
	}
}

// Run serves the API and runs scheduled cycles until ctx is cancelled or
// the HTTP listener fails.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.httpServer.Start(); err != nil {
		return fmt.Errorf("http server start: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.scheduler.Run(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.l.Info("shutdown signal received")
	case err := <-a.httpServer.Errors():
		runErr = fmt.Errorf("http server: %w", err)
		cancel()
	}

	<-done
	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}
	a.l.Info("shutdown complete")
	return runErr
}

// RunOnce runs a single cycle without serving HTTP.
func (a *App) RunOnce(ctx context.Context) (*models.CycleResult, error) {
	res := a.scheduler.RunOnce(ctx)
	if res == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("analysis cycle did not complete")
	}
	return res, nil
}
