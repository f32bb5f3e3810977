package usecase

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	domsvc "FinSignal/internal/domain/service"
	"FinSignal/internal/domain/strategy"
	"FinSignal/internal/services/attention"
	"FinSignal/internal/services/filters"
	"FinSignal/pkg/logger"
)

// AnalysisCycle runs one pass over every configured instrument: load bars,
// score, filter against a single position snapshot, flag positions and
// publish.
type AnalysisCycle struct {
	instruments []string
	loader      *SeriesLoader
	engine      domsvc.SignalEngine
	pipeline    *filters.Pipeline
	attention   *attention.Analyzer
	positions   domrepo.PositionProvider
	publisher   domrepo.SignalPublisher
	metrics     domrepo.Metrics
	workers     int
	now         func() time.Time
	l           *logger.Logger

	mu   sync.RWMutex
	last *models.CycleResult
}

type CycleDeps struct {
	Instruments []string
	Loader      *SeriesLoader
	Engine      domsvc.SignalEngine
	Pipeline    *filters.Pipeline
	Attention   *attention.Analyzer
	Positions   domrepo.PositionProvider
	Publisher   domrepo.SignalPublisher
	Metrics     domrepo.Metrics
	Settings    strategy.Settings
	Logger      *logger.Logger
	Now         func() time.Time
}

func NewAnalysisCycle(d CycleDeps) *AnalysisCycle {
	c := &AnalysisCycle{
		instruments: d.Instruments,
		loader:      d.Loader,
		engine:      d.Engine,
		pipeline:    d.Pipeline,
		attention:   d.Attention,
		positions:   d.Positions,
		publisher:   d.Publisher,
		metrics:     d.Metrics,
		workers:     d.Settings.Workers,
		now:         d.Now,
		l:           d.Logger,
	}
	if c.workers < 1 {
		c.workers = 1
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.l == nil {
		c.l = logger.NewNop()
	}
	if c.positions == nil {
		c.positions = noPositions{}
	}
	return c
}

type noPositions struct{}

func (noPositions) OpenPositions(context.Context) ([]models.Position, error) { return nil, nil }

// Run executes one cycle. Per-instrument failures never abort it; only a
// context that is already done does.
func (c *AnalysisCycle) Run(ctx context.Context) (*models.CycleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := c.now()

	results := make([]*models.AggregatedSignal, len(c.instruments))
	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, instrument := range c.instruments {
		i, instrument := i, instrument
		g.Go(func() error {
			t0 := time.Now()
			loaded := c.loader.Load(ctx, instrument)
			results[i] = c.engine.Analyze(instrument, loaded.Series)
			if c.metrics != nil {
				c.metrics.RecordLatency("analyze_instrument", time.Since(t0).Seconds())
			}
			return nil
		})
	}
	_ = g.Wait()

	res := &models.CycleResult{StartedAt: started, Opportunities: []models.AggregatedSignal{}}
	for i, sig := range results {
		if sig == nil {
			res.Skipped = append(res.Skipped, c.instruments[i])
			continue
		}
		res.Opportunities = append(res.Opportunities, *sig)
	}
	res.Analyzed = len(res.Opportunities)

	snap := filters.NewLazySnapshot(ctx, c.positions, c.l)
	filtered := c.pipeline.Run(res.Opportunities, snap)
	res.Emitted = filtered.Emitted
	if res.Emitted == nil {
		res.Emitted = []models.AggregatedSignal{}
	}
	res.Dropped = filtered.DroppedByStage()
	res.Attention = c.attention.Analyze(snap.Positions(), res.Opportunities)

	c.publish(ctx, res)
	res.Duration = c.now().Sub(started)
	c.record(res)

	c.mu.Lock()
	c.last = res
	c.mu.Unlock()

	c.l.Info("analysis cycle finished",
		logger.Int("analyzed", res.Analyzed),
		logger.Int("skipped", len(res.Skipped)),
		logger.Int("emitted", len(res.Emitted)),
		logger.Int("attention", len(res.Attention)),
		logger.Duration("duration", res.Duration),
	)
	return res, nil
}

// Latest returns the most recent cycle result or nil before the first run.
func (c *AnalysisCycle) Latest() *models.CycleResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

func (c *AnalysisCycle) publish(ctx context.Context, res *models.CycleResult) {
	if c.publisher == nil {
		return
	}
	if len(res.Emitted) > 0 {
		if err := c.publisher.PublishSignals(ctx, res.Emitted); err != nil {
			c.l.Error("publish signals failed", logger.Error(err), logger.Int("count", len(res.Emitted)))
			c.recordError("publish_signals")
		}
	}
	if len(res.Attention) > 0 {
		if err := c.publisher.PublishAttention(ctx, res.Attention); err != nil {
			c.l.Error("publish attention failed", logger.Error(err), logger.Int("count", len(res.Attention)))
			c.recordError("publish_attention")
		}
	}
}

func (c *AnalysisCycle) record(res *models.CycleResult) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordCycle(res.Duration.Seconds(), res.Analyzed, len(res.Skipped))
	for stage, n := range res.Dropped {
		c.metrics.RecordDropped(stage, n)
	}
	byAction := map[models.Action]int{}
	for _, s := range res.Emitted {
		byAction[s.Action]++
	}
	for action, n := range byAction {
		c.metrics.RecordEmitted(string(action), n)
	}
	byReason := map[models.AttentionReason]int{}
	for _, f := range res.Attention {
		byReason[f.Reason]++
	}
	for reason, n := range byReason {
		c.metrics.RecordAttention(string(reason), n)
	}
}

func (c *AnalysisCycle) recordError(kind string) {
	if c.metrics != nil {
		c.metrics.RecordError(kind)
	}
}
