package usecase

import (
	"context"
	"errors"
	"sync"

	"FinSignal/internal/domain/models"
)

type fakeStore struct {
	mu    sync.Mutex
	bars  map[string]map[models.Timeframe][]models.Bar
	fail  map[string]bool
	calls int
	lastN map[models.Timeframe]int
}

func (s *fakeStore) GetLatestNBars(_ context.Context, instrument string, n int, tf models.Timeframe) ([]models.Bar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.lastN == nil {
		s.lastN = map[models.Timeframe]int{}
	}
	s.lastN[tf] = n
	if s.fail[instrument+"/"+tf.String()] {
		return nil, errors.New("clickhouse timeout")
	}
	bars := s.bars[instrument][tf]
	if len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return bars, nil
}

type fakeEngine struct {
	mu       sync.Mutex
	results  map[string]*models.AggregatedSignal
	received map[string]map[models.Timeframe][]models.Bar
}

func (e *fakeEngine) Analyze(instrument string, series map[models.Timeframe][]models.Bar) *models.AggregatedSignal {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.received == nil {
		e.received = map[string]map[models.Timeframe][]models.Bar{}
	}
	e.received[instrument] = series
	return e.results[instrument]
}

type fakePositions struct {
	mu        sync.Mutex
	positions []models.Position
	err       error
	calls     int
}

func (p *fakePositions) OpenPositions(context.Context) ([]models.Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.positions, p.err
}

type fakePublisher struct {
	signals   []models.AggregatedSignal
	attention []models.AttentionFlag
	err       error
}

func (p *fakePublisher) PublishSignals(_ context.Context, s []models.AggregatedSignal) error {
	p.signals = append(p.signals, s...)
	return p.err
}

func (p *fakePublisher) PublishAttention(_ context.Context, f []models.AttentionFlag) error {
	p.attention = append(p.attention, f...)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

type fakeMetrics struct {
	mu        sync.Mutex
	cycles    int
	dropped   map[string]int
	emitted   map[string]int
	attention map[string]int
	errors    map[string]int
	latencies int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{dropped: map[string]int{}, emitted: map[string]int{}, attention: map[string]int{}, errors: map[string]int{}}
}

func (m *fakeMetrics) RecordCycle(float64, int, int) { m.mu.Lock(); m.cycles++; m.mu.Unlock() }

func (m *fakeMetrics) RecordDropped(stage string, n int) { m.mu.Lock(); m.dropped[stage] += n; m.mu.Unlock() }

func (m *fakeMetrics) RecordEmitted(action string, n int) { m.mu.Lock(); m.emitted[action] += n; m.mu.Unlock() }

func (m *fakeMetrics) RecordAttention(reason string, n int) {
	m.mu.Lock()
	m.attention[reason] += n
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordError(kind string) { m.mu.Lock(); m.errors[kind]++; m.mu.Unlock() }

func (m *fakeMetrics) RecordLatency(string, float64) { m.mu.Lock(); m.latencies++; m.mu.Unlock() }
