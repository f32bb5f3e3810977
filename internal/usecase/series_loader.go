package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	"FinSignal/internal/domain/strategy"
	"FinSignal/pkg/logger"
)

// SeriesLoader fetches every configured timeframe for one instrument.
type SeriesLoader struct {
	store    domrepo.BarStore
	settings strategy.Settings
	timeout  time.Duration
	l        *logger.Logger
}

func NewSeriesLoader(store domrepo.BarStore, settings strategy.Settings, l *logger.Logger) *SeriesLoader {
	if l == nil {
		l = logger.NewNop()
	}
	return &SeriesLoader{store: store, settings: settings, timeout: 30 * time.Second, l: l}
}

// LoadResult holds the admissible series plus the reason each other
// timeframe was left out.
type LoadResult struct {
	Series   map[models.Timeframe][]models.Bar
	Excluded map[models.Timeframe]string
}

// Load never fails: fetch errors and short series only exclude the timeframe.
func (sl *SeriesLoader) Load(ctx context.Context, instrument string) LoadResult {
	ctx, cancel := context.WithTimeout(ctx, sl.timeout)
	defer cancel()

	res := LoadResult{
		Series:   make(map[models.Timeframe][]models.Bar, len(sl.settings.Timeframes)),
		Excluded: map[models.Timeframe]string{},
	}

	type item struct {
		tf   models.Timeframe
		bars []models.Bar
		err  error
	}
	ch := make(chan item, len(sl.settings.Timeframes))
	var wg sync.WaitGroup

	for _, ts := range sl.settings.Timeframes {
		wg.Add(1)
		go func(ts strategy.TimeframeSetting) {
			defer wg.Done()
			n := sl.settings.HistoryBars
			if ts.MinBars > n {
				n = ts.MinBars
			}
			bars, err := sl.store.GetLatestNBars(ctx, instrument, n, ts.Timeframe)
			ch <- item{tf: ts.Timeframe, bars: bars, err: err}
		}(ts)
	}

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		ts, _ := sl.settings.Setting(it.tf)
		switch {
		case it.err != nil:
			sl.l.Warn("bar fetch failed",
				logger.String("instrument", instrument),
				logger.String("timeframe", it.tf.String()),
				logger.Error(it.err),
			)
			res.Excluded[it.tf] = it.err.Error()
		case len(it.bars) == 0:
			res.Excluded[it.tf] = models.ErrNoBars.Error()
		case len(it.bars) < ts.MinBars:
			sl.l.Debug("series too short",
				logger.String("instrument", instrument),
				logger.String("timeframe", it.tf.String()),
				logger.Int("bars", len(it.bars)),
				logger.Int("required", ts.MinBars),
			)
			res.Excluded[it.tf] = fmt.Errorf("%w: %d of %d bars", models.ErrSeriesTooShort, len(it.bars), ts.MinBars).Error()
		default:
			res.Series[it.tf] = it.bars
		}
	}
	return res
}
