package di

import (
	"context"
	"testing"
	"time"

	"FinSignal/internal/domain/models"
	internalrepo "FinSignal/internal/repository"
	pkgch "FinSignal/pkg/clickhouse"
	"FinSignal/pkg/config"
	applogger "FinSignal/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimal = `
instruments: [BTC/USDT]
kafka:
  enabled: false
strategy:
  trigger_timeframe: 15m
  timeframes:
    - {label: 1d, weight: 0.3}
    - {label: 4h, weight: 0.25}
    - {label: 1h, weight: 0.2}
    - {label: 15m, weight: 0.25}
`

func parse(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(minimal))
	require.NoError(t, err)
	return cfg
}

func TestProvidePublisherFallsBackToLog(t *testing.T) {
	cfg := parse(t)
	pub, cleanup, err := ProvidePublisher(cfg, ProvideRegistry(), applogger.NewNop())
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &internalrepo.LogSignalPublisher{}, pub)
}

func TestProvidePositionProviderWithoutGateway(t *testing.T) {
	cfg := parse(t)
	c, cleanup, err := ProvideCache(cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.Nil(t, ProvidePositionProvider(cfg, c, applogger.NewNop()))

	cfg.Positions.URL = "http://gateway.local/positions"
	assert.NotNil(t, ProvidePositionProvider(cfg, c, applogger.NewNop()))
}

func TestProvideCacheRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := parse(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = mr.Addr()

	c, cleanup, err := ProvideCache(cfg)
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, c.Save(context.Background(), "k", []byte("v"), time.Minute))
	assert.True(t, mr.Exists("finsignal:k"))
}

func TestDomainProvidersShareSettings(t *testing.T) {
	cfg := parse(t)
	s, err := ProvideSettings(cfg)
	require.NoError(t, err)

	l := applogger.NewNop()
	reg := ProvideRegistry()
	rec := ProvideMetrics(reg)
	pub, cleanup, err := ProvidePublisher(cfg, reg, l)
	require.NoError(t, err)
	defer cleanup()

	cycle := ProvideAnalysisCycle(cfg, s, emptyStore{}, ProvideEngine(s, l), ProvidePipeline(s, l), ProvideAttention(s), nil, pub, rec, l)
	res, err := cycle.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC/USDT"}, res.Skipped)
	assert.Empty(t, res.Emitted)

	h := ProvideSignalsHandler(cfg, l, cycle, ProvideEngine(s, l), emptyStore{})
	srv := ProvideHTTPServer(cfg, h, new(pkgch.Client), reg, rec, l)
	assert.NotNil(t, srv.Echo())
}

type emptyStore struct{}

func (emptyStore) GetLatestNBars(context.Context, string, int, models.Timeframe) ([]models.Bar, error) {
	return nil, nil
}
