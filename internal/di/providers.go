package di

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domrepo "FinSignal/internal/domain/repository"
	domsvc "FinSignal/internal/domain/service"
	"FinSignal/internal/domain/strategy"
	"FinSignal/internal/handler/api"
	internalrepo "FinSignal/internal/repository"
	"FinSignal/internal/service/ratelimit"
	"FinSignal/internal/services/attention"
	"FinSignal/internal/services/filters"
	"FinSignal/internal/services/scoring"
	"FinSignal/internal/usecase"
	"FinSignal/pkg/cache"
	pkgch "FinSignal/pkg/clickhouse"
	"FinSignal/pkg/config"
	xhttp "FinSignal/pkg/http"
	pkgkafka "FinSignal/pkg/kafka"
	applogger "FinSignal/pkg/logger"
	"FinSignal/pkg/metrics"
	"FinSignal/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideSettings validates the strategy section.
func ProvideSettings(cfg *config.Config) (strategy.Settings, error) {
	return strategy.NewSettings(cfg.Strategy)
}

// ProvideRegistry creates the Prometheus registry with process and Go collectors.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) *metrics.Recorder {
	return metrics.New(reg)
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(cfg.Strategy.Workers*2, cfg.Strategy.Workers),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideBarStore creates the ClickHouse-backed bar store.
func ProvideBarStore(ch *pkgch.Client, cfg *config.Config, l *applogger.Logger) (domrepo.BarStore, error) {
	store, err := internalrepo.NewCHBarStore(ch, cfg.ClickHouse.BarsTable, l)
	if err != nil {
		return nil, fmt.Errorf("bar store: %w", err)
	}
	return store, nil
}

// ProvidePublisher creates the Kafka publisher, or a log publisher when Kafka is disabled.
func ProvidePublisher(cfg *config.Config, reg *prometheus.Registry, l *applogger.Logger) (domrepo.SignalPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		l.Warn("kafka disabled; signals are only logged")
		return internalrepo.NewLogSignalPublisher(l), func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithRegisterer(reg),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	pub := internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.SignalsTopic, cfg.Kafka.AttentionTopic)
	return pub, func() {
		if err := pub.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}, nil
}

// ProvideCache creates the Redis store, or an in-memory one when Redis is disabled.
func ProvideCache(cfg *config.Config) (cache.Store, func(), error) {
	if !cfg.Redis.Enabled {
		mc := cache.NewMemoryStore(
			cache.WithMaxEntries(64),
			cache.WithSweep(cfg.Positions.CacheTTL),
		)
		return mc, func() { _ = mc.Close() }, nil
	}
	rc, err := cache.NewRedisStore(
		cache.WithAddr(cfg.Redis.Addr),
		cache.WithAuth(cfg.Redis.Password, cfg.Redis.DB),
		cache.WithPool(cfg.Redis.PoolSize, cfg.Redis.MinIdleConns, cfg.Redis.PoolTimeout),
		cache.WithPrefix(cfg.Redis.KeyPrefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, func() { _ = rc.Close() }, nil
}

// ProvidePositionProvider returns nil when no position gateway is configured.
func ProvidePositionProvider(cfg *config.Config, c cache.Store, l *applogger.Logger) domrepo.PositionProvider {
	if cfg.Positions.URL == "" {
		l.Warn("no position gateway configured; position filters see an empty book")
		return nil
	}
	src := internalrepo.NewHTTPPositionSource(xhttp.NewClient(
		xhttp.WithTimeout(cfg.Positions.Timeout),
		xhttp.WithRetry(cfg.Positions.Retries, 200*time.Millisecond, 2*time.Second),
	), cfg.Positions.URL)
	return internalrepo.NewCachedPositionProvider(src, c, cfg.Positions.CacheTTL, l)
}

// ProvideEngine creates the multi-timeframe signal engine.
func ProvideEngine(s strategy.Settings, l *applogger.Logger) *scoring.Engine {
	return scoring.NewEngine(s, scoring.WithLogger(l))
}

// ProvidePipeline creates the filter pipeline.
func ProvidePipeline(s strategy.Settings, l *applogger.Logger) *filters.Pipeline {
	return filters.NewPipeline(s, filters.WithLogger(l))
}

// ProvideAttention creates the position attention analyzer.
func ProvideAttention(s strategy.Settings) *attention.Analyzer {
	return attention.NewAnalyzer(s.AttentionHold)
}

// ProvideAnalysisCycle wires one analysis cycle.
func ProvideAnalysisCycle(
	cfg *config.Config,
	s strategy.Settings,
	store domrepo.BarStore,
	engine *scoring.Engine,
	pipeline *filters.Pipeline,
	att *attention.Analyzer,
	positions domrepo.PositionProvider,
	pub domrepo.SignalPublisher,
	rec *metrics.Recorder,
	l *applogger.Logger,
) *usecase.AnalysisCycle {
	return usecase.NewAnalysisCycle(usecase.CycleDeps{
		Instruments: cfg.Instruments,
		Loader:      usecase.NewSeriesLoader(store, s, l),
		Engine:      engine,
		Pipeline:    pipeline,
		Attention:   att,
		Positions:   positions,
		Publisher:   pub,
		Metrics:     rec,
		Settings:    s,
		Logger:      l,
	})
}

// ProvideSignalsHandler creates the HTTP read API.
func ProvideSignalsHandler(cfg *config.Config, l *applogger.Logger, cycle *usecase.AnalysisCycle, engine *scoring.Engine, store domrepo.BarStore) *api.SignalsHandler {
	var runner domsvc.CycleRunner = cycle
	var eng domsvc.SignalEngine = engine
	limiter := ratelimit.New(cfg.Server.AnalyzeBurst, cfg.Server.AnalyzeRate)
	return api.NewSignalsHandler(l, runner, eng, usecase.NewBarsUseCase(store), api.WithAnalyzeLimit(limiter))
}

// ProvideHTTPServer creates the Echo server with the API and metrics routes.
func ProvideHTTPServer(cfg *config.Config, h *api.SignalsHandler, ch *pkgch.Client, reg *prometheus.Registry, rec *metrics.Recorder, l *applogger.Logger) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithReadiness("clickhouse", ch.Health),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), rec))
	}
	return xhttp.NewServer(h, l, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, cycle *usecase.AnalysisCycle, srv *xhttp.Server, l *applogger.Logger) *server.App {
	return server.New(cfg, cycle, srv, l)
}
