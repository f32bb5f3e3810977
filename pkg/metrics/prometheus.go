package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "finsignal"

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cycles        prometheus.Counter
	cycleDuration prometheus.Histogram
	analyzed      prometheus.Gauge
	skipped       prometheus.Gauge
	dropped       *prometheus.CounterVec
	emitted       *prometheus.CounterVec
	attention     *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	httpLatency   *prometheus.HistogramVec
	httpErrors    *prometheus.CounterVec
}

// New creates a Prometheus metrics recorder registered on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		cycles: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Total number of completed analysis cycles",
		}),
		cycleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of an analysis cycle",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		analyzed: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cycle_instruments_analyzed",
			Help:      "Instruments that produced an aggregated signal in the last cycle",
		}),
		skipped: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cycle_instruments_skipped",
			Help:      "Instruments skipped for insufficient timeframes in the last cycle",
		}),
		dropped: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "signals_dropped_total",
				Help:      "Signals dropped by filter stage",
			},
			[]string{"stage"},
		),
		emitted: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "signals_emitted_total",
				Help:      "Signals emitted by action",
			},
			[]string{"action"},
		),
		attention: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "attention_flags_total",
				Help:      "Position attention flags by reason",
			},
			[]string{"reason"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of operations in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		httpLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "latency_seconds",
				Help:      "Latency of API endpoints",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint", "status"},
		),
		httpErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "errors_total",
				Help:      "Errors by API endpoint",
			},
			[]string{"endpoint"},
		),
	}
}

// RecordCycle records one finished cycle.
func (r *Recorder) RecordCycle(seconds float64, analyzed, skipped int) {
	r.cycles.Inc()
	r.cycleDuration.Observe(seconds)
	r.analyzed.Set(float64(analyzed))
	r.skipped.Set(float64(skipped))
}

func (r *Recorder) RecordDropped(stage string, n int) {
	r.dropped.WithLabelValues(stage).Add(float64(n))
}

func (r *Recorder) RecordEmitted(action string, n int) {
	r.emitted.WithLabelValues(action).Add(float64(n))
}

func (r *Recorder) RecordAttention(reason string, n int) {
	r.attention.WithLabelValues(reason).Add(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordHTTP records one served API request.
func (r *Recorder) RecordHTTP(endpoint, status string, seconds float64, failed bool) {
	r.httpLatency.WithLabelValues(endpoint, status).Observe(seconds)
	if failed {
		r.httpErrors.WithLabelValues(endpoint).Inc()
	}
}
