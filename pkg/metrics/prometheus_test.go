package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordCycle(1.2, 7, 2)
	r.RecordDropped("threshold", 3)
	r.RecordDropped("threshold", 1)
	r.RecordEmitted("BUY", 2)
	r.RecordAttention("opposing_signal", 1)
	r.RecordError("publish_signals")
	r.RecordLatency("analyze_instrument", 0.01)
	r.RecordHTTP("/api/signals", "200", 0.002, false)
	r.RecordHTTP("/api/analyze", "400", 0.001, true)

	assert.Equal(t, float64(1), testutil.ToFloat64(r.cycles))
	assert.Equal(t, float64(7), testutil.ToFloat64(r.analyzed))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.skipped))
	assert.Equal(t, float64(4), testutil.ToFloat64(r.dropped.WithLabelValues("threshold")))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.emitted.WithLabelValues("BUY")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.attention.WithLabelValues("opposing_signal")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.errorsTotal.WithLabelValues("publish_signals")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.httpErrors.WithLabelValues("/api/analyze")))

	n, err := testutil.GatherAndCount(reg, "finsignal_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecorderRegistersOncePerRegistry(t *testing.T) {
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
