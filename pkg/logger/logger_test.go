package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsAreWritten(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf).With(String("component", "filters"))

	l.Warn("dropped",
		String("stage", "stop_distance"),
		Int("count", 2),
		Float64("score", 0.66),
		Bool("agreed", true),
		Duration("elapsed", 1500*time.Millisecond),
		Error(errors.New("boom")),
	)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "dropped", entry["message"])
	assert.Equal(t, "filters", entry["component"])
	assert.Equal(t, "stop_distance", entry["stage"])
	assert.EqualValues(t, 2, entry["count"])
	assert.InDelta(t, 0.66, entry["score"], 1e-9)
	assert.Equal(t, true, entry["agreed"])
	assert.EqualValues(t, 1500, entry["elapsed"])
	assert.Equal(t, "boom", entry["error"])
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	require.Error(t, err)
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() { NewNop().Error("ignored", String("k", "v")) })
}
