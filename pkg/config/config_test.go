package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
instruments: [BTC/USDT, ETH/USDT]
kafka:
  brokers: [localhost:9092]
strategy:
  trigger_timeframe: 15m
  timeframes:
    - {label: 1d, weight: 0.3}
    - {label: 4h, weight: 0.25, min_bars: 50}
    - {label: 1h, weight: 0.2}
    - {label: 15m, weight: 0.25}
`

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 15*time.Minute, c.Schedule.Interval)
	assert.Equal(t, 14, c.Strategy.ATRPeriod)
	assert.Equal(t, 1.5, c.Strategy.RewardMultiplier)
	assert.Equal(t, 3.0, c.Strategy.AgreementBoost)
	assert.Equal(t, 0.003, c.Strategy.MinStopDistance)
	assert.Equal(t, 0.10, c.Strategy.MaxStopDistance)
	assert.Equal(t, 5*time.Hour, c.Strategy.AttentionHold)
	assert.True(t, c.Strategy.BandScoring)
	assert.Equal(t, "sma", c.Strategy.TrendAverage)
	assert.Equal(t, 20, c.Strategy.Timeframes[0].MinBars)
	assert.Equal(t, 50, c.Strategy.Timeframes[1].MinBars)
	assert.Equal(t, 30*time.Second, c.Positions.CacheTTL)
	assert.Equal(t, 2, c.Positions.Retries)
	assert.Equal(t, 10, c.Server.AnalyzeBurst)
	assert.Equal(t, 1.0, c.Server.AnalyzeRate)
	assert.Equal(t, 10, c.Redis.PoolSize)
}

func TestParseKeepsExplicitFalse(t *testing.T) {
	c, err := Parse([]byte(minimalYAML + `
  band_scoring: false
`))
	require.NoError(t, err)
	assert.False(t, c.Strategy.BandScoring)
	assert.True(t, c.Strategy.DivergenceScoring)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"no instruments": `
kafka: {enabled: false}
strategy:
  trigger_timeframe: 1h
  timeframes: [{label: 1h, weight: 1}]
  min_timeframes: 1
`,
		"thresholds inverted": minimalYAML + `
  buy_threshold: -1
  sell_threshold: 1
`,
		"min timeframes above configured": minimalYAML + `
  min_timeframes: 5
`,
		"kafka without brokers": `
instruments: [BTC/USDT]
strategy:
  trigger_timeframe: 1h
  timeframes: [{label: 1h, weight: 1}]
  min_timeframes: 1
`,
		"bad trend average": minimalYAML + `
  trend_average: wma
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0o600))

	t.Setenv("INSTRUMENTS", "SOL/USDT, ADA/USDT ,")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("LOG_LEVEL", "DEBUG")

	c, err := LoadWithEnv(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"SOL/USDT", "ADA/USDT"}, c.Instruments)
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, "redis:6379", c.Redis.Addr)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
