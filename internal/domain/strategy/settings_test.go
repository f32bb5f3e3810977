package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSignal/internal/domain/models"
	"FinSignal/pkg/config"
)

func baseConfig() config.Strategy {
	return config.Strategy{
		Timeframes: []config.TimeframeWeight{
			{Label: "15m", Weight: 0.25, MinBars: 20},
			{Label: "1d", Weight: 0.3, MinBars: 20},
			{Label: "1h", Weight: 0.2, MinBars: 20},
			{Label: "4h", Weight: 0.25, MinBars: 20},
		},
		TriggerTimeframe: "15m",
		BuyThreshold:     0.5,
		SellThreshold:    -0.5,
		ATRPeriod:        14,
		RewardMultiplier: 1.5,
		StopMultiplier:   1,
		AgreementBoost:   3,
		MaxPositions:     5,
		MinStopDistance:  0.003,
		MaxStopDistance:  0.1,
		MinTimeframes:    3,
		Workers:          4,
		TrendAverage:     "sma",
	}
}

func TestNewSettingsOrdersSlowestFirst(t *testing.T) {
	s, err := NewSettings(baseConfig())
	require.NoError(t, err)

	got := make([]models.Timeframe, 0, len(s.Timeframes))
	for _, ts := range s.Timeframes {
		got = append(got, ts.Timeframe)
	}
	assert.Equal(t, []models.Timeframe{models.TF1d, models.TF4h, models.TF1h, models.TF15m}, got)
	assert.Equal(t, models.TF15m, s.Fastest())

	ts, ok := s.Setting(models.TF1d)
	require.True(t, ok)
	assert.Equal(t, 0.3, ts.Weight)
}

func TestNewSettingsRejects(t *testing.T) {
	cases := map[string]func(*config.Strategy){
		"unknown label":       func(c *config.Strategy) { c.Timeframes[0].Label = "2m" },
		"duplicate":           func(c *config.Strategy) { c.Timeframes[1].Label = "15m" },
		"trigger missing":     func(c *config.Strategy) { c.TriggerTimeframe = "5m" },
		"thresholds":          func(c *config.Strategy) { c.BuyThreshold = -1 },
		"min above available": func(c *config.Strategy) { c.MinTimeframes = 5 },
		"zero weight":         func(c *config.Strategy) { c.Timeframes[2].Weight = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := baseConfig()
			mutate(&c)
			_, err := NewSettings(c)
			assert.ErrorIs(t, err, models.ErrInvalidConfig)
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
