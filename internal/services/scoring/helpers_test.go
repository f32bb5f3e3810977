package scoring

import (
	"time"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/strategy"
)

func threeTimeframes() strategy.Settings {
	s := strategy.Default()
	s.Timeframes = []strategy.TimeframeSetting{
		{Timeframe: models.TF4h, Weight: 0.4, MinBars: 20},
		{Timeframe: models.TF1h, Weight: 0.4, MinBars: 20},
		{Timeframe: models.TF15m, Weight: 0.2, MinBars: 20},
	}
	s.Trigger = models.TF15m
	s.BuyThreshold = 0.3
	s.SellThreshold = -0.3
	return s
}

func flatBars(n int, close, halfRange float64) []models.Bar {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{
			Time:   start.Add(time.Duration(i) * 15 * time.Minute),
			Open:   close,
			High:   close + halfRange,
			Low:    close - halfRange,
			Close:  close,
			Volume: 1000,
		}
	}
	return bars
}

func rising(n int, start, step float64) []models.Bar {
	bars := flatBars(n, start, 0.2)
	for i := range bars {
		c := start + float64(i)*step
		bars[i].Open, bars[i].Close = c, c
		bars[i].High, bars[i].Low = c+0.2, c-0.2
	}
	return bars
}

func sig(tf models.Timeframe, a models.Action, strength float64) models.TimeframeSignal {
	return models.TimeframeSignal{Timeframe: tf, Action: a, Strength: strength}
}
