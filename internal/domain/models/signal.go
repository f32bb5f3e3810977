package models

import "time"

// Action is a trading recommendation.
type Action string

const (
	ActionStrongBuy  Action = "STRONG_BUY"
	ActionBuy        Action = "BUY"
	ActionHold       Action = "HOLD"
	ActionSell       Action = "SELL"
	ActionStrongSell Action = "STRONG_SELL"
)

// IsBuy reports whether a is BUY or STRONG_BUY.
func (a Action) IsBuy() bool { return a == ActionBuy || a == ActionStrongBuy }

// IsSell reports whether a is SELL or STRONG_SELL.
func (a Action) IsSell() bool { return a == ActionSell || a == ActionStrongSell }

// Direction is +1 for buys, -1 for sells and 0 otherwise.
func (a Action) Direction() int {
	switch {
	case a.IsBuy():
		return 1
	case a.IsSell():
		return -1
	default:
		return 0
	}
}

type Confidence string

const (
	ConfidenceHigh Confidence = "HIGH"
	ConfidenceLow  Confidence = "LOW"
)

// TimeframeSignal is the per-timeframe verdict.
type TimeframeSignal struct {
	Timeframe Timeframe `json:"timeframe"`
	Action    Action    `json:"action"`
	Score     float64   `json:"score"`
	Strength  float64   `json:"strength"` // [0,1]
}

// AggregatedSignal is the cross-timeframe verdict for one instrument.
type AggregatedSignal struct {
	ID          string                        `json:"id"`
	Instrument  string                        `json:"instrument"`
	Signals     map[Timeframe]TimeframeSignal `json:"signals"`
	Action      Action                        `json:"action"`
	Confidence  Confidence                    `json:"confidence"`
	TotalScore  float64                       `json:"total_score"`
	EntryPrice  float64                       `json:"entry_price"`
	TargetPrice float64                       `json:"target_price"`
	StopLoss    float64                       `json:"stop_loss"`
	Volatility  float64                       `json:"volatility"`
	FullyAgreed bool                          `json:"fully_agreed"`
	Reasoning   []string                      `json:"reasoning,omitempty"`
	CreatedAt   time.Time                     `json:"created_at"`
}

// StopDistance is |entry-stop|/entry as a float for display only.
func (s AggregatedSignal) StopDistance() float64 {
	if s.EntryPrice <= 0 {
		return 0
	}
	d := s.EntryPrice - s.StopLoss
	if d < 0 {
		d = -d
	}
	return d / s.EntryPrice
}
