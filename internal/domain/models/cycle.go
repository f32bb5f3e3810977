package models

import "time"

// CycleResult summarises one scheduled analysis pass.
type CycleResult struct {
	StartedAt     time.Time          `json:"started_at"`
	Duration      time.Duration      `json:"duration"`
	Analyzed      int                `json:"analyzed"`
	Skipped       []string           `json:"skipped,omitempty"`
	Opportunities []AggregatedSignal `json:"opportunities"`
	Emitted       []AggregatedSignal `json:"emitted"`
	Dropped       map[string]int     `json:"dropped"`
	Attention     []AttentionFlag    `json:"attention"`
}
