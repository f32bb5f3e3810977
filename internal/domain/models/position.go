package models

import (
	"strings"
	"time"
)

type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Position is an open holding reported by the position source.
type Position struct {
	Instrument   string    `json:"instrument"`
	Side         Side      `json:"side"`
	Size         float64   `json:"size"`
	EntryPrice   float64   `json:"entry_price"`
	CurrentPrice float64   `json:"current_price"`
	OpenedAt     time.Time `json:"opened_at"`
}

type AttentionReason string

const (
	ReasonOpposingSignal  AttentionReason = "opposing_signal"
	ReasonHoldingDuration AttentionReason = "holding_duration"
)

// AttentionFlag marks an open position that needs review.
type AttentionFlag struct {
	Position Position        `json:"position"`
	Reason   AttentionReason `json:"reason"`
	Detail   string          `json:"detail"`
}

var contractSuffixes = []string{"-PERP", "_PERP", "-SWAP", "_SWAP"}

// BaseInstrument strips settlement and contract suffixes so that
// "BTC/USDT:USDT", "BTC/USDT-PERP" and "btc/usdt" compare equal.
func BaseInstrument(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	for _, suf := range contractSuffixes {
		if strings.HasSuffix(s, suf) {
			return strings.TrimSuffix(s, suf)
		}
	}
	return s
}
