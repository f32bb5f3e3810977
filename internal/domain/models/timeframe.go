package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Timeframe is a bar duration label such as "4h".
type Timeframe string

const (
	TF1m  Timeframe = "1m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF30m Timeframe = "30m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
)

var timeframeDurations = map[Timeframe]time.Duration{
	TF1m:  time.Minute,
	TF5m:  5 * time.Minute,
	TF15m: 15 * time.Minute,
	TF30m: 30 * time.Minute,
	TF1h:  time.Hour,
	TF4h:  4 * time.Hour,
	TF1d:  24 * time.Hour,
}

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	_, ok := timeframeDurations[tf]
	return ok
}

// ParseTimeframe converts a raw label into a Timeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(strings.ToLower(strings.TrimSpace(s)))
	if !IsValidTimeframe(tf) {
		return "", fmt.Errorf("%w: %q", ErrUnknownTimeframe, s)
	}
	return tf, nil
}

// Duration returns the bar length, or zero for an unknown label.
func (tf Timeframe) Duration() time.Duration { return timeframeDurations[tf] }

func (tf Timeframe) String() string { return string(tf) }

// SortSlowestFirst orders timeframes by descending duration.
func SortSlowestFirst(tfs []Timeframe) {
	sort.SliceStable(tfs, func(i, j int) bool {
		return tfs[i].Duration() > tfs[j].Duration()
	})
}
