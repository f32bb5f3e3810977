package models

import "errors"

var (
	ErrInvalidConfig          = errors.New("invalid configuration")
	ErrUnknownTimeframe       = errors.New("unknown timeframe")
	ErrInsufficientTimeframes = errors.New("insufficient timeframes")
	ErrNoBars                 = errors.New("no bars")
	ErrSeriesTooShort         = errors.New("series too short")
)
