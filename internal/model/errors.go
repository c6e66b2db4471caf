package model

import "errors"

var (
	// ErrEmptySeries is returned when a timeframe has no bars.
	ErrEmptySeries = errors.New("empty series")
	// ErrIndeterminateSwing is returned when no qualifying local high or low exists.
	ErrIndeterminateSwing = errors.New("indeterminate swing")
	// ErrUnknownTimeframe is returned for labels outside the five fixed timeframes.
	ErrUnknownTimeframe = errors.New("unknown timeframe")
	// ErrTimeframeUnavailable is returned when selecting a timeframe whose build failed.
	ErrTimeframeUnavailable = errors.New("timeframe unavailable")
)
