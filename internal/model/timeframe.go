package model

import (
	"fmt"
	"strings"
	"time"
)

// Timeframe identifies one sampling granularity of the instrument.
type Timeframe string

const (
	TF1m  Timeframe = "1m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF1h  Timeframe = "1h"
	TF1d  Timeframe = "1d"
)

// Timeframes lists every timeframe in dropdown order. The position of a
// timeframe in this slice is its Index.
var Timeframes = []Timeframe{TF1h, TF1m, TF5m, TF15m, TF1d}

var timeframeSpecs = map[Timeframe]struct {
	label    string
	interval time.Duration
	lookback time.Duration
	index    int
}{
	TF1h:  {"Hourly", time.Hour, 60 * 24 * time.Hour, 0},
	TF1m:  {"1 Min", time.Minute, 7 * 24 * time.Hour, 1},
	TF5m:  {"5 Min", 5 * time.Minute, 60 * 24 * time.Hour, 2},
	TF15m: {"15 Min", 15 * time.Minute, 60 * 24 * time.Hour, 3},
	TF1d:  {"Daily", 24 * time.Hour, 365 * 24 * time.Hour, 4},
}

// ParseTimeframe accepts either the short form ("5m") or the dropdown label ("5 Min").
func ParseTimeframe(s string) (Timeframe, error) {
	v := strings.TrimSpace(s)
	if _, ok := timeframeSpecs[Timeframe(strings.ToLower(v))]; ok {
		return Timeframe(strings.ToLower(v)), nil
	}
	for tf, spec := range timeframeSpecs {
		if strings.EqualFold(spec.label, v) {
			return tf, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTimeframe, s)
}

// Valid reports whether tf is one of the five fixed timeframes.
func (tf Timeframe) Valid() bool {
	_, ok := timeframeSpecs[tf]
	return ok
}

// Label is the text shown in the dropdown.
func (tf Timeframe) Label() string { return timeframeSpecs[tf].label }

// Interval is the nominal spacing between bars.
func (tf Timeframe) Interval() time.Duration { return timeframeSpecs[tf].interval }

// DefaultLookback is how far back bars are requested when not configured.
func (tf Timeframe) DefaultLookback() time.Duration { return timeframeSpecs[tf].lookback }

// Index is the timeframe's position in Timeframes, or -1 when invalid.
func (tf Timeframe) Index() int {
	spec, ok := timeframeSpecs[tf]
	if !ok {
		return -1
	}
	return spec.index
}

func (tf Timeframe) String() string { return string(tf) }
