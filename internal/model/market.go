package model

import "time"

// Bar represents a single OHLCV candlestick sample.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Indicators holds the columns joined onto a series by the indicator step.
// Every slice is aligned with TimeSeries.Bars; undefined values are NaN.
type Indicators struct {
	FastLength int
	SlowLength int
	FastMA     []float64
	SlowMA     []float64
	VWAP       []float64
}

// TimeSeries is one timeframe's bars, strictly increasing by time, plus the
// nominal sampling interval the bars were requested at.
type TimeSeries struct {
	Symbol     string
	Timeframe  Timeframe
	Interval   time.Duration
	Bars       []Bar
	Indicators Indicators
}

// Len returns the number of bars.
func (s *TimeSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Start returns the first bar's timestamp, or the zero time for an empty series.
func (s *TimeSeries) Start() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.Bars[0].Time
}

// End returns the last bar's timestamp, or the zero time for an empty series.
func (s *TimeSeries) End() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.Bars[len(s.Bars)-1].Time
}
