package model

import "time"

// FibonacciRatios are the fixed retracement ratios, in output order.
var FibonacciRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1}

// SwingKind tags a swing point as a peak or a trough.
type SwingKind string

const (
	SwingHigh SwingKind = "high"
	SwingLow  SwingKind = "low"
)

// SwingPoint is a confirmed local extremum at Index of its series.
type SwingPoint struct {
	Kind  SwingKind `json:"kind"`
	Index int       `json:"index"`
	Price float64   `json:"price"`
}

// FibonacciLevel is one retracement price.
type FibonacciLevel struct {
	Ratio float64 `json:"ratio"`
	Price float64 `json:"price"`
}

// GapSet is the sorted set of grid timestamps missing from a series.
type GapSet []time.Time
