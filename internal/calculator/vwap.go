package calculator

import (
	"math"

	"FibScope/internal/model"
)

// CumulativeVWAP computes the running volume-weighted average of the bar
// midpoint (high+low)/2. Entries stay NaN until some volume has traded.
func CumulativeVWAP(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	var pv, vol float64
	for i, b := range bars {
		pv += b.Volume * (b.High + b.Low) / 2
		vol += b.Volume
		if vol == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = pv / vol
	}
	return out
}
