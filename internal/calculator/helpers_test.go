package calculator

import (
	"time"

	"FibScope/internal/model"
)

var t0 = time.Date(2024, 3, 4, 14, 30, 0, 0, time.UTC)

// barsFromHL builds bars one minute apart from parallel high/low slices.
func barsFromHL(highs, lows []float64) []model.Bar {
	bars := make([]model.Bar, len(highs))
	for i := range highs {
		bars[i] = model.Bar{
			Time:   t0.Add(time.Duration(i) * time.Minute),
			Open:   (highs[i] + lows[i]) / 2,
			High:   highs[i],
			Low:    lows[i],
			Close:  (highs[i] + lows[i]) / 2,
			Volume: 100,
		}
	}
	return bars
}
