package calculator

import (
	"errors"
	"math"

	"github.com/markcheno/go-talib"

	"FibScope/internal/model"
)

// SMASeries returns the rolling simple moving average aligned with prices.
// The first period-1 entries are NaN, as is every entry when there is not
// enough data for a single window.
func SMASeries(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]float64, len(prices))
	if len(prices) < period {
		for i := range out {
			out[i] = math.NaN()
		}
		return out, nil
	}
	// talib leaves the warm-up window as zeros.
	copy(out, talib.Sma(prices, period))
	for i := 0; i < period-1; i++ {
		out[i] = math.NaN()
	}
	return out, nil
}

func extractCloses(bars []model.Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
