package collector

import (
	"context"
	"math"
	"time"

	"FibScope/internal/model"
)

// MockFetcher returns deterministic bars for development and testing.
// Every GapEvery-th grid point is left out to simulate market closures.
type MockFetcher struct {
	Price    float64
	GapEvery int
	Data     map[model.Timeframe][]model.Bar
	Err      map[model.Timeframe]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, _ string, tf model.Timeframe, from, to time.Time) ([]model.Bar, error) {
	if err := m.Err[tf]; err != nil {
		return nil, err
	}
	if bars, ok := m.Data[tf]; ok {
		return bars, nil
	}
	return generateMockBars(m.Price, tf.Interval(), from, to, m.GapEvery), nil
}

func generateMockBars(basePrice float64, interval time.Duration, from, to time.Time, gapEvery int) []model.Bar {
	var bars []model.Bar
	i := 0
	for ts := from.Truncate(interval); !ts.After(to); ts = ts.Add(interval) {
		i++
		if gapEvery > 0 && i%gapEvery == 0 {
			continue
		}
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/12) + 0.01*math.Sin(float64(i)/2.5))
		bars = append(bars, model.Bar{
			Time:   ts,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000 * (1 + 0.5*math.Cos(float64(i)/5)),
		})
	}
	return bars
}
