package chart

import (
	"math"
	"time"

	"FibScope/internal/calculator"
	"FibScope/internal/model"
)

var start = time.Date(2024, 3, 4, 14, 30, 0, 0, time.UTC)

// waveSeries builds n bars of a sine wave, which always has interior swings.
func waveSeries(tf model.Timeframe, n int) *model.TimeSeries {
	s := &model.TimeSeries{Symbol: "AAPL", Timeframe: tf, Interval: tf.Interval()}
	for i := 0; i < n; i++ {
		mid := 100 + 10*math.Sin(float64(i)/3)
		s.Bars = append(s.Bars, model.Bar{
			Time:   start.Add(time.Duration(i) * tf.Interval()),
			Open:   mid - 0.5,
			High:   mid + 1,
			Low:    mid - 1,
			Close:  mid + 0.5,
			Volume: float64(1000 + i),
		})
	}
	_ = calculator.Enrich(s, 3, 5)
	return s
}

func allSeries(n int) map[model.Timeframe]*model.TimeSeries {
	out := make(map[model.Timeframe]*model.TimeSeries)
	for _, tf := range model.Timeframes {
		out[tf] = waveSeries(tf, n)
	}
	return out
}

func mustCompose(series map[model.Timeframe]*model.TimeSeries) *Build {
	b, err := NewComposer("AAPL", model.TF1h, calculator.TroughFromHigh).Compose(series)
	if err != nil {
		panic(err)
	}
	return b
}
