package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"FibScope/internal/calculator"
	"FibScope/internal/model"
)

// TimeframeSettings controls how much history is fetched for a timeframe and
// which moving averages are joined onto it.
type TimeframeSettings struct {
	Lookback time.Duration
	FastMA   int
	SlowMA   int
}

// DefaultSettings returns the lookback windows and trend lengths used when
// nothing is configured.
func DefaultSettings() map[model.Timeframe]TimeframeSettings {
	out := make(map[model.Timeframe]TimeframeSettings, len(model.Timeframes))
	for _, tf := range model.Timeframes {
		s := TimeframeSettings{Lookback: tf.DefaultLookback(), FastMA: 50, SlowMA: 200}
		if tf == model.TF1h || tf == model.TF1m {
			s.FastMA, s.SlowMA = 20, 50
		}
		out[tf] = s
	}
	return out
}

// Result holds the enriched series of every timeframe that was fetched, and
// the failure of every timeframe that was not.
type Result struct {
	Series map[model.Timeframe]*model.TimeSeries
	Errors map[model.Timeframe]error
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher     Fetcher
	Symbol      string
	Settings    map[model.Timeframe]TimeframeSettings
	Parallelism int

	now func() time.Time
}

// NewCollector creates a new Collector with default settings.
func NewCollector(fetcher Fetcher, symbol string) *Collector {
	return &Collector{
		Fetcher:     fetcher,
		Symbol:      symbol,
		Settings:    DefaultSettings(),
		Parallelism: 3,
		now:         time.Now,
	}
}

// Collect fetches every timeframe in parallel and computes indicators. A
// failing timeframe is recorded in Result.Errors and does not affect the
// others; an error is returned only when no timeframe could be collected or
// ctx was cancelled.
func (c *Collector) Collect(ctx context.Context) (*Result, error) {
	now := time.Now()
	if c.now != nil {
		now = c.now()
	}
	res := &Result{
		Series: make(map[model.Timeframe]*model.TimeSeries),
		Errors: make(map[model.Timeframe]error),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if c.Parallelism > 0 {
		g.SetLimit(c.Parallelism)
	}
	for _, tf := range model.Timeframes {
		tf := tf
		g.Go(func() error {
			series, err := c.collectOne(gctx, tf, now)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("[WARN] %s %s: %v", c.Symbol, tf.Label(), err)
				res.Errors[tf] = err
				return nil
			}
			res.Series[tf] = series
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collect %s: %w", c.Symbol, err)
	}
	if len(res.Series) == 0 {
		errs := make([]error, 0, len(res.Errors))
		for _, tf := range model.Timeframes {
			if err, ok := res.Errors[tf]; ok {
				errs = append(errs, fmt.Errorf("%s: %w", tf.Label(), err))
			}
		}
		return res, fmt.Errorf("collect %s: no timeframe available: %w", c.Symbol, errors.Join(errs...))
	}
	return res, nil
}

func (c *Collector) collectOne(ctx context.Context, tf model.Timeframe, now time.Time) (*model.TimeSeries, error) {
	s, ok := c.Settings[tf]
	if !ok {
		s = DefaultSettings()[tf]
	}
	if s.Lookback <= 0 {
		s.Lookback = tf.DefaultLookback()
	}
	bars, err := c.Fetcher.FetchBars(ctx, c.Symbol, tf, now.Add(-s.Lookback), now)
	if err != nil {
		return nil, fmt.Errorf("fetch %s bars from %s: %w", tf, c.Fetcher.Name(), err)
	}
	series := &model.TimeSeries{
		Symbol:    c.Symbol,
		Timeframe: tf,
		Interval:  tf.Interval(),
		Bars:      normalizeBars(bars),
	}
	if err := calculator.Enrich(series, s.FastMA, s.SlowMA); err != nil {
		return nil, fmt.Errorf("enrich %s: %w", tf, err)
	}
	return series, nil
}

// normalizeBars orders bars by time and drops repeated timestamps, keeping
// the last one received.
func normalizeBars(bars []model.Bar) []model.Bar {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
