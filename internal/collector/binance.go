package collector

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"

	"FibScope/internal/model"
)

const binanceMaxLimit = 1000

// BinanceFetcher implements Fetcher with Binance spot klines, paging through
// the requested window.
type BinanceFetcher struct {
	Client    *binance.Client
	PageLimit int
}

// NewBinanceFetcher creates a Binance fetcher. Keys may be empty for public
// market data; an empty baseURL keeps the library default.
func NewBinanceFetcher(apiKey, secretKey, baseURL, proxyURL string) *BinanceFetcher {
	c := binance.NewClient(apiKey, secretKey)
	if baseURL != "" {
		c.BaseURL = baseURL
	}
	c.HTTPClient = newHTTPClient(proxyURL)
	return &BinanceFetcher{Client: c, PageLimit: binanceMaxLimit}
}

func (f *BinanceFetcher) Name() string { return "binance" }

var binanceIntervals = map[model.Timeframe]string{
	model.TF1m:  "1m",
	model.TF5m:  "5m",
	model.TF15m: "15m",
	model.TF1h:  "1h",
	model.TF1d:  "1d",
}

func (f *BinanceFetcher) FetchBars(ctx context.Context, symbol string, tf model.Timeframe, from, to time.Time) ([]model.Bar, error) {
	interval, ok := binanceIntervals[tf]
	if !ok {
		return nil, fmt.Errorf("binance: %w: %q", model.ErrUnknownTimeframe, tf)
	}
	limit := f.PageLimit
	if limit <= 0 || limit > binanceMaxLimit {
		limit = binanceMaxLimit
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	var bars []model.Bar
	cursor, end := from.UnixMilli(), to.UnixMilli()
	for cursor <= end {
		klines, err := f.Client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			StartTime(cursor).
			EndTime(end).
			Limit(limit).
			Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("binance klines %s %s: %w", symbol, interval, err)
		}
		for _, k := range klines {
			b, err := klineBar(k)
			if err != nil {
				return nil, fmt.Errorf("binance kline at %d: %w", k.OpenTime, err)
			}
			bars = append(bars, b)
		}
		if len(klines) < limit {
			break
		}
		cursor = klines[len(klines)-1].OpenTime + tf.Interval().Milliseconds()
	}
	return bars, nil
}

func klineBar(k *binance.Kline) (model.Bar, error) {
	var (
		b   = model.Bar{Time: time.UnixMilli(k.OpenTime).UTC()}
		err error
	)
	fields := []struct {
		raw string
		dst *float64
	}{
		{k.Open, &b.Open},
		{k.High, &b.High},
		{k.Low, &b.Low},
		{k.Close, &b.Close},
		{k.Volume, &b.Volume},
	}
	for _, f := range fields {
		if *f.dst, err = strconv.ParseFloat(f.raw, 64); err != nil {
			return model.Bar{}, err
		}
	}
	return b, nil
}
