package collector

import (
	"context"
	"time"

	"FibScope/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchBars returns the bars of symbol at timeframe tf between from and to.
	FetchBars(ctx context.Context, symbol string, tf model.Timeframe, from, to time.Time) ([]model.Bar, error)
	Name() string
}
