package calculator

import (
	"fmt"

	"FibScope/internal/model"
)

// Enrich joins the fast and slow moving averages and the cumulative VWAP onto
// the series.
func Enrich(series *model.TimeSeries, fast, slow int) error {
	closes := extractCloses(series.Bars)
	fastMA, err := SMASeries(closes, fast)
	if err != nil {
		return fmt.Errorf("fast SMA(%d): %w", fast, err)
	}
	slowMA, err := SMASeries(closes, slow)
	if err != nil {
		return fmt.Errorf("slow SMA(%d): %w", slow, err)
	}
	series.Indicators = model.Indicators{
		FastLength: fast,
		SlowLength: slow,
		FastMA:     fastMA,
		SlowMA:     slowMA,
		VWAP:       CumulativeVWAP(series.Bars),
	}
	return nil
}
