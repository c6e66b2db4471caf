package calculator

import (
	"fmt"

	"FibScope/internal/model"
)

// DetectGaps returns the timestamps of the regular grid from the first to the
// last bar, stepped by the series interval, that have no bar.
func DetectGaps(series *model.TimeSeries) (model.GapSet, error) {
	if series.Len() == 0 {
		return nil, model.ErrEmptySeries
	}
	if series.Interval <= 0 {
		return nil, fmt.Errorf("invalid interval %v", series.Interval)
	}

	present := make(map[int64]struct{}, len(series.Bars))
	for _, b := range series.Bars {
		present[b.Time.UnixNano()] = struct{}{}
	}

	var gaps model.GapSet
	end := series.End()
	for ts := series.Start(); !ts.After(end); ts = ts.Add(series.Interval) {
		if _, ok := present[ts.UnixNano()]; !ok {
			gaps = append(gaps, ts)
		}
	}
	return gaps, nil
}
