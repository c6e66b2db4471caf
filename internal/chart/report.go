package chart

import (
	"encoding/json"
	"errors"
	"fmt"

	"FibScope/internal/calculator"
	"FibScope/internal/model"
)

// TimeframeReport is the build outcome of one timeframe. Err is nil when the
// timeframe is fully usable.
type TimeframeReport struct {
	Timeframe model.Timeframe        `json:"timeframe"`
	Bars      int                    `json:"bars"`
	Gaps      int                    `json:"gaps"`
	Swings    calculator.Swings      `json:"swings"`
	Levels    []model.FibonacciLevel `json:"levels,omitempty"`
	// Selectable is false when the timeframe was left out of the dropdown.
	Selectable bool  `json:"selectable"`
	Err        error `json:"-"`
}

func (r TimeframeReport) MarshalJSON() ([]byte, error) {
	type plain TimeframeReport
	out := struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(r)}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// Report collects per-timeframe outcomes of one build, in dropdown order.
type Report struct {
	Symbol     string            `json:"symbol"`
	Timeframes []TimeframeReport `json:"timeframes"`
}

// Lookup returns the report of tf.
func (r *Report) Lookup(tf model.Timeframe) (TimeframeReport, bool) {
	for _, tr := range r.Timeframes {
		if tr.Timeframe == tf {
			return tr, true
		}
	}
	return TimeframeReport{}, false
}

// Degraded returns the timeframes that failed in any way.
func (r *Report) Degraded() []TimeframeReport {
	var out []TimeframeReport
	for _, tr := range r.Timeframes {
		if tr.Err != nil {
			out = append(out, tr)
		}
	}
	return out
}

// NoteFetchError attaches a retrieval failure to tf's report.
func (r *Report) NoteFetchError(tf model.Timeframe, err error) {
	for i := range r.Timeframes {
		if r.Timeframes[i].Timeframe != tf {
			continue
		}
		if r.Timeframes[i].Err == nil {
			r.Timeframes[i].Err = fmt.Errorf("fetch: %w", err)
		} else {
			r.Timeframes[i].Err = fmt.Errorf("fetch: %w; %w", err, r.Timeframes[i].Err)
		}
		return
	}
}

// Err joins every timeframe failure, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, tr := range r.Degraded() {
		errs = append(errs, fmt.Errorf("%s: %w", tr.Timeframe, tr.Err))
	}
	return errors.Join(errs...)
}
