package recorder

import (
	"time"

	"FibScope/internal/chart"
	"FibScope/internal/model"
)

// TimeframeOutcome holds the persisted result of one timeframe in a build.
type TimeframeOutcome struct {
	Timeframe  model.Timeframe
	Bars       int
	Gaps       int
	SwingHigh  *model.SwingPoint
	SwingLow   *model.SwingPoint
	Selectable bool
	Error      string
	Levels     []model.FibonacciLevel
}

// BuildRecord holds all data for one chart build.
type BuildRecord struct {
	ID         string
	BuiltAt    time.Time
	Symbol     string
	Source     string
	Active     model.Timeframe
	Timeframes []TimeframeOutcome
}

// BuildSummary is a stored build as listed by RecentBuilds.
type BuildSummary struct {
	ID       string
	BuiltAt  time.Time
	Symbol   string
	Source   string
	Active   model.Timeframe
	Degraded int
}

// FromBuild flattens a chart build into a record.
func FromBuild(b *chart.Build, source string) *BuildRecord {
	rec := &BuildRecord{
		ID:      b.ID,
		BuiltAt: b.BuiltAt,
		Symbol:  b.Symbol,
		Source:  source,
		Active:  b.View.Active(),
	}
	for _, tr := range b.Report.Timeframes {
		out := TimeframeOutcome{
			Timeframe:  tr.Timeframe,
			Bars:       tr.Bars,
			Gaps:       tr.Gaps,
			SwingHigh:  tr.Swings.Highest,
			SwingLow:   tr.Swings.Lowest,
			Selectable: tr.Selectable,
			Levels:     tr.Levels,
		}
		if tr.Err != nil {
			out.Error = tr.Err.Error()
		}
		rec.Timeframes = append(rec.Timeframes, out)
	}
	return rec
}

// Recorder persists build history for analysis.
type Recorder interface {
	RecordBuild(rec *BuildRecord) error
	RecentBuilds(limit int) ([]BuildSummary, error)
	Close() error
}
