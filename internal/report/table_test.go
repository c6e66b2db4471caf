package report

import (
	"errors"
	"strings"
	"testing"

	"FibScope/internal/calculator"
	"FibScope/internal/chart"
	"FibScope/internal/model"
)

func sampleReport() *chart.Report {
	levels := make([]model.FibonacciLevel, len(model.FibonacciRatios))
	for i, r := range model.FibonacciRatios {
		levels[i] = model.FibonacciLevel{Ratio: r, Price: 110 - 20*r}
	}
	return &chart.Report{
		Symbol: "AAPL",
		Timeframes: []chart.TimeframeReport{
			{
				Timeframe:  model.TF1h,
				Bars:       120,
				Gaps:       3,
				Selectable: true,
				Swings: calculator.Swings{
					Highest: &model.SwingPoint{Kind: model.SwingHigh, Index: 40, Price: 110},
					Lowest:  &model.SwingPoint{Kind: model.SwingLow, Index: 12, Price: 90},
				},
				Levels: levels,
			},
			{
				Timeframe:  model.TF1m,
				Bars:       2,
				Selectable: true,
				Err:        errors.New("fibonacci: indeterminate swing"),
			},
			{Timeframe: model.TF5m},
		},
	}
}

func TestSummaryTable(t *testing.T) {
	out := SummaryTable(sampleReport())
	for _, want := range []string{"AAPL", "Hourly", "110.00 @40", "90.00 @12", "ok", "indeterminate swing", "unavailable"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestLevelsTable(t *testing.T) {
	out := LevelsTable(sampleReport())
	for _, want := range []string{"RATIO", "HOURLY", "1 MIN", "61.8%", "97.64", "110.00", "90.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("levels table missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "%"); got != len(model.FibonacciRatios) {
		t.Errorf("expected %d ratio rows, counted %d", len(model.FibonacciRatios), got)
	}
}

func TestTimeframeTable(t *testing.T) {
	r := sampleReport()
	out := TimeframeTable(r.Timeframes[0])
	if !strings.Contains(out, "23.6%") || !strings.Contains(out, "105.28") {
		t.Errorf("unexpected table:\n%s", out)
	}
	out = TimeframeTable(r.Timeframes[1])
	if !strings.Contains(out, "indeterminate swing") {
		t.Errorf("expected failure in table:\n%s", out)
	}
}
