package calculator

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"FibScope/internal/model"
)

func TestDetectGaps_RoundTrip(t *testing.T) {
	interval := 5 * time.Minute
	removed := map[int]bool{3: true, 4: true, 10: true, 17: true}

	var bars []model.Bar
	var want model.GapSet
	for i := 0; i < 20; i++ {
		ts := t0.Add(time.Duration(i) * interval)
		if removed[i] {
			want = append(want, ts)
			continue
		}
		bars = append(bars, model.Bar{Time: ts, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10})
	}

	gaps, err := DetectGaps(&model.TimeSeries{Interval: interval, Bars: bars})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(gaps, want) {
		t.Errorf("expected %v, got %v", want, gaps)
	}
}

func TestDetectGaps_NoGaps(t *testing.T) {
	bars := barsFromHL([]float64{1, 2, 3}, []float64{0, 1, 2})
	gaps, err := DetectGaps(&model.TimeSeries{Interval: time.Minute, Bars: bars})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gaps) != 0 {
		t.Errorf("expected no gaps, got %v", gaps)
	}
}

func TestDetectGaps_Errors(t *testing.T) {
	if _, err := DetectGaps(&model.TimeSeries{Interval: time.Minute}); !errors.Is(err, model.ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}
	bars := barsFromHL([]float64{1}, []float64{0})
	if _, err := DetectGaps(&model.TimeSeries{Bars: bars}); err == nil {
		t.Error("expected error for zero interval")
	}
}
