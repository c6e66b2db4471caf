package calculator

import (
	"math"
	"testing"

	"FibScope/internal/model"
)

func TestSMASeries(t *testing.T) {
	got, err := SMASeries([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Errorf("expected NaN warm-up, got %v", got[:2])
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if !approx(got[i+2], w) {
			t.Errorf("index %d: expected %v, got %v", i+2, w, got[i+2])
		}
	}

	short, err := SMASeries([]float64{1, 2}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range short {
		if !math.IsNaN(v) {
			t.Errorf("index %d: expected NaN, got %v", i, v)
		}
	}

	if _, err := SMASeries([]float64{1}, 0); err == nil {
		t.Error("expected error for non-positive period")
	}
}

func TestCumulativeVWAP(t *testing.T) {
	bars := []model.Bar{
		{High: 12, Low: 8, Volume: 0},
		{High: 12, Low: 8, Volume: 100},
		{High: 22, Low: 18, Volume: 100},
	}
	got := CumulativeVWAP(bars)
	if !math.IsNaN(got[0]) {
		t.Errorf("expected NaN before any volume, got %v", got[0])
	}
	if !approx(got[1], 10) {
		t.Errorf("expected 10, got %v", got[1])
	}
	if !approx(got[2], 15) {
		t.Errorf("expected 15, got %v", got[2])
	}
}

func TestEnrich(t *testing.T) {
	bars := barsFromHL([]float64{2, 4, 6, 8}, []float64{0, 2, 4, 6})
	s := &model.TimeSeries{Bars: bars}
	if err := Enrich(s, 2, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ind := s.Indicators
	if ind.FastLength != 2 || ind.SlowLength != 3 {
		t.Errorf("unexpected lengths %d/%d", ind.FastLength, ind.SlowLength)
	}
	if len(ind.FastMA) != 4 || len(ind.SlowMA) != 4 || len(ind.VWAP) != 4 {
		t.Fatalf("expected columns aligned with bars")
	}
	if !approx(ind.FastMA[3], 6) {
		t.Errorf("expected fast MA 6, got %v", ind.FastMA[3])
	}
	if err := Enrich(s, 0, 3); err == nil {
		t.Error("expected error for zero length")
	}
}
