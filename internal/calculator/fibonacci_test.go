package calculator

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"FibScope/internal/model"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestFibonacciLevels_PeakAfterTrough(t *testing.T) {
	// Trough at 1, peak at 3: levels descend from the peak.
	bars := barsFromHL(
		[]float64{12, 11, 14, 20, 15},
		[]float64{9, 8, 10, 16, 12},
	)
	sw, err := FindSwings(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	levels, err := FibonacciLevels(bars, sw, TroughFromHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(levels) != 7 {
		t.Fatalf("expected 7 levels, got %d", len(levels))
	}
	// Trough reference is High[1] = 11.
	peak, trough := 20.0, 11.0
	if levels[0].Price != peak {
		t.Errorf("ratio 0 must equal the peak exactly, got %v", levels[0].Price)
	}
	if !approx(levels[6].Price, trough) {
		t.Errorf("ratio 1 expected %v, got %v", trough, levels[6].Price)
	}
	for i, lv := range levels {
		want := peak - (peak-trough)*model.FibonacciRatios[i]
		if lv.Ratio != model.FibonacciRatios[i] || !approx(lv.Price, want) {
			t.Errorf("level %d: expected (%v, %v), got (%v, %v)", i, model.FibonacciRatios[i], want, lv.Ratio, lv.Price)
		}
		if i > 0 && lv.Price > levels[i-1].Price {
			t.Errorf("level %d: expected descending prices", i)
		}
	}
}

func TestFibonacciLevels_TroughAfterPeak(t *testing.T) {
	// Peak at 1, trough at 3: levels ascend from the trough.
	bars := barsFromHL(
		[]float64{15, 20, 14, 11, 12},
		[]float64{12, 16, 10, 8, 9},
	)
	sw, err := FindSwings(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	levels, err := FibonacciLevels(bars, sw, TroughFromHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	trough, peak := 11.0, 20.0
	if levels[0].Price != trough {
		t.Errorf("ratio 0 must equal the trough reference exactly, got %v", levels[0].Price)
	}
	if !approx(levels[6].Price, peak) {
		t.Errorf("ratio 1 expected %v, got %v", peak, levels[6].Price)
	}
	for i := 1; i < len(levels); i++ {
		if levels[i].Price < levels[i-1].Price {
			t.Errorf("level %d: expected ascending prices", i)
		}
	}
}

func TestFibonacciLevels_TroughFromLow(t *testing.T) {
	bars := barsFromHL(
		[]float64{15, 20, 14, 11, 12},
		[]float64{12, 16, 10, 8, 9},
	)
	sw, _ := FindSwings(bars)
	levels, err := FibonacciLevels(bars, sw, TroughFromLow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if levels[0].Price != 8 {
		t.Errorf("expected trough from Low column (8), got %v", levels[0].Price)
	}
}

func TestFibonacciLevels_Idempotent(t *testing.T) {
	bars := barsFromHL(
		[]float64{12, 11, 14, 20, 15, 13, 17, 12},
		[]float64{9, 8, 10, 16, 12, 7, 14, 9},
	)
	sw, _ := FindSwings(bars)
	a, err := FibonacciLevels(bars, sw, TroughFromHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := FibonacciLevels(bars, sw, TroughFromHigh)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected identical output, got %v and %v", a, b)
	}
}

func TestFibonacciLevels_MissingSides(t *testing.T) {
	bars := barsFromHL([]float64{1, 2, 3}, []float64{0, 1, 2})
	hi := &model.SwingPoint{Kind: model.SwingHigh, Index: 1, Price: 2}
	lo := &model.SwingPoint{Kind: model.SwingLow, Index: 1, Price: 1}
	tests := []struct {
		name string
		sw   Swings
	}{
		{"both unset", Swings{}},
		{"high unset", Swings{Lowest: lo}},
		{"low unset", Swings{Highest: hi}},
	}
	for _, tt := range tests {
		if _, err := FibonacciLevels(bars, tt.sw, TroughFromHigh); !errors.Is(err, model.ErrIndeterminateSwing) {
			t.Errorf("%s: expected ErrIndeterminateSwing, got %v", tt.name, err)
		}
	}
	if _, err := FibonacciLevels(nil, Swings{Highest: hi, Lowest: lo}, TroughFromHigh); !errors.Is(err, model.ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}
}

func TestParseTroughSource(t *testing.T) {
	tests := []struct {
		in      string
		want    TroughSource
		wantErr bool
	}{
		{"", TroughFromHigh, false},
		{"high", TroughFromHigh, false},
		{"LOW", TroughFromLow, false},
		{"close", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTroughSource(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: unexpected error state: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
