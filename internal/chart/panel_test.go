package chart

import (
	"testing"

	"FibScope/internal/model"
)

func TestSlot_PartitionIsBijective(t *testing.T) {
	seen := make(map[int]bool)
	for _, tf := range model.Timeframes {
		for g := LayerGroup(0); g < groupCount; g++ {
			slot := Slot(tf, g)
			if slot < 0 || slot >= SlotCount {
				t.Fatalf("%s/%s: slot %d out of range", tf, g, slot)
			}
			if seen[slot] {
				t.Fatalf("%s/%s: slot %d assigned twice", tf, g, slot)
			}
			seen[slot] = true
			owner, group := SlotOwner(slot)
			if owner != tf || group != g {
				t.Errorf("slot %d: expected owner %s/%s, got %s/%s", slot, tf, g, owner, group)
			}
		}
	}
	if len(seen) != 25 {
		t.Errorf("expected 25 slots, got %d", len(seen))
	}
}

func TestBuildPanel(t *testing.T) {
	s := waveSeries(model.TF5m, 10)
	p := BuildPanel(s, AxesFor(model.TF5m))

	candles := p.Layers[Candlestick]
	if candles.Type != "candlestick" || len(candles.Open) != 10 {
		t.Fatalf("unexpected candlestick layer: %s with %d bars", candles.Type, len(candles.Open))
	}
	if candles.XAxis != "x5" || candles.YAxis != "y5" {
		t.Errorf("expected candles on x5/y5, got %s/%s", candles.XAxis, candles.YAxis)
	}
	if p.Layers[FastMA].Name != "SMA_3" || p.Layers[SlowMA].Name != "SMA_5" {
		t.Errorf("unexpected MA names %q/%q", p.Layers[FastMA].Name, p.Layers[SlowMA].Name)
	}
	slow := p.Layers[SlowMA].Y.([]*float64)
	for i := 0; i < 4; i++ {
		if slow[i] != nil {
			t.Errorf("expected null warm-up at %d", i)
		}
	}
	if slow[4] == nil {
		t.Error("expected a value once the window is full")
	}
	profile := p.Layers[VolumeProfile]
	if profile.Orientation != "h" || profile.XAxis != "x9" {
		t.Errorf("unexpected profile layer %+v", profile)
	}
	for g, layer := range p.Layers {
		if layer.Visible {
			t.Errorf("layer %s should start hidden", LayerGroup(g))
		}
	}
}

func TestBuildPanel_EmptySeries(t *testing.T) {
	p := BuildPanel(&model.TimeSeries{Timeframe: model.TF1d}, AxesFor(model.TF1d))
	if len(p.Layers[Candlestick].Open) != 0 {
		t.Error("expected empty candlestick layer")
	}
}
