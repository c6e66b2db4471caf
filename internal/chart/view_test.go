package chart

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"FibScope/internal/model"
)

func checkVisibility(t *testing.T, tr Transition, tf model.Timeframe) {
	t.Helper()
	if len(tr.Visible) != SlotCount {
		t.Fatalf("expected %d slots, got %d", SlotCount, len(tr.Visible))
	}
	count := 0
	for slot, on := range tr.Visible {
		owner, _ := SlotOwner(slot)
		if on != (owner == tf) {
			t.Errorf("slot %d (owner %s): visible=%v with %s active", slot, owner, on, tf)
		}
		if on {
			count++
		}
	}
	if count != SlotsPerTimeframe {
		t.Errorf("expected %d visible slots, got %d", SlotsPerTimeframe, count)
	}
}

func TestView_InitialStateIsHourly(t *testing.T) {
	b := mustCompose(allSeries(40))
	if b.View.Active() != model.TF1h {
		t.Fatalf("expected 1h active, got %s", b.View.Active())
	}
	checkVisibility(t, b.View.Current(), model.TF1h)
}

func TestView_SelectEveryTimeframe(t *testing.T) {
	b := mustCompose(allSeries(40))
	for _, label := range []string{"1m", "5 Min", "15m", "Daily", "1h"} {
		tf, _ := model.ParseTimeframe(label)
		tr, err := b.View.Select(label)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", label, err)
		}
		if tr.Active != tf || b.View.Active() != tf {
			t.Errorf("%s: expected %s active, got %s/%s", label, tf, tr.Active, b.View.Active())
		}
		checkVisibility(t, tr, tf)
		if len(tr.Shapes) != 7 || len(tr.Annotations) != 7 {
			t.Errorf("%s: expected 7 shapes and annotations, got %d/%d", label, len(tr.Shapes), len(tr.Annotations))
		}
		price := AxesFor(tf).Price
		for _, s := range tr.Shapes {
			if s.YRef != yRef(price) || s.XRef != xRef(price)+" domain" {
				t.Errorf("%s: shape bound to %s/%s, expected price axis %d", label, s.XRef, s.YRef, price)
			}
		}
		if _, ok := tr.Axes[xKey(price)]; !ok {
			t.Errorf("%s: missing price x axis config", label)
		}
		if len(b.View.VisibleSlots()) != SlotsPerTimeframe {
			t.Errorf("%s: unexpected visible slot count", label)
		}
	}
}

func TestView_SelectSameTwiceIsNoop(t *testing.T) {
	b := mustCompose(allSeries(40))
	first, err := b.View.Select("5m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Changed {
		t.Error("expected first selection to change state")
	}
	computed := b.View.computed

	second, err := b.View.Select("5m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Changed {
		t.Error("expected repeated selection to be a no-op")
	}
	if b.View.computed != computed {
		t.Errorf("expected no recomputation, computed went %d -> %d", computed, b.View.computed)
	}
	first.Changed = false
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical state after repeated selection")
	}
}

func TestView_UnknownTimeframeLeavesStateUnchanged(t *testing.T) {
	b := mustCompose(allSeries(40))
	if _, err := b.View.Select("15m"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := b.View.Current()

	_, err := b.View.Select("4h")
	if !errors.Is(err, model.ErrUnknownTimeframe) {
		t.Fatalf("expected ErrUnknownTimeframe, got %v", err)
	}
	if b.View.Active() != model.TF15m {
		t.Errorf("expected 15m to stay active, got %s", b.View.Active())
	}
	if !reflect.DeepEqual(before, b.View.Current()) {
		t.Error("expected state unchanged after rejected selection")
	}
}

func TestView_UnavailableTimeframe(t *testing.T) {
	series := allSeries(40)
	series[model.TF1m] = &model.TimeSeries{Timeframe: model.TF1m, Interval: model.TF1m.Interval()}
	b := mustCompose(series)

	_, err := b.View.Select("1m")
	if !errors.Is(err, model.ErrTimeframeUnavailable) {
		t.Fatalf("expected ErrTimeframeUnavailable, got %v", err)
	}
	if b.View.Active() != model.TF1h {
		t.Errorf("expected 1h to stay active, got %s", b.View.Active())
	}
}

func TestView_IndeterminateSwingHasEmptyGrid(t *testing.T) {
	series := allSeries(40)
	mono := &model.TimeSeries{Timeframe: model.TF1d, Interval: model.TF1d.Interval()}
	for i := 0; i < 10; i++ {
		p := float64(100 + i)
		mono.Bars = append(mono.Bars, model.Bar{Time: start.Add(time.Duration(i) * 24 * time.Hour), Open: p, High: p + 1, Low: p - 1, Close: p, Volume: 1})
	}
	series[model.TF1d] = mono
	b := mustCompose(series)

	tr, err := b.View.Select("1d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkVisibility(t, tr, model.TF1d)
	if len(tr.Shapes) != 0 || len(tr.Annotations) != 0 {
		t.Errorf("expected empty grid, got %d shapes", len(tr.Shapes))
	}
	if tr.GridError == "" {
		t.Error("expected grid error to be reported")
	}
}

func TestView_ConcurrentSelect(t *testing.T) {
	b := mustCompose(allSeries(40))
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tf := model.Timeframes[i%len(model.Timeframes)]
			if _, err := b.View.Select(string(tf)); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()
	checkVisibility(t, b.View.Current(), b.View.Active())
}
