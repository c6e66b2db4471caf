package chart

import (
	"fmt"
	"sync"

	"FibScope/internal/calculator"
	"FibScope/internal/model"
)

// Transition is the complete update applied when a timeframe becomes active:
// the visibility of every slot plus the overlay grid and axes of the newly
// active timeframe. Callers must treat it as read-only.
type Transition struct {
	Active      model.Timeframe        `json:"active"`
	Changed     bool                   `json:"changed"`
	Visible     []bool                 `json:"visible"`
	Shapes      []Shape                `json:"shapes"`
	Annotations []Annotation           `json:"annotations"`
	Axes        map[string]Axis        `json:"axes"`
	HiddenAxes  []string               `json:"hidden_axes"`
	Levels      []model.FibonacciLevel `json:"levels,omitempty"`
	GridError   string                 `json:"grid_error,omitempty"`
}

// Restyle is the trace update half of the transition.
func (t Transition) Restyle() map[string]any {
	return map[string]any{"visible": t.Visible}
}

// Relayout is the layout update half of the transition.
func (t Transition) Relayout() map[string]any {
	out := make(map[string]any, len(t.Axes)+len(t.HiddenAxes)+2)
	out["shapes"] = t.Shapes
	out["annotations"] = t.Annotations
	for key, axis := range t.Axes {
		out[key] = axis
	}
	for _, key := range t.HiddenAxes {
		out[key] = false
	}
	return out
}

// timeframeData is what the view keeps per available timeframe to recompute
// its payload on activation.
type timeframeData struct {
	series *model.TimeSeries
	gaps   model.GapSet
	axes   AxisSet
}

// View is the visibility state machine. Exactly one available timeframe is
// active at any time; Select moves between them. Safe for concurrent use.
type View struct {
	mu       sync.Mutex
	data     map[model.Timeframe]timeframeData
	trough   calculator.TroughSource
	active   model.Timeframe
	current  Transition
	computed int
}

func newView(data map[model.Timeframe]timeframeData, def model.Timeframe, trough calculator.TroughSource) (*View, error) {
	v := &View{data: data, trough: trough}
	initial := def
	if _, ok := data[initial]; !ok {
		initial = ""
		for _, tf := range model.Timeframes {
			if _, ok := data[tf]; ok {
				initial = tf
				break
			}
		}
	}
	if initial == "" {
		return nil, fmt.Errorf("%w: no timeframe has data", model.ErrTimeframeUnavailable)
	}
	v.active = initial
	v.current = v.payload(initial)
	v.current.Changed = true
	return v, nil
}

// Active returns the active timeframe.
func (v *View) Active() model.Timeframe {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

// Current returns the transition that produced the present state.
func (v *View) Current() Transition {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Available lists the selectable timeframes in dropdown order.
func (v *View) Available() []model.Timeframe {
	var out []model.Timeframe
	for _, tf := range model.Timeframes {
		if _, ok := v.data[tf]; ok {
			out = append(out, tf)
		}
	}
	return out
}

// VisibleSlots returns the indices of the slots currently shown.
func (v *View) VisibleSlots() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []int
	for slot, on := range v.current.Visible {
		if on {
			out = append(out, slot)
		}
	}
	return out
}

// Select activates the timeframe named by label. Unknown labels and
// unavailable timeframes are rejected and leave the state unchanged.
// Selecting the active timeframe returns the current state with Changed unset.
func (v *View) Select(label string) (Transition, error) {
	tf, err := model.ParseTimeframe(label)
	if err != nil {
		return Transition{}, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.data[tf]; !ok {
		return Transition{}, fmt.Errorf("%w: %s", model.ErrTimeframeUnavailable, tf)
	}
	if tf == v.active {
		t := v.current
		t.Changed = false
		return t, nil
	}

	t := v.payload(tf)
	t.Changed = true
	v.active = tf
	v.current = t
	return t, nil
}

// Payload computes the transition into tf without changing the state.
func (v *View) Payload(tf model.Timeframe) (Transition, error) {
	if !tf.Valid() {
		return Transition{}, fmt.Errorf("%w: %q", model.ErrUnknownTimeframe, tf)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.data[tf]; !ok {
		return Transition{}, fmt.Errorf("%w: %s", model.ErrTimeframeUnavailable, tf)
	}
	return v.payload(tf), nil
}

// payload must be called with mu held or before the view is shared.
func (v *View) payload(tf model.Timeframe) Transition {
	v.computed++
	d := v.data[tf]

	visible := make([]bool, SlotCount)
	for g := LayerGroup(0); g < groupCount; g++ {
		visible[Slot(tf, g)] = true
	}

	t := Transition{
		Active:      tf,
		Visible:     visible,
		Shapes:      []Shape{},
		Annotations: []Annotation{},
		Axes:        activeAxes(d.axes, d.gaps, d.series.Interval.Milliseconds()),
		HiddenAxes:  hiddenAxisKeys(tf),
	}

	sw, err := calculator.FindSwings(d.series.Bars)
	if err == nil {
		t.Levels, err = calculator.FibonacciLevels(d.series.Bars, sw, v.trough)
	}
	if err != nil {
		t.GridError = err.Error()
		return t
	}
	t.Shapes, t.Annotations = fibonacciGrid(t.Levels, d.axes)
	return t
}
