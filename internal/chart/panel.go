package chart

import (
	"fmt"
	"math"

	"FibScope/internal/model"
)

// LayerGroup is one of the five layers every timeframe contributes. The
// numeric order is the slot order.
type LayerGroup int

const (
	VolumeProfile LayerGroup = iota
	Candlestick
	VolumeArea
	FastMA
	SlowMA

	groupCount
)

// SlotsPerTimeframe is the number of trace slots each timeframe owns.
const SlotsPerTimeframe = int(groupCount)

// SlotCount is the fixed total number of trace slots.
var SlotCount = SlotsPerTimeframe * len(model.Timeframes)

var groupNames = [...]string{"volume-profile", "candlestick", "volume-area", "fast-ma", "slow-ma"}

func (g LayerGroup) String() string {
	if g < 0 || g >= groupCount {
		return fmt.Sprintf("group(%d)", int(g))
	}
	return groupNames[g]
}

// Slot returns the fixed trace index of (tf, group).
func Slot(tf model.Timeframe, group LayerGroup) int {
	return int(group)*len(model.Timeframes) + tf.Index()
}

// SlotOwner is the inverse of Slot.
func SlotOwner(slot int) (model.Timeframe, LayerGroup) {
	n := len(model.Timeframes)
	return model.Timeframes[slot%n], LayerGroup(slot / n)
}

// Panel is the set of layers one timeframe contributes, indexed by LayerGroup.
type Panel struct {
	Timeframe model.Timeframe
	Axes      AxisSet
	Layers    [groupCount]Trace
}

// BuildPanel shapes one timeframe's series into its five layers. The moving
// average lengths are read from the series' indicator columns. Every layer
// starts hidden.
func BuildPanel(series *model.TimeSeries, axes AxisSet) Panel {
	n := series.Len()
	times := make([]string, n)
	opens := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range series.Bars {
		times[i] = formatTime(b.Time)
		opens[i] = b.Open
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
		volumes[i] = b.Volume
	}
	ind := series.Indicators

	p := Panel{Timeframe: series.Timeframe, Axes: axes}
	p.Layers[VolumeProfile] = Trace{
		Type:        "bar",
		X:           volumes,
		Y:           nullable(ind.VWAP, n),
		XAxis:       xRef(axes.Profile),
		YAxis:       yRef(axes.Profile),
		Orientation: "h",
		Opacity:     0.7,
		Width:       1,
		Marker:      &Marker{Color: colorVolume, Line: &Line{Color: colorVolume}},
	}
	p.Layers[Candlestick] = Trace{
		Type:       "candlestick",
		X:          times,
		Open:       opens,
		High:       highs,
		Low:        lows,
		Close:      closes,
		XAxis:      xRef(axes.Price),
		YAxis:      yRef(axes.Price),
		Increasing: &Direction{Line: Line{Color: colorIncreasing}},
		Decreasing: &Direction{Line: Line{Color: colorDecreasing}},
	}
	p.Layers[VolumeArea] = Trace{
		Type:      "scatter",
		X:         times,
		Y:         volumes,
		XAxis:     xRef(axes.Volume),
		YAxis:     yRef(axes.Volume),
		Fill:      "tonexty",
		FillColor: colorVolume,
		Line:      &Line{Color: colorVolume, Width: 12},
	}
	p.Layers[FastMA] = maTrace(times, ind.FastMA, ind.FastLength, colorFastMA, axes)
	p.Layers[SlowMA] = maTrace(times, ind.SlowMA, ind.SlowLength, colorSlowMA, axes)
	return p
}

func maTrace(times []string, values []float64, length int, color string, axes AxisSet) Trace {
	return Trace{
		Type:  "scatter",
		Name:  fmt.Sprintf("SMA_%d", length),
		X:     times,
		Y:     nullable(values, len(times)),
		XAxis: xRef(axes.Price),
		YAxis: yRef(axes.Price),
		Line:  &Line{Color: color, Width: 1},
	}
}

// nullable converts a column to JSON-safe values: NaN, infinities and
// missing trailing entries become null.
func nullable(values []float64, n int) []*float64 {
	out := make([]*float64, n)
	for i := 0; i < n && i < len(values); i++ {
		v := values[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = &v
	}
	return out
}
