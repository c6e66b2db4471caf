package chart

import (
	"FibScope/internal/model"
)

// baseAxes returns the static configuration of all six axes of one
// timeframe, shown or hidden.
func baseAxes(axes AxisSet, visible bool) map[string]Axis {
	common := func(a Axis) Axis {
		a.Visible = boolPtr(visible)
		a.Color = colorAxis
		a.ShowGrid = boolPtr(false)
		a.ZeroLine = boolPtr(false)
		a.Ticks = "outside"
		a.TickLen = tickLen
		if a.TickColor == "" {
			a.TickColor = colorTick
		}
		return a
	}
	return map[string]Axis{
		xKey(axes.Profile): common(Axis{
			Title:  &Title{Text: "Volume"},
			Domain: domainProfileX,
			Anchor: yRef(axes.Profile),
		}),
		yKey(axes.Profile): common(Axis{
			Title:  &Title{Text: "Volume-Weighted Average Price"},
			Domain: domainTopY,
			Anchor: xRef(axes.Profile),
		}),
		xKey(axes.Price): common(Axis{
			Type:           "category",
			Domain:         domainPriceX,
			Anchor:         yRef(axes.Price),
			ShowTickLabels: boolPtr(false),
			RangeSlider:    &RangeSlider{Visible: false},
		}),
		yKey(axes.Price): common(Axis{
			Title:  &Title{Text: "Price"},
			Domain: domainTopY,
			Anchor: xRef(axes.Price),
		}),
		xKey(axes.Volume): common(Axis{
			Type:      "date",
			Domain:    domainVolumeX,
			Anchor:    yRef(axes.Volume),
			TickColor: colorFont,
		}),
		yKey(axes.Volume): common(Axis{
			Title:  &Title{Text: "Volume"},
			Side:   "right",
			Domain: domainVolumeY,
			Anchor: xRef(axes.Volume),
		}),
	}
}

// activeAxes is the axis configuration installed when a timeframe becomes
// active: its own six axes visible, and the volume axis collapsing the
// timestamps listed in gaps.
func activeAxes(axes AxisSet, gaps model.GapSet, interval int64) map[string]Axis {
	out := baseAxes(axes, true)
	if len(gaps) > 0 {
		values := make([]string, len(gaps))
		for i, g := range gaps {
			values[i] = formatTime(g)
		}
		vol := out[xKey(axes.Volume)]
		vol.RangeBreaks = []RangeBreak{{Values: values, DValue: interval}}
		out[xKey(axes.Volume)] = vol
	}
	return out
}

// hiddenAxisKeys lists the relayout keys hiding every axis not owned by tf.
func hiddenAxisKeys(tf model.Timeframe) []string {
	var keys []string
	for _, other := range model.Timeframes {
		if other == tf {
			continue
		}
		a := AxesFor(other)
		for _, n := range []int{a.Profile, a.Price, a.Volume} {
			keys = append(keys, xKey(n)+".visible", yKey(n)+".visible")
		}
	}
	return keys
}
