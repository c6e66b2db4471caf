package chart

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"FibScope/internal/calculator"
	"FibScope/internal/model"
)

// Composer turns the five timeframe series into one chart build.
type Composer struct {
	Symbol  string
	Default model.Timeframe
	Trough  calculator.TroughSource
}

// NewComposer creates a Composer. An invalid default falls back to hourly.
func NewComposer(symbol string, def model.Timeframe, trough calculator.TroughSource) *Composer {
	if !def.Valid() {
		def = model.TF1h
	}
	if trough == "" {
		trough = calculator.TroughFromHigh
	}
	return &Composer{Symbol: symbol, Default: def, Trough: trough}
}

// Build is one composed chart: the figure, the state machine driving its
// dropdown, and what went wrong per timeframe.
type Build struct {
	ID      string
	BuiltAt time.Time
	Symbol  string
	Figure  *Figure
	View    *View
	Report  *Report
	Series  map[model.Timeframe]*model.TimeSeries
}

// Compose builds every timeframe's panel, gap set and Fibonacci grid. A
// timeframe that fails is reported and, when it has no bars, left out of the
// dropdown; the build only fails when no timeframe is usable.
func (c *Composer) Compose(series map[model.Timeframe]*model.TimeSeries) (*Build, error) {
	report := &Report{Symbol: c.Symbol}
	data := make(map[model.Timeframe]timeframeData)
	panels := make([]Panel, len(model.Timeframes))

	for i, tf := range model.Timeframes {
		s := series[tf]
		if s == nil {
			s = &model.TimeSeries{Symbol: c.Symbol, Timeframe: tf, Interval: tf.Interval()}
		}
		axes := AxesFor(tf)
		panels[i] = BuildPanel(s, axes)

		tr := TimeframeReport{Timeframe: tf, Bars: s.Len()}
		gaps, err := calculator.DetectGaps(s)
		if err != nil {
			tr.Err = fmt.Errorf("gap detection: %w", err)
			log.Printf("[WARN] %s %s excluded: %v", c.Symbol, tf, tr.Err)
			report.Timeframes = append(report.Timeframes, tr)
			continue
		}
		tr.Gaps = len(gaps)
		tr.Selectable = true
		data[tf] = timeframeData{series: s, gaps: gaps, axes: axes}

		tr.Swings, err = calculator.FindSwings(s.Bars)
		if err == nil {
			tr.Levels, err = calculator.FibonacciLevels(s.Bars, tr.Swings, c.Trough)
		}
		if err != nil {
			tr.Err = fmt.Errorf("fibonacci: %w", err)
			log.Printf("[WARN] %s %s has no Fibonacci grid: %v", c.Symbol, tf, err)
		}
		report.Timeframes = append(report.Timeframes, tr)
	}

	view, err := newView(data, c.Default, c.Trough)
	if err != nil {
		return nil, fmt.Errorf("compose %s: %w", c.Symbol, errors.Join(err, report.Err()))
	}
	if view.Active() != c.Default {
		log.Printf("[WARN] default timeframe %s unavailable, starting on %s", c.Default, view.Active())
	}

	fig, err := c.figure(panels, view)
	if err != nil {
		return nil, err
	}
	return &Build{
		ID:      uuid.NewString(),
		BuiltAt: time.Now(),
		Symbol:  c.Symbol,
		Figure:  fig,
		View:    view,
		Report:  report,
		Series:  series,
	}, nil
}

func (c *Composer) figure(panels []Panel, view *View) (*Figure, error) {
	data := make([]Trace, SlotCount)
	for i, p := range panels {
		tf := model.Timeframes[i]
		for g := LayerGroup(0); g < groupCount; g++ {
			data[Slot(tf, g)] = p.Layers[g]
		}
	}

	var buttons []Button
	for _, tf := range view.Available() {
		t, err := view.Payload(tf)
		if err != nil {
			return nil, fmt.Errorf("dropdown payload %s: %w", tf, err)
		}
		buttons = append(buttons, Button{
			Method: "update",
			Label:  tf.Label(),
			Args:   []any{t.Restyle(), t.Relayout()},
		})
	}

	fig := &Figure{
		Data: data,
		Layout: Layout{
			Title:        Title{Text: c.Symbol + " PRICE CHART", X: 0.5, Font: &Font{Size: 24}},
			PaperBGColor: colorBackground,
			PlotBGColor:  colorBackground,
			Font:         Font{Family: fontFamily, Color: colorFont},
			UpdateMenus: []UpdateMenu{{
				Type:       "dropdown",
				Direction:  "down",
				ShowActive: true,
				X:          1,
				Y:          1.08,
				Buttons:    buttons,
			}},
		},
	}
	applyTransition(fig, view.Current(), view.Available())
	return fig, nil
}

// CurrentFigure returns a copy of the build's figure showing the view's
// present state instead of the initial one.
func (b *Build) CurrentFigure() *Figure {
	fig := *b.Figure
	fig.Data = append([]Trace(nil), b.Figure.Data...)
	fig.Layout.UpdateMenus = append([]UpdateMenu(nil), b.Figure.Layout.UpdateMenus...)
	applyTransition(&fig, b.View.Current(), b.View.Available())
	return &fig
}

// applyTransition installs t as the figure's state: slot visibility, every
// axis, the active timeframe's grid and the dropdown's highlighted entry.
func applyTransition(fig *Figure, t Transition, available []model.Timeframe) {
	for slot := range fig.Data {
		fig.Data[slot].Visible = t.Visible[slot]
	}

	axes := make(map[string]Axis)
	for _, tf := range model.Timeframes {
		for key, a := range baseAxes(AxesFor(tf), tf == t.Active) {
			axes[key] = a
		}
	}
	for key, a := range t.Axes {
		axes[key] = a
	}
	fig.Layout.Axes = axes
	fig.Layout.Shapes = t.Shapes
	fig.Layout.Annotations = t.Annotations

	for i := range fig.Layout.UpdateMenus {
		for j, tf := range available {
			if tf == t.Active {
				fig.Layout.UpdateMenus[i].Active = j
			}
		}
	}
}
