package chart

import (
	"encoding/json"
	"fmt"
)

// Figure is the declarative chart description handed to the renderer. Its
// JSON form follows the Plotly figure schema.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one renderable layer. Only the fields relevant to its Type are set.
type Trace struct {
	Type        string     `json:"type"`
	Name        string     `json:"name,omitempty"`
	X           any        `json:"x,omitempty"`
	Y           any        `json:"y,omitempty"`
	Open        []float64  `json:"open,omitempty"`
	High        []float64  `json:"high,omitempty"`
	Low         []float64  `json:"low,omitempty"`
	Close       []float64  `json:"close,omitempty"`
	Visible     bool       `json:"visible"`
	ShowLegend  bool       `json:"showlegend"`
	XAxis       string     `json:"xaxis,omitempty"`
	YAxis       string     `json:"yaxis,omitempty"`
	Orientation string     `json:"orientation,omitempty"`
	Opacity     float64    `json:"opacity,omitempty"`
	Width       float64    `json:"width,omitempty"`
	Fill        string     `json:"fill,omitempty"`
	FillColor   string     `json:"fillcolor,omitempty"`
	Marker      *Marker    `json:"marker,omitempty"`
	Line        *Line      `json:"line,omitempty"`
	Increasing  *Direction `json:"increasing,omitempty"`
	Decreasing  *Direction `json:"decreasing,omitempty"`
}

type Marker struct {
	Color string `json:"color,omitempty"`
	Line  *Line  `json:"line,omitempty"`
}

type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
}

// Direction styles the increasing or decreasing candles.
type Direction struct {
	Line Line `json:"line"`
}

type Font struct {
	Family string `json:"family,omitempty"`
	Color  string `json:"color,omitempty"`
	Size   int    `json:"size,omitempty"`
}

type Title struct {
	Text string  `json:"text"`
	X    float64 `json:"x,omitempty"`
	Font *Font   `json:"font,omitempty"`
}

type RangeSlider struct {
	Visible bool `json:"visible"`
}

// RangeBreak collapses the listed timestamps, each dvalue milliseconds wide.
type RangeBreak struct {
	Values []string `json:"values"`
	DValue int64    `json:"dvalue"`
}

// Axis is one x or y axis. Pointer booleans distinguish "false" from "unset".
type Axis struct {
	Type           string       `json:"type,omitempty"`
	Title          *Title       `json:"title,omitempty"`
	Visible        *bool        `json:"visible,omitempty"`
	Domain         []float64    `json:"domain,omitempty"`
	Anchor         string       `json:"anchor,omitempty"`
	Side           string       `json:"side,omitempty"`
	Color          string       `json:"color,omitempty"`
	Ticks          string       `json:"ticks,omitempty"`
	TickLen        int          `json:"ticklen,omitempty"`
	TickColor      string       `json:"tickcolor,omitempty"`
	ShowTickLabels *bool        `json:"showticklabels,omitempty"`
	ShowGrid       *bool        `json:"showgrid,omitempty"`
	ZeroLine       *bool        `json:"zeroline,omitempty"`
	RangeSlider    *RangeSlider `json:"rangeslider,omitempty"`
	RangeBreaks    []RangeBreak `json:"rangebreaks,omitempty"`
}

// Shape is a layout line; the Fibonacci grid is made of these.
type Shape struct {
	Type string  `json:"type"`
	XRef string  `json:"xref"`
	YRef string  `json:"yref"`
	X0   float64 `json:"x0"`
	X1   float64 `json:"x1"`
	Y0   float64 `json:"y0"`
	Y1   float64 `json:"y1"`
	Line Line    `json:"line"`
}

type Annotation struct {
	Text      string  `json:"text"`
	ShowArrow bool    `json:"showarrow"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	XAnchor   string  `json:"xanchor,omitempty"`
	YAnchor   string  `json:"yanchor,omitempty"`
}

// Button is one dropdown option. Args holds the restyle and relayout payloads.
type Button struct {
	Method string `json:"method"`
	Label  string `json:"label"`
	Args   []any  `json:"args"`
}

type UpdateMenu struct {
	Type       string   `json:"type"`
	Direction  string   `json:"direction"`
	Active     int      `json:"active"`
	ShowActive bool     `json:"showactive"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Buttons    []Button `json:"buttons"`
}

// Layout is the figure layout. Axes are keyed by their layout name
// ("xaxis", "yaxis4", ...) and flattened into the JSON object.
type Layout struct {
	Title        Title           `json:"title"`
	PaperBGColor string          `json:"paper_bgcolor,omitempty"`
	PlotBGColor  string          `json:"plot_bgcolor,omitempty"`
	Font         Font            `json:"font"`
	UpdateMenus  []UpdateMenu    `json:"updatemenus,omitempty"`
	Shapes       []Shape         `json:"shapes"`
	Annotations  []Annotation    `json:"annotations"`
	Axes         map[string]Axis `json:"-"`
}

func (l Layout) MarshalJSON() ([]byte, error) {
	type plain Layout
	base, err := json.Marshal(plain(l))
	if err != nil {
		return nil, err
	}
	if len(l.Axes) == 0 {
		return base, nil
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for key, axis := range l.Axes {
		if _, clash := fields[key]; clash {
			return nil, fmt.Errorf("axis key %q collides with a layout field", key)
		}
		raw, err := json.Marshal(axis)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", key, err)
		}
		fields[key] = raw
	}
	return json.Marshal(fields)
}

func boolPtr(b bool) *bool { return &b }
