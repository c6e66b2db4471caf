package chart

import (
	"fmt"
	"time"

	"FibScope/internal/model"
)

// Fixed palette and template of the dark chart.
const (
	colorBackground = "#141d26"
	colorFont       = "rgb(236,242,253)"
	colorAxis       = "rgb(117,146,194)"
	colorTick       = "rgb(35,36,43)"
	colorVolume     = "rgb(73,76,100)"
	colorIncreasing = "rgb(12,189,113)"
	colorDecreasing = "rgb(249,74,74)"
	colorFastMA     = "rgb(95,104,192)"
	colorSlowMA     = "rgb(71,77,125)"
	colorFibonacci  = "yellow"
	fontFamily      = "Monospace"

	tickLen = 12
)

// timeLayout formats x values and range-break values identically.
const timeLayout = "2006-01-02 15:04:05"

var (
	domainProfileX = []float64{0, 0.2}
	domainPriceX   = []float64{0.23, 1}
	domainTopY     = []float64{0.246, 1}
	domainVolumeX  = []float64{0, 1}
	domainVolumeY  = []float64{0, 0.216}
)

// AxisSet holds the axis numbers of one timeframe's three subplots. Each
// number n names a paired x/y axis ("x<n>"/"y<n>").
type AxisSet struct {
	Profile int
	Price   int
	Volume  int
}

var axisTemplate = map[model.Timeframe]AxisSet{
	model.TF1h:  {Profile: 1, Price: 2, Volume: 3},
	model.TF1m:  {Profile: 8, Price: 4, Volume: 12},
	model.TF5m:  {Profile: 9, Price: 5, Volume: 13},
	model.TF15m: {Profile: 10, Price: 6, Volume: 14},
	model.TF1d:  {Profile: 11, Price: 7, Volume: 15},
}

// AxesFor returns the axis numbers assigned to tf.
func AxesFor(tf model.Timeframe) AxisSet { return axisTemplate[tf] }

func xRef(n int) string { return axisRef("x", n) }
func yRef(n int) string { return axisRef("y", n) }

func axisRef(prefix string, n int) string {
	if n == 1 {
		return prefix
	}
	return fmt.Sprintf("%s%d", prefix, n)
}

func xKey(n int) string { return "xaxis" + axisSuffix(n) }
func yKey(n int) string { return "yaxis" + axisSuffix(n) }

func axisSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return fmt.Sprint(n)
}

func formatTime(t time.Time) string { return t.Format(timeLayout) }
