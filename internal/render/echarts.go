package render

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"FibScope/internal/model"
)

const (
	echartsBackground = "#141d26"
	echartsText       = "#cccccc"
	echartsUp         = "#26a69a"
	echartsDown       = "#ef5350"
	echartsFib        = "yellow"
	echartsFast       = "#f5a623"
	echartsSlow       = "#4a90e2"
	echartsVolume     = "#506784"
)

// Echarts builds an alternate rendering of one timeframe: candlesticks with
// both moving averages and the Fibonacci grid as mark lines, and a volume
// chart below.
func Echarts(series *model.TimeSeries, levels []model.FibonacciLevel) *components.Page {
	title := fmt.Sprintf("%s %s", series.Symbol, series.Timeframe.Label())
	n := series.Len()
	x := make([]string, n)
	candles := make([]opts.KlineData, n)
	volume := make([]opts.BarData, n)
	for i, b := range series.Bars {
		x[i] = b.Time.UTC().Format("2006-01-02 15:04:05")
		// echarts orders candle values open, close, low, high.
		candles[i] = opts.KlineData{Value: [4]float64{b.Open, b.Close, b.Low, b.High}}
		volume[i] = opts.BarData{Value: b.Volume}
	}

	marks := make([]opts.MarkLineNameYAxisItem, len(levels))
	for i, lv := range levels {
		marks[i] = opts.MarkLineNameYAxisItem{Name: fmt.Sprintf("%.1f%%", lv.Ratio*100), YAxis: lv.Price}
	}

	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       title,
			Width:           "100%",
			Height:          "640px",
			BackgroundColor: echartsBackground,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      title,
			TitleStyle: &opts.TextStyle{Color: echartsText},
		}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", Start: 50, End: 100}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 50, End: 100}),
	)
	kline.SetXAxis(x).AddSeries("candlestick", candles,
		charts.WithItemStyleOpts(opts.ItemStyle{
			Color:        echartsUp,
			Color0:       echartsDown,
			BorderColor:  echartsUp,
			BorderColor0: echartsDown,
		}),
		charts.WithMarkLineNameYAxisItemOpts(marks...),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol:    []string{"none", "none"},
			LineStyle: &opts.LineStyle{Color: echartsFib, Type: "dashed", Width: 1},
		}),
	)

	ind := series.Indicators
	kline.Overlap(
		maLine(x, ind.FastMA, fmt.Sprintf("SMA_%d", ind.FastLength), echartsFast),
		maLine(x, ind.SlowMA, fmt.Sprintf("SMA_%d", ind.SlowLength), echartsSlow),
	)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:           "100%",
			Height:          "200px",
			BackgroundColor: echartsBackground,
		}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", Start: 50, End: 100}),
	)
	bar.SetXAxis(x).AddSeries("volume", volume,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: echartsVolume}),
	)

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(kline, bar)
	return page
}

// WriteEcharts renders Echarts(series, levels) to w.
func WriteEcharts(w io.Writer, series *model.TimeSeries, levels []model.FibonacciLevel) error {
	if series.Len() == 0 {
		return fmt.Errorf("echarts %s: %w", series.Timeframe, model.ErrEmptySeries)
	}
	if err := Echarts(series, levels).Render(w); err != nil {
		return fmt.Errorf("echarts %s: %w", series.Timeframe, err)
	}
	return nil
}

func maLine(x []string, values []float64, name, color string) *charts.Line {
	data := make([]opts.LineData, len(x))
	for i := range data {
		if i >= len(values) || math.IsNaN(values[i]) {
			data[i] = opts.LineData{Value: "-"}
			continue
		}
		data[i] = opts.LineData{Value: values[i]}
	}
	line := charts.NewLine()
	line.SetXAxis(x).AddSeries(name, data,
		charts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: 1}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	return line
}
