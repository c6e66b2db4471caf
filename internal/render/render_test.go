package render

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FibScope/internal/calculator"
	"FibScope/internal/chart"
	"FibScope/internal/model"
)

func testSeries(t *testing.T, tf model.Timeframe, n int) *model.TimeSeries {
	t.Helper()
	start := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	s := &model.TimeSeries{Symbol: "AAPL", Timeframe: tf, Interval: tf.Interval()}
	for i := 0; i < n; i++ {
		p := 100 + 10*math.Sin(float64(i)/4)
		s.Bars = append(s.Bars, model.Bar{
			Time:   start.Add(time.Duration(i) * tf.Interval()),
			Open:   p - 0.5,
			High:   p + 1,
			Low:    p - 1,
			Close:  p + 0.5,
			Volume: 1000 + float64(i),
		})
	}
	require.NoError(t, calculator.Enrich(s, 3, 5))
	return s
}

func testBuild(t *testing.T) *chart.Build {
	t.Helper()
	series := make(map[model.Timeframe]*model.TimeSeries)
	for _, tf := range model.Timeframes {
		series[tf] = testSeries(t, tf, 40)
	}
	b, err := chart.NewComposer("AAPL", model.TF1h, calculator.TroughFromHigh).Compose(series)
	require.NoError(t, err)
	return b
}

var figurePattern = regexp.MustCompile(`(?s)var figure = (.*?);\nPlotly\.newPlot`)

func TestWriteHTML(t *testing.T) {
	b := testBuild(t)
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, b.Figure, HTMLOptions{PlotlyJSURL: "plotly.min.js"}))

	doc := buf.String()
	assert.Contains(t, doc, `<title>AAPL PRICE CHART</title>`)
	assert.Contains(t, doc, `<script src="plotly.min.js"></script>`)
	assert.NotContains(t, doc, "plotly_buttonclicked")

	m := figurePattern.FindStringSubmatch(doc)
	require.Len(t, m, 2, "figure literal not found")
	var fig struct {
		Data   []json.RawMessage `json:"data"`
		Layout map[string]any    `json:"layout"`
	}
	require.NoError(t, json.Unmarshal([]byte(m[1]), &fig))
	assert.Len(t, fig.Data, chart.SlotCount)
	assert.Contains(t, fig.Layout, "xaxis15")
	assert.Contains(t, fig.Layout, "updatemenus")
}

func TestWriteHTML_Sync(t *testing.T) {
	b := testBuild(t)
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, b.Figure, HTMLOptions{Title: "custom", SyncURL: "/api/view/"}))
	assert.Contains(t, buf.String(), "<title>custom</title>")
	assert.Contains(t, buf.String(), "plotly_buttonclicked")
	assert.Regexp(t, `"\\?/api\\?/view\\?/"`, buf.String())
}

func TestWriteHTML_NilFigure(t *testing.T) {
	assert.Error(t, WriteHTML(&bytes.Buffer{}, nil, HTMLOptions{}))
}

func TestSaveHTML(t *testing.T) {
	b := testBuild(t)
	path := filepath.Join(t.TempDir(), "out", "candlestick.html")
	require.NoError(t, SaveHTML(path, b.Figure, HTMLOptions{PlotlyJSURL: "plotly.min.js"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<!DOCTYPE html>"))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteEcharts(t *testing.T) {
	s := testSeries(t, model.TF15m, 30)
	sw, err := calculator.FindSwings(s.Bars)
	require.NoError(t, err)
	levels, err := calculator.FibonacciLevels(s.Bars, sw, calculator.TroughFromHigh)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteEcharts(&buf, s, levels))
	out := buf.String()
	assert.Contains(t, out, "candlestick")
	assert.Contains(t, out, "SMA_3")
	assert.Contains(t, out, "SMA_5")
	assert.Contains(t, out, "volume")
	assert.Contains(t, out, "AAPL 15 Min")
}

func TestWriteEcharts_Empty(t *testing.T) {
	s := &model.TimeSeries{Symbol: "AAPL", Timeframe: model.TF1d, Interval: model.TF1d.Interval()}
	err := WriteEcharts(&bytes.Buffer{}, s, nil)
	assert.ErrorIs(t, err, model.ErrEmptySeries)
}
