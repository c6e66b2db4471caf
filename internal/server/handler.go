package server

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"FibScope/internal/chart"
	"FibScope/internal/model"
	"FibScope/internal/render"
)

// BuildSource provides the chart build served by the handlers.
type BuildSource interface {
	Current() *chart.Build
	// Select moves the current build's view and persists the selection.
	Select(label string) (chart.Transition, error)
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ViewResponse describes the state machine of the current build.
type ViewResponse struct {
	BuildID   string            `json:"build_id"`
	Active    model.Timeframe   `json:"active"`
	Label     string            `json:"label"`
	Available []model.Timeframe `json:"available"`
	// Visible lists the slots shown in the active state.
	Visible []int `json:"visible"`
}

// ChartHandler serves the current build.
type ChartHandler struct {
	src  BuildSource
	html render.HTMLOptions
}

// NewChartHandler creates a handler rendering HTML documents with opts.
func NewChartHandler(src BuildSource, opts render.HTMLOptions) *ChartHandler {
	return &ChartHandler{src: src, html: opts}
}

// build returns the current build, or writes 503 and returns nil.
func (h *ChartHandler) build(c *gin.Context) *chart.Build {
	b := h.src.Current()
	if b == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "chart not built yet"})
	}
	return b
}

// Index renders the chart document in its current state.
//
// GET /
func (h *ChartHandler) Index(c *gin.Context) {
	b := h.build(c)
	if b == nil {
		return
	}
	opts := h.html
	opts.SyncURL = "/api/view/"
	var buf bytes.Buffer
	if err := render.WriteHTML(&buf, b.CurrentFigure(), opts); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Figure returns the figure JSON.
//
// GET /api/chart
func (h *ChartHandler) Figure(c *gin.Context) {
	b := h.build(c)
	if b == nil {
		return
	}
	c.JSON(http.StatusOK, b.CurrentFigure())
}

// Report returns every timeframe's outcome.
//
// GET /api/report
func (h *ChartHandler) Report(c *gin.Context) {
	b := h.build(c)
	if b == nil {
		return
	}
	c.JSON(http.StatusOK, b.Report)
}

// View returns the active timeframe.
//
// GET /api/view
func (h *ChartHandler) View(c *gin.Context) {
	b := h.build(c)
	if b == nil {
		return
	}
	active := b.View.Active()
	c.JSON(http.StatusOK, ViewResponse{
		BuildID:   b.ID,
		Active:    active,
		Label:     active.Label(),
		Available: b.View.Available(),
		Visible:   b.View.VisibleSlots(),
	})
}

// Select moves the state machine to a timeframe and returns the transition.
//
// POST /api/view/:timeframe
func (h *ChartHandler) Select(c *gin.Context) {
	b := h.build(c)
	if b == nil {
		return
	}
	t, err := h.src.Select(c.Param("timeframe"))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}

// Levels returns the report of one timeframe, including its Fibonacci grid.
//
// GET /api/levels/:timeframe
func (h *ChartHandler) Levels(c *gin.Context) {
	b := h.build(c)
	if b == nil {
		return
	}
	tf, err := model.ParseTimeframe(c.Param("timeframe"))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	tr, ok := b.Report.Lookup(tf)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no report for " + string(tf)})
		return
	}
	c.JSON(http.StatusOK, tr)
}

// Echarts renders one timeframe with the alternate renderer.
//
// GET /echarts/:timeframe
func (h *ChartHandler) Echarts(c *gin.Context) {
	b := h.build(c)
	if b == nil {
		return
	}
	tf, err := model.ParseTimeframe(c.Param("timeframe"))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	series := b.Series[tf]
	if series.Len() == 0 {
		c.JSON(http.StatusConflict, ErrorResponse{Error: model.ErrTimeframeUnavailable.Error() + ": " + string(tf)})
		return
	}
	tr, _ := b.Report.Lookup(tf)
	var buf bytes.Buffer
	if err := render.WriteEcharts(&buf, series, tr.Levels); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Health handles the /healthz endpoint and prevents caching.
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrUnknownTimeframe):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrTimeframeUnavailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
