package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"FibScope/internal/chart"
)

// HTMLOptions controls the standalone chart document.
type HTMLOptions struct {
	Title string
	// PlotlyJSURL is the script source of plotly.js. A local path makes the
	// document work offline.
	PlotlyJSURL string
	// SyncURL, when set, receives a POST of every dropdown selection as
	// SyncURL + label, keeping a server-side view in step with the browser.
	SyncURL string
}

var documentTemplate = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.PlotlyJSURL}}"></script>
<style>
html, body { margin: 0; height: 100%; background: #141d26; }
#chart { width: 100%; height: 100%; }
</style>
</head>
<body>
<div id="chart"></div>
<script>
var figure = {{.Figure}};
Plotly.newPlot("chart", figure.data, figure.layout, {responsive: true});
{{- if .SyncURL}}
document.getElementById("chart").on("plotly_buttonclicked", function (e) {
  fetch({{.SyncURL}} + encodeURIComponent(e.button.label), {method: "POST"});
});
{{- end}}
</script>
</body>
</html>
`))

// WriteHTML writes a self-contained HTML document rendering fig with Plotly.
func WriteHTML(w io.Writer, fig *chart.Figure, opts HTMLOptions) error {
	if fig == nil {
		return fmt.Errorf("write html: nil figure")
	}
	data, err := json.Marshal(fig)
	if err != nil {
		return fmt.Errorf("encode figure: %w", err)
	}
	title := opts.Title
	if title == "" {
		title = fig.Layout.Title.Text
	}
	return documentTemplate.Execute(w, struct {
		Title       string
		PlotlyJSURL string
		SyncURL     string
		Figure      template.JS
	}{
		Title:       title,
		PlotlyJSURL: opts.PlotlyJSURL,
		SyncURL:     opts.SyncURL,
		Figure:      template.JS(data),
	})
}

// SaveHTML writes the document to path, replacing any previous file only
// once the new one is complete.
func SaveHTML(path string, fig *chart.Figure, opts HTMLOptions) error {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, fig, opts); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace html: %w", err)
	}
	return nil
}
