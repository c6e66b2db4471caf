package notifier

import (
	"fmt"
	"html"
	"strings"

	"FibScope/internal/chart"
	"FibScope/internal/recorder"
	"FibScope/internal/report"
)

// FormatBuildSummary formats a finished build into a Telegram message.
func FormatBuildSummary(b *chart.Build) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", html.EscapeString(b.Symbol), b.BuiltAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("Active: %s\n", b.View.Active().Label()))
	var labels []string
	for _, tf := range b.View.Available() {
		labels = append(labels, tf.Label())
	}
	sb.WriteString(fmt.Sprintf("Available: %s\n\n", strings.Join(labels, ", ")))
	sb.WriteString("<pre>")
	sb.WriteString(html.EscapeString(report.LevelsTable(b.Report)))
	sb.WriteString("</pre>")

	if degraded := b.Report.Degraded(); len(degraded) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(FormatDegraded(b.Report))
	}
	return sb.String()
}

// FormatDegraded lists the timeframes that failed in a build.
func FormatDegraded(r *chart.Report) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚠️ <b>%s degraded timeframes</b>\n", html.EscapeString(r.Symbol)))
	for _, tr := range r.Degraded() {
		state := "grid missing"
		if !tr.Selectable {
			state = "excluded"
		}
		sb.WriteString(fmt.Sprintf("  %s (%s): %s\n", tr.Timeframe.Label(), state, html.EscapeString(tr.Err.Error())))
	}
	return sb.String()
}

// FormatTimeframe formats one timeframe's Fibonacci grid.
func FormatTimeframe(tr chart.TimeframeReport) string {
	return "<pre>" + html.EscapeString(report.TimeframeTable(tr)) + "</pre>"
}

// FormatStatus formats the current build and recent history for display.
func FormatStatus(b *chart.Build, recent []recorder.BuildSummary) string {
	var sb strings.Builder
	sb.WriteString("📦 <b>Status</b>\n\n")
	if b == nil {
		sb.WriteString("No chart built yet\n")
	} else {
		sb.WriteString(fmt.Sprintf("Build: %s\n", b.ID))
		sb.WriteString(fmt.Sprintf("Built: %s\n", b.BuiltAt.Format("2006-01-02 15:04:05")))
		sb.WriteString(fmt.Sprintf("Active: %s\n", b.View.Active().Label()))
		sb.WriteString(fmt.Sprintf("Degraded: %d\n", len(b.Report.Degraded())))
	}
	if len(recent) > 0 {
		sb.WriteString("\nRecent builds:\n")
		for _, s := range recent {
			sb.WriteString(fmt.Sprintf("  %s %s %s (%d degraded)\n",
				s.BuiltAt.Format("01-02 15:04"), html.EscapeString(s.Symbol), s.Source, s.Degraded))
		}
	}
	return sb.String()
}
