package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"FibScope/internal/chart"
	"FibScope/internal/model"
)

// SummaryTable renders one row per timeframe: bar and gap counts, the swing
// pair and the failure, if any.
func SummaryTable(r *chart.Report) string {
	t := table.NewWriter()
	t.SetTitle(r.Symbol)
	t.AppendHeader(table.Row{"Timeframe", "Bars", "Gaps", "Swing High", "Swing Low", "Status"})
	for _, tr := range r.Timeframes {
		t.AppendRow(table.Row{
			tr.Timeframe.Label(),
			tr.Bars,
			tr.Gaps,
			swingCell(tr.Swings.Highest),
			swingCell(tr.Swings.Lowest),
			statusCell(tr),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return t.Render()
}

// LevelsTable renders the Fibonacci grid of every timeframe, one row per
// ratio and one column per timeframe.
func LevelsTable(r *chart.Report) string {
	t := table.NewWriter()
	header := table.Row{"Ratio"}
	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignRight}}
	for i, tr := range r.Timeframes {
		header = append(header, tr.Timeframe.Label())
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	t.AppendHeader(header)
	for i, ratio := range model.FibonacciRatios {
		row := table.Row{ratioLabel(ratio)}
		for _, tr := range r.Timeframes {
			row = append(row, levelCell(tr.Levels, i))
		}
		t.AppendRow(row)
	}
	t.SetColumnConfigs(configs)
	return t.Render()
}

// TimeframeTable renders a single timeframe's grid, sized for a chat message.
func TimeframeTable(tr chart.TimeframeReport) string {
	t := table.NewWriter()
	t.SetTitle(tr.Timeframe.Label())
	t.AppendHeader(table.Row{"Ratio", "Price"})
	if len(tr.Levels) == 0 {
		t.AppendRow(table.Row{"-", statusCell(tr)})
	}
	for i, lv := range tr.Levels {
		t.AppendRow(table.Row{ratioLabel(lv.Ratio), levelCell(tr.Levels, i)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
	})
	return t.Render()
}

func ratioLabel(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

func levelCell(levels []model.FibonacciLevel, i int) string {
	if i >= len(levels) {
		return "-"
	}
	return fmt.Sprintf("%.2f", levels[i].Price)
}

func swingCell(p *model.SwingPoint) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f @%d", p.Price, p.Index)
}

func statusCell(tr chart.TimeframeReport) string {
	switch {
	case tr.Err != nil:
		return tr.Err.Error()
	case !tr.Selectable:
		return "unavailable"
	default:
		return "ok"
	}
}
