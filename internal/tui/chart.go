package tui

import (
	"fmt"
	"strings"

	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jask/casescope/internal/aggregate"
)

// renderBars draws one horizontal bar per summary entry. Unavailable entries get
// no bar and show n/a.
func renderBars(entries []aggregate.SummaryEntry, cursor, width int) string {
	maxV := int64(0)
	for _, e := range entries {
		if e.Available && e.Value > maxV {
			maxV = e.Value
		}
	}
	if maxV <= 0 {
		maxV = 1
	}
	labelW := 0
	for _, e := range entries {
		labelW = max(labelW, len(e.Label))
	}
	barMax := max(1, width-labelW-16)
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		marker := "  "
		if i == cursor {
			marker = cursorStyle.Render("> ")
		}
		label := fmt.Sprintf("%-*s", labelW, e.Label)
		if !e.Available {
			lines = append(lines, marker+mutedStyle.Render(label+" "+strings.Repeat("·", barMax/4+1)+" n/a"))
			continue
		}
		w := int(float64(e.Value) / float64(maxV) * float64(barMax))
		if e.Value > 0 && w < 1 {
			w = 1
		}
		bar := barStyle.Render(strings.Repeat("█", w))
		lines = append(lines, marker+textStyle.Render(label)+" "+bar+" "+formatCount(e.Value))
	}
	return strings.Join(lines, "\n")
}

// renderTrend draws the series as a braille time-series line chart.
func renderTrend(series aggregate.TrendSeries, width, height int) string {
	if len(series) == 0 {
		return mutedStyle.Render("No data for trend.")
	}
	start, end := series[0].Date, series[len(series)-1].Date
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}
	maxVal := 0.0
	for _, p := range series {
		maxVal = max(maxVal, float64(p.Value))
	}
	if maxVal == 0 {
		maxVal = 1
	}

	chart := tslc.New(max(20, width), max(6, height))
	chart.SetStyle(lipgloss.NewStyle().Foreground(colorPeak))
	chart.AxisStyle = lipgloss.NewStyle().Foreground(colorAxis)
	chart.LabelStyle = lipgloss.NewStyle().Foreground(colorMuted)
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	chart.SetYRange(0, maxVal)
	chart.SetViewYRange(0, maxVal)
	for _, p := range series {
		chart.Push(tslc.TimePoint{Time: p.Date, Value: float64(p.Value)})
	}
	chart.DrawBraille()
	return chart.View()
}

// formatCount groups digits in threes.
func formatCount(n int64) string {
	return humanize.Comma(n)
}
