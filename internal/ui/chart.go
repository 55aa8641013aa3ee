package ui

import (
	"math"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/onkanat/serialscope/internal/series"
)

// renderChart draws one viewport window as a braille line chart, one dataset
// per channel, with a ruler of anchor timestamps underneath. The chart is
// rebuilt from scratch every render; the window memo upstream makes repeated
// reads of an unchanged viewport cheap.
func renderChart(win *series.Window, list []series.Series, width, height int) string {
	if width < 10 || height < 4 {
		return ""
	}
	chartHeight := height - 1 // last line is the anchor ruler

	minT, maxT, ok := timeSpan(win)
	if !ok {
		empty := styleWaiting.Render("no samples in view")
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, empty)
	}

	chart := timeserieslinechart.New(
		width, chartHeight,
		timeserieslinechart.WithTimeRange(minT, maxT),
		timeserieslinechart.WithYRange(win.YMin, win.YMax),
		timeserieslinechart.WithAxesStyles(styleAxis, styleAxisLabel),
		timeserieslinechart.WithXYSteps(0, 3),
	)

	for i, ch := range win.Channels {
		name := list[i].Name
		chart.SetDataSetStyle(name, lipgloss.NewStyle().Foreground(lipgloss.Color(list[i].Color)))
		for j, v := range ch {
			if win.Times[j].IsZero() || math.IsNaN(v) || math.IsInf(v, 0) {
				continue // padding or missing sample: a gap, not a point
			}
			chart.PushDataSet(name, timeserieslinechart.TimePoint{
				Time:  win.Times[j],
				Value: v,
			})
		}
	}

	chart.SetViewTimeRange(minT, maxT)
	chart.SetViewYRange(win.YMin, win.YMax)
	chart.DrawBrailleAll()

	return chart.View() + "\n" + renderAnchorRuler(win, width)
}

// timeSpan returns the receipt-time extent of the window's real samples.
// Padded slots carry the zero time and do not count.
func timeSpan(win *series.Window) (minT, maxT time.Time, ok bool) {
	for _, t := range win.Times {
		if t.IsZero() {
			continue
		}
		if !ok {
			minT, maxT = t, t
			ok = true
			continue
		}
		if t.Before(minT) {
			minT = t
		}
		if t.After(maxT) {
			maxT = t
		}
	}
	if ok && !minT.Before(maxT) {
		// A single sample still needs a non-degenerate x-range.
		maxT = minT.Add(time.Second)
	}
	return minT, maxT, ok
}

// renderAnchorRuler lays the window's anchor timestamps on one line, each at
// the column proportional to its position in the visible span.
func renderAnchorRuler(win *series.Window, width int) string {
	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}
	span := win.End - win.Start
	for _, a := range win.Anchors {
		label := a.Time.Format("15:04:05")
		col := 0
		if span > 0 {
			col = (a.Total - win.Start) * (width - 1) / span
		}
		if col+len(label) > width {
			col = width - len(label)
		}
		if col < 0 {
			col = 0
		}
		// Skip a label that would overprint an earlier one.
		free := true
		for i := range label {
			if line[col+i] != ' ' {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		for i, r := range label {
			line[col+i] = r
		}
	}
	return styleAnchor.Render(strings.TrimRight(string(line), " "))
}
