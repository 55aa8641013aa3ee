// Package ui renders the engine viewport as a live terminal chart. The root
// model owns the only goroutine that touches the Store: ingestion rows and
// momentum frames both arrive as bubbletea messages.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/onkanat/serialscope/internal/console"
	"github.com/onkanat/serialscope/internal/ingest"
	"github.com/onkanat/serialscope/internal/series"
)

// RowMsg delivers one ingested row to the UI.
type RowMsg ingest.Row

// frameMsg is a momentum animation frame from tea.Tick.
type frameMsg time.Time

// IntervalSetter is implemented by the collector to allow dynamic interval
// changes.
type IntervalSetter interface {
	SetInterval(d time.Duration)
}

// Preset poll interval steps (sorted fastest to slowest).
var intervalPresets = []time.Duration{
	10 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	250 * time.Millisecond,
	500 * time.Millisecond,
	1 * time.Second,
	2 * time.Second,
	5 * time.Second,
}

const frameInterval = 16 * time.Millisecond

// frameScheduler bridges the engine's frame requests to tea.Tick. The engine
// asks during Update handling; the model drains the flag into a command
// before returning.
type frameScheduler struct {
	pending bool
}

func (f *frameScheduler) RequestFrame() { f.pending = true }

// SeriesOverride renames or recolors one channel by position.
type SeriesOverride struct {
	Name  string
	Color string
}

// Model is the root bubbletea model.
type Model struct {
	width  int
	height int

	store   *series.Store
	logRing *console.Log
	sched   *frameScheduler

	sourceName string
	overrides  []SeriesOverride

	rows      <-chan ingest.Row
	collector IntervalSetter

	showConsole bool
	showHelp    bool

	// Mouse drag state.
	dragging  bool
	dragX     int
	dragAt    time.Time
	dragMoved bool
	tracker   series.VelocityTracker

	// Poll interval.
	intervalIdx int

	// Configured window size, applied once enough samples are retained to
	// survive the engine's size clamp.
	initialWindow int

	gotRow bool
	spin   spinner.Model
}

// New creates the root model. The store must not be touched by any other
// goroutine once the program starts.
func New(store *series.Store, logRing *console.Log, rows <-chan ingest.Row, sourceName string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPurple)

	sched := &frameScheduler{}
	store.SetFrameScheduler(sched)

	return Model{
		store:       store,
		logRing:     logRing,
		sched:       sched,
		sourceName:  sourceName,
		rows:        rows,
		intervalIdx: 4, // 500ms
		spin:        sp,
	}
}

// SetCollector wires the collector for interval preset changes.
func (m *Model) SetCollector(c IntervalSetter) {
	m.collector = c
}

// SetSeriesOverrides applies configured channel names and colors whenever the
// channel set is (re)established.
func (m *Model) SetSeriesOverrides(ov []SeriesOverride) {
	m.overrides = ov
}

// SetInitialWindow records the configured window size. The engine clamps
// sizes to retained history, so it is applied after enough rows arrive.
func (m *Model) SetInitialWindow(n int) {
	m.initialWindow = n
}

// SetInitialInterval aligns the preset index with the configured interval.
func (m *Model) SetInitialInterval(d time.Duration) {
	for i, p := range intervalPresets {
		if p >= d {
			m.intervalIdx = i
			return
		}
	}
	m.intervalIdx = len(intervalPresets) - 1
}

// WaitForRow returns a command that waits for the next ingested row.
// A closed channel quits the program.
func WaitForRow(ch <-chan ingest.Row) tea.Cmd {
	return func() tea.Msg {
		row, ok := <-ch
		if !ok {
			return tea.Quit()
		}
		return RowMsg(row)
	}
}

func scheduleFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// drainFrame converts a pending engine frame request into a tick command.
func (m *Model) drainFrame() tea.Cmd {
	if !m.sched.pending {
		return nil
	}
	m.sched.pending = false
	return scheduleFrame()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(WaitForRow(m.rows), m.spin.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case RowMsg:
		m.applyRow(ingest.Row(msg))
		return m, tea.Batch(WaitForRow(m.rows), m.drainFrame())

	case frameMsg:
		if m.store.MomentumActive() {
			m.store.StepMomentum()
		}
		return m, m.drainFrame()

	case spinner.TickMsg:
		if m.gotRow {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m *Model) applyRow(row ingest.Row) {
	m.gotRow = true
	if row.Names != nil {
		m.store.SetSeries(row.Names)
		m.applyOverrides()
	} else {
		m.store.Append(row.Values)
	}
	if row.Raw != "" {
		m.logRing.Append(row.Raw)
	}

	if m.initialWindow > 0 {
		want := m.initialWindow
		if c := m.store.Capacity(); c > 0 && want > c {
			want = c
		}
		if m.store.Length() >= want {
			m.store.SetSize(m.initialWindow)
			m.initialWindow = 0
		}
	}
}

// applyOverrides renames/recolors channels after a header reset.
func (m *Model) applyOverrides() {
	for id, ov := range m.overrides {
		if ov.Name != "" {
			m.store.RenameSeries(id, ov.Name)
		}
		if ov.Color != "" {
			m.store.RecolorSeries(id, ov.Color)
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay: ? opens, any key closes.
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	step := float64(m.store.ViewSize()) / 10
	if step < 1 {
		step = 1
	}

	switch matchKey(msg) {
	case keyQuit:
		return m, tea.Quit
	case keyHelp:
		m.showHelp = true
	case keyConsole:
		m.showConsole = !m.showConsole
	case keyFreeze:
		m.store.StopMomentum()
		m.store.SetFrozen(!m.store.Frozen())
	case keyPanLeft:
		m.panBy(-step)
	case keyPanRight:
		m.panBy(step)
	case keyPageLeft:
		m.panBy(-float64(m.store.ViewSize()))
	case keyPageRight:
		m.panBy(float64(m.store.ViewSize()))
	case keyHome:
		m.panBy(-1e18)
	case keyEnd:
		m.panBy(1e18)
	case keyZoomIn:
		m.store.ZoomByFactor(1.25)
	case keyZoomOut:
		m.store.ZoomByFactor(0.8)
	case keyIntervalUp:
		m.changeInterval(-1)
	case keyIntervalDown:
		m.changeInterval(1)
	}

	return m, m.drainFrame()
}

// panBy moves the cursor, freezing first so the next append does not snap
// the view back to live.
func (m *Model) panBy(delta float64) {
	m.store.StopMomentum()
	if !m.store.Frozen() {
		m.store.SetFrozen(true)
	}
	m.store.AdjustCursor(delta)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.showConsole {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.store.HandleWheel(-120)
		case tea.MouseButtonWheelDown:
			m.store.HandleWheel(120)
		case tea.MouseButtonLeft:
			m.dragging = true
			m.dragMoved = false
			m.dragX = msg.X
			m.dragAt = time.Now()
			m.tracker.Reset()
			m.store.StopMomentum()
		}

	case tea.MouseActionMotion:
		if m.dragging {
			m.dragStep(msg.X)
		}

	case tea.MouseActionRelease:
		if m.dragging {
			m.dragging = false
			if m.dragMoved {
				m.store.StartMomentum(m.tracker.Velocity())
			}
		}
	}

	return m, m.drainFrame()
}

// dragStep pans by the pointer movement, converting cells to samples at the
// current window density, and feeds the velocity tracker.
func (m *Model) dragStep(x int) {
	dx := x - m.dragX
	if dx == 0 {
		return
	}
	now := time.Now()
	dt := float64(now.Sub(m.dragAt).Microseconds()) / 1000
	m.dragX = x
	m.dragAt = now
	m.dragMoved = true

	perCell := float64(m.store.ViewSize()) / float64(maxInt(1, m.width))
	delta := -float64(dx) * perCell // dragging right reveals older samples
	m.panBy(delta)
	if dt > 0 {
		m.tracker.Observe(delta, dt)
	}
}

func (m *Model) changeInterval(delta int) {
	newIdx := m.intervalIdx + delta
	if newIdx < 0 {
		newIdx = 0
	}
	if newIdx >= len(intervalPresets) {
		newIdx = len(intervalPresets) - 1
	}
	if newIdx == m.intervalIdx {
		return
	}
	m.intervalIdx = newIdx
	if m.collector != nil {
		m.collector.SetInterval(intervalPresets[m.intervalIdx])
	}
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	header := m.renderHeader()
	headerHeight := strings.Count(header, "\n") + 1
	footer := m.renderFooter()
	footerHeight := 1

	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch {
	case !m.gotRow:
		content = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center,
			m.spin.View()+styleWaiting.Render(" waiting for first sample from "+m.sourceName))
	case m.showConsole:
		content = m.renderConsole(contentHeight)
	default:
		win := m.store.ViewportData()
		content = renderChart(win, m.store.SeriesList(), m.width, contentHeight)
	}

	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}

	result := lipgloss.JoinVertical(lipgloss.Left, header, content, footer)

	if m.showHelp {
		result = renderHelp(m.width, m.height)
	}

	return result
}

func (m Model) renderHeader() string {
	status := styleLive.Render("LIVE")
	if m.store.Frozen() {
		status = styleFrozen.Render(" FROZEN ")
	}
	if m.store.MomentumActive() {
		status += " " + styleMomentum.Render("~")
	}

	yMin, yMax := m.store.Range()
	parts := []string{
		styleTitle.Render("serialscope"),
		styleHeaderLabel.Render("src ") + styleHeaderValue.Render(m.sourceName),
		status,
		styleHeaderLabel.Render("samples ") + styleHeaderValue.Render(
			fmt.Sprintf("%d/%d", m.store.Length(), m.store.Total())),
		styleHeaderLabel.Render("window ") + styleHeaderValue.Render(
			fmt.Sprintf("%d", m.store.ViewSize())),
		styleHeaderLabel.Render("y ") + styleHeaderValue.Render(
			fmt.Sprintf("[%.3g, %.3g]", yMin, yMax)),
	}

	legend := m.renderLegend()
	line := "  " + strings.Join(parts, "  ")
	if legend == "" {
		return line
	}
	return line + "\n  " + legend
}

func (m Model) renderLegend() string {
	list := m.store.SeriesList()
	if len(list) == 0 {
		return ""
	}
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render("● " + s.Name)
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderConsole(height int) string {
	lines := m.logRing.Tail(height)
	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) > m.width {
			l = l[:m.width]
		}
		out[i] = styleConsoleLine.Render(l)
	}
	return strings.Join(out, "\n")
}

func (m Model) renderFooter() string {
	parts := []string{
		styleFooterKey.Render("space") + styleFooter.Render(" freeze"),
		styleFooterKey.Render("+/-") + styleFooter.Render(" zoom"),
		styleFooterKey.Render("c") + styleFooter.Render(" console"),
		styleFooterKey.Render("?") + styleFooter.Render(" help"),
		styleFooterKey.Render("q") + styleFooter.Render(" quit"),
		styleFooterKey.Render("[/]") + styleFooter.Render(" ") +
			styleHeaderValue.Render(formatInterval(intervalPresets[m.intervalIdx])),
	}
	return "  " + strings.Join(parts, "  ")
}

func formatInterval(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	s := float64(ms) / 1000.0
	if s == float64(int(s)) {
		return fmt.Sprintf("%ds", int(s))
	}
	return fmt.Sprintf("%.1fs", s)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
