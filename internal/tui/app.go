// Package tui is the terminal renderer of the narrative. App receives view-models
// from the scene controller and turns key presses into drill and back events.
package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/casescope/internal/aggregate"
	"github.com/jask/casescope/internal/config"
	"github.com/jask/casescope/internal/dataset"
	"github.com/jask/casescope/internal/scene"
)

// Navigator is the part of the scene controller the UI drives.
type Navigator interface {
	Dispatch(scene.Event) error
	Regions() []string
}

// App ties the controller to the terminal.
type App struct {
	nav       Navigator
	ui        config.UIConfig
	keys      *KeyRegistry
	log       *slog.Logger
	view      scene.ViewModel
	cursor    int
	width     int
	height    int
	status    string
	statusErr bool
	searching bool
	search    textinput.Model
	quitting  bool
}

func New(ui config.UIConfig, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "region"
	in.CharLimit = 64
	return &App{
		ui:     ui,
		keys:   NewKeyRegistry(DefaultKeyBindings()),
		log:    log,
		width:  100,
		height: 32,
		status: "Ready",
		search: in,
	}
}

// Bind attaches the controller events are sent to.
func (a *App) Bind(nav Navigator) { a.nav = nav }

// Render implements scene.Renderer.
func (a *App) Render(vm scene.ViewModel) {
	prev := a.view
	a.view = vm
	a.cursor = 0
	a.statusErr = false
	a.status = statusFor(vm)
	// coming back to the overview keeps the row of the region just left
	if ov, ok := vm.(scene.OverviewView); ok {
		if rd, ok := prev.(scene.RegionDetailView); ok {
			for i, r := range ov.Regions {
				if r == rd.Region {
					a.cursor = i
				}
			}
		}
	}
	if _, ok := vm.(scene.RegionDetailView); ok {
		if td, ok := prev.(scene.TrendDetailView); ok {
			for i, m := range scene.Metrics {
				if m == td.Metric {
					a.cursor = i
				}
			}
		}
	}
}

// ReportError implements scene.Renderer. The current scene stays on screen.
func (a *App) ReportError(err error) {
	if err == nil {
		return
	}
	a.status = err.Error()
	a.statusErr = true
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil
	case tea.KeyMsg:
		if a.searching {
			return a.updateSearch(msg)
		}
		return a.updateScene(msg)
	}
	return a, nil
}

func (a *App) scope() string {
	if a.searching {
		return scopeSearch
	}
	if a.view == nil {
		return scene.Overview.String()
	}
	return a.view.Scene().String()
}

func (a *App) updateScene(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, ok := a.keys.Action(msg, a.scope())
	if !ok {
		return a, nil
	}
	switch action {
	case actionQuit:
		a.quitting = true
		return a, tea.Quit
	case actionUp:
		if a.cursor > 0 {
			a.cursor--
		}
	case actionDown:
		if a.cursor < a.rowCount()-1 {
			a.cursor++
		}
	case actionSelect:
		a.drillIn()
	case actionBack:
		if a.view != nil && a.view.CanGoBack() {
			a.dispatch(scene.Back{})
		}
	case actionSearch:
		a.searching = true
		a.search.SetValue("")
		return a, a.search.Focus()
	}
	return a, nil
}

func (a *App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, _ := a.keys.Action(msg, scopeSearch)
	switch action {
	case actionQuit:
		a.quitting = true
		return a, tea.Quit
	case actionCancel:
		a.closeSearch()
		return a, nil
	case actionSelect:
		query := a.search.Value()
		a.closeSearch()
		if a.nav == nil {
			return a, nil
		}
		region, ok := dataset.ClosestRegion(query, a.nav.Regions(), a.ui.SearchThreshold)
		if !ok {
			a.log.Debug("search_miss", "query", query)
			a.ReportError(fmt.Errorf("no region matches %q", query))
			return a, nil
		}
		a.dispatch(scene.SelectRegion{Region: region})
		return a, nil
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	return a, cmd
}

func (a *App) closeSearch() {
	a.searching = false
	a.search.Blur()
}

func (a *App) drillIn() {
	switch vm := a.view.(type) {
	case scene.OverviewView:
		if a.cursor < len(vm.Regions) {
			a.dispatch(scene.SelectRegion{Region: vm.Regions[a.cursor]})
		}
	case scene.RegionDetailView:
		if a.cursor >= len(vm.Summary.Entries) {
			return
		}
		m := scene.MetricID(vm.Summary.Entries[a.cursor].Label)
		if !m.Drillable() {
			a.status = fmt.Sprintf("%s has no time series", m)
			a.statusErr = false
			return
		}
		a.dispatch(scene.SelectMetric{Metric: m})
	}
}

// dispatch sends ev; the controller reports failures through ReportError.
func (a *App) dispatch(ev scene.Event) {
	if a.nav == nil {
		return
	}
	_ = a.nav.Dispatch(ev)
}

func (a *App) rowCount() int {
	switch vm := a.view.(type) {
	case scene.OverviewView:
		return len(vm.Regions)
	case scene.RegionDetailView:
		return len(vm.Summary.Entries)
	}
	return 0
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}
	body := "Loading..."
	switch vm := a.view.(type) {
	case scene.OverviewView:
		body = a.overviewView(vm)
	case scene.RegionDetailView:
		body = a.regionView(vm)
	case scene.TrendDetailView:
		body = a.trendView(vm)
	}
	parts := []string{body}
	if a.searching {
		parts = append(parts, a.search.View())
	}
	parts = append(parts, a.statusLine(), a.footer())
	return strings.Join(parts, "\n")
}

func (a *App) bodyHeight() int {
	return max(3, a.height-4)
}

func (a *App) overviewView(vm scene.OverviewView) string {
	lines := []string{titleStyle.Render("Cases by region")}
	if vm.HasPeak {
		lines = append(lines, peakStyle.Render(fmt.Sprintf("Peak: %s %s", vm.Peak.Region, formatCount(vm.Peak.Total))))
	}
	rows := a.bodyHeight() - len(lines)
	start := window(a.cursor, len(vm.Regions), rows)
	nameW := 0
	for _, r := range vm.Regions {
		nameW = max(nameW, ansi.StringWidth(r))
	}
	nameW = min(nameW, max(8, a.width-24))
	for i := start; i < len(vm.Regions) && i < start+rows; i++ {
		region := vm.Regions[i]
		total := vm.Totals.Get(region)
		marker := "  "
		if i == a.cursor {
			marker = cursorStyle.Render("> ")
		}
		swatch := lipgloss.NewStyle().Foreground(shadeFor(total, a.ui.ShadeScale)).Render("██")
		name := ansi.Truncate(region, nameW, "…")
		name += strings.Repeat(" ", max(0, nameW-ansi.StringWidth(name)))
		line := marker + swatch + " " + textStyle.Render(name) + " " + formatCount(total)
		if vm.HasPeak && region == vm.Peak.Region {
			line += " " + peakStyle.Render("▲ peak")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (a *App) regionView(vm scene.RegionDetailView) string {
	lines := []string{
		titleStyle.Render(vm.Region),
		peakStyle.Render(fmt.Sprintf("Peak: %s %s", vm.Peak.Label, formatCount(vm.Peak.Value))),
		renderBars(vm.Summary.Entries, a.cursor, a.width),
	}
	return strings.Join(lines, "\n")
}

func (a *App) trendView(vm scene.TrendDetailView) string {
	title := titleStyle.Render(fmt.Sprintf("%s: %s over time", vm.Region, vm.Metric))
	peak := mutedStyle.Render("No data")
	if vm.PeakIndex >= 0 {
		peak = peakStyle.Render(fmt.Sprintf("Peak: %s %s", vm.Peak.Date.Format("2006-01-02"), formatCount(vm.Peak.Value)))
	}
	chart := renderTrend(vm.Series, a.width-2, a.bodyHeight()-2)
	return strings.Join([]string{title, peak, chart}, "\n")
}

func (a *App) statusLine() string {
	style := statusStyle
	if a.statusErr {
		style = statusErrStyle
	}
	width := max(1, a.width)
	line := ansi.Truncate(strings.ReplaceAll(a.status, "\n", " "), width, "")
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return style.Render(line)
}

func (a *App) footer() string {
	var parts []string
	seen := map[string]bool{}
	for _, b := range a.keys.BindingsForScope(a.scope()) {
		if seen[b.Action] || len(b.Keys) == 0 {
			continue
		}
		seen[b.Action] = true
		parts = append(parts, keyStyle.Render(b.Keys[0])+" "+helpDescStyle.Render(b.Description))
	}
	return ansi.Truncate(strings.Join(parts, "  "), max(1, a.width), "")
}

// window returns the first visible row so that cursor stays on screen.
func window(cursor, total, rows int) int {
	if rows <= 0 || total <= rows {
		return 0
	}
	start := cursor - rows/2
	return max(0, min(start, total-rows))
}

func statusFor(vm scene.ViewModel) string {
	switch vm := vm.(type) {
	case scene.OverviewView:
		return fmt.Sprintf("%d regions", len(vm.Regions))
	case scene.RegionDetailView:
		if e, ok := vm.Summary.Entry(aggregate.LabelRecovered); ok && !e.Available {
			return vm.Region + ": Recovered not reported"
		}
		return vm.Region
	case scene.TrendDetailView:
		return fmt.Sprintf("%s %s: %d days", vm.Region, vm.Metric, len(vm.Series))
	}
	return ""
}
