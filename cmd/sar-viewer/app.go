package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/unklstewy/sar-scope/internal/publish"
	"github.com/unklstewy/sar-scope/pkg/search"
)

// maxTableRows bounds the waypoint table; large grids have millions of stops.
const maxTableRows = 2000

// App represents the viewer application
type App struct {
	// UI components
	tviewApp  *tview.Application
	heatmap   *HeatmapView
	waypoints *tview.Table
	info      *tview.TextView
	logs      *tview.TextView

	// State
	mu      sync.RWMutex
	plans   []publish.PlanMessage
	current int
}

// NewApp creates a new viewer instance
func NewApp() *App {
	a := &App{current: -1}
	a.setupUI()
	return a
}

// setupUI initializes the user interface
func (a *App) setupUI() {
	a.tviewApp = tview.NewApplication()

	a.heatmap = NewHeatmapView(a)

	a.waypoints = tview.NewTable().
		SetFixed(1, 0).
		SetSelectable(true, false)
	a.waypoints.SetBorder(true).SetTitle(" Search Pattern ")

	a.info = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	a.info.SetBorder(true).SetTitle(" Plan ")

	a.logs = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetMaxLines(100)
	a.logs.SetBorder(true).SetTitle(" Logs ")

	sidebar := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.info, 0, 4, false).
		AddItem(a.waypoints, 0, 5, true).
		AddItem(a.logs, 0, 2, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.heatmap, 0, 6, false).
		AddItem(sidebar, 0, 4, true)

	a.tviewApp.SetRoot(root, true)
	a.tviewApp.SetInputCapture(a.handleKeyboard)

	a.refresh()
}

// Run starts the UI loop
func (a *App) Run() error {
	return a.tviewApp.Run()
}

// Stop stops the UI loop
func (a *App) Stop() {
	a.tviewApp.Stop()
}

// AddPlan appends a plan and selects it. Safe to call from any goroutine.
func (a *App) AddPlan(msg publish.PlanMessage) {
	a.mu.Lock()
	a.plans = append(a.plans, msg)
	a.current = len(a.plans) - 1
	a.mu.Unlock()

	a.tviewApp.QueueUpdateDraw(func() {
		a.addLog("INFO", fmt.Sprintf("Plan %s received (%s risk)", shortID(msg.ID), msg.Plan.Risk.Level))
		a.refresh()
	})
}

// currentPlan returns the selected plan, or nil before the first one.
func (a *App) currentPlan() *publish.PlanMessage {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.current < 0 || a.current >= len(a.plans) {
		return nil
	}
	msg := a.plans[a.current]
	return &msg
}

// refresh redraws the panels for the selected plan. Runs on the UI goroutine.
func (a *App) refresh() {
	msg := a.currentPlan()

	a.mu.RLock()
	position, total := a.current+1, len(a.plans)
	a.mu.RUnlock()

	if msg == nil {
		a.info.SetText("[gray]No plan loaded[-]")
		a.waypoints.Clear()
		return
	}

	a.info.SetText(formatInfo(*msg, position, total))
	fillWaypoints(a.waypoints, msg.Plan.Waypoints)
}

// addLog adds a log message to the log panel
func (a *App) addLog(level, message string) {
	timestamp := time.Now().Format("15:04:05")
	color := "white"
	switch level {
	case "ERROR":
		color = "red"
	case "WARN":
		color = "yellow"
	}
	fmt.Fprintf(a.logs, "[gray]%s[-] [%s]%-5s[-] %s\n", timestamp, color, level, message)
}

// handleKeyboard handles keyboard input
func (a *App) handleKeyboard(event *tcell.EventKey) *tcell.EventKey {
	switch {
	case event.Key() == tcell.KeyEscape || event.Rune() == 'q':
		a.Stop()
		return nil
	case event.Rune() == 'n':
		a.selectPlan(1)
		return nil
	case event.Rune() == 'p':
		a.selectPlan(-1)
		return nil
	}
	return event
}

// selectPlan moves through the received plans
func (a *App) selectPlan(delta int) {
	a.mu.Lock()
	if len(a.plans) == 0 {
		a.mu.Unlock()
		return
	}
	a.current = (a.current + delta + len(a.plans)) % len(a.plans)
	a.mu.Unlock()

	a.refresh()
}

func formatInfo(msg publish.PlanMessage, position, total int) string {
	p := msg.Plan
	var b strings.Builder

	fmt.Fprintf(&b, "[yellow]PLAN:[-] [white]%s[-] [gray](%d/%d)[-]\n", shortID(msg.ID), position, total)
	if msg.ICAO != "" {
		fmt.Fprintf(&b, "[gray]ICAO:[-]    [white]%s[-]\n", msg.ICAO)
	}
	if !msg.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "[gray]Created:[-] [white]%s[-]\n", msg.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "[yellow]SEARCH AREA[-]\n")
	fmt.Fprintf(&b, "[gray]Center:[-] [white]%.4f°, %.4f°[-]\n", p.Area.Center.Latitude, p.Area.Center.Longitude)
	fmt.Fprintf(&b, "[gray]Radius:[-] [white]%.2f km[-]  [gray]Range:[-] [white]%.1f km[-]\n", p.Area.RadiusKm, p.MaxRangeKm)
	fmt.Fprintf(&b, "[gray]Drift:[-]  [white]%.2f km E, %.2f km N[-]\n", p.Drift.EastKm, p.Drift.NorthKm)
	b.WriteString("\n")

	fmt.Fprintf(&b, "[yellow]RISK:[-] [%s]%s[-]\n", riskColor(p.Risk.Level), p.Risk.Level)
	for _, f := range p.Risk.Reasons {
		fmt.Fprintf(&b, "  [white]%s[-]\n", f)
	}
	b.WriteString("\n")

	r := p.Resources
	fmt.Fprintf(&b, "[yellow]RESOURCES[-]\n")
	fmt.Fprintf(&b, "[gray]Helicopters:[-] [white]%d[-]  [gray]Ground teams:[-] [white]%d[-]  [gray]Drones:[-] [white]%d[-]\n",
		r.Helicopters, r.GroundTeams, r.Drones)
	fmt.Fprintf(&b, "[gray]Estimated time:[-] [white]%.1f h[-]\n", r.EstimatedHours)
	fmt.Fprintf(&b, "[gray]Waypoints:[-] [white]%d[-]\n", len(p.Waypoints))

	return b.String()
}

func fillWaypoints(table *tview.Table, waypoints []search.Waypoint) {
	table.Clear()

	header := []string{"#", "Latitude", "Longitude"}
	for col, h := range header {
		table.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}

	n := min(len(waypoints), maxTableRows)
	for i := 0; i < n; i++ {
		wp := waypoints[i]
		table.SetCell(i+1, 0, tview.NewTableCell(fmt.Sprintf("%d", i+1)).SetTextColor(tcell.ColorGray))
		table.SetCell(i+1, 1, tview.NewTableCell(fmt.Sprintf("%.5f", wp.Latitude)))
		table.SetCell(i+1, 2, tview.NewTableCell(fmt.Sprintf("%.5f", wp.Longitude)))
	}
	if len(waypoints) > n {
		table.SetCell(n+1, 0, tview.NewTableCell(fmt.Sprintf("... %d more", len(waypoints)-n)).
			SetTextColor(tcell.ColorGray).
			SetSelectable(false))
	}
	table.ScrollToBeginning()
}

func riskColor(level search.RiskLevel) string {
	switch level {
	case search.RiskHigh:
		return "red"
	case search.RiskMedium:
		return "yellow"
	default:
		return "green"
	}
}

func shortID(id string) string {
	if id == "" {
		return "local"
	}
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
