package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/unklstewy/sar-scope/pkg/coordinates"
	"github.com/unklstewy/sar-scope/pkg/search"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// RiskStyle returns the color used for a risk level.
func RiskStyle(level search.RiskLevel) lipgloss.Style {
	switch level {
	case search.RiskHigh:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	case search.RiskMedium:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	}
}

// Report renders a terminal summary of the plan. files lists generated
// output files to mention at the end.
func Report(p *search.Plan, files ...string) string {
	var b strings.Builder

	line := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("  %-18s", label)))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	b.WriteString(titleStyle.Render("SEARCH AREA ESTIMATE"))
	b.WriteString("\n\n")

	s := p.Summary
	b.WriteString(headerStyle.Render("Last known state"))
	b.WriteString("\n")
	line("Position", formatPosition(s.LastKnownPosition))
	line("Altitude", fmt.Sprintf("%.0f", s.LastKnownPosition.Altitude))
	line("Ground speed", fmt.Sprintf("%.1f km/h", s.Speed.GroundKmh))
	line("Heading", fmt.Sprintf("%.0f°", s.Heading))
	if s.FuelKg != nil {
		line("Fuel", fmt.Sprintf("%.1f kg", *s.FuelKg))
	} else {
		line("Fuel", "unknown")
	}
	line("Wind", fmt.Sprintf("%.0f kt from %.0f°", s.Weather.WindSpeedKt, s.Weather.WindDirectionDeg))
	line("Visibility", fmt.Sprintf("%.1f km", s.Weather.VisibilityKm))
	line("Precipitation", fmt.Sprintf("%.1f mm/hr", s.Weather.PrecipitationMmHr))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Search area"))
	b.WriteString("\n")
	line("Center", formatPosition(p.Area.Center))
	line("Radius", fmt.Sprintf("%.2f km", p.Area.RadiusKm))
	line("Max range", fmt.Sprintf("%.2f km", p.MaxRangeKm))
	line("Drift", fmt.Sprintf("%.2f km E, %.2f km N", p.Drift.EastKm, p.Drift.NorthKm))
	offset := coordinates.DistanceKm(s.LastKnownPosition, p.Area.Center)
	if offset > 0 {
		line("Center offset", fmt.Sprintf("%.2f km (%.2f nm) at %.0f°", offset,
			coordinates.DistanceNauticalMiles(s.LastKnownPosition, p.Area.Center),
			coordinates.Bearing(s.LastKnownPosition, p.Area.Center)))
	}
	rows, cols := p.Grid.Dims()
	line("Grid", fmt.Sprintf("%dx%d cells", rows, cols))
	line("Waypoints", fmt.Sprintf("%d", len(p.Waypoints)))
	if order := search.SpiralCells(p.Grid); len(order) >= 4 {
		quarter := len(order) / 4
		line("First quarter", fmt.Sprintf("%d waypoints, %.1f%% of probability", quarter,
			100*search.CumulativeProbability(p.Grid, order, quarter)))
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Resources"))
	b.WriteString("\n")
	r := p.Resources
	line("Helicopters", fmt.Sprintf("%d", r.Helicopters))
	line("Ground teams", fmt.Sprintf("%d", r.GroundTeams))
	line("Drones", fmt.Sprintf("%d", r.Drones))
	line("Estimated time", fmt.Sprintf("%.1f hours", r.EstimatedHours))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Risk"))
	b.WriteString("\n  ")
	b.WriteString(RiskStyle(p.Risk.Level).Render(p.Risk.Level.String()))
	b.WriteString("\n")
	for _, reason := range p.Risk.Reasons {
		b.WriteString(labelStyle.Render("  • " + reason))
		b.WriteString("\n")
	}

	if len(files) > 0 {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Output files"))
		b.WriteString("\n")
		for _, f := range files {
			b.WriteString("  " + f + "\n")
		}
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func formatPosition(g coordinates.Geographic) string {
	ns, ew := "N", "E"
	lat, lon := g.Latitude, g.Longitude
	if lat < 0 {
		ns, lat = "S", -lat
	}
	if lon < 0 {
		ew, lon = "W", -lon
	}
	return fmt.Sprintf("%.5f°%s %.5f°%s", lat, ns, lon, ew)
}
