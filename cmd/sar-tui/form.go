package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unklstewy/sar-scope/internal/render"
	"github.com/unklstewy/sar-scope/pkg/coordinates"
	"github.com/unklstewy/sar-scope/pkg/search"
)

// formSection groups prompts and names the group in parse errors.
type formSection int

const (
	SectionPosition formSection = iota
	SectionSpeed
	SectionHeading
	SectionWeather
	SectionFuel
)

func (s formSection) String() string {
	switch s {
	case SectionPosition:
		return "Last Known Position"
	case SectionSpeed:
		return "Speed Information"
	case SectionHeading:
		return "Last Known Heading"
	case SectionWeather:
		return "Weather Information"
	case SectionFuel:
		return "Remaining Fuel"
	default:
		return "UNKNOWN"
	}
}

// parseError is reported when a value of the section is not a number.
func (s formSection) parseError() error {
	switch s {
	case SectionPosition:
		return errors.New("position values must be numbers")
	case SectionSpeed:
		return errors.New("speed values must be numbers")
	case SectionHeading:
		return errors.New("heading must be a number")
	case SectionWeather:
		return errors.New("weather values must be numbers")
	default:
		return errors.New("fuel must be a number")
	}
}

type field struct {
	section  formSection
	label    string
	optional bool
}

// Field indexes, in prompt order.
const (
	fieldLat = iota
	fieldLon
	fieldAlt
	fieldSpeed
	fieldVSpeed
	fieldHeading
	fieldWindSpeed
	fieldWindDir
	fieldVisibility
	fieldPrecip
	fieldFuel
	numFields
)

var fields = [numFields]field{
	fieldLat:        {SectionPosition, "Latitude (decimal degrees, -90 to 90)", false},
	fieldLon:        {SectionPosition, "Longitude (decimal degrees, -180 to 180)", false},
	fieldAlt:        {SectionPosition, "Altitude (feet)", false},
	fieldSpeed:      {SectionSpeed, "Ground Speed (km/h)", false},
	fieldVSpeed:     {SectionSpeed, "Vertical Speed (feet/min)", false},
	fieldHeading:    {SectionHeading, "Heading (0-360 degrees)", false},
	fieldWindSpeed:  {SectionWeather, "Wind Speed (knots)", false},
	fieldWindDir:    {SectionWeather, "Wind Direction (0-360 degrees)", false},
	fieldVisibility: {SectionWeather, "Visibility (kilometers)", false},
	fieldPrecip:     {SectionWeather, "Precipitation (mm/hr)", false},
	fieldFuel:       {SectionFuel, "Remaining Fuel (kg, blank if unknown)", true},
}

// planner turns a complete input into a plan and writes the output files.
type planner func(in search.Input) (*search.Plan, []string, error)

// formModel is the input form and, after a successful run, the report.
type formModel struct {
	values  [numFields]string
	current int

	plan    planner
	report  string
	err     error
	showing bool

	width  int
	height int
}

func newFormModel(plan planner) formModel {
	return formModel{plan: plan}
}

func (m formModel) Init() tea.Cmd {
	return nil
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.showing {
			switch msg.String() {
			case "q", "ctrl+c", "esc":
				return m, tea.Quit
			case "n", "enter":
				// New estimate, keep the previous values for editing
				m.showing = false
				m.report = ""
				m.current = 0
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "up", "shift+tab":
			if m.current > 0 {
				m.current--
			} else {
				m.current = numFields - 1
			}

		case "down", "tab":
			m.current = (m.current + 1) % numFields

		case "enter":
			if m.current < numFields-1 {
				m.current++
				return m, nil
			}
			m.submit()

		case "ctrl+s":
			m.submit()

		case "backspace":
			if v := m.values[m.current]; len(v) > 0 {
				m.values[m.current] = v[:len(v)-1]
			}

		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-+eE") {
				m.values[m.current] += s
			}
		}
	}

	return m, nil
}

// submit parses the form and runs the planner. Errors stay on the form.
func (m *formModel) submit() {
	in, err := parseForm(m.values)
	if err != nil {
		m.err = err
		return
	}
	if err := in.Validate(); err != nil {
		m.err = err
		return
	}

	p, files, err := m.plan(in)
	if err != nil {
		m.err = err
		return
	}

	m.err = nil
	m.report = render.Report(p, files...)
	m.showing = true
}

// parseForm converts the raw form values into a search input. A blank fuel
// value means the fuel status is unknown.
func parseForm(values [numFields]string) (search.Input, error) {
	var nums [numFields]float64
	for i, f := range fields {
		raw := strings.TrimSpace(values[i])
		if raw == "" && f.optional {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return search.Input{}, f.section.parseError()
		}
		nums[i] = v
	}

	in := search.Input{
		Kinematics: search.KinematicState{
			Position: &coordinates.Geographic{
				Latitude:  nums[fieldLat],
				Longitude: nums[fieldLon],
				Altitude:  nums[fieldAlt],
			},
			Speed:   &search.Speed{GroundKmh: nums[fieldSpeed], Vertical: nums[fieldVSpeed]},
			Heading: search.Float64(nums[fieldHeading]),
		},
		Weather: &search.WeatherObservation{
			WindSpeedKt:       nums[fieldWindSpeed],
			WindDirectionDeg:  nums[fieldWindDir],
			VisibilityKm:      nums[fieldVisibility],
			PrecipitationMmHr: nums[fieldPrecip],
		},
	}
	if strings.TrimSpace(values[fieldFuel]) != "" {
		in.Fuel = &search.FuelStatus{RemainingKg: nums[fieldFuel]}
	}
	return in, nil
}

func (m formModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var s strings.Builder
	s.WriteString(titleStyle.Render("Aircraft Search and Rescue System"))
	s.WriteString("\n\n")

	if m.showing {
		s.WriteString(m.report)
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("N/ENTER: New estimate  Q: Quit"))
		s.WriteString("\n")
		return s.String()
	}

	last := formSection(-1)
	for i, f := range fields {
		if f.section != last {
			if i > 0 {
				s.WriteString("\n")
			}
			s.WriteString(sectionStyle.Render(f.section.String() + ":"))
			s.WriteString("\n")
			last = f.section
		}

		if i == m.current {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▶ %s: %s█", f.label, m.values[i])))
		} else {
			s.WriteString(labelStyle.Render(fmt.Sprintf("  %s: %s", f.label, m.values[i])))
		}
		s.WriteString("\n")
	}

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓/TAB: Select  ENTER: Next/Submit  CTRL+S: Submit  ESC: Quit"))
	s.WriteString("\n")
	return s.String()
}
