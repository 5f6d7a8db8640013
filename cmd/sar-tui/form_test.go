package main

import (
	"errors"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unklstewy/sar-scope/pkg/config"
	"github.com/unklstewy/sar-scope/pkg/search"
)

func validValues() [numFields]string {
	var v [numFields]string
	v[fieldLat] = "35.2"
	v[fieldLon] = "-80.9"
	v[fieldAlt] = "3500"
	v[fieldSpeed] = "180"
	v[fieldVSpeed] = "-500"
	v[fieldHeading] = "270"
	v[fieldWindSpeed] = "10"
	v[fieldWindDir] = "90"
	v[fieldVisibility] = "10"
	v[fieldPrecip] = "0"
	return v
}

func TestParseForm(t *testing.T) {
	in, err := parseForm(validValues())
	if err != nil {
		t.Fatalf("parseForm failed: %v", err)
	}
	if in.Kinematics.Position.Longitude != -80.9 {
		t.Errorf("Expected longitude -80.9, got %v", in.Kinematics.Position.Longitude)
	}
	if in.Kinematics.Speed.Vertical != -500 {
		t.Errorf("Expected vertical speed -500, got %v", in.Kinematics.Speed.Vertical)
	}
	if in.Fuel != nil {
		t.Error("Expected unknown fuel for blank value")
	}

	values := validValues()
	values[fieldFuel] = "120"
	in, err = parseForm(values)
	if err != nil {
		t.Fatalf("parseForm failed: %v", err)
	}
	if in.Fuel == nil || in.Fuel.RemainingKg != 120 {
		t.Errorf("Expected fuel 120, got %+v", in.Fuel)
	}
}

func TestParseFormErrors(t *testing.T) {
	tests := []struct {
		field int
		want  string
	}{
		{fieldLat, "position values must be numbers"},
		{fieldSpeed, "speed values must be numbers"},
		{fieldHeading, "heading must be a number"},
		{fieldVisibility, "weather values must be numbers"},
		{fieldFuel, "fuel must be a number"},
	}

	for _, tt := range tests {
		t.Run(fields[tt.field].label, func(t *testing.T) {
			values := validValues()
			values[tt.field] = "abc"
			_, err := parseForm(values)
			if err == nil || err.Error() != tt.want {
				t.Errorf("Expected %q, got %v", tt.want, err)
			}
		})
	}

	t.Run("blank required field", func(t *testing.T) {
		values := validValues()
		values[fieldHeading] = ""
		if _, err := parseForm(values); err == nil {
			t.Error("Expected error for blank heading")
		}
	})
}

func typeString(m tea.Model, s string) tea.Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func fillForm(m tea.Model, values [numFields]string) tea.Model {
	for i := 0; i < numFields; i++ {
		m = typeString(m, values[i])
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	return m
}

func TestFormSubmit(t *testing.T) {
	var got search.Input
	model := newFormModel(func(in search.Input) (*search.Plan, []string, error) {
		got = in
		est, err := search.NewEstimator(search.DefaultConfig())
		if err != nil {
			return nil, nil, err
		}
		p, err := est.Plan(in)
		return p, nil, err
	})

	m := fillForm(model, validValues()).(formModel)
	if m.err != nil {
		t.Fatalf("Expected successful submit, got %v", m.err)
	}
	if !m.showing {
		t.Fatal("Expected report to be shown")
	}
	if !strings.Contains(m.View(), "Helicopters") {
		t.Error("Expected report in view")
	}
	if got.Kinematics.Heading == nil || *got.Kinematics.Heading != 270 {
		t.Errorf("Expected heading 270 passed to planner, got %v", got.Kinematics.Heading)
	}

	// Back to the form with the previous values kept
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = next.(formModel)
	if m.showing || m.values[fieldLat] != "35.2" {
		t.Error("Expected form with previous values")
	}
}

func TestFormRejectsInvalidInput(t *testing.T) {
	called := false
	model := newFormModel(func(in search.Input) (*search.Plan, []string, error) {
		called = true
		return nil, nil, errors.New("unreachable")
	})

	values := validValues()
	values[fieldLat] = "95"
	m := fillForm(model, values).(formModel)

	if called {
		t.Error("Planner must not run for an out of range latitude")
	}
	if !search.IsDomain(m.err) {
		t.Errorf("Expected DomainError, got %v", m.err)
	}
	if !strings.Contains(m.View(), "Error:") {
		t.Error("Expected error in view")
	}
}

func TestFormIgnoresLetters(t *testing.T) {
	m := typeString(newFormModel(nil), "4x2").(formModel)
	if m.values[fieldLat] != "42" {
		t.Errorf("Expected 42, got %q", m.values[fieldLat])
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = next.(formModel)
	if m.values[fieldLat] != "4" {
		t.Errorf("Expected 4 after backspace, got %q", m.values[fieldLat])
	}
}

func TestFilePlanner(t *testing.T) {
	est, err := search.NewEstimator(search.DefaultConfig())
	if err != nil {
		t.Fatalf("NewEstimator failed: %v", err)
	}
	out := config.DefaultConfig().Output
	out.Directory = t.TempDir()

	in, err := parseForm(validValues())
	if err != nil {
		t.Fatalf("parseForm failed: %v", err)
	}

	_, files, err := filePlanner(est, out)(in)
	if err != nil {
		t.Fatalf("planner failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(files))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("Expected %s to exist: %v", f, err)
		}
	}
}
