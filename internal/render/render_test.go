package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unklstewy/sar-scope/pkg/coordinates"
	"github.com/unklstewy/sar-scope/pkg/search"
)

// testPlan computes a small plan: 150 km/h with 8 kg of fuel gives a
// 25 km range and a 5 km radius, so a 10x10 grid.
func testPlan(t *testing.T) *search.Plan {
	t.Helper()

	est, err := search.NewEstimator(search.DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create estimator: %v", err)
	}

	plan, err := est.Plan(search.Input{
		Kinematics: search.KinematicState{
			Position: &coordinates.Geographic{Latitude: 40.0, Longitude: -74.0, Altitude: 1500},
			Speed:    &search.Speed{GroundKmh: 150},
			Heading:  search.Float64(90),
		},
		Weather: &search.WeatherObservation{
			WindSpeedKt:       30,
			WindDirectionDeg:  90,
			VisibilityKm:      8,
			PrecipitationMmHr: 0,
		},
		Fuel: &search.FuelStatus{RemainingKg: 8},
	})
	if err != nil {
		t.Fatalf("Failed to plan: %v", err)
	}
	return plan
}

// TestWriteMap tests the Leaflet page contents.
func TestWriteMap(t *testing.T) {
	plan := testPlan(t)

	var buf bytes.Buffer
	if err := WriteMap(&buf, plan); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	page := buf.String()

	for _, want := range []string{
		"leaflet.js",
		"L.circle(center",
		"color: 'red'",
		"color: 'yellow'",
		"Last Known Position",
		"Search Area (5.0 km radius, HIGH risk)",
		"5000",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("Expected map to contain %q", want)
		}
	}

	if err := WriteMap(&buf, nil); err == nil {
		t.Error("Expected error for nil plan")
	}
}

// TestWriteMapFile tests writing the map to disk.
func TestWriteMapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.html")
	if err := WriteMapFile(path, testPlan(t)); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Map file not created: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty map file")
	}
}

// TestThinPath tests waypoint thinning.
func TestThinPath(t *testing.T) {
	waypoints := make([]search.Waypoint, 10)
	for i := range waypoints {
		waypoints[i] = search.Waypoint{Latitude: float64(i)}
	}

	if got := thinPath(waypoints, 100); len(got) != 10 {
		t.Errorf("Expected all 10 points under the limit, got %d", len(got))
	}

	got := thinPath(waypoints, 4)
	// step 3: 0, 3, 6, 9
	if len(got) != 4 {
		t.Fatalf("Expected 4 points, got %d", len(got))
	}
	if got[0][0] != 0 || got[len(got)-1][0] != 9 {
		t.Errorf("Expected first and last waypoint kept, got %v", got)
	}

	got = thinPath(waypoints[:8], 4)
	// step 2: 0, 2, 4, 6 plus last 7
	if got[len(got)-1][0] != 7 {
		t.Errorf("Expected last waypoint appended, got %v", got)
	}

	if got := thinPath(nil, 4); len(got) != 0 {
		t.Errorf("Expected empty path, got %v", got)
	}
}

// TestHotColor tests the colormap end points.
func TestHotColor(t *testing.T) {
	tests := []struct {
		t       float64
		r, g, b uint8
	}{
		{0, 0, 0, 0},
		{1.0 / 3, 255, 0, 0},
		{2.0 / 3, 255, 255, 0},
		{1, 255, 255, 255},
		{-1, 0, 0, 0},
		{5, 255, 255, 255},
	}

	for _, tt := range tests {
		c := HotColor(tt.t)
		if c.R != tt.r || c.G != tt.g || c.B != tt.b || c.A != 255 {
			t.Errorf("HotColor(%f) = %v, expected (%d,%d,%d)", tt.t, c, tt.r, tt.g, tt.b)
		}
	}
}

// TestHeatmapImage tests image size and orientation.
func TestHeatmapImage(t *testing.T) {
	g, err := search.BuildGrid(coordinates.Geographic{Latitude: 10, Longitude: 10}, 2.5)
	if err != nil {
		t.Fatalf("Failed to build grid: %v", err)
	}
	// side 5, center cell (2, 2)

	img, err := HeatmapImage(g, 4)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Fatalf("Expected 20x20 image, got %v", b)
	}

	// The peak cell renders white
	if c := img.RGBAAt(10, 10); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("Expected white center, got %v", c)
	}
	// Corners are dim
	if c := img.RGBAAt(0, 0); c.G > 50 {
		t.Errorf("Expected dark corner, got %v", c)
	}
}

// TestHeatmapNorthUp tests that grid row 0 (south) is drawn at the bottom.
func TestHeatmapNorthUp(t *testing.T) {
	var g search.ProbabilityGrid
	data := []byte(`{"reference": {"latitude": 0, "longitude": 0, "altitude": 0},
		"radius_km": 1, "cell_size_km": 1, "center_cell": [0, 0],
		"cells": [[1, 0], [0, 0]]}`)
	if err := g.UnmarshalJSON(data); err != nil {
		t.Fatalf("Failed to decode grid: %v", err)
	}

	img, err := HeatmapImage(g, 1)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if c := img.RGBAAt(0, 1); c.R != 255 {
		t.Errorf("Expected hot pixel bottom-left, got %v", c)
	}
	if c := img.RGBAAt(0, 0); c.R != 0 {
		t.Errorf("Expected cold pixel top-left, got %v", c)
	}
}

// TestHeatmapFigure tests the frame, the colorbar and the labels.
func TestHeatmapFigure(t *testing.T) {
	g, err := search.BuildGrid(coordinates.Geographic{Latitude: 10, Longitude: 10}, 10)
	if err != nil {
		t.Fatalf("Failed to build grid: %v", err)
	}
	// side 20 at 4 px per cell
	fig, err := HeatmapFigure(g, 4)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	heatW, heatH := 80, 80
	barX := figureMarginLeft + heatW + colorbarGap + colorbarWidth/2
	if c := fig.RGBAAt(barX, figureMarginTop); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("Expected white colorbar top, got %v", c)
	}
	if c := fig.RGBAAt(barX, figureMarginTop+heatH-1); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("Expected black colorbar bottom, got %v", c)
	}

	// The center cell (9, 9) is the peak and sits inside the frame
	cx := figureMarginLeft + 9*4 + 2
	cy := figureMarginTop + (19-9)*4 + 2
	if c := fig.RGBAAt(cx, cy); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("Expected white peak cell, got %v", c)
	}

	// Labels leave dark pixels in the white title band
	dark := false
	for x := figureMarginLeft; x < figureMarginLeft+heatW && !dark; x++ {
		for y := 4; y < 18; y++ {
			if c := fig.RGBAAt(x, y); c.R < 128 {
				dark = true
				break
			}
		}
	}
	if !dark {
		t.Error("Expected title text above the heatmap")
	}
}

// TestWriteHeatmap tests PNG encoding.
func TestWriteHeatmap(t *testing.T) {
	plan := testPlan(t)

	var buf bytes.Buffer
	if err := WriteHeatmap(&buf, plan.Grid, 3); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Expected valid PNG, got: %v", err)
	}
	wantW := figureMarginLeft + 30 + colorbarGap + colorbarWidth + colorbarLabelWidth
	wantH := figureMarginTop + 30 + figureMarginBottom
	if b := img.Bounds(); b.Dx() != wantW || b.Dy() != wantH {
		t.Errorf("Expected %dx%d image, got %v", wantW, wantH, b)
	}

	path := filepath.Join(t.TempDir(), "heat.png")
	if err := WriteHeatmapFile(path, plan.Grid, 1); err != nil {
		t.Errorf("Expected no error writing file, got: %v", err)
	}
}

// TestReport tests the text report.
func TestReport(t *testing.T) {
	plan := testPlan(t)

	out := Report(plan, "map.html", "heat.png")
	for _, want := range []string{
		"SEARCH AREA ESTIMATE",
		"5.00 km",
		"25.00 km",
		"HIGH",
		"High winds",
		"10x10 cells",
		"map.html",
		"heat.png",
		"40.00000°N",
		"74.00000°W",
		"nm) at",
		"25 waypoints",
		"% of probability",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected report to contain %q\n%s", want, out)
		}
	}
}

// TestFormatPosition tests hemisphere formatting.
func TestFormatPosition(t *testing.T) {
	got := formatPosition(coordinates.Geographic{Latitude: -33.5, Longitude: 151.25})
	if got != "33.50000°S 151.25000°E" {
		t.Errorf("Unexpected position %q", got)
	}
}
