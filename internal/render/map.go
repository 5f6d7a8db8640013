// Package render turns a search plan into files and text for people: an
// HTML map, a probability heatmap image and a terminal report.
package render

import (
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/unklstewy/sar-scope/pkg/search"
)

// MaxMapWaypoints bounds the waypoint path drawn on the map. Longer
// patterns are drawn with every n-th waypoint so the page stays usable.
const MaxMapWaypoints = 5000

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Search Area Map</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var center = {{.Center}};
var lkp = {{.LastKnown}};
var path = {{.Path}};
var map = L.map('map').setView(center, 10);
L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
  maxZoom: 18,
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
L.circle(center, {radius: {{.RadiusMeters}}, color: 'red', fill: true, fillOpacity: 0.15})
  .bindPopup({{.AreaPopup}}).addTo(map);
L.marker(lkp).bindPopup('Last Known Position').addTo(map);
L.polyline([lkp, center], {color: 'yellow', weight: 2, opacity: 0.8}).addTo(map);
if (path.length > 1) {
  L.polyline(path, {color: 'blue', weight: 1, opacity: 0.6}).addTo(map);
}
</script>
</body>
</html>
`))

type mapData struct {
	Center       [2]float64
	LastKnown    [2]float64
	Path         [][2]float64
	RadiusMeters float64
	AreaPopup    string
}

// WriteMap writes a standalone Leaflet page showing the search circle,
// the last known position, the drift line and the waypoint path.
func WriteMap(w io.Writer, p *search.Plan) error {
	if p == nil {
		return fmt.Errorf("nil plan")
	}

	center := p.Area.Center
	lkp := p.Summary.LastKnownPosition

	data := mapData{
		Center:       [2]float64{center.Latitude, center.Longitude},
		LastKnown:    [2]float64{lkp.Latitude, lkp.Longitude},
		Path:         thinPath(p.Waypoints, MaxMapWaypoints),
		RadiusMeters: p.Area.RadiusKm * 1000,
		AreaPopup:    fmt.Sprintf("Search Area (%.1f km radius, %s risk)", p.Area.RadiusKm, p.Risk.Level),
	}

	if err := mapTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render map: %w", err)
	}
	return nil
}

// WriteMapFile renders the map to path.
func WriteMapFile(path string, p *search.Plan) error {
	return writeFile(path, func(w io.Writer) error { return WriteMap(w, p) })
}

// thinPath keeps at most limit points, always including the first and last.
func thinPath(waypoints []search.Waypoint, limit int) [][2]float64 {
	n := len(waypoints)
	if n == 0 {
		return [][2]float64{}
	}

	step := 1
	if n > limit {
		step = (n + limit - 1) / limit
	}

	path := make([][2]float64, 0, n/step+1)
	for i := 0; i < n; i += step {
		path = append(path, [2]float64{waypoints[i].Latitude, waypoints[i].Longitude})
	}
	if (n-1)%step != 0 {
		last := waypoints[n-1]
		path = append(path, [2]float64{last.Latitude, last.Longitude})
	}
	return path
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
