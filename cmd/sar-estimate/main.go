// sar-estimate computes the search area, search pattern and resource estimate
// for a missing aircraft and writes a map and a probability heatmap.
//
// The last known state comes from flags, or from an ICAO address looked up on
// airplanes.live or in the collector database. Weather comes from flags or
// from a METAR station.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/browser"

	"github.com/unklstewy/sar-scope/internal/render"
	"github.com/unklstewy/sar-scope/internal/sources"
	"github.com/unklstewy/sar-scope/pkg/adsb"
	"github.com/unklstewy/sar-scope/pkg/config"
	"github.com/unklstewy/sar-scope/pkg/search"
)

// nearestStationKm bounds the search for a METAR station with -metar auto.
const nearestStationKm = 150.0

// openFile shows a generated file in the default browser.
var openFile = browser.OpenFile

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	icao := flag.String("icao", "", "ICAO hex code of the missing aircraft (e.g., a12345)")
	source := flag.String("source", sources.SourceLive, "Last known state source: live or db")
	metar := flag.String("metar", "", "METAR station for weather (e.g., KCLT), or 'auto' for the nearest station")
	outDir := flag.String("out", "", "Output directory (default from config)")
	noMap := flag.Bool("no-map", false, "Do not write the HTML map")
	noHeatmap := flag.Bool("no-heatmap", false, "Do not write the heatmap PNG")
	planOut := flag.String("plan-out", "", "Write the plan as JSON to this file (for sar-viewer)")
	publishPlan := flag.Bool("publish", false, "Publish the plan to NATS")
	openMap := flag.Bool("open", true, "Open the map in the default browser")

	var manual manualFlags
	manual.register(flag.CommandLine)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if manual.fuelConsumption > 0 {
		cfg.Search.FuelConsumptionKgPerMin = manual.fuelConsumption
	}
	if *outDir != "" {
		cfg.Output.Directory = *outDir
	}
	if *publishPlan {
		cfg.NATS.Enabled = true
	}

	estimator, err := sources.Estimator(cfg)
	if err != nil {
		log.Fatalf("Invalid search configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	in := manual.input(setFlags(flag.CommandLine))

	if *icao != "" {
		in, err = withAircraft(ctx, cfg, *source, *icao, in)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
	}

	if *metar != "" && in.Weather == nil {
		in, err = withWeather(ctx, cfg, *metar, in)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
	}

	if err := in.Validate(); err != nil {
		log.Fatalf("❌ Invalid input: %v", err)
	}

	plan, err := estimator.Plan(in)
	if err != nil {
		if search.IsMissingData(err) {
			log.Fatalf("❌ %v (set it with flags, -icao or -metar)", err)
		}
		log.Fatalf("❌ Estimation failed: %v", err)
	}

	files, err := writeOutputs(cfg.Output, plan, !*noMap, !*noHeatmap, *planOut)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	fmt.Println(render.Report(plan, files...))

	if *openMap && !*noMap {
		if err := openInBrowser(filepath.Join(cfg.Output.Directory, cfg.Output.MapFile)); err != nil {
			log.Printf("⚠️  Could not open map: %v", err)
		}
	}

	if cfg.NATS.Enabled {
		publisher, err := sources.Publisher(ctx, cfg)
		if err != nil {
			log.Fatalf("❌ Failed to connect to NATS: %v", err)
		}
		defer publisher.Close()

		id, err := publisher.Publish(plan, adsb.NormalizeICAO(*icao))
		if err != nil {
			log.Fatalf("❌ Failed to publish plan: %v", err)
		}
		log.Printf("📤 Published plan %s on %s", id, publisher.Subject())
	}
}

func withAircraft(ctx context.Context, cfg *config.Config, kind, icao string, in search.Input) (search.Input, error) {
	src, err := sources.Aircraft(ctx, cfg, kind)
	if err != nil {
		return in, err
	}
	defer src.Close()

	log.Printf("🔍 Looking up last known state of %s (%s)...", icao, kind)
	ac, err := src.GetAircraftByICAO(ctx, icao)
	if err != nil {
		return in, fmt.Errorf("failed to look up aircraft: %w", err)
	}
	if ac == nil {
		return in, fmt.Errorf("aircraft %s not found in %s source", icao, kind)
	}

	log.Printf("✓ %s (%s) at %.4f°, %.4f°, %.0f kts, track %.0f°, last seen %s ago",
		ac.Callsign, ac.ICAO, ac.Latitude, ac.Longitude, ac.GroundSpeed, ac.Track,
		ac.Age(time.Now()).Round(time.Second))

	return merge(in, search.Input{Kinematics: ac.Kinematics()}), nil
}

func withWeather(ctx context.Context, cfg *config.Config, station string, in search.Input) (search.Input, error) {
	client := sources.Weather(cfg)

	if station == "auto" {
		if in.Kinematics.Position == nil {
			return in, fmt.Errorf("-metar auto needs a last known position")
		}
		m, err := client.GetObservationNear(ctx, *in.Kinematics.Position, nearestStationKm)
		if err != nil {
			return in, fmt.Errorf("failed to get weather: %w", err)
		}
		log.Printf("🌦  Nearest METAR station: %s (%s)", m.Station, m.Name)
		log.Printf("   %s", m.Raw)
		obs := m.Observation()
		in.Weather = &obs
		return in, nil
	}

	m, err := client.GetObservation(ctx, station)
	if err != nil {
		return in, fmt.Errorf("failed to get weather: %w", err)
	}
	log.Printf("🌦  METAR %s", m.Raw)
	obs := m.Observation()
	in.Weather = &obs
	return in, nil
}

// writeOutputs writes the requested files and returns their paths.
func writeOutputs(out config.OutputConfig, plan *search.Plan, mapFile, heatmap bool, planPath string) ([]string, error) {
	if err := os.MkdirAll(out.Directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var files []string

	if mapFile {
		path := filepath.Join(out.Directory, out.MapFile)
		if err := render.WriteMapFile(path, plan); err != nil {
			return nil, err
		}
		files = append(files, path)
	}

	if heatmap {
		path := filepath.Join(out.Directory, out.HeatmapFile)
		if err := render.WriteHeatmapFile(path, plan.Grid, out.HeatmapCellPixels); err != nil {
			return nil, err
		}
		files = append(files, path)
	}

	if planPath != "" {
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal plan: %w", err)
		}
		if err := os.WriteFile(planPath, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write plan: %w", err)
		}
		files = append(files, planPath)
	}

	return files, nil
}

func openInBrowser(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return openFile(abs)
}
