// sar-tui asks for the last known state of a missing aircraft in a terminal
// form, then writes the search map and heatmap and shows the report.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unklstewy/sar-scope/internal/render"
	"github.com/unklstewy/sar-scope/internal/sources"
	"github.com/unklstewy/sar-scope/pkg/config"
	"github.com/unklstewy/sar-scope/pkg/search"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	estimator, err := sources.Estimator(cfg)
	if err != nil {
		log.Fatalf("Invalid search configuration: %v", err)
	}

	p := tea.NewProgram(newFormModel(filePlanner(estimator, cfg.Output)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// filePlanner runs the estimator and writes the map and heatmap into the
// output directory.
func filePlanner(est *search.Estimator, out config.OutputConfig) planner {
	return func(in search.Input) (*search.Plan, []string, error) {
		plan, err := est.Plan(in)
		if err != nil {
			return nil, nil, err
		}

		if err := os.MkdirAll(out.Directory, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}

		mapPath := filepath.Join(out.Directory, out.MapFile)
		if err := render.WriteMapFile(mapPath, plan); err != nil {
			return nil, nil, err
		}

		heatmapPath := filepath.Join(out.Directory, out.HeatmapFile)
		if err := render.WriteHeatmapFile(heatmapPath, plan.Grid, out.HeatmapCellPixels); err != nil {
			return nil, nil, err
		}

		return plan, []string{mapPath, heatmapPath}, nil
	}
}
