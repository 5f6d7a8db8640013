// sar-viewer shows search plans in the terminal: the probability heatmap,
// the search pattern and the plan summary. Plans come from a JSON file
// written by sar-estimate -plan-out, or live from NATS.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/unklstewy/sar-scope/internal/publish"
	"github.com/unklstewy/sar-scope/pkg/config"
	"github.com/unklstewy/sar-scope/pkg/search"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	planPath := flag.String("plan", "", "Plan JSON file to show")
	follow := flag.Bool("follow", false, "Follow plans published on NATS")
	flag.Parse()

	if *planPath == "" && !*follow {
		fmt.Fprintln(os.Stderr, "usage: sar-viewer -plan plan.json | -follow")
		os.Exit(2)
	}

	app := NewApp()

	if *planPath != "" {
		msg, err := loadPlanFile(*planPath)
		if err != nil {
			log.Fatalf("Failed to load plan: %v", err)
		}
		app.AddPlan(msg)
	}

	if *follow {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		sub, err := publish.Subscribe(cfg.NATS.URL, cfg.NATS.Subject, app.AddPlan)
		if err != nil {
			log.Fatalf("Failed to follow plans: %v", err)
		}
		defer sub.Close()

		// Keep NATS logging off the terminal UI
		log.SetOutput(app.logs)
		app.addLog("INFO", fmt.Sprintf("Following %s on %s", cfg.NATS.Subject, cfg.NATS.URL))
	}

	if err := app.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

// loadPlanFile reads a published plan message or a bare plan.
func loadPlanFile(path string) (publish.PlanMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return publish.PlanMessage{}, fmt.Errorf("failed to read plan file: %w", err)
	}

	var msg publish.PlanMessage
	if err := json.Unmarshal(data, &msg); err == nil && msg.Plan != nil {
		return msg, nil
	}

	var plan search.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return publish.PlanMessage{}, fmt.Errorf("failed to parse plan file: %w", err)
	}
	return publish.PlanMessage{Plan: &plan}, nil
}
