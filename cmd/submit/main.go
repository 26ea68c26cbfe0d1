// Package main provides the submit command that relays one form event from a file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"formrelay/internal/config"
	"formrelay/internal/history"
	"formrelay/internal/logger"
	"formrelay/internal/models"
	"formrelay/internal/relay"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	inputFile := flag.String("input", "", "Path to event JSON file")
	sample := flag.Bool("sample", false, "Send the built-in sample submission")
	flag.Parse()

	if *inputFile == "" && !*sample {
		fmt.Println("Error: --input or --sample is required")
		fmt.Println("Usage: submit --input <event.json> | --sample [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	configPath := *configFile
	if configPath == "" {
		if _, err := os.Stat("configs/relay.yaml"); err == nil {
			configPath = "configs/relay.yaml"
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	event := relay.SampleEvent()
	if *inputFile != "" {
		event, err = loadEvent(*inputFile)
		if err != nil {
			log.Error(fmt.Sprintf("❌ Failed to load event: %v", err))
			os.Exit(1)
		}
	}

	log.Info(fmt.Sprintf("📝 Relaying submission to %s", cfg.Relay.Endpoint))

	hist := history.NewMemory(1)
	if event.Response != nil {
		_ = hist.Record(context.Background(), event.Response)
	}

	handler := relay.NewHandlerFromConfig(cfg, hist, relay.NewDeliverer(cfg, log), log)
	report := handler.HandleEvent(context.Background(), event)

	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(out))

	if !report.Delivered {
		log.Error(fmt.Sprintf("❌ Submission not delivered (stage=%s): %s", report.Stage, report.Error))
		os.Exit(1)
	}

	fmt.Printf("\n✓ Delivered %s in %d attempt(s)\n", report.Payload.ResponseID, report.Delivery.Attempts())
}

func loadEvent(path string) (*models.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var event models.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &event, nil
}
