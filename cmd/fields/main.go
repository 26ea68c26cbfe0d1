// Package main provides the fields command that shows how a submission's labels resolve.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"formrelay/internal/config"
	"formrelay/internal/extractor"
	"formrelay/internal/formatter"
	"formrelay/internal/logger"
	"formrelay/internal/models"
	"formrelay/internal/relay"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	inputFile := flag.String("input", "", "Path to event JSON file (default: built-in sample)")
	width := flag.Int("width", formatter.DefaultValueWidth, "Maximum display width of the value column")
	flag.Parse()

	// Field listing only needs the candidate labels, so validation errors
	// about the endpoint are reported but not fatal.
	cfg := config.Default()

	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			fmt.Printf("⚠️  Failed to load config: %v (proceeding with defaults)\n", err)
		} else {
			cfg = loaded
		}
	}

	event := relay.SampleEvent()

	if *inputFile != "" {
		data, err := os.ReadFile(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to read %s: %v\n", *inputFile, err)
			os.Exit(1)
		}

		event = &models.Event{}
		if err := json.Unmarshal(data, event); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to parse %s: %v\n", *inputFile, err)
			os.Exit(1)
		}
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	fields, strategy := extractor.New(nil, log).Extract(context.Background(), event)
	if fields.Empty() {
		fmt.Println("❌ No fields found in the event")
		os.Exit(1)
	}

	fmt.Printf("📋 %d field(s) via %s\n\n", fields.Len(), strategy)
	fmt.Print(formatter.FieldTable(fields, cfg.Candidates(), *width))

	_, res, err := relay.NewProcessor(cfg).Process(fields)
	fmt.Println()
	fmt.Printf("email → %q (score %d)\n", res.Email.Value, res.Email.Score)
	fmt.Printf("phone → %q (score %d)\n", res.Phone.Value, res.Phone.Score)
	fmt.Printf("name  → %q (score %d)\n", res.Name.Value, res.Name.Score)

	if err != nil {
		fmt.Printf("\n⚠️  %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n✅ Submission is valid")
}
