// Package main provides the probe command that checks the receiving endpoint's status route.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"formrelay/internal/config"
	"formrelay/internal/logger"
	"formrelay/internal/relay"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorGreen = "\033[0;32m"
	colorRed   = "\033[0;31m"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	timeout := flag.Duration("timeout", 10*time.Second, "Probe timeout")
	flag.Parse()

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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report, err := relay.NewDeliverer(cfg, log).Probe(ctx)
	if err != nil {
		fmt.Printf("%s[PROBE]%s %s unreachable: %v\n", colorRed, colorReset, cfg.Relay.Endpoint, err)
		os.Exit(1)
	}

	if !report.Healthy {
		fmt.Printf("%s[PROBE]%s %s answered HTTP %d: %s\n", colorRed, colorReset, cfg.Relay.Endpoint, report.StatusCode, report.Body)
		os.Exit(1)
	}

	fmt.Printf("%s[PROBE]%s %s is healthy: %s\n", colorGreen, colorReset, cfg.Relay.Endpoint, report.Body)
}
