// Package main provides the relay server that receives form events and forwards them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"formrelay/internal/config"
	"formrelay/internal/logger"
	"formrelay/internal/relay"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(resolveConfigPath(*configFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *addr != "" {
		cfg.Relay.Addr = *addr
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	log.Info("🚀 Starting form relay")
	log.Info(fmt.Sprintf("🎯 Target: %s", cfg.Relay.Endpoint))
	log.Info(fmt.Sprintf("📚 History backend: %s", cfg.History.Backend))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hist, err := relay.NewHistory(ctx, cfg.History)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to open response history: %v", err))
		os.Exit(1)
	}

	handler := relay.NewHandlerFromConfig(cfg, hist, relay.NewDeliverer(cfg, log), log)
	server := relay.NewServer(handler, hist, log)

	if err := server.ListenAndServe(ctx, cfg.Relay.Addr); err != nil {
		log.Error(fmt.Sprintf("❌ Server stopped: %v", err))
		os.Exit(1)
	}

	log.Info("✨ Relay stopped")
}

// resolveConfigPath falls back to configs/relay.yaml when it exists.
func resolveConfigPath(path string) string {
	if path != "" {
		return path
	}

	if _, err := os.Stat("configs/relay.yaml"); err == nil {
		return "configs/relay.yaml"
	}

	return ""
}
