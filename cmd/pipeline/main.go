package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"nhanescli/internal/config"
	"nhanescli/internal/infrastructure"
	"nhanescli/internal/pipeline"
)

func main() {
	dataDir := flag.String("data", "", "directory holding the downloaded archive files (defaults to config)")
	outDir := flag.String("out", "", "directory for result tables (defaults to config)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (defaults to config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}
	if *outDir != "" {
		cfg.Paths.OutDir = *outDir
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	infrastructure.InitializeLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(infrastructure.EnsureRunID(context.Background()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		slog.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
	slog.Info("run complete",
		slog.String("run_id", res.RunID),
		slog.Int("records", res.Records),
		slog.Int("tables", res.Tables))
}
