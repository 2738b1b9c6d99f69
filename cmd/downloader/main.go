package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"nhanescli/internal/config"
	"nhanescli/internal/exporter"
	"nhanescli/internal/fetch"
	"nhanescli/internal/infrastructure"
)

func main() {
	dataDir := flag.String("data", "", "directory to download archive files into (defaults to config)")
	outDir := flag.String("out", "", "directory for the download log (defaults to config)")
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
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	infrastructure.InitializeLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(infrastructure.EnsureRunID(context.Background()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := fetch.New(cfg.ResolvedDataDir(),
		fetch.WithClient(&http.Client{Timeout: cfg.Fetch.Timeout}),
		fetch.WithRateLimit(rate.NewLimiter(rate.Limit(cfg.Fetch.RequestsPerSecond), 1)),
		fetch.WithConcurrency(cfg.Fetch.Concurrency))

	entries, err := f.FetchAll(ctx)
	if err != nil {
		slog.Error("download run aborted", "error", err)
		os.Exit(1)
	}

	if err := exporter.New(cfg.ResolvedOutDir()).WriteTable(fetch.LogTable(entries)); err != nil {
		slog.Error("failed to write download log", "error", err)
		os.Exit(1)
	}

	failed := 0
	for _, e := range entries {
		if e.Status != fetch.StatusSuccess {
			failed++
		}
	}
	slog.Info("download run complete",
		slog.Int("files", len(entries)),
		slog.Int("failed", failed))
}
