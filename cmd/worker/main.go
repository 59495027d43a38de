package main

import (
	"log/slog"
	"os"

	"fitbook/internal/handler/middleware"
	"fitbook/internal/infra/notify"
	"fitbook/internal/pkg/config"
)

// Feed worker: consumes booking events enqueued after commit and hands them
// to the configured delivery. Runs as its own process so the API never
// blocks on fan-out.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err.Error())
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Log)
	slog.SetDefault(logger.GetSlogLogger())

	srv, mux := notify.NewWorker(cfg.Redis, notify.LogDelivery{})

	slog.Info("starting feed worker", "redis", cfg.Redis.Addr)
	if err := srv.Run(mux); err != nil {
		slog.Error("feed worker exited", "error", err.Error())
		os.Exit(1)
	}
}
