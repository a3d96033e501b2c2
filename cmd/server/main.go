package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/catalogview/internal/catalog"
	"github.com/JonMunkholm/catalogview/internal/config"
	"github.com/JonMunkholm/catalogview/internal/logging"
	"github.com/JonMunkholm/catalogview/internal/upstream"
	"github.com/JonMunkholm/catalogview/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	client := upstream.NewClient(cfg.Catalog.APIURL, cfg.Catalog.MaxBodyBytes)
	fetcher := catalog.NewFetcher(client, catalog.NewStore(), cfg.Catalog.FetchTimeout)

	server, err := web.NewServer(cfg, fetcher)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// Cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	if cfg.Catalog.FetchOnStart {
		// A failed first load is not fatal; the page retries on first visit.
		if result, err := fetcher.Fetch(jobCtx); err != nil {
			slog.Warn("initial catalog load failed", "error", err, "code", catalog.MapError(err).Code)
		} else {
			slog.Info("initial catalog loaded", "count", result.Count)
		}
	}

	go fetcher.StartRefreshScheduler(jobCtx, cfg.Catalog.RefreshInterval)
	server.StartBackground(jobCtx)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
