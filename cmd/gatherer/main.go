package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	universalis "github.com/RikuPy/xivuniversalis"
	"github.com/RikuPy/xivuniversalis/internal/config"
	"github.com/RikuPy/xivuniversalis/internal/database"
	"github.com/RikuPy/xivuniversalis/internal/market"
	"github.com/RikuPy/xivuniversalis/internal/model"
	"github.com/RikuPy/xivuniversalis/internal/poller"
	"github.com/RikuPy/xivuniversalis/internal/version"
	"github.com/RikuPy/xivuniversalis/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/gatherer.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting gatherer",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"api_url", cfg.API.BaseURL,
		"scope", cfg.Poller.Scope,
		"items", len(cfg.Poller.ItemIDs),
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create API client
	client := universalis.NewClient(
		universalis.WithBaseURL(cfg.API.BaseURL),
		universalis.WithTimeout(cfg.API.Timeout),
		universalis.WithUserAgent(cfg.API.UserAgent),
		universalis.WithLogger(logger),
	)

	// Verify the configured scope exists before settling into the loop.
	if _, err := client.GetListingsForItems(ctx, cfg.Poller.ItemIDs[:1], cfg.Poller.Scope, universalis.ListingOptions{ListingLimit: 1}); err != nil {
		logger.Error("scope check failed", "scope", cfg.Poller.Scope, "error", err)
		os.Exit(1)
	}

	// Sync the marketable set and drop configured items that can never
	// produce listings.
	registry := market.NewRegistry(market.DefaultConfig(), client, logger)
	if err := registry.Start(ctx); err != nil {
		logger.Error("failed to start marketable registry", "error", err)
		os.Exit(1)
	}

	pollable := registry.Filter(cfg.Poller.ItemIDs)
	if dropped := len(cfg.Poller.ItemIDs) - len(pollable); dropped > 0 {
		logger.Warn("dropping unmarketable items from poll set", "dropped", dropped)
	}
	if len(pollable) == 0 {
		logger.Error("no configured items are marketable")
		os.Exit(1)
	}
	cfg.Poller.ItemIDs = pollable

	// Start writer
	snapshotWriter := writer.NewSnapshotWriter(cfg.Writer, pool, logger)
	if err := snapshotWriter.Start(ctx); err != nil {
		logger.Error("failed to start writer", "error", err)
		os.Exit(1)
	}

	// Start poller, feeding the writer
	handler := poller.SnapshotHandlerFunc(func(s model.Snapshot) error {
		snapshotWriter.Enqueue(s)
		return nil
	})

	marketPoller := poller.New(cfg.Poller, client, handler, logger)
	if err := marketPoller.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}

	logger.Info("gatherer running", "instance_id", cfg.Instance.ID)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := marketPoller.Stop(shutdownCtx); err != nil {
		logger.Warn("poller shutdown", "error", err)
	}
	if err := registry.Stop(shutdownCtx); err != nil {
		logger.Warn("registry shutdown", "error", err)
	}
	if err := snapshotWriter.Stop(shutdownCtx); err != nil {
		logger.Warn("writer shutdown", "error", err)
	}

	stats := snapshotWriter.Stats()
	logger.Info("gatherer stopped",
		"inserts", stats.Inserts,
		"conflicts", stats.Conflicts,
		"errors", stats.Errors,
		"marketable_synced_at", registry.SyncedAt(),
	)
}
