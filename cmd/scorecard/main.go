package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kipps-ai/scorecard/internal/analysis"
	"github.com/kipps-ai/scorecard/internal/api"
	"github.com/kipps-ai/scorecard/internal/bus"
	"github.com/kipps-ai/scorecard/internal/config"
	"github.com/kipps-ai/scorecard/internal/metrics"
	"github.com/kipps-ai/scorecard/internal/processor"
	"github.com/kipps-ai/scorecard/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("scorecard starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to migrate schema", "error", err)
		os.Exit(1)
	}
	slog.Info("database connected")

	// NATS
	busClient, err := bus.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer busClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	// Metrics
	m := metrics.New(nil)

	// Engine + processor — the main pipeline
	analyzer := analysis.New(cfg.Engine(), slog.Default())
	proc := processor.New(db, analyzer, busClient, m, slog.Default())

	// Analyze conversations as other services store them
	if err := busClient.Subscribe(bus.SubjectConversationStored, proc.HandleConversationStored); err != nil {
		slog.Error("failed to subscribe to conversation events", "error", err)
		os.Exit(1)
	}

	// Sweep picks up anything the event path missed
	sweeper := processor.NewSweeper(proc, cfg.SweepInterval, cfg.SweepBatchSize, slog.Default())
	go sweeper.Run(ctx)

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, db, proc, busClient, m, analyzer.LexiconVersion(), slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if err := busClient.Publish(bus.SubjectServiceRegistered, map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      cfg.Port,
		"lexicon":   analyzer.LexiconVersion(),
	}); err != nil {
		slog.Warn("failed to publish registration", "error", err)
	}

	slog.Info("scorecard ready", "port", cfg.Port, "sweep_interval", cfg.SweepInterval)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("scorecard stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
