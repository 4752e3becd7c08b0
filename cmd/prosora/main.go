package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/prosora-labs/prosora/internal/api"
	"github.com/prosora-labs/prosora/internal/artifacts"
	"github.com/prosora-labs/prosora/internal/composer"
	"github.com/prosora-labs/prosora/internal/config"
	"github.com/prosora-labs/prosora/internal/events"
	"github.com/prosora-labs/prosora/internal/fetcher"
	"github.com/prosora-labs/prosora/internal/insight"
	"github.com/prosora-labs/prosora/internal/llm"
	"github.com/prosora-labs/prosora/internal/pipeline"
	"github.com/prosora-labs/prosora/internal/query"
	"github.com/prosora-labs/prosora/internal/scoring"
	"github.com/prosora-labs/prosora/internal/slack"
	"github.com/prosora-labs/prosora/internal/source"
	"github.com/prosora-labs/prosora/internal/store"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("prosora starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Source registry: no sources, no service.
	registry, err := source.Load(cfg.SourcesPath)
	if err != nil {
		slog.Error("failed to load source registry", "path", cfg.SourcesPath, "error", err)
		os.Exit(1)
	}
	slog.Info("source registry loaded", "sources", registry.Len())

	// LLM client
	if cfg.APIKey() == "" {
		slog.Error("LLM API key is required", "provider", cfg.LLMProvider)
		os.Exit(1)
	}
	var client llm.Client
	if cfg.LLMProvider == "openai" {
		client = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	} else {
		client = llm.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	client = llm.NewRateLimited(client, cfg.LLMMinInterval)
	slog.Info("llm client ready", "provider", cfg.LLMProvider, "min_interval", cfg.LLMMinInterval)

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
	slog.Info("database connected")

	// NATS
	bus, err := events.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer bus.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	// Slack reviewer is optional; without it drafts stay pending until
	// reviewed through the API.
	var reviewer pipeline.Reviewer
	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		reviewer = slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, slog.Default())
		slog.Info("slack reviewer ready", "channel", cfg.SlackChannel)
	} else {
		slog.Warn("slack not configured, review via API only")
	}

	classifier := query.NewClassifier(query.DefaultKeywords())
	feeds := fetcher.New(db, slog.Default())
	engine := insight.NewEngine(client, slog.Default())
	comp := composer.New(client, slog.Default())
	archiver := artifacts.NewWriter(cfg.DataDir, slog.Default())

	pl, err := pipeline.New(registry, classifier, feeds, engine, comp, db, reviewer, bus, archiver, scoring.DefaultWeights, slog.Default())
	if err != nil {
		slog.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	// Reactions from the review channel drive the approvals ledger.
	if err := bus.Subscribe(events.SubjectSlackReaction, pl.HandleReaction); err != nil {
		slog.Error("failed to subscribe to slack reactions", "error", err)
		os.Exit(1)
	}

	// HTTP API
	srv := api.NewProsoraServer(cfg.Port, cfg.APIToken, pl, db, registry, scoring.DefaultWeights)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if err := bus.Publish("prosora.service.registered", map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      cfg.Port,
		"sources":   registry.Len(),
	}); err != nil {
		slog.Warn("failed to publish registration", "error", err)
	}

	slog.Info("prosora ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("prosora stopped")
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
