package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pipenotify/internal/config"
	"pipenotify/internal/notify"
	"pipenotify/internal/secrets"
	"pipenotify/internal/secrets/envstore"
	"pipenotify/internal/secrets/filestore"
	"pipenotify/internal/secrets/httpstore"
	"pipenotify/internal/server"
	"pipenotify/internal/slack"
	"pipenotify/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	shutdown, err := telemetry.InitTracer("pipenotify", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	cfg, err := config.Load(os.Getenv("PIPENOTIFY_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.HasWebhookSource() {
		// Startup proceeds; every invocation reports the configuration error.
		logger.Warn("no webhook source configured", slog.String("error", config.ErrNoWebhookSource.Error()))
	}

	resolver, err := newResolver(cfg)
	if err != nil {
		log.Fatalf("Failed to build secret resolver: %v", err)
	}

	source := notify.NewURLSource(cfg.Slack.WebhookURL, cfg.Slack.WebhookSecretID, resolver)
	client := slack.NewClient(
		slack.WithHTTPClient(&http.Client{Timeout: cfg.DeliveryTimeout()}),
	)
	service := notify.NewService(source, client, cfg.Slack.Channel, logger)

	srv := server.New(cfg.Server.Port, cfg.RequestTimeout(), service, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("pipenotify started",
		slog.String("channel", cfg.Slack.Channel),
		slog.String("environment", cfg.Environment),
		slog.String("region", cfg.Region),
		slog.String("secret_store", cfg.Secrets.Store),
	)

	if err := srv.Start(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("pipenotify shutdown complete")
}

func newResolver(cfg *config.Config) (secrets.Resolver, error) {
	switch cfg.Secrets.Store {
	case "", "env":
		return envstore.New(), nil
	case "file":
		return filestore.New(cfg.Secrets.File.Root)
	case "http":
		opts := []httpstore.Option{}
		if cfg.Secrets.HTTP.Token != "" {
			opts = append(opts, httpstore.WithToken(cfg.Secrets.HTTP.Token))
		}
		return httpstore.New(cfg.Secrets.HTTP.BaseURL, opts...)
	}
	return nil, fmt.Errorf("unknown secret store %q", cfg.Secrets.Store)
}
