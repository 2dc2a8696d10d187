package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"crewhub/internal/auth"
	"crewhub/internal/config"
	"crewhub/internal/db"
	"crewhub/internal/email"
	"crewhub/internal/events"
	"crewhub/internal/jobs"
	"crewhub/internal/metrics"
	"crewhub/internal/moderation"
	"crewhub/internal/region"
	"crewhub/internal/server"
	"crewhub/internal/validation"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		fatal("invalid configuration", err)
	}

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		fatal("failed to load YAML config", err)
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		fatal("failed to run migrations", err)
	}
	slog.Info("migrations completed successfully")

	if cfg.IsDev() {
		if err := database.SeedDevCrew(ctx); err != nil {
			slog.Warn("failed to seed development crew", "error", err)
		}
	}

	metrics.Init(database)

	images, err := validation.NewImageRules(yamlCfg.StorageHosts(cfg), yamlCfg.Storage.PathPatterns, yamlCfg.Storage.MaxPhotos)
	if err != nil {
		fatal("invalid image storage rules", err)
	}

	// Notifications
	mailer := email.NewNotifier(cfg, yamlCfg, database)
	notifiers := moderation.Notifiers{mailer}
	if cfg.IsKafkaEnabled() {
		publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
		slog.Info("publishing edit request events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	service := moderation.NewService(database, database, moderation.NewCollector(images), notifiers, logger)

	if cfg.ReminderInterval > 0 {
		go jobs.NewPendingReminder(database, mailer, cfg.ReminderInterval, cfg.ReminderMaxAge).Start(ctx)
	}

	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, server.Deps{
		DB:         database,
		YAML:       yamlCfg,
		Moderation: service,
		Tokens:     auth.NewTokenIssuer(cfg.CrewTokenSecret, cfg.CrewTokenTTL),
		Regions:    region.NewClassifier(yamlCfg.Regions.Aliases),
	}); err != nil {
		fatal("failed to register routes", err)
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	cancel()
	if err := srv.Shutdown(); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	slog.Info("server exited")
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.IsDev() {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
