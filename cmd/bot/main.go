package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/SAIZENtm1/tgbot/internal/config"
	"github.com/SAIZENtm1/tgbot/internal/server"
	"github.com/SAIZENtm1/tgbot/internal/server/routes"
	"github.com/SAIZENtm1/tgbot/internal/storage"
	"github.com/SAIZENtm1/tgbot/internal/survey"
	"github.com/SAIZENtm1/tgbot/internal/telegram"
	"github.com/SAIZENtm1/tgbot/pkg/votepublisher"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, closeStore, err := buildStore(ctx, cfg.Storage)
	if err != nil {
		slog.Error("Failed to build vote store", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("Vote store ready", "backend", cfg.Storage.Backend)

	messenger, err := telegram.New(cfg.BotToken)
	if err != nil {
		slog.Error("Failed to build telegram client", "error", err)
		os.Exit(1)
	}
	slog.Info("Telegram client ready", "bot", messenger.Username())

	router := survey.NewRouter(log, messenger, store, survey.RouterOptions{
		SingleVote:  cfg.Survey.SingleVote,
		Location:    cfg.Survey.Location(),
		CallTimeout: cfg.Survey.RequestTimeout,
		Publisher:   buildPublisher(cfg.VoteEvents),
	})
	router.Bootstrap(ctx)

	srv := server.New(log)
	srv.RegisterRouter(routes.NewWebhookRoutes(router, cfg.WebhookSecret))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()
	slog.Info("Starting webhook server", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	case sig := <-quit:
		slog.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}

func buildStore(ctx context.Context, cfg config.StorageConfig) (storage.VoteStore, func(), error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				slog.Error("Failed to close vote store", "error", err)
			}
		}, nil
	default:
		store, err := storage.NewSheetsStore(ctx, storage.SheetsConfig{
			SpreadsheetID:   cfg.SpreadsheetID,
			CredentialsJSON: cfg.CredentialsJSON,
			CredentialsFile: cfg.CredentialsFile,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

func buildPublisher(cfg config.VoteEventsConfig) survey.VotePublisher {
	if cfg.Endpoint == "" {
		return nil
	}
	return votepublisher.Client{Endpoint: cfg.Endpoint, Token: cfg.Token}
}
