package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/spotcircuit/dmv-test/internal/catalog"
	"github.com/spotcircuit/dmv-test/internal/domain/section"
	"github.com/spotcircuit/dmv-test/internal/infrastructure/config"
	"github.com/spotcircuit/dmv-test/internal/service"
	"github.com/spotcircuit/dmv-test/internal/store"
	"github.com/spotcircuit/dmv-test/internal/telegram"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	sessions, err := store.New(storeCtx, cfg.SessionStore, cfg.SessionDSN)
	cancel()
	if err != nil {
		logger.Error("failed to open session store", "store", cfg.SessionStore, "error", err)
		os.Exit(1)
	}
	defer sessions.Close()

	sampler := section.NewSampler(nil, logger)
	cat := catalog.New(catalog.Options{
		Path:         cfg.QuestionsPath,
		ImagePrefix:  cfg.ImagePrefix,
		AssetDir:     cfg.AssetDir,
		AuditWorkers: cfg.AuditWorkers,
	}, sampler, logger)

	if _, err := cat.Reload(ctx); err != nil {
		logger.Warn("initial question bank load failed", "error", err)
	}

	quiz := service.NewQuizService(cat, sampler, sessions, logger)
	go quiz.RunJanitor(ctx, time.Hour, cfg.SessionTTL)

	api, err := tgbotapi.NewBotAPI(cfg.MustTelegramToken())
	if err != nil {
		logger.Error("failed to connect to telegram", "error", err)
		os.Exit(1)
	}
	logger.Info("authorized on telegram", "account", api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down bot")
		api.StopReceivingUpdates()
	}()

	telegram.NewBot(api, quiz, cfg.AssetDir, logger).Run(ctx, updates)
}
