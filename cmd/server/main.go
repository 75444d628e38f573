package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spotcircuit/dmv-test/internal/api"
	"github.com/spotcircuit/dmv-test/internal/catalog"
	"github.com/spotcircuit/dmv-test/internal/domain/section"
	"github.com/spotcircuit/dmv-test/internal/infrastructure/config"
	"github.com/spotcircuit/dmv-test/internal/service"
	"github.com/spotcircuit/dmv-test/internal/store"

	_ "github.com/spotcircuit/dmv-test/docs" // generated swagger docs
)

// @title           DMV Test Trainer API
// @version         1.0
// @description     Practice and test modes for the DMV knowledge test: stratified question sampling, scoring and results.

// @host      localhost:3022
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Dependencies ────────────────────────────────────────────────
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

	// A failed startup load is not fatal; the first request retries it.
	if _, err := cat.Reload(ctx); err != nil {
		logger.Warn("initial question bank load failed", "error", err)
	}

	quiz := service.NewQuizService(cat, sampler, sessions, logger)
	go quiz.RunJanitor(ctx, time.Hour, cfg.SessionTTL)

	if cfg.UsesDevSecret() {
		logger.Warn("SESSION_SECRET not set, using development secret")
	}
	cookies := api.NewSessionCookies(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	handler := api.NewHandler(quiz, cookies, cfg.ReloadTokenHash, logger)

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr: cfg.ServerAddress,
		Handler: api.NewRouter(handler, api.RouterOptions{
			CORSOrigins: cfg.CORSOrigins,
			AssetDir:    cfg.AssetDir,
		}, logger),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress, "session_store", cfg.SessionStore)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
