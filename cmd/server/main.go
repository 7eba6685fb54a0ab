package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/nandozscx/acopiapp/internal/config"
	"github.com/nandozscx/acopiapp/internal/repository/sheets"
	"github.com/nandozscx/acopiapp/internal/scheduler"
	"github.com/nandozscx/acopiapp/internal/server/handlers"
	"github.com/nandozscx/acopiapp/internal/server/router"
	assistantsvc "github.com/nandozscx/acopiapp/internal/service/assistant"
	registrysvc "github.com/nandozscx/acopiapp/internal/service/registry"
	reportingsvc "github.com/nandozscx/acopiapp/internal/service/reporting"
	summarysvc "github.com/nandozscx/acopiapp/internal/service/summary"
	"github.com/nandozscx/acopiapp/internal/storage"
	"github.com/nandozscx/acopiapp/pkg/clients/anthropic"
	"github.com/nandozscx/acopiapp/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := storage.Open(cfg.Store.DataDir, cfg.Store.LegacySaturdayProvider, baseLogger.Named("repo.store"))
	if err != nil {
		baseLogger.Fatal("failed to open slot store", zap.Error(err))
	}

	registry := registrysvc.NewService(store, baseLogger.Named("svc.registry"))
	summary := summarysvc.NewService(store, baseLogger.Named("svc.summary"))

	var aiClient anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		aiClient = anthropic.NewClient(cfg.AI.AnthropicKey)
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, ai assistant and reports disabled")
	}

	assistant := assistantsvc.NewService(aiClient, registry, baseLogger.Named("svc.assistant"))
	reporting := reportingsvc.NewService(store, summary, aiClient, baseLogger.Named("svc.reporting"))

	if cfg.SheetsEnabled() {
		mirror, err := sheets.NewMirror(context.Background(), cfg.Sheets, store, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets mirror", zap.Error(err))
		}
		store.Subscribe(mirror.OnSlotChange)
		baseLogger.Info("sheets mirror enabled")
	}

	handler := handlers.New(registry, summary, assistant, reporting, store, baseLogger.Named("handlers"))
	engine := router.New(handler, cfg.Metrics.Enabled, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, reporting, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
