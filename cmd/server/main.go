package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grc-integrator/internal/app"
	"grc-integrator/internal/config"
	"grc-integrator/internal/database"
	"grc-integrator/internal/handlers"
	"grc-integrator/internal/logger"
	"grc-integrator/internal/server"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.Init(cfg.DBDSN, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to initialize database", zap.Error(err))
	}
	if err := database.EnsureAdmin(db, cfg.AdminUsername, cfg.AdminPassword, zapLogger); err != nil {
		zapLogger.Fatal("failed to seed admin", zap.Error(err))
	}

	a := app.New(cfg, db, zapLogger)
	h := handlers.New(db, a.Store, a.Orchestrator, a.Evaluations, zapLogger)
	r := server.NewRouter(cfg, db, h, zapLogger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("shutting down server")

	// синхронизация может идти долго: даём ей дойти до конца
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zapLogger.Info("server stopped")
}
