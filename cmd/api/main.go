package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clarity-backend/internal/bootstrap"
	"clarity-backend/internal/shared/config"
	"clarity-backend/internal/shared/server"
	"clarity-backend/internal/shared/storage/db"
	"clarity-backend/internal/shared/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	defer telemetry.Sync()
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		fatal("api.bootstrap_failed", err)
	}
	if app.DB != nil && cfg.Env != "production" {
		if err := db.RunMigrations(context.Background(), app.DB); err != nil {
			fatal("api.migrations_failed", err)
		}
	}

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		telemetry.Info("api.listening", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("api.server_error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Error("api.shutdown_failed", map[string]any{"error": err})
	}
}

func fatal(event string, err error) {
	telemetry.Error(event, map[string]any{"error": err})
	telemetry.Sync()
	os.Exit(1)
}
