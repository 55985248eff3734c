package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"
	"strings"

	"clarity-backend/internal/shared/config"
	"clarity-backend/internal/shared/storage/db"
	"clarity-backend/internal/shared/telemetry"
)

func main() {
	defer telemetry.Sync()
	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFor(db.ProfileMigrate)
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		telemetry.Sync()
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		telemetry.Sync()
		os.Exit(1)
	}
	names, err := db.MigrationNames()
	if err != nil {
		telemetry.Warn("migrate.list_failed", map[string]any{"error": err})
	}
	telemetry.Info("migrate.completed", map[string]any{
		"migrations": len(names),
		"tables":     strings.Join(db.Tables, ","),
	})
}
