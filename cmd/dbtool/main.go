package main

import (
	"context"
	"halfway-service/internal/adapters/cache"
	"halfway-service/internal/platform/db"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// dbtool prepares the Postgres place cache table ahead of running the server with CACHE_BACKEND=postgres.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	sqlDB, err := db.OpenPostgres(databaseURL)
	if err != nil {
		slog.Error("open database failed", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	slog.Info("initializing place cache schema")
	if err := cache.InitSchema(ctx, sqlDB, cache.DialectPostgres); err != nil {
		slog.Error("schema initialization failed", "error", err)
		sqlDB.Close()
		os.Exit(1)
	}
	slog.Info("schema ready")
}
