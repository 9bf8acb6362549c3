//go:build integration

package cache

import (
	"context"
	"halfway-service/internal/domain"
	"halfway-service/internal/platform/db"
	"os"
	"testing"
	"time"
)

func TestSQLPlaceCache_Integration(t *testing.T) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	sqlDB, err := db.OpenPostgres(databaseURL)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	defer sqlDB.Close()

	ctx := context.Background()
	if err := InitSchema(ctx, sqlDB, DialectPostgres); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	c := NewSQLPlaceCache(sqlDB, time.Hour)
	key := "integration|" + time.Now().Format(time.RFC3339Nano)

	want := []domain.Place{{Name: "Test Place", Coordinates: domain.Coordinates{Lat: 33.45, Lon: -112.07}}}
	if err := c.Put(ctx, key, want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || len(got) != 1 || got[0].Name != "Test Place" {
		t.Fatalf("got %+v ok=%v", got, ok)
	}

	if _, err := sqlDB.ExecContext(ctx, `DELETE FROM place_cache WHERE query_key = $1`, key); err != nil {
		t.Logf("cleanup failed: %v", err)
	}
}
