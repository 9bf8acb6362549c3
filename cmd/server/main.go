package main

import (
	"context"
	"errors"
	"fmt"
	"halfway-service/internal/adapters/cache"
	"halfway-service/internal/adapters/geocoder"
	"halfway-service/internal/adapters/locator"
	"halfway-service/internal/api"
	"halfway-service/internal/config"
	"halfway-service/internal/domain"
	"halfway-service/internal/platform/db"
	"halfway-service/internal/platform/graceful"
	"halfway-service/internal/ports"
	"halfway-service/internal/services"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
)

const janitorInterval = time.Minute

// main is the application composition root.
// It wires concrete adapters (geocoder, place cache, locator) behind ports and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.NewLogger())

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	g, err := newGeocoder(cfg)
	if err != nil {
		return err
	}

	placeCache, closeCache, err := newPlaceCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()
	if placeCache != nil {
		g = geocoder.NewCachingGeocoder(g, placeCache)
	}

	defaults := services.SearchDefaults{
		Category:     cfg.Search.Category,
		RadiusMeters: cfg.SearchRadiusMeters(),
	}
	searcher := services.NewNearbySearcher(g, cfg.Search.Timeout)
	sessions := services.NewSessions(services.SessionDeps{
		Geocoder: g,
		Locator:  locator.NewStaticLocator(cfg.DevicePosition()),
		Notifier: logResult,
		Logger:   slog.Default(),
		Defaults: defaults,
		Timeout:  cfg.Search.Timeout,
	}, cfg.Session.IdleTimeout)
	defer sessions.CloseAll()

	go sessions.RunJanitor(ctx, janitorInterval)

	// WriteTimeout leaves room for a full search timeout on a cold cache.
	srv := &http.Server{
		Addr:              cfg.GetServerAddr(),
		Handler:           api.NewRouter(sessions, searcher, defaults),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Search.Timeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening",
			"addr", srv.Addr,
			"geocoder", cfg.Geocoder.Provider,
			"cache", cfg.Cache.Backend,
			"category", defaults.Category,
			"radius_m", defaults.RadiusMeters,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server shut down cleanly")
	return nil
}

func newGeocoder(cfg *config.Config) (ports.Geocoder, error) {
	gc := cfg.Geocoder
	switch gc.Provider {
	case "nominatim":
		n, err := geocoder.NewNominatimGeocoder(gc.NominatimBaseURL, gc.NominatimUserAgent, gc.ResultLimit)
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		o, err := geocoder.NewORSGeocoder(gc.ORSAPIKey, gc.ORSBaseURL, gc.ResultLimit)
		if err != nil {
			return nil, err
		}
		return o, nil
	}
}

// newPlaceCache opens the configured cache backend. A nil cache means caching is off.
func newPlaceCache(ctx context.Context, cfg *config.Config) (ports.PlaceCache, func(), error) {
	cc := cfg.Cache
	noop := func() {}

	switch cc.Backend {
	case "sqlite":
		if dir := filepath.Dir(cc.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, noop, fmt.Errorf("place cache: create %q: %w", dir, err)
			}
		}
		sqlDB, err := db.OpenSQLite(cc.DBPath)
		if err != nil {
			return nil, noop, err
		}
		if err := cache.InitSchema(ctx, sqlDB, cache.DialectSQLite); err != nil {
			_ = sqlDB.Close()
			return nil, noop, err
		}
		return cache.NewSqlitePlaceCache(sqlDB, cc.TTL), func() { _ = sqlDB.Close() }, nil

	case "postgres":
		sqlDB, err := db.OpenPostgres(cc.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := cache.InitSchema(ctx, sqlDB, cache.DialectPostgres); err != nil {
			_ = sqlDB.Close()
			return nil, noop, err
		}
		return cache.NewSQLPlaceCache(sqlDB, cc.TTL), func() { _ = sqlDB.Close() }, nil

	case "redis":
		opts, err := redis.ParseURL(cc.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("place cache: parse REDIS_URL: %w", err)
		}
		cli := redis.NewClient(opts)
		if err := cli.Ping(ctx).Err(); err != nil {
			_ = cli.Close()
			return nil, noop, fmt.Errorf("place cache: ping redis: %w", err)
		}
		return cache.NewRedisPlaceCache(cli, cc.TTL), func() { _ = cli.Close() }, nil

	default:
		return nil, noop, nil
	}
}

// logResult is the session notifier: every delivered search result ends up in the log.
func logResult(sessionID string, res services.SearchResult) {
	attrs := []any{
		"session_id", sessionID,
		"seq", res.Seq,
		"kind", string(res.Kind),
		"query", res.Query,
		"places", len(res.Places),
	}
	if res.Center != nil {
		attrs = append(attrs, "lat", res.Center.Lat, "lon", res.Center.Lon)
	}
	if res.Err != nil {
		attrs = append(attrs, "error_kind", domain.Kind(res.Err), "error", res.Err)
	}
	slog.Info("search result delivered", attrs...)
}
