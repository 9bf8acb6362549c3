package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"halfway-service/internal/domain"
	"halfway-service/internal/platform/obs"
	"strings"
	"time"
)

// SQLPlaceCache is a Postgres-backed cache mapping query keys to geocoder results.
// Entries older than TTL are reported as misses; a zero TTL never expires.
type SQLPlaceCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLPlaceCache(db *sql.DB, ttl time.Duration) *SQLPlaceCache {
	return &SQLPlaceCache{DB: db, TTL: ttl}
}

// Fetch cached places for the given query key.
func (s *SQLPlaceCache) Get(
	ctx context.Context,
	key string,
) (_ []domain.Place, _ bool, err error) {
	defer obs.Time(ctx, "place.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("place cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, nil
	}

	q := `
	SELECT places, created_at
    FROM place_cache
    WHERE query_key = $1;
	`

	var payload []byte
	var createdAt time.Time
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get place cache: query place_cache table: %w", err)
	}

	if s.TTL > 0 && time.Since(createdAt) > s.TTL {
		return nil, false, nil
	}

	places, err := decodePlaces(payload)
	if err != nil {
		return nil, false, fmt.Errorf("get place cache key=%q: %w", key, err)
	}

	return places, true, nil
}

// Store query key -> places in the cache.
func (s *SQLPlaceCache) Put(ctx context.Context, key string, places []domain.Place) (err error) {
	defer obs.Time(ctx, "place.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("place cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("insert place cache: empty query key")
	}

	payload, err := encodePlaces(places)
	if err != nil {
		return fmt.Errorf("insert place cache key=%q: %w", key, err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO place_cache (query_key, places, created_at)
    VALUES ($1, $2::jsonb, now())
	ON CONFLICT (query_key) DO UPDATE
	SET places = EXCLUDED.places,
		created_at = EXCLUDED.created_at;
	`, key, string(payload))
	if err != nil {
		return fmt.Errorf("insert place cache key=%q: %w", key, err)
	}

	return nil
}
