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

// SQLite backed cache mapping query keys to geocoder results.
// Keys are expected to be normalized by the caller (see domain.SearchQuery.CacheKey).
type SqlitePlaceCache struct {
	DB  *sql.DB
	TTL time.Duration

	now func() time.Time
}

func NewSqlitePlaceCache(db *sql.DB, ttl time.Duration) *SqlitePlaceCache {
	return &SqlitePlaceCache{DB: db, TTL: ttl, now: time.Now}
}

// Fetch cached places for the given query key.
func (s *SqlitePlaceCache) Get(ctx context.Context, key string) (_ []domain.Place, _ bool, err error) {
	defer obs.Time(ctx, "place.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("place cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, nil
	}

	var payload string
	var createdAt int64
	err = s.DB.QueryRowContext(ctx, `
	SELECT places, created_at
    FROM place_cache
    WHERE query_key = ?;
	`, key).Scan(&payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get place cache: query place_cache table: %w", err)
	}

	if s.TTL > 0 && s.now().Sub(time.Unix(createdAt, 0)) > s.TTL {
		return nil, false, nil
	}

	places, err := decodePlaces([]byte(payload))
	if err != nil {
		return nil, false, fmt.Errorf("get place cache key=%q: %w", key, err)
	}

	return places, true, nil
}

// Store query key -> places in the cache.
func (s *SqlitePlaceCache) Put(ctx context.Context, key string, places []domain.Place) (err error) {
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
	INSERT OR REPLACE INTO place_cache (
        query_key,
        places,
        created_at
    )
    VALUES (?, ?, ?);
	`, key, string(payload), s.now().Unix())
	if err != nil {
		return fmt.Errorf("insert place cache key=%q: %w", key, err)
	}

	return nil
}
