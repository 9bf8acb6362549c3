package cache

import (
	"context"
	"errors"
	"fmt"
	"halfway-service/internal/domain"
	"halfway-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "halfway:place:"

// RedisPlaceCache stores geocoder results as JSON strings with a Redis-side expiry.
type RedisPlaceCache struct {
	cli *redis.Client
	ttl time.Duration
}

func NewRedisPlaceCache(cli *redis.Client, ttl time.Duration) *RedisPlaceCache {
	return &RedisPlaceCache{cli: cli, ttl: ttl}
}

func (r *RedisPlaceCache) Get(ctx context.Context, key string) (_ []domain.Place, _ bool, err error) {
	defer obs.Time(ctx, "place.cache.Get")(&err)

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, nil
	}

	b, err := r.cli.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get redis place cache key=%q: %w", key, err)
	}

	places, err := decodePlaces(b)
	if err != nil {
		return nil, false, fmt.Errorf("get redis place cache key=%q: %w", key, err)
	}
	return places, true, nil
}

func (r *RedisPlaceCache) Put(ctx context.Context, key string, places []domain.Place) (err error) {
	defer obs.Time(ctx, "place.cache.Put")(&err)

	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("insert redis place cache: empty query key")
	}

	payload, err := encodePlaces(places)
	if err != nil {
		return fmt.Errorf("insert redis place cache key=%q: %w", key, err)
	}

	// A zero ttl keeps the key without expiry.
	if err := r.cli.Set(ctx, redisKeyPrefix+key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("insert redis place cache key=%q: %w", key, err)
	}
	return nil
}
