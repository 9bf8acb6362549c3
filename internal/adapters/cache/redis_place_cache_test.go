package cache

import (
	"context"
	"halfway-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisCache(t *testing.T, ttl time.Duration) (*RedisPlaceCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cli := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cli.Close() })

	return NewRedisPlaceCache(cli, ttl), mr
}

func TestRedisPlaceCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t, time.Minute)

	want := []domain.Place{{Name: "Diner", Coordinates: domain.Coordinates{Lat: 10, Lon: 20}}}
	if err := c.Put(ctx, "diner", want); err != nil {
		t.Fatalf("put: %v", err)
	}

	if !mr.Exists(redisKeyPrefix + "diner") {
		t.Fatalf("expected key %q in redis", redisKeyPrefix+"diner")
	}

	got, ok, err := c.Get(ctx, "diner")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || len(got) != 1 || got[0].Name != "Diner" || got[0].Coordinates != want[0].Coordinates {
		t.Fatalf("got %+v ok=%v", got, ok)
	}
}

func TestRedisPlaceCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t, time.Minute)

	if err := c.Put(ctx, "diner", []domain.Place{{Name: "Diner"}}); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "diner")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected miss after expiry")
	}
}

func TestRedisPlaceCacheServerDown(t *testing.T) {
	c, mr := newTestRedisCache(t, time.Minute)
	mr.Close()

	if _, _, err := c.Get(context.Background(), "diner"); err == nil {
		t.Fatalf("expected error when redis is unavailable")
	}
}
