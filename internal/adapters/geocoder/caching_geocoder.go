package geocoder

import (
	"context"
	"halfway-service/internal/domain"
	"halfway-service/internal/ports"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// sharedCallTimeout bounds an upstream call shared by concurrent callers.
const sharedCallTimeout = 30 * time.Second

// CachingGeocoder wraps a Geocoder with a persistent PlaceCache.
//
// Concurrent misses for the same query share one upstream call. Only
// non-empty successful results are cached. Cache failures are logged and
// never fail a resolve.
//
// The shared call does not inherit any one caller's cancellation: a caller
// that gives up leaves early without failing the others waiting on the key.
type CachingGeocoder struct {
	inner   ports.Geocoder
	cache   ports.PlaceCache
	group   singleflight.Group
	timeout time.Duration
}

func NewCachingGeocoder(inner ports.Geocoder, cache ports.PlaceCache) *CachingGeocoder {
	return &CachingGeocoder{inner: inner, cache: cache, timeout: sharedCallTimeout}
}

func (c *CachingGeocoder) Resolve(ctx context.Context, q domain.SearchQuery) ([]domain.Place, error) {
	key := q.CacheKey()

	places, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "place cache read failed", "key", key, "error", err)
	} else if ok {
		return places, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		fresh, err := c.inner.Resolve(callCtx, q)
		if err != nil {
			return nil, err
		}

		if len(fresh) > 0 {
			if err := c.cache.Put(callCtx, key, fresh); err != nil {
				slog.WarnContext(callCtx, "place cache write failed", "key", key, "error", err)
			}
		}
		return fresh, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		shared := res.Val.([]domain.Place)
		out := make([]domain.Place, len(shared))
		copy(out, shared)
		return out, nil
	}
}
