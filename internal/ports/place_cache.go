package ports

import (
	"context"
	"halfway-service/internal/domain"
)

// Port: a boundary for caching geocoder responses by query key.
type PlaceCache interface {
	// Return cached places for key. ok is false on a miss.
	Get(ctx context.Context, key string) (places []domain.Place, ok bool, err error)
	// Store places under key, replacing any previous entry.
	Put(ctx context.Context, key string, places []domain.Place) error
}
