package ports

import (
	"context"
	"halfway-service/internal/domain"
)

// Contract for resolving free-text queries to places.
type Geocoder interface {
	// Return zero or more candidate places in provider order.
	// An empty slice with a nil error means the provider found no match.
	Resolve(ctx context.Context, q domain.SearchQuery) ([]domain.Place, error)
}
