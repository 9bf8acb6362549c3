package services

import (
	"context"
	"errors"
	"fmt"
	"halfway-service/internal/domain"
	"halfway-service/internal/ports"
)

// resolve calls the geocoder and separates technical failure from an empty answer.
//
// Geocoder errors (including timeouts and cancellation) wrap ErrGeocodeFailed;
// a successful call with no places wraps ErrNoResults.
func resolve(ctx context.Context, g ports.Geocoder, q domain.SearchQuery) ([]domain.Place, error) {
	places, err := g.Resolve(ctx, q)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve %q: %w: %w", q.Text, domain.ErrGeocodeFailed, err)
	}

	if len(places) == 0 {
		return nil, fmt.Errorf("resolve %q: %w", q.Text, domain.ErrNoResults)
	}

	return places, nil
}
