package services

import (
	"context"
	"fmt"
	"halfway-service/internal/domain"
	"halfway-service/internal/platform/obs"
	"halfway-service/internal/ports"
	"math"
	"strings"
	"time"
)

// NearbySearcher issues category searches bounded to a region around a center point.
type NearbySearcher struct {
	Geocoder ports.Geocoder
	// Timeout bounds each search. Zero disables the bound.
	Timeout time.Duration
}

func NewNearbySearcher(g ports.Geocoder, timeout time.Duration) *NearbySearcher {
	return &NearbySearcher{Geocoder: g, Timeout: timeout}
}

// SearchNearby returns places matching category within radiusMeters of center,
// in the order the geocoder returned them.
//
// A failed or timed-out geocoder call returns ErrGeocodeFailed; an empty answer
// returns ErrNoResults.
func (s *NearbySearcher) SearchNearby(
	ctx context.Context,
	center domain.Coordinates,
	category string,
	radiusMeters float64,
) (_ []domain.Place, err error) {
	defer obs.Time(ctx, "nearby.SearchNearby")(&err)

	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("search nearby: category must be non-empty: %w", domain.ErrInvalidArgument)
	}
	if !(radiusMeters > 0) || math.IsInf(radiusMeters, 0) {
		return nil, fmt.Errorf("search nearby: radius %v must be positive: %w", radiusMeters, domain.ErrInvalidArgument)
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	region := domain.RegionAround(center, radiusMeters)
	places, err := resolve(ctx, s.Geocoder, domain.SearchQuery{Text: category, Region: &region})
	if err != nil {
		return nil, fmt.Errorf("search nearby: %w", err)
	}

	return places, nil
}

// SearchText runs an unbounded free-text search.
func (s *NearbySearcher) SearchText(ctx context.Context, query string) (_ []domain.Place, err error) {
	defer obs.Time(ctx, "nearby.SearchText")(&err)

	text := domain.NormalizeQuery(query)
	if text == "" {
		return nil, fmt.Errorf("search text: query must be non-empty: %w", domain.ErrInvalidArgument)
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	places, err := resolve(ctx, s.Geocoder, domain.SearchQuery{Text: text})
	if err != nil {
		return nil, fmt.Errorf("search text: %w", err)
	}
	return places, nil
}
