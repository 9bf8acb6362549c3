package locator

import (
	"context"
	"fmt"
	"halfway-service/internal/domain"
)

// StaticLocator reports a fixed, configured device position.
// A locator built without a position behaves like a denied location permission.
type StaticLocator struct {
	coords *domain.Coordinates
}

func NewStaticLocator(coords *domain.Coordinates) *StaticLocator {
	return &StaticLocator{coords: coords}
}

func (s *StaticLocator) CurrentLocation(ctx context.Context) (domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, fmt.Errorf("current location: %w: %w", domain.ErrLocationUnavailable, err)
	}
	if s.coords == nil {
		return domain.Coordinates{}, fmt.Errorf("current location: no device position configured: %w", domain.ErrLocationUnavailable)
	}
	return *s.coords, nil
}
