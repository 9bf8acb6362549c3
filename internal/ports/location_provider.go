package ports

import (
	"context"
	"halfway-service/internal/domain"
)

// Contract for the device location service.
type LocationProvider interface {
	// Return the current device coordinates.
	CurrentLocation(ctx context.Context) (domain.Coordinates, error)
}
