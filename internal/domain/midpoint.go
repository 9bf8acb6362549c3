package domain

import "fmt"

// Midpoint returns the arithmetic mean of the latitudes and longitudes of locs.
//
// Components are summed in a single left-to-right pass so results are
// reproducible for a given input order. An empty input is a precondition
// violation and returns ErrInvalidArgument; the result is never NaN for that case.
func Midpoint(locs []Coordinates) (Coordinates, error) {
	if len(locs) == 0 {
		return Coordinates{}, fmt.Errorf("midpoint: no locations: %w", ErrInvalidArgument)
	}

	var totalLat, totalLon float64
	for _, c := range locs {
		totalLat += c.Lat
		totalLon += c.Lon
	}

	n := float64(len(locs))
	return Coordinates{Lat: totalLat / n, Lon: totalLon / n}, nil
}
