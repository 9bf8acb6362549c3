package domain

import "math"

// metersPerDegreeLat is the length of one degree of latitude on the WGS84 mean sphere.
const metersPerDegreeLat = 111_320.0

// Immutable geographic coordinates (latitude, longitude) in decimal degrees.
// No range validation is applied; any float64 pair is accepted.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Span is the extent of a region in degrees.
type Span struct {
	LatDelta float64
	LonDelta float64
}

// RegionHint bounds a geocode query to a rectangle centered on Center.
type RegionHint struct {
	Center Coordinates
	Span   Span
}

// RegionAround builds a region hint whose half-extent is radiusMeters in each direction.
func RegionAround(center Coordinates, radiusMeters float64) RegionHint {
	latDelta := 2 * radiusMeters / metersPerDegreeLat

	// cos(lat) collapses to zero at the poles; clamp so the longitude span stays finite.
	cos := math.Cos(center.Lat * math.Pi / 180)
	if math.Abs(cos) < 0.01 {
		cos = 0.01
	}

	return RegionHint{
		Center: center,
		Span: Span{
			LatDelta: latDelta,
			LonDelta: latDelta / math.Abs(cos),
		},
	}
}

// SpanRadiusMeters converts a degree span to the radius (half the latitude extent) in meters.
func SpanRadiusMeters(s Span) float64 {
	return s.LatDelta / 2 * metersPerDegreeLat
}

// Bounds returns the (min, max) corners of the region.
func (r RegionHint) Bounds() (lo Coordinates, hi Coordinates) {
	halfLat := r.Span.LatDelta / 2
	halfLon := r.Span.LonDelta / 2

	lo = Coordinates{Lat: r.Center.Lat - halfLat, Lon: r.Center.Lon - halfLon}
	hi = Coordinates{Lat: r.Center.Lat + halfLat, Lon: r.Center.Lon + halfLon}
	return lo, hi
}
