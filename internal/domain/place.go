package domain

import (
	"fmt"
	"math"
	"strings"
)

// A named, located point of interest returned by a geocoder.
type Place struct {
	Name        string
	Coordinates Coordinates
	// Title is the optional secondary line (full label or street address).
	Title *string
}

// TitleOrEmpty returns the place title, or "" when the geocoder gave none.
func (p Place) TitleOrEmpty() string {
	if p.Title == nil {
		return ""
	}
	return *p.Title
}

// Transient free-text query with an optional bounding region.
type SearchQuery struct {
	Text   string
	Region *RegionHint
}

// NormalizeQuery collapses whitespace so equivalent queries share cache keys.
func NormalizeQuery(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CacheKey returns a stable key for the query. Region values are rounded to 1e-5 degrees.
func (q SearchQuery) CacheKey() string {
	text := strings.ToLower(NormalizeQuery(q.Text))
	if q.Region == nil {
		return text
	}

	r := q.Region
	return fmt.Sprintf(
		"%s|%.5f,%.5f|%.5f,%.5f",
		text,
		round5(r.Center.Lat), round5(r.Center.Lon),
		round5(r.Span.LatDelta), round5(r.Span.LonDelta),
	)
}

func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}
