package cache

import (
	"encoding/json"
	"fmt"
	"halfway-service/internal/domain"
)

// placeRecord is the persisted shape of a domain.Place.
type placeRecord struct {
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Title *string `json:"title,omitempty"`
}

func encodePlaces(places []domain.Place) ([]byte, error) {
	recs := make([]placeRecord, 0, len(places))
	for _, p := range places {
		recs = append(recs, placeRecord{
			Name:  p.Name,
			Lat:   p.Coordinates.Lat,
			Lon:   p.Coordinates.Lon,
			Title: p.Title,
		})
	}

	b, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("encode places: %w", err)
	}
	return b, nil
}

func decodePlaces(b []byte) ([]domain.Place, error) {
	var recs []placeRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("decode places: %w", err)
	}

	out := make([]domain.Place, 0, len(recs))
	for _, r := range recs {
		out = append(out, domain.Place{
			Name:        r.Name,
			Coordinates: domain.Coordinates{Lat: r.Lat, Lon: r.Lon},
			Title:       r.Title,
		})
	}
	return out, nil
}
