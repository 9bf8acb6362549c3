package dto

import "halfway-service/internal/domain"

type CoordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type PlaceResponse struct {
	Name        string              `json:"name"`
	Title       *string             `json:"title,omitempty"`
	Coordinates CoordinatesResponse `json:"coordinates"`
}

type ListPlacesResponse struct {
	Places []PlaceResponse `json:"places"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func FromCoordinates(c domain.Coordinates) CoordinatesResponse {
	return CoordinatesResponse{Lat: c.Lat, Lon: c.Lon}
}

func FromPlace(p domain.Place) PlaceResponse {
	return PlaceResponse{
		Name:        p.Name,
		Title:       p.Title,
		Coordinates: FromCoordinates(p.Coordinates),
	}
}

func FromPlaces(places []domain.Place) []PlaceResponse {
	out := make([]PlaceResponse, 0, len(places))
	for _, p := range places {
		out = append(out, FromPlace(p))
	}
	return out
}
