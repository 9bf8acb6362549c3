package dto

import "time"

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

type AddLocationRequest struct {
	Query string `json:"query"`
}

type AddLocationResponse struct {
	Place PlaceResponse `json:"place"`
	Count int           `json:"count"`
}

type AddCurrentLocationResponse struct {
	Coordinates CoordinatesResponse `json:"coordinates"`
	Count       int                 `json:"count"`
}

type ListLocationsResponse struct {
	Locations []CoordinatesResponse `json:"locations"`
	Count     int                   `json:"count"`
}

type MidpointResponse struct {
	Midpoint CoordinatesResponse `json:"midpoint"`
	Count    int                 `json:"count"`
}

type MidpointSearchRequest struct {
	Category string  `json:"category"`
	RadiusM  float64 `json:"radius_m"`
}

type SearchResultResponse struct {
	Seq      uint64               `json:"seq"`
	Kind     string               `json:"kind"`
	Query    string               `json:"query"`
	Midpoint *CoordinatesResponse `json:"midpoint,omitempty"`
	Places   []PlaceResponse      `json:"places"`
	Error    *ErrorResponse       `json:"error,omitempty"`
	At       time.Time            `json:"at"`
}
