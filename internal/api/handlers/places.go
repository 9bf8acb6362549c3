package handlers

import (
	"fmt"
	"halfway-service/internal/api/dto"
	"halfway-service/internal/domain"
	"halfway-service/internal/services"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// PlaceHandler exposes stateless search endpoints.
type PlaceHandler struct {
	Searcher *services.NearbySearcher
	Defaults services.SearchDefaults
}

// Search resolves ?q= to places.
func (h *PlaceHandler) Search(w http.ResponseWriter, r *http.Request) {
	places, err := h.Searcher.SearchText(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListPlacesResponse{Places: dto.FromPlaces(places)})
}

// Nearby searches for ?category= places within ?radius_m= of (?lat=, ?lon=).
// category and radius_m fall back to the configured defaults.
func (h *PlaceHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := parseFloatParam(q.Get("lat"), "lat")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	lon, err := parseFloatParam(q.Get("lon"), "lon")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	category := strings.TrimSpace(q.Get("category"))
	if category == "" {
		category = h.Defaults.Category
	}

	radius := h.Defaults.RadiusMeters
	if raw := q.Get("radius_m"); raw != "" {
		radius, err = parseFloatParam(raw, "radius_m")
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	center := domain.Coordinates{Lat: lat, Lon: lon}
	places, err := h.Searcher.SearchNearby(r.Context(), center, category, radius)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListPlacesResponse{Places: dto.FromPlaces(places)})
}

func parseFloatParam(raw, name string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a finite number", name)
	}
	return v, nil
}
