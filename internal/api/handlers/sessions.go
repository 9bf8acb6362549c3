package handlers

import (
	"halfway-service/internal/api/dto"
	"halfway-service/internal/services"
	"net/http"

	"github.com/gorilla/mux"
)

// SessionHandler exposes the per-user halfway flow: collect locations,
// compute their midpoint and search around it.
type SessionHandler struct {
	Sessions *services.Sessions
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*services.Session, bool) {
	s, err := h.Sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, r, err)
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Create()
	writeJSON(w, r, http.StatusCreated, dto.CreateSessionResponse{SessionID: s.ID})
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Delete(mux.Vars(r)["id"]); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	locs := s.Locations()
	res := dto.ListLocationsResponse{
		Locations: make([]dto.CoordinatesResponse, 0, len(locs)),
		Count:     len(locs),
	}
	for _, c := range locs {
		res.Locations = append(res.Locations, dto.FromCoordinates(c))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *SessionHandler) AddLocation(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.AddLocationRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	place, err := s.AddLocation(r.Context(), req.Query)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.AddLocationResponse{
		Place: dto.FromPlace(place),
		Count: len(s.Locations()),
	})
}

func (h *SessionHandler) AddCurrentLocation(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	c, err := s.AddCurrentLocation(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.AddCurrentLocationResponse{
		Coordinates: dto.FromCoordinates(c),
		Count:       len(s.Locations()),
	})
}

func (h *SessionHandler) ResetLocations(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Search(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	places, err := s.SearchPlaces(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListPlacesResponse{Places: dto.FromPlaces(places)})
}

func (h *SessionHandler) CancelSearch(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.CancelSearch()
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Midpoint(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	mid, err := s.Midpoint()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.MidpointResponse{
		Midpoint: dto.FromCoordinates(mid),
		Count:    len(s.Locations()),
	})
}

func (h *SessionHandler) SearchMidpoint(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.MidpointSearchRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.RadiusM < 0 {
		writeError(w, r, http.StatusBadRequest, "radius_m must be positive")
		return
	}

	res, err := s.SearchMidpoint(r.Context(), req.Category, req.RadiusM)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toSearchResultResponse(res))
}

func (h *SessionHandler) LatestResult(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	res, ok := s.LastResult()
	if !ok {
		writeError(w, r, http.StatusNotFound, "no search has completed yet")
		return
	}

	writeJSON(w, r, http.StatusOK, toSearchResultResponse(res))
}

func toSearchResultResponse(res services.SearchResult) dto.SearchResultResponse {
	out := dto.SearchResultResponse{
		Seq:    res.Seq,
		Kind:   string(res.Kind),
		Query:  res.Query,
		Places: dto.FromPlaces(res.Places),
		At:     res.At,
	}
	if res.Center != nil {
		mid := dto.FromCoordinates(*res.Center)
		out.Midpoint = &mid
	}
	if res.Err != nil {
		body := errorBody(res.Err)
		out.Error = &body
	}
	return out
}
