package api

import (
	"halfway-service/internal/api/handlers"
	"halfway-service/internal/services"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	sessions *services.Sessions,
	searcher *services.NearbySearcher,
	defaults services.SearchDefaults,
) http.Handler {
	r := mux.NewRouter()

	placeHandler := &handlers.PlaceHandler{Searcher: searcher, Defaults: defaults}
	sessionHandler := &handlers.SessionHandler{Sessions: sessions}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/places", placeHandler.Search).Methods(http.MethodGet)
	r.HandleFunc("/places/nearby", placeHandler.Nearby).Methods(http.MethodGet)

	r.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)

	s := r.PathPrefix("/sessions/{id}").Subrouter()
	s.HandleFunc("", sessionHandler.Delete).Methods(http.MethodDelete)
	s.HandleFunc("/locations", sessionHandler.ListLocations).Methods(http.MethodGet)
	s.HandleFunc("/locations", sessionHandler.AddLocation).Methods(http.MethodPost)
	s.HandleFunc("/locations", sessionHandler.ResetLocations).Methods(http.MethodDelete)
	s.HandleFunc("/locations/current", sessionHandler.AddCurrentLocation).Methods(http.MethodPost)
	s.HandleFunc("/search", sessionHandler.Search).Methods(http.MethodGet)
	s.HandleFunc("/search", sessionHandler.CancelSearch).Methods(http.MethodDelete)
	s.HandleFunc("/midpoint", sessionHandler.Midpoint).Methods(http.MethodGet)
	s.HandleFunc("/midpoint/search", sessionHandler.SearchMidpoint).Methods(http.MethodPost)
	s.HandleFunc("/results/latest", sessionHandler.LatestResult).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return requestIDMiddleware(loggingMiddleware(r))
}
