package handlers

import (
	"encoding/json"
	"errors"
	"halfway-service/internal/api/dto"
	"halfway-service/internal/domain"
	"halfway-service/internal/services"
	"io"
	"log/slog"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "encode failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg})
}

// statusFor maps a core error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoResults):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrGeocodeFailed):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrLocationUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrSuperseded), errors.Is(err, domain.ErrSessionClosed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) dto.ErrorResponse {
	if errors.Is(err, services.ErrSessionNotFound) {
		return dto.ErrorResponse{Error: "session not found", Kind: "session_not_found"}
	}

	kind := domain.Kind(err)
	if kind == "internal" {
		return dto.ErrorResponse{Error: "internal server error", Kind: kind}
	}
	return dto.ErrorResponse{Error: err.Error(), Kind: kind}
}

// writeDomainError reports a core failure with its kind so clients can tell
// "no matches" from "search service failed".
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, r, status, errorBody(err))
}

// decodeJSON reads exactly one JSON object from the request body.
// An empty body leaves v untouched when allowEmpty is set.
func decodeJSON(r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}
