package domain

import "errors"

// Error kinds reported by the core. Callers match them with errors.Is.
var (
	// The underlying search service call errored or timed out.
	ErrGeocodeFailed = errors.New("geocode failed")
	// The search service answered but returned no places.
	ErrNoResults = errors.New("no results")
	// A precondition was violated, e.g. the midpoint of an empty set.
	ErrInvalidArgument = errors.New("invalid argument")
	// The device location service denied or failed the request.
	ErrLocationUnavailable = errors.New("location unavailable")
	// A newer search started before this one completed.
	ErrSuperseded = errors.New("search superseded")
	// The session was closed.
	ErrSessionClosed = errors.New("session closed")
)

// Kind returns a stable name for the error kind wrapped by err, or "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrNoResults):
		return "no_results"
	case errors.Is(err, ErrGeocodeFailed):
		return "geocode_failed"
	case errors.Is(err, ErrLocationUnavailable):
		return "location_unavailable"
	case errors.Is(err, ErrSuperseded):
		return "superseded"
	case errors.Is(err, ErrSessionClosed):
		return "session_closed"
	default:
		return "internal"
	}
}
