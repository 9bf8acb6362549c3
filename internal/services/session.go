package services

import (
	"context"
	"errors"
	"fmt"
	"halfway-service/internal/domain"
	"halfway-service/internal/ports"
	"log/slog"
	"sync"
	"time"
)

type SearchKind string

const (
	KindPlaces      SearchKind = "places"
	KindAddLocation SearchKind = "add_location"
	KindNearby      SearchKind = "nearby"
)

// SearchResult is the outcome of one completed, non-superseded search.
type SearchResult struct {
	Seq    uint64
	Kind   SearchKind
	Query  string
	Center *domain.Coordinates
	Places []domain.Place
	Err    error
	At     time.Time
}

// Notifier receives every delivered SearchResult. It runs on the goroutine
// that completed the search; the receiver moves work to its own execution
// context if it needs one. It must not call back into the session.
type Notifier func(sessionID string, res SearchResult)

// Defaults applied by a Session when the caller gives no category or radius.
type SearchDefaults struct {
	Category     string
	RadiusMeters float64
}

// Session holds the state of one user's halfway search: the collected
// locations and the latest search result.
type Session struct {
	ID string

	store    *domain.LocationStore
	runner   *SearchRunner
	geocoder ports.Geocoder
	nearby   *NearbySearcher
	locator  ports.LocationProvider
	defaults SearchDefaults
	notify   Notifier
	logger   *slog.Logger
	now      func() time.Time

	mu         sync.Mutex
	last       *SearchResult
	lastActive time.Time
}

type SessionDeps struct {
	Geocoder ports.Geocoder
	Locator  ports.LocationProvider
	Notifier Notifier
	Logger   *slog.Logger
	Defaults SearchDefaults
	// Timeout bounds each geocoder call made by the session.
	Timeout time.Duration
}

func NewSession(id string, deps SessionDeps) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		ID:       id,
		store:    domain.NewLocationStore(),
		runner:   NewSearchRunner(deps.Timeout),
		geocoder: deps.Geocoder,
		nearby:   NewNearbySearcher(deps.Geocoder, 0),
		locator:  deps.Locator,
		defaults: deps.Defaults,
		notify:   deps.Notifier,
		logger:   logger.With("session_id", id),
		now:      time.Now,
	}
	s.lastActive = s.now()
	return s
}

// publish records res as the latest result and hands it to the notifier.
func (s *Session) publish(res SearchResult) {
	s.mu.Lock()
	s.last = &res
	s.mu.Unlock()

	if s.notify != nil {
		s.notify(s.ID, res)
	}
}

// deliverer builds the runner callback that publishes a result.
func (s *Session) deliverer(kind SearchKind, query string, center *domain.Coordinates) func(uint64, []domain.Place, error) {
	return func(seq uint64, places []domain.Place, err error) {
		s.publish(SearchResult{
			Seq:    seq,
			Kind:   kind,
			Query:  query,
			Center: center,
			Places: places,
			Err:    err,
			At:     s.now(),
		})
	}
}

// AddLocation geocodes query and appends the first match to the session's locations.
// The returned place is the match that was appended.
func (s *Session) AddLocation(ctx context.Context, query string) (domain.Place, error) {
	s.touch()

	text := domain.NormalizeQuery(query)
	if text == "" {
		return domain.Place{}, fmt.Errorf("add location: query must be non-empty: %w", domain.ErrInvalidArgument)
	}

	// Appended under the runner lock: a superseded or reset search never adds its location.
	deliver := s.deliverer(KindAddLocation, text, nil)
	places, err := s.runner.Run(ctx, func(ctx context.Context) ([]domain.Place, error) {
		return resolve(ctx, s.geocoder, domain.SearchQuery{Text: text})
	}, func(seq uint64, places []domain.Place, err error) {
		if err == nil {
			s.store.Append(places[0].Coordinates)
		}
		deliver(seq, places, err)
	})
	if err != nil {
		s.logger.InfoContext(ctx, "add location failed", "query", text, "kind", domain.Kind(err), "error", err)
		return domain.Place{}, fmt.Errorf("add location: %w", err)
	}

	first := places[0]
	s.logger.InfoContext(ctx, "location added",
		"query", text,
		"name", first.Name,
		"lat", first.Coordinates.Lat,
		"lon", first.Coordinates.Lon,
		"count", s.store.Count(),
	)

	return first, nil
}

// AddCurrentLocation appends the device position reported by the location provider.
func (s *Session) AddCurrentLocation(ctx context.Context) (domain.Coordinates, error) {
	s.touch()

	if s.locator == nil {
		return domain.Coordinates{}, fmt.Errorf("add current location: no location provider: %w", domain.ErrLocationUnavailable)
	}

	c, err := s.locator.CurrentLocation(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrLocationUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrLocationUnavailable, err)
		}
		return domain.Coordinates{}, fmt.Errorf("add current location: %w", err)
	}

	s.store.Append(c)
	s.logger.InfoContext(ctx, "current location added", "lat", c.Lat, "lon", c.Lon, "count", s.store.Count())
	return c, nil
}

// SearchPlaces runs a free-text search without changing the session's locations.
func (s *Session) SearchPlaces(ctx context.Context, query string) ([]domain.Place, error) {
	s.touch()

	text := domain.NormalizeQuery(query)
	if text == "" {
		return nil, fmt.Errorf("search places: query must be non-empty: %w", domain.ErrInvalidArgument)
	}

	places, err := s.runner.Run(ctx, func(ctx context.Context) ([]domain.Place, error) {
		return resolve(ctx, s.geocoder, domain.SearchQuery{Text: text})
	}, s.deliverer(KindPlaces, text, nil))
	if err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}
	return places, nil
}

// Midpoint returns the mean of the session's locations.
func (s *Session) Midpoint() (domain.Coordinates, error) {
	s.touch()

	locs := s.store.All()
	mid, err := domain.Midpoint(locs)
	if err != nil {
		return domain.Coordinates{}, err
	}

	var latSum, lonSum float64
	for _, c := range locs {
		latSum += c.Lat
		lonSum += c.Lon
	}

	s.logger.Debug("midpoint computed",
		"lat_sum", latSum,
		"lon_sum", lonSum,
		"lat", mid.Lat,
		"lon", mid.Lon,
		"count", len(locs),
		"locations", locs,
	)
	return mid, nil
}

// SearchMidpoint computes the midpoint and searches for category places around it.
// An empty category or non-positive radius falls back to the session defaults.
func (s *Session) SearchMidpoint(ctx context.Context, category string, radiusMeters float64) (SearchResult, error) {
	mid, err := s.Midpoint()
	if err != nil {
		return SearchResult{}, fmt.Errorf("search midpoint: %w", err)
	}

	if category == "" {
		category = s.defaults.Category
	}
	if radiusMeters <= 0 {
		radiusMeters = s.defaults.RadiusMeters
	}

	var delivered SearchResult
	_, err = s.runner.Run(ctx, func(ctx context.Context) ([]domain.Place, error) {
		return s.nearby.SearchNearby(ctx, mid, category, radiusMeters)
	}, func(seq uint64, places []domain.Place, err error) {
		delivered = SearchResult{
			Seq:    seq,
			Kind:   KindNearby,
			Query:  category,
			Center: &mid,
			Places: places,
			Err:    err,
			At:     s.now(),
		}
		s.publish(delivered)
	})
	if err != nil {
		s.logger.InfoContext(ctx, "midpoint search failed", "category", category, "kind", domain.Kind(err), "error", err)
		return SearchResult{}, fmt.Errorf("search midpoint: %w", err)
	}

	s.logger.InfoContext(ctx, "midpoint search done",
		"category", category,
		"radius_m", radiusMeters,
		"lat", mid.Lat,
		"lon", mid.Lon,
		"places", len(delivered.Places),
	)
	return delivered, nil
}

// LastResult returns the most recently delivered search result.
func (s *Session) LastResult() (SearchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		return SearchResult{}, false
	}
	return *s.last, true
}

func (s *Session) Locations() []domain.Coordinates {
	s.touch()
	return s.store.All()
}

// Reset clears the session's locations and cancels any in-flight search.
func (s *Session) Reset() {
	s.touch()
	s.runner.cancelAnd(s.store.Reset)
}

// CancelSearch aborts the in-flight search, if any.
func (s *Session) CancelSearch() {
	s.touch()
	s.runner.Cancel()
}

// Close cancels any in-flight search. Later searches fail with ErrSessionClosed.
func (s *Session) Close() {
	s.runner.Close()
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = s.now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
