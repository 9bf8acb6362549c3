package geocoder

import (
	"context"
	"halfway-service/internal/domain"
	"strings"
	"sync"
)

// Canned answer for one query text.
type StubResponse struct {
	Places []domain.Place
	Err    error
	// Gate, when set, holds the call until it is closed or the context ends.
	Gate <-chan struct{}
}

// StubGeocoder answers from a fixed table keyed by normalized, lower-cased query text.
// Unknown queries resolve to no places.
type StubGeocoder struct {
	mu        sync.Mutex
	responses map[string]StubResponse
	calls     []domain.SearchQuery
}

func NewStubGeocoder(responses map[string]StubResponse) *StubGeocoder {
	m := make(map[string]StubResponse, len(responses))
	for k, v := range responses {
		m[stubKey(k)] = v
	}
	return &StubGeocoder{responses: m}
}

func stubKey(s string) string {
	return strings.ToLower(domain.NormalizeQuery(s))
}

func (s *StubGeocoder) Resolve(ctx context.Context, q domain.SearchQuery) ([]domain.Place, error) {
	s.mu.Lock()
	s.calls = append(s.calls, q)
	r := s.responses[stubKey(q.Text)]
	s.mu.Unlock()

	if r.Gate != nil {
		select {
		case <-r.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if r.Err != nil {
		return nil, r.Err
	}

	out := make([]domain.Place, len(r.Places))
	copy(out, r.Places)
	return out, nil
}

// Calls returns the queries received so far.
func (s *StubGeocoder) Calls() []domain.SearchQuery {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.SearchQuery, len(s.calls))
	copy(out, s.calls)
	return out
}
