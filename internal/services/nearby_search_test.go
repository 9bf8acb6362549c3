package services

import (
	"context"
	"errors"
	"halfway-service/internal/adapters/geocoder"
	"halfway-service/internal/domain"
	"testing"
	"time"
)

func TestSearchNearbyReturnsPlacesInOrder(t *testing.T) {
	want := []domain.Place{
		{Name: "First", Coordinates: domain.Coordinates{Lat: 1, Lon: 1}},
		{Name: "Second", Coordinates: domain.Coordinates{Lat: 2, Lon: 2}},
	}
	stub := geocoder.NewStubGeocoder(map[string]geocoder.StubResponse{
		"Restaurants": {Places: want},
	})
	s := NewNearbySearcher(stub, time.Second)

	center := domain.Coordinates{Lat: 1.5, Lon: 1.5}
	got, err := s.SearchNearby(context.Background(), center, "Restaurants", 10_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d places, want 2", len(got))
	}
	for i := range want {
		if got[i].Name != want[i].Name || got[i].Coordinates != want[i].Coordinates {
			t.Fatalf("place[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	calls := stub.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if calls[0].Region == nil || calls[0].Region.Center != center {
		t.Fatalf("region hint = %+v, want center %+v", calls[0].Region, center)
	}
}

func TestSearchNearbyDistinguishesNoResultsFromFailure(t *testing.T) {
	stub := geocoder.NewStubGeocoder(map[string]geocoder.StubResponse{
		"empty":  {Places: nil},
		"broken": {Err: errors.New("service unavailable")},
	})
	s := NewNearbySearcher(stub, time.Second)
	ctx := context.Background()

	_, err := s.SearchNearby(ctx, domain.Coordinates{}, "empty", 100)
	if !errors.Is(err, domain.ErrNoResults) || errors.Is(err, domain.ErrGeocodeFailed) {
		t.Fatalf("empty: err = %v, want only ErrNoResults", err)
	}

	_, err = s.SearchNearby(ctx, domain.Coordinates{}, "broken", 100)
	if !errors.Is(err, domain.ErrGeocodeFailed) || errors.Is(err, domain.ErrNoResults) {
		t.Fatalf("broken: err = %v, want only ErrGeocodeFailed", err)
	}
}

func TestSearchNearbyTimeoutIsGeocodeFailed(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)

	stub := geocoder.NewStubGeocoder(map[string]geocoder.StubResponse{
		"slow": {Gate: gate},
	})
	s := NewNearbySearcher(stub, 20*time.Millisecond)

	_, err := s.SearchNearby(context.Background(), domain.Coordinates{}, "slow", 100)
	if !errors.Is(err, domain.ErrGeocodeFailed) {
		t.Fatalf("err = %v, want ErrGeocodeFailed", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want wrapped context.DeadlineExceeded", err)
	}
}

func TestSearchNearbyInvalidArguments(t *testing.T) {
	s := NewNearbySearcher(geocoder.NewStubGeocoder(nil), 0)
	ctx := context.Background()

	tests := []struct {
		name     string
		category string
		radius   float64
	}{
		{name: "blank category", category: "  ", radius: 100},
		{name: "zero radius", category: "Food", radius: 0},
		{name: "negative radius", category: "Food", radius: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SearchNearby(ctx, domain.Coordinates{}, tt.category, tt.radius)
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestSearchTextUnbounded(t *testing.T) {
	stub := geocoder.NewStubGeocoder(map[string]geocoder.StubResponse{
		"central park": {Places: []domain.Place{{Name: "Central Park"}}},
	})
	s := NewNearbySearcher(stub, time.Second)

	places, err := s.SearchText(context.Background(), "Central   Park")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("got %d places, want 1", len(places))
	}
	if calls := stub.Calls(); calls[0].Region != nil {
		t.Fatalf("free-text search sent a region hint")
	}

	if _, err := s.SearchText(context.Background(), ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}
