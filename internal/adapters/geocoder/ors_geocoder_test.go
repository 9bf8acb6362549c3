package geocoder

import (
	"context"
	"errors"
	"halfway-service/internal/domain"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestORSGeocoderResolve(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geocode/search" {
			t.Errorf("path = %q, want /geocode/search", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "test-key" {
			t.Errorf("Authorization = %q, want test-key", r.Header.Get("Authorization"))
		}

		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"features": [
				{"geometry": {"coordinates": [-112.07, 33.45]}, "properties": {"name": "Cafe One", "label": "Cafe One, Phoenix, AZ"}},
				{"geometry": {"coordinates": [-112.05, 33.46]}, "properties": {"name": "", "label": "Unnamed Diner, Phoenix, AZ"}}
			]
		}`))
	}))
	defer srv.Close()

	g, err := NewORSGeocoder("test-key", srv.URL, 5)
	if err != nil {
		t.Fatalf("new geocoder: %v", err)
	}

	region := domain.RegionAround(domain.Coordinates{Lat: 33.45, Lon: -112.07}, 1000)
	places, err := g.Resolve(context.Background(), domain.SearchQuery{Text: "  cafe  ", Region: &region})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery["text"] != "cafe" {
		t.Fatalf("text = %q, want cafe", gotQuery["text"])
	}
	if gotQuery["size"] != "5" {
		t.Fatalf("size = %q, want 5", gotQuery["size"])
	}
	for _, k := range []string{"focus.point.lat", "focus.point.lon", "boundary.rect.min_lat", "boundary.rect.max_lon"} {
		if gotQuery[k] == "" {
			t.Fatalf("missing query parameter %q", k)
		}
	}

	if len(places) != 2 {
		t.Fatalf("got %d places, want 2", len(places))
	}
	if places[0].Name != "Cafe One" || places[0].Coordinates != (domain.Coordinates{Lat: 33.45, Lon: -112.07}) {
		t.Fatalf("first place = %+v", places[0])
	}
	if places[0].TitleOrEmpty() != "Cafe One, Phoenix, AZ" {
		t.Fatalf("first title = %q", places[0].TitleOrEmpty())
	}
	if places[1].Name != "Unnamed Diner, Phoenix, AZ" {
		t.Fatalf("second name = %q, want label fallback", places[1].Name)
	}
}

func TestORSGeocoderNoRegion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("focus.point.lat") != "" {
			t.Errorf("unexpected focus point without region")
		}
		_, _ = w.Write([]byte(`{"features": []}`))
	}))
	defer srv.Close()

	g, _ := NewORSGeocoder("k", srv.URL, 0)
	places, err := g.Resolve(context.Background(), domain.SearchQuery{Text: "nowhere"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 0 {
		t.Fatalf("got %d places, want 0", len(places))
	}
}

func TestORSGeocoderStatusError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g, _ := NewORSGeocoder("k", srv.URL, 0)
	_, err := g.Resolve(context.Background(), domain.SearchQuery{Text: "cafe"})

	var he *httpStatusError
	if !errors.As(err, &he) {
		t.Fatalf("err = %v, want httpStatusError", err)
	}
	if he.Code != http.StatusTooManyRequests {
		t.Fatalf("code = %d, want 429", he.Code)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want exactly 1 (no retries)", calls)
	}
}

func TestORSGeocoderEmptyQuery(t *testing.T) {
	g, _ := NewORSGeocoder("k", "http://127.0.0.1:0", 0)
	_, err := g.Resolve(context.Background(), domain.SearchQuery{Text: "   "})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestNewORSGeocoderRequiresKey(t *testing.T) {
	if _, err := NewORSGeocoder("", "", 0); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}
