package geocoder

import (
	"context"
	"halfway-service/internal/domain"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNominatimGeocoderResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		if r.Header.Get("User-Agent") != "halfway-test" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		q := r.URL.Query()
		if q.Get("q") != "pizza" || q.Get("format") != "jsonv2" || q.Get("bounded") != "1" {
			t.Errorf("unexpected query %v", q)
		}
		if parts := strings.Split(q.Get("viewbox"), ","); len(parts) != 4 {
			t.Errorf("viewbox = %q", q.Get("viewbox"))
		}

		_, _ = w.Write([]byte(`[
			{"lat": "40.7128", "lon": "-74.0060", "name": "Joe's Pizza", "display_name": "Joe's Pizza, Carmine Street, New York"},
			{"lat": "40.7130", "lon": "-74.0070", "name": "", "display_name": "Pizza Place, Bleecker Street, New York"}
		]`))
	}))
	defer srv.Close()

	g, err := NewNominatimGeocoder(srv.URL, "halfway-test", 5)
	if err != nil {
		t.Fatalf("new geocoder: %v", err)
	}

	region := domain.RegionAround(domain.Coordinates{Lat: 40.71, Lon: -74.0}, 2000)
	places, err := g.Resolve(context.Background(), domain.SearchQuery{Text: "pizza", Region: &region})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(places) != 2 {
		t.Fatalf("got %d places, want 2", len(places))
	}
	if places[0].Name != "Joe's Pizza" || places[0].Coordinates != (domain.Coordinates{Lat: 40.7128, Lon: -74.0060}) {
		t.Fatalf("first place = %+v", places[0])
	}
	if places[1].Name != "Pizza Place" {
		t.Fatalf("second name = %q, want display_name prefix", places[1].Name)
	}
	if places[1].TitleOrEmpty() != "Pizza Place, Bleecker Street, New York" {
		t.Fatalf("second title = %q", places[1].TitleOrEmpty())
	}
}

func TestNominatimGeocoderBadPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{not json`},
		{name: "object instead of array", body: `{"error": "x"}`},
		{name: "bad latitude", body: `[{"lat": "north", "lon": "1"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g, _ := NewNominatimGeocoder(srv.URL, "ua", 0)
			if _, err := g.Resolve(context.Background(), domain.SearchQuery{Text: "x"}); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNewNominatimGeocoderRequiresUserAgent(t *testing.T) {
	if _, err := NewNominatimGeocoder("", " ", 0); err == nil {
		t.Fatalf("expected error for empty user agent")
	}
}
