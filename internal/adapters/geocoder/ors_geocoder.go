package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"halfway-service/internal/domain"
	"halfway-service/internal/platform/obs"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultORSBaseURL = "https://api.openrouteservice.org"
	defaultResultSize = 10
)

// ORSGeocoder implements ports.Geocoder using the OpenRouteService
// /geocode/search endpoint. Region hints are sent as a focus point plus
// a bounding rectangle.
//
// The geocoder is safe for concurrent use.
type ORSGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
	size    int
}

func NewORSGeocoder(apiKey, baseURL string, size int) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	if baseURL == "" {
		baseURL = defaultORSBaseURL
	}
	if size <= 0 {
		size = defaultResultSize
	}

	return &ORSGeocoder{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		size:    size,
	}, nil
}

type orsSearchResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Name  string `json:"name"`
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// Resolve a free-text query to candidate places.
func (o *ORSGeocoder) Resolve(
	ctx context.Context,
	q domain.SearchQuery,
) (_ []domain.Place, err error) {
	defer obs.Time(ctx, "ors.Resolve")(&err)

	text := domain.NormalizeQuery(q.Text)
	if text == "" {
		return nil, fmt.Errorf("ors resolve: query text must be non-empty: %w", domain.ErrInvalidArgument)
	}

	req, err := o.newRequest(ctx, http.MethodGet, o.baseURL+"/geocode/search", nil)
	if err != nil {
		return nil, fmt.Errorf("ors resolve: %w", err)
	}

	params := req.URL.Query()
	params.Set("text", text)
	params.Set("size", strconv.Itoa(o.size))
	if q.Region != nil {
		lo, hi := q.Region.Bounds()
		params.Set("focus.point.lat", formatDegrees(q.Region.Center.Lat))
		params.Set("focus.point.lon", formatDegrees(q.Region.Center.Lon))
		params.Set("boundary.rect.min_lat", formatDegrees(lo.Lat))
		params.Set("boundary.rect.min_lon", formatDegrees(lo.Lon))
		params.Set("boundary.rect.max_lat", formatDegrees(hi.Lat))
		params.Set("boundary.rect.max_lon", formatDegrees(hi.Lon))
	}
	req.URL.RawQuery = params.Encode()

	resp, err := do(o.session, req)
	if err != nil {
		return nil, fmt.Errorf("ors resolve %q: execute request: %w", text, err)
	}
	defer resp.Body.Close()

	var decoded orsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("ors resolve %q: decode geocode response: %w", text, err)
	}

	out := make([]domain.Place, 0, len(decoded.Features))
	for i, f := range decoded.Features {
		coords := f.Geometry.Coordinates
		if len(coords) != 2 {
			return nil, fmt.Errorf("ors resolve %q: invalid coordinate format at feature %d", text, i)
		}

		p := domain.Place{
			Name:        f.Properties.Name,
			Coordinates: domain.Coordinates{Lon: coords[0], Lat: coords[1]},
		}
		if label := strings.TrimSpace(f.Properties.Label); label != "" {
			p.Title = &label
		}
		if p.Name == "" {
			p.Name = p.TitleOrEmpty()
		}
		out = append(out, p)
	}

	return out, nil
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
