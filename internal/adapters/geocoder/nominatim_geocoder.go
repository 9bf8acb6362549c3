package geocoder

import (
	"context"
	"errors"
	"fmt"
	"halfway-service/internal/domain"
	"halfway-service/internal/platform/obs"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// API Docs: https://nominatim.org/release-docs/develop/api/Search/
const defaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

// NominatimGeocoder implements ports.Geocoder against an OpenStreetMap Nominatim server.
// Region hints become a bounded viewbox.
type NominatimGeocoder struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limit      int
}

func NewNominatimGeocoder(baseURL, userAgent string, limit int) (*NominatimGeocoder, error) {
	// The public server's usage policy rejects anonymous clients.
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("nominatim user agent is empty")
	}

	if baseURL == "" {
		baseURL = defaultNominatimBaseURL
	}
	if limit <= 0 {
		limit = defaultResultSize
	}

	return &NominatimGeocoder{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		limit:      limit,
	}, nil
}

func (n *NominatimGeocoder) Resolve(ctx context.Context, q domain.SearchQuery) (_ []domain.Place, err error) {
	defer obs.Time(ctx, "nominatim.Resolve")(&err)

	text := domain.NormalizeQuery(q.Text)
	if text == "" {
		return nil, fmt.Errorf("nominatim resolve: query text must be non-empty: %w", domain.ErrInvalidArgument)
	}

	params := url.Values{}
	params.Set("q", text)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(n.limit))
	params.Set("accept-language", "en")
	if q.Region != nil {
		lo, hi := q.Region.Bounds()
		params.Set("viewbox", strings.Join([]string{
			formatDegrees(lo.Lon), formatDegrees(hi.Lat),
			formatDegrees(hi.Lon), formatDegrees(lo.Lat),
		}, ","))
		params.Set("bounded", "1")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("nominatim resolve: create request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := do(n.httpClient, req)
	if err != nil {
		return nil, fmt.Errorf("nominatim resolve %q: execute request: %w", text, err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nominatim resolve %q: read response: %w", text, err)
	}

	if !gjson.ValidBytes(b) {
		return nil, fmt.Errorf("nominatim resolve %q: invalid JSON", text)
	}
	root := gjson.ParseBytes(b)
	if !root.IsArray() {
		return nil, fmt.Errorf("nominatim resolve %q: expected array response", text)
	}

	out := make([]domain.Place, 0, len(root.Array()))
	for i, item := range root.Array() {
		lat, err := strconv.ParseFloat(item.Get("lat").String(), 64)
		if err != nil {
			return nil, fmt.Errorf("nominatim resolve %q: result %d: parse lat: %w", text, i, err)
		}
		lon, err := strconv.ParseFloat(item.Get("lon").String(), 64)
		if err != nil {
			return nil, fmt.Errorf("nominatim resolve %q: result %d: parse lon: %w", text, i, err)
		}

		display := strings.TrimSpace(item.Get("display_name").String())
		name := strings.TrimSpace(item.Get("name").String())
		if name == "" {
			name, _, _ = strings.Cut(display, ",")
		}

		p := domain.Place{
			Name:        name,
			Coordinates: domain.Coordinates{Lat: lat, Lon: lon},
		}
		if display != "" {
			p.Title = &display
		}
		out = append(out, p)
	}

	return out, nil
}
