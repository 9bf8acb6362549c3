package config

import (
	"errors"
	"fmt"
	"halfway-service/internal/domain"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config holds all configuration for the service.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Geocoder GeocoderConfig
	Cache    CacheConfig
	Search   SearchConfig
	Session  SessionConfig
	Device   DeviceConfig

	// loadErrs holds values Load could not parse; Validate reports them.
	loadErrs []error
}

type ServerConfig struct {
	Port int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

type GeocoderConfig struct {
	Provider           string // ors, nominatim
	ORSAPIKey          string
	ORSBaseURL         string
	NominatimBaseURL   string
	NominatimUserAgent string
	ResultLimit        int
}

type CacheConfig struct {
	Backend     string // none, sqlite, postgres, redis
	DBPath      string
	DatabaseURL string
	RedisURL    string
	TTL         time.Duration
}

// SearchConfig holds the nearby-search defaults. Category and one of
// RadiusMeters / SpanDegrees must be set; there is no built-in default.
type SearchConfig struct {
	Category     string
	RadiusMeters float64
	SpanDegrees  float64
	Timeout      time.Duration
}

type SessionConfig struct {
	IdleTimeout time.Duration
}

// DeviceConfig is the position reported by the static location provider.
type DeviceConfig struct {
	Lat *float64
	Lon *float64
}

// Load reads .env (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found (using environment variables)")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("geocoder", "ors")
	v.SetDefault("geocoder_result_limit", 10)
	v.SetDefault("nominatim_user_agent", "halfway-service/1.0")
	v.SetDefault("cache_backend", "none")
	v.SetDefault("db_path", "data/cache.db")
	v.SetDefault("cache_ttl", "24h")
	v.SetDefault("search_timeout", "5s")
	v.SetDefault("session_idle_timeout", "30m")

	cfg := &Config{
		Server: ServerConfig{Port: v.GetInt("port")},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Geocoder: GeocoderConfig{
			Provider:           strings.ToLower(strings.TrimSpace(v.GetString("geocoder"))),
			ORSAPIKey:          v.GetString("ors_api_key"),
			ORSBaseURL:         v.GetString("ors_base_url"),
			NominatimBaseURL:   v.GetString("nominatim_base_url"),
			NominatimUserAgent: v.GetString("nominatim_user_agent"),
			ResultLimit:        v.GetInt("geocoder_result_limit"),
		},
		Cache: CacheConfig{
			Backend:     strings.ToLower(strings.TrimSpace(v.GetString("cache_backend"))),
			DBPath:      v.GetString("db_path"),
			DatabaseURL: v.GetString("database_url"),
			RedisURL:    v.GetString("redis_url"),
			TTL:         v.GetDuration("cache_ttl"),
		},
		Search: SearchConfig{
			Category:     strings.TrimSpace(v.GetString("search_category")),
			RadiusMeters: v.GetFloat64("search_radius_meters"),
			SpanDegrees:  v.GetFloat64("search_span_degrees"),
			Timeout:      v.GetDuration("search_timeout"),
		},
		Session: SessionConfig{
			IdleTimeout: v.GetDuration("session_idle_timeout"),
		},
	}

	device, err := parseDevice(v)
	if err != nil {
		cfg.loadErrs = append(cfg.loadErrs, err)
	}
	cfg.Device = device

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings and cross-field constraints.
func (c *Config) Validate() error {
	errs := append([]error(nil), c.loadErrs...)

	switch c.Geocoder.Provider {
	case "ors":
		if strings.TrimSpace(c.Geocoder.ORSAPIKey) == "" {
			errs = append(errs, errors.New("ORS_API_KEY is required when GEOCODER=ors"))
		}
	case "nominatim":
		if strings.TrimSpace(c.Geocoder.NominatimUserAgent) == "" {
			errs = append(errs, errors.New("NOMINATIM_USER_AGENT is required when GEOCODER=nominatim"))
		}
	default:
		errs = append(errs, fmt.Errorf("GEOCODER must be ors or nominatim, got %q", c.Geocoder.Provider))
	}

	switch c.Cache.Backend {
	case "", "none", "sqlite":
	case "postgres":
		if strings.TrimSpace(c.Cache.DatabaseURL) == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when CACHE_BACKEND=postgres"))
		}
	case "redis":
		if strings.TrimSpace(c.Cache.RedisURL) == "" {
			errs = append(errs, errors.New("REDIS_URL is required when CACHE_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("CACHE_BACKEND must be none, sqlite, postgres or redis, got %q", c.Cache.Backend))
	}

	if c.Search.Category == "" {
		errs = append(errs, errors.New("SEARCH_CATEGORY is required"))
	}
	switch {
	case c.Search.RadiusMeters > 0 && c.Search.SpanDegrees > 0:
		errs = append(errs, errors.New("set only one of SEARCH_RADIUS_METERS and SEARCH_SPAN_DEGREES"))
	case c.Search.RadiusMeters <= 0 && c.Search.SpanDegrees <= 0:
		errs = append(errs, errors.New("one of SEARCH_RADIUS_METERS or SEARCH_SPAN_DEGREES is required"))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Server.Port))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// parseDevice reads DEVICE_LAT and DEVICE_LON. Both or neither must be set.
func parseDevice(v *viper.Viper) (DeviceConfig, error) {
	latSet, lonSet := v.IsSet("device_lat"), v.IsSet("device_lon")
	if !latSet && !lonSet {
		return DeviceConfig{}, nil
	}
	if !latSet || !lonSet {
		return DeviceConfig{}, errors.New("DEVICE_LAT and DEVICE_LON must be set together")
	}

	lat, err := parseDegrees("DEVICE_LAT", v.Get("device_lat"))
	if err != nil {
		return DeviceConfig{}, err
	}
	lon, err := parseDegrees("DEVICE_LON", v.Get("device_lon"))
	if err != nil {
		return DeviceConfig{}, err
	}
	return DeviceConfig{Lat: &lat, Lon: &lon}, nil
}

func parseDegrees(key string, raw any) (float64, error) {
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %v is not a number: %w", key, raw, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be finite, got %v", key, raw)
	}
	return f, nil
}

// SearchRadiusMeters returns the configured radius, converting a degree span when that is what was set.
func (c *Config) SearchRadiusMeters() float64 {
	if c.Search.RadiusMeters > 0 {
		return c.Search.RadiusMeters
	}
	return domain.SpanRadiusMeters(domain.Span{LatDelta: c.Search.SpanDegrees, LonDelta: c.Search.SpanDegrees})
}

// DevicePosition returns the configured device position, or nil when unset.
func (c *Config) DevicePosition() *domain.Coordinates {
	if c.Device.Lat == nil || c.Device.Lon == nil {
		return nil
	}
	return &domain.Coordinates{Lat: *c.Device.Lat, Lon: *c.Device.Lon}
}

// GetServerAddr returns the server address in the format ":port"
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger creates a new slog.Logger based on the configuration
func (c *Config) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default: // "text" or anything else
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
