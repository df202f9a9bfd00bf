// Package config reads WeatherWatch settings from the environment.
package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/imLOstAU/WeatherWatch/internal/search"
	"github.com/imLOstAU/WeatherWatch/internal/weather"
)

// Config holds runtime settings. Zero values are never used; Load fills
// every field with its default first.
type Config struct {
	Port            string
	ForecastAPIURL  string
	GeocodingAPIURL string
	UserAgent       string
	HTTPTimeout     time.Duration
	UpstreamRPS     float64
	UpstreamBurst   int
	DefaultUnit     weather.Unit
	SearchDebounce  time.Duration
	Debug           bool
}

// Default returns the settings used when no variable is set.
func Default() *Config {
	return &Config{
		Port:            "8080",
		ForecastAPIURL:  weather.DefaultForecastBaseURL,
		GeocodingAPIURL: weather.DefaultGeocodingBaseURL,
		HTTPTimeout:     10 * time.Second,
		UpstreamRPS:     5,
		UpstreamBurst:   10,
		DefaultUnit:     weather.Celsius,
		SearchDebounce:  search.DefaultDelay,
	}
}

// Load reads the environment over Default. An unparseable value is an
// error naming the variable.
func Load() (*Config, error) {
	cfg := Default()

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("FORECAST_API_URL"); v != "" {
		cfg.ForecastAPIURL = v
	}
	if v := os.Getenv("GEOCODING_API_URL"); v != "" {
		cfg.GeocodingAPIURL = v
	}
	cfg.UserAgent = os.Getenv("WEATHERWATCH_USER_AGENT")

	var err error
	if cfg.HTTPTimeout, err = durationEnv("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return nil, err
	}
	if cfg.SearchDebounce, err = durationEnv("SEARCH_DEBOUNCE", cfg.SearchDebounce); err != nil {
		return nil, err
	}

	if v := os.Getenv("UPSTREAM_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid UPSTREAM_RPS %q: %w", v, err)
		}
		cfg.UpstreamRPS = rps
	}
	if v := os.Getenv("UPSTREAM_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 1 {
			return nil, fmt.Errorf("invalid UPSTREAM_BURST %q: must be a positive integer", v)
		}
		cfg.UpstreamBurst = burst
	}

	if v := os.Getenv("DEFAULT_UNIT"); v != "" {
		unit, err := weather.ParseUnit(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_UNIT: %w", err)
		}
		cfg.DefaultUnit = unit
	}

	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DEBUG %q: %w", v, err)
		}
		cfg.Debug = debug
	}

	return cfg, nil
}

// ClientOptions turns the upstream settings into weather.Client options.
func (c *Config) ClientOptions() []weather.Option {
	opts := []weather.Option{
		weather.WithForecastBaseURL(c.ForecastAPIURL),
		weather.WithGeocodingBaseURL(c.GeocodingAPIURL),
		weather.WithHTTPClient(&http.Client{Timeout: c.HTTPTimeout}),
		weather.WithRateLimit(c.UpstreamRPS, c.UpstreamBurst),
		weather.WithDebug(c.Debug),
	}
	if c.UserAgent != "" {
		opts = append(opts, weather.WithUserAgent(c.UserAgent))
	}
	return opts
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return d, nil
}
