package weather

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultForecastBaseURL  = "https://api.open-meteo.com"
	DefaultGeocodingBaseURL = "https://geocoding-api.open-meteo.com"
	defaultUserAgent        = "WeatherWatch/1.0"
	defaultTimeout          = 10 * time.Second
)

// Client handles Open-Meteo forecast and geocoding API interactions
type Client struct {
	UserAgent  string
	HTTPClient *http.Client

	forecastBaseURL  string
	geocodingBaseURL string
	limiter          *rate.Limiter
	now              func() time.Time
	debug            bool

	rest *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

func WithForecastBaseURL(u string) Option {
	return func(c *Client) { c.forecastBaseURL = u }
}

func WithGeocodingBaseURL(u string) Option {
	return func(c *Client) { c.geocodingBaseURL = u }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.UserAgent = ua }
}

// WithRateLimit bounds outgoing requests to rps with the given burst. A
// non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithClock sets the clock used to find the current hour in forecasts.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithDebug logs every upstream request and response status.
func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

// NewClient creates a new Open-Meteo API client
func NewClient(opts ...Option) *Client {
	userAgent := os.Getenv("WEATHERWATCH_USER_AGENT")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	c := &Client{
		UserAgent: userAgent,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		forecastBaseURL:  DefaultForecastBaseURL,
		geocodingBaseURL: DefaultGeocodingBaseURL,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.rest = resty.NewWithClient(c.HTTPClient).
		SetHeader("User-Agent", c.UserAgent).
		SetHeader("Accept", "application/json")

	if c.debug {
		c.rest.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			log.Printf("upstream %s %s -> %d (%s, %d bytes)",
				resp.Request.Method, resp.Request.URL, resp.StatusCode(), resp.Time(), len(resp.Body()))
			return nil
		})
	}

	return c
}

func (c *Client) get(ctx context.Context, op, url string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &NetworkError{Op: op, URL: url, Err: fmt.Errorf("rate limit wait canceled: %w", err)}
		}
	}

	resp, err := c.rest.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: url, Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &NetworkError{
			Op:         op,
			URL:        url,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("upstream API error: %s", resp.Status()),
		}
	}

	return resp.Body(), nil
}

// formatCoord prints the shortest decimal form of a coordinate.
func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
