package weather

import (
	"context"
	"fmt"
	"log"
)

// Service is what the web and terminal front ends call. It adds logging and
// validation on top of Client and holds no state of its own.
type Service struct {
	client *Client
}

// NewService creates a new weather service
func NewService(client *Client) *Service {
	if client == nil {
		client = NewClient()
	}
	return &Service{client: client}
}

// Search resolves a query to candidate locations. An empty result is not an
// error; callers show ErrNoLocations when they need a message for it.
func (s *Service) Search(ctx context.Context, query string) ([]Location, error) {
	locations, err := s.client.SearchLocations(ctx, query)
	if err != nil {
		log.Printf("Search error for %q: %v", query, err)
		return nil, err
	}
	return locations, nil
}

// Forecast fetches and normalizes the forecast for a location.
func (s *Service) Forecast(ctx context.Context, loc Location) (*WeatherData, error) {
	wd, err := s.client.FetchForecast(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		log.Printf("Forecast error for %s: %v", loc.Key(), err)
		return nil, err
	}
	if err := wd.Validate(); err != nil {
		log.Printf("Forecast for %s failed validation: %v", loc.Key(), err)
		return nil, fmt.Errorf("forecast for %s: %w", loc.Key(), err)
	}
	return wd, nil
}

// Reverse names the place at lat/lon.
func (s *Service) Reverse(ctx context.Context, lat, lon float64) (Location, error) {
	loc, err := s.client.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		log.Printf("Reverse geocode error for %s,%s: %v", formatCoord(lat), formatCoord(lon), err)
		return Location{}, err
	}
	return loc, nil
}

// Position is the outcome of a browser geolocation request: either a fix or
// the error code the browser reported.
type Position struct {
	Latitude  float64
	Longitude float64
	Err       *GeolocationError
}

// Locate turns a geolocation outcome into a named location. A failed fix is
// returned as its *GeolocationError without any upstream call.
func (s *Service) Locate(ctx context.Context, pos Position) (Location, error) {
	if pos.Err != nil {
		log.Printf("Geolocation failed: code %d", pos.Err.Code)
		return Location{}, pos.Err
	}
	return s.Reverse(ctx, pos.Latitude, pos.Longitude)
}
