package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const searchResultCount = 10

// GeocodingResponse represents the Open-Meteo geocoding search/reverse
// response. Results is absent when nothing matched.
type GeocodingResponse struct {
	Results []GeocodingResult `json:"results"`
}

type GeocodingResult struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SearchLocations resolves a free-text query to candidate locations. A blank
// query or an empty result set yields an empty slice, not an error.
func (c *Client) SearchLocations(ctx context.Context, query string) ([]Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Location{}, nil
	}

	// encodeURIComponent form: spaces as %20 rather than '+'
	name := strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
	requestURL := fmt.Sprintf("%s/v1/search?name=%s&count=%d&language=en&format=json",
		c.geocodingBaseURL, name, searchResultCount)

	data, err := c.get(ctx, "search locations", requestURL)
	if err != nil {
		return nil, err
	}

	var resp GeocodingResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode location search: %w", err)
	}

	locations := make([]Location, 0, len(resp.Results))
	for _, r := range resp.Results {
		locations = append(locations, Location{
			Name:      r.Name,
			Country:   r.Country,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}
	return locations, nil
}

// ReverseGeocode names the place at lat/lon. When the upstream has no match
// the location is reported as "Unknown Location", "Unknown Country". The
// returned coordinates are always the ones passed in.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (Location, error) {
	requestURL := fmt.Sprintf("%s/v1/reverse?latitude=%s&longitude=%s&format=json",
		c.geocodingBaseURL, formatCoord(lat), formatCoord(lon))

	data, err := c.get(ctx, "reverse geocode", requestURL)
	if err != nil {
		return Location{}, err
	}

	var resp GeocodingResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return Location{}, fmt.Errorf("decode reverse geocode: %w", err)
	}

	loc := Location{
		Name:      "Unknown Location",
		Country:   "Unknown Country",
		Latitude:  lat,
		Longitude: lon,
	}
	if len(resp.Results) > 0 {
		loc.Name = resp.Results[0].Name
		loc.Country = resp.Results[0].Country
	}
	return loc, nil
}
