package weather

import (
	"errors"
	"fmt"
)

// ErrNetwork matches every *NetworkError via errors.Is.
var ErrNetwork = errors.New("network error")

// ErrNoLocations is what a search with no matches is shown as. SearchLocations
// itself never returns it; an empty result is not a failure.
var ErrNoLocations = errors.New("no locations found")

// NetworkError reports an upstream call that failed in transport or returned
// a non-success status.
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream API error: %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// GeolocationCode mirrors the browser's GeolocationPositionError codes, with 0
// standing in for a browser that has no geolocation support.
type GeolocationCode int

const (
	GeolocationUnsupported         GeolocationCode = 0
	GeolocationPermissionDenied    GeolocationCode = 1
	GeolocationPositionUnavailable GeolocationCode = 2
	GeolocationTimeout             GeolocationCode = 3
)

// GeolocationError is a failure reported by the client's geolocation lookup.
type GeolocationError struct {
	Code GeolocationCode
}

func (e *GeolocationError) Error() string {
	switch e.Code {
	case GeolocationUnsupported:
		return "Geolocation is not supported by this browser."
	case GeolocationPermissionDenied:
		return "Location permission denied. Please enable location access."
	case GeolocationPositionUnavailable:
		return "Location information is unavailable."
	case GeolocationTimeout:
		return "Location request timed out."
	}
	return "Failed to get location"
}

// Op names the user action an error surfaced from.
type Op int

const (
	OpSearch Op = iota
	OpForecast
	OpReverse
	OpLocate
)

// UserMessage converts an error into the string shown to the user. It never
// exposes upstream details.
func UserMessage(op Op, err error) string {
	if err == nil {
		return ""
	}
	var geoErr *GeolocationError
	if errors.As(err, &geoErr) {
		return geoErr.Error()
	}
	if errors.Is(err, ErrNoLocations) {
		return "No locations found"
	}
	switch op {
	case OpSearch:
		return "Failed to search location"
	case OpForecast:
		return "Failed to fetch weather data"
	case OpReverse:
		return "Failed to get location name"
	}
	return "Failed to get location"
}
