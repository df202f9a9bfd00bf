package weather

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseCoordinates parses and validates latitude and longitude strings
func ParseCoordinates(latStr, lonStr string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || !finite(lat) {
		return 0, 0, errors.New("invalid latitude")
	}
	if lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("latitude out of range: %g", lat)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil || !finite(lon) {
		return 0, 0, errors.New("invalid longitude")
	}
	if lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("longitude out of range: %g", lon)
	}

	return lat, lon, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
