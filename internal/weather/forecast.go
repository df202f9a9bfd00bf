package weather

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	hourlyWindow = 24
	forecastDays = 8

	currentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m,uv_index"
	hourlyFields  = "temperature_2m,weather_code"
	dailyFields   = "weather_code,temperature_2m_max,temperature_2m_min,uv_index_max,sunrise,sunset"
)

// ForecastResponse represents the Open-Meteo /v1/forecast response for the
// fields WeatherWatch requests.
type ForecastResponse struct {
	Current struct {
		Temperature         float64 `json:"temperature_2m"`
		RelativeHumidity    float64 `json:"relative_humidity_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		WeatherCode         int     `json:"weather_code"`
		WindSpeed           float64 `json:"wind_speed_10m"`
		UVIndex             float64 `json:"uv_index"`
	} `json:"current"`
	Hourly struct {
		Time        []string  `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"hourly"`
	Daily struct {
		Time           []string  `json:"time"`
		TemperatureMax []float64 `json:"temperature_2m_max"`
		TemperatureMin []float64 `json:"temperature_2m_min"`
		WeatherCode    []int     `json:"weather_code"`
		UVIndexMax     []float64 `json:"uv_index_max"`
		Sunrise        []string  `json:"sunrise"`
		Sunset         []string  `json:"sunset"`
	} `json:"daily"`
}

func (c *Client) forecastURL(lat, lon float64) string {
	return fmt.Sprintf("%s/v1/forecast?latitude=%s&longitude=%s&current=%s&hourly=%s&daily=%s&timezone=auto&forecast_days=%d",
		c.forecastBaseURL, formatCoord(lat), formatCoord(lon), currentFields, hourlyFields, dailyFields, forecastDays)
}

// FetchForecast fetches current, hourly and daily data for lat/lon and
// normalizes it. The hourly block is cut to a window of at most 24 hours
// starting at the caller's current local hour. Any failure aborts the fetch.
func (c *Client) FetchForecast(ctx context.Context, lat, lon float64) (*WeatherData, error) {
	data, err := c.get(ctx, "fetch forecast", c.forecastURL(lat, lon))
	if err != nil {
		return nil, err
	}

	var fc ForecastResponse
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}

	return normalize(&fc, c.now().Hour()), nil
}

func normalize(fc *ForecastResponse, currentHour int) *WeatherData {
	offset := CurrentHourOffset(fc.Hourly.Time, currentHour)
	start, end := windowBounds(offset, hourlyWindow,
		len(fc.Hourly.Time), len(fc.Hourly.Temperature), len(fc.Hourly.WeatherCode))

	return &WeatherData{
		Current: Current{
			Temperature:         fc.Current.Temperature,
			Humidity:            fc.Current.RelativeHumidity,
			WindSpeed:           fc.Current.WindSpeed,
			ApparentTemperature: fc.Current.ApparentTemperature,
			WeatherCode:         fc.Current.WeatherCode,
			UVIndex:             fc.Current.UVIndex,
		},
		Hourly: Hourly{
			Time:        cloneRange(fc.Hourly.Time, start, end),
			Temperature: cloneRange(fc.Hourly.Temperature, start, end),
			WeatherCode: cloneRange(fc.Hourly.WeatherCode, start, end),
		},
		Daily: Daily{
			Time:           fc.Daily.Time,
			TemperatureMax: fc.Daily.TemperatureMax,
			TemperatureMin: fc.Daily.TemperatureMin,
			WeatherCode:    fc.Daily.WeatherCode,
			UVIndexMax:     fc.Daily.UVIndexMax,
			Sunrise:        fc.Daily.Sunrise,
			Sunset:         fc.Daily.Sunset,
		},
	}
}

// CurrentHourOffset returns the index of the first timestamp whose hour of day
// is >= hour. Only the hour of day is compared, not the date. When nothing
// qualifies it returns len(times), which yields an empty window.
func CurrentHourOffset(times []string, hour int) int {
	for i, ts := range times {
		t, err := ParseTimestamp(ts)
		if err != nil {
			continue
		}
		if t.Hour() >= hour {
			return i
		}
	}
	return len(times)
}

// windowBounds clamps [offset, offset+size) to the shortest of the given
// sequence lengths so every sliced sequence ends up the same length.
func windowBounds(offset, size int, lengths ...int) (int, int) {
	limit := -1
	for _, l := range lengths {
		if limit < 0 || l < limit {
			limit = l
		}
	}
	if limit < 0 {
		limit = 0
	}
	start := min(offset, limit)
	end := min(start+size, limit)
	return start, end
}

func cloneRange[T any](s []T, start, end int) []T {
	out := make([]T, end-start)
	copy(out, s[start:end])
	return out
}
