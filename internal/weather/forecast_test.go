package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

// createMockForecastResponse builds a payload with n hourly entries starting
// at midnight on 2024-06-01. Temperatures and codes encode the index so
// alignment can be checked after slicing.
func createMockForecastResponse(n int) *ForecastResponse {
	fc := &ForecastResponse{}
	fc.Current.Temperature = 21.4
	fc.Current.RelativeHumidity = 63
	fc.Current.ApparentTemperature = 22.1
	fc.Current.WeatherCode = 2
	fc.Current.WindSpeed = 11.9
	fc.Current.UVIndex = 5.35

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		fc.Hourly.Time = append(fc.Hourly.Time, start.Add(time.Duration(i)*time.Hour).Format("2006-01-02T15:04"))
		fc.Hourly.Temperature = append(fc.Hourly.Temperature, float64(i)+0.5)
		fc.Hourly.WeatherCode = append(fc.Hourly.WeatherCode, i)
	}

	for d := 0; d < forecastDays; d++ {
		day := start.AddDate(0, 0, d)
		fc.Daily.Time = append(fc.Daily.Time, day.Format("2006-01-02"))
		fc.Daily.TemperatureMax = append(fc.Daily.TemperatureMax, 25+float64(d))
		fc.Daily.TemperatureMin = append(fc.Daily.TemperatureMin, 12+float64(d))
		fc.Daily.WeatherCode = append(fc.Daily.WeatherCode, []int{0, 1, 3, 45, 61, 73, 95, 51}[d])
		fc.Daily.UVIndexMax = append(fc.Daily.UVIndexMax, float64(d)*1.5)
		fc.Daily.Sunrise = append(fc.Daily.Sunrise, day.Add(5*time.Hour+42*time.Minute).Format("2006-01-02T15:04"))
		fc.Daily.Sunset = append(fc.Daily.Sunset, day.Add(21*time.Hour+3*time.Minute).Format("2006-01-02T15:04"))
	}
	return fc
}

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, 6, 1, hour, 17, 0, 0, time.Local)
	}
}

func forecastHandler(t *testing.T, fc *ForecastResponse) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(fc)
	})
}

// TestFetchForecast_RequestShape verifies the forecast query string
func TestFetchForecast_RequestShape(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/forecast" {
			t.Errorf("expected path /v1/forecast, got %s", r.URL.Path)
		}
		expected := map[string]string{
			"latitude":      "51.5085",
			"longitude":     "-0.12574",
			"current":       "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m,uv_index",
			"hourly":        "temperature_2m,weather_code",
			"daily":         "weather_code,temperature_2m_max,temperature_2m_min,uv_index_max,sunrise,sunset",
			"timezone":      "auto",
			"forecast_days": "8",
		}
		for key, want := range expected {
			if got := r.URL.Query().Get(key); got != want {
				t.Errorf("expected %s=%s, got %s", key, want, got)
			}
		}
		if !strings.Contains(r.URL.RawQuery, "hourly=temperature_2m,weather_code&") {
			t.Errorf("expected literal commas in raw query, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{}`))
	})

	client := newTestClient(handler, WithForecastBaseURL("http://forecast.test"))
	if _, err := client.FetchForecast(context.Background(), 51.5085, -0.12574); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestFetchForecast_RollingWindow tests the 24-hour window from the current hour
func TestFetchForecast_RollingWindow(t *testing.T) {
	fc := createMockForecastResponse(48)
	client := newTestClient(forecastHandler(t, fc), WithClock(fixedClock(14)))

	wd, err := client.FetchForecast(context.Background(), 59.91, 10.75)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(wd.Hourly.Time) != 24 {
		t.Fatalf("expected 24 hourly entries, got %d", len(wd.Hourly.Time))
	}
	if len(wd.Hourly.Temperature) != 24 || len(wd.Hourly.WeatherCode) != 24 {
		t.Fatalf("hourly sequences not aligned: %d/%d/%d",
			len(wd.Hourly.Time), len(wd.Hourly.Temperature), len(wd.Hourly.WeatherCode))
	}
	if wd.Hourly.Time[0] != "2024-06-01T14:00" {
		t.Errorf("expected window to start at 2024-06-01T14:00, got %s", wd.Hourly.Time[0])
	}

	for i := 0; i < wd.Hourly.Len(); i++ {
		entry := wd.Hourly.Entry(i)
		src := i + 14
		if entry.Time != fc.Hourly.Time[src] {
			t.Errorf("index %d: expected time %s, got %s", i, fc.Hourly.Time[src], entry.Time)
		}
		if entry.Temperature != float64(src)+0.5 {
			t.Errorf("index %d: expected temperature %v, got %v", i, float64(src)+0.5, entry.Temperature)
		}
		if entry.WeatherCode != src {
			t.Errorf("index %d: expected code %d, got %d", i, src, entry.WeatherCode)
		}
	}

	if err := wd.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

// TestFetchForecast_CurrentBlock tests the current readings mapping
func TestFetchForecast_CurrentBlock(t *testing.T) {
	fc := createMockForecastResponse(48)
	client := newTestClient(forecastHandler(t, fc), WithClock(fixedClock(0)))

	wd, err := client.FetchForecast(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := Current{
		Temperature:         21.4,
		Humidity:            63,
		WindSpeed:           11.9,
		ApparentTemperature: 22.1,
		WeatherCode:         2,
		UVIndex:             5.35,
	}
	if wd.Current != expected {
		t.Errorf("expected current %+v, got %+v", expected, wd.Current)
	}
}

// TestFetchForecast_DailyPassThrough tests that daily arrays are not altered
func TestFetchForecast_DailyPassThrough(t *testing.T) {
	fc := createMockForecastResponse(48)
	client := newTestClient(forecastHandler(t, fc), WithClock(fixedClock(22)))

	wd, err := client.FetchForecast(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if wd.Daily.Len() != forecastDays {
		t.Fatalf("expected %d daily entries, got %d", forecastDays, wd.Daily.Len())
	}
	for i := 0; i < wd.Daily.Len(); i++ {
		got := wd.Daily.Entry(i)
		want := DailyEntry{
			Time:           fc.Daily.Time[i],
			TemperatureMax: fc.Daily.TemperatureMax[i],
			TemperatureMin: fc.Daily.TemperatureMin[i],
			WeatherCode:    fc.Daily.WeatherCode[i],
			UVIndexMax:     fc.Daily.UVIndexMax[i],
			Sunrise:        fc.Daily.Sunrise[i],
			Sunset:         fc.Daily.Sunset[i],
		}
		if got != want {
			t.Errorf("day %d: expected %+v, got %+v", i, want, got)
		}
	}
}

// TestFetchForecast_LateHourShortWindow tests that the window may come up short
func TestFetchForecast_LateHourShortWindow(t *testing.T) {
	fc := createMockForecastResponse(24)
	client := newTestClient(forecastHandler(t, fc), WithClock(fixedClock(23)))

	wd, err := client.FetchForecast(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wd.Hourly.Len() != 1 {
		t.Fatalf("expected 1 hourly entry, got %d", wd.Hourly.Len())
	}
	if wd.Hourly.Time[0] != "2024-06-01T23:00" {
		t.Errorf("expected 2024-06-01T23:00, got %s", wd.Hourly.Time[0])
	}
}

// TestFetchForecast_APIError tests that any HTTP failure aborts the fetch
func TestFetchForecast_APIError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	client := newTestClient(handler)
	wd, err := client.FetchForecast(context.Background(), 0, 0)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if wd != nil {
		t.Errorf("expected no partial result, got %+v", wd)
	}
}

// TestFetchForecast_InvalidJSON tests decode failures
func TestFetchForecast_InvalidJSON(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hourly": [`))
	})

	client := newTestClient(handler)
	if _, err := client.FetchForecast(context.Background(), 0, 0); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestFetchForecast_FreshValuePerFetch(t *testing.T) {
	fc := createMockForecastResponse(48)
	client := newTestClient(forecastHandler(t, fc), WithClock(fixedClock(3)))

	first, err := client.FetchForecast(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := client.FetchForecast(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first.Hourly.Temperature[0] = -999
	if second.Hourly.Temperature[0] == -999 {
		t.Error("fetches share hourly storage")
	}
}

func TestCurrentHourOffset(t *testing.T) {
	times := []string{
		"2024-06-01T00:00", "2024-06-01T06:00", "2024-06-01T12:00",
		"2024-06-01T18:00", "2024-06-02T00:00", "2024-06-02T06:00",
	}

	tests := []struct {
		hour int
		want int
	}{
		{0, 0},
		{1, 1},
		{6, 1},
		{13, 3},
		{18, 3},
		{19, len(times)},
		{23, len(times)},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("hour %d", tt.hour), func(t *testing.T) {
			if got := CurrentHourOffset(times, tt.hour); got != tt.want {
				t.Errorf("CurrentHourOffset(hour=%d) = %d, want %d", tt.hour, got, tt.want)
			}
		})
	}
}

func TestCurrentHourOffset_SkipsUnparseable(t *testing.T) {
	times := []string{"garbage", "2024-06-01T15:00"}
	if got := CurrentHourOffset(times, 10); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}

func TestNormalize_RaggedHourlyKeepsAlignment(t *testing.T) {
	fc := createMockForecastResponse(48)
	fc.Hourly.WeatherCode = fc.Hourly.WeatherCode[:30]

	wd := normalize(fc, 10)
	if wd.Hourly.Len() != 20 {
		t.Fatalf("expected window clamped to 20 entries, got %d", wd.Hourly.Len())
	}
	if len(wd.Hourly.Temperature) != 20 || len(wd.Hourly.WeatherCode) != 20 {
		t.Errorf("hourly sequences not aligned: %d/%d/%d",
			len(wd.Hourly.Time), len(wd.Hourly.Temperature), len(wd.Hourly.WeatherCode))
	}
}

func TestValidate_DailyMismatch(t *testing.T) {
	wd := normalize(createMockForecastResponse(48), 0)
	wd.Daily.Sunset = wd.Daily.Sunset[:3]

	if err := wd.Validate(); err == nil {
		t.Error("expected validation error for misaligned daily sequences")
	}
}

// sampleForecastPayload is trimmed from a live Open-Meteo response.
const sampleForecastPayload = `{
  "latitude": 52.52, "longitude": 13.419998, "timezone": "Europe/Berlin",
  "current": {"time": "2024-11-04T14:15", "temperature_2m": 9.8, "relative_humidity_2m": 81,
    "apparent_temperature": 7.9, "weather_code": 3, "wind_speed_10m": 8.6, "uv_index": 0.65},
  "hourly": {
    "time": ["2024-11-04T13:00", "2024-11-04T14:00", "2024-11-04T15:00", "2024-11-04T16:00"],
    "temperature_2m": [9.6, 9.8, 9.5, 8.9],
    "weather_code": [3, 3, 2, 45]
  },
  "daily": {
    "time": ["2024-11-04", "2024-11-05", "2024-11-06", "2024-11-07", "2024-11-08", "2024-11-09", "2024-11-10", "2024-11-11"],
    "weather_code": [3, 45, 3, 61, 80, 2, 51, 71],
    "temperature_2m_max": [10.1, 9.4, 8.2, 7.9, 9.1, 10.4, 8.8, 6.2],
    "temperature_2m_min": [6.0, 5.2, 4.8, 3.9, 4.4, 6.1, 3.2, 1.0],
    "uv_index_max": [1.1, 0.9, 1.3, 0.6, 0.8, 1.45, 1.2, 0.95],
    "sunrise": ["2024-11-04T07:03", "2024-11-05T07:05", "2024-11-06T07:07", "2024-11-07T07:09", "2024-11-08T07:11", "2024-11-09T07:12", "2024-11-10T07:14", "2024-11-11T07:16"],
    "sunset": ["2024-11-04T16:25", "2024-11-05T16:23", "2024-11-06T16:22", "2024-11-07T16:20", "2024-11-08T16:18", "2024-11-09T16:17", "2024-11-10T16:15", "2024-11-11T16:14"]
  }
}`

// TestFetchForecast_SamplePayloadCodes feeds every daily code of a live
// payload back through the code tables.
func TestFetchForecast_SamplePayloadCodes(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleForecastPayload))
	})

	client := newTestClient(handler, WithClock(fixedClock(14)))
	wd, err := client.FetchForecast(context.Background(), 52.52, 13.41)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if wd.Hourly.Len() != 3 || wd.Hourly.Time[0] != "2024-11-04T14:00" {
		t.Errorf("expected 3-entry window from 14:00, got %v", wd.Hourly.Time)
	}
	if err := wd.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	for i, code := range wd.Daily.WeatherCode {
		if IconCategory(code) == "" {
			t.Errorf("day %d: empty icon for code %d", i, code)
		}
		if DescribeWeatherCode(code) == "" {
			t.Errorf("day %d: empty description for code %d", i, code)
		}
	}
	if got := DescribeWeatherCode(wd.Daily.WeatherCode[4]); got != "Unknown" {
		t.Errorf("expected code 80 to describe as Unknown, got %q", got)
	}
}
