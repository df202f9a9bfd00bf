package weather

import "fmt"

// Location is a named place. It is a value: copy it, never mutate it.
type Location struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Key identifies a location in lists by its coordinates.
func (l Location) Key() string {
	return fmt.Sprintf("%s-%s", formatCoord(l.Latitude), formatCoord(l.Longitude))
}

// WeatherData aggregates one forecast fetch. Each fetch produces a new value;
// callers replace it rather than patching it.
type WeatherData struct {
	Current Current `json:"current"`
	Hourly  Hourly  `json:"hourly"`
	Daily   Daily   `json:"daily"`
}

type Current struct {
	Temperature         float64 `json:"temperature"`
	Humidity            float64 `json:"humidity"`
	WindSpeed           float64 `json:"windSpeed"`
	ApparentTemperature float64 `json:"apparentTemperature"`
	WeatherCode         int     `json:"weatherCode"`
	UVIndex             float64 `json:"uvIndex"`
}

// Hourly holds parallel sequences; index i in each refers to the same hour.
type Hourly struct {
	Time        []string  `json:"time"`
	Temperature []float64 `json:"temperature_2m"`
	WeatherCode []int     `json:"weatherCode"`
}

// Daily holds parallel sequences; index i in each refers to the same day.
type Daily struct {
	Time           []string  `json:"time"`
	TemperatureMax []float64 `json:"temperature_2m_max"`
	TemperatureMin []float64 `json:"temperature_2m_min"`
	WeatherCode    []int     `json:"weatherCode"`
	UVIndexMax     []float64 `json:"uvIndexMax"`
	Sunrise        []string  `json:"sunrise"`
	Sunset         []string  `json:"sunset"`
}

// HourlyEntry is one row of Hourly.
type HourlyEntry struct {
	Time        string
	Temperature float64
	WeatherCode int
}

// DailyEntry is one row of Daily.
type DailyEntry struct {
	Time           string
	TemperatureMax float64
	TemperatureMin float64
	WeatherCode    int
	UVIndexMax     float64
	Sunrise        string
	Sunset         string
}

func (h Hourly) Len() int { return len(h.Time) }

func (h Hourly) Entry(i int) HourlyEntry {
	return HourlyEntry{Time: h.Time[i], Temperature: h.Temperature[i], WeatherCode: h.WeatherCode[i]}
}

func (d Daily) Len() int { return len(d.Time) }

func (d Daily) Entry(i int) DailyEntry {
	return DailyEntry{
		Time:           d.Time[i],
		TemperatureMax: d.TemperatureMax[i],
		TemperatureMin: d.TemperatureMin[i],
		WeatherCode:    d.WeatherCode[i],
		UVIndexMax:     d.UVIndexMax[i],
		Sunrise:        d.Sunrise[i],
		Sunset:         d.Sunset[i],
	}
}

// Validate checks that the parallel sequences line up.
func (w *WeatherData) Validate() error {
	n := len(w.Hourly.Time)
	if len(w.Hourly.Temperature) != n || len(w.Hourly.WeatherCode) != n {
		return fmt.Errorf("hourly sequences misaligned: time=%d temperature=%d code=%d",
			n, len(w.Hourly.Temperature), len(w.Hourly.WeatherCode))
	}
	d := w.Daily
	m := len(d.Time)
	for name, l := range map[string]int{
		"temperature_2m_max": len(d.TemperatureMax),
		"temperature_2m_min": len(d.TemperatureMin),
		"weather_code":       len(d.WeatherCode),
		"uv_index_max":       len(d.UVIndexMax),
		"sunrise":            len(d.Sunrise),
		"sunset":             len(d.Sunset),
	} {
		if l != m {
			return fmt.Errorf("daily sequence %s has %d entries, want %d", name, l, m)
		}
	}
	return nil
}
