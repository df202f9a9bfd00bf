// Package dashboard turns a normalized forecast into display-ready values.
package dashboard

import (
	"strconv"
	"time"

	"github.com/imLOstAU/WeatherWatch/internal/weather"
)

// View is everything the dashboard page shows for one location.
type View struct {
	Location weather.Location
	Unit     weather.Unit
	Current  CurrentCard
	Hourly   []HourlyRow
	Daily    []DailyRow
	Sunrise  string
	Sunset   string
	UV       UVBlock
}

type CurrentCard struct {
	Temperature int
	FeelsLike   int
	Humidity    string
	WindSpeed   int
	Description string
	Icon        weather.Icon
}

type HourlyRow struct {
	Label       string
	Icon        weather.Icon
	Temperature int
	Current     bool
}

type DailyRow struct {
	Short       string
	Long        string
	Icon        weather.Icon
	Description string
	Max         int
	Min         int
}

type UVBlock struct {
	Index       int
	Level       string
	Description string
	Trend       []UVSegment
}

// UVSegment is one day's slice of the UV trend bar. Left and Width are
// percentages of the bar.
type UVSegment struct {
	Left  float64
	Width float64
	Color string
	Day   string
}

// Build maps data for loc into a View in unit. now picks the highlighted
// hourly row. Empty daily sequences give an empty sunrise and sunset.
func Build(loc weather.Location, data *weather.WeatherData, unit weather.Unit, now time.Time) View {
	v := View{Location: loc, Unit: unit}
	if data == nil {
		return v
	}

	temp := func(c float64) int {
		return weather.Round(weather.ToDisplayTemperature(c, unit))
	}

	cur := data.Current
	v.Current = CurrentCard{
		Temperature: temp(cur.Temperature),
		FeelsLike:   temp(cur.ApparentTemperature),
		Humidity:    strconv.FormatFloat(cur.Humidity, 'f', -1, 64),
		WindSpeed:   weather.Round(cur.WindSpeed),
		Description: weather.DescribeWeatherCode(cur.WeatherCode),
		Icon:        weather.IconCategory(cur.WeatherCode),
	}

	for i := 0; i < data.Hourly.Len(); i++ {
		h := data.Hourly.Entry(i)
		v.Hourly = append(v.Hourly, HourlyRow{
			Label:       weather.FormatHour(h.Time),
			Icon:        weather.IconCategory(h.WeatherCode),
			Temperature: temp(h.Temperature),
			Current:     weather.IsCurrentHour(h.Time, now),
		})
	}

	for i := 0; i < data.Daily.Len(); i++ {
		d := data.Daily.Entry(i)
		v.Daily = append(v.Daily, DailyRow{
			Short:       weather.FormatWeekday(d.Time, weather.Short),
			Long:        weather.FormatWeekday(d.Time, weather.Long),
			Icon:        weather.IconCategory(d.WeatherCode),
			Description: weather.DescribeWeatherCode(d.WeatherCode),
			Max:         temp(d.TemperatureMax),
			Min:         temp(d.TemperatureMin),
		})
	}

	if len(data.Daily.Sunrise) > 0 {
		v.Sunrise = weather.FormatClock(data.Daily.Sunrise[0])
	}
	if len(data.Daily.Sunset) > 0 {
		v.Sunset = weather.FormatClock(data.Daily.Sunset[0])
	}

	level := weather.UVCategory(cur.UVIndex)
	v.UV = UVBlock{
		Index:       weather.Round(cur.UVIndex),
		Level:       level.Level,
		Description: level.Description,
		Trend:       uvTrend(data.Daily),
	}

	return v
}

func uvTrend(d weather.Daily) []UVSegment {
	n := len(d.UVIndexMax)
	if n == 0 {
		return nil
	}
	width := 100 / float64(n)
	segments := make([]UVSegment, n)
	for i, uv := range d.UVIndexMax {
		seg := UVSegment{
			Left:  float64(i) / float64(n) * 100,
			Width: width,
			Color: weather.UVColor(uv),
		}
		if i < len(d.Time) {
			seg.Day = weather.FormatWeekday(d.Time[i], weather.Short)
		}
		segments[i] = seg
	}
	return segments
}

// Degrees renders a display temperature with its unit, e.g. "21°C".
func Degrees(t int, unit weather.Unit) string {
	return strconv.Itoa(t) + "°" + string(unit)
}
