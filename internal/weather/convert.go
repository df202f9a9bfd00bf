package weather

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Unit is a temperature display unit.
type Unit string

const (
	Celsius    Unit = "C"
	Fahrenheit Unit = "F"
)

// ParseUnit accepts "C"/"F" in either case, plus the long names.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C", "CELSIUS":
		return Celsius, nil
	case "F", "FAHRENHEIT":
		return Fahrenheit, nil
	}
	return "", fmt.Errorf("unknown temperature unit %q", s)
}

// Toggle returns the other unit.
func (u Unit) Toggle() Unit {
	if u == Fahrenheit {
		return Celsius
	}
	return Fahrenheit
}

// ToDisplayTemperature converts a Celsius reading into unit without rounding.
func ToDisplayTemperature(celsius float64, unit Unit) float64 {
	if unit == Fahrenheit {
		return celsius*9/5 + 32
	}
	return celsius
}

// Round rounds a reading to the nearest integer for display, with halves
// going toward positive infinity (-2.5 becomes -2).
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// UVLevel is the advisory bucket for a UV index reading.
type UVLevel struct {
	Level       string `json:"level"`
	Description string `json:"description"`
}

// UVCategory buckets a UV index. Each bucket's upper bound is inclusive.
func UVCategory(uv float64) UVLevel {
	switch {
	case uv <= 2:
		return UVLevel{"Low", "No protection required. You can safely stay outside."}
	case uv <= 5:
		return UVLevel{"Moderate", "Protection required. Seek shade during midday hours."}
	case uv <= 7:
		return UVLevel{"High", "Protection essential. Reduce time in the sun between 11am and 4pm."}
	case uv <= 10:
		return UVLevel{"Very High", "Extra precautions needed. Try to avoid being outside during midday hours."}
	}
	return UVLevel{"Extreme", "Take all precautions. Avoid being outside during midday hours."}
}

// UVColor is the bar color for a UV index, using the UVCategory buckets.
func UVColor(uv float64) string {
	switch {
	case uv <= 2:
		return "rgb(74, 222, 128)"
	case uv <= 5:
		return "rgb(250, 204, 21)"
	case uv <= 7:
		return "rgb(249, 115, 22)"
	case uv <= 10:
		return "rgb(239, 68, 68)"
	}
	return "rgb(139, 92, 246)"
}

// WeekdayFormat selects the weekday label length.
type WeekdayFormat int

const (
	Short WeekdayFormat = iota
	Long
)

// Upstream timestamps carry no offset when timezone=auto is requested; they
// are already local to the forecast location and are never converted here.
var timestampLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseTimestamp parses an upstream timestamp keeping its wall clock.
func ParseTimestamp(ts string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", ts)
}

// FormatHour renders "3 PM". Unparseable input is returned as is.
func FormatHour(ts string) string {
	t, err := ParseTimestamp(ts)
	if err != nil {
		return ts
	}
	return t.Format("3 PM")
}

// FormatClock renders "6:42 AM". Unparseable input is returned as is.
func FormatClock(ts string) string {
	t, err := ParseTimestamp(ts)
	if err != nil {
		return ts
	}
	return t.Format("3:04 PM")
}

// FormatWeekday renders "Mon" or "Monday". Unparseable input is returned as is.
func FormatWeekday(ts string, format WeekdayFormat) string {
	t, err := ParseTimestamp(ts)
	if err != nil {
		return ts
	}
	if format == Long {
		return t.Format("Monday")
	}
	return t.Format("Mon")
}

// IsCurrentHour reports whether ts falls in the same hour of day as now.
func IsCurrentHour(ts string, now time.Time) bool {
	t, err := ParseTimestamp(ts)
	if err != nil {
		return false
	}
	return t.Hour() == now.Hour()
}
