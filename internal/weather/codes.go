package weather

// Icon names the icon category a weather code is drawn with.
type Icon string

const (
	IconSun            Icon = "sun"
	IconCloudSun       Icon = "cloud-sun"
	IconCloud          Icon = "cloud"
	IconCloudFog       Icon = "cloud-fog"
	IconCloudDrizzle   Icon = "cloud-drizzle"
	IconCloudRain      Icon = "cloud-rain"
	IconCloudSnow      Icon = "cloud-snow"
	IconCloudLightning Icon = "cloud-lightning"
)

// WMO Weather interpretation codes (https://open-meteo.com/en/docs)
var weatherCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	95: "Thunderstorm",
}

// DescribeWeatherCode returns the human readable text for a WMO code, or
// "Unknown" when the code is not in the table.
func DescribeWeatherCode(code int) string {
	if desc, ok := weatherCodes[code]; ok {
		return desc
	}
	return "Unknown"
}

// IconCategory maps a WMO code to an icon category. Codes outside the known
// ranges draw as a sun.
func IconCategory(code int) Icon {
	switch {
	case code == 0:
		return IconSun
	case code == 1 || code == 2:
		return IconCloudSun
	case code == 3:
		return IconCloud
	case code == 45 || code == 48:
		return IconCloudFog
	case code >= 51 && code <= 55:
		return IconCloudDrizzle
	case code >= 61 && code <= 65:
		return IconCloudRain
	case code >= 71 && code <= 75:
		return IconCloudSnow
	case code >= 95 && code <= 99:
		return IconCloudLightning
	}
	return IconSun
}
