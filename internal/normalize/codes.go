package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"concierge/internal/domain"
)

const (
	DefaultIcon      = domain.IconCloud
	DefaultCondition = "Unknown"
)

// WMO weather interpretation codes as returned by Open-Meteo.
var wmoIcons = map[int]domain.IconCategory{
	0:  domain.IconClear,
	1:  domain.IconMostlyClear,
	2:  domain.IconPartlyCloudy,
	3:  domain.IconCloudy,
	45: domain.IconFog,
	48: domain.IconFog,
	51: domain.IconDrizzle,
	53: domain.IconDrizzle,
	55: domain.IconDrizzle,
	56: domain.IconSleet,
	57: domain.IconSleet,
	61: domain.IconRain,
	63: domain.IconRain,
	65: domain.IconHeavyRain,
	66: domain.IconSleet,
	67: domain.IconSleet,
	71: domain.IconSnow,
	73: domain.IconSnow,
	75: domain.IconSnow,
	77: domain.IconSnow,
	80: domain.IconRain,
	81: domain.IconRain,
	82: domain.IconHeavyRain,
	85: domain.IconSnow,
	86: domain.IconSnow,
	95: domain.IconThunderstorm,
	96: domain.IconThunderstorm,
	99: domain.IconThunderstorm,
}

var wmoConditions = map[int]string{
	0:  "Clear Sky",
	1:  "Mainly Clear",
	2:  "Partly Cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Rime Fog",
	51: "Light Drizzle",
	53: "Drizzle",
	55: "Dense Drizzle",
	56: "Freezing Drizzle",
	57: "Dense Freezing Drizzle",
	61: "Light Rain",
	63: "Rain",
	65: "Heavy Rain",
	66: "Freezing Rain",
	67: "Heavy Freezing Rain",
	71: "Light Snow",
	73: "Snow",
	75: "Heavy Snow",
	77: "Snow Grains",
	80: "Light Showers",
	81: "Showers",
	82: "Heavy Showers",
	85: "Snow Showers",
	86: "Heavy Snow Showers",
	95: "Thunderstorm",
	96: "Thunderstorm with Hail",
	99: "Severe Thunderstorm with Hail",
}

// night variants for the sky-only categories
var nightIcons = map[domain.IconCategory]domain.IconCategory{
	domain.IconClear:        domain.IconClearNight,
	domain.IconMostlyClear:  domain.IconClearNight,
	domain.IconPartlyCloudy: domain.IconPartlyCloudyNight,
}

// WeatherIcon maps a WMO code to an icon category, DefaultIcon when unmapped.
func WeatherIcon(code int) domain.IconCategory {
	if icon, ok := wmoIcons[code]; ok {
		return icon
	}
	return DefaultIcon
}

// WeatherIconAt is WeatherIcon with the night variant applied when isDay is false.
func WeatherIconAt(code int, isDay bool) domain.IconCategory {
	icon := WeatherIcon(code)
	if !isDay {
		if n, ok := nightIcons[icon]; ok {
			return n
		}
	}
	return icon
}

// ConditionText maps a WMO code to display text, DefaultCondition when unmapped.
func ConditionText(code int) string {
	if text, ok := wmoConditions[code]; ok {
		return text
	}
	return DefaultCondition
}

// OpenWeatherMap icon codes are "<group><d|n>", e.g. "10d".
var owmIcons = map[string]domain.IconCategory{
	"01": domain.IconClear,
	"02": domain.IconPartlyCloudy,
	"03": domain.IconCloudy,
	"04": domain.IconCloudy,
	"09": domain.IconRain,
	"10": domain.IconRain,
	"11": domain.IconThunderstorm,
	"13": domain.IconSnow,
	"50": domain.IconFog,
}

// OWMIcon maps an OpenWeatherMap icon code to an icon category.
func OWMIcon(code string) domain.IconCategory {
	if len(code) < 2 {
		return DefaultIcon
	}
	icon, ok := owmIcons[code[:2]]
	if !ok {
		return DefaultIcon
	}
	if strings.HasSuffix(code, "n") {
		if n, ok := nightIcons[icon]; ok {
			return n
		}
	}
	return icon
}

// OWMCondition title-cases an OpenWeatherMap description ("light rain" -> "Light Rain").
func OWMCondition(description string) string {
	words := strings.Fields(description)
	if len(words) == 0 {
		return DefaultCondition
	}
	for i, w := range words {
		r, n := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToTitle(r)) + w[n:]
	}
	return strings.Join(words, " ")
}
