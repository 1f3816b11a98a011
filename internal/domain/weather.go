package domain

import "time"

// IconCategory is the provider-independent weather icon vocabulary.
type IconCategory string

const (
	IconClear             IconCategory = "clear"
	IconClearNight        IconCategory = "clear-night"
	IconMostlyClear       IconCategory = "mostly-clear"
	IconPartlyCloudy      IconCategory = "partly-cloudy"
	IconPartlyCloudyNight IconCategory = "partly-cloudy-night"
	IconCloudy            IconCategory = "cloudy"
	IconFog               IconCategory = "fog"
	IconDrizzle           IconCategory = "drizzle"
	IconRain              IconCategory = "rain"
	IconHeavyRain         IconCategory = "heavy-rain"
	IconSleet             IconCategory = "sleet"
	IconSnow              IconCategory = "snow"
	IconThunderstorm      IconCategory = "thunderstorm"
	IconCloud             IconCategory = "cloud" // generic fallback
)

type CurrentConditions struct {
	Temperature int          `json:"temperature"`
	Icon        IconCategory `json:"icon"`
	Condition   string       `json:"condition"`
	IsDay       bool         `json:"isDay"`
}

type DayForecast struct {
	Date         time.Time    `json:"date"`
	High         int          `json:"high"`
	Low          int          `json:"low"`
	Icon         IconCategory `json:"icon"`
	Condition    string       `json:"condition"`
	PrecipChance int          `json:"precipChance"`
	Sunrise      string       `json:"sunrise,omitempty"`
	Sunset       string       `json:"sunset,omitempty"`
}

type HourForecast struct {
	Time         time.Time    `json:"time"`
	Temperature  int          `json:"temperature"`
	Icon         IconCategory `json:"icon"`
	Condition    string       `json:"condition"`
	PrecipChance int          `json:"precipChance"`
	IsDay        bool         `json:"isDay"`
}

// MoonPhase holds the position in the synodic cycle, 0 (new) up to but excluding 1.
type MoonPhase struct {
	Phase float64 `json:"phase"`
	Name  string  `json:"name"`
	Icon  string  `json:"icon"`
}

type SunTimes struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

// WeatherSnapshot is the value of the weather slice.
type WeatherSnapshot struct {
	Provider  string            `json:"provider"`
	Current   CurrentConditions `json:"current"`
	Daily     []DayForecast     `json:"daily"`
	Hourly    []HourForecast    `json:"hourly,omitempty"`
	Moon      *MoonPhase        `json:"moon,omitempty"`
	FetchedAt time.Time         `json:"fetchedAt"`
}
