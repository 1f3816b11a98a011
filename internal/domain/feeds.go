package domain

// Raw upstream payload shapes. Adapters decode into these; app mappers
// normalize them into the snapshot types.

type PropertyFeed struct {
	GuestName    string      `json:"guestName" validate:"required"`
	HeroImageURL string      `json:"heroImageURL" validate:"required"`
	WiFiSSID     string      `json:"wifiSSID" validate:"required"`
	WiFiPassword string      `json:"wifiPassword" validate:"required"`
	Places       []PlaceFeed `json:"places" validate:"required"`
	Dining       *DiningFeed `json:"dining,omitempty"`
}

type PlaceFeed struct {
	Name        string  `json:"name"`
	Category    *string `json:"category,omitempty"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	ImageURL    string  `json:"imageURL"`
}

type DiningFeed struct {
	Title        string            `json:"title"`
	Intro        string            `json:"intro"`
	HeroImageURL string            `json:"heroImageURL"`
	Venues       []DiningVenueFeed `json:"venues"`
}

type DiningVenueFeed struct {
	Name        string           `json:"name"`
	Cuisine     []string         `json:"cuisine"`
	Description string           `json:"description"`
	Address     string           `json:"address"`
	Hours       string           `json:"hours"`
	Phone       string           `json:"phone"`
	Website     string           `json:"website"`
	PriceLevel  string           `json:"priceLevel"`
	ImageURL    string           `json:"imageURL"`
	Reservation *ReservationFeed `json:"reservation,omitempty"`
	Reviews     *ReviewsFeed     `json:"reviews,omitempty"`
}

type ReservationFeed struct {
	Required bool   `json:"required"`
	Phone    string `json:"phone"`
	URL      string `json:"url"`
	Notes    string `json:"notes"`
}

type ReviewsFeed struct {
	Source  string       `json:"source"`
	Rating  float64      `json:"rating"`
	Count   int          `json:"count"`
	Reviews []ReviewFeed `json:"reviews"`
}

type ReviewFeed struct {
	Author       string  `json:"author"`
	Rating       float64 `json:"rating"`
	Text         string  `json:"text"`
	RelativeTime string  `json:"relativeTime"`
}

// ---- Open-Meteo ----

type OpenMeteoForecast struct {
	Timezone string          `json:"timezone"`
	Current  *OpenMeteoNow   `json:"current" validate:"required"`
	Hourly   OpenMeteoHourly `json:"hourly"`
	Daily    OpenMeteoDaily  `json:"daily"`
}

type OpenMeteoNow struct {
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature_2m"`
	WeatherCode int     `json:"weather_code"`
	IsDay       int     `json:"is_day"`
}

type OpenMeteoHourly struct {
	Time         []string  `json:"time"`
	Temperature  []float64 `json:"temperature_2m"`
	WeatherCode  []int     `json:"weather_code"`
	PrecipChance []*int    `json:"precipitation_probability"`
}

type OpenMeteoDaily struct {
	Time         []string  `json:"time"`
	WeatherCode  []int     `json:"weather_code"`
	High         []float64 `json:"temperature_2m_max"`
	Low          []float64 `json:"temperature_2m_min"`
	PrecipChance []*int    `json:"precipitation_probability_max"`
	Sunrise      []string  `json:"sunrise"`
	Sunset       []string  `json:"sunset"`
}

// ---- OpenWeatherMap 5 day / 3 hour ----

type OWMForecast struct {
	List []OWMSample `json:"list" validate:"required"`
}

type OWMSample struct {
	Dt      int64        `json:"dt"`
	DtTxt   string       `json:"dt_txt"`
	Main    OWMMain      `json:"main"`
	Weather []OWMWeather `json:"weather"`
	Pop     float64      `json:"pop"`
}

type OWMMain struct {
	Temp    float64 `json:"temp"`
	TempMin float64 `json:"temp_min"`
	TempMax float64 `json:"temp_max"`
}

type OWMWeather struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// ---- sunrise-sunset.org ----

type SunFeed struct {
	Status  string         `json:"status"`
	Results SunFeedResults `json:"results"`
}

type SunFeedResults struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

// ---- NOAA CO-OPS ----

// TideFeed carries either Predictions or Error. Predictions is nil when the
// key is absent from the response.
type TideFeed struct {
	Predictions *[]TidePrediction `json:"predictions,omitempty"`
	Error       *TideFeedError    `json:"error,omitempty"`
}

type TidePrediction struct {
	T    string `json:"t"`
	V    string `json:"v"`
	Type string `json:"type"`
}

type TideFeedError struct {
	Message string `json:"message"`
}
