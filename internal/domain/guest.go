package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultGuestName is shown until the first successful property fetch.
const DefaultGuestName = "Guest"

type WiFiCredentials struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
}

type GuestProfile struct {
	Name          string          `json:"name"`
	HeroImageURL  string          `json:"heroImageURL,omitempty"`
	HeroImage     []byte          `json:"-"`
	HeroImageType string          `json:"-"`
	WiFi          WiFiCredentials `json:"wifi"`
}

type Place struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    *string   `json:"category,omitempty"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	ImageURL    string    `json:"imageURL"`
}

// Category groups places sharing a category tag. Icon and CoverImageURL are derived.
type Category struct {
	Name          string  `json:"name"`
	Icon          string  `json:"icon"`
	CoverImageURL string  `json:"coverImageURL,omitempty"`
	Places        []Place `json:"places"`
}

type Reservation struct {
	Required bool   `json:"required"`
	Phone    string `json:"phone,omitempty"`
	URL      string `json:"url,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type Review struct {
	Author       string  `json:"author"`
	Rating       float64 `json:"rating"`
	Text         string  `json:"text"`
	RelativeTime string  `json:"relativeTime,omitempty"`
}

// ReviewSummary is a third-party review aggregate attached to a venue.
type ReviewSummary struct {
	Source  string   `json:"source,omitempty"`
	Rating  float64  `json:"rating"`
	Count   int      `json:"count"`
	Reviews []Review `json:"reviews,omitempty"`
}

type DiningVenue struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Cuisine     []string       `json:"cuisine,omitempty"`
	Description string         `json:"description,omitempty"`
	Address     string         `json:"address,omitempty"`
	Hours       string         `json:"hours,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Website     string         `json:"website,omitempty"`
	PriceLevel  string         `json:"priceLevel,omitempty"`
	ImageURL    string         `json:"imageURL,omitempty"`
	Reservation *Reservation   `json:"reservation,omitempty"`
	Reviews     *ReviewSummary `json:"reviews,omitempty"`
}

type DiningSection struct {
	Title        string        `json:"title"`
	Intro        string        `json:"intro,omitempty"`
	HeroImageURL string        `json:"heroImageURL,omitempty"`
	Venues       []DiningVenue `json:"venues"`
}

// SettleInCard is a static instructional card shown next to the property content.
type SettleInCard struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Icon  string   `json:"icon"`
	Lines []string `json:"lines"`
}

// PropertySnapshot is the value of the property slice.
type PropertySnapshot struct {
	Guest      GuestProfile   `json:"guest"`
	Categories []Category     `json:"categories"`
	Dining     *DiningSection `json:"dining,omitempty"`
	SettleIn   []SettleInCard `json:"settleIn"`
	FetchedAt  time.Time      `json:"fetchedAt"`
}
