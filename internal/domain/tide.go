package domain

import "time"

const (
	TideHigh = "High"
	TideLow  = "Low"
)

type TideEvent struct {
	Time   string `json:"time"`
	Type   string `json:"type"`
	Height string `json:"height"`
}

// TideSnapshot is the value of the tides slice. Events keep the source order.
type TideSnapshot struct {
	Station   string      `json:"station"`
	Date      string      `json:"date"`
	Events    []TideEvent `json:"events"`
	FetchedAt time.Time   `json:"fetchedAt"`
}
