// Package noaa fetches hi/lo tide predictions from NOAA CO-OPS.
package noaa

import (
	"context"
	"net/url"
	"time"

	"concierge/internal/adapters/upstream"
	"concierge/internal/domain"
	"concierge/internal/normalize"
)

type Client struct {
	up      *upstream.Client
	base    string
	station string
	datum   string
}

func New(up *upstream.Client, base, station, datum string) *Client {
	if datum == "" {
		datum = "MLLW"
	}
	return &Client{up: up, base: base, station: station, datum: datum}
}

var _ domain.TideSource = (*Client)(nil)

// URL requests predictions for the single calendar day of day, in the
// station's local standard/daylight time.
func (c *Client) URL(day time.Time) string {
	d := normalize.TideDate(day)
	q := url.Values{}
	q.Set("begin_date", d)
	q.Set("end_date", d)
	q.Set("station", c.station)
	q.Set("product", "predictions")
	q.Set("datum", c.datum)
	q.Set("time_zone", "lst_ldt")
	q.Set("interval", "hilo")
	q.Set("units", "english")
	q.Set("application", "concierge")
	q.Set("format", "json")
	return c.base + "?" + q.Encode()
}

// GetPredictions returns the raw feed. A payload with an "error" object and no
// "predictions" key is returned as-is; callers decide what absence means.
func (c *Client) GetPredictions(ctx context.Context, day time.Time) (domain.TideFeed, error) {
	var out domain.TideFeed
	if err := c.up.GetJSON(ctx, c.URL(day), &out); err != nil {
		return domain.TideFeed{}, err
	}
	return out, nil
}
