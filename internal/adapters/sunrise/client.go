// Package sunrise fetches sunrise/sunset instants for fixed coordinates.
package sunrise

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"concierge/internal/adapters/upstream"
	"concierge/internal/domain"
)

type Client struct {
	up       *upstream.Client
	base     string
	lat, lon float64
}

func New(up *upstream.Client, base string, lat, lon float64) *Client {
	return &Client{up: up, base: base, lat: lat, lon: lon}
}

var _ domain.SunSource = (*Client)(nil)

func (c *Client) URL() string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.lat, 'f', 4, 64))
	q.Set("lng", strconv.FormatFloat(c.lon, 'f', 4, 64))
	q.Set("formatted", "0")
	return c.base + "?" + q.Encode()
}

func (c *Client) GetSunTimes(ctx context.Context) (domain.SunFeed, error) {
	var out domain.SunFeed
	if err := c.up.GetJSON(ctx, c.URL(), &out); err != nil {
		return domain.SunFeed{}, err
	}
	if out.Status != "" && out.Status != "OK" {
		return domain.SunFeed{}, fmt.Errorf("sunrise-sunset status %q: %w", out.Status, domain.ErrNoData)
	}
	return out, nil
}
