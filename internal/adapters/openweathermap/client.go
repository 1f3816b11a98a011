// Package openweathermap fetches the legacy 5 day / 3 hour forecast.
package openweathermap

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"concierge/internal/adapters/upstream"
	"concierge/internal/domain"
)

var validate = validator.New()

type Client struct {
	up       *upstream.Client
	base     string
	key      string
	lat, lon float64
}

func New(up *upstream.Client, base, key string, lat, lon float64) *Client {
	return &Client{up: up, base: base, key: key, lat: lat, lon: lon}
}

var _ domain.OWMSource = (*Client)(nil)

func (c *Client) URL() string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.lat, 'f', 4, 64))
	q.Set("lon", strconv.FormatFloat(c.lon, 'f', 4, 64))
	q.Set("units", "imperial")
	q.Set("cnt", "40")
	q.Set("appid", c.key)
	return c.base + "?" + q.Encode()
}

func (c *Client) GetForecast(ctx context.Context) (domain.OWMForecast, error) {
	var out domain.OWMForecast
	if err := c.up.GetJSON(ctx, c.URL(), &out); err != nil {
		return domain.OWMForecast{}, err
	}
	if err := validate.Struct(out); err != nil {
		return domain.OWMForecast{}, fmt.Errorf("openweathermap: %w: %v", domain.ErrDecode, err)
	}
	return out, nil
}
