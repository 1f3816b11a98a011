// Package openmeteo fetches the combined current/hourly/daily forecast.
package openmeteo

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

const (
	currentFields = "temperature_2m,weather_code,is_day"
	hourlyFields  = "temperature_2m,weather_code,precipitation_probability"
	dailyFields   = "weather_code,temperature_2m_max,temperature_2m_min,precipitation_probability_max,sunrise,sunset"
)

type Client struct {
	up       *upstream.Client
	base     string
	lat, lon float64
	timezone string
	days     int
}

func New(up *upstream.Client, base string, lat, lon float64, timezone string, days int) *Client {
	if days <= 0 {
		days = 7
	}
	return &Client{up: up, base: base, lat: lat, lon: lon, timezone: timezone, days: days}
}

var _ domain.OpenMeteoSource = (*Client)(nil)

func (c *Client) URL() string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(c.lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(c.lon, 'f', 4, 64))
	q.Set("current", currentFields)
	q.Set("hourly", hourlyFields)
	q.Set("daily", dailyFields)
	q.Set("temperature_unit", "fahrenheit")
	q.Set("wind_speed_unit", "mph")
	q.Set("precipitation_unit", "inch")
	q.Set("timezone", c.timezone)
	q.Set("forecast_days", strconv.Itoa(c.days))
	return c.base + "?" + q.Encode()
}

func (c *Client) GetForecast(ctx context.Context) (domain.OpenMeteoForecast, error) {
	var out domain.OpenMeteoForecast
	if err := c.up.GetJSON(ctx, c.URL(), &out); err != nil {
		return domain.OpenMeteoForecast{}, err
	}
	if err := validate.Struct(out); err != nil {
		return domain.OpenMeteoForecast{}, fmt.Errorf("open-meteo: %w: %v", domain.ErrDecode, err)
	}
	return out, nil
}
