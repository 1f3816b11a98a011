// Package bootstrap wires configured source clients to their state slices.
package bootstrap

import (
	"fmt"

	"concierge/internal/adapters/noaa"
	"concierge/internal/adapters/openmeteo"
	"concierge/internal/adapters/openweathermap"
	"concierge/internal/adapters/property"
	"concierge/internal/adapters/sunrise"
	"concierge/internal/adapters/upstream"
	"concierge/internal/app"
	"concierge/internal/shared"
	"concierge/internal/state"
)

func upstreamOptions(c shared.UpstreamConfig) upstream.Options {
	return upstream.Options{
		Timeout:         c.Timeout,
		RPS:             c.RPS,
		BreakerFailures: c.BreakerFailures,
		BreakerTimeout:  c.BreakerTimeout,
		UserAgent:       c.UserAgent,
	}
}

// Aggregator claims every slice writer on store and returns an Aggregator
// running one adapter per source. It fails if a slice was already claimed.
func Aggregator(cfg shared.Config, store *state.Store) (*app.Aggregator, error) {
	opts := upstreamOptions(cfg.Upstream)
	loc := cfg.Location()

	pw, err := store.ClaimProperty()
	if err != nil {
		return nil, fmt.Errorf("claim property: %w", err)
	}
	ww, err := store.ClaimWeather()
	if err != nil {
		return nil, fmt.Errorf("claim weather: %w", err)
	}
	sw, err := store.ClaimSun()
	if err != nil {
		return nil, fmt.Errorf("claim sun: %w", err)
	}
	tw, err := store.ClaimTides()
	if err != nil {
		return nil, fmt.Errorf("claim tides: %w", err)
	}

	imgOpts := opts
	imgOpts.MaxBodyBytes = 32 << 20
	props := property.New(upstream.New("property", opts), upstream.New("property-images", imgOpts), cfg.Property.FeedURL)

	tides := noaa.New(upstream.New("noaa", opts), cfg.Tides.URL, cfg.Tides.Station, cfg.Tides.Datum)

	refreshers := []app.Refresher{
		app.NewPropertyService(props, pw),
		app.NewTideService(tides, tw, cfg.Tides.Station, loc),
	}

	if cfg.Legacy() {
		owm := openweathermap.New(upstream.New("openweathermap", opts), cfg.Weather.OpenWeatherMapURL,
			cfg.Weather.OpenWeatherMapKey, cfg.Latitude, cfg.Longitude)
		sun := sunrise.New(upstream.New("sunrise-sunset", opts), cfg.Sun.URL, cfg.Latitude, cfg.Longitude)
		refreshers = append(refreshers,
			app.NewLegacyWeatherService(owm, ww, loc),
			app.NewSunService(sun, sw, loc),
		)
	} else {
		om := openmeteo.New(upstream.New("open-meteo", opts), cfg.Weather.OpenMeteoURL,
			cfg.Latitude, cfg.Longitude, cfg.Timezone, cfg.Weather.ForecastDays)
		refreshers = append(refreshers, app.NewOpenMeteoWeatherService(om, ww, sw, loc))
	}

	return app.NewAggregator(refreshers...), nil
}
