package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"concierge/internal/adapters/observability"
	"concierge/internal/domain"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// Refresher is one source adapter: fetch, normalize, then commit its own slice.
// A non-nil error means the slice was left untouched.
type Refresher interface {
	Slice() domain.SliceName
	Refresh(ctx context.Context) error
}

func committed(slice domain.SliceName) {
	observability.ObserveSliceUpdate(string(slice))
}

/********** property **********/

type PropertyService struct {
	src domain.PropertySource
	out domain.Writer[domain.PropertySnapshot]
	now Clock
}

func NewPropertyService(src domain.PropertySource, out domain.Writer[domain.PropertySnapshot]) *PropertyService {
	return &PropertyService{src: src, out: out, now: time.Now}
}

func (s *PropertyService) WithClock(c Clock) *PropertyService { s.now = c; return s }

func (s *PropertyService) Slice() domain.SliceName { return domain.SliceProperty }

func (s *PropertyService) Refresh(ctx context.Context) error {
	feed, err := s.src.GetProperty(ctx)
	if err != nil {
		return fmt.Errorf("property: %w", err)
	}
	snap := mapProperty(feed, s.now())

	// the hero image is optional; the profile is published without it
	img, err := s.src.GetImage(ctx, feed.HeroImageURL)
	if err != nil {
		log.Warn().Err(err).Str("url", feed.HeroImageURL).Msg("hero image fetch failed")
	} else {
		snap.Guest.HeroImage = img.Bytes
		snap.Guest.HeroImageType = img.ContentType
	}

	s.out.Set(snap)
	committed(domain.SliceProperty)
	return nil
}

/********** weather **********/

// WeatherService runs one of two provider variants. The Open-Meteo variant
// also owns the sun slice; the OpenWeatherMap variant leaves it to SunService.
type WeatherService struct {
	om  domain.OpenMeteoSource
	owm domain.OWMSource

	weather domain.Writer[domain.WeatherSnapshot]
	sun     domain.Writer[domain.SunTimes]
	loc     *time.Location
	now     Clock
}

func NewOpenMeteoWeatherService(src domain.OpenMeteoSource, weather domain.Writer[domain.WeatherSnapshot], sun domain.Writer[domain.SunTimes], loc *time.Location) *WeatherService {
	return &WeatherService{om: src, weather: weather, sun: sun, loc: loc, now: time.Now}
}

func NewLegacyWeatherService(src domain.OWMSource, weather domain.Writer[domain.WeatherSnapshot], loc *time.Location) *WeatherService {
	return &WeatherService{owm: src, weather: weather, loc: loc, now: time.Now}
}

func (s *WeatherService) WithClock(c Clock) *WeatherService { s.now = c; return s }

func (s *WeatherService) Slice() domain.SliceName { return domain.SliceWeather }

func (s *WeatherService) Refresh(ctx context.Context) error {
	if s.owm != nil {
		return s.refreshLegacy(ctx)
	}
	f, err := s.om.GetForecast(ctx)
	if err != nil {
		return fmt.Errorf("weather: %w", err)
	}
	snap, sun, err := mapOpenMeteo(f, s.now(), s.loc)
	if err != nil {
		return fmt.Errorf("weather: %w", err)
	}
	s.weather.Set(snap)
	committed(domain.SliceWeather)

	if sun == nil {
		log.Warn().Msg("open-meteo daily block carried no sun times")
		return nil
	}
	if s.sun != nil {
		s.sun.Set(*sun)
		committed(domain.SliceSun)
	}
	return nil
}

func (s *WeatherService) refreshLegacy(ctx context.Context) error {
	f, err := s.owm.GetForecast(ctx)
	if err != nil {
		return fmt.Errorf("weather: %w", err)
	}
	snap, err := mapOWM(f, s.now(), s.loc)
	if err != nil {
		return fmt.Errorf("weather: %w", err)
	}
	s.weather.Set(snap)
	committed(domain.SliceWeather)
	return nil
}

/********** sun (legacy) **********/

type SunService struct {
	src domain.SunSource
	out domain.Writer[domain.SunTimes]
	loc *time.Location
}

func NewSunService(src domain.SunSource, out domain.Writer[domain.SunTimes], loc *time.Location) *SunService {
	return &SunService{src: src, out: out, loc: loc}
}

func (s *SunService) Slice() domain.SliceName { return domain.SliceSun }

func (s *SunService) Refresh(ctx context.Context) error {
	f, err := s.src.GetSunTimes(ctx)
	if err != nil {
		return fmt.Errorf("sun: %w", err)
	}
	st, err := mapSun(f, s.loc)
	if err != nil {
		return err
	}
	s.out.Set(st)
	committed(domain.SliceSun)
	return nil
}

/********** tides **********/

type TideService struct {
	src     domain.TideSource
	out     domain.Writer[domain.TideSnapshot]
	station string
	loc     *time.Location
	now     Clock
}

func NewTideService(src domain.TideSource, out domain.Writer[domain.TideSnapshot], station string, loc *time.Location) *TideService {
	return &TideService{src: src, out: out, station: station, loc: loc, now: time.Now}
}

func (s *TideService) WithClock(c Clock) *TideService { s.now = c; return s }

func (s *TideService) Slice() domain.SliceName { return domain.SliceTides }

// Refresh loads today's hi/lo predictions. "Today" is the calendar day in the
// station's timezone. A payload without predictions leaves the slice as is.
func (s *TideService) Refresh(ctx context.Context) error {
	now := s.now()
	today := now.In(s.loc)
	f, err := s.src.GetPredictions(ctx, today)
	if err != nil {
		return fmt.Errorf("tides: %w", err)
	}
	if f.Predictions == nil {
		msg := "no predictions in response"
		if f.Error != nil && f.Error.Message != "" {
			msg = f.Error.Message
		}
		return fmt.Errorf("tides: %s: %w", msg, domain.ErrNoData)
	}

	s.out.Set(domain.TideSnapshot{
		Station:   s.station,
		Date:      today.Format("2006-01-02"),
		Events:    mapTides(*f.Predictions, s.loc),
		FetchedAt: now,
	})
	committed(domain.SliceTides)
	return nil
}
