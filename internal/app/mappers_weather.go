package app

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"concierge/internal/domain"
	"concierge/internal/normalize"
)

const (
	openMeteoDays = 7
	owmDays       = 5
	hourlyLimit   = 8

	// local hours [dayStartHour, dayEndHour) count as daytime
	dayStartHour = 6
	dayEndHour   = 20
)

func round(f float64) int { return int(math.Round(f)) }

func at[T any](s []T, i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(s) {
		return zero, false
	}
	return s[i], true
}

func chance(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// hourOf truncates t to the start of its hour in its own location.
func hourOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

/********** Open-Meteo **********/

// mapOpenMeteo returns the weather snapshot and, when the first day carries
// both, the day's sun times.
func mapOpenMeteo(f domain.OpenMeteoForecast, now time.Time, loc *time.Location) (domain.WeatherSnapshot, *domain.SunTimes, error) {
	if f.Current == nil {
		return domain.WeatherSnapshot{}, nil, fmt.Errorf("open-meteo: missing current block: %w", domain.ErrDecode)
	}
	isDay := f.Current.IsDay == 1
	moon := normalize.MoonPhaseAt(now)
	out := domain.WeatherSnapshot{
		Provider: "open-meteo",
		Current: domain.CurrentConditions{
			Temperature: round(f.Current.Temperature),
			Icon:        normalize.WeatherIconAt(f.Current.WeatherCode, isDay),
			Condition:   normalize.ConditionText(f.Current.WeatherCode),
			IsDay:       isDay,
		},
		Daily:     mapOpenMeteoDaily(f.Daily, loc),
		Hourly:    mapOpenMeteoHourly(f.Hourly, now, loc),
		Moon:      &moon,
		FetchedAt: now,
	}

	var sun *domain.SunTimes
	if len(out.Daily) > 0 && out.Daily[0].Sunrise != "" && out.Daily[0].Sunset != "" {
		sun = &domain.SunTimes{Sunrise: out.Daily[0].Sunrise, Sunset: out.Daily[0].Sunset}
	}
	return out, sun, nil
}

func mapOpenMeteoDaily(d domain.OpenMeteoDaily, loc *time.Location) []domain.DayForecast {
	out := make([]domain.DayForecast, 0, openMeteoDays)
	for i := 0; i < len(d.Time) && i < openMeteoDays; i++ {
		date, err := normalize.ParseLocalDate(d.Time[i], loc)
		if err != nil {
			log.Debug().Str("date", d.Time[i]).Err(err).Msg("skip daily entry")
			continue
		}
		hi, okHi := at(d.High, i)
		lo, okLo := at(d.Low, i)
		code, okCode := at(d.WeatherCode, i)
		if !okHi || !okLo || !okCode {
			continue
		}
		p, _ := at(d.PrecipChance, i)
		day := domain.DayForecast{
			Date:         date,
			High:         round(hi),
			Low:          round(lo),
			Icon:         normalize.WeatherIcon(code),
			Condition:    normalize.ConditionText(code),
			PrecipChance: chance(p),
		}
		if s, ok := at(d.Sunrise, i); ok {
			day.Sunrise, _ = normalize.LocalClock(s, loc)
		}
		if s, ok := at(d.Sunset, i); ok {
			day.Sunset, _ = normalize.LocalClock(s, loc)
		}
		out = append(out, day)
	}
	return out
}

// mapOpenMeteoHourly keeps up to hourlyLimit entries whose truncated hour is
// not before the current truncated hour.
func mapOpenMeteoHourly(h domain.OpenMeteoHourly, now time.Time, loc *time.Location) []domain.HourForecast {
	current := hourOf(now.In(loc))
	out := make([]domain.HourForecast, 0, hourlyLimit)
	for i, raw := range h.Time {
		if len(out) == hourlyLimit {
			break
		}
		t, err := normalize.ParseLocal(raw, loc)
		if err != nil {
			continue
		}
		if hourOf(t).Before(current) {
			continue
		}
		temp, okT := at(h.Temperature, i)
		code, okC := at(h.WeatherCode, i)
		if !okT || !okC {
			continue
		}
		p, _ := at(h.PrecipChance, i)
		isDay := t.Hour() >= dayStartHour && t.Hour() < dayEndHour
		out = append(out, domain.HourForecast{
			Time:         t,
			Temperature:  round(temp),
			Icon:         normalize.WeatherIconAt(code, isDay),
			Condition:    normalize.ConditionText(code),
			PrecipChance: chance(p),
			IsDay:        isDay,
		})
	}
	return out
}

/********** OpenWeatherMap (legacy) **********/

type owmDay struct {
	date time.Time
	hi   float64
	lo   float64
	pop  float64
	rep  domain.OWMSample
	noon bool
}

// mapOWM buckets 3-hour samples by local calendar day. The 12:00 sample, or
// the day's first sample when there is none, supplies icon and condition.
func mapOWM(f domain.OWMForecast, now time.Time, loc *time.Location) (domain.WeatherSnapshot, error) {
	if len(f.List) == 0 {
		return domain.WeatherSnapshot{}, fmt.Errorf("openweathermap: empty list: %w", domain.ErrNoData)
	}

	var days []*owmDay
	byDate := map[string]*owmDay{}
	for _, s := range f.List {
		t := time.Unix(s.Dt, 0).In(loc)
		key := t.Format("2006-01-02")
		d, ok := byDate[key]
		if !ok {
			d = &owmDay{
				date: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc),
				hi:   s.Main.TempMax,
				lo:   s.Main.TempMin,
				rep:  s,
			}
			byDate[key] = d
			days = append(days, d)
		}
		d.hi = math.Max(d.hi, s.Main.TempMax)
		d.lo = math.Min(d.lo, s.Main.TempMin)
		d.pop = math.Max(d.pop, s.Pop)
		if !d.noon && t.Hour() == 12 {
			d.rep, d.noon = s, true
		}
	}

	daily := make([]domain.DayForecast, 0, owmDays)
	for _, d := range days {
		if len(daily) == owmDays {
			break
		}
		icon, cond := owmLook(d.rep)
		daily = append(daily, domain.DayForecast{
			Date:         d.date,
			High:         round(d.hi),
			Low:          round(d.lo),
			Icon:         icon,
			Condition:    cond,
			PrecipChance: round(d.pop * 100),
		})
	}

	first := f.List[0]
	icon, cond := owmLook(first)
	return domain.WeatherSnapshot{
		Provider: "openweathermap",
		Current: domain.CurrentConditions{
			Temperature: round(first.Main.Temp),
			Icon:        icon,
			Condition:   cond,
			IsDay:       owmIsDay(first),
		},
		Daily:     daily,
		FetchedAt: now,
	}, nil
}

func owmLook(s domain.OWMSample) (domain.IconCategory, string) {
	if len(s.Weather) == 0 {
		return normalize.DefaultIcon, normalize.DefaultCondition
	}
	w := s.Weather[0]
	return normalize.OWMIcon(w.Icon), normalize.OWMCondition(w.Description)
}

func owmIsDay(s domain.OWMSample) bool {
	if len(s.Weather) == 0 {
		return true
	}
	icon := s.Weather[0].Icon
	return len(icon) == 0 || icon[len(icon)-1] != 'n'
}

/********** sunrise-sunset.org (legacy) **********/

func mapSun(f domain.SunFeed, loc *time.Location) (domain.SunTimes, error) {
	rise, err := normalize.ISOClock(f.Results.Sunrise, loc)
	if err != nil {
		return domain.SunTimes{}, fmt.Errorf("sun: sunrise %q: %w", f.Results.Sunrise, domain.ErrDecode)
	}
	set, err := normalize.ISOClock(f.Results.Sunset, loc)
	if err != nil {
		return domain.SunTimes{}, fmt.Errorf("sun: sunset %q: %w", f.Results.Sunset, domain.ErrDecode)
	}
	return domain.SunTimes{Sunrise: rise, Sunset: set}, nil
}
