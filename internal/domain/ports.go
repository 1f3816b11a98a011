package domain

import (
	"context"
	"time"
)

// Sources. Each returns the raw feed shape or an error wrapping the taxonomy above.

type PropertySource interface {
	GetProperty(ctx context.Context) (PropertyFeed, error)
	GetImage(ctx context.Context, url string) (Image, error)
}

type OpenMeteoSource interface {
	GetForecast(ctx context.Context) (OpenMeteoForecast, error)
}

type OWMSource interface {
	GetForecast(ctx context.Context) (OWMForecast, error)
}

type SunSource interface {
	GetSunTimes(ctx context.Context) (SunFeed, error)
}

type TideSource interface {
	GetPredictions(ctx context.Context, day time.Time) (TideFeed, error)
}

type Image struct {
	Bytes       []byte
	ContentType string
}

// ---- shared state ----

type SliceName string

const (
	SliceProperty SliceName = "property"
	SliceWeather  SliceName = "weather"
	SliceSun      SliceName = "sun"
	SliceTides    SliceName = "tides"
)

// AllSlices lists every slice in a fixed order.
var AllSlices = []SliceName{SliceProperty, SliceWeather, SliceSun, SliceTides}

// Writer is the exclusive write handle for one slice.
type Writer[T any] interface {
	Set(v T)
}

// Change announces a committed slice value.
type Change struct {
	Slice   SliceName `json:"slice"`
	Version uint64    `json:"version"`
	At      time.Time `json:"at"`
}

// Snapshot is a consistent read of every slice. A zero version means the
// slice still holds its initial default.
type Snapshot struct {
	Property PropertySnapshot     `json:"property"`
	Weather  WeatherSnapshot      `json:"weather"`
	Sun      SunTimes             `json:"sun"`
	Tides    TideSnapshot         `json:"tides"`
	Versions map[SliceName]uint64 `json:"versions"`
}

type StateReader interface {
	Snapshot() Snapshot
	Property() (PropertySnapshot, uint64)
	Weather() (WeatherSnapshot, uint64)
	Sun() (SunTimes, uint64)
	Tides() (TideSnapshot, uint64)
}

// ---- fetch-all cycle ----

type Outcome string

const (
	OutcomeOK        Outcome = "ok"
	OutcomeTransport Outcome = "failed_transport"
	OutcomeDecode    Outcome = "failed_decode"
	OutcomeAbsent    Outcome = "absent"
	OutcomeFailed    Outcome = "failed"
)

type AdapterResult struct {
	Slice    SliceName     `json:"slice"`
	Outcome  Outcome       `json:"outcome"`
	Err      string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

type CycleReport struct {
	Started  time.Time       `json:"started"`
	Finished time.Time       `json:"finished"`
	Results  []AdapterResult `json:"results"`
}

// Failed reports whether any adapter in the cycle did not publish.
func (r CycleReport) Failed() bool {
	for _, res := range r.Results {
		if res.Outcome != OutcomeOK {
			return true
		}
	}
	return false
}
