package app

import (
	"fmt"
	"time"

	"concierge/internal/domain"
	"concierge/internal/normalize"
)

// QueryService is the read side over the state store. Every method returns the
// latest committed value together with the version of the slice it came from.
type QueryService struct {
	state  domain.StateReader
	qrBase string
	now    Clock
}

func NewQueryService(st domain.StateReader, qrBase string) *QueryService {
	return &QueryService{state: st, qrBase: qrBase, now: time.Now}
}

func (s *QueryService) WithClock(c Clock) *QueryService { s.now = c; return s }

// WiFiQR is the join payload for the guest network.
type WiFiQR struct {
	SSID      string `json:"ssid"`
	URI       string `json:"uri"`
	QRCodeURL string `json:"qrCodeURL"`
}

func (s *QueryService) Snapshot() domain.Snapshot { return s.state.Snapshot() }

func (s *QueryService) Guest() (domain.GuestProfile, uint64) {
	p, v := s.state.Property()
	return p.Guest, v
}

// HeroImage returns the fetched hero image, ErrNoData when there is none.
func (s *QueryService) HeroImage() (domain.Image, uint64, error) {
	p, v := s.state.Property()
	if len(p.Guest.HeroImage) == 0 {
		return domain.Image{}, v, fmt.Errorf("hero image: %w", domain.ErrNoData)
	}
	return domain.Image{Bytes: p.Guest.HeroImage, ContentType: p.Guest.HeroImageType}, v, nil
}

func (s *QueryService) Categories() ([]domain.Category, uint64) {
	p, v := s.state.Property()
	return p.Categories, v
}

// Dining returns ErrNoData when the feed carried no dining section.
func (s *QueryService) Dining() (*domain.DiningSection, uint64, error) {
	p, v := s.state.Property()
	if p.Dining == nil {
		return nil, v, fmt.Errorf("dining: %w", domain.ErrNoData)
	}
	return p.Dining, v, nil
}

func (s *QueryService) SettleIn() ([]domain.SettleInCard, uint64) {
	p, v := s.state.Property()
	return p.SettleIn, v
}

func (s *QueryService) Weather() (domain.WeatherSnapshot, uint64) { return s.state.Weather() }
func (s *QueryService) Sun() (domain.SunTimes, uint64)            { return s.state.Sun() }
func (s *QueryService) Tides() (domain.TideSnapshot, uint64)      { return s.state.Tides() }

// Moon computes the phase for at, or for now when at is zero.
func (s *QueryService) Moon(at time.Time) domain.MoonPhase {
	if at.IsZero() {
		at = s.now()
	}
	return normalize.MoonPhaseAt(at)
}

// WiFiQR returns ErrNoData until credentials have been fetched.
func (s *QueryService) WiFiQR() (WiFiQR, uint64, error) {
	p, v := s.state.Property()
	w := p.Guest.WiFi
	if w.SSID == "" {
		return WiFiQR{}, v, fmt.Errorf("wifi: %w", domain.ErrNoData)
	}
	return WiFiQR{
		SSID:      w.SSID,
		URI:       normalize.WiFiURI(w.SSID, w.Password),
		QRCodeURL: normalize.QRCodeURL(s.qrBase, w.SSID, w.Password),
	}, v, nil
}
