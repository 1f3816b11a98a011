package app_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"concierge/internal/app"
	"concierge/internal/domain"
	"concierge/internal/state"
)

func TestQueryService_Defaults(t *testing.T) {
	st := state.New(app.DefaultPropertySnapshot())
	q := app.NewQueryService(st, "https://api.qrserver.com/v1/create-qr-code/")

	if g, v := q.Guest(); g.Name != "Guest" || v != 0 {
		t.Fatalf("guest = %+v v%d", g, v)
	}
	if _, _, err := q.WiFiQR(); !errors.Is(err, domain.ErrNoData) {
		t.Fatalf("wifi err = %v", err)
	}
	if _, _, err := q.Dining(); !errors.Is(err, domain.ErrNoData) {
		t.Fatalf("dining err = %v", err)
	}
	if _, _, err := q.HeroImage(); !errors.Is(err, domain.ErrNoData) {
		t.Fatalf("hero err = %v", err)
	}
	if cards, _ := q.SettleIn(); len(cards) != 5 {
		t.Fatalf("settle-in = %d", len(cards))
	}
}

func TestQueryService_AfterPropertyCommit(t *testing.T) {
	st := state.New(app.DefaultPropertySnapshot())
	pw, _ := st.ClaimProperty()
	pw.Set(domain.PropertySnapshot{
		Guest: domain.GuestProfile{
			Name: "The Parkers",
			WiFi: domain.WiFiCredentials{SSID: "BeachHouse", Password: "sandy;toes"},
		},
		Dining: &domain.DiningSection{Title: "Where to Eat"},
	})
	q := app.NewQueryService(st, "https://api.qrserver.com/v1/create-qr-code/")

	qr, v, err := q.WiFiQR()
	if err != nil || v != 1 {
		t.Fatalf("wifi: v%d err=%v", v, err)
	}
	if qr.URI != `WIFI:T:WPA;S:BeachHouse;P:sandy\;toes;;` {
		t.Fatalf("uri = %q", qr.URI)
	}
	if !strings.HasPrefix(qr.QRCodeURL, "https://api.qrserver.com/v1/create-qr-code/?") || !strings.Contains(qr.QRCodeURL, "size=400x400") {
		t.Fatalf("qr url = %q", qr.QRCodeURL)
	}
	if d, _, err := q.Dining(); err != nil || d.Title != "Where to Eat" {
		t.Fatalf("dining = %+v err=%v", d, err)
	}
}

func TestQueryService_Moon(t *testing.T) {
	st := state.New(app.DefaultPropertySnapshot())
	fullMoon := time.Date(2024, 6, 22, 1, 8, 0, 0, time.UTC)
	q := app.NewQueryService(st, "").WithClock(func() time.Time { return fullMoon })

	if m := q.Moon(time.Time{}); m.Name != "Full Moon" {
		t.Fatalf("moon now = %+v", m)
	}
	if m := q.Moon(time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)); m.Name != "New Moon" {
		t.Fatalf("moon at epoch = %+v", m)
	}
}
