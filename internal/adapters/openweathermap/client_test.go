package openweathermap_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"concierge/internal/adapters/openweathermap"
	"concierge/internal/adapters/upstream"
	"concierge/internal/domain"
)

func TestClient_URL(t *testing.T) {
	c := openweathermap.New(nil, "https://api.openweathermap.org/data/2.5/forecast", "k3y", 30.5, -81.25)
	u, _ := url.Parse(c.URL())
	q := u.Query()
	if q.Get("appid") != "k3y" || q.Get("units") != "imperial" || q.Get("lat") != "30.5000" || q.Get("cnt") != "40" {
		t.Fatalf("unexpected query: %v", q)
	}
}

func TestClient_GetForecast_MissingList(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"cod": "401", "message": "Invalid API key"}`))
	}))
	defer ts.Close()

	up := upstream.New("owm-test", upstream.Options{RPS: 100, Timeout: time.Second})
	_, err := openweathermap.New(up, ts.URL, "", 0, 0).GetForecast(context.Background())
	if !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
}
