package noaa_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"concierge/internal/adapters/noaa"
	"concierge/internal/adapters/upstream"
)

func TestClient_URL(t *testing.T) {
	c := noaa.New(nil, "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter", "8720030", "")
	u, err := url.Parse(c.URL(time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)))
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	want := map[string]string{
		"begin_date": "20240601", "end_date": "20240601", "station": "8720030",
		"product": "predictions", "datum": "MLLW", "time_zone": "lst_ldt",
		"interval": "hilo", "units": "english", "format": "json",
	}
	for k, v := range want {
		if q.Get(k) != v {
			t.Fatalf("%s = %q, want %q", k, q.Get(k), v)
		}
	}
}

func TestClient_GetPredictions_ErrorPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": {"message": "No Predictions data was found."}}`))
	}))
	defer ts.Close()

	up := upstream.New("noaa-test", upstream.Options{RPS: 100, Timeout: time.Second})
	feed, err := noaa.New(up, ts.URL, "8720030", "MLLW").GetPredictions(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("error payload is not a transport failure: %v", err)
	}
	if feed.Predictions != nil || feed.Error == nil || feed.Error.Message == "" {
		t.Fatalf("unexpected feed: %+v", feed)
	}
}

func TestClient_GetPredictions(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predictions":[{"t":"2024-06-01 06:12","v":"1.2","type":"H"},{"t":"2024-06-01 12:30","v":"-0.1","type":"L"}]}`))
	}))
	defer ts.Close()

	up := upstream.New("noaa-test-ok", upstream.Options{RPS: 100, Timeout: time.Second})
	feed, err := noaa.New(up, ts.URL, "8720030", "MLLW").GetPredictions(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if feed.Predictions == nil || len(*feed.Predictions) != 2 || (*feed.Predictions)[0].Type != "H" {
		t.Fatalf("unexpected predictions: %+v", feed.Predictions)
	}
}
