package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"concierge/internal/app"
	"concierge/internal/domain"
	"concierge/internal/state"
)

// ---- fakes ----

type fakeProperty struct {
	feed   domain.PropertyFeed
	err    error
	imgErr error
}

func (f *fakeProperty) GetProperty(ctx context.Context) (domain.PropertyFeed, error) {
	return f.feed, f.err
}
func (f *fakeProperty) GetImage(ctx context.Context, url string) (domain.Image, error) {
	if f.imgErr != nil {
		return domain.Image{}, f.imgErr
	}
	return domain.Image{Bytes: []byte{0x89, 'P', 'N', 'G'}, ContentType: "image/png"}, nil
}

type fakeForecast struct {
	f   domain.OpenMeteoForecast
	err error
}

func (f *fakeForecast) GetForecast(ctx context.Context) (domain.OpenMeteoForecast, error) {
	return f.f, f.err
}

type fakeTides struct {
	feed domain.TideFeed
	err  error
	day  time.Time
}

func (f *fakeTides) GetPredictions(ctx context.Context, day time.Time) (domain.TideFeed, error) {
	f.day = day
	return f.feed, f.err
}

type fakeSun struct {
	feed domain.SunFeed
	err  error
}

func (f *fakeSun) GetSunTimes(ctx context.Context) (domain.SunFeed, error) { return f.feed, f.err }

type funcRefresher struct {
	slice domain.SliceName
	fn    func(ctx context.Context) error
}

func (r funcRefresher) Slice() domain.SliceName           { return r.slice }
func (r funcRefresher) Refresh(ctx context.Context) error { return r.fn(ctx) }

// ---- fixtures ----

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func goodProperty() domain.PropertyFeed {
	dining := "Dining"
	return domain.PropertyFeed{
		GuestName:    "The Parkers",
		HeroImageURL: "https://img.example/hero.jpg",
		WiFiSSID:     "BeachHouse",
		WiFiPassword: "sandy;toes",
		Places:       []domain.PlaceFeed{{Name: "Salt Life", Category: &dining, ImageURL: "https://img/salt"}},
	}
}

func goodForecast() domain.OpenMeteoForecast {
	p := 40
	return domain.OpenMeteoForecast{
		Current: &domain.OpenMeteoNow{Temperature: 81.2, WeatherCode: 2, IsDay: 1},
		Hourly: domain.OpenMeteoHourly{
			Time:         []string{"2024-06-01T09:00", "2024-06-01T10:00"},
			Temperature:  []float64{80, 82},
			WeatherCode:  []int{2, 3},
			PrecipChance: []*int{&p, nil},
		},
		Daily: domain.OpenMeteoDaily{
			Time:         []string{"2024-06-01"},
			WeatherCode:  []int{61},
			High:         []float64{88},
			Low:          []float64{72},
			PrecipChance: []*int{&p},
			Sunrise:      []string{"2024-06-01T06:25"},
			Sunset:       []string{"2024-06-01T20:21"},
		},
	}
}

func goodTides() domain.TideFeed {
	preds := []domain.TidePrediction{
		{T: "2024-06-01 06:12", V: "1.234", Type: "H"},
		{T: "2024-06-01 12:30", V: "0.1", Type: "L"},
	}
	return domain.TideFeed{Predictions: &preds}
}

type rig struct {
	store *state.Store
	agg   *app.Aggregator
}

func newRig(t *testing.T, prop domain.PropertySource, om domain.OpenMeteoSource, tides domain.TideSource) rig {
	t.Helper()
	st := state.New(app.DefaultPropertySnapshot())
	pw, _ := st.ClaimProperty()
	ww, _ := st.ClaimWeather()
	sw, _ := st.ClaimSun()
	tw, _ := st.ClaimTides()

	agg := app.NewAggregator(
		app.NewPropertyService(prop, pw).WithClock(clock),
		app.NewOpenMeteoWeatherService(om, ww, sw, time.UTC).WithClock(clock),
		app.NewTideService(tides, tw, "8720030", time.UTC).WithClock(clock),
	)
	return rig{store: st, agg: agg}
}

func outcomes(rep domain.CycleReport) map[domain.SliceName]domain.Outcome {
	out := map[domain.SliceName]domain.Outcome{}
	for _, r := range rep.Results {
		out[r.Slice] = r.Outcome
	}
	return out
}

// ---- tests ----

func TestFetchAll_AllSucceed(t *testing.T) {
	r := newRig(t, &fakeProperty{feed: goodProperty()}, &fakeForecast{f: goodForecast()}, &fakeTides{feed: goodTides()})

	rep := r.agg.FetchAll(context.Background())
	if rep.Failed() {
		t.Fatalf("unexpected failures: %+v", rep.Results)
	}

	snap := r.store.Snapshot()
	if snap.Property.Guest.Name != "The Parkers" || len(snap.Property.Guest.HeroImage) == 0 {
		t.Fatalf("guest = %+v", snap.Property.Guest)
	}
	if len(snap.Property.SettleIn) != 5 {
		t.Fatalf("settle-in cards = %d", len(snap.Property.SettleIn))
	}
	if snap.Weather.Current.Temperature != 81 || len(snap.Weather.Hourly) != 2 {
		t.Fatalf("weather = %+v", snap.Weather)
	}
	if snap.Sun.Sunrise != "6:25 AM" {
		t.Fatalf("sun = %+v", snap.Sun)
	}
	if len(snap.Tides.Events) != 2 || snap.Tides.Date != "2024-06-01" {
		t.Fatalf("tides = %+v", snap.Tides)
	}
	for _, s := range domain.AllSlices {
		if snap.Versions[s] != 1 {
			t.Fatalf("%s version = %d", s, snap.Versions[s])
		}
	}
}

func TestFetchAll_MalformedPropertyKeepsDefault(t *testing.T) {
	bad := &fakeProperty{err: fmt.Errorf("property feed: %w", domain.ErrDecode)}
	r := newRig(t, bad, &fakeForecast{f: goodForecast()}, &fakeTides{feed: goodTides()})

	rep := r.agg.FetchAll(context.Background())
	got := outcomes(rep)
	if got[domain.SliceProperty] != domain.OutcomeDecode {
		t.Fatalf("property outcome = %s", got[domain.SliceProperty])
	}
	if got[domain.SliceWeather] != domain.OutcomeOK || got[domain.SliceTides] != domain.OutcomeOK {
		t.Fatalf("siblings should succeed: %+v", got)
	}

	p, v := r.store.Property()
	if p.Guest.Name != domain.DefaultGuestName || v != 0 {
		t.Fatalf("property = %q v%d, want default", p.Guest.Name, v)
	}
	if len(p.SettleIn) == 0 {
		t.Fatalf("default snapshot must still carry settle-in cards")
	}
	if _, wv := r.store.Weather(); wv != 1 {
		t.Fatalf("weather version = %d", wv)
	}
	if _, tv := r.store.Tides(); tv != 1 {
		t.Fatalf("tides version = %d", tv)
	}
}

func TestFetchAll_BlankGuestNameFallsBackToDefault(t *testing.T) {
	feed := goodProperty()
	feed.GuestName = "  \t "
	r := newRig(t, &fakeProperty{feed: feed}, &fakeForecast{f: goodForecast()}, &fakeTides{feed: goodTides()})

	rep := r.agg.FetchAll(context.Background())
	if got := outcomes(rep)[domain.SliceProperty]; got != domain.OutcomeOK {
		t.Fatalf("property outcome = %s", got)
	}
	p, v := r.store.Property()
	if v != 1 {
		t.Fatalf("property version = %d, want 1", v)
	}
	if p.Guest.Name != domain.DefaultGuestName {
		t.Fatalf("guest name = %q, want %q", p.Guest.Name, domain.DefaultGuestName)
	}
	if p.Guest.WiFi.SSID != feed.WiFiSSID {
		t.Fatalf("rest of the feed should still publish, wifi = %+v", p.Guest.WiFi)
	}
}

func TestFetchAll_FailureLeavesPriorValue(t *testing.T) {
	fc := &fakeForecast{f: goodForecast()}
	r := newRig(t, &fakeProperty{feed: goodProperty()}, fc, &fakeTides{feed: goodTides()})
	r.agg.FetchAll(context.Background())

	fc.err = fmt.Errorf("open-meteo: %w", domain.ErrTransport)
	rep := r.agg.FetchAll(context.Background())
	if outcomes(rep)[domain.SliceWeather] != domain.OutcomeTransport {
		t.Fatalf("outcomes = %+v", outcomes(rep))
	}
	w, v := r.store.Weather()
	if v != 1 || w.Current.Temperature != 81 {
		t.Fatalf("weather should keep the prior value, got v%d %+v", v, w.Current)
	}
}

func TestFetchAll_TideErrorPayloadIsAbsence(t *testing.T) {
	tides := &fakeTides{feed: domain.TideFeed{Error: &domain.TideFeedError{Message: "No Predictions data was found."}}}
	r := newRig(t, &fakeProperty{feed: goodProperty()}, &fakeForecast{f: goodForecast()}, tides)

	rep := r.agg.FetchAll(context.Background())
	if outcomes(rep)[domain.SliceTides] != domain.OutcomeAbsent {
		t.Fatalf("tides outcome = %s", outcomes(rep)[domain.SliceTides])
	}
	if ts, v := r.store.Tides(); v != 0 || len(ts.Events) != 0 {
		t.Fatalf("tides should stay default: v%d %+v", v, ts)
	}
	if !tides.day.Equal(fixedNow) {
		t.Fatalf("requested day = %s", tides.day)
	}
}

func TestPropertyService_HeroImageFailureStillPublishes(t *testing.T) {
	st := state.New(app.DefaultPropertySnapshot())
	pw, _ := st.ClaimProperty()
	src := &fakeProperty{feed: goodProperty(), imgErr: fmt.Errorf("img: %w", domain.ErrTransport)}

	if err := app.NewPropertyService(src, pw).Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	p, v := st.Property()
	if v != 1 || p.Guest.Name != "The Parkers" || p.Guest.HeroImage != nil {
		t.Fatalf("property = v%d %+v", v, p.Guest)
	}
}

func TestSunService(t *testing.T) {
	st := state.New(app.DefaultPropertySnapshot())
	sw, _ := st.ClaimSun()
	src := &fakeSun{feed: domain.SunFeed{Status: "OK", Results: domain.SunFeedResults{
		Sunrise: "2024-06-01T10:25:41+00:00", Sunset: "2024-06-02T00:21:09+00:00",
	}}}
	svc := app.NewSunService(src, sw, time.UTC)
	if svc.Slice() != domain.SliceSun {
		t.Fatalf("slice = %s", svc.Slice())
	}
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s, _ := st.Sun(); s.Sunrise != "10:25 AM" || s.Sunset != "12:21 AM" {
		t.Fatalf("sun = %+v", s)
	}

	src.feed.Results.Sunset = "not a time"
	if err := svc.Refresh(context.Background()); !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
}

func TestFetchAll_RecoversPanics(t *testing.T) {
	var ran atomic.Bool
	agg := app.NewAggregator(
		funcRefresher{slice: domain.SliceWeather, fn: func(context.Context) error { panic("boom") }},
		funcRefresher{slice: domain.SliceTides, fn: func(context.Context) error { ran.Store(true); return nil }},
	)
	rep := agg.FetchAll(context.Background())
	got := outcomes(rep)
	if got[domain.SliceWeather] != domain.OutcomeFailed || got[domain.SliceTides] != domain.OutcomeOK || !ran.Load() {
		t.Fatalf("outcomes = %+v", got)
	}
	if last, ok := agg.Last(); !ok || len(last.Results) != 2 {
		t.Fatalf("last report not recorded")
	}
}

func TestFetchAll_IgnoresCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agg := app.NewAggregator(funcRefresher{slice: domain.SliceTides, fn: func(ctx context.Context) error {
		return ctx.Err()
	}})
	if rep := agg.FetchAll(ctx); rep.Failed() {
		t.Fatalf("cycle saw the caller's cancellation: %+v", rep.Results)
	}
}

func TestFetchAll_ConcurrentCallersShareOneCycle(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	agg := app.NewAggregator(funcRefresher{slice: domain.SliceTides, fn: func(context.Context) error {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return nil
	}})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); agg.FetchAll(context.Background()) }()
	<-started
	go func() { defer wg.Done(); agg.FetchAll(context.Background()) }()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Fatalf("refresher ran %d times, want 1", n)
	}
}
