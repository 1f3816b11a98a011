package normalize

import (
	"testing"
	"unicode/utf8"

	"concierge/internal/domain"
)

func TestWeatherTables_Mapped(t *testing.T) {
	for code, want := range wmoIcons {
		if got := WeatherIcon(code); got != want {
			t.Fatalf("WeatherIcon(%d) = %q, want %q", code, got, want)
		}
		if _, ok := wmoConditions[code]; !ok {
			t.Fatalf("code %d has an icon but no condition text", code)
		}
	}
	for code, want := range wmoConditions {
		if got := ConditionText(code); got != want {
			t.Fatalf("ConditionText(%d) = %q, want %q", code, got, want)
		}
	}
	if WeatherIcon(0) != domain.IconClear || ConditionText(0) != "Clear Sky" {
		t.Fatalf("code 0 mapping changed")
	}
	if WeatherIcon(95) != domain.IconThunderstorm {
		t.Fatalf("code 95 should be a thunderstorm")
	}
}

func TestWeatherTables_Defaults(t *testing.T) {
	for _, code := range []int{-1, 4, 44, 100, 999} {
		if got := WeatherIcon(code); got != domain.IconCloud {
			t.Fatalf("WeatherIcon(%d) = %q, want generic cloud", code, got)
		}
		if got := ConditionText(code); got != "Unknown" {
			t.Fatalf("ConditionText(%d) = %q, want Unknown", code, got)
		}
	}
}

func TestWeatherIconAt_Night(t *testing.T) {
	if got := WeatherIconAt(0, false); got != domain.IconClearNight {
		t.Fatalf("clear at night = %q", got)
	}
	if got := WeatherIconAt(2, false); got != domain.IconPartlyCloudyNight {
		t.Fatalf("partly cloudy at night = %q", got)
	}
	if got := WeatherIconAt(63, false); got != domain.IconRain {
		t.Fatalf("rain has no night variant, got %q", got)
	}
}

func TestOWMIconAndCondition(t *testing.T) {
	cases := map[string]domain.IconCategory{
		"01d": domain.IconClear,
		"01n": domain.IconClearNight,
		"10d": domain.IconRain,
		"13n": domain.IconSnow,
		"77d": domain.IconCloud,
		"":    domain.IconCloud,
	}
	for code, want := range cases {
		if got := OWMIcon(code); got != want {
			t.Fatalf("OWMIcon(%q) = %q, want %q", code, got, want)
		}
	}
	if got := OWMCondition("light rain"); got != "Light Rain" {
		t.Fatalf("OWMCondition = %q", got)
	}
	if got := OWMCondition("éclaircies"); got != "Éclaircies" || !utf8.ValidString(got) {
		t.Fatalf("OWMCondition(accented) = %q", got)
	}
	if got := OWMCondition("ciel dégagé"); got != "Ciel Dégagé" {
		t.Fatalf("OWMCondition = %q", got)
	}
	if got := OWMCondition(""); got != "Unknown" {
		t.Fatalf("empty description = %q", got)
	}
}
