package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"concierge/internal/domain"
)

// ClockLayout is the 12-hour display format used for every time shown on screen.
const ClockLayout = "3:04 PM"

const (
	// Open-Meteo returns local timestamps without an offset.
	localMinuteLayout = "2006-01-02T15:04"
	localDateLayout   = "2006-01-02"
	tideLayout        = "2006-01-02 15:04"
	// Stricter ISO-8601 form with fractional seconds, tried before RFC 3339.
	isoFractionalLayout = "2006-01-02T15:04:05.000Z07:00"
)

// ParseLocal parses a source-local ISO timestamp ("2006-01-02T15:04", seconds optional) in loc.
func ParseLocal(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(localMinuteLayout, s, loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, loc)
}

// ParseLocalDate parses "2006-01-02" as midnight in loc.
func ParseLocalDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(localDateLayout, s, loc)
}

// LocalClock reformats a source-local ISO timestamp as a 12-hour display string.
func LocalClock(s string, loc *time.Location) (string, error) {
	t, err := ParseLocal(s, loc)
	if err != nil {
		return "", err
	}
	return t.Format(ClockLayout), nil
}

// ParseISO8601 accepts timestamps with or without fractional seconds.
func ParseISO8601(s string) (time.Time, error) {
	if t, err := time.Parse(isoFractionalLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ISOClock parses an ISO-8601 instant and renders it as a 12-hour string in loc.
func ISOClock(s string, loc *time.Location) (string, error) {
	t, err := ParseISO8601(s)
	if err != nil {
		return "", err
	}
	return t.In(loc).Format(ClockLayout), nil
}

// TideClock renders a "yyyy-MM-dd HH:mm" tide timestamp, returning the raw
// string unchanged when it cannot be parsed.
func TideClock(raw string, loc *time.Location) string {
	t, err := time.ParseInLocation(tideLayout, raw, loc)
	if err != nil {
		return raw
	}
	return t.Format(ClockLayout)
}

// TideType classifies a NOAA hi/lo type code. Only "H" is high water.
func TideType(code string) string {
	if code == "H" {
		return domain.TideHigh
	}
	return domain.TideLow
}

// TideHeight formats a prediction value to one decimal place in feet.
func TideHeight(v string) (string, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%.1f ft", f), nil
}

// TideDate is the NOAA begin/end date for the calendar day of t.
func TideDate(t time.Time) string {
	return t.Format("20060102")
}
