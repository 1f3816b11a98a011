package normalize

import (
	"math"
	"time"

	"concierge/internal/domain"
)

const SynodicMonth = 29.53058867 // days

// ReferenceNewMoon is a known new moon used as the phase epoch.
var ReferenceNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

type moonRange struct {
	upper float64 // exclusive
	name  string
	icon  string
}

// Half-open ranges covering [0,1). New Moon appears at both ends of the cycle.
var moonRanges = []moonRange{
	{0.0339, "New Moon", "moonphase.new.moon"},
	{0.2161, "Waxing Crescent", "moonphase.waxing.crescent"},
	{0.2839, "First Quarter", "moonphase.first.quarter"},
	{0.4661, "Waxing Gibbous", "moonphase.waxing.gibbous"},
	{0.5339, "Full Moon", "moonphase.full.moon"},
	{0.7161, "Waning Gibbous", "moonphase.waning.gibbous"},
	{0.7839, "Last Quarter", "moonphase.last.quarter"},
	{0.9661, "Waning Crescent", "moonphase.waning.crescent"},
	{1.0, "New Moon", "moonphase.new.moon"},
}

// MoonPhaseFraction is the position of t in the synodic cycle, in [0,1).
func MoonPhaseFraction(t time.Time) float64 {
	days := t.Sub(ReferenceNewMoon).Hours() / 24
	p := math.Mod(days, SynodicMonth) / SynodicMonth
	if p < 0 {
		p++
	}
	if p >= 1 {
		p = 0
	}
	return p
}

// MoonPhaseNamed maps a fraction in [0,1) to its named range.
func MoonPhaseNamed(p float64) domain.MoonPhase {
	for _, r := range moonRanges {
		if p < r.upper {
			return domain.MoonPhase{Phase: p, Name: r.name, Icon: r.icon}
		}
	}
	last := moonRanges[len(moonRanges)-1]
	return domain.MoonPhase{Phase: p, Name: last.name, Icon: last.icon}
}

// MoonPhaseAt computes the moon phase for t. It needs no network access.
func MoonPhaseAt(t time.Time) domain.MoonPhase {
	return MoonPhaseNamed(MoonPhaseFraction(t))
}
