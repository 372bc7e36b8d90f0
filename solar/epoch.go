package solar

import (
	"time"
)

// Epoch is the reference instant for the orbital-element formulas:
// 2000-01-01T00:00:00 UTC. All time arguments are reduced to a fractional
// day count relative to this instant before being fed to the model.
var Epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// DaysSinceEpoch returns the fractional number of days between t and Epoch,
// negative for instants before the epoch.
func DaysSinceEpoch(t time.Time) float64 {
	return t.Sub(Epoch).Hours() / 24
}

// midnightUTC reduces t to 00:00 UTC on the calendar date the caller
// perceives, dropping the time of day.
func midnightUTC(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// localMiddayEpochDay returns the epoch day of local solar midday at the
// given longitude on the given date. Anchoring the ephemeris evaluation to
// the moment the mean sun is overhead keeps the trigonometric
// approximations most accurate for that observer.
//
// Longitude must already be wrapped into [-180, 180].
func localMiddayEpochDay(date time.Time, longitude float64) float64 {
	return DaysSinceEpoch(midnightUTC(date)) + 0.5 - longitude/360
}

// localMiddayUTC is localMiddayEpochDay expressed as a UTC instant.
func localMiddayUTC(date time.Time, longitude float64) time.Time {
	d := localMiddayEpochDay(date, longitude)
	return Epoch.Add(time.Duration(d * 24 * float64(time.Hour)))
}
