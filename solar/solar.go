// Package solar computes sunrise, sunset, twilight boundaries, and day
// length for an arbitrary point on Earth's surface using a low-order
// Keplerian model of the sun's orbit.
//
// All returned instants are UTC. Converting a result to a local zone with
// time.Time.In is purely a presentation step and does not change the
// underlying instant. Results are accurate to roughly one minute for dates
// between 1801 and 2099; outside that range the orbital elements drift and
// accuracy degrades gradually, but no error is reported.
package solar

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrLatitudeRange is returned when a latitude is NaN or outside [-90, 90]
	ErrLatitudeRange = errors.New("latitude out of range [-90, 90]")
	// ErrLongitudeRange is returned when a longitude is NaN or infinite.
	// Finite longitudes outside [-180, 180] are wrapped, not rejected.
	ErrLongitudeRange = errors.New("longitude is not a finite value")
)

// Calculator computes solar events for one observer position and calendar
// date. It is an immutable value: derive a variant with WithLatitude,
// WithLongitude, or WithDate rather than mutating in place. A calculator
// may be shared between goroutines without synchronization.
type Calculator struct {
	latitude  float64
	longitude float64
	date      time.Time // 00:00 UTC on the calendar date
	ephemeris Ephemeris
}

// New builds a Calculator for an observer at (latitude, longitude) in
// degrees on the calendar date of date (time of day is ignored; the
// year/month/day are taken in date's own location).
//
// Latitude must be within [-90, 90]; the sign of a pole matters downstream,
// so out-of-range values are rejected rather than clamped. Longitude must
// be finite and is wrapped into [-180, 180].
func New(latitude, longitude float64, date time.Time) (*Calculator, error) {
	if math.IsNaN(latitude) || latitude < -90 || latitude > 90 {
		return nil, fmt.Errorf("%w: %v", ErrLatitudeRange, latitude)
	}
	if math.IsNaN(longitude) || math.IsInf(longitude, 0) {
		return nil, fmt.Errorf("%w: %v", ErrLongitudeRange, longitude)
	}
	longitude = wrapLongitude(longitude)

	day := midnightUTC(date)
	return &Calculator{
		latitude:  latitude,
		longitude: longitude,
		date:      day,
		ephemeris: computeEphemeris(localMiddayEpochDay(day, longitude)),
	}, nil
}

// wrapLongitude brings a finite longitude into [-180, 180]
func wrapLongitude(longitude float64) float64 {
	longitude = math.Mod(longitude, 360)
	if longitude > 180 {
		longitude -= 360
	} else if longitude < -180 {
		longitude += 360
	}
	return longitude
}

// Latitude returns the observer latitude in degrees.
func (c *Calculator) Latitude() float64 { return c.latitude }

// Longitude returns the observer longitude in degrees, wrapped into
// [-180, 180].
func (c *Calculator) Longitude() float64 { return c.longitude }

// Date returns 00:00 UTC on the calculator's calendar date.
func (c *Calculator) Date() time.Time { return c.date }

// Ephemeris returns the sun-position snapshot the calculator's queries are
// derived from.
func (c *Calculator) Ephemeris() Ephemeris { return c.ephemeris }

// WithLatitude derives a calculator at a different latitude, revalidating
// it. The ephemeris snapshot is reused; it does not depend on latitude.
func (c *Calculator) WithLatitude(latitude float64) (*Calculator, error) {
	if math.IsNaN(latitude) || latitude < -90 || latitude > 90 {
		return nil, fmt.Errorf("%w: %v", ErrLatitudeRange, latitude)
	}
	derived := *c
	derived.latitude = latitude
	return &derived, nil
}

// WithLongitude derives a calculator at a different longitude, revalidating
// and recomputing the ephemeris snapshot.
func (c *Calculator) WithLongitude(longitude float64) (*Calculator, error) {
	return New(c.latitude, longitude, c.date)
}

// WithDate derives a calculator for a different calendar date. The
// ephemeris snapshot is recomputed only when the date actually changes.
func (c *Calculator) WithDate(date time.Time) *Calculator {
	day := midnightUTC(date)
	if day.Equal(c.date) {
		return c
	}

	derived := *c
	derived.date = day
	derived.ephemeris = computeEphemeris(localMiddayEpochDay(day, c.longitude))
	return &derived
}

// Sunrise returns the UTC instant the sun rises above the given horizon.
// When the result is SunAlwaysAbove or SunAlwaysBelow the instant is the
// degenerate end of the diurnal arc and only the classification is
// meaningful.
func (c *Calculator) Sunrise(horizon Horizon) (DiurnalResult, time.Time) {
	result, arc := diurnalArc(c.latitude, horizon.altitude(c.ephemeris.ApparentRadius), c.ephemeris)
	return result, c.transit().Add(-arcDuration(arc))
}

// Sunset returns the UTC instant the sun sets below the given horizon,
// with the same degenerate-case convention as Sunrise.
func (c *Calculator) Sunset(horizon Horizon) (DiurnalResult, time.Time) {
	result, arc := diurnalArc(c.latitude, horizon.altitude(c.ephemeris.ApparentRadius), c.ephemeris)
	return result, c.transit().Add(arcDuration(arc))
}

// RiseAndSet returns both crossings of the given horizon in one query.
// The instants are identical to those returned by Sunrise and Sunset.
func (c *Calculator) RiseAndSet(horizon Horizon) (DiurnalResult, time.Time, time.Time) {
	result, arc := diurnalArc(c.latitude, horizon.altitude(c.ephemeris.ApparentRadius), c.ephemeris)
	transit := c.transit()
	half := arcDuration(arc)
	return result, transit.Add(-half), transit.Add(half)
}

// DayLength returns the time the sun spends above the given horizon. It is
// derived from the diurnal arc alone, so it is exactly 0 or 24h on
// SunAlwaysBelow and SunAlwaysAbove days respectively.
func (c *Calculator) DayLength(horizon Horizon) time.Duration {
	_, arc := diurnalArc(c.latitude, horizon.altitude(c.ephemeris.ApparentRadius), c.ephemeris)
	return 2 * arcDuration(arc)
}

func (c *Calculator) transit() time.Time {
	return transitUTC(c.date, c.longitude, c.ephemeris)
}
