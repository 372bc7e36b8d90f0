package solar

import (
	"fmt"
	"math"
	"time"
)

// DiurnalResult classifies a single day's relationship to a horizon.
type DiurnalResult int

const (
	// NormalDay means the sun crosses the horizon: there is a rise and a set
	NormalDay DiurnalResult = iota
	// SunAlwaysAbove means the sun never sets below the horizon (midnight sun)
	SunAlwaysAbove
	// SunAlwaysBelow means the sun never rises above the horizon (polar night)
	SunAlwaysBelow
)

func (r DiurnalResult) String() string {
	switch r {
	case NormalDay:
		return "normal day"
	case SunAlwaysAbove:
		return "sun always above"
	case SunAlwaysBelow:
		return "sun always below"
	default:
		return fmt.Sprintf("DiurnalResult(%d)", int(r))
	}
}

// Horizon selects the altitude threshold that defines a rise or set event.
type Horizon int

const (
	// HorizonNormal is ordinary sunrise and sunset: the upper limb of the
	// sun on the refracted horizon, -35/60 degrees less the day's apparent
	// solar radius
	HorizonNormal Horizon = iota
	// HorizonCivil is civil twilight, sun center at -6 degrees
	HorizonCivil
	// HorizonNautical is nautical twilight, sun center at -12 degrees
	HorizonNautical
	// HorizonAstronomical is astronomical twilight, sun center at -18 degrees
	HorizonAstronomical
)

func (h Horizon) String() string {
	switch h {
	case HorizonNormal:
		return "normal"
	case HorizonCivil:
		return "civil"
	case HorizonNautical:
		return "nautical"
	case HorizonAstronomical:
		return "astronomical"
	default:
		return fmt.Sprintf("Horizon(%d)", int(h))
	}
}

// ParseHorizon maps a horizon name from configuration to its Horizon value
func ParseHorizon(name string) (Horizon, error) {
	switch name {
	case "normal":
		return HorizonNormal, nil
	case "civil":
		return HorizonCivil, nil
	case "nautical":
		return HorizonNautical, nil
	case "astronomical":
		return HorizonAstronomical, nil
	default:
		return HorizonNormal, fmt.Errorf("unknown horizon: %q", name)
	}
}

// altitude returns the altitude threshold in degrees for this horizon.
// Only the normal horizon depends on the day's apparent solar radius.
func (h Horizon) altitude(apparentRadius float64) float64 {
	switch h {
	case HorizonCivil:
		return -6
	case HorizonNautical:
		return -12
	case HorizonAstronomical:
		return -18
	default:
		return -35.0/60.0 - apparentRadius
	}
}

// diurnalArc solves
//
//	cos H = (sin alt - sin lat * sin dec) / (cos lat * cos dec)
//
// for the half-day arc H the sun spends above the altitude threshold,
// classifying days where the threshold is never crossed. Latitude and
// altitude are degrees; the returned arc is radians.
func diurnalArc(latitude, altitude float64, eph Ephemeris) (DiurnalResult, float64) {
	latRad := latitude * degToRad
	cosH := (math.Sin(altitude*degToRad) - math.Sin(latRad)*math.Sin(eph.Declination)) /
		(math.Cos(latRad) * math.Cos(eph.Declination))

	switch {
	case cosH >= 1:
		return SunAlwaysBelow, 0
	case cosH <= -1:
		return SunAlwaysAbove, math.Pi
	default:
		return NormalDay, math.Acos(cosH)
	}
}

// arcDuration converts a diurnal arc in radians to wall-clock time at the
// sun's mean rate of π radians per 12 hours.
func arcDuration(arc float64) time.Duration {
	return time.Duration(arc * 12 / math.Pi * float64(time.Hour))
}

// transitUTC returns the UTC instant of the sun's meridian transit for the
// calendar date the ephemeris was computed for. Local sidereal time comes
// from the Greenwich mean sidereal time at the ephemeris epoch day offset
// by the observer's longitude.
func transitUTC(date time.Time, longitude float64, eph Ephemeris) time.Time {
	// GMST at 00:00 is the sun's mean longitude plus 12 sidereal hours;
	// the second half turn accounts for the local-midday anchor of the
	// epoch day.
	gmst := normalize(eph.meanLongitude + math.Pi)
	sidereal := normalize(gmst + math.Pi + longitude*degToRad)

	fromNoon := arcDuration(normalizeHalf(sidereal - eph.RightAscension))
	return midnightUTC(date).Add(12*time.Hour - fromNoon)
}
