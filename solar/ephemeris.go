package solar

import (
	"math"
)

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi

	// Angular radius of the sun at a distance of 1 AU, in degrees
	solarRadiusAU = 0.2666
)

// Ephemeris is a snapshot of the sun's apparent position, fully determined
// by the epoch day it was evaluated at. Angles are radians except
// ApparentRadius, which is degrees; Distance is astronomical units.
type Ephemeris struct {
	RightAscension float64
	Declination    float64
	ApparentRadius float64
	Distance       float64
	Obliquity      float64
	EpochDay       float64

	// meanLongitude is M+w, kept for the sidereal time formula
	meanLongitude float64
}

// computeEphemeris evaluates approximate Keplerian orbital elements at
// epoch day d and derives the sun's equatorial coordinates. The model is
// perturbation-free; rise and set times derived from it are good to about
// a minute between 1801 and 2099 and drift slowly outside that range.
func computeEphemeris(d float64) Ephemeris {
	// Mean anomaly, longitude of perihelion, eccentricity
	M := normalize((357.0470 + 0.9856002585*d) * degToRad)
	w := (282.9404 + 4.70935e-5*d) * degToRad
	e := 0.016709 - 1.151e-9*d

	// Eccentric anomaly, one Newton-style correction. A single iteration
	// stays within the model's overall accuracy for Earth's near-circular
	// orbit, so there is no fixed-point loop here.
	E := M + e*math.Sin(M)*(1+e*math.Cos(M))

	// Orbital-plane coordinates to true anomaly and solar longitude
	x := math.Cos(E) - e
	y := math.Sqrt(1-e*e) * math.Sin(E)
	r := math.Hypot(x, y)
	v := math.Atan2(y, x)
	L := normalize(v + w)

	obliquity := (23.4393 - 3.563e-7*d) * degToRad

	// Ecliptic rectangular coordinates, rotated into the equatorial frame
	xe := r * math.Cos(L)
	ye := r * math.Sin(L)
	yq := ye * math.Cos(obliquity)
	zq := ye * math.Sin(obliquity)

	return Ephemeris{
		RightAscension: math.Atan2(yq, xe),
		Declination:    math.Atan2(zq, math.Hypot(xe, yq)),
		ApparentRadius: solarRadiusAU / r,
		Distance:       r,
		Obliquity:      obliquity,
		EpochDay:       d,
		meanLongitude:  M + w,
	}
}

// normalize wraps an angle into [0, 2π)
func normalize(angle float64) float64 {
	angle = math.Mod(angle, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}

// normalizeHalf wraps an angle into (-π, π]
func normalizeHalf(angle float64) float64 {
	angle = math.Mod(angle, 2*math.Pi)
	if angle > math.Pi {
		angle -= 2 * math.Pi
	} else if angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}
