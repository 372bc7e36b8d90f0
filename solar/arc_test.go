package solar

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiurnalArc(t *testing.T) {
	tests := []struct {
		name     string
		latitude float64
		altitude float64
		decDeg   float64
		want     DiurnalResult
	}{
		{
			name:     "midnight sun",
			latitude: 75,
			altitude: -0.833,
			decDeg:   23.4,
			want:     SunAlwaysAbove,
		},
		{
			name:     "polar night",
			latitude: 75,
			altitude: -0.833,
			decDeg:   -23.4,
			want:     SunAlwaysBelow,
		},
		{
			name:     "equator",
			latitude: 0,
			altitude: -0.833,
			decDeg:   0,
			want:     NormalDay,
		},
		{
			name:     "mid latitude",
			latitude: 40.7,
			altitude: -0.833,
			decDeg:   22.3,
			want:     NormalDay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eph := Ephemeris{Declination: tt.decDeg * degToRad}
			result, arc := diurnalArc(tt.latitude, tt.altitude, eph)

			require.Equal(t, tt.want, result)
			switch tt.want {
			case SunAlwaysAbove:
				assert.Equal(t, math.Pi, arc)
			case SunAlwaysBelow:
				assert.Equal(t, 0.0, arc)
			default:
				assert.Greater(t, arc, 0.0)
				assert.Less(t, arc, math.Pi)
			}
		})
	}
}

func TestDiurnalArc_EquatorHalfDay(t *testing.T) {
	// With the sun on the celestial equator, an equatorial observer sees a
	// half-day arc just over a quarter turn (the threshold sits below the
	// geometric horizon)
	result, arc := diurnalArc(0, -0.833, Ephemeris{})
	require.Equal(t, NormalDay, result)
	assert.InDelta(t, math.Pi/2, arc, 0.02)
	assert.Greater(t, arc, math.Pi/2)
}

func TestArcDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), arcDuration(0))
	assert.Equal(t, 12*time.Hour, arcDuration(math.Pi))
	assert.Equal(t, 6*time.Hour, arcDuration(math.Pi/2))
}

func TestHorizonAltitude(t *testing.T) {
	const radius = 0.2666

	assert.InDelta(t, -35.0/60.0-radius, HorizonNormal.altitude(radius), 1e-12)
	assert.Equal(t, -6.0, HorizonCivil.altitude(radius))
	assert.Equal(t, -12.0, HorizonNautical.altitude(radius))
	assert.Equal(t, -18.0, HorizonAstronomical.altitude(radius))
}

func TestParseHorizon(t *testing.T) {
	for _, horizon := range []Horizon{HorizonNormal, HorizonCivil, HorizonNautical, HorizonAstronomical} {
		parsed, err := ParseHorizon(horizon.String())
		require.NoError(t, err)
		assert.Equal(t, horizon, parsed)
	}

	_, err := ParseHorizon("twilight zone")
	assert.Error(t, err)
}

func TestDiurnalResultString(t *testing.T) {
	assert.Equal(t, "normal day", NormalDay.String())
	assert.Equal(t, "sun always above", SunAlwaysAbove.String())
	assert.Equal(t, "sun always below", SunAlwaysBelow.String())
}
