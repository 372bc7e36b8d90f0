package sundial

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtlepseudonym/sundial/solar"
)

var newYork = Location{Latitude: 40.7128, Longitude: -74.0060}

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want SolarSchedule
	}{
		{
			name: "bare sunset",
			spec: "@sunset",
			want: SolarSchedule{Location: newYork, Event: EventSunset, Horizon: solar.HorizonNormal},
		},
		{
			name: "sunrise with offset",
			spec: "@sunrise 30m",
			want: SolarSchedule{Location: newYork, Event: EventSunrise, Horizon: solar.HorizonNormal, Offset: 30 * time.Minute},
		},
		{
			name: "dusk with horizon and negative offset",
			spec: "@dusk:civil -15m",
			want: SolarSchedule{Location: newYork, Event: EventDusk, Horizon: solar.HorizonCivil, Offset: -15 * time.Minute},
		},
		{
			name: "astronomical dawn",
			spec: "@dawn:astronomical",
			want: SolarSchedule{Location: newYork, Event: EventDawn, Horizon: solar.HorizonAstronomical},
		},
		{
			name: "dawn defaults to civil twilight",
			spec: "@dawn",
			want: SolarSchedule{Location: newYork, Event: EventDawn, Horizon: solar.HorizonCivil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := ParseSchedule(tt.spec, newYork)
			require.NoError(t, err)
			assert.Equal(t, tt.want, schedule)
		})
	}
}

func TestParseSchedule_Cron(t *testing.T) {
	// non-solar schedules fall through to the cron parser
	for _, spec := range []string{"0 12 * * *", "@daily", "@every 1h"} {
		schedule, err := ParseSchedule(spec, newYork)
		require.NoError(t, err, spec)
		_, isSolar := schedule.(SolarSchedule)
		assert.False(t, isSolar, spec)
	}
}

func TestParseSchedule_Errors(t *testing.T) {
	specs := []string{
		"",
		"@sunset:civil",     // sunset is fixed to the normal horizon
		"@dusk:bogus",       // unknown horizon
		"@sunrise 30m late", // trailing field
		"@sunrise soon",     // unparseable offset
	}

	for _, spec := range specs {
		_, err := ParseSchedule(spec, newYork)
		assert.Error(t, err, "spec %q", spec)
	}
}

func TestSolarSchedule_Next(t *testing.T) {
	schedule := SolarSchedule{Location: newYork, Event: EventSunset}
	now := time.Date(2021, time.July, 9, 0, 0, 0, 0, time.UTC)

	calc, err := solar.New(newYork.Latitude, newYork.Longitude, now)
	require.NoError(t, err)
	_, want := calc.Sunset(solar.HorizonNormal)

	next := schedule.Next(now)
	require.True(t, next.Equal(want), "next %s != %s", next, want)
	assert.True(t, next.After(now))

	// once the event has passed, the following day's sunset is next
	after := schedule.Next(next.Add(time.Minute))
	assert.True(t, after.After(next))
	assert.InDelta(t, 24*time.Hour.Seconds(), after.Sub(next).Seconds(), time.Hour.Seconds())
}

func TestSolarSchedule_NextWithOffset(t *testing.T) {
	schedule := SolarSchedule{Location: newYork, Event: EventSunrise, Offset: -30 * time.Minute}
	now := time.Date(2021, time.July, 9, 0, 0, 0, 0, time.UTC)

	calc, err := solar.New(newYork.Latitude, newYork.Longitude, now)
	require.NoError(t, err)
	_, sunriseTime := calc.Sunrise(solar.HorizonNormal)

	next := schedule.Next(now)
	assert.True(t, next.Equal(sunriseTime.Add(-30*time.Minute)))
}

func TestSolarSchedule_NextTwilight(t *testing.T) {
	schedule := SolarSchedule{Location: newYork, Event: EventDawn, Horizon: solar.HorizonNautical}
	now := time.Date(2021, time.July, 9, 0, 0, 0, 0, time.UTC)

	calc, err := solar.New(newYork.Latitude, newYork.Longitude, now)
	require.NoError(t, err)
	_, dawn := calc.Sunrise(solar.HorizonNautical)

	next := schedule.Next(now)
	assert.True(t, next.Equal(dawn))
}

func TestSolarSchedule_NextPolarNight(t *testing.T) {
	// At 80N in mid-November the sun is below the horizon until late
	// February; Next scans forward to the end of the polar night
	schedule := SolarSchedule{
		Location: Location{Latitude: 80, Longitude: 0},
		Event:    EventSunrise,
	}
	now := time.Date(2021, time.November, 15, 0, 0, 0, 0, time.UTC)

	next := schedule.Next(now)
	require.False(t, next.IsZero())
	assert.Equal(t, 2022, next.Year())
	assert.Equal(t, time.February, next.Month())
}

func TestSolarSchedule_NextInvalidLocation(t *testing.T) {
	schedule := SolarSchedule{
		Location: Location{Latitude: 100, Longitude: 0},
		Event:    EventSunset,
	}

	next := schedule.Next(time.Date(2021, time.July, 9, 0, 0, 0, 0, time.UTC))
	assert.True(t, next.IsZero())
}
