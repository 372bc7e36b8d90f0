// Package sundial schedules actions around the sun's day. Jobs fire at
// sunrise, sunset, dawn, or dusk for a configured location, with solar
// event times computed locally by the solar package rather than fetched
// from a remote service.
package sundial

import (
	"time"

	"github.com/subtlepseudonym/sundial/internal/log"
	"github.com/subtlepseudonym/sundial/solar"
)

// Location is an observer position on Earth's surface
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Event names a solar event a schedule can fire on
type Event string

const (
	EventSunrise Event = "sunrise"
	EventSunset  Event = "sunset"
	EventDawn    Event = "dawn"
	EventDusk    Event = "dusk"
)

// maxScanDays bounds the search for the next occurrence of an event. At
// polar latitudes a horizon may not be crossed for months; a year covers
// every recurring event.
const maxScanDays = 366

// SolarSchedule fires once per day at a solar event, shifted by Offset.
// Sunrise and sunset use the normal horizon; dawn and dusk use Horizon,
// so twilight schedules should set it explicitly (the zero value is
// HorizonNormal, which makes dawn coincide with sunrise).
//
// This implements robfig/cron.Schedule
type SolarSchedule struct {
	Location Location
	Event    Event
	Horizon  solar.Horizon
	Offset   time.Duration
}

// Next returns the first time the scheduled event occurs after now. On days
// when the sun never crosses the horizon, subsequent days are scanned; if
// the event does not occur within a year the zero time is returned, which
// cron treats as "never".
func (s SolarSchedule) Next(now time.Time) time.Time {
	calc, err := solar.New(s.Location.Latitude, s.Location.Longitude, now)
	if err != nil {
		log.Errorf("solar calculator: %s", err)
		return time.Time{}
	}

	for i := 0; i < maxScanDays; i++ {
		result, event := s.eventTime(calc)
		if result == solar.NormalDay {
			eventTime := event.Add(s.Offset)
			if eventTime.After(now) {
				log.Debugf("next %s %s: %s", s.Event, s.Offset, eventTime.Local().Format(time.RFC3339))
				return eventTime
			}
		}

		calc = calc.WithDate(calc.Date().AddDate(0, 0, 1))
	}

	return time.Time{}
}

func (s SolarSchedule) eventTime(calc *solar.Calculator) (solar.DiurnalResult, time.Time) {
	switch s.Event {
	case EventSunrise:
		return calc.Sunrise(solar.HorizonNormal)
	case EventDawn:
		return calc.Sunrise(s.Horizon)
	case EventDusk:
		return calc.Sunset(s.Horizon)
	default:
		return calc.Sunset(solar.HorizonNormal)
	}
}
