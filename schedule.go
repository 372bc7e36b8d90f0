package sundial

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/subtlepseudonym/sundial/solar"
)

// ParseSchedule interprets a schedule string from configuration. Solar
// schedules name an event, optionally a twilight horizon, and optionally an
// offset duration:
//
//	@sunset
//	@sunrise 30m
//	@dusk:civil -15m
//	@dawn:astronomical
//
// Any other string, including cron descriptors like @daily, is parsed as a
// standard cron expression.
func ParseSchedule(spec string, location Location) (cron.Schedule, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty schedule")
	}

	event, horizon, ok, err := parseEvent(fields[0])
	if err != nil {
		return nil, err
	}
	if !ok {
		return cron.ParseStandard(spec)
	}

	var offset time.Duration
	if len(fields) > 1 {
		offset, err = time.ParseDuration(fields[1])
		if err != nil {
			return nil, fmt.Errorf("parse %s offset: %w", event, err)
		}
	}
	if len(fields) > 2 {
		return nil, fmt.Errorf("unexpected schedule field: %q", fields[2])
	}

	return SolarSchedule{
		Location: location,
		Event:    event,
		Horizon:  horizon,
		Offset:   offset,
	}, nil
}

// parseEvent splits an "@event:horizon" token. ok is false when the token
// is not a solar event, leaving the schedule to the cron parser.
func parseEvent(token string) (Event, solar.Horizon, bool, error) {
	if !strings.HasPrefix(token, "@") {
		return "", 0, false, nil
	}

	name := strings.TrimPrefix(token, "@")
	horizonName := ""
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name, horizonName = name[:i], name[i+1:]
	}

	event := Event(name)
	switch event {
	case EventSunrise, EventSunset, EventDawn, EventDusk:
	default:
		return "", 0, false, nil
	}

	// Sunrise and sunset are fixed to the normal horizon; dawn and dusk
	// default to civil twilight
	switch event {
	case EventSunrise, EventSunset:
		if horizonName != "" {
			return "", 0, false, fmt.Errorf("%s does not take a horizon: %q", event, horizonName)
		}
		return event, solar.HorizonNormal, true, nil
	default:
		horizon := solar.HorizonCivil
		if horizonName != "" {
			var err error
			horizon, err = solar.ParseHorizon(horizonName)
			if err != nil {
				return "", 0, false, fmt.Errorf("parse %s horizon: %w", event, err)
			}
		}
		return event, horizon, true, nil
	}
}
