// Package device drives the smart lights and relays that sundial jobs act
// on: LIFX bulbs over the lifxlan UDP protocol, Shelly relays and Tasmota
// S31 plugs over their local HTTP APIs.
package device

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/subtlepseudonym/sundial/config"
	"github.com/subtlepseudonym/sundial/internal/log"
)

const (
	defaultLifxPort        = 56700
	defaultPowerTransition = 2 * time.Second
	defaultRetryBackoff    = 250 * time.Millisecond
	defaultRetryLimit      = 5
)

type Type string

const (
	TypeLifx   Type = "lifx"
	TypeS31    Type = "s31"
	TypeShelly Type = "shelly"
)

// Color is a desired device state in HSBK. Relays only honor Brightness,
// treating zero as off and anything else as on.
type Color struct {
	Hue        uint16
	Saturation uint16
	Brightness uint16
	Kelvin     uint16
}

type Device interface {
	StatusHandler(http.ResponseWriter, *http.Request)
	PowerHandler(http.ResponseWriter, *http.Request)
	Transition(*Color, time.Duration) error
	Label() string
	String() string
}

func Connect(label string, device config.Device) (Device, error) {
	switch Type(device.Type) {
	case TypeLifx:
		addr := fmt.Sprintf("%s:%d", device.Host, defaultLifxPort)
		return ConnectLifx(label, addr, device.MAC)
	case TypeS31:
		return ConnectS31(label, device.Host, device.MAC)
	case TypeShelly:
		return ConnectShelly(label, device.Host, device.MAC, device.Config)
	default:
		return nil, fmt.Errorf("unknown device type: %s", device.Type)
	}
}

// writeJSON encodes v as the response body, falling back to a plain 500 if
// encoding fails.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("encode response: %s", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// formScale parses a form value as a float, clamps it into [0, max], and
// scales it onto the uint16 range the device protocols use.
func formScale(r *http.Request, key string, max float64) (uint16, bool, error) {
	if _, ok := r.Form[key]; !ok {
		return 0, false, nil
	}

	param := r.FormValue(key)
	p, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s param %q: %w", key, param, err)
	}

	if p < 0 {
		p = 0
	} else if p > max {
		p = max
	}

	return uint16(math.Floor((p / max) * float64(math.MaxUint16))), true, nil
}

// parseColorForm builds a Color and transition duration from request form
// values. Brightness is required; everything else is optional.
func parseColorForm(r *http.Request) (*Color, time.Duration, error) {
	r.ParseForm()

	hue, _, err := formScale(r, "hue", 360)
	if err != nil {
		return nil, 0, err
	}

	saturation, _, err := formScale(r, "saturation", 100)
	if err != nil {
		return nil, 0, err
	}

	brightness, ok, err := formScale(r, "brightness", 100)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, fmt.Errorf("brightness parameter is required")
	}

	var kelvin uint16
	if _, ok := r.Form["kelvin"]; ok {
		param := r.FormValue("kelvin")
		p, err := strconv.Atoi(param)
		if err != nil {
			return nil, 0, fmt.Errorf("parse kelvin param %q: %w", param, err)
		}

		if p < 1500 {
			p = 1500
		} else if p > 9000 {
			p = 9000
		}
		kelvin = uint16(p)
	}

	transition := defaultPowerTransition
	if _, ok := r.Form["transition"]; ok {
		param := r.FormValue("transition")
		if _, err := strconv.Atoi(param); err == nil && param != "" {
			// bare numbers are taken as milliseconds
			param = param + "ms"
		}

		parsed, err := time.ParseDuration(param)
		if err != nil {
			return nil, 0, fmt.Errorf("parse transition param %q: %w", param, err)
		}
		transition = parsed
	}

	return &Color{
		Hue:        hue,
		Saturation: saturation,
		Brightness: brightness,
		Kelvin:     kelvin,
	}, transition, nil
}

// colorResponse is the JSON shape handlers report device state with,
// converting from wire scale back to human units.
type colorResponse struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Brightness float64 `json:"brightness"`
	Kelvin     uint16  `json:"kelvin"`
	Transition string  `json:"transition,omitempty"`
}

func newColorResponse(c *Color, transition time.Duration) colorResponse {
	res := colorResponse{
		Hue:        float64(c.Hue) * 360.0 / 0x10000,
		Saturation: float64(c.Saturation) / math.MaxUint16 * 100,
		Brightness: float64(c.Brightness) / math.MaxUint16 * 100,
		Kelvin:     c.Kelvin,
	}
	if transition > 0 {
		res.Transition = transition.String()
	}
	return res
}
