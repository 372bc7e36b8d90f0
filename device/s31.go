package device

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/subtlepseudonym/sundial/internal/log"
)

type S31 struct {
	Address  string
	MAC      string
	Firmware string
	Hardware string
	label    string
}

type TasmotaFirmwareStatus struct {
	Status struct {
		Version  string `json:"Version"`
		Hardware string `json:"Hardware"`
	} `json:"StatusFWR"`
}

type TasmotaPowerState struct {
	Power string `json:"POWER"`
}

func ConnectS31(label, addr, mac string) (Device, error) {
	s31 := &S31{
		Address: addr,
		MAC:     mac,
		label:   label,
	}

	query := fmt.Sprintf("http://%s/cm?cmnd=Status%%202", s31.Address)
	res, err := http.Get(query)
	if err != nil {
		return nil, fmt.Errorf("%s: query status: %w", s31.label, err)
	}
	defer res.Body.Close()

	var status TasmotaFirmwareStatus
	err = json.NewDecoder(res.Body).Decode(&status)
	if err != nil {
		return nil, fmt.Errorf("%s: decode status: %w", s31.label, err)
	}

	s31.Firmware = status.Status.Version
	s31.Hardware = status.Status.Hardware

	return s31, nil
}

func (s *S31) Transition(color *Color, transition time.Duration) error {
	// Plugs are boolean; transition time and color don't apply
	power := "Off"
	if color.Brightness > 0 {
		power = "On"
	}

	query := fmt.Sprintf("http://%s/cm?cmnd=Power%%20%s", s.Address, power)
	res, err := http.Get(query)
	if err != nil {
		return fmt.Errorf("%s: set power state: %w", s.label, err)
	}
	defer res.Body.Close()

	var state TasmotaPowerState
	err = json.NewDecoder(res.Body).Decode(&state)
	if err != nil {
		return fmt.Errorf("%s: decode power state: %w", s.label, err)
	}

	return nil
}

func (s *S31) StatusHandler(w http.ResponseWriter, r *http.Request) {
	query := fmt.Sprintf("http://%s/cm?cmnd=State", s.Address)
	res, err := http.Get(query)
	if err != nil {
		log.Errorf("%s: query state: %s", s.label, err)
		writeError(w, http.StatusInternalServerError, "unable to connect to device")
		return
	}
	defer res.Body.Close()

	var state TasmotaPowerState
	err = json.NewDecoder(res.Body).Decode(&state)
	if err != nil {
		log.Errorf("%s: decode state: %s", s.label, err)
		writeError(w, http.StatusInternalServerError, "unable to decode device state")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"power": state.Power})
}

func (s *S31) PowerHandler(w http.ResponseWriter, r *http.Request) {
	color, _, err := parseColorForm(r)
	if err != nil {
		log.Errorf("%s: %s", s.label, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.Transition(color, time.Second)
	if err != nil {
		log.Errorf("transition: %s", err)
		writeError(w, http.StatusInternalServerError, "unable to toggle device power")
		return
	}

	power := "OFF"
	if color.Brightness > 0 {
		power = "ON"
	}
	writeJSON(w, http.StatusOK, map[string]string{"power": power})
}

func (s *S31) Label() string {
	return s.label
}

func (s *S31) String() string {
	return fmt.Sprintf("Sonoff S31 %s", s.Firmware)
}
