package device

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/subtlepseudonym/sundial/internal/log"
)

type ShellyConfig struct {
	Index int // index of the attached switch on multi-channel devices
}

func parseShellyConfig(config map[string]interface{}) (*ShellyConfig, error) {
	val, ok := config["index"]
	if !ok {
		return &ShellyConfig{}, nil
	}

	// JSON numbers decode as float64
	var index int
	switch idx := val.(type) {
	case int:
		index = idx
	case float64:
		index = int(idx)
	default:
		return nil, fmt.Errorf("parse index value: %v (%T)", val, val)
	}

	return &ShellyConfig{Index: index}, nil
}

type Shelly struct {
	Address  string
	MAC      string
	Firmware string
	Hardware string
	label    string
	index    int
}

type ShellyDeviceInfo struct {
	ID         string `json:"id"`
	MAC        string `json:"mac"`
	Model      string `json:"model"`
	Generation int    `json:"gen"`
	FirmwareID string `json:"fw_id"`
	Version    string `json:"ver"`
	App        string `json:"app"`
	Profile    string `json:"profile"`
}

type ShellySwitchStatus struct {
	Source      string `json:"source"`
	Output      bool   `json:"output"`
	Temperature struct {
		Celsius   float64 `json:"tC"`
		Farenheit float64 `json:"tF"`
	} `json:"temperature"`
}

func ConnectShelly(label, addr, mac string, deviceConfig map[string]interface{}) (Device, error) {
	cfg, err := parseShellyConfig(deviceConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: parse device config: %w", label, err)
	}

	shelly := &Shelly{
		Address: addr,
		MAC:     mac,
		label:   label,
		index:   cfg.Index,
	}

	query := fmt.Sprintf("http://%s/rpc/Shelly.GetDeviceInfo", shelly.Address)
	res, err := http.Get(query)
	if err != nil {
		return nil, fmt.Errorf("%s: query info: %w", shelly.label, err)
	}
	defer res.Body.Close()

	var info ShellyDeviceInfo
	err = json.NewDecoder(res.Body).Decode(&info)
	if err != nil {
		return nil, fmt.Errorf("%s: decode info: %w", shelly.label, err)
	}
	shelly.Firmware = info.FirmwareID
	shelly.Hardware = info.App

	return shelly, nil
}

func (s *Shelly) Transition(color *Color, transition time.Duration) error {
	// Relays are boolean; transition time and color don't apply
	on := color.Brightness > 0

	query := fmt.Sprintf("http://%s/rpc/Switch.Set?id=%d&on=%t", s.Address, s.index, on)
	res, err := http.Get(query)
	if err != nil {
		return fmt.Errorf("%s: set power state: %w", s.label, err)
	}
	res.Body.Close()

	return nil
}

func (s *Shelly) StatusHandler(w http.ResponseWriter, r *http.Request) {
	query := fmt.Sprintf("http://%s/rpc/Switch.GetStatus?id=%d", s.Address, s.index)
	res, err := http.Get(query)
	if err != nil {
		log.Errorf("%s: query status: %s", s.label, err)
		writeError(w, http.StatusInternalServerError, "unable to connect to device")
		return
	}
	defer res.Body.Close()

	var status ShellySwitchStatus
	err = json.NewDecoder(res.Body).Decode(&status)
	if err != nil {
		log.Errorf("%s: decode status: %s", s.label, err)
		writeError(w, http.StatusInternalServerError, "unable to decode device status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"output": status.Output})
}

func (s *Shelly) PowerHandler(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, map[string]bool{"output": color.Brightness > 0})
}

func (s *Shelly) Label() string {
	return s.label
}

func (s *Shelly) String() string {
	return fmt.Sprintf("Shelly %s %s", s.Hardware, s.Firmware)
}
