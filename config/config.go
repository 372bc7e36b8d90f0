package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/subtlepseudonym/sundial"
	"github.com/subtlepseudonym/sundial/solar"
)

// Device identifies a smart device on the local network. Config carries
// driver-specific settings, like the switch index on multi-channel relays.
type Device struct {
	Type   string                 `json:"type"`
	Host   string                 `json:"host"`
	MAC    string                 `json:"mac"`
	Config map[string]interface{} `json:"config,omitempty"`
}

// Job defines when to run, on which device, what the desired final
// state is, and how long to take getting there.
//
// Color state is defined using Hue, Saturation, and Brightness. This
// is referred to as HSB (or HSL) color.
// https://en.wikipedia.org/wiki/HSL_and_HSV
type Job struct {
	Schedule string `json:"schedule"`
	Device   string `json:"device"`

	Hue        int `json:"hue"`        // 0-360
	Saturation int `json:"saturation"` // 0-100
	Brightness int `json:"brightness"` // 0-100
	Kelvin     int `json:"kelvin"`     // 1500-9000

	Transition string `json:"transition"`
}

type Config struct {
	Location sundial.Location  `json:"location"`
	Devices  map[string]Device `json:"devices"`
	Jobs     []Job             `json:"jobs"`
	Debug    bool              `json:"debug,omitempty"`
}

func Open(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	defer f.Close()

	var config Config
	err = json.NewDecoder(f).Decode(&config)
	if err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	_, err := solar.New(c.Location.Latitude, c.Location.Longitude, time.Now())
	if err != nil {
		return fmt.Errorf("validate location: %w", err)
	}

	for _, job := range c.Jobs {
		if _, ok := c.Devices[job.Device]; !ok {
			return fmt.Errorf("schedule references missing device %q", job.Device)
		}

		if _, err := sundial.ParseSchedule(job.Schedule, c.Location); err != nil {
			return fmt.Errorf("device %q: parse schedule: %w", job.Device, err)
		}

		if job.Transition != "" {
			if _, err := time.ParseDuration(job.Transition); err != nil {
				return fmt.Errorf("device %q: parse transition: %w", job.Device, err)
			}
		}
	}

	return nil
}
