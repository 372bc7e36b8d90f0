package main

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/subtlepseudonym/sundial"
	"github.com/subtlepseudonym/sundial/config"
	"github.com/subtlepseudonym/sundial/device"
	"github.com/subtlepseudonym/sundial/internal/log"
	"github.com/subtlepseudonym/sundial/solar"
)

const (
	configFile = "secrets/sundial.cfg"
	listenAddr = ":9000"
)

type Job struct {
	Device     device.Device
	Color      *device.Color
	Transition time.Duration
}

func (j Job) Run() {
	log.Infof("%s: transitioning over %s", j.Device.Label(), j.Transition)
	err := j.Device.Transition(j.Color, j.Transition)
	if err != nil {
		log.Errorf("transition device: %s", err)
	}
}

func main() {
	// manually set local timezone for docker container
	if tz := os.Getenv("TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Fatalf("load tz location: %s", err)
		}
		time.Local = loc
	}

	cfg, err := config.Open(configFile)
	if err != nil {
		log.Fatalf("read config file failed: %s", err)
	}

	if err := log.Init(cfg.Debug); err != nil {
		log.Fatalf("initialize logger: %s", err)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("validate config: %s", err)
	}

	devices := make(map[string]device.Device)
	for label, dev := range cfg.Devices {
		d, err := device.Connect(label, dev)
		if err != nil {
			log.Errorf("connect device: %s", err)
			continue
		}
		devices[label] = d
		log.Infof("registered device: %q %s", label, d)
	}

	now := time.Now() // used for logging cron entries
	jobCron := cron.New()
	for _, job := range cfg.Jobs {
		schedule, err := sundial.ParseSchedule(job.Schedule, cfg.Location)
		if err != nil {
			log.Errorf("parse schedule: %s", err)
			continue
		}

		dev, ok := devices[job.Device]
		if !ok {
			log.Errorf("job references unconnected device %q", job.Device)
			continue
		}

		// conversion formulas are defined by lifx LAN documentation
		// https://lan.developer.lifx.com/docs/representing-color-with-hsbk
		color := &device.Color{
			Hue:        uint16((job.Hue * 0x10000 / 360) % 0x10000),
			Saturation: uint16(job.Saturation * math.MaxUint16 / 100),
			Brightness: uint16(job.Brightness * math.MaxUint16 / 100),
			Kelvin:     uint16(job.Kelvin),
		}

		var transition time.Duration
		if job.Transition != "" {
			transition, err = time.ParseDuration(job.Transition)
			if err != nil {
				log.Errorf("parse job transition: %s", err)
				continue
			}
		}

		j := Job{
			Device:     dev,
			Color:      color,
			Transition: transition,
		}
		jobCron.Schedule(schedule, j)

		log.Infof("job: %s: %s", schedule.Next(now).Local().Format(time.RFC3339), dev.Label())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/sun", sunHandler(cfg.Location))
	for label, dev := range devices {
		mux.HandleFunc(fmt.Sprintf("/%s", label), dev.PowerHandler)
		mux.HandleFunc(fmt.Sprintf("/%s/status", label), dev.StatusHandler)
	}

	srv := http.Server{
		Addr:    listenAddr,
		Handler: mux,
	}
	log.Infof("listening on %s", srv.Addr)

	jobCron.Start()
	log.Fatalf("%s", srv.ListenAndServe())
}

// sunHandler reports the day's solar event table for the configured
// location: rise and set instants for each horizon plus the day length.
// An optional date parameter (2006-01-02) selects a day other than today.
func sunHandler(location sundial.Location) http.HandlerFunc {
	type crossing struct {
		Condition string `json:"condition"`
		Rise      string `json:"rise,omitempty"`
		Set       string `json:"set,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		date := time.Now()
		if param := r.URL.Query().Get("date"); param != "" {
			parsed, err := time.Parse("2006-01-02", param)
			if err != nil {
				log.Errorf("parse date param %q: %s", param, err)
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error": "unable to parse date parameter"}`))
				return
			}
			date = parsed
		}

		calc, err := solar.New(location.Latitude, location.Longitude, date)
		if err != nil {
			log.Errorf("solar calculator: %s", err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "unable to compute solar events"}`))
			return
		}

		response := struct {
			Date      string              `json:"date"`
			Location  sundial.Location    `json:"location"`
			DayLength string              `json:"day_length"`
			Horizons  map[string]crossing `json:"horizons"`
		}{
			Date:      calc.Date().Format("2006-01-02"),
			Location:  location,
			DayLength: calc.DayLength(solar.HorizonNormal).Round(time.Second).String(),
			Horizons:  make(map[string]crossing),
		}

		horizons := []solar.Horizon{
			solar.HorizonNormal,
			solar.HorizonCivil,
			solar.HorizonNautical,
			solar.HorizonAstronomical,
		}
		for _, horizon := range horizons {
			result, rise, set := calc.RiseAndSet(horizon)
			c := crossing{Condition: result.String()}
			if result == solar.NormalDay {
				c.Rise = rise.Format(time.RFC3339)
				c.Set = set.Format(time.RFC3339)
			}
			response.Horizons[horizon.String()] = c
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(response)
		if err != nil {
			log.Errorf("encode response: %s", err)
		}
	}
}
