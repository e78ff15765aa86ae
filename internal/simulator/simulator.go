// Package simulator produces synthetic device telemetry and keeps the
// rolling history that the dashboard charts.
package simulator

import (
	"math"
	"time"

	"ZeroTrustDashboard/internal/models"
	"ZeroTrustDashboard/internal/random"
)

type Config struct {
	HistorySize       int
	TemperatureJitter float64
	HumidityJitter    float64
	TemperatureMin    float64
	TemperatureMax    float64
	HumidityMin       float64
	HumidityMax       float64
	MotionProbability float64
	LabelFormat       string
}

func DefaultConfig() Config {
	return Config{
		HistorySize:       20,
		TemperatureJitter: 0.25,
		HumidityJitter:    1.0,
		TemperatureMin:    18,
		TemperatureMax:    30,
		HumidityMin:       30,
		HumidityMax:       70,
		MotionProbability: 0.10,
		LabelFormat:       "15:04:05",
	}
}

type deviceHistory struct {
	temperature *RollingBuffer[float64]
	humidity    *RollingBuffer[float64]
}

// Simulator owns the device roster and its history buffers. It is not safe
// for concurrent use; the dashboard controller serializes access.
type Simulator struct {
	cfg     Config
	rnd     random.Source
	devices []models.Device
	history map[string]*deviceHistory
	labels  *RollingBuffer[string]
}

func New(cfg Config, roster []models.Device, rnd random.Source) *Simulator {
	if cfg.LabelFormat == "" {
		cfg.LabelFormat = "15:04:05"
	}

	s := &Simulator{
		cfg:     cfg,
		rnd:     rnd,
		devices: make([]models.Device, 0, len(roster)),
		history: make(map[string]*deviceHistory, len(roster)),
		labels:  NewRollingBuffer[string](cfg.HistorySize),
	}

	for _, d := range roster {
		s.devices = append(s.devices, d.Clone())
		s.history[d.ID] = &deviceHistory{
			temperature: NewRollingBuffer[float64](cfg.HistorySize),
			humidity:    NewRollingBuffer[float64](cfg.HistorySize),
		}
	}

	return s
}

// Tick perturbs every device once and records the result at now.
func (s *Simulator) Tick(now time.Time) {
	for i := range s.devices {
		d := &s.devices[i]
		t := &d.Telemetry

		t.Temperature = clamp(t.Temperature+s.jitter(s.cfg.TemperatureJitter), s.cfg.TemperatureMin, s.cfg.TemperatureMax)
		t.Humidity = clamp(t.Humidity+s.jitter(s.cfg.HumidityJitter), s.cfg.HumidityMin, s.cfg.HumidityMax)

		if d.Type == models.DeviceMotion {
			motion := s.rnd.Float64() < s.cfg.MotionProbability
			t.Motion = &motion
		}

		h := s.history[d.ID]
		h.temperature.Push(t.Temperature)
		h.humidity.Push(t.Humidity)
	}

	s.labels.Push(now.Format(s.cfg.LabelFormat))
}

// Reset clears the history. Device readings are left as they are.
func (s *Simulator) Reset() {
	for _, h := range s.history {
		h.temperature.Reset()
		h.humidity.Reset()
	}
	s.labels.Reset()
}

func (s *Simulator) Devices() []models.Device {
	out := make([]models.Device, len(s.devices))
	for i, d := range s.devices {
		out[i] = d.Clone()
	}
	return out
}

func (s *Simulator) Device(id string) (models.Device, bool) {
	for _, d := range s.devices {
		if d.ID == id {
			return d.Clone(), true
		}
	}
	return models.Device{}, false
}

func (s *Simulator) OnlineCount() int {
	n := 0
	for _, d := range s.devices {
		if d.Online {
			n++
		}
	}
	return n
}

func (s *Simulator) History() models.History {
	h := models.History{
		Capacity: s.labels.Cap(),
		Labels:   s.labels.Values(),
		Series:   make(map[string]models.DeviceSeries, len(s.history)),
	}
	for id, dh := range s.history {
		h.Series[id] = models.DeviceSeries{
			Temperature: dh.temperature.Values(),
			Humidity:    dh.humidity.Values(),
		}
	}
	return h
}

// Summaries reports min/max/avg over what is currently buffered, in roster order.
func (s *Simulator) Summaries() []models.DeviceSummary {
	out := make([]models.DeviceSummary, 0, len(s.devices))
	for _, d := range s.devices {
		dh := s.history[d.ID]
		out = append(out, models.DeviceSummary{
			DeviceID:    d.ID,
			Samples:     dh.temperature.Len(),
			Temperature: summarize(dh.temperature.Values()),
			Humidity:    summarize(dh.humidity.Values()),
		})
	}
	return out
}

// jitter draws uniformly from [-amp, amp).
func (s *Simulator) jitter(amp float64) float64 {
	return (s.rnd.Float64()*2 - 1) * amp
}

// clamp rounds v to two decimals and pins it to [lo, hi]. Rounding happens
// first so it can never push a pinned value back out of range.
func clamp(v, lo, hi float64) float64 {
	v = math.Round(v*100) / 100
	return math.Max(lo, math.Min(hi, v))
}

func summarize(values []float64) models.MetricSummary {
	if len(values) == 0 {
		return models.MetricSummary{}
	}

	sum := 0.0
	m := models.MetricSummary{Min: values[0], Max: values[0], Current: values[len(values)-1]}
	for _, v := range values {
		sum += v
		m.Min = math.Min(m.Min, v)
		m.Max = math.Max(m.Max, v)
	}
	m.Avg = math.Round(sum/float64(len(values))*100) / 100
	return m
}
