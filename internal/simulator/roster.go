package simulator

import "ZeroTrustDashboard/internal/models"

// DefaultRoster returns the three demo devices with their seed readings.
func DefaultRoster() []models.Device {
	motion := false
	return []models.Device{
		{
			ID:     "zero-trust-temperature-sensor-01",
			Name:   "Temperature Sensor 01",
			Type:   models.DeviceTemperature,
			Zone:   "zone-1",
			Online: true,
			Telemetry: models.Telemetry{
				Temperature:    22.5,
				Humidity:       45.0,
				BatteryLevel:   87,
				SignalStrength: -45,
			},
		},
		{
			ID:     "zero-trust-humidity-monitor-02",
			Name:   "Humidity Monitor 02",
			Type:   models.DeviceHumidity,
			Zone:   "zone-2",
			Online: true,
			Telemetry: models.Telemetry{
				Temperature:    24.0,
				Humidity:       55.0,
				BatteryLevel:   92,
				SignalStrength: -52,
			},
		},
		{
			ID:     "zero-trust-motion-detector-03",
			Name:   "Motion Detector 03",
			Type:   models.DeviceMotion,
			Zone:   "zone-3",
			Online: true,
			Telemetry: models.Telemetry{
				Temperature:    23.0,
				Humidity:       50.0,
				BatteryLevel:   78,
				SignalStrength: -60,
				Motion:         &motion,
			},
		},
	}
}
