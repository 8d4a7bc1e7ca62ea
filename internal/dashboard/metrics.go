// Package dashboard turns sensor readings, identification results and
// analyses into the values the app's dashboard renders.
package dashboard

import "github.com/greengenius/greengenius/internal/types"

const (
	// Full-scale values for the rings.
	maxLightLux     = 1000.0
	maxTemperatureC = 40.0
)

// RingMetrics are the four ring fill levels, each in [0, 100].
type RingMetrics struct {
	SoilMoisture float64 `json:"soilMoisture"`
	Light        float64 `json:"light"`
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
}

// NormalizeMetrics maps a reading onto ring percentages. A nil reading
// yields empty rings.
func NormalizeMetrics(reading *types.SensorData) RingMetrics {
	if reading == nil {
		return RingMetrics{}
	}

	return RingMetrics{
		SoilMoisture: clampPercent(reading.SoilMoisture),
		Light:        clampPercent(reading.Light / maxLightLux * 100),
		Temperature:  clampPercent(reading.Temperature / maxTemperatureC * 100),
		Humidity:     clampPercent(reading.Humidity),
	}
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
