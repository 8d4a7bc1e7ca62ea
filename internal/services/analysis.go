package services

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/greengenius/greengenius/internal/types"
)

const (
	defaultMinTemperature   = 10.0
	defaultMaxTemperature   = 30.0
	defaultMinPrecipitation = 20.0

	// Trefle has no soil moisture requirement, so fixed bounds are used.
	minSoilMoisture = 20.0
	maxSoilMoisture = 80.0
)

// Requirements are the growth bounds a reading is checked against.
type Requirements struct {
	MinTemperature   float64
	MaxTemperature   float64
	MinPrecipitation float64
}

// RequirementsFor extracts bounds from a plant profile, falling back to
// defaults for anything missing.
func RequirementsFor(profile types.PlantProfile) Requirements {
	req := Requirements{
		MinTemperature:   defaultMinTemperature,
		MaxTemperature:   defaultMaxTemperature,
		MinPrecipitation: defaultMinPrecipitation,
	}

	growth := profile.EffectiveGrowth()

	if growth == nil {
		return req
	}

	if m := growth.MinimumTemperature; m != nil && m.DegC != nil {
		req.MinTemperature = *m.DegC
	}

	if m := growth.MaximumTemperature; m != nil && m.DegC != nil {
		req.MaxTemperature = *m.DegC
	}

	if m := growth.MinimumPrecipitation; m != nil && m.Mm != nil {
		req.MinPrecipitation = *m.Mm
	}

	return req
}

// AnalyzeHealth compares a reading with the plant's requirements.
func AnalyzeHealth(profile types.PlantProfile, sensor types.SensorStatus) types.AnalysisResult {
	req := RequirementsFor(profile)

	result := types.AnalysisResult{
		Status:          types.HealthStatusHealthy,
		Issues:          []string{},
		Recommendations: []string{},
	}

	flag := func(issue, recommendation string) {
		result.Status = types.HealthStatusNeedsAttention
		result.Issues = append(result.Issues, issue)
		result.Recommendations = append(result.Recommendations, recommendation)
	}

	switch {
	case sensor.Temperature < req.MinTemperature:
		flag("Too Cold", fmt.Sprintf("Raise temperature above %s°C", formatNumber(req.MinTemperature)))
	case sensor.Temperature > req.MaxTemperature:
		flag("Too Hot", fmt.Sprintf("Lower temperature below %s°C", formatNumber(req.MaxTemperature)))
	}

	switch {
	case sensor.SoilMoisture < minSoilMoisture:
		flag("Dry Soil", "Water the plant immediately.")
	case sensor.SoilMoisture > maxSoilMoisture:
		flag("Overwatered", "Stop watering and ensure drainage.")
	}

	// a struct of float64 fields always marshals
	readings, _ := json.Marshal(sensor)

	result.Details = types.AnalysisDetails{
		SensorReadings: readings,
		IdealRanges: types.IdealRanges{
			Temperature: fmt.Sprintf("%s - %s", formatNumber(req.MinTemperature), formatNumber(req.MaxTemperature)),
			Moisture:    "20% - 80% (Est.)",
		},
	}

	return result
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
