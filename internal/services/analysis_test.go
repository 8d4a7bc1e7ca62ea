package services

import (
	"encoding/json"
	"testing"

	"github.com/greengenius/greengenius/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileFromJSON(t *testing.T, raw string) types.PlantProfile {
	t.Helper()

	var profile types.PlantProfile
	require.NoError(t, json.Unmarshal([]byte(raw), &profile))

	return profile
}

func TestAnalyzeHealth(t *testing.T) {
	t.Run("healthy with defaults", func(t *testing.T) {
		result := AnalyzeHealth(types.PlantProfile{}, types.SensorStatus{Temperature: 22, SoilMoisture: 40})

		assert.Equal(t, types.HealthStatusHealthy, result.Status)
		assert.Empty(t, result.Issues)
		assert.Empty(t, result.Recommendations)
		assert.Equal(t, "10 - 30", result.Details.IdealRanges.Temperature)
		assert.Equal(t, "20% - 80% (Est.)", result.Details.IdealRanges.Moisture)
		assert.JSONEq(t, `{"temperature":22,"humidity":0,"light_level":0,"soil_moisture":40}`, string(result.Details.SensorReadings))
	})

	t.Run("too cold and dry", func(t *testing.T) {
		result := AnalyzeHealth(types.PlantProfile{}, types.SensorStatus{Temperature: 5, SoilMoisture: 10})

		assert.Equal(t, types.HealthStatusNeedsAttention, result.Status)
		assert.Equal(t, []string{"Too Cold", "Dry Soil"}, result.Issues)
		assert.Equal(t, []string{"Raise temperature above 10°C", "Water the plant immediately."}, result.Recommendations)
	})

	t.Run("too hot and overwatered", func(t *testing.T) {
		result := AnalyzeHealth(types.PlantProfile{}, types.SensorStatus{Temperature: 35, SoilMoisture: 90})

		assert.Equal(t, []string{"Too Hot", "Overwatered"}, result.Issues)
		assert.Equal(t, []string{"Lower temperature below 30°C", "Stop watering and ensure drainage."}, result.Recommendations)
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		result := AnalyzeHealth(types.PlantProfile{}, types.SensorStatus{Temperature: 30, SoilMoisture: 80})
		assert.Equal(t, types.HealthStatusHealthy, result.Status)

		result = AnalyzeHealth(types.PlantProfile{}, types.SensorStatus{Temperature: 10, SoilMoisture: 20})
		assert.Equal(t, types.HealthStatusHealthy, result.Status)
	})

	t.Run("uses plant growth requirements", func(t *testing.T) {
		profile := profileFromJSON(t, `{"growth":{"minimum_temperature":{"deg_c":18},"maximum_temperature":{"deg_c":24.5}}}`)

		result := AnalyzeHealth(profile, types.SensorStatus{Temperature: 16, SoilMoisture: 50})

		assert.Equal(t, []string{"Too Cold"}, result.Issues)
		assert.Equal(t, []string{"Raise temperature above 18°C"}, result.Recommendations)
		assert.Equal(t, "18 - 24.5", result.Details.IdealRanges.Temperature)
	})

	t.Run("falls back to main species growth", func(t *testing.T) {
		profile := profileFromJSON(t, `{"main_species":{"growth":{"maximum_temperature":{"deg_c":20}}}}`)

		result := AnalyzeHealth(profile, types.SensorStatus{Temperature: 21, SoilMoisture: 50})

		assert.Equal(t, []string{"Too Hot"}, result.Issues)
		assert.Equal(t, "10 - 20", result.Details.IdealRanges.Temperature)
	})
}

func TestRequirementsFor(t *testing.T) {
	profile := profileFromJSON(t, `{"growth":{"minimum_precipitation":{"mm":300},"minimum_temperature":{"deg_c":null}}}`)

	req := RequirementsFor(profile)

	assert.Equal(t, Requirements{MinTemperature: 10, MaxTemperature: 30, MinPrecipitation: 300}, req)
}
