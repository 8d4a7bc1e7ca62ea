package types

import "encoding/json"

type AnalyzeRequest struct {
	PlantData  json.RawMessage `json:"plant_data"`
	SensorData json.RawMessage `json:"sensor_data" binding:"required"`
}

// PlantProfile is the part of a catalog record that carries growth
// requirements. Trefle places growth either at the top level or under
// main_species.
type PlantProfile struct {
	Growth      *PlantGrowth `json:"growth"`
	MainSpecies *struct {
		Growth *PlantGrowth `json:"growth"`
	} `json:"main_species"`
}

type PlantGrowth struct {
	MinimumTemperature   *Measure `json:"minimum_temperature"`
	MaximumTemperature   *Measure `json:"maximum_temperature"`
	MinimumPrecipitation *Measure `json:"minimum_precipitation"`
}

type Measure struct {
	DegC *float64 `json:"deg_c"`
	Mm   *float64 `json:"mm"`
}

// EffectiveGrowth returns the growth block, preferring the top level one.
func (p PlantProfile) EffectiveGrowth() *PlantGrowth {
	if p.Growth != nil {
		return p.Growth
	}

	if p.MainSpecies != nil {
		return p.MainSpecies.Growth
	}

	return nil
}

type AnalysisResult struct {
	Status          string          `json:"status"`
	Issues          []string        `json:"issues"`
	Recommendations []string        `json:"recommendations"`
	Details         AnalysisDetails `json:"details"`
}

type AnalysisDetails struct {
	// SensorReadings echoes the readings the analysis was run against.
	SensorReadings json.RawMessage `json:"sensor_readings"`
	IdealRanges    IdealRanges     `json:"ideal_ranges"`
}

type IdealRanges struct {
	Temperature string `json:"temperature"`
	Moisture    string `json:"moisture"`
}

const (
	HealthStatusHealthy        = "Healthy"
	HealthStatusNeedsAttention = "Needs Attention"
)
