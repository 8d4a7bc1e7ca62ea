package dashboard

import (
	"strings"

	"github.com/greengenius/greengenius/internal/types"
)

const (
	ParameterTemperature  = "Temperature"
	ParameterHumidity     = "Humidity"
	ParameterLight        = "Light"
	ParameterSoilMoisture = "Soil Moisture"
)

type EnvironmentStatus struct {
	Parameter string `json:"parameter"`
	Status    Tone   `json:"status"`
	Message   string `json:"message"`
}

// issue keywords per parameter; one issue can flag several parameters
var issueKeywords = []struct {
	parameter string
	keywords  []string
}{
	{ParameterTemperature, []string{"temperature", "cold", "hot"}},
	{ParameterSoilMoisture, []string{"soil", "water"}},
	{ParameterLight, []string{"light", "dark", "bright"}},
	{ParameterHumidity, []string{"humidity", "dry", "humid"}},
}

// DefaultEnvironment is the all-good status list.
func DefaultEnvironment() []EnvironmentStatus {
	return []EnvironmentStatus{
		{Parameter: ParameterTemperature, Status: ToneGood, Message: "Temperature is optimal"},
		{Parameter: ParameterHumidity, Status: ToneGood, Message: "Humidity is optimal"},
		{Parameter: ParameterLight, Status: ToneGood, Message: "Light levels are adequate"},
		{Parameter: ParameterSoilMoisture, Status: ToneGood, Message: "Soil moisture is healthy"},
	}
}

// EnvironmentFromAnalysis maps analysis issues onto the four parameters.
// Later issues overwrite the message of earlier ones on the same parameter.
func EnvironmentFromAnalysis(result *types.AnalysisResult) []EnvironmentStatus {
	statuses := DefaultEnvironment()

	if result == nil || result.Status == types.HealthStatusHealthy {
		return statuses
	}

	for _, issue := range result.Issues {
		text := strings.ToLower(issue)

		for _, rule := range issueKeywords {
			if !containsAny(text, rule.keywords) {
				continue
			}

			for i := range statuses {
				if statuses[i].Parameter == rule.parameter {
					statuses[i].Status = ToneWarning
					statuses[i].Message = issue
				}
			}
		}
	}

	return statuses
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}

	return false
}
