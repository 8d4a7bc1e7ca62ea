package dashboard

import (
	"testing"
	"time"

	"github.com/greengenius/greengenius/internal/models"
	"github.com/greengenius/greengenius/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMetrics(t *testing.T) {
	t.Run("nil reading", func(t *testing.T) {
		assert.Equal(t, RingMetrics{}, NormalizeMetrics(nil))
	})

	t.Run("scales light and temperature", func(t *testing.T) {
		m := NormalizeMetrics(&types.SensorData{
			Temperature:  20,
			Humidity:     45.5,
			Light:        500,
			SoilMoisture: 40,
		})

		assert.Equal(t, 40.0, m.SoilMoisture)
		assert.Equal(t, 50.0, m.Light)
		assert.Equal(t, 50.0, m.Temperature)
		assert.Equal(t, 45.5, m.Humidity)
	})

	t.Run("clamps", func(t *testing.T) {
		m := NormalizeMetrics(&types.SensorData{
			Temperature:  55,
			Humidity:     120,
			Light:        4000,
			SoilMoisture: -5,
		})

		assert.Equal(t, 0.0, m.SoilMoisture)
		assert.Equal(t, 100.0, m.Light)
		assert.Equal(t, 100.0, m.Temperature)
		assert.Equal(t, 100.0, m.Humidity)
	})
}

func TestClassifyConfidence(t *testing.T) {
	cases := []struct {
		confidence float64
		label      string
		tone       Tone
	}{
		{95, "HIGH MATCH", ToneGood},
		{80, "HIGH MATCH", ToneGood},
		{79.9, "MEDIUM", ToneWarning},
		{50, "MEDIUM", ToneWarning},
		{49.9, "LOW MATCH", ToneBad},
		{0, "LOW MATCH", ToneBad},
	}

	for _, tc := range cases {
		level := ClassifyConfidence(tc.confidence)
		assert.Equal(t, tc.label, level.Label, "confidence %v", tc.confidence)
		assert.Equal(t, tc.tone, level.Tone, "confidence %v", tc.confidence)
	}
}

func fixedNow() time.Time {
	return time.UnixMilli(1700000000000)
}

func TestClassifyIdentification(t *testing.T) {
	t.Run("error message from backend", func(t *testing.T) {
		state := ClassifyIdentification(&types.IdentifyResponse{Error: "blurry"}, fixedNow)
		assert.Equal(t, StateError, state.Type)
		assert.Equal(t, "blurry", state.Message)
	})

	t.Run("missing identification", func(t *testing.T) {
		state := ClassifyIdentification(&types.IdentifyResponse{}, fixedNow)
		assert.Equal(t, StateError, state.Type)
		assert.Equal(t, "Unable to identify plant.", state.Message)
	})

	t.Run("high confidence suggestions", func(t *testing.T) {
		resp := &types.IdentifyResponse{
			Identification: &types.Suggestion{ID: "a", Name: "Monstera deliciosa", Probability: 0.91},
			Suggestions: []types.Suggestion{
				{ID: "a", Name: "Monstera deliciosa", Probability: 0.91, SimilarImages: []types.SimilarImage{{URL: "https://img/1"}}},
				{Name: "Philodendron", Probability: 0.05},
			},
		}

		state := ClassifyIdentification(resp, fixedNow)
		require.Equal(t, StateSuccess, state.Type)
		require.Len(t, state.Results, 2)

		top := state.Results[0]
		assert.Equal(t, "a", top.ID)
		assert.Equal(t, "Monstera deliciosa", top.ScientificName)
		assert.InDelta(t, 91.0, *top.Confidence, 0.0001)
		require.NotNil(t, top.ImageURL)
		assert.Equal(t, "https://img/1", *top.ImageURL)
		assert.True(t, top.Compatible)

		assert.Equal(t, "1700000000000", state.Results[1].ID)
		assert.Nil(t, state.Results[1].ImageURL)
	})

	t.Run("unnamed suggestion", func(t *testing.T) {
		resp := &types.IdentifyResponse{
			Identification: &types.Suggestion{ID: "d", Probability: 0.3},
			Suggestions:    []types.Suggestion{{ID: "d", Probability: 0.3}},
		}

		state := ClassifyIdentification(resp, fixedNow)
		require.Len(t, state.Results, 1)
		assert.Equal(t, "Unknown Plant", state.Results[0].Name)
	})

	t.Run("low confidence", func(t *testing.T) {
		resp := &types.IdentifyResponse{
			Identification: &types.Suggestion{ID: "b", Name: "Ficus", Probability: 0.42},
			Suggestions:    []types.Suggestion{{ID: "b", Name: "Ficus", Probability: 0.42}},
		}

		state := ClassifyIdentification(resp, fixedNow)
		assert.Equal(t, StateLowConfidence, state.Type)
	})

	t.Run("fallback confidence without suggestions", func(t *testing.T) {
		resp := &types.IdentifyResponse{
			Identification: &types.Suggestion{ID: "c"},
		}

		state := ClassifyIdentification(resp, fixedNow)
		require.Len(t, state.Results, 1)
		assert.Equal(t, "Unknown", state.Results[0].Name)
		assert.Equal(t, 50.0, *state.Results[0].Confidence)
		assert.Equal(t, StateLowConfidence, state.Type)
	})
}

func TestEnvironmentFromAnalysis(t *testing.T) {
	t.Run("healthy keeps defaults", func(t *testing.T) {
		statuses := EnvironmentFromAnalysis(&types.AnalysisResult{Status: types.HealthStatusHealthy})
		assert.Equal(t, DefaultEnvironment(), statuses)
	})

	t.Run("maps issues", func(t *testing.T) {
		statuses := EnvironmentFromAnalysis(&types.AnalysisResult{
			Status: types.HealthStatusNeedsAttention,
			Issues: []string{"Too Cold", "Overwatered"},
		})

		byParam := make(map[string]EnvironmentStatus)
		for _, s := range statuses {
			byParam[s.Parameter] = s
		}

		assert.Equal(t, ToneWarning, byParam[ParameterTemperature].Status)
		assert.Equal(t, "Too Cold", byParam[ParameterTemperature].Message)
		assert.Equal(t, ToneWarning, byParam[ParameterSoilMoisture].Status)
		assert.Equal(t, "Overwatered", byParam[ParameterSoilMoisture].Message)
		assert.Equal(t, ToneGood, byParam[ParameterLight].Status)
		assert.Equal(t, ToneGood, byParam[ParameterHumidity].Status)
	})

	t.Run("dry soil flags soil and humidity", func(t *testing.T) {
		statuses := EnvironmentFromAnalysis(&types.AnalysisResult{
			Status: types.HealthStatusNeedsAttention,
			Issues: []string{"Dry Soil"},
		})

		for _, s := range statuses {
			switch s.Parameter {
			case ParameterSoilMoisture, ParameterHumidity:
				assert.Equal(t, ToneWarning, s.Status, s.Parameter)
			default:
				assert.Equal(t, ToneGood, s.Status, s.Parameter)
			}
		}
	})
}

func TestSummarizeGrowth(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		summary := SummarizeGrowth(nil)
		assert.Equal(t, 0, summary.Entries)
		assert.Empty(t, summary.Heights)
	})

	t.Run("single entry is duplicated", func(t *testing.T) {
		summary := SummarizeGrowth([]models.GrowthEntry{{Height: 12}})
		assert.Equal(t, []float64{12, 12}, summary.Heights)
		assert.Equal(t, 1.0, summary.Range)
		assert.Equal(t, 0.0, summary.TotalGrowth)
	})

	t.Run("trajectory", func(t *testing.T) {
		summary := SummarizeGrowth([]models.GrowthEntry{{Height: 10}, {Height: 8}, {Height: 15}})
		assert.Equal(t, 3, summary.Entries)
		assert.Equal(t, 8.0, summary.Min)
		assert.Equal(t, 15.0, summary.Max)
		assert.Equal(t, 7.0, summary.Range)
		assert.Equal(t, 5.0, summary.TotalGrowth)
	})
}
