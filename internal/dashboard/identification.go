package dashboard

import (
	"strconv"
	"time"

	"github.com/greengenius/greengenius/internal/types"
)

type StateType string

const (
	StateIdle          StateType = "idle"
	StateCapturing     StateType = "capturing"
	StateAnalyzing     StateType = "analyzing"
	StateSuccess       StateType = "success"
	StateLowConfidence StateType = "low_confidence"
	StateError         StateType = "error"
)

const (
	defaultIdentifyError = "Unable to identify plant."
	fallbackConfidence   = 50.0
)

// IdentificationState describes where the photo identification flow is.
// Results is set for success and low_confidence, Message for error.
type IdentificationState struct {
	Type    StateType         `json:"type"`
	Results []types.PlantData `json:"results,omitempty"`
	Message string            `json:"message,omitempty"`
}

// ClassifyIdentification derives the flow state from an identify response.
// now supplies fallback ids for suggestions without one.
func ClassifyIdentification(resp *types.IdentifyResponse, now func() time.Time) IdentificationState {
	if now == nil {
		now = time.Now
	}

	if resp == nil {
		return IdentificationState{Type: StateError, Message: defaultIdentifyError}
	}

	if resp.Error != "" || resp.Identification == nil {
		message := resp.Error

		if message == "" {
			message = defaultIdentifyError
		}

		return IdentificationState{Type: StateError, Message: message}
	}

	var results []types.PlantData

	if len(resp.Suggestions) > 0 {
		for _, s := range resp.Suggestions {
			results = append(results, plantFromSuggestion(s, s.Probability*100, "Unknown Plant", now))
		}
	} else {
		confidence := resp.Confidence

		if confidence == 0 {
			confidence = resp.Identification.Probability * 100
		}

		if confidence == 0 {
			confidence = fallbackConfidence
		}

		results = append(results, plantFromSuggestion(*resp.Identification, confidence, "Unknown", now))
	}

	state := IdentificationState{Type: StateLowConfidence, Results: results}

	if confidenceOf(results[0]) >= HighConfidenceThreshold {
		state.Type = StateSuccess
	}

	return state
}

func plantFromSuggestion(s types.Suggestion, confidence float64, unnamed string, now func() time.Time) types.PlantData {
	id := s.ID

	if id == "" {
		id = strconv.FormatInt(now().UnixMilli(), 10)
	}

	name := s.Name

	if name == "" {
		name = unnamed
	}

	plant := types.PlantData{
		ID:             id,
		Name:           name,
		ScientificName: s.Name,
		Compatible:     true,
		Confidence:     &confidence,
	}

	if len(s.SimilarImages) > 0 && s.SimilarImages[0].URL != "" {
		url := s.SimilarImages[0].URL
		plant.ImageURL = &url
	}

	return plant
}

func confidenceOf(p types.PlantData) float64 {
	if p.Confidence == nil {
		return 0
	}

	return *p.Confidence
}
