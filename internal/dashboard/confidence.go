package dashboard

const (
	HighConfidenceThreshold   = 80.0
	MediumConfidenceThreshold = 50.0
)

// Tone is the traffic-light color class used across the dashboard.
type Tone string

const (
	ToneGood    Tone = "good"
	ToneWarning Tone = "warning"
	ToneBad     Tone = "bad"
)

type ConfidenceLevel struct {
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
}

// ClassifyConfidence buckets an identification confidence (0-100).
func ClassifyConfidence(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= HighConfidenceThreshold:
		return ConfidenceLevel{Label: "HIGH MATCH", Tone: ToneGood}
	case confidence >= MediumConfidenceThreshold:
		return ConfidenceLevel{Label: "MEDIUM", Tone: ToneWarning}
	default:
		return ConfidenceLevel{Label: "LOW MATCH", Tone: ToneBad}
	}
}
