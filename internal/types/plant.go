package types

import "encoding/json"

// PlantData is the identification record attached to a pot.
type PlantData struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	ScientificName string        `json:"scientificName"`
	ImageURL       *string       `json:"imageUrl"`
	Compatible     bool          `json:"compatible"`
	Confidence     *float64      `json:"confidence"` // 0-100
	Alternatives   []Alternative `json:"alternatives,omitempty"`

	// Details holds the catalog record (Trefle) the plant was matched to,
	// used as the requirement profile for health analysis.
	Details json.RawMessage `json:"details,omitempty"`
}

type Alternative struct {
	Name           string  `json:"name"`
	ScientificName string  `json:"scientificName"`
	Confidence     float64 `json:"confidence"`
}

// Normalize applies the read-boundary defaults: empty image URLs and zero
// confidences are stored as null.
func (p PlantData) Normalize() PlantData {
	if p.ImageURL != nil && *p.ImageURL == "" {
		p.ImageURL = nil
	}

	if p.Confidence != nil && *p.Confidence == 0 {
		p.Confidence = nil
	}

	return p
}
