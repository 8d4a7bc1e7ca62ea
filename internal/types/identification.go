package types

import "encoding/json"

type IdentifyRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
	PotID       string `json:"pot_id"`
}

// Plant.id v3 response, reduced to the fields the service reads.
type PlantIDResponse struct {
	AccessToken string         `json:"access_token"`
	Status      string         `json:"status"`
	Result      PlantIDResult  `json:"result"`
	Input       map[string]any `json:"input,omitempty"`
}

type PlantIDResult struct {
	IsPlant        *PlantIDBinary        `json:"is_plant,omitempty"`
	Classification PlantIDClassification `json:"classification"`
}

type PlantIDBinary struct {
	Probability float64 `json:"probability"`
	Binary      bool    `json:"binary"`
}

type PlantIDClassification struct {
	Suggestions []PlantIDSuggestion `json:"suggestions"`
}

type PlantIDSuggestion struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Probability   float64        `json:"probability"`
	SimilarImages []SimilarImage `json:"similar_images"`
}

type SimilarImage struct {
	ID         string  `json:"id,omitempty"`
	URL        string  `json:"url"`
	URLSmall   string  `json:"url_small,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
	Citation   string  `json:"citation,omitempty"`
	LicenseURL string  `json:"license_url,omitempty"`
}

// Suggestion is a processed Plant.id suggestion as returned to clients.
type Suggestion struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Probability   float64        `json:"probability"`
	SimilarImages []SimilarImage `json:"similar_images"`
}

// FallbackDetails is returned when no catalog record is available.
type FallbackDetails struct {
	ID             string  `json:"id"`
	CommonName     string  `json:"common_name"`
	ScientificName string  `json:"scientific_name"`
	ImageURL       *string `json:"image_url"`
}

type IdentifyResponse struct {
	Identification  *Suggestion     `json:"identification"`
	Suggestions     []Suggestion    `json:"suggestions,omitempty"`
	Confidence      float64         `json:"confidence"`
	Details         json.RawMessage `json:"details"`
	TrefleAvailable *bool           `json:"trefle_available,omitempty"`
	Error           string          `json:"error,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
}

// Trefle search and detail envelopes.
type TrefleSearchResponse struct {
	Data []TreflePlant `json:"data"`
}

type TreflePlant struct {
	ID             int    `json:"id"`
	CommonName     string `json:"common_name"`
	ScientificName string `json:"scientific_name"`
	Slug           string `json:"slug"`
	ImageURL       string `json:"image_url"`
}

type TrefleDetailResponse struct {
	Data json.RawMessage `json:"data"`
}
