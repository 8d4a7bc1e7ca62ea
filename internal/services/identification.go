package services

import (
	"context"
	"encoding/json"

	"github.com/greengenius/greengenius/internal/types"
	"go.uber.org/zap"
)

const (
	maxSuggestions   = 3
	maxSimilarImages = 3

	notIdentifiedMessage = "Could not identify plant. Please try again with a clearer image."
)

type PlantIdentifier interface {
	Identify(ctx context.Context, imageBase64 string) (*types.PlantIDResponse, error)
}

type PlantCatalog interface {
	SearchPlant(ctx context.Context, query string) (*types.TrefleSearchResponse, error)
	GetPlantDetails(ctx context.Context, plantID int) (json.RawMessage, error)
}

// Identifier is what the identify handler depends on.
type Identifier interface {
	Identify(ctx context.Context, imageBase64 string) (*types.IdentifyResponse, error)
}

// IdentificationService identifies a plant and enriches the top match with
// catalog details.
type IdentificationService struct {
	plants  PlantIdentifier
	catalog PlantCatalog
}

func NewIdentificationService(plants PlantIdentifier, catalog PlantCatalog) *IdentificationService {
	return &IdentificationService{plants: plants, catalog: catalog}
}

func (s *IdentificationService) Identify(ctx context.Context, imageBase64 string) (*types.IdentifyResponse, error) {
	raw, err := s.plants.Identify(ctx, imageBase64)

	if err != nil {
		return nil, err
	}

	suggestions := raw.Result.Classification.Suggestions

	if len(suggestions) == 0 {
		return &types.IdentifyResponse{
			Identification: nil,
			Details:        json.RawMessage("null"),
			Confidence:     0,
			Error:          notIdentifiedMessage,
		}, nil
	}

	top := processSuggestion(suggestions[0])

	resp := &types.IdentifyResponse{
		Identification: &top,
		Confidence:     top.Probability * 100,
	}

	for i, suggestion := range suggestions {
		if i == maxSuggestions {
			break
		}
		resp.Suggestions = append(resp.Suggestions, processSuggestion(suggestion))
	}

	// only the top match is looked up to save catalog calls
	details, err := s.lookupDetails(ctx, top.Name)

	if err != nil {
		zap.L().Warn("Trefle lookup failed (non-critical)", zap.String("plant", top.Name), zap.Error(err))
	}

	if details != nil {
		resp.Details = details
		return resp, nil
	}

	fallback, err := json.Marshal(fallbackDetails(top))

	if err != nil {
		return nil, err
	}

	available := false
	resp.Details = fallback
	resp.TrefleAvailable = &available

	return resp, nil
}

// lookupDetails returns nil details when the catalog has no match.
func (s *IdentificationService) lookupDetails(ctx context.Context, name string) (json.RawMessage, error) {
	if s.catalog == nil {
		return nil, nil
	}

	search, err := s.catalog.SearchPlant(ctx, name)

	if err != nil {
		return nil, err
	}

	if len(search.Data) == 0 {
		return nil, nil
	}

	details, err := s.catalog.GetPlantDetails(ctx, search.Data[0].ID)

	if err != nil {
		return nil, err
	}

	if len(details) == 0 {
		return json.RawMessage("{}"), nil
	}

	return details, nil
}

func processSuggestion(s types.PlantIDSuggestion) types.Suggestion {
	name := s.Name

	if name == "" {
		name = "Unknown"
	}

	images := s.SimilarImages

	if len(images) > maxSimilarImages {
		images = images[:maxSimilarImages]
	}

	if images == nil {
		images = []types.SimilarImage{}
	}

	return types.Suggestion{
		ID:            s.ID,
		Name:          name,
		Probability:   s.Probability,
		SimilarImages: images,
	}
}

func fallbackDetails(top types.Suggestion) types.FallbackDetails {
	details := types.FallbackDetails{
		ID:             top.ID,
		CommonName:     top.Name,
		ScientificName: top.Name,
	}

	if len(top.SimilarImages) > 0 {
		url := top.SimilarImages[0].URL
		details.ImageURL = &url
	}

	return details
}
