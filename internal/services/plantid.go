package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/greengenius/greengenius/internal/types"
	"go.uber.org/zap"
)

var ErrMissingPlantIDKey = errors.New("Plant.id API key is missing.")

// PlantIDClient talks to the Plant.id v3 identification API.
type PlantIDClient struct {
	apiKey string
	apiURL string
	client *http.Client
}

func NewPlantIDClient(apiKey, apiURL string) *PlantIDClient {
	return &PlantIDClient{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type plantIDRequest struct {
	Images        []string `json:"images"`
	SimilarImages bool     `json:"similar_images"`
}

// Identify submits a base64 image and returns the raw classification.
func (c *PlantIDClient) Identify(ctx context.Context, imageBase64 string) (*types.PlantIDResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingPlantIDKey
	}

	payload, err := json.Marshal(plantIDRequest{
		Images:        []string{imageBase64},
		SimilarImages: true,
	})

	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))

	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, fmt.Errorf("failed to call Plant.id: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, fmt.Errorf("failed to read Plant.id response: %w", err)
	}

	zap.L().Debug("Plant.id response", zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		zap.L().Warn("Plant.id API error", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return nil, fmt.Errorf("plant.id API error %d: %s", resp.StatusCode, string(body))
	}

	var result types.PlantIDResponse

	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse Plant.id JSON: %w", err)
	}

	return &result, nil
}
