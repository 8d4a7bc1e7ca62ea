package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/greengenius/greengenius/internal/types"
)

var ErrMissingTrefleToken = errors.New("Trefle API token is missing.")

// TrefleClient looks up plant catalog records on trefle.io.
type TrefleClient struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewTrefleClient(token, baseURL string) *TrefleClient {
	return &TrefleClient{
		token:   token,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SearchPlant searches the catalog by name.
func (c *TrefleClient) SearchPlant(ctx context.Context, query string) (*types.TrefleSearchResponse, error) {
	params := url.Values{"q": {query}}

	var result types.TrefleSearchResponse

	if err := c.get(ctx, "/plants/search", params, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetPlantDetails fetches the full record of a catalog plant.
func (c *TrefleClient) GetPlantDetails(ctx context.Context, plantID int) (json.RawMessage, error) {
	var result types.TrefleDetailResponse

	if err := c.get(ctx, fmt.Sprintf("/plants/%d", plantID), url.Values{}, &result); err != nil {
		return nil, err
	}

	return result.Data, nil
}

func (c *TrefleClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.token == "" {
		return ErrMissingTrefleToken
	}

	params.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)

	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)

	if err != nil {
		return fmt.Errorf("failed to call Trefle: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		return fmt.Errorf("failed to read Trefle response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("trefle API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse Trefle JSON: %w", err)
	}

	return nil
}
