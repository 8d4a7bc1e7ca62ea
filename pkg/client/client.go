// Package client calls the identify, status and analyze endpoints of a
// GreenGenius backend.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/greengenius/greengenius/internal/types"
)

const DefaultBaseURL = "http://localhost:8000"

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithToken sends the token as a bearer credential.
func WithToken(token string) Option {
	return func(cl *Client) { cl.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// IdentifyPlant submits a base64 photo. A response without a match is not
// an error; check IdentifyResponse.Error.
func (c *Client) IdentifyPlant(ctx context.Context, imageBase64 string) (*types.IdentifyResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/identify", types.IdentifyRequest{ImageBase64: imageBase64})

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Detail string `json:"detail"`
		}

		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Detail != "" {
			return nil, errors.New(apiErr.Detail)
		}

		return nil, errors.New("Failed to identify plant")
	}

	var result types.IdentifyResponse

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode identify response: %w", err)
	}

	return &result, nil
}

func (c *Client) GetSensorStatus(ctx context.Context) (*types.SensorStatus, error) {
	var status types.SensorStatus

	if err := c.call(ctx, http.MethodGet, "/status", nil, &status, "Failed to fetch sensor status"); err != nil {
		return nil, err
	}

	return &status, nil
}

// AnalyzeHealth checks a reading against plantData, a catalog record that
// may be nil.
func (c *Client) AnalyzeHealth(ctx context.Context, plantData any, sensorData types.SensorStatus) (*types.AnalysisResult, error) {
	body := struct {
		PlantData  any                `json:"plant_data"`
		SensorData types.SensorStatus `json:"sensor_data"`
	}{plantData, sensorData}

	var result types.AnalysisResult

	if err := c.call(ctx, http.MethodPost, "/analyze", body, &result, "Failed to analyze health"); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) call(ctx context.Context, method, path string, body, out any, failure string) error {
	resp, err := c.do(ctx, method, path, body)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New(failure)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w", failure, err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader *bytes.Reader

	if body != nil {
		raw, err := json.Marshal(body)

		if err != nil {
			return nil, err
		}

		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)

	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}
