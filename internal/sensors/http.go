package sensors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/greengenius/greengenius/internal/types"
)

// HTTPSource reads a device bridge that answers the sensor status format.
// A "{pot_id}" placeholder in the URL is replaced with the pot being read.
type HTTPSource struct {
	url     string
	headers map[string]string
	client  *http.Client
}

func NewHTTPSource(sourceURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:     sourceURL,
		headers: map[string]string{"Accept": "application/json"},
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Read(ctx context.Context, potID string) (types.SensorStatus, error) {
	var status types.SensorStatus

	target := strings.ReplaceAll(s.url, "{pot_id}", url.PathEscape(potID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)

	if err != nil {
		return status, err
	}

	for key, value := range s.headers {
		req.Header.Add(key, value)
	}

	resp, err := s.client.Do(req)

	if err != nil {
		return status, fmt.Errorf("failed to reach sensor source: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return status, fmt.Errorf("unexpected status code: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return status, fmt.Errorf("invalid sensor payload: %w", err)
	}

	return status, nil
}
