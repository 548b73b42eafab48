package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/robojar/pumpd/internal/server/httpserver"
)

// StatusClient reads pumpd's HTTP status endpoint.
type StatusClient struct {
	baseURL string
	client  *http.Client
}

// NewStatusClient creates a status client. addr may omit the scheme.
func NewStatusClient(addr string) *StatusClient {
	baseURL := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	return &StatusClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Health fetches /healthz. A 503 still decodes the body so callers can
// report the lifecycle state.
func (c *StatusClient) Health(ctx context.Context) (*httpserver.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var health httpserver.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &health, nil
}
