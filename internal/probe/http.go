package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// maxBodyBytes bounds how much of a response the probe reads.
const maxBodyBytes = 8 << 20

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// getJSON issues a GET tagged with a fresh request id and decodes a 200 body
// into v. It returns the request id echoed by the server.
func (c *HTTPClient) getJSON(ctx context.Context, url string, v any) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	id := uuid.NewString()
	req.Header.Set("X-Request-ID", id)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return id, err
	}
	defer func() { _ = resp.Body.Close() }()

	if echoed := resp.Header.Get("X-Request-ID"); echoed != "" {
		id = echoed
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return id, fmt.Errorf("failed to read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return id, fmt.Errorf("%w: %s: status %d: %s", ErrBadResponse, url, resp.StatusCode, body)
	}
	if v == nil {
		return id, nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return id, fmt.Errorf("%w: %s: %w", ErrBadResponse, url, err)
	}
	return id, nil
}
