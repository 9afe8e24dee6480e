package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/salesboard/internal/domain/leaderboard"
	"github.com/okian/salesboard/internal/domain/model"
)

// HTTPClient talks to the /api/data surface of a running server.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type settingsResponse struct {
	Members    []model.Member   `json:"members"`
	Activities []model.Activity `json:"activities"`
}

// Health checks that the server answers on /healthz.
func (c *HTTPClient) Health(ctx context.Context) error {
	status, _, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("healthz returned status %d", status)
	}
	return nil
}

// Action posts {action, payload} and returns the status and body.
func (c *HTTPClient) Action(ctx context.Context, action string, payload any) (int, []byte, error) {
	body, err := json.Marshal(map[string]any{"action": action, "payload": payload})
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/api/data", body)
}

// Settings fetches both catalogs.
func (c *HTTPClient) Settings(ctx context.Context) (settingsResponse, error) {
	var out settingsResponse
	err := c.getJSON(ctx, "/api/data?action=settings", &out)
	return out, err
}

// Leaderboard fetches both boards for [start, end].
func (c *HTTPClient) Leaderboard(ctx context.Context, start, end model.Date) (leaderboard.Boards, error) {
	q := url.Values{}
	q.Set("action", "leaderboard")
	q.Set("startDate", start.String())
	q.Set("endDate", end.String())
	var out leaderboard.Boards
	err := c.getJSON(ctx, "/api/data?"+q.Encode(), &out)
	return out, err
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, v any) error {
	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("GET %s returned %d: %s", path, status, body)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var r io.Reader = http.NoBody
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return resp.StatusCode, data, nil
}
