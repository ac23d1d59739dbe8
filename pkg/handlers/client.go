// Package handlers provides the concrete dispatch mode handlers backed by
// upstream REST services, plus the static registration table that installs
// them at startup.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/zen-systems/waypoint/pkg/dispatch"
)

// Client fetches row sets from one upstream REST service. The enclosing
// orchestrator bounds each call with a deadline context; the client only
// has to honor cancellation.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a REST client rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// listPayload covers the common envelope shapes upstream services return.
type listPayload struct {
	Items []dispatch.Row `json:"items"`
	Data  []dispatch.Row `json:"data"`
	Total int            `json:"total"`
}

// FetchRows retrieves one page of rows from path. Every failure mode
// (network error, non-2xx status, malformed payload) is normalized into a
// *dispatch.Error naming the endpoint.
func (c *Client) FetchRows(ctx context.Context, path string, skip, limit int) ([]dispatch.Row, int, error) {
	url := fmt.Sprintf("%s%s?skip=%d&limit=%d", c.baseURL, path, skip, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, dispatch.NewError("invalid upstream request").WithEndpoint("fetch", url).WithCause(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, dispatch.NewError("upstream request failed: %v", err).WithEndpoint("fetch", url).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, dispatch.NewError("failed to read upstream response").WithEndpoint("fetch", url).WithCause(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, 0, dispatch.NewError("upstream returned status %d", resp.StatusCode).WithEndpoint("fetch", url)
	}

	rows, total, err := decodeRows(body)
	if err != nil {
		return nil, 0, dispatch.NewError("unexpected upstream payload: %v", err).WithEndpoint("fetch", url).WithCause(err)
	}
	return rows, total, nil
}

// decodeRows accepts either a bare JSON array of records or an envelope
// object with an items/data list and optional total.
func decodeRows(body []byte) ([]dispatch.Row, int, error) {
	var rows []dispatch.Row
	if err := json.Unmarshal(body, &rows); err == nil {
		return rows, len(rows), nil
	}

	var payload listPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, 0, err
	}
	rows = payload.Items
	if rows == nil {
		rows = payload.Data
	}
	if rows == nil {
		return nil, 0, fmt.Errorf("no items or data list in payload")
	}
	total := payload.Total
	if total == 0 {
		total = len(rows)
	}
	return rows, total, nil
}

// baseURL resolves a handler's upstream base URL from its environment
// variable, falling back to the internal-network default.
func baseURL(envVar, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}
