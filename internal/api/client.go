package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed reads
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 8 * time.Second
)

// Client talks to the dashboard backend over HTTP.
type Client struct {
	// BaseURL is the backend base URL (e.g. "http://127.0.0.1:9705")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed reads.
	// Writes (requests, resets) are never retried automatically.
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay caps the exponential backoff
	MaxRetryDelay time.Duration
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
}

// SetTimeout sets the HTTP request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// RequestarrInstances fetches the request-capable instances grouped by app.
func (c *Client) RequestarrInstances(ctx context.Context) (*InstanceSet, error) {
	var set InstanceSet
	if err := c.getJSON(ctx, "/api/requestarr/instances", nil, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// SearchMedia searches the selected instance for media matching q.
func (c *Client) SearchMedia(ctx context.Context, q, appType, instanceName string) ([]MediaItem, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("app_type", appType)
	params.Set("instance_name", instanceName)

	var resp searchResponse
	if err := c.getJSON(ctx, "/api/requestarr/search", params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, newBackendError(resp.Error)
	}
	return resp.Results, nil
}

// RequestMedia asks the backend to add the item to the selected instance.
func (c *Client) RequestMedia(ctx context.Context, payload RequestPayload) (*RequestResult, error) {
	var result RequestResult
	if err := c.postJSON(ctx, "/api/requestarr/request", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TestConnection checks backend connectivity to one app instance.
func (c *Client) TestConnection(ctx context.Context, app, apiURL, apiKey string) (*ConnectionResult, error) {
	if !ValidApp(app) {
		return nil, newBackendError(fmt.Sprintf("unknown app type %q", app))
	}

	body := map[string]string{"api_url": apiURL, "api_key": apiKey}
	var result ConnectionResult
	if err := c.postJSON(ctx, "/api/"+app+"/test-connection", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ResetStateful clears the backend's processed-media state for one instance.
func (c *Client) ResetStateful(ctx context.Context, appType, instanceName string) error {
	body := map[string]string{"app_type": appType, "instance_name": instanceName}
	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
	}
	if err := c.postJSON(ctx, "/api/stateful/reset", body, &result); err != nil {
		return err
	}
	if !result.Success {
		return newBackendError(firstNonEmpty(result.Message, "stateful reset failed"))
	}
	return nil
}

// TestNotification asks the backend to fire a test notification.
func (c *Client) TestNotification(ctx context.Context) error {
	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error,omitempty"`
	}
	if err := c.postJSON(ctx, "/api/test-notification", nil, &result); err != nil {
		return err
	}
	if !result.Success {
		return newBackendError(firstNonEmpty(result.Error, "notification test failed"))
	}
	return nil
}

// getJSON performs a GET with retry and exponential backoff, decoding the
// response body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return newNetworkError("request cancelled", ctx.Err())
			case <-time.After(currentDelay):
			}
			currentDelay *= 2
			if currentDelay > c.MaxRetryDelay {
				currentDelay = c.MaxRetryDelay
			}
		}

		err := c.getJSONAttempt(ctx, path, params, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

func (c *Client) getJSONAttempt(ctx context.Context, path string, params url.Values, out any) error {
	target := c.BaseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return newNetworkError("failed to create GET request", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return newNetworkError("GET request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return newHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return newNetworkError("failed to read response body", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newParseError("failed to parse JSON response", err)
	}
	return nil
}

// postJSON performs a single POST (no automatic retry: requests are not
// assumed idempotent) and decodes the response into out when non-nil.
func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return newParseError("failed to encode request body", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, reader)
	if err != nil {
		return newNetworkError("failed to create POST request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return newNetworkError("POST request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return newHTTPError(resp.StatusCode,
			fmt.Sprintf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	if out == nil {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return newNetworkError("failed to read response body", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newParseError("failed to parse JSON response", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
