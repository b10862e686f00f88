package mood

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const clientUserAgent = "stationd/1.0"

// ErrAssistRateLimited is returned when the assist service keeps rate
// limiting after retries.
var ErrAssistRateLimited = errors.New("mood assist rate limit exceeded")

// Client calls a remote mood-to-tags assist service over HTTP. It
// implements the Assist interface.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for the assist service at endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type suggestRequest struct {
	Input   string `json:"input"`
	MaxTags int    `json:"max_tags"`
}

type suggestResponse struct {
	Tags []string `json:"tags"`
}

// SuggestTags posts the mood text to the assist service and returns its
// tag suggestions. Rate-limited requests are retried with backoff.
func (c *Client) SuggestTags(ctx context.Context, freeText string) ([]string, error) {
	payload, err := json.Marshal(suggestRequest{Input: freeText, MaxTags: MaxTags})
	if err != nil {
		return nil, fmt.Errorf("encoding assist request: %w", err)
	}

	body, err := c.doRequest(ctx, payload)
	if err != nil {
		return nil, err
	}

	var resp suggestResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing assist response: %w", err)
	}
	return resp.Tags, nil
}

// doRequest performs the HTTP POST with retry on rate limit.
// Retries up to 3 times with exponential backoff (1s, 2s, 4s).
func (c *Client) doRequest(ctx context.Context, payload []byte) ([]byte, error) {
	delays := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	var lastErr error

	for attempt := 0; attempt <= len(delays); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delays[attempt-1]):
			}
		}

		body, err := c.doSingleRequest(ctx, payload)
		if err == nil {
			return body, nil
		}
		if errors.Is(err, ErrAssistRateLimited) {
			lastErr = err
			continue
		}
		return nil, err
	}

	return nil, lastErr
}

// doSingleRequest performs a single HTTP request.
func (c *Client) doSingleRequest(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", clientUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrAssistRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("assist service returned %d", resp.StatusCode)
	}

	return body, nil
}
