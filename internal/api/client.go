package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const tokenPath = "/api/token/"

// Client is a thin HTTP client for the dashboard backend. It posts form
// encoded requests and retries with exponential backoff on HTTP 429.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	maxBackoff time.Duration
}

// NewClient creates a backend client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: 3,
		maxBackoff: 30 * time.Second,
	}
}

// Login exchanges a username and password for an access/refresh pair.
func (c *Client) Login(ctx context.Context, username, password string) (*Token, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token Token
	if err := c.postForm(ctx, tokenPath, form, &token); err != nil {
		return nil, err
	}
	if token.Access == "" {
		return nil, fmt.Errorf("token response from %s has no access token", tokenPath)
	}
	return &token, nil
}

// postForm sends form to path and decodes the JSON response into result,
// handling rate limiting and auth failures.
func (c *Client) postForm(
	ctx context.Context,
	path string,
	form url.Values,
	result interface{},
) error {
	endpoint := c.baseURL + path
	encoded := form.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, endpoint, strings.NewReader(encoded),
		)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request POST %s: %w", path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429) on POST %s", path)
			if attempt == c.maxRetries {
				break
			}
			waitDuration := c.retryAfterDuration(resp, attempt)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		if resp.StatusCode == http.StatusUnauthorized {
			msg := "invalid username or password"
			var body errorResponse
			if json.Unmarshal(respBody, &body) == nil && body.Detail != "" {
				msg = body.Detail
			}
			return &AuthError{Message: msg}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &StatusError{
				StatusCode: resp.StatusCode,
				Method:     http.MethodPost,
				Path:       path,
				Body:       strings.TrimSpace(string(respBody)),
			}
		}

		if result == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshaling response from POST %s: %w", path, err)
		}

		return nil
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration, capped at maxBackoff. Falls back to exponential backoff if the
// header is missing.
func (c *Client) retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return min(time.Duration(seconds)*time.Second, c.maxBackoff)
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}
