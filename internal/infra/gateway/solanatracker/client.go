package solanatracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avkuzmin/tradetape/pkg/logger"
)

const (
	defaultBaseURL = "https://data.solanatracker.io"
	requestTimeout = 30 * time.Second
)

// Client is an HTTP client for the SolanaTracker data API
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

// NewClient creates a new SolanaTracker API client
func NewClient(apiKey string, log *logger.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL: defaultBaseURL,
		logger:  log.WithField("component", "solanatracker"),
	}
}

// SetBaseURL overrides the default base URL (useful for testing)
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// GetWalletTrades fetches one page of the wallet trade feed. An empty cursor
// requests the first page. There is no in-client retry: a 429 is surfaced as
// a RateLimitError and the caller's next scheduled cycle tries again.
func (c *Client) GetWalletTrades(ctx context.Context, address, cursor string) (*TradesResponse, error) {
	reqURL := fmt.Sprintf("%s/wallet/%s/trades", c.baseURL, url.PathEscape(address))
	if cursor != "" {
		reqURL += "?cursor=" + url.QueryEscape(cursor)
	}

	start := time.Now()
	c.logger.Debug("API request", "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		// Rate-limit headers are logged for operators; the fixed inter-call
		// delays are not adjusted from them.
		reset := resp.Header.Get("x-ratelimit-reset")
		c.logger.Warn("rate limited",
			"address", address,
			"ratelimit_remaining", resp.Header.Get("x-ratelimit-remaining"),
			"ratelimit_reset", reset)
		return nil, &RateLimitError{
			Reset:   reset,
			Message: "SolanaTracker API rate limit exceeded",
		}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("API error", "status_code", resp.StatusCode)
		return nil, fmt.Errorf("SolanaTracker API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var page TradesResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode SolanaTracker response: %w", err)
	}

	c.logger.Debug("API response",
		"trades", len(page.Trades),
		"has_next", page.HasNextPage,
		"duration_ms", time.Since(start).Milliseconds())
	return &page, nil
}

// RateLimitError represents a 429 from the SolanaTracker API
type RateLimitError struct {
	Reset   string // raw x-ratelimit-reset header, may be empty
	Message string
}

func (e *RateLimitError) Error() string {
	if e.Reset != "" {
		return fmt.Sprintf("%s (reset %s)", e.Message, e.Reset)
	}
	return e.Message
}

// IsRateLimitError checks if an error is (or wraps) a rate limit error
func IsRateLimitError(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}
