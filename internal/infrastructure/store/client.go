package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/alkarama/hub/internal/domain"
)

const (
	maxAttempts      = 3
	maxResponseBytes = 10 << 20
	defaultTimeout   = 10 * time.Second
)

// ClientConfig holds configuration for the record store client
type ClientConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables outbound limiting
	Logger            *zap.Logger
}

// Client reads collections from a json-server compatible record store
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	debug       bool
	backoff     func(attempt int) time.Duration
}

// NewClient creates a new record store client
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	burst := 1
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
		burst = max(1, int(config.RequestsPerSecond))
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		rateLimiter: rate.NewLimiter(limit, burst),
		logger:      logger,
		backoff:     exponentialBackoff,
	}
}

// SetDebug enables or disables per-request debug logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

func (c *Client) debugLog(msg string, fields ...zap.Field) {
	if c.debug {
		c.logger.Debug(msg, fields...)
	}
}

// exponentialBackoff returns the wait after a failed attempt: 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500<<(attempt-1)) * time.Millisecond
}

// ListProjects returns the projects collection, optionally filtered
func (c *Client) ListProjects(ctx context.Context, filter url.Values) ([]domain.Project, error) {
	var out domain.OneOrMany[domain.Project]
	if err := c.get(ctx, "/projects", filter, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsers returns the users collection, optionally filtered
func (c *Client) ListUsers(ctx context.Context, filter url.Values) ([]domain.User, error) {
	var out domain.OneOrMany[domain.User]
	if err := c.get(ctx, "/users", filter, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListReports returns the reports collection, optionally filtered
func (c *Client) ListReports(ctx context.Context, filter url.Values) ([]domain.Report, error) {
	var out domain.OneOrMany[domain.Report]
	if err := c.get(ctx, "/reports", filter, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProject returns a single project by id
func (c *Client) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project
	if err := c.get(ctx, "/projects/"+url.PathEscape(id), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// GetUser returns a single user by id
func (c *Client) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := c.get(ctx, "/users/"+url.PathEscape(id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// get performs a GET with retries and decodes the JSON body into out.
// Transport errors, 429 and 5xx are retried; 404 maps to ErrNotFound;
// other statuses fail immediately.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, c.backoff(attempt-1)); err != nil {
				return err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		c.debugLog("store request", zap.String("url", reqURL), zap.Int("attempt", attempt))

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("store request failed", zap.String("url", reqURL), zap.Int("attempt", attempt), zap.Error(err))
			lastErr = err
			continue
		}

		body, err := readLimitedBody(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusNotFound:
			return domain.ErrNotFound
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("%w: store returned status %d", domain.ErrRateLimited, resp.StatusCode)
			continue
		case resp.StatusCode >= http.StatusInternalServerError:
			c.logger.Warn("store returned server error",
				zap.String("url", reqURL), zap.Int("status", resp.StatusCode), zap.Int("attempt", attempt))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrStoreFailure, resp.StatusCode)
			continue
		default:
			return fmt.Errorf("%w: status %d, body: %s", domain.ErrStoreFailure, resp.StatusCode, truncate(body, 200))
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	c.logger.Warn("all store retries failed", zap.String("url", reqURL), zap.Error(lastErr))
	return lastErr
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "AlkaramaHub/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	return resp, nil
}

// readLimitedBody reads at most maxResponseBytes and fails on anything larger
func readLimitedBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxResponseBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxResponseBytes {
		return nil, errors.New("response body too large")
	}
	return body, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
