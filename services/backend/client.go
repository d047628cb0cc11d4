package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"neighborly/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Options configures a Client. Zero values pick sensible defaults.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	RetryCount int
	RetryWait  time.Duration
	StaleTime  time.Duration
	Cache      ResponseCache
	Limiter    *rate.Limiter
}

// Client talks JSON to the marketplace backend.
type Client struct {
	baseURL   string
	http      *http.Client
	retries   int
	retryWait time.Duration
	staleTime time.Duration
	cache     ResponseCache
	limiter   *rate.Limiter
}

// NewClient builds a backend client from opts.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(50), 100)
	}
	retryWait := opts.RetryWait
	if retryWait <= 0 {
		retryWait = 300 * time.Millisecond
	}
	retries := opts.RetryCount
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      httpClient,
		retries:   retries,
		retryWait: retryWait,
		staleTime: opts.StaleTime,
		cache:     opts.Cache,
		limiter:   limiter,
	}
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func cacheScope(token string) string {
	if token == "" {
		return utils.ResponseCachePrefix + "anon:"
	}
	return utils.ResponseCachePrefix + utils.HashToken(token)[:16] + ":"
}

// get fetches path, serving from the response cache while it is fresh.
func (c *Client) get(ctx context.Context, token, path string, out any) error {
	key := cacheScope(token) + path
	if c.cache != nil && c.staleTime > 0 {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			return json.Unmarshal(data, out)
		} else if err != nil {
			utils.GetLogger().Warn("Response cache read failed", zap.String("path", path), zap.Error(err))
		}
	}

	data, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	if c.cache != nil && c.staleTime > 0 {
		if err := c.cache.Set(ctx, key, data, c.staleTime); err != nil {
			utils.GetLogger().Warn("Response cache write failed", zap.String("path", path), zap.Error(err))
		}
	}
	return nil
}

// send issues a write and drops the caller's cached responses on success.
func (c *Client) send(ctx context.Context, method, token, path string, body, out any) error {
	data, err := c.do(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if c.cache != nil {
		if err := c.cache.DeletePrefix(ctx, cacheScope(token)); err != nil {
			utils.GetLogger().Warn("Response cache invalidation failed", zap.String("path", path), zap.Error(err))
		}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// do performs the request, retrying idempotent calls on transport errors and 5xx.
func (c *Client) do(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	attempts := 1
	if idempotent(method) {
		attempts += c.retries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := c.retryWait << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
		data, err := c.once(ctx, method, path, token, payload)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
		utils.GetLogger().Debug("Backend request failed, retrying",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return nil, lastErr
}

func (c *Client) once(ctx context.Context, method, path, token string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Message string `json:"message"`
			Error   string `json:"error"`
			Code    string `json:"code"`
		}
		if json.Unmarshal(data, &body) == nil {
			apiErr.Message = body.Message
			if apiErr.Message == "" {
				apiErr.Message = body.Error
			}
			apiErr.Code = body.Code
		}
		return nil, apiErr
	}
	return data, nil
}
