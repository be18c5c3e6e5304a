// Package remote talks to the finance JSON API that owns transactions and investments
package remote

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

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 10 // requests per second
	DefaultCurrency  = "BRL"
)

// Client is a rate-limited HTTP client for the finance API
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	currency   string
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		// later options such as WithTimeout must not reach the caller's client;
		// the transport stays shared
		copied := *httpClient
		c.httpClient = &copied
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit sets the outbound rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithCurrency sets the currency assumed for amounts the API sends without one
func WithCurrency(code string) ClientOption {
	return func(c *Client) {
		c.currency = strings.ToUpper(code)
	}
}

// NewClient creates a new finance API client
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter:  rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		currency: DefaultCurrency,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is a non-2xx answer from the finance API
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("finance API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// Unwrap maps the status code onto a domain error so callers can use errors.Is
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return domain.ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return domain.ErrInvalidInput
	}
	return domain.ErrRemoteUnavailable
}

// envelope is the {success, data, error} wrapper used by every endpoint
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    interface{}
	headers map[string]string
}

// do performs a rate-limited request and decodes the envelope's data into result
func (c *Client) do(ctx context.Context, r request, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + r.path
	if len(r.query) > 0 {
		reqURL += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := domain.TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	log.Debug().Str("method", r.method).Str("path", r.path).Msg("Finance API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", domain.ErrRemoteUnavailable, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(raw))
		if decodeErr == nil && env.Error != "" {
			message = env.Error
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Endpoint:   r.path,
		}
	}

	if result == nil {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: failed to decode response: %w", domain.ErrRemoteUnavailable, decodeErr)
	}
	if !env.Success && env.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Error, Endpoint: r.path}
	}

	if err := json.Unmarshal(env.Data, result); err != nil {
		return fmt.Errorf("%w: failed to decode data: %w", domain.ErrRemoteUnavailable, err)
	}
	return nil
}
