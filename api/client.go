package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"

	"boozedash/auth"
	"boozedash/config"
	"boozedash/monitor"
)

// Envelope standard backend response shape
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Client backend REST client
//
// All calls decode the standard {success, data, message} envelope and convert
// failures into *Error values; nothing is retried here.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *auth.TokenStore
	tracer  *monitor.Tracer
	metrics *monitor.MetricsCollector
}

// NewClient creates a backend REST client. tracer and metrics may be nil.
func NewClient(cfg config.APIConfig, tokens *auth.TokenStore, tracer *monitor.Tracer, metrics *monitor.MetricsCollector) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		tokens:  tokens,
		tracer:  tracer,
		metrics: metrics,
	}
}

// Token returns the stored credential when present and usable
func (c *Client) Token() (string, bool) {
	if c.tokens == nil {
		return "", false
	}
	return c.tokens.Token()
}

// do issues one request and decodes the response envelope into out (out may
// be nil when the caller only cares about success).
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	ctx, span := c.tracer.StartClientSpan(ctx, method, path)
	defer span.End()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token, ok := c.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordAPIRequest(path, "error", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return &Error{Status: 0, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	c.metrics.RecordAPIRequest(path, strconv.Itoa(resp.StatusCode), time.Since(start))

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &Error{Status: resp.StatusCode, Message: "malformed response", Err: err}
	}

	if resp.StatusCode >= 400 || !env.Success {
		message := env.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		span.SetStatus(codes.Error, message)
		return NewError(resp.StatusCode, message)
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Status: resp.StatusCode, Message: "malformed response data", Err: err}
		}
	}
	return nil
}

// Get issues a GET request
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH request
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
