// Package strapi is a small client for a Strapi v4 style content API: bearer
// authentication, `{data: ...}` envelopes and `{error: {message}}` failures.
package strapi

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

	"github.com/google/uuid"

	"github.com/placedesk/placedesk/internal/logging"
	"github.com/placedesk/placedesk/internal/metrics"
)

const (
	defaultTimeout = 30 * time.Second

	// HeaderRequestID carries a per-request UUID for correlating with server logs.
	HeaderRequestID = "X-Request-ID"
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

// Client talks to the content API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// NewClient instantiates a client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("strapi: base url is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: httpClient,
		metrics:    cfg.Metrics,
	}, nil
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON issues GET path?query and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query *Query, out any) error {
	resp, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("strapi: decode %s: %w", path, err)
	}
	return nil
}

// Get issues GET path?query. On 2xx the caller owns and must close the body.
// Any other status is returned as *APIError.
func (c *Client) Get(ctx context.Context, path string, query *Query) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// PutData issues PUT path with body `{"data": data}` and discards the response body.
func (c *Client) PutData(ctx context.Context, path string, data any) error {
	payload, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		return fmt.Errorf("strapi: encode body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPut, path, nil, payload)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query *Query, body []byte) (*http.Response, error) {
	u := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("strapi: build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := logging.FromContext(ctx)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.ObserveAPIRequest(method, 0, elapsed)
		log.Debug().Ctx(ctx).
			Str("component", "strapi").
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Err(err).
			Msg("request failed")
		return nil, fmt.Errorf("strapi: %s %s: %w", method, path, err)
	}
	c.metrics.ObserveAPIRequest(method, resp.StatusCode, elapsed)

	log.Debug().Ctx(ctx).
		Str("component", "strapi").
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("duration", elapsed).
		Msg("request completed")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer func() {
			_ = resp.Body.Close()
		}()
		return nil, newAPIError(resp)
	}
	return resp, nil
}
