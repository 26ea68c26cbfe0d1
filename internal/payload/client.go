// Package payload delivers canonical submissions to the receiving endpoint.
package payload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"formrelay/internal/logger"
	"formrelay/pkg/utils"
)

// Client errors.
var (
	ErrEndpointRequired = errors.New("endpoint is required")
	ErrRequestFailed    = errors.New("request failed")
)

// Endpoint paths and limits.
const (
	ReceivePath    = "/api/receive"
	StatusPath     = "/api/status"
	DefaultTimeout = 60 * time.Second

	maxBodyBytes = 64 * 1024
)

// Response is the observable part of an HTTP answer. Error statuses are
// returned here, never as errors.
type Response struct {
	StatusCode int
	Body       string
}

// Client defines the interface for talking to the receiving endpoint.
type Client interface {
	Do(ctx context.Context, method, path string, body []byte, headers map[string]string) (*Response, error)
}

// Ensure HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// HTTPClient sends authenticated requests to the receiving endpoint.
type HTTPClient struct {
	httpClient *http.Client
	endpoint   string
	secret     string
	logger     *logger.Logger
}

// NewHTTPClient creates a client for endpoint authenticated with secret.
func NewHTTPClient(endpoint, secret string, timeout time.Duration, log *logger.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		secret:   secret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// Do sends one request. Transport failures are wrapped in ErrRequestFailed.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body []byte, headers map[string]string) (*Response, error) {
	if c.endpoint == "" {
		return nil, ErrEndpointRequired
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	custom := map[string]string{}
	if body != nil {
		custom["Content-Type"] = "application/json"
	}

	if c.secret != "" {
		custom["Authorization"] = "Bearer " + c.secret
	}

	for k, v := range headers {
		custom[k] = v
	}

	req.Header = utils.BuildHeaders(custom)

	if c.logger != nil {
		c.logger.Debug("sending request", "method", method, "url", req.URL.String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrRequestFailed, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       string(data),
	}, nil
}
