package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	apierrors "github.com/diogo/estate/internal/errors"
	"github.com/diogo/estate/internal/models"
)

// maxBodySize caps how much of a response body is read into memory
const maxBodySize = 16 << 20

// transportTimeoutSeconds is the hard ceiling of the underlying HTTP client.
// Per-call deadlines are carried by the request context and are always shorter.
const transportTimeoutSeconds = 300

// DefaultRequestTimeout bounds the non-chat calls when the caller sets no deadline
const DefaultRequestTimeout = 30 * time.Second

// Doer is the part of an HTTP client the API needs.
// tls_client.HttpClient and *http.Client from fhttp both satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientInterface is the set of backend operations used by the commands and the TUI
type ClientInterface interface {
	PostChat(ctx context.Context, message string) (*ChatResult, error)
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
	Properties(ctx context.Context, filter models.PropertyFilter) (*models.PropertyPage, error)
	Analyze(ctx context.Context, params models.AnalysisParams) (*models.AnalysisResult, error)
	Cities(ctx context.Context) ([]string, error)
	Export(ctx context.Context, format string) (*models.ExportResult, error)
	BaseURL() string
	Close()
}

// Client talks to the analytics backend
type Client struct {
	httpClient Doer
	baseURL    string
	timeout    time.Duration
	userAgent  string
	logger     *slog.Logger
	mu         sync.RWMutex
	closed     bool
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL sets the server the client talks to
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the default browser-profile TLS client
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout sets the deadline of non-chat calls
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL: models.DefaultServerURL,
		timeout: DefaultRequestTimeout,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if _, err := url.ParseRequestURI(client.baseURL); err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", client.baseURL, err)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(transportTimeoutSeconds),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the server URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close marks the client closed; later calls fail immediately
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// rawResponse is a fully read HTTP response
type rawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// do sends one request and reads the whole body.
// Any failure before a status line arrives is returned as a NetworkError.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, payload any) (*rawResponse, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "endpoint", endpoint, "err", err)
		return nil, apierrors.NewNetworkErrorWithEndpoint(strings.ToLower(method), endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("read "+strings.ToLower(method)+" response", endpoint, err)
	}

	c.logger.Debug("request done",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return &rawResponse{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// withDefaultTimeout applies the client timeout unless ctx already has a deadline
func (c *Client) withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// isSuccessStatus reports whether the status is 2xx
func isSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}
