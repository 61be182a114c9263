package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/agentstation/geomap/pkg/constants"
	"github.com/agentstation/geomap/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with optional authentication.
type Client struct {
	http   *http.Client
	auth   Authenticator
	secret string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithAuth applies auth with the given secret to every request.
// An empty secret leaves requests unauthenticated.
func WithAuth(auth Authenticator, secret string) Option {
	return func(c *Client) {
		if auth != nil {
			c.auth = auth
			c.secret = secret
		}
	}
}

// New creates a new transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{Timeout: DefaultHTTPTimeout},
		auth: &NoAuth{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs an HTTP request with authentication applied and context support.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)

	if c.secret != "" {
		c.auth.Apply(req, c.secret)
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewConfigError("transport", "invalid request URL "+url, err)
	}
	return c.Do(ctx, req)
}

// PostJSON performs a POST request with body encoded as JSON.
func (c *Client) PostJSON(ctx context.Context, url string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.WrapParse("json", "request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewConfigError("transport", "invalid request URL "+url, err)
	}
	return c.Do(ctx, req)
}
