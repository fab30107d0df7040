// Package upstream talks to the hosting control-plane API on behalf of
// browser clients, attaching the server-side API key.
package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	portssvc "github.com/SscSPs/auradeploy/internal/core/ports/services"
)

const apiKeyHeader = "x-api-key"

const (
	dialTimeout         = 10 * time.Second
	tlsHandshakeTimeout = 10 * time.Second
)

type Client struct {
	baseURL string
	apiKey  string
	// http carries every call. It has no overall timeout: a call lasts as
	// long as the caller's context, and streams end when the caller cancels.
	http *http.Client
}

var _ portssvc.UpstreamSvcFacade = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Transport: newTransport()},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newTransport bounds connection setup only. Slow responses are left to the
// request context.
func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: tlsHandshakeTimeout,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path, rawQuery string, body []byte) (*http.Request, error) {
	if c.apiKey == "" {
		return nil, apperrors.ErrUpstreamMisconfigured
	}

	url := c.baseURL + path
	if rawQuery != "" {
		url += "?" + rawQuery
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}

	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Cache-Control", "no-cache, no-store")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Forward sends req and returns the upstream status and body as received.
// Non-2xx responses are not errors.
func (c *Client) Forward(ctx context.Context, r portssvc.UpstreamRequest) (*portssvc.UpstreamResponse, error) {
	rawQuery := ""
	if len(r.Query) > 0 {
		rawQuery = r.Query.Encode()
	}
	req, err := c.newRequest(ctx, r.Method, r.Path, rawQuery, r.Body)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %v: %w", r.Method, r.Path, err, apperrors.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream body: %v: %w", err, apperrors.ErrUpstreamUnavailable)
	}
	return &portssvc.UpstreamResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func (c *Client) OpenStream(ctx context.Context, path string) (*portssvc.UpstreamStream, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %v: %w", path, err, apperrors.ErrUpstreamUnavailable)
	}
	return &portssvc.UpstreamStream{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        resp.Body,
	}, nil
}
