package services

import (
	"context"
	"io"
	"net/url"
)

// UpstreamRequest is a call forwarded to the hosting control-plane API.
type UpstreamRequest struct {
	Method string
	// Path is relative to the configured base, already escaped, e.g. "/servers/abc/stop".
	Path  string
	Query url.Values
	// Body is sent as JSON when non-nil.
	Body []byte
}

// UpstreamResponse is relayed to the client without interpretation.
type UpstreamResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// UpstreamStream is an open streaming response. The caller must close Body.
type UpstreamStream struct {
	StatusCode  int
	ContentType string
	Body        io.ReadCloser
}

// UpstreamSvcFacade forwards requests to the hosting API with the server-side key.
type UpstreamSvcFacade interface {
	Forward(ctx context.Context, req UpstreamRequest) (*UpstreamResponse, error)
	// OpenStream starts a long-lived GET. Cancelling ctx closes the upstream connection.
	OpenStream(ctx context.Context, path string) (*UpstreamStream, error)
}
