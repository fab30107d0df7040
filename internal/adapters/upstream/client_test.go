package upstream_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/auradeploy/internal/adapters/upstream"
	"github.com/SscSPs/auradeploy/internal/apperrors"
	portssvc "github.com/SscSPs/auradeploy/internal/core/ports/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForward_AttachesKeyAndRelaysStatus(t *testing.T) {
	var gotKey, gotContentType, gotCache, gotQuery, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotContentType = r.Header.Get("Content-Type")
		gotCache = r.Header.Get("Cache-Control")
		gotQuery = r.URL.RawQuery
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"busy"}`))
	}))
	defer srv.Close()

	client := upstream.NewClient(srv.URL, "secret")
	resp, err := client.Forward(context.Background(), portssvc.UpstreamRequest{
		Method: http.MethodPost,
		Path:   "/servers/abc/command",
		Query:  url.Values{"tail": []string{"50"}},
		Body:   []byte(`{"command":"say hi"}`),
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.JSONEq(t, `{"error":"busy"}`, string(resp.Body))
	assert.Equal(t, "application/json", resp.ContentType)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "no-cache, no-store", gotCache)
	assert.Equal(t, "tail=50", gotQuery)
	assert.Equal(t, `{"command":"say hi"}`, gotBody)
}

func TestForward_NoBodyOmitsContentType(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := upstream.NewClient(srv.URL, "secret")
	_, err := client.Forward(context.Background(), portssvc.UpstreamRequest{Method: http.MethodPost, Path: "/servers/abc/start"})

	require.NoError(t, err)
	assert.Empty(t, gotContentType)
}

func TestForward_MissingKey(t *testing.T) {
	client := upstream.NewClient("http://127.0.0.1:1", "")
	_, err := client.Forward(context.Background(), portssvc.UpstreamRequest{Method: http.MethodGet, Path: "/versions/java"})
	assert.ErrorIs(t, err, apperrors.ErrUpstreamMisconfigured)
}

func TestForward_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	client := upstream.NewClient(base, "secret")
	_, err := client.Forward(context.Background(), portssvc.UpstreamRequest{Method: http.MethodGet, Path: "/versions/java"})
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
	assert.Equal(t, http.StatusBadGateway, apperrors.StatusCode(err))
}

func TestOpenStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: hello\n\n"))
	}))
	defer srv.Close()

	client := upstream.NewClient(srv.URL, "secret")
	stream, err := client.OpenStream(context.Background(), "/servers/abc/logs/live")
	require.NoError(t, err)
	defer stream.Body.Close()

	body, err := io.ReadAll(stream.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, stream.StatusCode)
	assert.Equal(t, "data: hello\n\n", string(body))
}

func TestForward_SlowUpstreamIsRelayed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"status":"restarting"}`))
	}))
	defer srv.Close()

	client := upstream.NewClient(srv.URL, "secret")
	resp, err := client.Forward(context.Background(), portssvc.UpstreamRequest{Method: http.MethodPost, Path: "/servers/abc/restart"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.JSONEq(t, `{"status":"restarting"}`, string(resp.Body))
}

func TestForward_CallerCancelAborts(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := upstream.NewClient(srv.URL, "secret")
	_, err := client.Forward(ctx, portssvc.UpstreamRequest{Method: http.MethodGet, Path: "/servers/abc"})

	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestWithHTTPClient_CarriesForwardAndStream(t *testing.T) {
	var paths []string
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		paths = append(paths, r.URL.Path)
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"text/plain"}},
			Body:       io.NopCloser(strings.NewReader("ok")),
			Request:    r,
		}, nil
	})}

	client := upstream.NewClient("http://hosting.test", "secret", upstream.WithHTTPClient(hc))

	resp, err := client.Forward(context.Background(), portssvc.UpstreamRequest{Method: http.MethodGet, Path: "/versions/java"})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(resp.Body))

	stream, err := client.OpenStream(context.Background(), "/servers/abc/logs/live")
	require.NoError(t, err)
	require.NoError(t, stream.Body.Close())

	assert.Equal(t, []string{"/versions/java", "/servers/abc/logs/live"}, paths)
}
