package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/superinvestor/pkg/config"
	"github.com/wonny/superinvestor/pkg/logger"
)

func newTestClient() *Client {
	cfg := &config.Config{HTTPTimeout: 5 * time.Second}
	return New(cfg, logger.Nop())
}

func TestNew(t *testing.T) {
	client := newTestClient()

	require.NotNil(t, client)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.logger)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Nil(t, client.limiter)
}

func TestNew_DefaultTimeout(t *testing.T) {
	client := New(&config.Config{}, logger.Nop())
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestWithRateLimit(t *testing.T) {
	client := newTestClient().WithRateLimit(2)
	require.NotNil(t, client.limiter)
	assert.InDelta(t, 2.0, float64(client.limiter.Limit()), 0.0001)

	client.WithRateLimit(0)
	assert.Nil(t, client.limiter)
}

func TestGetWithHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "screener-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "https://example.com/", r.Header.Get("Referer"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`ok`))
	}))
	defer server.Close()

	client := newTestClient().WithHeader("User-Agent", "default-agent")

	resp, err := client.GetWithHeaders(context.Background(), server.URL, map[string]string{
		"User-Agent": "screener-test",
		"Referer":    "https://example.com/",
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>grid</html>`))
	}))
	defer server.Close()

	body, err := newTestClient().GetBody(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "<html>grid</html>", string(body))
}

func TestGetBody_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestClient().GetBody(context.Background(), server.URL, nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}

func TestGet_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestClient().Get(ctx, server.URL)
	assert.Error(t, err)
}

func TestGet_SingleAttempt(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient().GetBody(context.Background(), server.URL, nil)
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "no retry on 5xx")
}
