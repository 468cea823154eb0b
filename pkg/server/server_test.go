// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
)

func testServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	base := []Option{
		WithName("test"),
		WithVersion("v0.0.1"),
		WithHandler(map[string]http.HandlerFunc{
			"GET /v1/ping": func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("pong"))
			},
			"GET /v1/panic": func(w http.ResponseWriter, r *http.Request) {
				panic("boom")
			},
			"GET /v1/missing": func(w http.ResponseWriter, r *http.Request) {
				WriteErrorFrom(w, r, apperrors.NewWithContext(apperrors.ErrCodeNotFound, "no such host",
					map[string]any{"host": "x"}))
			},
			"GET /v1/deadline": func(w http.ResponseWriter, r *http.Request) {
				_, ok := r.Context().Deadline()
				if !ok {
					w.WriteHeader(http.StatusInternalServerError)
				}
			},
		}),
	}
	s := New(append(base, opts...)...)
	s.SetReady(true)
	return s
}

func do(t *testing.T, s *Server, method, target string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestServer_Handler(t *testing.T) {
	s := testServer(t)

	rec := do(t, s, http.MethodGet, "/v1/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
	assert.Equal(t, DefaultAPIVersion, rec.Header().Get("X-API-Version"))
	_, err := uuid.Parse(rec.Header().Get("X-Request-Id"))
	assert.NoError(t, err)
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))

	// unmatched methods fall through to the default route
	rec = do(t, s, http.MethodPost, "/v1/ping", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RequestIDPropagation(t *testing.T) {
	s := testServer(t)
	id := uuid.New().String()

	rec := do(t, s, http.MethodGet, "/v1/ping", map[string]string{"X-Request-Id": id})
	assert.Equal(t, id, rec.Header().Get("X-Request-Id"))

	rec = do(t, s, http.MethodGet, "/v1/ping", map[string]string{"X-Request-Id": "not-a-uuid"})
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get("X-Request-Id"))
}

func TestServer_PanicRecovery(t *testing.T) {
	s := testServer(t)
	rec := do(t, s, http.MethodGet, "/v1/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ErrCodeInternalError, decodeError(t, rec).Code)
}

func TestServer_StructuredError(t *testing.T) {
	s := testServer(t)
	id := uuid.New().String()
	rec := do(t, s, http.MethodGet, "/v1/missing", map[string]string{"X-Request-Id": id})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	resp := decodeError(t, rec)
	assert.Equal(t, ErrCodeNotFound, resp.Code)
	assert.Equal(t, "no such host", resp.Message)
	assert.Equal(t, "x", resp.Details["host"])
	assert.Equal(t, id, resp.RequestID)
	assert.False(t, resp.Retryable)
}

func TestServer_HandlerDeadline(t *testing.T) {
	s := testServer(t)
	rec := do(t, s, http.MethodGet, "/v1/deadline", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_RateLimit(t *testing.T) {
	s := testServer(t, WithRateLimit(1, 1))

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/v1/ping", nil).Code)
	rec := do(t, s, http.MethodGet, "/v1/ping", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.True(t, decodeError(t, rec).Retryable)

	// system endpoints bypass the limiter
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", nil).Code)
}

func TestServer_HealthAndReady(t *testing.T) {
	ready, reason := false, "first cycle pending"
	s := testServer(t, WithReadiness(func() (bool, string) { return ready, reason }))

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodPost, "/health", nil).Code)

	rec := do(t, s, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var hr HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hr))
	assert.Equal(t, "first cycle pending", hr.Reason)

	ready = true
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/ready", nil).Code)

	s.SetReady(false)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/ready", nil).Code)
}

func TestServer_DefaultRoute(t *testing.T) {
	s := testServer(t)

	rec := do(t, s, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Name   string   `json:"name"`
		Routes []string `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "test", body.Name)
	assert.Contains(t, body.Routes, "GET /v1/ping")

	rec = do(t, s, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	s := testServer(t)
	do(t, s, http.MethodGet, "/v1/ping", nil)

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "section_broker_http_requests_total")
}

func TestNegotiateAPIVersion(t *testing.T) {
	tests := []struct {
		accept string
		want   string
	}{
		{"", "v1"},
		{"application/json", "v1"},
		{"application/vnd.nvidia.sectionbroker.v1+json", "v1"},
		{"text/html, application/vnd.nvidia.sectionbroker.v1+json;q=0.9", "v1"},
		{"application/vnd.nvidia.sectionbroker.v9+json", "v1"},
	}
	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept", tt.accept)
			assert.Equal(t, tt.want, negotiateAPIVersion(req))
		})
	}
}

func TestWriteErrorFrom(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid", apperrors.New(apperrors.ErrCodeInvalidRequest, "bad"), http.StatusBadRequest, ErrCodeInvalidRequest},
		{"parse", apperrors.New(apperrors.ErrCodeParseFailed, "bad rows"), http.StatusUnprocessableEntity, "PARSE_FAILED"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "TIMEOUT"},
		{"canceled", context.Canceled, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"plain", errors.New("x"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteErrorFrom(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestNewConfig_Env(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "5")
	cfg := NewConfig()
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)

	t.Setenv("PORT", "abc")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "-1")
	cfg = NewConfig()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	bgStarted := make(chan struct{})
	s := testServer(t, WithBackground(func(ctx context.Context) error {
		close(bgStarted)
		<-ctx.Done()
		return ctx.Err()
	}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}

	// background tasks only run under Run
	select {
	case <-bgStarted:
		t.Fatal("background task started by Serve")
	default:
	}
}
