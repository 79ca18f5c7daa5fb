package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivraj110504/RuralCare/internal/conversation"
	httpmiddleware "github.com/shivraj110504/RuralCare/internal/http/middleware"
	"github.com/shivraj110504/RuralCare/internal/observability/metrics"
	"github.com/shivraj110504/RuralCare/internal/webchat"
	"github.com/shivraj110504/RuralCare/pkg/logging"
)

func newTestRouter(t *testing.T, checks map[string]HealthCheck, limiter *httpmiddleware.RateLimiter) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	chatMetrics := metrics.NewChatMetrics(reg)
	manager := conversation.NewManager(conversation.Dependencies{Metrics: chatMetrics, Logger: logging.Discard()})

	return New(&Config{
		Logger:         logging.Discard(),
		Chat:           webchat.NewHandler(manager, nil, logging.Discard()),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		RateLimiter:    limiter,
		HealthChecks:   checks,
	})
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, map[string]HealthCheck{
		"redis": func(context.Context) error { return nil },
	}, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "ok", resp["redis"])
}

func TestRouterHealthDegraded(t *testing.T) {
	router := newTestRouter(t, map[string]HealthCheck{
		"postgres": func(context.Context) error { return errors.New("connection refused") },
	}, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "connection refused")
}

func TestRouterChatFlowAndMetrics(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/chat/sessions", nil))
	require.Equal(t, http.StatusCreated, rr.Code)
	var session webchat.SessionResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&session))
	assert.False(t, session.Authenticated)

	body := bytes.NewBufferString(`{"text":"fever"}`)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/chat/sessions/"+session.SessionID+"/messages", body))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), conversation.LoginMessage)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `ruralcare_chat_cycles_total{intent="anonymous"} 1`)
}

func TestRouterRejectsInvalidToken(t *testing.T) {
	router := New(&Config{
		Chat:              webchat.NewHandler(conversation.NewManager(conversation.Dependencies{Logger: logging.Discard()}), nil, logging.Discard()),
		SupabaseJWTSecret: "secret",
	})

	req := httptest.NewRequest(http.MethodPost, "/chat/sessions", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouterRateLimitsSubmissions(t *testing.T) {
	router := newTestRouter(t, nil, httpmiddleware.NewRateLimiter(0, 1))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/chat/sessions", nil))
	var session webchat.SessionResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&session))

	send := func() int {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chat/sessions/"+session.SessionID+"/messages", bytes.NewBufferString(`{"text":"hi"}`))
		router.ServeHTTP(rr, req)
		return rr.Code
	}
	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestRouterWithoutChat(t *testing.T) {
	router := New(&Config{})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/chat/sessions", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
