package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecks(t *testing.T) {
	_, app := newTestServer(t)

	live := doRequest(t, app, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, live.Status)
	assert.Equal(t, "up", live.JSON(t)["status"])

	ready := doRequest(t, app, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, ready.Status)
	checks := ready.JSON(t)["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "disabled", checks["redis"])
}

func TestUnknownRouteUsesErrorBody(t *testing.T) {
	_, app := newTestServer(t)

	resp := doRequest(t, app, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	body := resp.JSON(t)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
}

func TestSecurityHeaders(t *testing.T) {
	_, app := newTestServer(t)

	resp := doRequest(t, app, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	_, app := newTestServer(t)
	doRequest(t, app, http.MethodGet, "/health/live", "", nil)

	resp := doRequest(t, app, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Body), "http_requests_total")
}

func TestCodeForStatus(t *testing.T) {
	assert.Equal(t, "UNAUTHENTICATED", codeForStatus(http.StatusUnauthorized))
	assert.Equal(t, "VALIDATION_ERROR", codeForStatus(http.StatusMethodNotAllowed))
	assert.Equal(t, "INTERNAL_ERROR", codeForStatus(http.StatusBadGateway))
}
