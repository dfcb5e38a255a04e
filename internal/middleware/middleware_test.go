package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestTimeout_SetsDeadline(t *testing.T) {
	app := fiber.New()
	app.Use(RequestTimeout(50 * time.Millisecond))
	app.Get("/", func(c *fiber.Ctx) error {
		deadline, ok := c.UserContext().Deadline()
		if !ok || time.Until(deadline) > 50*time.Millisecond {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestTimeout_CancelsSlowWork(t *testing.T) {
	app := fiber.New()
	app.Use(RequestTimeout(10 * time.Millisecond))
	app.Get("/", func(c *fiber.Ctx) error {
		select {
		case <-c.UserContext().Done():
			return c.SendStatus(fiber.StatusGatewayTimeout)
		case <-time.After(time.Second):
			return c.SendStatus(fiber.StatusOK)
		}
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), 2000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
}

func TestContextMiddleware_LogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	original := Logger
	Logger = slog.New(&ctxHandler{slog.NewJSONHandler(&buf, nil)})
	t.Cleanup(func() { Logger = original })

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(ContextMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		ctx := context.WithValue(c.UserContext(), UserIDKey, uint(9))
		Logger.InfoContext(ctx, "hello")
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	_, err := app.Test(req)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"request_id":"rid-1"`)
	assert.Contains(t, buf.String(), `"user_id":9`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}
