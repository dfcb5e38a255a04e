package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	_, app := newTestServer(t)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":    "Ana@Example.com",
		"password": "golden-hour-1",
		"name":     "Ana",
	})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	body := resp.JSON(t)
	assert.NotEmpty(t, body["token"])
	assert.NotContains(t, string(resp.Body), "golden-hour-1")

	dup := doRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":    "ana@example.com",
		"password": "golden-hour-2",
		"name":     "Other Ana",
	})
	assert.Equal(t, http.StatusConflict, dup.Status)
	assert.Equal(t, "CONFLICT", dup.JSON(t)["code"])
	assert.Equal(t, "Email already exists", dup.JSON(t)["message"])

	login := doRequest(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "ana@example.com",
		"password": "golden-hour-1",
	})
	require.Equal(t, http.StatusOK, login.Status)
	token := login.JSON(t)["token"].(string)

	me := doRequest(t, app, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, me.Status)
	identity := me.JSON(t)["identity"].(map[string]any)
	assert.Equal(t, "Ana", identity["name"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	_, app := newTestServer(t)
	registerUser(t, app, "Bo")

	resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "nobody@example.com",
		"password": "whatever-1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	body := resp.JSON(t)
	assert.Equal(t, "Invalid credentials", body["message"])
	assert.Equal(t, float64(http.StatusUnauthorized), body["status"])
	assert.Equal(t, "UNAUTHENTICATED", body["code"])
}

func TestRegister_Validation(t *testing.T) {
	_, app := newTestServer(t)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "VALIDATION_ERROR", resp.JSON(t)["code"])
}

func TestProviderLogin_UnknownProvider(t *testing.T) {
	_, app := newTestServer(t)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/oauth", "", fiber.Map{
		"provider":    "myspace",
		"accessToken": "tok",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	_, app := newTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/post/read"},
		{http.MethodPost, "/api/post/create"},
		{http.MethodPut, "/api/post/1"},
		{http.MethodPost, "/api/post/1"},
		{http.MethodDelete, "/api/post/1"},
		{http.MethodPost, "/api/user/follow/1"},
		{http.MethodGet, "/api/user/follow/1"},
		{http.MethodGet, "/api/auth/me"},
	}
	for _, r := range routes {
		resp := doRequest(t, app, r.method, r.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Status, "%s %s", r.method, r.path)
		assert.Equal(t, "UNAUTHENTICATED", resp.JSON(t)["code"])

		bad := doRequest(t, app, r.method, r.path, "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, bad.Status, "%s %s", r.method, r.path)
	}
}
