package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"snapshare/internal/config"
	"snapshare/internal/database"
	"snapshare/internal/storage"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:                   "test",
		Port:                  "0",
		JWTSecret:             "server-test-secret-server-test-secret",
		SessionTTLHours:       1,
		DBDriver:              "sqlite",
		DBSQLitePath:          ":memory:",
		DBSchemaMode:          database.SchemaModeAuto,
		AllowedOrigins:        "http://localhost:5173",
		RequestTimeoutSeconds: 5,
		StorageDriver:         "local",
		UploadDir:             t.TempDir(),
		MediaBaseURL:          "/media",
	}
}

// newTestServer wires a full server over an in-memory sqlite database, local
// image storage and no Redis.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	cfg := testConfig(t)
	ctx := context.Background()

	db, err := database.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store, err := storage.New(ctx, cfg)
	require.NoError(t, err)

	s, err := NewServerWithDeps(cfg, db, nil, store)
	require.NoError(t, err)
	return s, s.NewApp()
}

type testResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

func (r testResponse) JSON(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(r.Body, &out), string(r.Body))
	return out
}

func (r testResponse) List(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(r.Body, &out), string(r.Body))
	return out
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) testResponse {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return testResponse{Status: resp.StatusCode, Header: resp.Header, Body: data}
}

type testUser struct {
	ID    uint
	Name  string
	Token string
}

func registerUser(t *testing.T, app *fiber.App, name string) testUser {
	t.Helper()
	if name == "" {
		name = gofakeit.FirstName()
	}
	resp := doRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":    gofakeit.Email(),
		"password": "passw0rd-" + gofakeit.LetterN(6),
		"name":     name,
	})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	body := resp.JSON(t)
	user := body["user"].(map[string]any)
	return testUser{
		ID:    uint(user["id"].(float64)),
		Name:  name,
		Token: body["token"].(string),
	}
}

func createPost(t *testing.T, app *fiber.App, owner testUser, caption string) uint {
	t.Helper()
	resp := doRequest(t, app, http.MethodPost, "/api/post/create", owner.Token, fiber.Map{"caption": caption})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	return uint(resp.JSON(t)["id"].(float64))
}
