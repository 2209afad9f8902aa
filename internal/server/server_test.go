package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/repositories"
	"storefront/internal/server"
	"storefront/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		StoreDriver:  config.StoreJSON,
		StorePath:    "db.json",
		JWTSecret:    "test_jwt_secret",
		TokenTTL:     time.Hour,
		EventsDriver: config.EventsNone,
	}
}

func TestHealthCheck(t *testing.T) {
	app := server.New(testConfig(), server.Dependencies{Repos: repositories.NewJSONSet(store.NewMemory())})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"status":"healthy"`)
}

func TestCORSPreflight(t *testing.T) {
	app := server.New(testConfig(), server.Dependencies{Repos: repositories.NewJSONSet(store.NewMemory())})

	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestUnknownRouteUsesErrorShape(t *testing.T) {
	app := server.New(testConfig(), server.Dependencies{Repos: repositories.NewJSONSet(store.NewMemory())})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(http.StatusNotFound), body["statusCode"])
	assert.NotEmpty(t, body["message"])
}

func TestAdminRoutesNeedConfiguredToken(t *testing.T) {
	patch := func(app *fiber.App, token string) int {
		req := httptest.NewRequest(http.MethodPatch, "/admin/orders/1/status", strings.NewReader(`{"status":"confirmed"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Admin-Token", token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	disabled := server.New(testConfig(), server.Dependencies{Repos: repositories.NewJSONSet(store.NewMemory())})
	assert.Equal(t, http.StatusNotFound, patch(disabled, "anything"))

	cfg := testConfig()
	cfg.AdminToken = "s3cret"
	enabled := server.New(cfg, server.Dependencies{Repos: repositories.NewJSONSet(store.NewMemory())})
	assert.Equal(t, http.StatusUnauthorized, patch(enabled, "wrong"))
	assert.Equal(t, http.StatusNotFound, patch(enabled, "s3cret"), "order 1 does not exist")
}
