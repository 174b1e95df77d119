package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"contactbook/internal/config"
	"contactbook/internal/repositories"
)

func testApp() *fiber.App {
	cfg := config.Config{
		JWTSecret: "test_jwt_secret",
		TmpDir:    "tmp",
		AvatarDir: "public/avatars",
	}
	userRepo := repositories.NewMockUserRepository()
	contactRepo := repositories.NewMockContactRepository()
	return buildApp(cfg, userRepo, contactRepo, nil)
}

func TestHealthCheck(t *testing.T) {
	app := testApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, "healthy", body["status"])
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	app := testApp()

	for _, path := range []string{"/api/contacts", "/api/auth/current", "/api/auth/logout"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expected 401 for %s", path)
		resp.Body.Close()
	}
}

func TestPublicRoutesAreReachable(t *testing.T) {
	app := testApp()

	// Signup route exists and validates input: an empty body is a 400,
	// not a 404.
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/auth/signup", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// An unknown verification token is a 404
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/auth/verify/unknown-token", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
