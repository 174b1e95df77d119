package handlers_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"contactbook/internal/handlers"
	"contactbook/internal/middleware"
	"contactbook/internal/repositories"
	"contactbook/internal/services"
)

// setupAvatarApp wires an app whose staging and avatar directories live
// under the test's temp dir.
func setupAvatarApp(t *testing.T) (*fiber.App, *repositories.MockUserRepository, string, string) {
	t.Helper()
	tmpDir := filepath.Join(t.TempDir(), "tmp")
	avatarDir := filepath.Join(t.TempDir(), "avatars")

	userRepo := repositories.NewMockUserRepository()
	contactRepo := repositories.NewMockContactRepository()

	authService := services.NewAuthService(userRepo, nil, "test_jwt_secret", avatarDir)
	contactService := services.NewContactService(contactRepo)

	authHandler := handlers.NewAuthHandler(authService, tmpDir)
	contactHandler := handlers.NewContactHandler(contactService)

	app := fiber.New()
	guard := middleware.AuthRequired(authService)
	api := app.Group("/api")
	authHandler.RegisterRoutes(api, guard)
	contactHandler.RegisterRoutes(api, guard)

	return app, userRepo, tmpDir, avatarDir
}

// encodeTestPNG renders a small solid image to PNG bytes.
func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUpdateAvatar(t *testing.T) {
	app, userRepo, tmpDir, avatarDir := setupAvatarApp(t)
	token := signupAndLogin(t, app, "hello@example.com", "hello12345")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("avatar", "photo.png")
	assert.NoError(t, err)
	_, err = part.Write(encodeTestPNG(t, 500, 300))
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPatch, "/api/auth/avatars", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	respBody := decodeBody(t, resp)

	user, err := userRepo.GetByEmail(context.Background(), "hello@example.com")
	assert.NoError(t, err)

	avatarURL, _ := respBody["avatarURL"].(string)
	assert.Equal(t, "/avatars/"+user.ID+"_photo.png", avatarURL)
	assert.Equal(t, avatarURL, user.AvatarURL)

	// The stored image is resized to 250x250
	f, err := os.Open(filepath.Join(avatarDir, user.ID+"_photo.png"))
	assert.NoError(t, err)
	defer f.Close()
	saved, _, err := image.Decode(f)
	assert.NoError(t, err)
	assert.Equal(t, 250, saved.Bounds().Dx())
	assert.Equal(t, 250, saved.Bounds().Dy())

	// The staged upload is gone
	staged, err := os.ReadDir(tmpDir)
	assert.NoError(t, err)
	assert.Empty(t, staged)
}

func TestUpdateAvatarRequiresFile(t *testing.T) {
	app, _, _, _ := setupAvatarApp(t)
	token := signupAndLogin(t, app, "hello@example.com", "hello12345")

	req := httptest.NewRequest(http.MethodPatch, "/api/auth/avatars", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateAvatarRequiresAuth(t *testing.T) {
	app, _, _, _ := setupAvatarApp(t)

	req := httptest.NewRequest(http.MethodPatch, "/api/auth/avatars", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
