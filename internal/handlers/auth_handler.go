package handlers

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"contactbook/internal/apperrors"
	"contactbook/internal/middleware"
	"contactbook/internal/services"
)

// AuthHandler handles HTTP requests for accounts and sessions.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	tmpDir      string
}

// NewAuthHandler creates a new AuthHandler. Uploaded avatars are staged in
// tmpDir before being processed.
func NewAuthHandler(authService *services.AuthService, tmpDir string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		tmpDir:      tmpDir,
	}
}

// RegisterRoutes registers the auth routes with the Fiber app. The guard
// middleware is applied to the routes that require a session.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Get("/verify/:token", h.HandleVerify)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/logout", guard, h.HandleLogout)
	authRoutes.Get("/current", guard, h.HandleCurrent)
	authRoutes.Patch("/avatars", guard, h.HandleUpdateAvatar)
}

// SignupRequest represents the request body for signup.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents the request body for login. Only presence is
// checked here: anything beyond that is a credential mismatch, and login
// answers every mismatch with the same 401.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleSignup handles new account registration.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation Error: Email and password are required.",
			"errors":  validationMessages(err),
		})
	}

	user, err := h.authService.SignupUser(c.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("Error registering user: %v", err)
		if errors.Is(err, apperrors.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Email in use",
			})
		}
		return serverError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"user": fiber.Map{
			"email":        user.Email,
			"subscription": user.Subscription,
			"avatarURL":    user.AvatarURL,
		},
	})
}

// HandleLogin handles user login and issues a bearer token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation Error: Email and password are required.",
			"errors":  validationMessages(err),
		})
	}

	token, user, err := h.authService.LoginUser(c.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		if errors.Is(err, apperrors.ErrNotAuthorized) {
			// Identical for unknown email and wrong password.
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Email or password is wrong",
			})
		}
		return serverError(c)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"email":        user.Email,
			"subscription": user.Subscription,
		},
	})
}

// HandleLogout clears the current session token.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.authService.LogoutUser(c.Context(), user.ID); err != nil {
		log.Printf("Error during logout for %s: %v", user.Email, err)
		return serverError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCurrent returns the identity of the authenticated user.
func (h *AuthHandler) HandleCurrent(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(fiber.Map{
		"email":        user.Email,
		"subscription": user.Subscription,
	})
}

// HandleVerify consumes an email-verification token. A token is single
// use; visiting the link a second time yields 404.
func (h *AuthHandler) HandleVerify(c *fiber.Ctx) error {
	token := c.Params("token")

	if _, err := h.authService.VerifyEmail(c.Context(), token); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error verifying email: %v", err)
		return serverError(c)
	}

	return c.JSON(fiber.Map{
		"message": "Verification successful",
	})
}

// HandleUpdateAvatar accepts a multipart upload under the "avatar" field,
// stages it, and delegates resizing and persistence to the service.
func (h *AuthHandler) HandleUpdateAvatar(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Avatar file is required",
		})
	}

	if err := os.MkdirAll(h.tmpDir, 0o755); err != nil {
		log.Printf("Error creating tmp directory: %v", err)
		return serverError(c)
	}
	stagedPath := filepath.Join(h.tmpDir, fmt.Sprintf("avatar-%s%s", uuid.New().String(), filepath.Ext(fileHeader.Filename)))
	if err := c.SaveFile(fileHeader, stagedPath); err != nil {
		log.Printf("Error staging avatar upload: %v", err)
		return serverError(c)
	}

	avatarURL, err := h.authService.UpdateAvatar(c.Context(), user.ID, stagedPath, fileHeader.Filename)
	if err != nil {
		log.Printf("Error updating avatar for %s: %v", user.Email, err)
		return serverError(c)
	}

	return c.JSON(fiber.Map{
		"avatarURL": avatarURL,
	})
}

// validationMessages flattens validator errors into a field -> message map.
func validationMessages(err error) map[string]string {
	messages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			messages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return messages
}

func serverError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal Server Error",
	})
}
