package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"contactbook/internal/models"
	"contactbook/internal/services"
)

// userKey is the Locals key the resolved user is stored under.
const userKey = "user"

// AuthRequired is a Fiber middleware that gates every protected route.
// It requires a "Bearer <token>" Authorization header, verifies the token
// signature and expiry, and cross-checks the presented token against the
// user's stored session token. Every rejection path returns the identical
// response so a caller cannot tell which check failed.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return unauthorized(c)
		}

		user, err := authService.Authenticate(c.Context(), parts[1])
		if err != nil {
			log.Printf("Auth rejected: %v", err)
			return unauthorized(c)
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user attached by AuthRequired, or nil when the
// route is not guarded.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Not authorized",
	})
}
