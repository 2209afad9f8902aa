package middleware

import (
	"log"
	"strings"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID  = "user_id"
	localProfile = "profile"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && strings.EqualFold(parts[0], "Bearer")) {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'")
		}

		profile, err := authService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(localUserID, profile.Sub)
		c.Locals(localProfile, *profile)

		return c.Next()
	}
}

// UserID returns the id of the authenticated caller, or 0 outside AuthRequired.
func UserID(c *fiber.Ctx) int {
	id, _ := c.Locals(localUserID).(int)
	return id
}

// Profile returns the token profile of the authenticated caller.
func Profile(c *fiber.Ctx) (models.UserProfile, bool) {
	p, ok := c.Locals(localProfile).(models.UserProfile)
	return p, ok
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message":    message,
		"statusCode": fiber.StatusUnauthorized,
	})
}
