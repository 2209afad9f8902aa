package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// AdminHeader carries the shared secret of the fulfilment routes.
const AdminHeader = "X-Admin-Token"

// AdminRequired accepts only requests that present token in AdminHeader.
func AdminRequired(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		given := c.Get(AdminHeader)
		if given == "" || token == "" || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
			return unauthorized(c, "Invalid admin token")
		}
		return c.Next()
	}
}
