package middleware

import (
	"strings"

	"autolog/internal/services"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

const userIDKey = "user_id"

// AuthRequired is a Fiber middleware that rejects requests without a valid
// bearer token and stores the token's user ID for handlers.
func AuthRequired(issuer *services.TokenIssuer, logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header format must be 'Bearer <token>'",
			})
		}

		userID, err := issuer.Validate(parts[1])
		if err != nil {
			logger.Debug("JWT validation failed", "err", err, "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user ID, if AuthRequired ran.
func UserID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(userIDKey).(int64)
	return id, ok
}
