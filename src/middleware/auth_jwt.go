package middleware

import (
	"net/http"
	"strings"

	"Backend-Claim3000/src/utils"

	"github.com/gofiber/fiber/v2"
)

// JWTAuth guards the admin surface. Claims land in c.Locals for handlers
// that need the caller's identity.
func JWTAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return utils.HandleError(c, http.StatusUnauthorized, "Missing or malformed token")
		}

		claims, err := utils.ParseJWT(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return utils.HandleError(c, http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals("adminId", claims.AdminID)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}
