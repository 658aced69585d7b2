package middleware

import (
	"chums-admin/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// Deny selects what a caller without the permission gets back.
type Deny int

const (
	// DenyEmpty answers 200 with an empty object; pages simply render nothing.
	DenyEmpty Deny = iota
	// DenyForbidden answers 403.
	DenyForbidden
)

// RequireAccess checks that the caller was granted perm.
func RequireAccess(perm string, deny Deny) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if claims.HasPermission(perm) {
			return c.Next()
		}

		if deny == DenyEmpty {
			return c.JSON(fiber.Map{})
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: Insufficient permissions",
		})
	}
}
