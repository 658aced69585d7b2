package middleware

import (
	"context"
	"slices"

	common_models "chums-admin/internal/common/models"
	"chums-admin/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// AuthMiddleware validates JWT tokens and injects user claims into context
func AuthMiddleware(skipAuth bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			// Development identity with every permission
			devClaims := &utils.UserClaims{
				UserID:      "dev-admin-id",
				ChurchID:    "dev-church-id",
				Permissions: slices.Clone(AllPermissions),
			}
			return next(c, devClaims)
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		// Extract token from "Bearer <token>"
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		token := authHeader[7:]
		claims, err := utils.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		return next(c, claims)
	}
}

// next stores claims on both the fiber locals and the user context so that
// services and the upstream client see the same identity.
func next(c *fiber.Ctx, claims *utils.UserClaims) error {
	c.Locals(utils.UserClaimsKey, claims)

	requestID := c.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(RequestIDHeader, requestID)

	ctx := utils.WithClaims(c.UserContext(), claims)
	ctx = context.WithValue(ctx, common_models.RequestIDKey, requestID)
	c.SetUserContext(ctx)
	return c.Next()
}

// Claims returns the identity stored by AuthMiddleware, or nil.
func Claims(c *fiber.Ctx) *utils.UserClaims {
	claims, _ := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	return claims
}
