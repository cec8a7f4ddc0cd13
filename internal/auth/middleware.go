package auth

import (
	"fmt"
	"strings"

	"voyage-backend/internal/config"
	"voyage-backend/internal/database"
	"voyage-backend/internal/models"
	"voyage-backend/internal/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const CtxUserKey = "current_user"

// JWTMiddleware verifies the bearer token and loads the caller with its role
// assignments, department and site, so every downstream decision works from
// an explicit, fully resolved identity.
func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing Authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header must be 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "could not parse token claims")
		}

		var user models.User
		err = database.DB.
			Preload("Roles").
			Preload("Department.Site").
			First(&user, claims.UserID).Error
		if err != nil || !user.IsActive {
			return fiber.NewError(fiber.StatusUnauthorized, "unknown or deactivated user")
		}

		c.Locals(CtxUserKey, &user)
		return c.Next()
	}
}

// CurrentUser returns the identity loaded by JWTMiddleware.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(CtxUserKey).(*models.User)
	if !ok || user == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "no authenticated user")
	}
	return user, nil
}

// RequireRole admits only callers whose effective role is in the allow list.
func RequireRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}

		role := policy.EffectiveRole(user)
		if role == nil {
			return fiber.NewError(fiber.StatusForbidden, "no role assigned")
		}
		for _, code := range allowedRoles {
			if code == role.Code {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "you do not have permission for this operation")
	}
}

// TemporalGuard rejects requests outside the caller's configured day/time
// windows for a resource type. Checked independently of the operation gates.
func TemporalGuard(az *policy.Authorizer, resourceType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}

		allowed, reason, err := az.CheckTemporalAccess(user, resourceType)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not evaluate access window")
		}
		if !allowed {
			return fiber.NewError(fiber.StatusForbidden, reason)
		}
		return c.Next()
	}
}
