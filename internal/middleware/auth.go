// Package middleware provides HTTP middleware for the fiber app.
package middleware

import (
	"strings"

	"bank/internal/models"
	"bank/internal/utils"
	"bank/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TokenParser validates a bearer token and returns its claims.
type TokenParser interface {
	ParseToken(token string) (*models.UserClaims, error)
}

// AuthMiddleware handles JWT token validation and user authentication.
type AuthMiddleware struct {
	tokens TokenParser
	log    *zap.Logger
}

func NewAuthMiddleware(tokens TokenParser, log *zap.Logger) *AuthMiddleware {
	if tokens == nil {
		panic("token parser is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, log: log.Named("auth")}
}

// Handler extracts the Bearer token, validates it and stores the claims
// and user id in the request locals.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return response.Error(c, fiber.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Error(c, fiber.StatusUnauthorized, "invalid authorization format")
	}

	claims, err := m.tokens.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		m.log.Debug("token rejected", zap.String("path", c.Path()), zap.Error(err))
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}

	c.Locals(utils.LocalsClaims, claims)
	c.Locals(utils.LocalsUserID, claims.UserID)
	return c.Next()
}

// RequireRole rejects requests whose claims carry a different role.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return response.Unauthorized(c)
		}
		if claims.Role != role {
			return response.Error(c, fiber.StatusForbidden, "Insufficient permissions")
		}
		return c.Next()
	}
}
