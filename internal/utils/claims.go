package utils

import (
	"errors"

	"bank/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the auth middleware.
const (
	LocalsClaims = "claims"
	LocalsUserID = "userID"
)

// GetUserClaims extracts the user claims from the Fiber context.
func GetUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	v := c.Locals(LocalsClaims)
	if v == nil {
		return nil, errors.New("claims not found in context")
	}

	claims, ok := v.(*models.UserClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}

// GetUserID returns the authenticated user id, or an error when the request
// did not pass the auth middleware.
func GetUserID(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals(LocalsUserID).(uint)
	if !ok || id == 0 {
		return 0, errors.New("user id not found in context")
	}
	return id, nil
}
