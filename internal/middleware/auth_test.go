package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"bank/internal/models"
	"bank/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser map[string]*models.UserClaims

func (s stubParser) ParseToken(token string) (*models.UserClaims, error) {
	if c, ok := s[token]; ok {
		return c, nil
	}
	return nil, errors.New("bad token")
}

func newApp() *fiber.App {
	mw := NewAuthMiddleware(stubParser{
		"client-token": {UserID: 1, Role: models.RoleClient},
		"staff-token":  {UserID: 2, Role: models.RoleStaff},
	}, nil)

	app := fiber.New()
	app.Get("/me", mw.Handler, func(c *fiber.Ctx) error {
		id, err := utils.GetUserID(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user_id": id})
	})
	app.Get("/staff", mw.Handler, RequireRole(models.RoleStaff), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{name: "valid token", path: "/me", header: "Bearer client-token", want: fiber.StatusOK},
		{name: "missing header", path: "/me", want: fiber.StatusUnauthorized},
		{name: "wrong scheme", path: "/me", header: "Basic abc", want: fiber.StatusUnauthorized},
		{name: "invalid token", path: "/me", header: "Bearer nope", want: fiber.StatusUnauthorized},
		{name: "role allowed", path: "/staff", header: "Bearer staff-token", want: fiber.StatusNoContent},
		{name: "role denied", path: "/staff", header: "Bearer client-token", want: fiber.StatusForbidden},
	}

	app := newApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
