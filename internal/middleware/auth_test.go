package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchwise/labstock/internal/models"
)

func adminTestApp(role interface{}) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != nil {
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	app.Delete("/guarded", AdminRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAdminRequired(t *testing.T) {
	tests := []struct {
		name     string
		role     interface{}
		wantCode int
	}{
		{"admin passes", models.RoleAdmin, fiber.StatusOK},
		{"user is rejected", models.RoleUser, fiber.StatusForbidden},
		{"missing role is rejected", nil, fiber.StatusForbidden},
		{"wrong type is rejected", "admin", fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := adminTestApp(tt.role)
			resp, err := app.Test(httptest.NewRequest(fiber.MethodDelete, "/guarded", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
		})
	}
}
