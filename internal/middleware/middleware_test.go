package middleware

import (
	"Health-Tracker-Backend/domain"
	"Health-Tracker-Backend/pkg/jwt"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(svc jwt.JWTService) *fiber.App {
	app := fiber.New()
	app.Get("/me", NewMiddleware().AuthMiddleware(svc), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id"), "role": c.Locals("role")})
	})
	return app
}

func TestAuthMiddlewareAcceptsBearerToken(t *testing.T) {
	svc := jwt.NewJWTServiceWithSecret("test-secret")
	app := newProtectedApp(svc)

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+svc.GenerateTokenUser("user-1", domain.RoleUser))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "user-1", body["user_id"])
	assert.Equal(t, domain.RoleUser, body["role"])
}

func TestAuthMiddlewareRejects(t *testing.T) {
	svc := jwt.NewJWTServiceWithSecret("test-secret")
	other := jwt.NewJWTServiceWithSecret("other-secret")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"bad signature", "Bearer " + other.GenerateTokenUser("user-1", domain.RoleUser)},
		{"garbage", "Bearer nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := newProtectedApp(svc).Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}
