package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"go-approvals/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(skipAuth bool) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(skipAuth), func(c *fiber.Ctx) error {
		actor, _ := ActorFromCtx(c)
		return c.JSON(actor)
	})
	app.Get("/admin", AuthMiddleware(skipAuth), AdminMiddleware(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	utils.SetSecret("middleware-secret")
	token, err := utils.GenerateToken("pm-1", []string{"project_manager"}, time.Hour)
	require.NoError(t, err)
	adminToken, err := utils.GenerateToken("root", []string{"admin"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		skipAuth bool
		path     string
		header   string
		want     int
	}{
		{name: "missing header", path: "/me", want: fiber.StatusUnauthorized},
		{name: "not bearer", path: "/me", header: "Basic abc", want: fiber.StatusUnauthorized},
		{name: "bad token", path: "/me", header: "Bearer nope", want: fiber.StatusUnauthorized},
		{name: "valid token", path: "/me", header: "Bearer " + token, want: fiber.StatusOK},
		{name: "non admin", path: "/admin", header: "Bearer " + token, want: fiber.StatusForbidden},
		{name: "admin", path: "/admin", header: "Bearer " + adminToken, want: fiber.StatusOK},
		{name: "skip auth is admin", skipAuth: true, path: "/admin", want: fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := newTestApp(tt.skipAuth).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
