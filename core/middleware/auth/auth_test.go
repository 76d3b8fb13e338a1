package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	newApp := func(key string) *fiber.App {
		app := fiber.New()
		app.Use(New(Config{ApiKey: key}))
		app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
		return app
	}

	tests := []struct {
		name   string
		key    string
		header string
		value  string
		want   int
	}{
		{"Valid key", "secret", Header, "secret", fiber.StatusOK},
		{"Bearer token", "secret", fiber.HeaderAuthorization, "Bearer secret", fiber.StatusOK},
		{"Wrong key", "secret", Header, "guess", fiber.StatusUnauthorized},
		{"Missing key", "secret", "", "", fiber.StatusUnauthorized},
		{"Auth disabled", "", "", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := newApp(tt.key).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
