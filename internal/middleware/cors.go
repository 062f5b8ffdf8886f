package middleware

import (
	"slices"
	"strings"

	"ecomcore-backend/internal/pkg/apierror"
	"ecomcore-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig holds the allowed origins for storefront and admin routes.
type CORSConfig struct {
	StoreOrigins []string
	AdminOrigins []string
	AllowLocal   bool // accept http://localhost:* and http://127.0.0.1:* (non-production)
}

// CORS allows origins listed for the route family (/admin/* uses AdminOrigins, the rest
// StoreOrigins). Credentials are allowed.
func CORS(cfg CORSConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		// No origin (same-origin or tools): allow
		if origin == "" {
			return c.Next()
		}
		allowed := cfg.StoreOrigins
		if strings.HasPrefix(c.Path(), "/admin") {
			allowed = cfg.AdminOrigins
		}
		ok := slices.Contains(allowed, origin) ||
			(cfg.AllowLocal && (strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")))
		if !ok {
			return response.Fail(c, apierror.New(apierror.CodeForbidden, fiber.StatusForbidden, "Not allowed by CORS", nil))
		}
		setCORSHeaders(c, origin)
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}

func setCORSHeaders(c *fiber.Ctx, origin string) {
	c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
	c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
	c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type, Authorization, X-Request-Id")
	c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, PATCH, DELETE, OPTIONS")
	c.Set(fiber.HeaderVary, fiber.HeaderOrigin)
}
