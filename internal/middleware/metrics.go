package middleware

import (
	"ecomcore-backend/internal/pkg/apierror"
	"ecomcore-backend/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request count and latency per route template.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		done := metrics.RequestStarted()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status, _, _ = apierror.Resolve(err)
		}
		route := ""
		if r := c.Route(); r != nil {
			route = r.Path
		}
		done(c.Method(), route, status)
		return err
	}
}
