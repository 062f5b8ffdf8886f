package health

import (
	"crypto/subtle"

	healthsvc "ecomcore-backend/internal/application/health"
	"ecomcore-backend/internal/pkg/apierror"
	"ecomcore-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Checker  *healthsvc.Checker
	AdminKey string
}

// JSON GET /health/json. A failing dependency shows as status "issue", still with 200.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	return c.JSON(h.Checker.Collect(c.UserContext()))
}

// Reset POST /health/reset?key=HEALTH_ADMIN_KEY clears the traffic counters.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if h.AdminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.AdminKey)) != 1 {
		return response.Fail(c, apierror.Forbidden())
	}
	if h.Checker.Rdb == nil {
		return response.Fail(c, apierror.New(apierror.CodeExternalService, fiber.StatusServiceUnavailable, "Redis unavailable", nil))
	}
	if err := h.Checker.Reset(c.UserContext()); err != nil {
		log.Error().Err(err).Msg("health: reset failed")
		return response.Fail(c, apierror.Internal())
	}
	return response.Success(c, fiber.Map{"reset": true})
}
