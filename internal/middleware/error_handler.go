package middleware

import (
	"ecomcore-backend/internal/pkg/apierror"
	"ecomcore-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the global error handler. Returns the standard error format.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, body, unexpected := apierror.Resolve(err)
	if unexpected {
		log.Error().Err(err).Str("request_id", GetRequestID(c)).
			Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
	}
	return response.Error(c, status, body)
}
