package request

import (
	"bytes"

	"ecomcore-backend/internal/pkg/apierror"
	"ecomcore-backend/internal/pkg/metrics"
	"ecomcore-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// Body decodes the JSON body, checks it against s and returns the typed result.
// An empty body is checked as an empty object.
func Body[T any](c *fiber.Ctx, s *validation.Schema) (T, error) {
	var zero T
	data := map[string]any{}
	if raw := c.Body(); len(bytes.TrimSpace(raw)) > 0 {
		if err := c.App().Config().JSONDecoder(raw, &data); err != nil {
			return zero, apierror.InvalidInput("Request body must be a JSON object")
		}
	}
	return check[T](c, s, data)
}

// Query checks the query string against s. Values arrive as strings, so numeric fields
// in s should be coerced.
func Query[T any](c *fiber.Ctx, s *validation.Schema) (T, error) {
	data := map[string]any{}
	for k, v := range c.Queries() {
		data[k] = v
	}
	return check[T](c, s, data)
}

func check[T any](c *fiber.Ctx, s *validation.Schema, data map[string]any) (T, error) {
	out, err := validation.Validate[T](c.UserContext(), s, data)
	if err != nil {
		if _, ok := validation.AsViolations(err); ok {
			metrics.RecordValidationFailure(s.Name())
		}
		return out, err
	}
	return out, nil
}
