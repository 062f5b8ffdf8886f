package response

import (
	"time"

	"ecomcore-backend/internal/pkg/apierror"

	"github.com/gofiber/fiber/v2"
)

// RequestIDLocal is the Locals key holding the request id set by middleware.Tracing.
const RequestIDLocal = "request_id"

// Body is the standardized JSON envelope for every response.
type Body struct {
	Success   bool           `json:"success"`
	Data      any            `json:"data,omitempty"`
	Error     *apierror.Body `json:"error,omitempty"`
	Timestamp string         `json:"timestamp"`
	RequestID string         `json:"requestId,omitempty"`
}

// Success sends a 200 OK response with data.
func Success(c *fiber.Ctx, data any) error {
	return send(c, fiber.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 Created response with data.
func Created(c *fiber.Ctx, data any) error {
	return send(c, fiber.StatusCreated, Body{Success: true, Data: data})
}

// Error sends a failure response with the given status and error object.
func Error(c *fiber.Ctx, status int, body apierror.Body) error {
	return send(c, status, Body{Success: false, Error: &body})
}

// Fail resolves err to a status and error object and sends it.
func Fail(c *fiber.Ctx, err error) error {
	status, body, _ := apierror.Resolve(err)
	return Error(c, status, body)
}

func send(c *fiber.Ctx, status int, b Body) error {
	b.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	if id, ok := c.Locals(RequestIDLocal).(string); ok {
		b.RequestID = id
	}
	return c.Status(status).JSON(b)
}
