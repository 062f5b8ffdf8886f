package users

import (
	"errors"

	usersvc "ecomcore-backend/internal/application/users"
	"ecomcore-backend/internal/middleware"
	"ecomcore-backend/internal/pkg/apierror"
	"ecomcore-backend/internal/pkg/logger"
	"ecomcore-backend/internal/pkg/request"
	"ecomcore-backend/internal/pkg/response"
	"ecomcore-backend/internal/rbac"
	"ecomcore-backend/internal/schemas"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers bundles staff and customer account endpoints.
type Handlers struct {
	Service *usersvc.Service
}

// CreateUser POST /admin/users
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	in, err := request.Body[schemas.CreateUserRequest](c, schemas.CreateUser)
	if err != nil {
		return response.Fail(c, err)
	}
	created, err := h.Service.CreateUser(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	logger.BusinessEvent("staff_user_created", map[string]any{
		"user_id":    created.User.UserID.String(),
		"role":       string(created.User.Role),
		"created_by": middleware.CurrentUser(c).ID,
	})
	return response.Created(c, created)
}

// UpdateUser PATCH /admin/users/:id
func (h *Handlers) UpdateUser(c *fiber.Ctx) error {
	in, err := request.Body[schemas.UpdateUserRequest](c, schemas.UpdateUser)
	if err != nil {
		return response.Fail(c, err)
	}
	u, err := h.Service.UpdateUser(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, fiber.Map{"user": u})
}

// UpdateCustomer POST /store/customers/:id
func (h *Handlers) UpdateCustomer(c *fiber.Ctx) error {
	in, err := request.Body[schemas.UpdateCustomerRequest](c, schemas.UpdateCustomer)
	if err != nil {
		return response.Fail(c, err)
	}
	u, err := h.Service.UpdateCustomer(c.UserContext(), middleware.CurrentUser(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, fiber.Map{"customer": u})
}

// ChangePassword POST /store/customers/:id/password
func (h *Handlers) ChangePassword(c *fiber.Ctx) error {
	in, err := request.Body[schemas.ChangePasswordRequest](c, schemas.ChangePassword)
	if err != nil {
		return response.Fail(c, err)
	}
	if err := h.Service.ChangePassword(c.UserContext(), middleware.CurrentUser(c), c.Params("id"), in); err != nil {
		return fail(c, err)
	}
	return response.Success(c, fiber.Map{"password_changed": true})
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, rbac.ErrUnauthenticated):
		return response.Fail(c, apierror.Unauthorized())
	case errors.Is(err, rbac.ErrForbidden):
		return response.Fail(c, apierror.Forbidden())
	case errors.Is(err, usersvc.ErrUserNotFound):
		return response.Fail(c, apierror.NotFound("User"))
	case errors.Is(err, usersvc.ErrEmailTaken):
		return response.Fail(c, apierror.AlreadyExists(err.Error()))
	case errors.Is(err, usersvc.ErrWrongPassword):
		return response.Fail(c, apierror.InvalidInput(err.Error()))
	case errors.Is(err, usersvc.ErrNotCustomer):
		return response.Fail(c, apierror.NotFound("Customer"))
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("users: unexpected error")
	return response.Fail(c, apierror.Internal())
}
