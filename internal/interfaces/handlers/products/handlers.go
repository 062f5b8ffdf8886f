package products

import (
	"errors"

	productsvc "ecomcore-backend/internal/application/products"
	uploadsvc "ecomcore-backend/internal/application/uploads"
	"ecomcore-backend/internal/pkg/apierror"
	"ecomcore-backend/internal/pkg/logger"
	"ecomcore-backend/internal/pkg/request"
	"ecomcore-backend/internal/pkg/response"
	"ecomcore-backend/internal/pkg/validation"
	"ecomcore-backend/internal/schemas"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers bundles catalogue endpoints.
type Handlers struct {
	Service *productsvc.Service
}

// List GET /store/products
func (h *Handlers) List(c *fiber.Ctx) error {
	q, err := request.Query[schemas.PaginationQuery](c, schemas.Pagination)
	if err != nil {
		return response.Fail(c, err)
	}
	res, err := h.Service.List(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, res)
}

// Create POST /admin/products
func (h *Handlers) Create(c *fiber.Ctx) error {
	in, err := request.Body[schemas.ProductCreateRequest](c, schemas.ProductCreate)
	if err != nil {
		return response.Fail(c, err)
	}
	p, err := h.Service.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	logger.BusinessEvent("product_created", map[string]any{"product_id": p.ProductID.String(), "handle": p.Handle})
	return response.Created(c, fiber.Map{"product": p})
}

// Update POST /admin/products/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	in, err := request.Body[schemas.ProductUpdateRequest](c, schemas.ProductUpdate)
	if err != nil {
		return response.Fail(c, err)
	}
	p, err := h.Service.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, fiber.Map{"product": p})
}

// Delete DELETE /admin/products/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	if err := h.Service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	logger.BusinessEvent("product_deleted", map[string]any{"product_id": c.Params("id")})
	return response.Success(c, fiber.Map{"id": c.Params("id"), "deleted": true})
}

// AddImage POST /admin/products/:id/images (multipart field "file")
func (h *Handlers) AddImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return response.Fail(c, apierror.InvalidInput("No file provided. Use multipart/form-data with 'file' field"))
	}
	file, err := uploadsvc.FromMultipart(fh)
	if err != nil {
		return fail(c, err)
	}
	res, err := h.Service.AddImage(c.UserContext(), c.Params("id"), file)
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, res)
}

// ListImages GET /admin/products/:id/images
func (h *Handlers) ListImages(c *fiber.Ctx) error {
	images, err := h.Service.ListImages(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, fiber.Map{"images": images, "count": len(images)})
}

func fail(c *fiber.Ctx, err error) error {
	if _, ok := validation.AsViolations(err); ok {
		return response.Fail(c, err)
	}
	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		return response.Fail(c, err)
	case errors.Is(err, productsvc.ErrProductNotFound):
		return response.Fail(c, apierror.NotFound("Product"))
	case errors.Is(err, productsvc.ErrHandleTaken):
		return response.Fail(c, apierror.AlreadyExists(err.Error()))
	case errors.Is(err, productsvc.ErrNotImage):
		return response.Fail(c, apierror.New(apierror.CodeInvalidInput, fiber.StatusBadRequest, err.Error(),
			fiber.Map{"accepted": productsvc.AcceptedImageTypes}))
	case errors.Is(err, productsvc.ErrLocalImageURL):
		return response.Fail(c, apierror.New(apierror.CodeInvalidInput, fiber.StatusBadRequest,
			productsvc.ErrLocalImageURL.Error(), nil))
	case errors.Is(err, uploadsvc.ErrFileTooLarge):
		return response.Fail(c, apierror.New(apierror.CodeInvalidInput, fiber.StatusRequestEntityTooLarge, err.Error(), nil))
	case errors.Is(err, uploadsvc.ErrStorageNotConfigured):
		return response.Fail(c, apierror.New(apierror.CodeInternal, fiber.StatusInternalServerError, err.Error(),
			"AWS S3 credentials are missing from environment variables"))
	case errors.Is(err, uploadsvc.ErrLocalhostURL):
		return response.Fail(c, apierror.New(apierror.CodeInternal, fiber.StatusInternalServerError, err.Error(),
			"Ensure BACKEND_URL and AWS_PUBLIC_URL are set in production"))
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("products: unexpected error")
	return response.Fail(c, apierror.New(apierror.CodeOperationFailed, fiber.StatusInternalServerError, "Operation failed", nil))
}
