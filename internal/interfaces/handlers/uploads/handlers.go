package uploads

import (
	"errors"

	uploadsvc "ecomcore-backend/internal/application/uploads"
	"ecomcore-backend/internal/pkg/apierror"
	"ecomcore-backend/internal/pkg/response"
	"ecomcore-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers bundles upload handlers with the service.
type Handlers struct {
	Service *uploadsvc.Service
}

// Upload POST /admin/uploads (multipart field "file"), stored under uploads/.
func (h *Handlers) Upload(c *fiber.Ctx) error {
	if !h.Service.Enabled() {
		return fail(c, uploadsvc.ErrStorageNotConfigured)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return response.Fail(c, apierror.InvalidInput("No file provided. Use multipart/form-data with 'file' field"))
	}
	file, err := uploadsvc.FromMultipart(fh)
	if err != nil {
		return fail(c, err)
	}
	res, err := h.Service.UploadFile(c.UserContext(), file, "uploads")
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, fiber.Map{"file": res})
}

// SignedURL GET /admin/uploads/signed-url?key=
func (h *Handlers) SignedURL(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return response.Fail(c, apierror.InvalidInput("key is required"))
	}
	url, info, err := h.Service.SignedURL(c.UserContext(), key)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, fiber.Map{"key": key, "url": url, "file": info})
}

func fail(c *fiber.Ctx, err error) error {
	if _, ok := validation.AsViolations(err); ok {
		return response.Fail(c, err)
	}
	switch {
	case errors.Is(err, uploadsvc.ErrFileTooLarge):
		return response.Fail(c, apierror.New(apierror.CodeInvalidInput, fiber.StatusRequestEntityTooLarge, err.Error(), nil))
	case errors.Is(err, uploadsvc.ErrFileNotFound):
		return response.Fail(c, apierror.NotFound("File"))
	case errors.Is(err, uploadsvc.ErrStorageNotConfigured):
		return response.Fail(c, apierror.New(apierror.CodeInternal, fiber.StatusInternalServerError, err.Error(), nil))
	case errors.Is(err, uploadsvc.ErrLocalhostURL):
		return response.Fail(c, apierror.New(apierror.CodeInternal, fiber.StatusInternalServerError, err.Error(),
			"Ensure BACKEND_URL and AWS_PUBLIC_URL are set in production"))
	}
	log.Error().Err(err).Msg("upload: storage operation failed")
	return response.Fail(c, apierror.New(apierror.CodeExternalService, fiber.StatusInternalServerError, "Failed to upload to S3", nil))
}
