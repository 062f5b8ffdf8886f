package middleware

import (
	"errors"
	"slices"
	"strings"

	"ecomcore-backend/internal/constants"
	"ecomcore-backend/internal/pkg/apierror"
	"ecomcore-backend/internal/pkg/metrics"
	"ecomcore-backend/internal/pkg/response"
	"ecomcore-backend/internal/rbac"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RequirePermission allows the request only if the user holds every listed permission.
// Anonymous users get 401, authenticated users lacking a permission get 403.
func RequirePermission(perms ...constants.Permission) fiber.Handler {
	return authorize(perms, false)
}

// RequireAnyPermission allows the request if the user holds at least one listed permission.
func RequireAnyPermission(perms ...constants.Permission) fiber.Handler {
	return authorize(perms, true)
}

func authorize(perms []constants.Permission, anyOf bool) fiber.Handler {
	label := joinPermissions(perms)
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		check := user.Require
		if anyOf {
			check = user.RequireAny
		}
		err := check(perms...)
		switch {
		case errors.Is(err, rbac.ErrUnauthenticated):
			metrics.RecordDenial(label, "unauthenticated")
			return response.Fail(c, apierror.Unauthorized())
		case err != nil:
			metrics.RecordDenial(label, "forbidden")
			log.Warn().Str("request_id", GetRequestID(c)).Str("user_id", user.ID).
				Str("role", string(user.Role)).Str("required", label).
				Strs("granted_to", grantingRoles(perms)).Str("path", c.Path()).
				Msg("authorization denied")
			return response.Fail(c, apierror.New(apierror.CodeInsufficientPermission, fiber.StatusForbidden,
				"You do not have permission to access this resource", fiber.Map{"required": perms}))
		}
		return c.Next()
	}
}

// grantingRoles lists the roles holding any of perms, for denial logs.
func grantingRoles(perms []constants.Permission) []string {
	var out []string
	for _, r := range constants.ValidRoles {
		for _, p := range perms {
			if slices.Contains(constants.RolesWith(p), r) {
				out = append(out, string(r))
				break
			}
		}
	}
	return out
}

func joinPermissions(perms []constants.Permission) string {
	parts := make([]string, len(perms))
	for i, p := range perms {
		parts[i] = string(p)
	}
	return strings.Join(parts, "|")
}
