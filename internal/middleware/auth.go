package middleware

import (
	"context"
	"strings"

	"ecomcore-backend/internal/constants"
	"ecomcore-backend/internal/pkg/apierror"
	"ecomcore-backend/internal/pkg/response"
	"ecomcore-backend/internal/rbac"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// TokenVerifier turns a bearer token into a user context.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (rbac.UserContext, error)
}

// Authenticate resolves the requester: bearer token first, then session cookie,
// otherwise the anonymous context. It always sets a UserContext. A bad bearer token is
// rejected rather than downgraded to anonymous. With a nil verifier bearer tokens are
// ignored.
func Authenticate(tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := rbac.Anonymous()
		if bearer, ok := bearerToken(c); ok && tokens != nil {
			u, err := tokens.Verify(c.UserContext(), bearer)
			if err != nil {
				return response.Fail(c, err)
			}
			user = u
		} else if su := GetSessionUser(c); su != nil {
			user = rbac.NewUserContext(su.UserID, su.Email, constants.Role(su.Role))
		}
		SetUser(c, user)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	t := strings.TrimSpace(h[7:])
	return t, t != ""
}

// SetUser stores the requester in Locals.
func SetUser(c *fiber.Ctx, u rbac.UserContext) {
	c.Locals(userLocal, u)
}

// CurrentUser returns the requester, or the anonymous context when none was set.
func CurrentUser(c *fiber.Ctx) rbac.UserContext {
	if u, ok := c.Locals(userLocal).(rbac.UserContext); ok {
		return u
	}
	return rbac.Anonymous()
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CurrentUser(c).IsAuthenticated {
			return response.Fail(c, apierror.Unauthorized())
		}
		return c.Next()
	}
}
