package auth

import (
	"errors"

	authsvc "ecomcore-backend/internal/application/auth"
	"ecomcore-backend/internal/middleware"
	"ecomcore-backend/internal/pkg/apierror"
	"ecomcore-backend/internal/pkg/logger"
	"ecomcore-backend/internal/pkg/request"
	"ecomcore-backend/internal/pkg/response"
	"ecomcore-backend/internal/schemas"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service  *authsvc.Service
	Finder   authsvc.UserFinder
	Tokens   *authsvc.Tokens
	Sessions *middleware.SessionStore
	Limiter  *authsvc.LoginLimiter
	Config   middleware.SessionConfig
}

// Register POST /auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	in, err := request.Body[schemas.RegisterRequest](c, schemas.Register)
	if err != nil {
		return response.Fail(c, err)
	}
	u, err := h.Service.Register(c.UserContext(), in)
	if errors.Is(err, authsvc.ErrEmailTaken) {
		return response.Fail(c, apierror.AlreadyExists(err.Error()))
	}
	if err != nil {
		log.Error().Err(err).Msg("auth: register failed")
		return response.Fail(c, apierror.Internal())
	}
	logger.BusinessEvent("customer_registered", map[string]any{"user_id": u.UserID.String()})
	return response.Created(c, fiber.Map{"user": u})
}

// Login POST /auth/login. Starts a session and returns a bearer token as well.
func (h *Handlers) Login(c *fiber.Ctx) error {
	in, err := request.Body[schemas.LoginRequest](c, schemas.Login)
	if err != nil {
		return response.Fail(c, err)
	}
	ctx := c.UserContext()
	allowed, err := h.Limiter.Allow(ctx, in.Email, c.IP())
	if err != nil {
		log.Warn().Err(err).Msg("auth: login rate limiter unavailable")
	}
	if !allowed {
		return response.Fail(c, apierror.RateLimited())
	}

	user, err := h.Finder.FindByEmailAndPassword(ctx, in.Email, in.Password)
	if errors.Is(err, authsvc.ErrInvalidCredentials) {
		return response.Fail(c, apierror.InvalidCredentials())
	}
	if err != nil {
		log.Error().Err(err).Msg("auth: login lookup failed")
		return response.Fail(c, apierror.Internal())
	}
	h.Limiter.Reset(ctx, in.Email, c.IP())

	sid, err := h.Sessions.Create(ctx, middleware.SessionUser{
		UserID: user.UserID.String(),
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		log.Error().Err(err).Msg("auth: create session failed")
		return response.Fail(c, apierror.Internal())
	}
	c.Cookie(middleware.SessionCookie(h.Config, sid))

	logger.BusinessEvent("user_login", map[string]any{"user_id": user.UserID.String(), "role": string(user.Role)})
	out := fiber.Map{"user": user}
	token, exp, err := h.Tokens.Issue(user)
	switch {
	case errors.Is(err, authsvc.ErrNoSecret):
		// session-only login
	case err != nil:
		log.Error().Err(err).Msg("auth: issue token failed")
		return response.Fail(c, apierror.Internal())
	default:
		out["token"] = token
		out["expires_at"] = exp
	}
	return response.Success(c, out)
}

// Me GET /auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	u, err := h.Service.FindByID(c.UserContext(), current.ID)
	if err != nil {
		return response.Fail(c, apierror.NotFound("User"))
	}
	return response.Success(c, fiber.Map{
		"user":        u,
		"permissions": current.Permissions,
	})
}

// Logout DELETE /auth/logout. Clears the session cookie even when no session exists and
// revokes the caller's access tokens.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if current := middleware.CurrentUser(c); current.IsAuthenticated {
		if err := h.Service.RevokeTokens(c.UserContext(), current.ID); err != nil {
			log.Error().Err(err).Msg("auth: revoke tokens failed")
			return response.Fail(c, apierror.Internal())
		}
	}
	if sid := middleware.GetSessionID(c); sid != "" {
		userID := ""
		if su := middleware.GetSessionUser(c); su != nil {
			userID = su.UserID
		}
		if err := h.Sessions.Destroy(c.UserContext(), sid, userID); err != nil {
			log.Warn().Err(err).Msg("auth: destroy session failed")
		}
	}
	c.Cookie(middleware.SessionCookie(h.Config, ""))
	return response.Success(c, fiber.Map{"logged_out": true})
}
