package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecomcore-backend/internal/constants"
	"ecomcore-backend/internal/domain"
	"ecomcore-backend/internal/pkg/apierror"
	"ecomcore-backend/internal/rbac"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "ecomcore-backend"

// ErrNoSecret is returned by Issue when no signing secret is configured.
var ErrNoSecret = errors.New("auth: JWT secret not configured")

// Claims carried by access tokens. Version must match the user's token_version.
type Claims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Role    string `json:"role"`
	Version int    `json:"ver"`
}

// UserLookup loads the current state of a token's subject.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Tokens issues and verifies HS256 access tokens. With Users set, Verify takes the role
// from the database and rejects tokens whose version was revoked.
type Tokens struct {
	Secret []byte
	TTL    time.Duration
	Users  UserLookup
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{Secret: []byte(secret), TTL: ttl, now: time.Now}
}

// Issue signs a token for u and returns it with its expiry.
func (t *Tokens) Issue(u *domain.User) (string, time.Time, error) {
	if len(t.Secret) == 0 {
		return "", time.Time{}, ErrNoSecret
	}
	now := t.clock()
	exp := now.Add(t.TTL)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.UserID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email:   u.Email,
		Role:    string(u.Role),
		Version: u.TokenVersion,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses a token and builds the user context. Failures are *apierror.APIError
// values (TOKEN_EXPIRED or INVALID_TOKEN). An empty secret verifies nothing.
func (t *Tokens) Verify(ctx context.Context, tokenString string) (rbac.UserContext, error) {
	if len(t.Secret) == 0 {
		return rbac.UserContext{}, apierror.InvalidToken()
	}
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(t.clock),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return rbac.UserContext{}, apierror.TokenExpired()
		}
		return rbac.UserContext{}, apierror.InvalidToken()
	}
	if !token.Valid || claims.Subject == "" {
		return rbac.UserContext{}, apierror.InvalidToken()
	}
	if t.Users == nil {
		return rbac.NewUserContext(claims.Subject, claims.Email, constants.Role(claims.Role)), nil
	}
	u, err := t.Users.FindByID(ctx, claims.Subject)
	if err != nil || u.TokenVersion != claims.Version {
		return rbac.UserContext{}, apierror.InvalidToken()
	}
	return rbac.NewUserContext(u.UserID.String(), u.Email, u.Role), nil
}

func (t *Tokens) clock() time.Time {
	if t.now == nil {
		return time.Now()
	}
	return t.now()
}
