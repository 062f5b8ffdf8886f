package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	SessionCookieName  = "ecom.sid"
	SessionRedisPrefix = "session:"
	UserSessionsPrefix = "user_sessions:"
	sessionMaxAge      = 24 * time.Hour

	sessionIDLocal   = "session_id"
	sessionUserLocal = "session_user"
)

// SessionConfig controls the session cookie flags.
type SessionConfig struct {
	AllowCrossSite bool
	IsProduction   bool
}

// SessionUser is the shape stored in Redis under session:<id>.
type SessionUser struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// SessionStore keeps sessions in Redis and indexes them per user under user_sessions:<user_id>.
type SessionStore struct {
	Rdb *redis.Client
	TTL time.Duration
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{Rdb: rdb, TTL: sessionMaxAge}
}

// Create stores u under a fresh session ID and returns the ID.
func (s *SessionStore) Create(ctx context.Context, u SessionUser) (string, error) {
	id := uuid.New().String()
	b, err := json.Marshal(map[string]SessionUser{"user": u})
	if err != nil {
		return "", err
	}
	if err := s.Rdb.Set(ctx, SessionRedisPrefix+id, b, s.TTL).Err(); err != nil {
		return "", fmt.Errorf("session: save: %w", err)
	}
	if err := s.Rdb.SAdd(ctx, UserSessionsPrefix+u.UserID, id).Err(); err != nil {
		return "", fmt.Errorf("session: index: %w", err)
	}
	return id, nil
}

// Load returns the session's user, or nil when the session is unknown or expired.
func (s *SessionStore) Load(ctx context.Context, id string) (*SessionUser, error) {
	b, err := s.Rdb.Get(ctx, SessionRedisPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var data struct {
		User *SessionUser `json:"user"`
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, nil
	}
	if data.User == nil || data.User.UserID == "" {
		return nil, nil
	}
	return data.User, nil
}

// Destroy removes the session and its entry in the user's index.
func (s *SessionStore) Destroy(ctx context.Context, id, userID string) error {
	if userID != "" {
		_ = s.Rdb.SRem(ctx, UserSessionsPrefix+userID, id).Err()
	}
	return s.Rdb.Del(ctx, SessionRedisPrefix+id).Err()
}

// DestroyAll ends every session of the user, e.g. after a password change.
func (s *SessionStore) DestroyAll(ctx context.Context, userID string) error {
	ids, err := s.Rdb.SMembers(ctx, UserSessionsPrefix+userID).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, SessionRedisPrefix+id)
	}
	keys = append(keys, UserSessionsPrefix+userID)
	return s.Rdb.Del(ctx, keys...).Err()
}

// Session loads the session named by the ecom.sid cookie into Locals.
// A Redis failure is treated as no session.
func Session(store *SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookieName)
		if sessionID == "" || store == nil {
			return c.Next()
		}
		u, err := store.Load(c.UserContext(), sessionID)
		if err == nil && u != nil {
			c.Locals(sessionIDLocal, sessionID)
			c.Locals(sessionUserLocal, u)
		}
		return c.Next()
	}
}

// GetSessionID returns the current session ID ("" if none).
func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(sessionIDLocal).(string)
	return sid
}

// GetSessionUser returns the session user (nil if not logged in via cookie).
func GetSessionUser(c *fiber.Ctx) *SessionUser {
	u, _ := c.Locals(sessionUserLocal).(*SessionUser)
	return u
}

// SessionCookie returns the session cookie carrying value. An empty value expires it.
func SessionCookie(cfg SessionConfig, value string) *fiber.Cookie {
	sameSite := fiber.CookieSameSiteLaxMode
	if cfg.AllowCrossSite {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	cookie := &fiber.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   cfg.IsProduction || cfg.AllowCrossSite,
		SameSite: sameSite,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

// CookieKey derives the 32-byte encryptcookie key from SESSION_SECRET.
func CookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}
