package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginAttemptsPrefix = "login_attempts:"

// LoginLimiter is a fixed-window counter per email and client IP, kept in Redis.
type LoginLimiter struct {
	Rdb    *redis.Client
	Limit  int
	Window time.Duration
}

// Allow counts one attempt and reports whether it is within the limit.
// A nil limiter or a Redis failure lets the attempt through.
func (l *LoginLimiter) Allow(ctx context.Context, email, ip string) (bool, error) {
	if l == nil || l.Rdb == nil || l.Limit <= 0 {
		return true, nil
	}
	key := fmt.Sprintf("%s%s:%s", loginAttemptsPrefix, strings.ToLower(strings.TrimSpace(email)), ip)
	n, err := l.Rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if n == 1 {
		if err := l.Rdb.Expire(ctx, key, l.window()).Err(); err != nil {
			return true, err
		}
	}
	return n <= int64(l.Limit), nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email, ip string) {
	if l == nil || l.Rdb == nil {
		return
	}
	key := fmt.Sprintf("%s%s:%s", loginAttemptsPrefix, strings.ToLower(strings.TrimSpace(email)), ip)
	_ = l.Rdb.Del(ctx, key).Err()
}

func (l *LoginLimiter) window() time.Duration {
	if l.Window <= 0 {
		return time.Minute
	}
	return l.Window
}
