package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Redis keys for the traffic counters shown by /health/json.
const (
	KeyReqTotal  = "health:ecomcore:req_total"
	KeyReqErrors = "health:ecomcore:req_errors"
	KeyResTime   = "health:ecomcore:res_time_total"
	KeyResCount  = "health:ecomcore:res_count"
	KeyStartTime = "health:ecomcore:start_time"
	KeyLastReq   = "health:ecomcore:last_request"
)

// HealthMarker records request stats in Redis (skips /health*, /metrics, favicon).
// Counter writes are pipelined and best effort.
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if rdb == nil || strings.HasPrefix(path, "/health") || path == "/metrics" || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		lastReq, _ := json.Marshal(map[string]any{
			"time":   start,
			"path":   c.OriginalURL(),
			"method": c.Method(),
		})

		err := c.Next()

		status := c.Response().StatusCode()
		ms := time.Since(start).Milliseconds()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_, _ = rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, KeyLastReq, lastReq, 0)
			p.Incr(ctx, KeyReqTotal)
			p.Incr(ctx, KeyResCount)
			p.IncrByFloat(ctx, KeyResTime, float64(ms))
			p.SetNX(ctx, KeyStartTime, start.UnixMilli(), 0)
			if status >= 500 {
				p.Incr(ctx, KeyReqErrors)
			}
			return nil
		})
		return err
	}
}
