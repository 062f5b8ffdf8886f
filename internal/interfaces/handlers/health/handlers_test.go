package health

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	healthsvc "ecomcore-backend/internal/application/health"
	"ecomcore-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okPinger struct{}

func (okPinger) Ping() error { return nil }

func setupHealth(t *testing.T) (*fiber.App, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	h := &Handlers{
		Checker:  &healthsvc.Checker{Service: "ecomcore-backend", DB: okPinger{}, Rdb: rdb},
		AdminKey: "secret",
	}
	app := fiber.New()
	app.Get("/health/json", h.JSON)
	app.Post("/health/reset", h.Reset)
	return app, mr
}

func TestJSON_OK(t *testing.T) {
	app, _ := setupHealth(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ecomcore-backend", body["service"])
}

func TestJSON_RedisDown(t *testing.T) {
	app, mr := setupHealth(t)
	mr.Close()
	resp, err := app.Test(httptest.NewRequest("GET", "/health/json", nil), 5000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "issue", body["status"])
}

func TestReset(t *testing.T) {
	app, mr := setupHealth(t)
	require.NoError(t, mr.Set(middleware.KeyReqTotal, "7"))

	resp, err := app.Test(httptest.NewRequest("POST", "/health/reset?key=wrong", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.True(t, mr.Exists(middleware.KeyReqTotal))

	resp, err = app.Test(httptest.NewRequest("POST", "/health/reset?key=secret", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.False(t, mr.Exists(middleware.KeyReqTotal))
}
