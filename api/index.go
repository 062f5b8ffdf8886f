package handler

import (
	"net/http"
	"sync"

	"ecomcore-backend/bootstrap"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog/log"
)

var (
	once     sync.Once
	fiberApp *fiber.App
	initErr  error
)

// Handler is the serverless entry point. The app is built on the first request so a cold
// start with bad config answers 500 instead of crashing the function.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		fiberApp, initErr = bootstrap.New()
		if initErr != nil {
			log.Error().Err(initErr).Msg("app create failed")
		}
	})
	if initErr != nil {
		http.Error(w, `{"success":false,"error":{"code":"INTERNAL_SERVER_ERROR","message":"Service unavailable"}}`, http.StatusInternalServerError)
		return
	}
	r.RequestURI = r.URL.String()
	adaptor.FiberApp(fiberApp)(w, r)
}
