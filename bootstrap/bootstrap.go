package bootstrap

import (
	"ecomcore-backend/internal/config"
	"ecomcore-backend/internal/interfaces/router"
	"ecomcore-backend/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// New loads config, sets up logging and builds the app for serverless deploys (the api
// handler imports this package, not internal).
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.Env, cfg.LogLevel)
	app, _, _, err := router.CreateApp(cfg)
	if err != nil {
		return nil, err
	}
	return app, nil
}
