package main

import (
	"context"
	"os"

	productsvc "ecomcore-backend/internal/application/products"
	"ecomcore-backend/internal/config"
	"ecomcore-backend/internal/infrastructure/database"
	"ecomcore-backend/internal/pkg/logger"

	"github.com/rs/zerolog/log"
)

// Rewrites product image URLs that still point at localhost to the public file URL and
// upgrades http to https in production. Exits non-zero if local URLs remain.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load: " + err.Error())
	}
	logger.Setup(cfg.Env, cfg.LogLevel)
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Postgres connection failed")
	}

	m := &productsvc.ImageURLMigration{
		DB:            db,
		ProductionURL: cfg.FileBackendURL(),
		Production:    cfg.IsProduction(),
	}
	report, err := m.Run(context.Background())
	if report != nil {
		log.Info().
			Int("total", report.Total).
			Int("fixed", report.Fixed).
			Int("https", report.HTTPS).
			Int("http", report.HTTP).
			Int("localhost_fixed", report.Localhost).
			Int("s3", report.S3).
			Int("r2", report.R2).
			Bool("skipped", report.Skipped).
			Strs("remaining", report.Remaining).
			Msg("image URL migration report")
	}
	if err != nil {
		log.Error().Err(err).Msg("image URL migration incomplete")
		os.Exit(1)
	}
	log.Info().Msg("image URL migration complete")
}
