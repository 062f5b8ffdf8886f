package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Service is attached to every log line.
const Service = "ecomcore-backend"

// Setup configures the global zerolog logger: JSON in production, console output
// elsewhere. An unknown level falls back to info.
func Setup(env, level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if env == "production" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", Service).Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}).
		With().Timestamp().Str("service", Service).Logger()
}

// BusinessEvent logs a domain event such as "product_created" at info level.
func BusinessEvent(event string, fields map[string]any) {
	log.Info().Str("event", event).Fields(fields).Msg("Business Event: " + event)
}
