package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process-wide logger: console output for local
// development, JSON elsewhere. LOG_LEVEL overrides the default info level.
func NewLogger(env string) zerolog.Logger {
	out := zerolog.New(os.Stdout)
	if env == "dev" || env == "development" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	level := zerolog.InfoLevel
	if lv, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lv != zerolog.NoLevel {
		level = lv
	}
	return out.Level(level).With().Timestamp().Str("service", "menufront").Logger()
}
