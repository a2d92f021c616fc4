package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func New(service string, level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, service, level)
}

// NewWithWriter is New with an explicit sink. An unknown or empty level
// falls back to info.
func NewWithWriter(w io.Writer, service string, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
