package logger

import (
	"os"

	"github.com/rs/zerolog"
)

func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	// Stderr keeps stdout free for transports that own it (MCP stdio).
	return zerolog.New(os.Stderr).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}
