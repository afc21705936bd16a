package log

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	// Usable before Init for early startup errors.
	logger = newLogger(zerolog.InfoLevel)
}

// Init configures the global logger with the given level.
// Unknown or empty levels fall back to info.
func Init(level string) {
	lev, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lev == zerolog.NoLevel {
		lev = zerolog.InfoLevel
	}
	logger = newLogger(lev)
}

func newLogger(level zerolog.Level) zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(writer).Level(level)
}

// G returns the underlying logger.
func G() *zerolog.Logger {
	return &logger
}

func Fatal() *zerolog.Event {
	return logger.Fatal().Timestamp()
}

func Error() *zerolog.Event {
	return logger.Error().Timestamp()
}

func Warn() *zerolog.Event {
	return logger.Warn().Timestamp()
}

func Info() *zerolog.Event {
	return logger.Info().Timestamp()
}

func Debug() *zerolog.Event {
	return logger.Debug().Timestamp()
}
