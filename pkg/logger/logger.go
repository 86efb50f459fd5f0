package logger

import (
	"os"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	level := zerolog.InfoLevel
	if os.Getenv("ENVIRONMENT") == "development" {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}

func Info(format string, v ...interface{}) {
	log.Info().Msgf(format, v...)
}

func Error(format string, v ...interface{}) {
	log.Error().Msgf(format, v...)
}

func Debug(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}

func Warn(format string, v ...interface{}) {
	log.Warn().Msgf(format, v...)
}
