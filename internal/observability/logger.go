package observability

import (
	"os"

	"github.com/rs/zerolog"
)

type Logger struct {
	log zerolog.Logger
}

func NewLogger() *Logger {
	return &Logger{
		log: zerolog.New(os.Stdout).With().Timestamp().Str("service", "projmatch-api").Logger(),
	}
}

func (l *Logger) Info(msg string) {
	l.log.Info().Msg(msg)
}

func (l *Logger) Error(msg string) {
	l.log.Error().Msg(msg)
}
