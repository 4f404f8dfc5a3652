package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger emits one JSON line per event with a stable service tag and an
// action name, so log pipelines can filter on either.
type Logger struct {
	zl zerolog.Logger
}

func New(service string) *Logger {
	return NewTo(service, os.Stdout)
}

func NewTo(service string, w io.Writer) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zl := zerolog.New(w).With().
		Timestamp().
		Str("service", service).
		Logger()
	return &Logger{zl: zl}
}

func (l *Logger) Info(action string, fields map[string]any) {
	l.zl.Info().Fields(fields).Msg(action)
}

func (l *Logger) Debug(action string, fields map[string]any) {
	l.zl.Debug().Fields(fields).Msg(action)
}

func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.zl.Error().Err(err).Fields(fields).Msg(action)
}
