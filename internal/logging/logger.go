package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the process-wide logger. Development mode writes
// human-readable lines with caller info; otherwise JSON.
func Init(isDevelopment bool, level string) {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stdout
	if isDevelopment {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(out).With().Timestamp()
	if isDevelopment {
		l = l.Caller()
	}
	logger = l.Logger()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func Logger() *zerolog.Logger {
	return &logger
}

// NewContext returns a copy of ctx carrying l.
func NewContext(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request-scoped logger, or the global one.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
			return l
		}
	}
	return logger
}

func Info(ctx context.Context) *zerolog.Event {
	l := FromContext(ctx)
	return l.Info()
}

func Error(ctx context.Context) *zerolog.Event {
	l := FromContext(ctx)
	return l.Error()
}

func Debug(ctx context.Context) *zerolog.Event {
	l := FromContext(ctx)
	return l.Debug()
}

func Warn(ctx context.Context) *zerolog.Event {
	l := FromContext(ctx)
	return l.Warn()
}
