package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	globalLogger zerolog.Logger
	once         sync.Once
)

// GetLogger returns the process logger, a console logger at info level until New is called.
func GetLogger() zerolog.Logger {
	once.Do(func() {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		globalLogger = zerolog.New(consoleWriter).With().Timestamp().Logger().Level(zerolog.InfoLevel)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})
	return globalLogger
}

// New builds the process logger from level and format ("json" or "console") and replaces the global one.
func New(level, format, service string) (zerolog.Logger, error) {
	GetLogger()

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, err
	}

	var base zerolog.Logger
	switch strings.ToLower(format) {
	case "json":
		base = zerolog.New(os.Stdout)
	case "console":
		base = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	default:
		return zerolog.Logger{}, fmt.Errorf("unsupported log format %q", format)
	}

	ctx := base.With().Timestamp()
	if service != "" {
		ctx = ctx.Str("service", service)
	}

	zerolog.SetGlobalLevel(lvl)
	globalLogger = ctx.Logger().Level(lvl)

	return globalLogger, nil
}
