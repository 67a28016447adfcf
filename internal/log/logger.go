package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Production writes JSON lines at info;
// other environments get a console writer at debug. A parseable level
// overrides either default.
func New(environment, service, level string) zerolog.Logger {
	var out io.Writer = os.Stdout
	if environment != "production" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return newLogger(out, environment, service, level)
}

func newLogger(out io.Writer, environment, service, level string) zerolog.Logger {
	return zerolog.New(out).
		Level(resolveLevel(environment, level)).
		With().
		Timestamp().
		Str("env", environment).
		Str("service", service).
		Logger()
}

func resolveLevel(environment, level string) zerolog.Level {
	if level = strings.TrimSpace(level); level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
			return parsed
		}
	}
	if environment == "production" {
		return zerolog.InfoLevel
	}
	return zerolog.DebugLevel
}
