package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log = New(os.Stdout)

// New builds a JSON logger writing to w.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

func Init() {
	Setup(os.Stdout, "info", "json")
}

// Setup replaces the package logger. format is "json" or "console".
func Setup(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	log = New(w).Level(lvl)
}

// Info logs msg with optional key/value pairs.
func Info(msg string, kv ...interface{}) {
	log.Info().Fields(kv).Msg(msg)
}

func Infof(format string, v ...interface{}) {
	log.Info().Msgf(format, v...)
}

func Warn(msg string, kv ...interface{}) {
	log.Warn().Fields(kv).Msg(msg)
}

func Error(msg string, kv ...interface{}) {
	log.Error().Fields(kv).Msg(msg)
}

func Errorf(format string, v ...interface{}) {
	log.Error().Msgf(format, v...)
}

func Debug(msg string, kv ...interface{}) {
	log.Debug().Fields(kv).Msg(msg)
}

func Debugf(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}

func Fatal(msg string, kv ...interface{}) {
	log.Fatal().Fields(kv).Msg(msg)
}

func Fatalf(format string, v ...interface{}) {
	log.Fatal().Msgf(format, v...)
}
