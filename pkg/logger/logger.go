package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	zl zerolog.Logger
}

// New returns a console logger on stderr. stdout is reserved for command output.
func New(levelStr string) *Logger {
	return NewWithWriter(levelStr, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})
}

func NewWithWriter(levelStr string, w io.Writer) *Logger {
	zl := zerolog.New(w).Level(parseLevel(levelStr)).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Nop discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// With returns a child logger that carries key=value on every line.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

func join(v []interface{}) string {
	return strings.TrimSuffix(fmt.Sprintln(v...), "\n")
}

func (l *Logger) Debug(v ...interface{}) {
	l.zl.Debug().Msg(join(v))
}

func (l *Logger) Info(v ...interface{}) {
	l.zl.Info().Msg(join(v))
}

func (l *Logger) Warn(v ...interface{}) {
	l.zl.Warn().Msg(join(v))
}

func (l *Logger) Error(v ...interface{}) {
	l.zl.Error().Msg(join(v))
}

func (l *Logger) Fatal(v ...interface{}) {
	l.zl.WithLevel(zerolog.FatalLevel).Msg(join(v))
	os.Exit(1)
}
