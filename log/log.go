// Package log provides the structured logging facade used across the
// compiler. It wraps zap so every layer logs through the same Logger
// interface instead of depending on zap directly.
package log

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/irvanherz/entityorm/constants"
)

// Level represents a logging priority. Higher levels are more important.
type Level int8

const (
	// LevelDebug logs are typically voluminous and usually disabled in production.
	LevelDebug Level = iota + 1
	// LevelInfo is the default logging priority.
	LevelInfo
	// LevelWarn logs are more important than Info but don't need individual human review.
	LevelWarn
	// LevelError logs are high-priority; a smoothly running compiler shouldn't generate any.
	LevelError
)

// Logger defines the logging surface every package in this module depends on.
type Logger interface {
	// Named creates a child logger scoped to name.
	Named(name string) Logger
	// Debugf logs a formatted message at Debug level.
	Debugf(template string, args ...any)
	// Infof logs a formatted message at Info level.
	Infof(template string, args ...any)
	// Warnf logs a formatted message at Warn level.
	Warnf(template string, args ...any)
	// Errorf logs a formatted message at Error level.
	Errorf(template string, args ...any)
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

var root = newRoot()

func levelFromEnv() Level {
	switch strings.ToLower(os.Getenv(constants.EnvLogLevel)) {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newRoot() *zapLogger {
	config := zap.Config{
		Level:       zap.NewAtomicLevelAt(toZapLevel(levelFromEnv())),
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:      "time",
			LevelKey:     "level",
			NameKey:      "logger",
			MessageKey:   "message",
			LineEnding:   zapcore.DefaultLineEnding,
			EncodeLevel:  zapcore.CapitalLevelEncoder,
			EncodeTime:   zapcore.ISO8601TimeEncoder,
			EncodeName:   zapcore.FullNameEncoder,
			FunctionKey:  zapcore.OmitKey,
			CallerKey:    zapcore.OmitKey,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := config.Build(zap.WithCaller(false))
	if err != nil {
		panic(err)
	}

	return &zapLogger{sugar: logger.Sugar()}
}

// Named returns a logger scoped under the package root, identified by name.
func Named(name string) Logger {
	return root.Named(name)
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{sugar: l.sugar.Named(name)}
}

func (l *zapLogger) Debugf(template string, args ...any) { l.sugar.Debugf(template, args...) }
func (l *zapLogger) Infof(template string, args ...any)  { l.sugar.Infof(template, args...) }
func (l *zapLogger) Warnf(template string, args ...any)  { l.sugar.Warnf(template, args...) }
func (l *zapLogger) Errorf(template string, args ...any) { l.sugar.Errorf(template, args...) }
