// Package logging builds the slog logger used across the service, backed by zap.
package logging

import (
	"io"
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// New writes to stderr. The returned func flushes buffered entries.
func New(service string, level slog.Level, format string) (*slog.Logger, func()) {
	return NewWithWriter(os.Stderr, service, level, format)
}

func NewWithWriter(w io.Writer, service string, level slog.Level, format string) (*slog.Logger, func()) {
	core := zapcore.NewCore(encoder(format), zapcore.AddSync(w), zap.NewAtomicLevelAt(zapLevel(level)))
	logger := slog.New(zapslog.NewHandler(core, zapslog.WithCaller(true))).With("service", service)
	return logger, func() { _ = core.Sync() }
}

func encoder(format string) zapcore.Encoder {
	if format == "console" {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewConsoleEncoder(cfg)
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// Discard is for tests and tools that do not want output.
func Discard() *slog.Logger {
	return slog.New(zapslog.NewHandler(zapcore.NewNopCore()))
}
