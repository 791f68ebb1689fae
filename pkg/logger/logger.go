// Package logger builds the zap loggers shared by the marketplace binaries.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level       string
	Environment string
	Service     string
}

// New returns a JSON logger in production and a colored console logger
// elsewhere. Every entry carries the service and environment.
func New(cfg Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if cfg.Environment == "production" {
		zc = zap.NewProductionConfig()
		// telemetry failures are only ever visible in the logs
		zc.Sampling = nil
	}

	zc.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.InitialFields = map[string]any{"environment": cfg.Environment}
	if cfg.Service != "" {
		zc.InitialFields["service"] = cfg.Service
	}

	return zc.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}

// ParseLevel falls back to info on unknown input.
func ParseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return l
}
