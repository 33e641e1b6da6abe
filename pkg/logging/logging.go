// Package logging wraps zap behind package-level helpers so components log
// structured entries without threading a logger through every constructor.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var l = zap.NewNop()

// Init configures the global logger for the given environment. Production
// gets JSON output with ISO8601 timestamps, everything else gets the
// development console encoder.
func Init(env string) {
	var cfg zap.Config

	if env == "production" || env == "prod" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}

	l = logger
}

// Info logs at info level.
func Info(msg string, fields ...zap.Field) {
	l.Info(msg, fields...)
}

// Warn logs at warn level.
func Warn(msg string, fields ...zap.Field) {
	l.Warn(msg, fields...)
}

// Error logs at error level.
func Error(msg string, fields ...zap.Field) {
	l.Error(msg, fields...)
}

// Debug logs at debug level.
func Debug(msg string, fields ...zap.Field) {
	l.Debug(msg, fields...)
}

// Sync flushes buffered log entries.
func Sync() error {
	return l.Sync()
}
