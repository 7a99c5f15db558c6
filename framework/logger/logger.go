// Package logger holds the process-wide zap logger.
package logger

import (
	"os"

	"go.uber.org/zap"
)

// Log is the shared logger. The kernel replaces it once configuration is
// loaded; until then it follows APP_ENV.
var Log *zap.Logger = New(os.Getenv("APP_ENV"), false)

// New builds a production logger for the "production" environment and a
// development logger otherwise. debug lowers a production logger to Debug.
func New(env string, debug bool) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if env == "production" {
		cfg := zap.NewProductionConfig()
		if debug {
			cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		log, err = cfg.Build()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("logger: unable to build zap logger: " + err.Error())
	}
	return log
}

// Set replaces the shared logger.
func Set(log *zap.Logger) {
	Log = log
}

func Get() *zap.Logger {
	return Log
}

func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	Log.Fatal(msg, fields...)
}
