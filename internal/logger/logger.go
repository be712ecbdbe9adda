// Package logger provides the process-wide zap SugaredLogger.
// Level and encoder come from LOG_LEVEL and ENVIRONMENT.
package logger

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.SugaredLogger
	once   sync.Once
)

func initLogger() {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		level = zapcore.InfoLevel
	}

	var cfg zap.Config
	if os.Getenv("ENVIRONMENT") == "production" {
		cfg = zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	logger = zapLogger.Sugar()
}

// GetLogger returns the shared logger, building it on first use.
func GetLogger() *zap.SugaredLogger {
	once.Do(initLogger)
	return logger
}

// Named returns a child logger tagged with the component name.
func Named(component string) *zap.SugaredLogger {
	return GetLogger().Named(component)
}

// Close flushes buffered entries. Call it before the process exits.
func Close() error {
	if logger == nil {
		return nil
	}
	return logger.Sync()
}
