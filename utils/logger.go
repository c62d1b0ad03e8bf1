package utils

import (
	"log"
	"sync"

	"habittracker/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global logger instance
var (
	Logger     *zap.Logger
	loggerOnce sync.Once
)

// newLoggerConfig picks the zap preset for the environment. Production logs
// JSON at info, everything else colored console output at debug. A level
// that parses replaces the preset's.
func newLoggerConfig(production bool, level string) zap.Config {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		if parsed, err := zapcore.ParseLevel(level); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(parsed)
		} else {
			log.Printf("Ignoring invalid LOG_LEVEL %q", level)
		}
	}
	return cfg
}

// InitializeLogger sets up the logging configuration
func InitializeLogger() {
	cfg := newLoggerConfig(config.IsProduction(), config.AppConfig.LogLevel)

	var err error
	Logger, err = cfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(Logger)
}

// GetLogger retrieves the global logger
func GetLogger() *zap.Logger {
	loggerOnce.Do(func() {
		if Logger == nil {
			InitializeLogger()
		}
	})
	return Logger
}
