package logging

import (
	"fmt"
	"os"

	"il2-rankmod/light/internal/constants"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.SugaredLogger
	globalLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init initializes the global logger with JSON output.
// When logFile is set, every entry is also appended to that file so the
// Career folder keeps a running record of decisions and rolls.
func Init(appEnv string, logFile string) error {
	var config zap.Config

	if appEnv == constants.AppEnvProduction {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	// Ensure output is JSON
	config.Encoding = "json"
	globalLevel.SetLevel(config.Level.Level())
	config.Level = globalLevel

	if logFile != "" {
		config.OutputPaths = append(config.OutputPaths, logFile)
		config.ErrorOutputPaths = append(config.ErrorOutputPaths, logFile)
	}

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	globalLogger = logger.Sugar()
	return nil
}

// SetVerbose lowers the level to debug when the daemon runs with --verbose.
func SetVerbose(verbose bool) {
	if verbose {
		globalLevel.SetLevel(zapcore.DebugLevel)
	}
}

// GetLogger returns the global SugaredLogger for structured logging
func GetLogger() *zap.SugaredLogger {
	if globalLogger == nil {
		// Fallback logger if Init wasn't called
		logger, _ := zap.NewProduction()
		globalLogger = logger.Sugar()
	}
	return globalLogger
}

// Close flushes any buffered logs
func Close() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// Info logs an info message with optional fields
func Info(message string, fields ...interface{}) {
	GetLogger().Infow(message, fields...)
}

// Debug logs a debug message with optional fields
func Debug(message string, fields ...interface{}) {
	GetLogger().Debugw(message, fields...)
}

// Warn logs a warning message with optional fields
func Warn(message string, fields ...interface{}) {
	GetLogger().Warnw(message, fields...)
}

// Error logs an error message with optional fields
func Error(message string, fields ...interface{}) {
	GetLogger().Errorw(message, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(message string, fields ...interface{}) {
	GetLogger().Fatalw(message, fields...)
	os.Exit(1)
}

// With returns a child logger carrying the given fields, e.g. a pass run id.
func With(fields ...interface{}) *zap.SugaredLogger {
	return GetLogger().With(fields...)
}
