package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "ARRDASH_LOG_LEVEL"

// LogFileEnvVar overrides the log destination. The dashboard logs to a
// file while the TUI owns the terminal so log lines cannot corrupt the
// frame.
const LogFileEnvVar = "ARRDASH_LOG_FILE"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks ARRDASH_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	return initialize(level, "")
}

// InitializeFromEnv initializes the logger from the ARRDASH_LOG_LEVEL
// environment variable. This is the recommended way to initialize logging
// for CLI commands that want silent mode by default.
func InitializeFromEnv() error {
	return Initialize("")
}

// InitializeFile initializes the logger writing to the given file path,
// for use while the interactive dashboard owns the terminal. The level
// still comes from ARRDASH_LOG_LEVEL; unset means silent.
func InitializeFile(path string) error {
	if env := os.Getenv(LogFileEnvVar); env != "" {
		path = env
	}
	return initialize("", path)
}

func initialize(level, file string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	// If still no level, use silent mode (nop logger)
	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		// Unknown level - use info as default when explicitly set to something
		zapLevel = zapcore.InfoLevel
	}

	output := "stdout"
	encodeLevel := zapcore.CapitalColorLevelEncoder
	if file != "" {
		output = file
		encodeLevel = zapcore.CapitalLevelEncoder
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	// Customize encoder for better readability
	config.EncoderConfig.EncodeLevel = encodeLevel
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		// This ensures no unexpected log output in CLI commands
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogNavigation logs a section transition
func LogNavigation(from, to, outcome string) {
	Debug("Navigation",
		zap.String("from", from),
		zap.String("to", to),
		zap.String("outcome", outcome),
	)
}

// LogAPICall logs a backend API call
func LogAPICall(method, path string, err error) {
	if err != nil {
		Warn("Backend call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}
	Debug("Backend call",
		zap.String("method", method),
		zap.String("path", path),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
