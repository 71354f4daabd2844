package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	globalLogger *SystemLogger
	mu           sync.RWMutex
)

// InitGlobalLogger builds the process logger. Later calls replace the previous one.
func InitGlobalLogger(config SystemLoggerConfig) error {
	if config.MinLevel == "" {
		config.MinLevel = LevelInfo
		if config.Environment == "development" {
			config.MinLevel = LevelDebug
		}
	}

	l, err := NewSystemLogger(config)
	if err != nil {
		return err
	}

	SetGlobalLogger(l)
	return nil
}

// SetGlobalLogger swaps the process logger
func SetGlobalLogger(l *SystemLogger) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = l
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *SystemLogger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()

	if l == nil {
		// nop until main wires a real one
		return &SystemLogger{zap: zap.NewNop()}
	}
	return l
}

// Sync flushes the global logger
func Sync() {
	GetGlobalLogger().Sync()
}

// Debug logs a debug message using the global logger
func Debug(message string, ctx ...LogContext) {
	GetGlobalLogger().Debug(message, ctx...)
}

// Info logs an info message using the global logger
func Info(message string, ctx ...LogContext) {
	GetGlobalLogger().Info(message, ctx...)
}

// Warn logs a warning message using the global logger
func Warn(message string, ctx ...LogContext) {
	GetGlobalLogger().Warn(message, ctx...)
}

// Error logs an error message using the global logger
func Error(message string, err error, ctx ...LogContext) {
	GetGlobalLogger().Error(message, err, ctx...)
}

// Fatal logs a fatal message using the global logger and exits
func Fatal(message string, err error, ctx ...LogContext) {
	GetGlobalLogger().Fatal(message, err, ctx...)
}

// WithContext creates a context logger from the global logger
func WithContext(ctx LogContext) *ContextLogger {
	return GetGlobalLogger().WithContext(ctx)
}

// WithProvider creates a context logger with provider
func WithProvider(provider string) *ContextLogger {
	return WithContext(LogContext{Provider: provider})
}

// WithRequest creates a context logger with provider and request ID
func WithRequest(provider, requestID string) *ContextLogger {
	return WithContext(LogContext{
		Provider:  provider,
		RequestID: requestID,
	})
}
