package logger

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the severity level of a log entry
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
	LevelFatal LogLevel = "fatal"
)

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// SystemLoggerConfig represents configuration for system logger
type SystemLoggerConfig struct {
	MinLevel    LogLevel
	Service     string
	Version     string
	Environment string
}

// LogContext holds contextual information for logging
type LogContext struct {
	Provider  string
	RequestID string
	Fields    map[string]any
}

// SystemLogger writes structured entries through zap
type SystemLogger struct {
	zap *zap.Logger
}

// NewSystemLogger builds a JSON logger in production and a console logger otherwise
func NewSystemLogger(config SystemLoggerConfig) (*SystemLogger, error) {
	var cfg zap.Config

	if config.Environment == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
		cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if config.MinLevel != "" {
		cfg.Level = zap.NewAtomicLevelAt(config.MinLevel.zapLevel())
	}

	// skip the SystemLogger method and the package-level helper
	base, err := cfg.Build(zap.AddCaller(), zap.AddCallerSkip(2))
	if err != nil {
		return nil, err
	}

	return &SystemLogger{zap: base.With(
		zap.String("service", config.Service),
		zap.String("version", config.Version),
		zap.String("environment", config.Environment),
	)}, nil
}

// NewWithCore wraps an existing zap core, mainly for tests using zaptest/observer
func NewWithCore(core zapcore.Core) *SystemLogger {
	return &SystemLogger{zap: zap.New(core)}
}

// Zap exposes the underlying logger for libraries that want one
func (sl *SystemLogger) Zap() *zap.Logger {
	return sl.zap
}

// Debug logs a debug message
func (sl *SystemLogger) Debug(message string, ctx ...LogContext) {
	sl.zap.Debug(message, fields(ctx)...)
}

// Info logs an info message
func (sl *SystemLogger) Info(message string, ctx ...LogContext) {
	sl.zap.Info(message, fields(ctx)...)
}

// Warn logs a warning message
func (sl *SystemLogger) Warn(message string, ctx ...LogContext) {
	sl.zap.Warn(message, fields(ctx)...)
}

// Error logs an error message
func (sl *SystemLogger) Error(message string, err error, ctx ...LogContext) {
	fs := fields(ctx)
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	sl.zap.Error(message, fs...)
}

// Fatal logs a fatal message and exits
func (sl *SystemLogger) Fatal(message string, err error, ctx ...LogContext) {
	fs := fields(ctx)
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	sl.zap.Fatal(message, fs...)
}

// Sync flushes buffered entries
func (sl *SystemLogger) Sync() {
	_ = sl.zap.Sync()
}

func fields(ctx []LogContext) []zap.Field {
	if len(ctx) == 0 {
		return nil
	}

	logCtx := ctx[0]
	fs := make([]zap.Field, 0, len(logCtx.Fields)+2)
	if logCtx.Provider != "" {
		fs = append(fs, zap.String("provider", logCtx.Provider))
	}
	if logCtx.RequestID != "" {
		fs = append(fs, zap.String("request_id", logCtx.RequestID))
	}

	keys := make([]string, 0, len(logCtx.Fields))
	for key := range logCtx.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fs = append(fs, zap.Any(key, logCtx.Fields[key]))
	}

	return fs
}

// WithContext creates a new logger with context
func (sl *SystemLogger) WithContext(ctx LogContext) *ContextLogger {
	return &ContextLogger{
		systemLogger: sl,
		context:      ctx,
	}
}

// ContextLogger wraps SystemLogger with context
type ContextLogger struct {
	systemLogger *SystemLogger
	context      LogContext
}

// Debug logs a debug message with context
func (cl *ContextLogger) Debug(message string) {
	cl.systemLogger.Debug(message, cl.context)
}

// Info logs an info message with context
func (cl *ContextLogger) Info(message string) {
	cl.systemLogger.Info(message, cl.context)
}

// Warn logs a warning message with context
func (cl *ContextLogger) Warn(message string) {
	cl.systemLogger.Warn(message, cl.context)
}

// Error logs an error message with context
func (cl *ContextLogger) Error(message string, err error) {
	cl.systemLogger.Error(message, err, cl.context)
}

// AddField adds a field to the context
func (cl *ContextLogger) AddField(key string, value any) *ContextLogger {
	if cl.context.Fields == nil {
		cl.context.Fields = make(map[string]any)
	}
	cl.context.Fields[key] = value
	return cl
}

// SetProvider sets the provider in context
func (cl *ContextLogger) SetProvider(provider string) *ContextLogger {
	cl.context.Provider = provider
	return cl
}

// SetRequestID sets the request ID in context
func (cl *ContextLogger) SetRequestID(requestID string) *ContextLogger {
	cl.context.RequestID = requestID
	return cl
}
